package models

import (
	"fmt"
	"strings"
	"time"

	"finledger/internal/errs"

	"github.com/shopspring/decimal"
)

var (
	ErrUnsupportedSummaryType = fmt.Errorf("%w: unsupported summary type", errs.ErrIllegalArgument)
	ErrInvalidDateRange       = fmt.Errorf("%w: date range must have from <= to", errs.ErrValidation)
	ErrOwnersRequired         = fmt.Errorf("%w: at least one owner user id is required", errs.ErrValidation)
)

type SummaryType string

const (
	SummaryCategory SummaryType = "CATEGORY"
	SummaryDaily    SummaryType = "DAILY"
	SummaryMonthly  SummaryType = "MONTHLY"
	SummaryYearly   SummaryType = "YEARLY"
)

func ParseSummaryType(raw string) (SummaryType, error) {
	switch SummaryType(strings.ToUpper(strings.TrimSpace(raw))) {
	case SummaryCategory:
		return SummaryCategory, nil
	case SummaryDaily:
		return SummaryDaily, nil
	case SummaryMonthly:
		return SummaryMonthly, nil
	case SummaryYearly:
		return SummaryYearly, nil
	default:
		return "", ErrUnsupportedSummaryType
	}
}

type SummaryPoint struct {
	Label string          `json:"label"`
	Total decimal.Decimal `json:"total"`
}

type SummarySeries struct {
	Type   SummaryType    `json:"type"`
	Points []SummaryPoint `json:"points"`
}

// SummaryQuery selects the transactions to aggregate. From and To are
// inclusive calendar days.
type SummaryQuery struct {
	Type            SummaryType
	From            time.Time
	To              time.Time
	OwnerUserIDs    []string
	TransactionType *TransactionType
}

func NewSummaryQuery(summaryType SummaryType, from, to time.Time, ownerUserIDs []string, transactionType *TransactionType) (SummaryQuery, error) {
	if from.IsZero() || to.IsZero() {
		return SummaryQuery{}, ErrInvalidDateRange
	}
	from, to = DateOf(from), DateOf(to)
	if from.After(to) {
		return SummaryQuery{}, ErrInvalidDateRange
	}
	owners := make([]string, 0, len(ownerUserIDs))
	for _, owner := range ownerUserIDs {
		if strings.TrimSpace(owner) != "" {
			owners = append(owners, owner)
		}
	}
	if len(owners) == 0 {
		return SummaryQuery{}, ErrOwnersRequired
	}
	if transactionType != nil && !transactionType.Valid() {
		return SummaryQuery{}, ErrInvalidTransactionType
	}
	return SummaryQuery{
		Type:            summaryType,
		From:            from,
		To:              to,
		OwnerUserIDs:    owners,
		TransactionType: transactionType,
	}, nil
}

// Matches applies the filter shared by every summary granularity.
func (q SummaryQuery) Matches(transaction Transaction) bool {
	day := DateOf(transaction.TransactionDate)
	if day.Before(q.From) || day.After(q.To) {
		return false
	}
	if q.TransactionType != nil && transaction.Type != *q.TransactionType {
		return false
	}
	owner := OwnerOf(transaction)
	for _, candidate := range q.OwnerUserIDs {
		if candidate == owner {
			return true
		}
	}
	return false
}
