package models

import (
	"fmt"
	"strings"
	"time"

	"finledger/internal/errs"
	"finledger/internal/money"
)

var (
	ErrOwnerRequired           = fmt.Errorf("%w: owner user id is required", errs.ErrValidation)
	ErrNameRequired            = fmt.Errorf("%w: name is required", errs.ErrValidation)
	ErrAccountRequired         = fmt.Errorf("%w: account is required", errs.ErrValidation)
	ErrCategoryRequired        = fmt.Errorf("%w: category is required", errs.ErrValidation)
	ErrAmountRequired          = fmt.Errorf("%w: amount is required", errs.ErrValidation)
	ErrDateRequired            = fmt.Errorf("%w: transaction date is required", errs.ErrValidation)
	ErrInvalidTransactionType  = fmt.Errorf("%w: transaction type must be INCOME or EXPENSE", errs.ErrValidation)
	ErrOwnerMismatch           = fmt.Errorf("%w: account and category belong to different owners", errs.ErrValidation)
	ErrMalformedTransactionDay = fmt.Errorf("%w: date must be formatted as YYYY-MM-DD", errs.ErrValidation)
)

const DateLayout = "2006-01-02"

type TransactionType string

const (
	TransactionIncome  TransactionType = "INCOME"
	TransactionExpense TransactionType = "EXPENSE"
)

func ParseTransactionType(raw string) (TransactionType, error) {
	switch TransactionType(strings.ToUpper(strings.TrimSpace(raw))) {
	case TransactionIncome:
		return TransactionIncome, nil
	case TransactionExpense:
		return TransactionExpense, nil
	default:
		return "", ErrInvalidTransactionType
	}
}

func (t TransactionType) Valid() bool {
	return t == TransactionIncome || t == TransactionExpense
}

type Account struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID string    `json:"owner_user_id"`
	Currency    string    `json:"currency"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// NewAccount builds an unsaved account stamped with now.
func NewAccount(name, currency, ownerUserID string, now time.Time) (Account, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Account{}, ErrOwnerRequired
	}
	code, err := money.NormalizeCurrency(currency)
	if err != nil {
		return Account{}, err
	}
	return Account{
		Name:        strings.TrimSpace(name),
		OwnerUserID: ownerUserID,
		Currency:    code,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

type Category struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	OwnerUserID string    `json:"owner_user_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

func NewCategory(name, ownerUserID string, now time.Time) (Category, error) {
	if strings.TrimSpace(ownerUserID) == "" {
		return Category{}, ErrOwnerRequired
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return Category{}, ErrNameRequired
	}
	return Category{
		Name:        trimmed,
		OwnerUserID: ownerUserID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// Transaction carries no owner of its own; see OwnerOf.
type Transaction struct {
	ID              string          `json:"id"`
	Account         Account         `json:"account"`
	Category        Category        `json:"category"`
	Type            TransactionType `json:"type"`
	Amount          money.Amount    `json:"amount"`
	Description     string          `json:"description"`
	TransactionDate time.Time       `json:"transaction_date"`
	CreatedAt       time.Time       `json:"created_at"`
	UpdatedAt       time.Time       `json:"updated_at"`
}

// OwnerOf derives the owning user from the transaction's account.
func OwnerOf(transaction Transaction) string {
	return transaction.Account.OwnerUserID
}

// Validate checks the rules every persisted transaction must hold,
// including that account and category share one owner.
func (t Transaction) Validate() error {
	if t.Account.ID == "" {
		return ErrAccountRequired
	}
	if t.Category.ID == "" {
		return ErrCategoryRequired
	}
	if !t.Type.Valid() {
		return ErrInvalidTransactionType
	}
	if t.Amount.IsZero() {
		return ErrAmountRequired
	}
	if t.TransactionDate.IsZero() {
		return ErrDateRequired
	}
	if t.Account.OwnerUserID == "" || t.Account.OwnerUserID != t.Category.OwnerUserID {
		return ErrOwnerMismatch
	}
	return nil
}

// ParseDate reads a calendar date and returns midnight UTC of that day.
func ParseDate(raw string) (time.Time, error) {
	parsed, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, ErrMalformedTransactionDay
	}
	return parsed, nil
}

// DateOf truncates t to its calendar day in UTC.
func DateOf(t time.Time) time.Time {
	year, month, day := t.Date()
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}
