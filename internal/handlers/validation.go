package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"finledger/internal/errs"
	"finledger/internal/models"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
)

const (
	defaultPageSize  = 10
	defaultDirection = "DESC"
)

var (
	errInvalidPayload = fmt.Errorf("%w: invalid payload", errs.ErrValidation)
	errInvalidID      = fmt.Errorf("%w: id must be a UUID", errs.ErrValidation)
)

func parseID(raw string) (string, error) {
	id, err := uuid.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", errInvalidID
	}
	return id.String(), nil
}

func pathID(r *http.Request) (string, error) {
	return parseID(chi.URLParam(r, "id"))
}

// parsePageQuery reads page, size, sort and direction. Direction and sort
// field are checked further down, where the columns are known.
func parsePageQuery(r *http.Request, defaultSort string) (models.PageQuery, error) {
	query := r.URL.Query()
	page, err := queryInt(query.Get("page"), 0)
	if err != nil {
		return models.PageQuery{}, err
	}
	size, err := queryInt(query.Get("size"), defaultPageSize)
	if err != nil {
		return models.PageQuery{}, err
	}
	sort := query.Get("sort")
	if sort == "" {
		sort = defaultSort
	}
	direction := query.Get("direction")
	if direction == "" {
		direction = defaultDirection
	}
	return models.PageQuery{Page: page, Size: size, Sort: sort, Direction: direction}, nil
}

func queryInt(raw string, fallback int) (int, error) {
	if raw == "" {
		return fallback, nil
	}
	value, err := strconv.Atoi(raw)
	if err != nil {
		return 0, models.ErrInvalidPage
	}
	return value, nil
}

// parseSummaryQuery builds the caller's summary request from the query
// string. The owner list is always the caller alone.
func parseSummaryQuery(r *http.Request, userID string) (models.SummaryQuery, error) {
	query := r.URL.Query()
	summaryType, err := models.ParseSummaryType(query.Get("type"))
	if err != nil {
		return models.SummaryQuery{}, err
	}
	from, err := models.ParseDate(query.Get("from"))
	if err != nil {
		return models.SummaryQuery{}, err
	}
	to, err := models.ParseDate(query.Get("to"))
	if err != nil {
		return models.SummaryQuery{}, err
	}
	var transactionType *models.TransactionType
	if raw := query.Get("transactionType"); raw != "" {
		parsed, err := models.ParseTransactionType(raw)
		if err != nil {
			return models.SummaryQuery{}, err
		}
		transactionType = &parsed
	}
	return models.NewSummaryQuery(summaryType, from, to, []string{userID}, transactionType)
}
