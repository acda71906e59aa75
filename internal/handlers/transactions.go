package handlers

import (
	"net/http"

	"finledger/internal/models"
	"finledger/internal/services"

	"github.com/shopspring/decimal"
)

type addTransactionRequest struct {
	AccountID       string           `json:"account_id"`
	CategoryID      string           `json:"category_id"`
	Type            string           `json:"type"`
	Amount          *decimal.Decimal `json:"amount"`
	Currency        string           `json:"currency"`
	Description     string           `json:"description"`
	TransactionDate string           `json:"transaction_date"`
}

func (req addTransactionRequest) command(userID string) (services.AddTransactionCommand, error) {
	accountID, err := parseID(req.AccountID)
	if err != nil {
		return services.AddTransactionCommand{}, models.ErrAccountRequired
	}
	categoryID, err := parseID(req.CategoryID)
	if err != nil {
		return services.AddTransactionCommand{}, models.ErrCategoryRequired
	}
	transactionType, err := models.ParseTransactionType(req.Type)
	if err != nil {
		return services.AddTransactionCommand{}, err
	}
	if req.Amount == nil {
		return services.AddTransactionCommand{}, models.ErrAmountRequired
	}
	if req.TransactionDate == "" {
		return services.AddTransactionCommand{}, models.ErrDateRequired
	}
	date, err := models.ParseDate(req.TransactionDate)
	if err != nil {
		return services.AddTransactionCommand{}, err
	}
	return services.AddTransactionCommand{
		UserID:          userID,
		AccountID:       accountID,
		CategoryID:      categoryID,
		Type:            transactionType,
		Amount:          *req.Amount,
		Currency:        req.Currency,
		Description:     req.Description,
		TransactionDate: date,
	}, nil
}

type patchTransactionRequest struct {
	AccountID       models.Optional[string]           `json:"account_id"`
	CategoryID      models.Optional[string]           `json:"category_id"`
	Type            models.Optional[string]           `json:"type"`
	Amount          models.Optional[*decimal.Decimal] `json:"amount"`
	Currency        models.Optional[string]           `json:"currency"`
	Description     models.Optional[string]           `json:"description"`
	TransactionDate models.Optional[string]           `json:"transaction_date"`
}

func (req patchTransactionRequest) command(transactionID, userID string) (services.PatchTransactionCommand, error) {
	cmd := services.PatchTransactionCommand{
		ID:          transactionID,
		UserID:      userID,
		Currency:    req.Currency,
		Description: req.Description,
	}
	var err error
	if cmd.AccountID, err = parseOptional(req.AccountID, parseID); err != nil {
		return cmd, err
	}
	if cmd.CategoryID, err = parseOptional(req.CategoryID, parseID); err != nil {
		return cmd, err
	}
	if cmd.Type, err = parseOptional(req.Type, models.ParseTransactionType); err != nil {
		return cmd, err
	}
	if cmd.Amount, err = parseOptional(req.Amount, requiredAmount); err != nil {
		return cmd, err
	}
	if cmd.TransactionDate, err = parseOptional(req.TransactionDate, models.ParseDate); err != nil {
		return cmd, err
	}
	return cmd, nil
}

// requiredAmount rejects an explicit null; an amount cannot be cleared.
func requiredAmount(amount *decimal.Decimal) (decimal.Decimal, error) {
	if amount == nil {
		return decimal.Decimal{}, models.ErrAmountRequired
	}
	return *amount, nil
}

// parseOptional converts a present field and leaves an absent one absent.
func parseOptional[T, U any](field models.Optional[T], parse func(T) (U, error)) (models.Optional[U], error) {
	raw, ok := field.Get()
	if !ok {
		return models.Optional[U]{}, nil
	}
	value, err := parse(raw)
	if err != nil {
		return models.Optional[U]{}, err
	}
	return models.Some(value), nil
}

func (h *Handler) ListTransactions(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	page, err := parsePageQuery(r, "transactionDate")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	transactions, err := h.transactions.ListPaged(r.Context(), page, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, transactions)
}

func (h *Handler) AddTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req addTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	cmd, err := req.command(userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	transaction, err := h.transactions.Add(r.Context(), cmd)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/transactions/"+transaction.ID)
	respondJSON(w, http.StatusCreated, transaction)
}

func (h *Handler) GetTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	transactionID, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	transaction, err := h.transactions.GetByID(r.Context(), transactionID, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, transaction)
}

func (h *Handler) PatchTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	transactionID, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	var req patchTransactionRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	cmd, err := req.command(transactionID, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	transaction, err := h.transactions.Patch(r.Context(), cmd)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, transaction)
}

// DeleteTransaction answers 204 whether or not a row was removed.
func (h *Handler) DeleteTransaction(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	transactionID, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if _, err := h.transactions.Delete(r.Context(), transactionID, userID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) TransactionSummary(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	query, err := parseSummaryQuery(r, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	series, err := h.transactions.GetSummary(r.Context(), query)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	h.metrics.RecordSummary(string(series.Type))
	respondJSON(w, http.StatusOK, series)
}
