package handlers

import (
	"net/http"

	"finledger/internal/middleware"
	"finledger/internal/models"
	"finledger/internal/services"
)

type createAccountRequest struct {
	Name     string `json:"name"`
	Currency string `json:"currency"`
}

type patchAccountRequest struct {
	Name     models.Optional[string] `json:"name"`
	Currency models.Optional[string] `json:"currency"`
}

func callerID(w http.ResponseWriter, r *http.Request) (string, bool) {
	userID, ok := middleware.UserIDFromContext(r.Context())
	if !ok || userID == "" {
		respondError(w, http.StatusUnauthorized, "unauthorized")
		return "", false
	}
	return userID, true
}

func (h *Handler) ListAccounts(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	page, err := parsePageQuery(r, "createdAt")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	accounts, err := h.accounts.ListPaged(r.Context(), page, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, accounts)
}

func (h *Handler) CreateAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	account, err := h.accounts.Create(r.Context(), req.Name, req.Currency, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/accounts/"+account.ID)
	respondJSON(w, http.StatusCreated, account)
}

func (h *Handler) GetAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	account, err := h.accounts.GetByID(r.Context(), accountID, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) PatchAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	var req patchAccountRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	account, err := h.accounts.Patch(r.Context(), accountID, userID, services.AccountPatch{
		Name:     req.Name,
		Currency: req.Currency,
	})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, account)
}

func (h *Handler) DeleteAccount(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	accountID, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := h.accounts.Delete(r.Context(), accountID, userID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
