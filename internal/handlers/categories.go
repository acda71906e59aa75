package handlers

import (
	"net/http"

	"finledger/internal/models"
	"finledger/internal/services"
)

type createCategoryRequest struct {
	Name string `json:"name"`
}

type patchCategoryRequest struct {
	Name models.Optional[string] `json:"name"`
}

func (h *Handler) ListCategories(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	page, err := parsePageQuery(r, "createdAt")
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	categories, err := h.categories.ListPaged(r.Context(), page, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

func (h *Handler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	var req createCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	category, err := h.categories.Create(r.Context(), req.Name, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.Header().Set("Location", "/api/categories/"+category.ID)
	respondJSON(w, http.StatusCreated, category)
}

func (h *Handler) GetCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	categoryID, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	category, err := h.categories.GetByID(r.Context(), categoryID, userID)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (h *Handler) PatchCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	categoryID, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	var req patchCategoryRequest
	if err := decodeJSON(r, &req); err != nil {
		respondServiceError(w, r, err)
		return
	}
	category, err := h.categories.Patch(r.Context(), categoryID, userID, services.CategoryPatch{Name: req.Name})
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	respondJSON(w, http.StatusOK, category)
}

func (h *Handler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	userID, ok := callerID(w, r)
	if !ok {
		return
	}
	categoryID, err := pathID(r)
	if err != nil {
		respondServiceError(w, r, err)
		return
	}
	if err := h.categories.Delete(r.Context(), categoryID, userID); err != nil {
		respondServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
