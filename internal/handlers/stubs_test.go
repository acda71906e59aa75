package handlers

import (
	"context"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"finledger/internal/auth"
	"finledger/internal/config"
	"finledger/internal/metrics"
	"finledger/internal/models"
	"finledger/internal/services"
	"finledger/internal/websocket"

	"github.com/rs/zerolog"
)

const (
	testSecret    = "secret"
	testUserID    = "user-1"
	testAccountID = "7c9e6679-7425-40de-944b-e07fc1f90ae7"
	testCategory  = "9b2f1c1e-52a4-4f7e-9d56-3f2a3b7f9a10"
	testTxID      = "3f1d2c4b-8a7e-4c1d-9e2f-1a2b3c4d5e6f"
)

type stubAccountService struct {
	createFn  func(ctx context.Context, name, currency, ownerUserID string) (models.Account, error)
	getByIDFn func(ctx context.Context, accountID, ownerUserID string) (models.Account, error)
	patchFn   func(ctx context.Context, accountID, ownerUserID string, patch services.AccountPatch) (models.Account, error)
	deleteFn  func(ctx context.Context, accountID, ownerUserID string) error
	listFn    func(ctx context.Context, page models.PageQuery, ownerUserID string) (models.Page[models.Account], error)
}

func (s stubAccountService) Create(ctx context.Context, name, currency, ownerUserID string) (models.Account, error) {
	if s.createFn == nil {
		return models.Account{}, nil
	}
	return s.createFn(ctx, name, currency, ownerUserID)
}

func (s stubAccountService) GetByID(ctx context.Context, accountID, ownerUserID string) (models.Account, error) {
	if s.getByIDFn == nil {
		return models.Account{}, nil
	}
	return s.getByIDFn(ctx, accountID, ownerUserID)
}

func (s stubAccountService) Patch(ctx context.Context, accountID, ownerUserID string, patch services.AccountPatch) (models.Account, error) {
	if s.patchFn == nil {
		return models.Account{}, nil
	}
	return s.patchFn(ctx, accountID, ownerUserID, patch)
}

func (s stubAccountService) Delete(ctx context.Context, accountID, ownerUserID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, accountID, ownerUserID)
}

func (s stubAccountService) ListPaged(ctx context.Context, page models.PageQuery, ownerUserID string) (models.Page[models.Account], error) {
	if s.listFn == nil {
		return models.NewPage[models.Account](nil, page, 0), nil
	}
	return s.listFn(ctx, page, ownerUserID)
}

type stubCategoryService struct {
	createFn  func(ctx context.Context, name, ownerUserID string) (models.Category, error)
	getByIDFn func(ctx context.Context, categoryID, ownerUserID string) (models.Category, error)
	patchFn   func(ctx context.Context, categoryID, ownerUserID string, patch services.CategoryPatch) (models.Category, error)
	deleteFn  func(ctx context.Context, categoryID, ownerUserID string) error
	listFn    func(ctx context.Context, page models.PageQuery, ownerUserID string) (models.Page[models.Category], error)
}

func (s stubCategoryService) Create(ctx context.Context, name, ownerUserID string) (models.Category, error) {
	if s.createFn == nil {
		return models.Category{}, nil
	}
	return s.createFn(ctx, name, ownerUserID)
}

func (s stubCategoryService) GetByID(ctx context.Context, categoryID, ownerUserID string) (models.Category, error) {
	if s.getByIDFn == nil {
		return models.Category{}, nil
	}
	return s.getByIDFn(ctx, categoryID, ownerUserID)
}

func (s stubCategoryService) Patch(ctx context.Context, categoryID, ownerUserID string, patch services.CategoryPatch) (models.Category, error) {
	if s.patchFn == nil {
		return models.Category{}, nil
	}
	return s.patchFn(ctx, categoryID, ownerUserID, patch)
}

func (s stubCategoryService) Delete(ctx context.Context, categoryID, ownerUserID string) error {
	if s.deleteFn == nil {
		return nil
	}
	return s.deleteFn(ctx, categoryID, ownerUserID)
}

func (s stubCategoryService) ListPaged(ctx context.Context, page models.PageQuery, ownerUserID string) (models.Page[models.Category], error) {
	if s.listFn == nil {
		return models.NewPage[models.Category](nil, page, 0), nil
	}
	return s.listFn(ctx, page, ownerUserID)
}

type stubTransactionService struct {
	addFn     func(ctx context.Context, cmd services.AddTransactionCommand) (models.Transaction, error)
	getByIDFn func(ctx context.Context, transactionID, userID string) (models.Transaction, error)
	patchFn   func(ctx context.Context, cmd services.PatchTransactionCommand) (models.Transaction, error)
	deleteFn  func(ctx context.Context, transactionID, userID string) (int64, error)
	summaryFn func(ctx context.Context, query models.SummaryQuery) (models.SummarySeries, error)
	listFn    func(ctx context.Context, page models.PageQuery, userID string) (models.Page[models.Transaction], error)
}

func (s stubTransactionService) Add(ctx context.Context, cmd services.AddTransactionCommand) (models.Transaction, error) {
	if s.addFn == nil {
		return models.Transaction{}, nil
	}
	return s.addFn(ctx, cmd)
}

func (s stubTransactionService) GetByID(ctx context.Context, transactionID, userID string) (models.Transaction, error) {
	if s.getByIDFn == nil {
		return models.Transaction{}, nil
	}
	return s.getByIDFn(ctx, transactionID, userID)
}

func (s stubTransactionService) Patch(ctx context.Context, cmd services.PatchTransactionCommand) (models.Transaction, error) {
	if s.patchFn == nil {
		return models.Transaction{}, nil
	}
	return s.patchFn(ctx, cmd)
}

func (s stubTransactionService) Delete(ctx context.Context, transactionID, userID string) (int64, error) {
	if s.deleteFn == nil {
		return 0, nil
	}
	return s.deleteFn(ctx, transactionID, userID)
}

func (s stubTransactionService) GetSummary(ctx context.Context, query models.SummaryQuery) (models.SummarySeries, error) {
	if s.summaryFn == nil {
		return models.SummarySeries{Type: query.Type, Points: []models.SummaryPoint{}}, nil
	}
	return s.summaryFn(ctx, query)
}

func (s stubTransactionService) ListPaged(ctx context.Context, page models.PageQuery, userID string) (models.Page[models.Transaction], error) {
	if s.listFn == nil {
		return models.NewPage[models.Transaction](nil, page, 0), nil
	}
	return s.listFn(ctx, page, userID)
}

func newTestHandler(accounts AccountService, categories CategoryService, transactions TransactionService) *Handler {
	cfg := config.Config{
		AppEnv:         "test",
		Port:           "0",
		StorageBackend: config.BackendMemory,
		JWTSecret:      testSecret,
		AllowedOrigins: "*",
	}
	return New(cfg, accounts, categories, transactions, websocket.NewHub(), metrics.NewCollector(), zerolog.Nop())
}

// serve sends the request through the full router as testUserID.
func serve(t *testing.T, h *Handler, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	token, err := auth.GenerateToken(testSecret, testUserID, time.Minute)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Authorization", "Bearer "+token)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, req)
	return rr
}

func serveAnonymous(h *Handler, method, target string) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	h.Routes().ServeHTTP(rr, httptest.NewRequest(method, target, nil))
	return rr
}
