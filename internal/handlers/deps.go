package handlers

import (
	"context"

	"finledger/internal/models"
	"finledger/internal/services"
)

type AccountService interface {
	Create(ctx context.Context, name, currency, ownerUserID string) (models.Account, error)
	GetByID(ctx context.Context, accountID, ownerUserID string) (models.Account, error)
	Patch(ctx context.Context, accountID, ownerUserID string, patch services.AccountPatch) (models.Account, error)
	Delete(ctx context.Context, accountID, ownerUserID string) error
	ListPaged(ctx context.Context, page models.PageQuery, ownerUserID string) (models.Page[models.Account], error)
}

type CategoryService interface {
	Create(ctx context.Context, name, ownerUserID string) (models.Category, error)
	GetByID(ctx context.Context, categoryID, ownerUserID string) (models.Category, error)
	Patch(ctx context.Context, categoryID, ownerUserID string, patch services.CategoryPatch) (models.Category, error)
	Delete(ctx context.Context, categoryID, ownerUserID string) error
	ListPaged(ctx context.Context, page models.PageQuery, ownerUserID string) (models.Page[models.Category], error)
}

type TransactionService interface {
	Add(ctx context.Context, cmd services.AddTransactionCommand) (models.Transaction, error)
	GetByID(ctx context.Context, transactionID, userID string) (models.Transaction, error)
	Patch(ctx context.Context, cmd services.PatchTransactionCommand) (models.Transaction, error)
	Delete(ctx context.Context, transactionID, userID string) (int64, error)
	GetSummary(ctx context.Context, query models.SummaryQuery) (models.SummarySeries, error)
	ListPaged(ctx context.Context, page models.PageQuery, userID string) (models.Page[models.Transaction], error)
}
