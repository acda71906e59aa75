package services

import (
	"bytes"
	"context"
	"database/sql"
	"errors"
	"strings"
	"testing"
	"time"

	"finledger/internal/logger"
	"finledger/internal/models"
	"finledger/internal/money"
	"finledger/internal/store"
	"finledger/internal/websocket"

	"github.com/shopspring/decimal"
)

func storedTransaction() models.Transaction {
	return models.Transaction{
		ID:              "tx-1",
		Account:         ownedAccount(),
		Category:        ownedCategory(),
		Type:            models.TransactionExpense,
		Amount:          money.MustAmount("250", "USD"),
		Description:     "groceries",
		TransactionDate: time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		CreatedAt:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
		UpdatedAt:       time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC),
	}
}

func transactionLookup(transaction models.Transaction) func(context.Context, store.Getter, string) (models.Transaction, error) {
	return func(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
		if transactionID != transaction.ID {
			return models.Transaction{}, sql.ErrNoRows
		}
		return transaction, nil
	}
}

func newTransactionServiceForTest(accounts AccountLookup, categories CategoryLookup, transactions TransactionStore, events TransactionEvents) *TransactionService {
	service := NewTransactionService(fakeTxRunner{}, accounts, categories, transactions, SummaryGenerators{}, events)
	service.now = func() time.Time { return fixedNow }
	return service
}

func TestTransactionServiceAddResolvesOwnedEntities(t *testing.T) {
	events := &recordingEvents{}
	var saved models.Transaction
	service := newTransactionServiceForTest(
		stubAccountStore{getByIDFn: accountLookup(ownedAccount())},
		stubCategoryStore{getByIDFn: categoryLookup(ownedCategory())},
		stubTransactionStore{saveFn: func(_ context.Context, _ store.Tx, transaction models.Transaction) (models.Transaction, error) {
			saved = transaction
			transaction.ID = "tx-9"
			return transaction, nil
		}},
		events,
	)
	result, err := service.Add(context.Background(), AddTransactionCommand{
		UserID:          "user-1",
		AccountID:       "acc-1",
		CategoryID:      "cat-1",
		Type:            models.TransactionExpense,
		Amount:          decimal.RequireFromString("12.50"),
		TransactionDate: time.Date(2026, 3, 2, 18, 45, 0, 0, time.UTC),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Account.ID != "acc-1" || saved.Category.ID != "cat-1" || saved.Amount.Currency() != "USD" {
		t.Fatalf("unexpected saved transaction: %#v", saved)
	}
	if !saved.TransactionDate.Equal(time.Date(2026, 3, 2, 0, 0, 0, 0, time.UTC)) || !saved.CreatedAt.Equal(fixedNow) {
		t.Fatalf("unexpected dates: %s %s", saved.TransactionDate, saved.CreatedAt)
	}
	got := events.For("user-1")
	if len(got) != 1 || got[0].Kind != websocket.TransactionCreated || got[0].TransactionID != result.ID || got[0].Amount != "12.5" {
		t.Fatalf("unexpected events: %#v", got)
	}
}

func TestTransactionServiceAddCrossOwnerFailsBeforePersistence(t *testing.T) {
	foreignCategory := ownedCategory()
	foreignCategory.OwnerUserID = "user-2"
	events := &recordingEvents{}
	service := newTransactionServiceForTest(
		stubAccountStore{getByIDFn: accountLookup(ownedAccount())},
		stubCategoryStore{getByIDFn: categoryLookup(foreignCategory)},
		stubTransactionStore{saveFn: func(context.Context, store.Tx, models.Transaction) (models.Transaction, error) {
			t.Fatalf("save should not be called")
			return models.Transaction{}, nil
		}},
		events,
	)
	_, err := service.Add(context.Background(), AddTransactionCommand{
		UserID:          "user-1",
		AccountID:       "acc-1",
		CategoryID:      "cat-1",
		Type:            models.TransactionIncome,
		Amount:          decimal.NewFromInt(10),
		TransactionDate: fixedNow,
	})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
	if len(events.For("user-1")) != 0 {
		t.Fatalf("expected no events")
	}
}

func TestTransactionServiceAddRejectsNegativeAmount(t *testing.T) {
	service := newTransactionServiceForTest(
		stubAccountStore{getByIDFn: accountLookup(ownedAccount())},
		stubCategoryStore{getByIDFn: categoryLookup(ownedCategory())},
		stubTransactionStore{saveFn: func(context.Context, store.Tx, models.Transaction) (models.Transaction, error) {
			t.Fatalf("save should not be called")
			return models.Transaction{}, nil
		}},
		nil,
	)
	_, err := service.Add(context.Background(), AddTransactionCommand{
		UserID: "user-1", AccountID: "acc-1", CategoryID: "cat-1",
		Type: models.TransactionExpense, Amount: decimal.NewFromInt(-5), TransactionDate: fixedNow,
	})
	if !errors.Is(err, money.ErrInvalidAmount) {
		t.Fatalf("expected ErrInvalidAmount, got %v", err)
	}
}

func TestTransactionServicePatchKeepsAbsentFields(t *testing.T) {
	var saved models.Transaction
	service := newTransactionServiceForTest(
		stubAccountStore{getByIDFn: accountLookup(ownedAccount())},
		stubCategoryStore{getByIDFn: categoryLookup(ownedCategory())},
		stubTransactionStore{
			getByIDFn: transactionLookup(storedTransaction()),
			saveFn: func(_ context.Context, _ store.Tx, transaction models.Transaction) (models.Transaction, error) {
				saved = transaction
				return transaction, nil
			},
		},
		nil,
	)
	_, err := service.Patch(context.Background(), PatchTransactionCommand{
		ID:     "tx-1",
		UserID: "user-1",
		Amount: models.Some(decimal.NewFromInt(300)),
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	original := storedTransaction()
	if !saved.Amount.Equal(money.MustAmount("300", "USD")) {
		t.Fatalf("unexpected amount: %s", saved.Amount)
	}
	if saved.Description != original.Description || saved.Type != original.Type || !saved.TransactionDate.Equal(original.TransactionDate) {
		t.Fatalf("absent fields changed: %#v", saved)
	}
	if !saved.UpdatedAt.Equal(fixedNow) || !saved.CreatedAt.Equal(original.CreatedAt) {
		t.Fatalf("unexpected timestamps: %#v", saved)
	}
}

func TestTransactionServicePatchForeignCategoryDoesNotPersist(t *testing.T) {
	foreign := models.Category{ID: "cat-2", Name: "RENT", OwnerUserID: "user-2"}
	service := newTransactionServiceForTest(
		stubAccountStore{getByIDFn: accountLookup(ownedAccount())},
		stubCategoryStore{getByIDFn: categoryLookup(foreign)},
		stubTransactionStore{
			getByIDFn: transactionLookup(storedTransaction()),
			saveFn: func(context.Context, store.Tx, models.Transaction) (models.Transaction, error) {
				t.Fatalf("save should not be called")
				return models.Transaction{}, nil
			},
		},
		nil,
	)
	_, err := service.Patch(context.Background(), PatchTransactionCommand{ID: "tx-1", UserID: "user-1", CategoryID: models.Some("cat-2")})
	if !errors.Is(err, ErrCategoryNotFound) {
		t.Fatalf("expected ErrCategoryNotFound, got %v", err)
	}
}

func TestTransactionServicePatchForeignTransactionIsNotFound(t *testing.T) {
	service := newTransactionServiceForTest(
		stubAccountStore{getByIDFn: accountLookup(ownedAccount())},
		stubCategoryStore{getByIDFn: categoryLookup(ownedCategory())},
		stubTransactionStore{getByIDFn: transactionLookup(storedTransaction())},
		nil,
	)
	_, err := service.Patch(context.Background(), PatchTransactionCommand{ID: "tx-1", UserID: "user-2", Description: models.Some("")})
	if !errors.Is(err, ErrTransactionNotFound) {
		t.Fatalf("expected ErrTransactionNotFound, got %v", err)
	}
}

func TestTransactionServiceDeleteZeroRowsIsSilent(t *testing.T) {
	events := &recordingEvents{}
	service := newTransactionServiceForTest(nil, nil, stubTransactionStore{
		deleteFn: func(_ context.Context, _ store.Execer, transactionID, ownerUserID string) (int64, error) {
			return 0, nil
		},
	}, events)
	rows, err := service.Delete(context.Background(), "missing", "user-1")
	if err != nil || rows != 0 {
		t.Fatalf("expected silent zero-row delete, got %d %v", rows, err)
	}
	if len(events.For("user-1")) != 0 {
		t.Fatalf("expected no events for a no-op delete")
	}
}

func TestTransactionServiceDeletePublishesEvent(t *testing.T) {
	events := &recordingEvents{}
	service := newTransactionServiceForTest(nil, nil, stubTransactionStore{
		deleteFn: func(context.Context, store.Execer, string, string) (int64, error) {
			return 1, nil
		},
	}, events)
	rows, err := service.Delete(context.Background(), "tx-1", "user-1")
	if err != nil || rows != 1 {
		t.Fatalf("unexpected result: %d %v", rows, err)
	}
	got := events.For("user-1")
	if len(got) != 1 || got[0].Kind != websocket.TransactionDeleted || got[0].TransactionID != "tx-1" {
		t.Fatalf("unexpected events: %#v", got)
	}
}

func TestTransactionServiceGetSummaryUnsupportedType(t *testing.T) {
	service := NewTransactionService(fakeTxRunner{}, nil, nil, nil, SummaryGenerators{
		Daily: func(context.Context, models.SummaryQuery) ([]models.SummaryPoint, error) { return nil, nil },
	}, nil)
	_, err := service.GetSummary(context.Background(), models.SummaryQuery{Type: models.SummaryYearly})
	if !errors.Is(err, models.ErrUnsupportedSummaryType) {
		t.Fatalf("expected ErrUnsupportedSummaryType, got %v", err)
	}
	series, err := service.GetSummary(context.Background(), models.SummaryQuery{Type: models.SummaryDaily})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if series.Type != models.SummaryDaily || series.Points == nil || len(series.Points) != 0 {
		t.Fatalf("expected empty point list, got %#v", series)
	}
}

func TestTransactionServiceDeleteLogsOnlyRemovedRows(t *testing.T) {
	var buf bytes.Buffer
	ctx := logger.WithContext(context.Background(), logger.NewWithWriter(&buf, "info"))
	rows := int64(0)
	service := newTransactionServiceForTest(nil, nil, stubTransactionStore{
		deleteFn: func(context.Context, store.Execer, string, string) (int64, error) {
			return rows, nil
		},
	}, &recordingEvents{})

	if _, err := service.Delete(ctx, "tx-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if buf.Len() != 0 {
		t.Fatalf("expected no log line for a no-op delete, got: %s", buf.String())
	}
	rows = 1
	if _, err := service.Delete(ctx, "tx-1", "user-1"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), `"transaction_id":"tx-1"`) {
		t.Fatalf("expected delete log line, got: %s", buf.String())
	}
}
