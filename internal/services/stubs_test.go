package services

import (
	"context"
	"sync"

	"finledger/internal/models"
	"finledger/internal/store"
	"finledger/internal/websocket"

	"github.com/jmoiron/sqlx"
)

type fakeTxRunner struct {
	err error
}

func (f fakeTxRunner) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(nil)
}

type stubAccountStore struct {
	getByIDFn func(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	saveFn    func(ctx context.Context, tx store.Getter, account models.Account) (models.Account, error)
	deleteFn  func(ctx context.Context, tx store.Execer, accountID, ownerUserID string) (int64, error)
	listFn    func(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Account, int64, error)
}

func (s stubAccountStore) GetByID(ctx context.Context, tx store.Getter, accountID string) (models.Account, error) {
	return s.getByIDFn(ctx, tx, accountID)
}

func (s stubAccountStore) Save(ctx context.Context, tx store.Getter, account models.Account) (models.Account, error) {
	if s.saveFn == nil {
		return account, nil
	}
	return s.saveFn(ctx, tx, account)
}

func (s stubAccountStore) DeleteByIDAndOwner(ctx context.Context, tx store.Execer, accountID, ownerUserID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, accountID, ownerUserID)
}

func (s stubAccountStore) ListByOwner(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Account, int64, error) {
	return s.listFn(ctx, ownerUserID, page)
}

type stubCategoryStore struct {
	getByIDFn func(ctx context.Context, tx store.Getter, categoryID string) (models.Category, error)
	existsFn  func(ctx context.Context, tx store.Getter, name, ownerUserID string) (bool, error)
	saveFn    func(ctx context.Context, tx store.Getter, category models.Category) (models.Category, error)
	deleteFn  func(ctx context.Context, tx store.Execer, categoryID, ownerUserID string) (int64, error)
	listFn    func(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Category, int64, error)
}

func (s stubCategoryStore) GetByID(ctx context.Context, tx store.Getter, categoryID string) (models.Category, error) {
	return s.getByIDFn(ctx, tx, categoryID)
}

func (s stubCategoryStore) ExistsByNameAndOwner(ctx context.Context, tx store.Getter, name, ownerUserID string) (bool, error) {
	if s.existsFn == nil {
		return false, nil
	}
	return s.existsFn(ctx, tx, name, ownerUserID)
}

func (s stubCategoryStore) Save(ctx context.Context, tx store.Getter, category models.Category) (models.Category, error) {
	if s.saveFn == nil {
		return category, nil
	}
	return s.saveFn(ctx, tx, category)
}

func (s stubCategoryStore) DeleteByIDAndOwner(ctx context.Context, tx store.Execer, categoryID, ownerUserID string) (int64, error) {
	if s.deleteFn == nil {
		return 1, nil
	}
	return s.deleteFn(ctx, tx, categoryID, ownerUserID)
}

func (s stubCategoryStore) ListByOwner(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Category, int64, error) {
	return s.listFn(ctx, ownerUserID, page)
}

type stubTransactionStore struct {
	getByIDFn func(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	saveFn    func(ctx context.Context, tx store.Tx, transaction models.Transaction) (models.Transaction, error)
	deleteFn  func(ctx context.Context, tx store.Execer, transactionID, ownerUserID string) (int64, error)
	listFn    func(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Transaction, int64, error)
}

func (s stubTransactionStore) GetByID(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error) {
	return s.getByIDFn(ctx, tx, transactionID)
}

func (s stubTransactionStore) Save(ctx context.Context, tx store.Tx, transaction models.Transaction) (models.Transaction, error) {
	if s.saveFn == nil {
		transaction.ID = "tx-1"
		return transaction, nil
	}
	return s.saveFn(ctx, tx, transaction)
}

func (s stubTransactionStore) DeleteByIDAndOwner(ctx context.Context, tx store.Execer, transactionID, ownerUserID string) (int64, error) {
	return s.deleteFn(ctx, tx, transactionID, ownerUserID)
}

func (s stubTransactionStore) ListByOwner(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Transaction, int64, error) {
	return s.listFn(ctx, ownerUserID, page)
}

type recordingEvents struct {
	mu     sync.Mutex
	events map[string][]websocket.TransactionEvent
}

func (r *recordingEvents) BroadcastTransaction(userID string, event websocket.TransactionEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.events == nil {
		r.events = make(map[string][]websocket.TransactionEvent)
	}
	r.events[userID] = append(r.events[userID], event)
}

func (r *recordingEvents) For(userID string) []websocket.TransactionEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.events[userID]
}
