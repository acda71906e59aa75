// Package memstore keeps accounts, categories and transactions in process
// memory behind the same method set as the PostgreSQL stores. The querier
// arguments are accepted and ignored.
package memstore

import (
	"context"
	"database/sql"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"finledger/internal/models"
	"finledger/internal/money"
	"finledger/internal/store"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

type transactionRecord struct {
	ID              string
	AccountID       string
	CategoryID      string
	Type            models.TransactionType
	Amount          money.Amount
	Description     string
	TransactionDate time.Time
	CreatedAt       time.Time
	UpdatedAt       time.Time
}

type Store struct {
	mu           sync.RWMutex
	accounts     map[string]models.Account
	categories   map[string]models.Category
	transactions map[string]transactionRecord

	txMu sync.Mutex
}

func New() *Store {
	return &Store{
		accounts:     make(map[string]models.Account),
		categories:   make(map[string]models.Category),
		transactions: make(map[string]transactionRecord),
	}
}

// WithTx runs units of work one at a time. There is no rollback: a failed
// unit keeps whatever it already wrote.
func (s *Store) WithTx(ctx context.Context, fn func(*sqlx.Tx) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.txMu.Lock()
	defer s.txMu.Unlock()
	return fn(nil)
}

func (s *Store) Accounts() *AccountStore {
	return &AccountStore{s: s}
}

func (s *Store) Categories() *CategoryStore {
	return &CategoryStore{s: s}
}

func (s *Store) Transactions() *TransactionStore {
	return &TransactionStore{s: s}
}

type AccountStore struct {
	s *Store
}

func (r *AccountStore) GetByID(_ context.Context, _ store.Getter, accountID string) (models.Account, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	account, ok := r.s.accounts[accountID]
	if !ok {
		return models.Account{}, sql.ErrNoRows
	}
	return account, nil
}

func (r *AccountStore) Save(_ context.Context, _ store.Getter, account models.Account) (models.Account, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if account.ID == "" {
		account.ID = uuid.NewString()
	} else {
		existing, ok := r.s.accounts[account.ID]
		if !ok {
			return models.Account{}, sql.ErrNoRows
		}
		account.OwnerUserID = existing.OwnerUserID
		account.CreatedAt = existing.CreatedAt
	}
	r.s.accounts[account.ID] = account
	return account, nil
}

func (r *AccountStore) DeleteByIDAndOwner(_ context.Context, _ store.Execer, accountID, ownerUserID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	account, ok := r.s.accounts[accountID]
	if !ok || account.OwnerUserID != ownerUserID {
		return 0, nil
	}
	for _, record := range r.s.transactions {
		if record.AccountID == accountID {
			return 0, fmt.Errorf("delete account: %w", store.ErrInUse)
		}
	}
	delete(r.s.accounts, accountID)
	return 1, nil
}

func (r *AccountStore) ListByOwner(_ context.Context, ownerUserID string, page models.PageQuery) ([]models.Account, int64, error) {
	column, err := store.AccountSortColumns.Resolve(page.Sort)
	if err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	var owned []models.Account
	for _, account := range r.s.accounts {
		if account.OwnerUserID == ownerUserID {
			owned = append(owned, account)
		}
	}
	r.s.mu.RUnlock()
	sortPage(owned, page.SortDirection(), func(a, b models.Account) int {
		switch column {
		case "name":
			return strings.Compare(a.Name, b.Name)
		case "currency":
			return strings.Compare(a.Currency, b.Currency)
		case "updated_at":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}, func(a models.Account) string { return a.ID })
	return window(owned, page), int64(len(owned)), nil
}

type CategoryStore struct {
	s *Store
}

func (r *CategoryStore) GetByID(_ context.Context, _ store.Getter, categoryID string) (models.Category, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	category, ok := r.s.categories[categoryID]
	if !ok {
		return models.Category{}, sql.ErrNoRows
	}
	return category, nil
}

func (r *CategoryStore) ExistsByNameAndOwner(_ context.Context, _ store.Getter, name, ownerUserID string) (bool, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	return r.s.categoryNameTaken(name, ownerUserID, ""), nil
}

func (s *Store) categoryNameTaken(name, ownerUserID, exceptID string) bool {
	for _, category := range s.categories {
		if category.ID != exceptID && category.OwnerUserID == ownerUserID && category.Name == name {
			return true
		}
	}
	return false
}

func (r *CategoryStore) Save(_ context.Context, _ store.Getter, category models.Category) (models.Category, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if category.ID == "" {
		category.ID = uuid.NewString()
	} else {
		existing, ok := r.s.categories[category.ID]
		if !ok {
			return models.Category{}, sql.ErrNoRows
		}
		category.OwnerUserID = existing.OwnerUserID
		category.CreatedAt = existing.CreatedAt
	}
	if r.s.categoryNameTaken(category.Name, category.OwnerUserID, category.ID) {
		return models.Category{}, fmt.Errorf("save category: %w", store.ErrDuplicate)
	}
	r.s.categories[category.ID] = category
	return category, nil
}

func (r *CategoryStore) DeleteByIDAndOwner(_ context.Context, _ store.Execer, categoryID, ownerUserID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	category, ok := r.s.categories[categoryID]
	if !ok || category.OwnerUserID != ownerUserID {
		return 0, nil
	}
	for _, record := range r.s.transactions {
		if record.CategoryID == categoryID {
			return 0, fmt.Errorf("delete category: %w", store.ErrInUse)
		}
	}
	delete(r.s.categories, categoryID)
	return 1, nil
}

func (r *CategoryStore) ListByOwner(_ context.Context, ownerUserID string, page models.PageQuery) ([]models.Category, int64, error) {
	column, err := store.CategorySortColumns.Resolve(page.Sort)
	if err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	var owned []models.Category
	for _, category := range r.s.categories {
		if category.OwnerUserID == ownerUserID {
			owned = append(owned, category)
		}
	}
	r.s.mu.RUnlock()
	sortPage(owned, page.SortDirection(), func(a, b models.Category) int {
		switch column {
		case "name":
			return strings.Compare(a.Name, b.Name)
		case "updated_at":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		default:
			return a.CreatedAt.Compare(b.CreatedAt)
		}
	}, func(c models.Category) string { return c.ID })
	return window(owned, page), int64(len(owned)), nil
}

type TransactionStore struct {
	s *Store
}

// hydrate attaches the current account and category; callers hold mu.
func (s *Store) hydrate(record transactionRecord) models.Transaction {
	return models.Transaction{
		ID:              record.ID,
		Account:         s.accounts[record.AccountID],
		Category:        s.categories[record.CategoryID],
		Type:            record.Type,
		Amount:          record.Amount,
		Description:     record.Description,
		TransactionDate: record.TransactionDate,
		CreatedAt:       record.CreatedAt,
		UpdatedAt:       record.UpdatedAt,
	}
}

func (r *TransactionStore) GetByID(_ context.Context, _ store.Getter, transactionID string) (models.Transaction, error) {
	r.s.mu.RLock()
	defer r.s.mu.RUnlock()
	record, ok := r.s.transactions[transactionID]
	if !ok {
		return models.Transaction{}, sql.ErrNoRows
	}
	return r.s.hydrate(record), nil
}

func (r *TransactionStore) Save(_ context.Context, _ store.Tx, transaction models.Transaction) (models.Transaction, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	if _, ok := r.s.accounts[transaction.Account.ID]; !ok {
		return models.Transaction{}, fmt.Errorf("save transaction: %w", store.ErrInUse)
	}
	if _, ok := r.s.categories[transaction.Category.ID]; !ok {
		return models.Transaction{}, fmt.Errorf("save transaction: %w", store.ErrInUse)
	}
	record := transactionRecord{
		ID:              transaction.ID,
		AccountID:       transaction.Account.ID,
		CategoryID:      transaction.Category.ID,
		Type:            transaction.Type,
		Amount:          transaction.Amount,
		Description:     transaction.Description,
		TransactionDate: models.DateOf(transaction.TransactionDate),
		CreatedAt:       transaction.CreatedAt,
		UpdatedAt:       transaction.UpdatedAt,
	}
	if record.ID == "" {
		record.ID = uuid.NewString()
	} else {
		existing, ok := r.s.transactions[record.ID]
		if !ok {
			return models.Transaction{}, sql.ErrNoRows
		}
		record.CreatedAt = existing.CreatedAt
	}
	r.s.transactions[record.ID] = record
	return r.s.hydrate(record), nil
}

func (r *TransactionStore) DeleteByIDAndOwner(_ context.Context, _ store.Execer, transactionID, ownerUserID string) (int64, error) {
	r.s.mu.Lock()
	defer r.s.mu.Unlock()
	record, ok := r.s.transactions[transactionID]
	if !ok || r.s.accounts[record.AccountID].OwnerUserID != ownerUserID {
		return 0, nil
	}
	delete(r.s.transactions, transactionID)
	return 1, nil
}

func (r *TransactionStore) ListByOwner(_ context.Context, ownerUserID string, page models.PageQuery) ([]models.Transaction, int64, error) {
	column, err := store.TransactionSortColumns.Resolve(page.Sort)
	if err != nil {
		return nil, 0, err
	}
	r.s.mu.RLock()
	var owned []models.Transaction
	for _, record := range r.s.transactions {
		if r.s.accounts[record.AccountID].OwnerUserID == ownerUserID {
			owned = append(owned, r.s.hydrate(record))
		}
	}
	r.s.mu.RUnlock()
	sortPage(owned, page.SortDirection(), func(a, b models.Transaction) int {
		switch column {
		case "created_at":
			return a.CreatedAt.Compare(b.CreatedAt)
		case "updated_at":
			return a.UpdatedAt.Compare(b.UpdatedAt)
		case "type":
			return strings.Compare(string(a.Type), string(b.Type))
		case "amount":
			return a.Amount.Value().Cmp(b.Amount.Value())
		case "description":
			return strings.Compare(a.Description, b.Description)
		default:
			return a.TransactionDate.Compare(b.TransactionDate)
		}
	}, func(t models.Transaction) string { return t.ID })
	return window(owned, page), int64(len(owned)), nil
}

func (r *TransactionStore) SumByCategory(_ context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error) {
	return r.sumBy(query, func(t models.Transaction) string { return t.Category.Name }), nil
}

func (r *TransactionStore) SumByDay(_ context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error) {
	return r.sumBy(query, func(t models.Transaction) string { return fmt.Sprint(t.TransactionDate.Day()) }), nil
}

func (r *TransactionStore) SumByMonth(_ context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error) {
	return r.sumBy(query, func(t models.Transaction) string { return fmt.Sprint(int(t.TransactionDate.Month())) }), nil
}

func (r *TransactionStore) SumByYear(_ context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error) {
	return r.sumBy(query, func(t models.Transaction) string { return fmt.Sprint(t.TransactionDate.Year()) }), nil
}

func (r *TransactionStore) sumBy(query models.SummaryQuery, label func(models.Transaction) string) []models.SummaryPoint {
	r.s.mu.RLock()
	totals := make(map[string]decimal.Decimal)
	for _, record := range r.s.transactions {
		transaction := r.s.hydrate(record)
		if !query.Matches(transaction) {
			continue
		}
		key := label(transaction)
		totals[key] = totals[key].Add(transaction.Amount.Value())
	}
	r.s.mu.RUnlock()
	points := make([]models.SummaryPoint, 0, len(totals))
	for key, total := range totals {
		points = append(points, models.SummaryPoint{Label: key, Total: total})
	}
	sort.Slice(points, func(i, j int) bool { return points[i].Label < points[j].Label })
	return points
}

func sortPage[T any](items []T, direction models.SortDirection, compare func(a, b T) int, id func(T) string) {
	sort.SliceStable(items, func(i, j int) bool {
		c := compare(items[i], items[j])
		if c == 0 {
			c = strings.Compare(id(items[i]), id(items[j]))
		}
		if direction == models.SortDesc {
			return c > 0
		}
		return c < 0
	})
}

func window[T any](items []T, page models.PageQuery) []T {
	start := page.Offset()
	if start >= len(items) {
		return []T{}
	}
	end := start + page.Size
	if end > len(items) {
		end = len(items)
	}
	return items[start:end]
}
