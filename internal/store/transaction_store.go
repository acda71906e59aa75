package store

import (
	"context"
	"fmt"
	"time"

	"finledger/internal/models"
	"finledger/internal/money"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"
)

type TransactionStore struct {
	db DB
}

type transactionRow struct {
	ID                  string          `db:"id"`
	Type                string          `db:"type"`
	Amount              decimal.Decimal `db:"amount"`
	Currency            string          `db:"currency"`
	Description         string          `db:"description"`
	TransactionDate     time.Time       `db:"transaction_date"`
	CreatedAt           time.Time       `db:"created_at"`
	UpdatedAt           time.Time       `db:"updated_at"`
	AccountID           string          `db:"account_id"`
	AccountName         string          `db:"account_name"`
	AccountOwnerUserID  string          `db:"account_owner_user_id"`
	AccountCurrency     string          `db:"account_currency"`
	AccountCreatedAt    time.Time       `db:"account_created_at"`
	AccountUpdatedAt    time.Time       `db:"account_updated_at"`
	CategoryID          string          `db:"category_id"`
	CategoryName        string          `db:"category_name"`
	CategoryOwnerUserID string          `db:"category_owner_user_id"`
	CategoryCreatedAt   time.Time       `db:"category_created_at"`
	CategoryUpdatedAt   time.Time       `db:"category_updated_at"`
}

func (r transactionRow) model() (models.Transaction, error) {
	amount, err := money.NewAmount(r.Amount, r.Currency)
	if err != nil {
		return models.Transaction{}, fmt.Errorf("transaction %s: %w", r.ID, err)
	}
	return models.Transaction{
		ID: r.ID,
		Account: accountRow{
			ID:          r.AccountID,
			Name:        r.AccountName,
			OwnerUserID: r.AccountOwnerUserID,
			Currency:    r.AccountCurrency,
			CreatedAt:   r.AccountCreatedAt,
			UpdatedAt:   r.AccountUpdatedAt,
		}.model(),
		Category: categoryRow{
			ID:          r.CategoryID,
			Name:        r.CategoryName,
			OwnerUserID: r.CategoryOwnerUserID,
			CreatedAt:   r.CategoryCreatedAt,
			UpdatedAt:   r.CategoryUpdatedAt,
		}.model(),
		Type:            models.TransactionType(r.Type),
		Amount:          amount,
		Description:     r.Description,
		TransactionDate: r.TransactionDate,
		CreatedAt:       r.CreatedAt,
		UpdatedAt:       r.UpdatedAt,
	}, nil
}

const transactionSelect = `
	SELECT t.id, t.type, t.amount, t.currency, t.description, t.transaction_date, t.created_at, t.updated_at,
	       a.id AS account_id, a.name AS account_name, a.owner_user_id AS account_owner_user_id,
	       a.currency AS account_currency, a.created_at AS account_created_at, a.updated_at AS account_updated_at,
	       c.id AS category_id, c.name AS category_name, c.owner_user_id AS category_owner_user_id,
	       c.created_at AS category_created_at, c.updated_at AS category_updated_at
	FROM transactions t
	JOIN accounts a ON a.id = t.account_id
	JOIN categories c ON c.id = t.category_id
`

func NewTransactionStore(db DB) *TransactionStore {
	return &TransactionStore{db: db}
}

// GetByID returns sql.ErrNoRows when the transaction does not exist.
func (s *TransactionStore) GetByID(ctx context.Context, tx Getter, transactionID string) (models.Transaction, error) {
	var row transactionRow
	if err := tx.GetContext(ctx, &row, transactionSelect+` WHERE t.id = $1`, transactionID); err != nil {
		return models.Transaction{}, missing(err)
	}
	return row.model()
}

// Save writes the transaction and reads it back with its account and
// category attached.
func (s *TransactionStore) Save(ctx context.Context, tx Tx, transaction models.Transaction) (models.Transaction, error) {
	var err error
	id := transaction.ID
	if id == "" {
		id = uuid.NewString()
		_, err = tx.ExecContext(ctx, `
			INSERT INTO transactions (id, account_id, category_id, type, amount, currency, description, transaction_date, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		`, id, transaction.Account.ID, transaction.Category.ID, string(transaction.Type),
			transaction.Amount.Value(), transaction.Amount.Currency(), transaction.Description,
			models.DateOf(transaction.TransactionDate), transaction.CreatedAt, transaction.UpdatedAt)
	} else {
		_, err = tx.ExecContext(ctx, `
			UPDATE transactions
			SET account_id = $1, category_id = $2, type = $3, amount = $4, currency = $5,
			    description = $6, transaction_date = $7, updated_at = $8
			WHERE id = $9
		`, transaction.Account.ID, transaction.Category.ID, string(transaction.Type),
			transaction.Amount.Value(), transaction.Amount.Currency(), transaction.Description,
			models.DateOf(transaction.TransactionDate), transaction.UpdatedAt, id)
	}
	if err != nil {
		return models.Transaction{}, fmt.Errorf("save transaction: %w", translate(err))
	}
	return s.GetByID(ctx, tx, id)
}

// DeleteByIDAndOwner scopes the delete to transactions whose account the
// owner holds and reports how many rows went away. A malformed id removes
// nothing.
func (s *TransactionStore) DeleteByIDAndOwner(ctx context.Context, tx Execer, transactionID, ownerUserID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM transactions t
		USING accounts a
		WHERE t.account_id = a.id AND t.id = $1 AND a.owner_user_id = $2
	`, transactionID, ownerUserID)
	if malformedID(err) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("delete transaction: %w", err)
	}
	return res.RowsAffected()
}

func (s *TransactionStore) ListByOwner(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Transaction, int64, error) {
	order, err := orderBy(TransactionSortColumns, "t.", page)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	err = s.db.GetContext(ctx, &total, `
		SELECT COUNT(*)
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		WHERE a.owner_user_id = $1
	`, ownerUserID)
	if err != nil {
		return nil, 0, err
	}
	var rows []transactionRow
	err = s.db.SelectContext(ctx, &rows, transactionSelect+`
		WHERE a.owner_user_id = $1`+order+`
		LIMIT $2 OFFSET $3
	`, ownerUserID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	transactions := make([]models.Transaction, 0, len(rows))
	for _, row := range rows {
		transaction, err := row.model()
		if err != nil {
			return nil, 0, err
		}
		transactions = append(transactions, transaction)
	}
	return transactions, total, nil
}

type summaryRow struct {
	Label string          `db:"label"`
	Total decimal.Decimal `db:"total"`
}

func (s *TransactionStore) SumByCategory(ctx context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error) {
	return s.sumBy(ctx, "c.name", query)
}

func (s *TransactionStore) SumByDay(ctx context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error) {
	return s.sumBy(ctx, "EXTRACT(DAY FROM t.transaction_date)::int::text", query)
}

func (s *TransactionStore) SumByMonth(ctx context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error) {
	return s.sumBy(ctx, "EXTRACT(MONTH FROM t.transaction_date)::int::text", query)
}

func (s *TransactionStore) SumByYear(ctx context.Context, query models.SummaryQuery) ([]models.SummaryPoint, error) {
	return s.sumBy(ctx, "EXTRACT(YEAR FROM t.transaction_date)::int::text", query)
}

// sumBy groups the filtered transactions on label. label is one of the
// fixed expressions above, never caller input.
func (s *TransactionStore) sumBy(ctx context.Context, label string, query models.SummaryQuery) ([]models.SummaryPoint, error) {
	var txType *string
	if query.TransactionType != nil {
		value := string(*query.TransactionType)
		txType = &value
	}
	var rows []summaryRow
	err := s.db.SelectContext(ctx, &rows, `
		SELECT `+label+` AS label, SUM(t.amount) AS total
		FROM transactions t
		JOIN accounts a ON a.id = t.account_id
		JOIN categories c ON c.id = t.category_id
		WHERE t.transaction_date BETWEEN $1 AND $2
		  AND a.owner_user_id = ANY($3)
		  AND ($4::text IS NULL OR t.type = $4)
		GROUP BY 1
	`, query.From, query.To, pq.Array(query.OwnerUserIDs), txType)
	if err != nil {
		return nil, fmt.Errorf("summary by %s: %w", label, err)
	}
	points := make([]models.SummaryPoint, 0, len(rows))
	for _, row := range rows {
		points = append(points, models.SummaryPoint{Label: row.Label, Total: row.Total})
	}
	return points, nil
}
