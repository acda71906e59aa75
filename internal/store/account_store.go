package store

import (
	"context"
	"fmt"
	"time"

	"finledger/internal/models"

	"github.com/google/uuid"
)

type AccountStore struct {
	db DB
}

type accountRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	OwnerUserID string    `db:"owner_user_id"`
	Currency    string    `db:"currency"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r accountRow) model() models.Account {
	return models.Account{
		ID:          r.ID,
		Name:        r.Name,
		OwnerUserID: r.OwnerUserID,
		Currency:    r.Currency,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const accountColumns = `id, name, owner_user_id, currency, created_at, updated_at`

func NewAccountStore(db DB) *AccountStore {
	return &AccountStore{db: db}
}

// GetByID returns sql.ErrNoRows when the account does not exist.
func (s *AccountStore) GetByID(ctx context.Context, tx Getter, accountID string) (models.Account, error) {
	var row accountRow
	err := tx.GetContext(ctx, &row, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE id = $1
	`, accountID)
	if err != nil {
		return models.Account{}, missing(err)
	}
	return row.model(), nil
}

// Save inserts an account without an id and updates one that has it.
func (s *AccountStore) Save(ctx context.Context, tx Getter, account models.Account) (models.Account, error) {
	var row accountRow
	var err error
	if account.ID == "" {
		err = tx.GetContext(ctx, &row, `
			INSERT INTO accounts (id, name, owner_user_id, currency, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6)
			RETURNING `+accountColumns, uuid.NewString(), account.Name, account.OwnerUserID, account.Currency, account.CreatedAt, account.UpdatedAt)
	} else {
		err = tx.GetContext(ctx, &row, `
			UPDATE accounts
			SET name = $1, currency = $2, updated_at = $3
			WHERE id = $4
			RETURNING `+accountColumns, account.Name, account.Currency, account.UpdatedAt, account.ID)
	}
	if err != nil {
		return models.Account{}, fmt.Errorf("save account: %w", translate(err))
	}
	return row.model(), nil
}

func (s *AccountStore) DeleteByIDAndOwner(ctx context.Context, tx Execer, accountID, ownerUserID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM accounts
		WHERE id = $1 AND owner_user_id = $2
	`, accountID, ownerUserID)
	if err != nil {
		return 0, fmt.Errorf("delete account: %w", translate(err))
	}
	return res.RowsAffected()
}

func (s *AccountStore) ListByOwner(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Account, int64, error) {
	order, err := orderBy(AccountSortColumns, "", page)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM accounts WHERE owner_user_id = $1`, ownerUserID); err != nil {
		return nil, 0, err
	}
	var rows []accountRow
	err = s.db.SelectContext(ctx, &rows, `
		SELECT `+accountColumns+`
		FROM accounts
		WHERE owner_user_id = $1`+order+`
		LIMIT $2 OFFSET $3
	`, ownerUserID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	accounts := make([]models.Account, 0, len(rows))
	for _, row := range rows {
		accounts = append(accounts, row.model())
	}
	return accounts, total, nil
}
