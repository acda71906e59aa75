package services

import (
	"context"
	"fmt"
	"strings"
	"time"

	"finledger/internal/db"
	"finledger/internal/errs"
	"finledger/internal/logger"
	"finledger/internal/models"
	"finledger/internal/money"
	"finledger/internal/store"

	"github.com/jmoiron/sqlx"
)

var ErrAccountNotFound = fmt.Errorf("%w: account not found", errs.ErrNotFound)

type AccountStore interface {
	GetByID(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
	Save(ctx context.Context, tx store.Getter, account models.Account) (models.Account, error)
	DeleteByIDAndOwner(ctx context.Context, tx store.Execer, accountID, ownerUserID string) (int64, error)
	ListByOwner(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Account, int64, error)
}

type AccountService struct {
	txRunner db.TxRunner
	accounts AccountStore
	now      func() time.Time
}

func NewAccountService(txRunner db.TxRunner, accounts AccountStore) *AccountService {
	return &AccountService{
		txRunner: txRunner,
		accounts: accounts,
		now:      time.Now,
	}
}

// AccountPatch carries the fields to change. Absent and blank fields keep
// their stored value.
type AccountPatch struct {
	Name     models.Optional[string]
	Currency models.Optional[string]
}

func accountOwner(account models.Account) string {
	return account.OwnerUserID
}

func (s *AccountService) load(ctx context.Context, tx store.Getter, accountID, ownerUserID string) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, tx, accountID)
	return owned(account, err, ownerUserID, accountOwner, ErrAccountNotFound)
}

func (s *AccountService) Create(ctx context.Context, name, currency, ownerUserID string) (models.Account, error) {
	account, err := models.NewAccount(name, currency, ownerUserID, s.now())
	if err != nil {
		return models.Account{}, err
	}
	var saved models.Account
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		saved, err = s.accounts.Save(ctx, tx, account)
		return err
	})
	if err != nil {
		return models.Account{}, err
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("account_id", saved.ID).Msg("account created")
	return saved, nil
}

func (s *AccountService) GetByID(ctx context.Context, accountID, ownerUserID string) (models.Account, error) {
	var account models.Account
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		account, err = s.load(ctx, tx, accountID, ownerUserID)
		return err
	})
	return account, err
}

func (s *AccountService) Patch(ctx context.Context, accountID, ownerUserID string, patch AccountPatch) (models.Account, error) {
	var saved models.Account
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.load(ctx, tx, accountID, ownerUserID)
		if err != nil {
			return err
		}
		if name, ok := patch.Name.Get(); ok && strings.TrimSpace(name) != "" {
			account.Name = strings.TrimSpace(name)
		}
		if currency, ok := patch.Currency.Get(); ok && strings.TrimSpace(currency) != "" {
			code, err := money.NormalizeCurrency(currency)
			if err != nil {
				return err
			}
			account.Currency = code
		}
		account.UpdatedAt = s.now()
		saved, err = s.accounts.Save(ctx, tx, account)
		return err
	})
	if err != nil {
		return models.Account{}, err
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("account_id", saved.ID).Msg("account patched")
	return saved, nil
}

// Delete removes an owned account. A second delete of the same id fails
// with ErrAccountNotFound.
func (s *AccountService) Delete(ctx context.Context, accountID, ownerUserID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.load(ctx, tx, accountID, ownerUserID); err != nil {
			return err
		}
		rows, err := s.accounts.DeleteByIDAndOwner(ctx, tx, accountID, ownerUserID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrAccountNotFound
		}
		return nil
	})
}

func (s *AccountService) ListPaged(ctx context.Context, page models.PageQuery, ownerUserID string) (models.Page[models.Account], error) {
	if err := page.Validate(); err != nil {
		return models.Page[models.Account]{}, err
	}
	accounts, total, err := s.accounts.ListByOwner(ctx, ownerUserID, page)
	if err != nil {
		return models.Page[models.Account]{}, err
	}
	return models.NewPage(accounts, page, total), nil
}
