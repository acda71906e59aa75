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
	"finledger/internal/websocket"

	"github.com/jmoiron/sqlx"
	"github.com/shopspring/decimal"
)

var ErrTransactionNotFound = fmt.Errorf("%w: transaction not found", errs.ErrNotFound)

type AccountLookup interface {
	GetByID(ctx context.Context, tx store.Getter, accountID string) (models.Account, error)
}

type CategoryLookup interface {
	GetByID(ctx context.Context, tx store.Getter, categoryID string) (models.Category, error)
}

type TransactionStore interface {
	GetByID(ctx context.Context, tx store.Getter, transactionID string) (models.Transaction, error)
	Save(ctx context.Context, tx store.Tx, transaction models.Transaction) (models.Transaction, error)
	DeleteByIDAndOwner(ctx context.Context, tx store.Execer, transactionID, ownerUserID string) (int64, error)
	ListByOwner(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Transaction, int64, error)
}

type TransactionEvents interface {
	BroadcastTransaction(userID string, event websocket.TransactionEvent)
}

type TransactionService struct {
	txRunner     db.TxRunner
	accounts     AccountLookup
	categories   CategoryLookup
	transactions TransactionStore
	summaries    SummaryGenerators
	events       TransactionEvents
	now          func() time.Time
}

func NewTransactionService(txRunner db.TxRunner, accounts AccountLookup, categories CategoryLookup, transactions TransactionStore, summaries SummaryGenerators, events TransactionEvents) *TransactionService {
	return &TransactionService{
		txRunner:     txRunner,
		accounts:     accounts,
		categories:   categories,
		transactions: transactions,
		summaries:    summaries,
		events:       events,
		now:          time.Now,
	}
}

// AddTransactionCommand describes a new transaction. An empty Currency
// takes the account's currency.
type AddTransactionCommand struct {
	UserID          string
	AccountID       string
	CategoryID      string
	Type            models.TransactionType
	Amount          decimal.Decimal
	Currency        string
	Description     string
	TransactionDate time.Time
}

// PatchTransactionCommand changes only the fields that are present.
type PatchTransactionCommand struct {
	ID              string
	UserID          string
	AccountID       models.Optional[string]
	CategoryID      models.Optional[string]
	Type            models.Optional[models.TransactionType]
	Amount          models.Optional[decimal.Decimal]
	Currency        models.Optional[string]
	Description     models.Optional[string]
	TransactionDate models.Optional[time.Time]
}

func transactionOwner(transaction models.Transaction) string {
	return models.OwnerOf(transaction)
}

func (s *TransactionService) resolveAccount(ctx context.Context, tx store.Getter, accountID, userID string) (models.Account, error) {
	account, err := s.accounts.GetByID(ctx, tx, accountID)
	return owned(account, err, userID, accountOwner, ErrAccountNotFound)
}

func (s *TransactionService) resolveCategory(ctx context.Context, tx store.Getter, categoryID, userID string) (models.Category, error) {
	category, err := s.categories.GetByID(ctx, tx, categoryID)
	return owned(category, err, userID, categoryOwner, ErrCategoryNotFound)
}

func (s *TransactionService) load(ctx context.Context, tx store.Getter, transactionID, userID string) (models.Transaction, error) {
	transaction, err := s.transactions.GetByID(ctx, tx, transactionID)
	return owned(transaction, err, userID, transactionOwner, ErrTransactionNotFound)
}

func (s *TransactionService) Add(ctx context.Context, cmd AddTransactionCommand) (models.Transaction, error) {
	if !cmd.Type.Valid() {
		return models.Transaction{}, models.ErrInvalidTransactionType
	}
	if cmd.TransactionDate.IsZero() {
		return models.Transaction{}, models.ErrDateRequired
	}
	var saved models.Transaction
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		account, err := s.resolveAccount(ctx, tx, cmd.AccountID, cmd.UserID)
		if err != nil {
			return err
		}
		category, err := s.resolveCategory(ctx, tx, cmd.CategoryID, cmd.UserID)
		if err != nil {
			return err
		}
		currency := cmd.Currency
		if strings.TrimSpace(currency) == "" {
			currency = account.Currency
		}
		amount, err := money.NewAmount(cmd.Amount, currency)
		if err != nil {
			return err
		}
		now := s.now()
		transaction := models.Transaction{
			Account:         account,
			Category:        category,
			Type:            cmd.Type,
			Amount:          amount,
			Description:     cmd.Description,
			TransactionDate: models.DateOf(cmd.TransactionDate),
			CreatedAt:       now,
			UpdatedAt:       now,
		}
		if err := transaction.Validate(); err != nil {
			return err
		}
		saved, err = s.transactions.Save(ctx, tx, transaction)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("transaction_id", saved.ID).Msg("transaction added")
	s.publish(cmd.UserID, changeEvent(websocket.TransactionCreated, saved, s.now()))
	return saved, nil
}

func (s *TransactionService) GetByID(ctx context.Context, transactionID, userID string) (models.Transaction, error) {
	var transaction models.Transaction
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		transaction, err = s.load(ctx, tx, transactionID, userID)
		return err
	})
	return transaction, err
}

// Patch merges the present fields onto the stored transaction. Replaced
// accounts and categories are resolved under the caller exactly as in Add,
// and the result must still have one owner before anything is written.
func (s *TransactionService) Patch(ctx context.Context, cmd PatchTransactionCommand) (models.Transaction, error) {
	var saved models.Transaction
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		transaction, err := s.load(ctx, tx, cmd.ID, cmd.UserID)
		if err != nil {
			return err
		}
		if accountID, ok := cmd.AccountID.Get(); ok {
			if transaction.Account, err = s.resolveAccount(ctx, tx, accountID, cmd.UserID); err != nil {
				return err
			}
		}
		if categoryID, ok := cmd.CategoryID.Get(); ok {
			if transaction.Category, err = s.resolveCategory(ctx, tx, categoryID, cmd.UserID); err != nil {
				return err
			}
		}
		if txType, ok := cmd.Type.Get(); ok {
			if !txType.Valid() {
				return models.ErrInvalidTransactionType
			}
			transaction.Type = txType
		}
		if cmd.Amount.Present() || cmd.Currency.Present() {
			currency := cmd.Currency.OrElse("")
			if strings.TrimSpace(currency) == "" {
				currency = transaction.Amount.Currency()
			}
			amount, err := money.NewAmount(cmd.Amount.OrElse(transaction.Amount.Value()), currency)
			if err != nil {
				return err
			}
			transaction.Amount = amount
		}
		if description, ok := cmd.Description.Get(); ok {
			transaction.Description = description
		}
		if date, ok := cmd.TransactionDate.Get(); ok {
			if date.IsZero() {
				return models.ErrDateRequired
			}
			transaction.TransactionDate = models.DateOf(date)
		}
		transaction.UpdatedAt = s.now()
		if err := transaction.Validate(); err != nil {
			return err
		}
		saved, err = s.transactions.Save(ctx, tx, transaction)
		return err
	})
	if err != nil {
		return models.Transaction{}, err
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("transaction_id", saved.ID).Msg("transaction patched")
	s.publish(cmd.UserID, changeEvent(websocket.TransactionUpdated, saved, s.now()))
	return saved, nil
}

// Delete removes the transaction if the user owns it and reports how many
// rows went away. Zero rows is not an error.
func (s *TransactionService) Delete(ctx context.Context, transactionID, userID string) (int64, error) {
	var rows int64
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		rows, err = s.transactions.DeleteByIDAndOwner(ctx, tx, transactionID, userID)
		return err
	})
	if err != nil {
		return 0, err
	}
	if rows > 0 {
		log := logger.FromContext(ctx)
		log.Info().Str("transaction_id", transactionID).Int64("rows", rows).Msg("transaction deleted")
		s.publish(userID, websocket.TransactionEvent{
			Kind:          websocket.TransactionDeleted,
			TransactionID: transactionID,
			OccurredAt:    s.now(),
		})
	}
	return rows, nil
}

func (s *TransactionService) GetSummary(ctx context.Context, query models.SummaryQuery) (models.SummarySeries, error) {
	generator, err := s.summaries.For(query.Type)
	if err != nil {
		return models.SummarySeries{}, err
	}
	points, err := generator(ctx, query)
	if err != nil {
		return models.SummarySeries{}, err
	}
	if points == nil {
		points = []models.SummaryPoint{}
	}
	return models.SummarySeries{Type: query.Type, Points: points}, nil
}

func (s *TransactionService) ListPaged(ctx context.Context, page models.PageQuery, userID string) (models.Page[models.Transaction], error) {
	if err := page.Validate(); err != nil {
		return models.Page[models.Transaction]{}, err
	}
	transactions, total, err := s.transactions.ListByOwner(ctx, userID, page)
	if err != nil {
		return models.Page[models.Transaction]{}, err
	}
	return models.NewPage(transactions, page, total), nil
}

func (s *TransactionService) publish(userID string, event websocket.TransactionEvent) {
	if s.events == nil {
		return
	}
	s.events.BroadcastTransaction(userID, event)
}

func changeEvent(kind websocket.EventKind, transaction models.Transaction, at time.Time) websocket.TransactionEvent {
	return websocket.TransactionEvent{
		Kind:            kind,
		TransactionID:   transaction.ID,
		AccountID:       transaction.Account.ID,
		CategoryID:      transaction.Category.ID,
		Type:            string(transaction.Type),
		Amount:          transaction.Amount.Value().String(),
		Currency:        transaction.Amount.Currency(),
		TransactionDate: transaction.TransactionDate.Format(models.DateLayout),
		OccurredAt:      at,
	}
}
