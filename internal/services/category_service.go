package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"finledger/internal/db"
	"finledger/internal/errs"
	"finledger/internal/logger"
	"finledger/internal/models"
	"finledger/internal/store"

	"github.com/jmoiron/sqlx"
)

var (
	ErrCategoryNotFound      = fmt.Errorf("%w: category not found", errs.ErrNotFound)
	ErrCategoryAlreadyExists = fmt.Errorf("%w: category already exists", errs.ErrConflict)
)

type CategoryStore interface {
	GetByID(ctx context.Context, tx store.Getter, categoryID string) (models.Category, error)
	ExistsByNameAndOwner(ctx context.Context, tx store.Getter, name, ownerUserID string) (bool, error)
	Save(ctx context.Context, tx store.Getter, category models.Category) (models.Category, error)
	DeleteByIDAndOwner(ctx context.Context, tx store.Execer, categoryID, ownerUserID string) (int64, error)
	ListByOwner(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Category, int64, error)
}

type CategoryService struct {
	txRunner   db.TxRunner
	categories CategoryStore
	now        func() time.Time
}

func NewCategoryService(txRunner db.TxRunner, categories CategoryStore) *CategoryService {
	return &CategoryService{
		txRunner:   txRunner,
		categories: categories,
		now:        time.Now,
	}
}

type CategoryPatch struct {
	Name models.Optional[string]
}

func categoryOwner(category models.Category) string {
	return category.OwnerUserID
}

func (s *CategoryService) load(ctx context.Context, tx store.Getter, categoryID, ownerUserID string) (models.Category, error) {
	category, err := s.categories.GetByID(ctx, tx, categoryID)
	return owned(category, err, ownerUserID, categoryOwner, ErrCategoryNotFound)
}

// save checks the (name, owner) pair is free before writing. The unique
// constraint catches a concurrent insert that slips past the check.
func (s *CategoryService) save(ctx context.Context, tx store.Getter, category models.Category, checkName bool) (models.Category, error) {
	if checkName {
		exists, err := s.categories.ExistsByNameAndOwner(ctx, tx, category.Name, category.OwnerUserID)
		if err != nil {
			return models.Category{}, err
		}
		if exists {
			return models.Category{}, ErrCategoryAlreadyExists
		}
	}
	saved, err := s.categories.Save(ctx, tx, category)
	if errors.Is(err, store.ErrDuplicate) {
		return models.Category{}, ErrCategoryAlreadyExists
	}
	return saved, err
}

func (s *CategoryService) Create(ctx context.Context, name, ownerUserID string) (models.Category, error) {
	category, err := models.NewCategory(name, ownerUserID, s.now())
	if err != nil {
		return models.Category{}, err
	}
	var saved models.Category
	err = s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		saved, err = s.save(ctx, tx, category, true)
		return err
	})
	if err != nil {
		return models.Category{}, err
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("category_id", saved.ID).Msg("category created")
	return saved, nil
}

func (s *CategoryService) GetByID(ctx context.Context, categoryID, ownerUserID string) (models.Category, error) {
	var category models.Category
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		var err error
		category, err = s.load(ctx, tx, categoryID, ownerUserID)
		return err
	})
	return category, err
}

func (s *CategoryService) Patch(ctx context.Context, categoryID, ownerUserID string, patch CategoryPatch) (models.Category, error) {
	var saved models.Category
	err := s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		category, err := s.load(ctx, tx, categoryID, ownerUserID)
		if err != nil {
			return err
		}
		renamed := false
		if name, ok := patch.Name.Get(); ok {
			trimmed := strings.TrimSpace(name)
			if trimmed != "" && trimmed != category.Name {
				category.Name = trimmed
				renamed = true
			}
		}
		category.UpdatedAt = s.now()
		saved, err = s.save(ctx, tx, category, renamed)
		return err
	})
	if err != nil {
		return models.Category{}, err
	}
	log := logger.FromContext(ctx)
	log.Debug().Str("category_id", saved.ID).Msg("category patched")
	return saved, nil
}

// Delete removes an owned category. The existence check turns what would be
// a zero-row delete into ErrCategoryNotFound.
func (s *CategoryService) Delete(ctx context.Context, categoryID, ownerUserID string) error {
	return s.txRunner.WithTx(ctx, func(tx *sqlx.Tx) error {
		if _, err := s.load(ctx, tx, categoryID, ownerUserID); err != nil {
			return err
		}
		rows, err := s.categories.DeleteByIDAndOwner(ctx, tx, categoryID, ownerUserID)
		if err != nil {
			return err
		}
		if rows == 0 {
			return ErrCategoryNotFound
		}
		return nil
	})
}

func (s *CategoryService) ListPaged(ctx context.Context, page models.PageQuery, ownerUserID string) (models.Page[models.Category], error) {
	if err := page.Validate(); err != nil {
		return models.Page[models.Category]{}, err
	}
	categories, total, err := s.categories.ListByOwner(ctx, ownerUserID, page)
	if err != nil {
		return models.Page[models.Category]{}, err
	}
	return models.NewPage(categories, page, total), nil
}
