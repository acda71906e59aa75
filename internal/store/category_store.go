package store

import (
	"context"
	"fmt"
	"time"

	"finledger/internal/models"

	"github.com/google/uuid"
)

type CategoryStore struct {
	db DB
}

type categoryRow struct {
	ID          string    `db:"id"`
	Name        string    `db:"name"`
	OwnerUserID string    `db:"owner_user_id"`
	CreatedAt   time.Time `db:"created_at"`
	UpdatedAt   time.Time `db:"updated_at"`
}

func (r categoryRow) model() models.Category {
	return models.Category{
		ID:          r.ID,
		Name:        r.Name,
		OwnerUserID: r.OwnerUserID,
		CreatedAt:   r.CreatedAt,
		UpdatedAt:   r.UpdatedAt,
	}
}

const categoryColumns = `id, name, owner_user_id, created_at, updated_at`

func NewCategoryStore(db DB) *CategoryStore {
	return &CategoryStore{db: db}
}

// GetByID returns sql.ErrNoRows when the category does not exist.
func (s *CategoryStore) GetByID(ctx context.Context, tx Getter, categoryID string) (models.Category, error) {
	var row categoryRow
	err := tx.GetContext(ctx, &row, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE id = $1
	`, categoryID)
	if err != nil {
		return models.Category{}, missing(err)
	}
	return row.model(), nil
}

func (s *CategoryStore) ExistsByNameAndOwner(ctx context.Context, tx Getter, name, ownerUserID string) (bool, error) {
	var exists bool
	err := tx.GetContext(ctx, &exists, `
		SELECT EXISTS (
			SELECT 1 FROM categories WHERE name = $1 AND owner_user_id = $2
		)
	`, name, ownerUserID)
	return exists, err
}

func (s *CategoryStore) Save(ctx context.Context, tx Getter, category models.Category) (models.Category, error) {
	var row categoryRow
	var err error
	if category.ID == "" {
		err = tx.GetContext(ctx, &row, `
			INSERT INTO categories (id, name, owner_user_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING `+categoryColumns, uuid.NewString(), category.Name, category.OwnerUserID, category.CreatedAt, category.UpdatedAt)
	} else {
		err = tx.GetContext(ctx, &row, `
			UPDATE categories
			SET name = $1, updated_at = $2
			WHERE id = $3
			RETURNING `+categoryColumns, category.Name, category.UpdatedAt, category.ID)
	}
	if err != nil {
		return models.Category{}, fmt.Errorf("save category: %w", translate(err))
	}
	return row.model(), nil
}

func (s *CategoryStore) DeleteByIDAndOwner(ctx context.Context, tx Execer, categoryID, ownerUserID string) (int64, error) {
	res, err := tx.ExecContext(ctx, `
		DELETE FROM categories
		WHERE id = $1 AND owner_user_id = $2
	`, categoryID, ownerUserID)
	if err != nil {
		return 0, fmt.Errorf("delete category: %w", translate(err))
	}
	return res.RowsAffected()
}

func (s *CategoryStore) ListByOwner(ctx context.Context, ownerUserID string, page models.PageQuery) ([]models.Category, int64, error) {
	order, err := orderBy(CategorySortColumns, "", page)
	if err != nil {
		return nil, 0, err
	}
	var total int64
	if err := s.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM categories WHERE owner_user_id = $1`, ownerUserID); err != nil {
		return nil, 0, err
	}
	var rows []categoryRow
	err = s.db.SelectContext(ctx, &rows, `
		SELECT `+categoryColumns+`
		FROM categories
		WHERE owner_user_id = $1`+order+`
		LIMIT $2 OFFSET $3
	`, ownerUserID, page.Size, page.Offset())
	if err != nil {
		return nil, 0, err
	}
	categories := make([]models.Category, 0, len(rows))
	for _, row := range rows {
		categories = append(categories, row.model())
	}
	return categories, total, nil
}
