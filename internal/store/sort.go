package store

import (
	"fmt"

	"finledger/internal/models"
)

// SortColumns maps accepted sort fields, camelCase or snake_case, onto
// column names.
type SortColumns struct {
	columns  map[string]string
	fallback string
}

var (
	AccountSortColumns = SortColumns{
		columns: map[string]string{
			"name":       "name",
			"currency":   "currency",
			"createdAt":  "created_at",
			"created_at": "created_at",
			"updatedAt":  "updated_at",
			"updated_at": "updated_at",
		},
		fallback: "created_at",
	}
	CategorySortColumns = SortColumns{
		columns: map[string]string{
			"name":       "name",
			"createdAt":  "created_at",
			"created_at": "created_at",
			"updatedAt":  "updated_at",
			"updated_at": "updated_at",
		},
		fallback: "created_at",
	}
	TransactionSortColumns = SortColumns{
		columns: map[string]string{
			"transactionDate":  "transaction_date",
			"transaction_date": "transaction_date",
			"createdAt":        "created_at",
			"created_at":       "created_at",
			"updatedAt":        "updated_at",
			"updated_at":       "updated_at",
			"type":             "type",
			"amount":           "amount",
			"description":      "description",
		},
		fallback: "transaction_date",
	}
)

// Resolve returns the column for field; an empty field selects the default.
func (c SortColumns) Resolve(field string) (string, error) {
	if field == "" {
		return c.fallback, nil
	}
	column, ok := c.columns[field]
	if !ok {
		return "", fmt.Errorf("%w: %q", models.ErrInvalidSortField, field)
	}
	return column, nil
}

func orderBy(columns SortColumns, alias string, page models.PageQuery) (string, error) {
	column, err := columns.Resolve(page.Sort)
	if err != nil {
		return "", err
	}
	direction := page.SortDirection()
	return fmt.Sprintf(" ORDER BY %s%s %s, %sid %s", alias, column, direction, alias, direction), nil
}
