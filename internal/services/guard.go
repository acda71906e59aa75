package services

import (
	"database/sql"
	"errors"
)

// owned applies the ownership guard to a store lookup. A missing row and a
// row held by someone else both come back as notFound.
func owned[T any](entity T, err error, ownerUserID string, ownerOf func(T) string, notFound error) (T, error) {
	var zero T
	if errors.Is(err, sql.ErrNoRows) {
		return zero, notFound
	}
	if err != nil {
		return zero, err
	}
	if ownerOf(entity) != ownerUserID {
		return zero, notFound
	}
	return entity, nil
}
