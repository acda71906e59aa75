package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"finledger/internal/errs"

	"github.com/lib/pq"
)

var (
	ErrDuplicate = fmt.Errorf("%w: record already exists", errs.ErrConflict)
	ErrInUse     = fmt.Errorf("%w: record is still referenced", errs.ErrConflict)
)

type Execer interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
}

type Getter interface {
	GetContext(ctx context.Context, dest any, query string, args ...any) error
}

type Selecter interface {
	SelectContext(ctx context.Context, dest any, query string, args ...any) error
}

type DB interface {
	Execer
	Getter
	Selecter
}

type Tx interface {
	Execer
	Getter
}

// translate maps constraint violations onto the conflict kind and leaves
// every other error, sql.ErrNoRows included, untouched.
func translate(err error) error {
	var pqErr *pq.Error
	if !errors.As(err, &pqErr) {
		return err
	}
	switch pqErr.Code {
	case "23505":
		return fmt.Errorf("%w: %s", ErrDuplicate, pqErr.Constraint)
	case "23503":
		return fmt.Errorf("%w: %s", ErrInUse, pqErr.Constraint)
	default:
		return err
	}
}

// malformedID reports PostgreSQL rejecting an id that is not a valid uuid.
func malformedID(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == "22P02"
}

// missing treats a malformed id as an absent row, so lookups by a caller
// supplied id read as not found rather than as a storage failure.
func missing(err error) error {
	if malformedID(err) {
		return fmt.Errorf("%w: %s", sql.ErrNoRows, err)
	}
	return err
}
