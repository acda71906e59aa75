// Package errs defines the error kinds shared by the ledger packages.
// Every sentinel elsewhere wraps exactly one kind, so callers classify
// failures with errors.Is against these values.
package errs

import "errors"

var (
	ErrValidation      = errors.New("validation error")
	ErrNotFound        = errors.New("not found")
	ErrConflict        = errors.New("conflict")
	ErrIllegalArgument = errors.New("illegal argument")
)
