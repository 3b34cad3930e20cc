package apperrors

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrPersistence indicates a store-level failure on read or write.
var ErrPersistence = errors.New("persistence error")

// PersistenceError wraps an underlying store failure. For multi-write
// operations it records whether the compensating cleanup of the partial
// write succeeded, so callers can tell a clean abort from an orphaned row.
type PersistenceError struct {
	Op          string
	Compensated bool
	Err         error
}

func (e *PersistenceError) Error() string {
	if e.Compensated {
		return fmt.Sprintf("%s: %v (partial write rolled back)", e.Op, e.Err)
	}
	return fmt.Sprintf("%s: %v (compensation failed, partial write may be visible)", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// Is makes every PersistenceError match the ErrPersistence sentinel.
func (e *PersistenceError) Is(target error) bool { return target == ErrPersistence }

// NewPersistenceError builds a PersistenceError for a single-write failure,
// where nothing was left behind to compensate.
func NewPersistenceError(op string, err error) *PersistenceError {
	return &PersistenceError{Op: op, Compensated: true, Err: err}
}
