// Package apperr defines the error kinds shared by the core operations.
// Callers classify failures with errors.Is against the sentinel values.
package apperr

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks missing or malformed input. Never retried.
	ErrValidation = errors.New("validation failed")
	// ErrNotFound marks a referenced entity that does not exist.
	ErrNotFound = errors.New("not found")
	// ErrInvalidState marks an operation that is not legal for the entity's current state.
	ErrInvalidState = errors.New("invalid state")
	// ErrForbidden marks a caller acting on an entity it does not own.
	ErrForbidden = errors.New("forbidden")
	// ErrTimeout marks a persistence call that exceeded its deadline.
	ErrTimeout = errors.New("operation timed out")
	// ErrStorage marks any other backend failure.
	ErrStorage = errors.New("storage failure")
)

// Validation returns an ErrValidation with a formatted detail.
func Validation(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// NotFound returns an ErrNotFound naming the missing entity.
func NotFound(entity, id string) error {
	return fmt.Errorf("%w: %s %q", ErrNotFound, entity, id)
}

// InvalidState returns an ErrInvalidState with a formatted detail.
func InvalidState(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidState, fmt.Sprintf(format, args...))
}

// Forbidden returns an ErrForbidden with a formatted detail.
func Forbidden(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrForbidden, fmt.Sprintf(format, args...))
}

// Retryable reports whether err is a transient backend failure. Only reads
// should be retried blindly.
func Retryable(err error) bool {
	return errors.Is(err, ErrTimeout) || errors.Is(err, ErrStorage)
}
