// Package errs holds the error taxonomy shared by every layer.
//
// Callers match categories with errors.Is; concrete errors wrap one of the
// sentinels below.
package errs

import (
	"errors"
	"fmt"
)

var (
	// ErrValidation marks user input that failed a check (missing field,
	// invalid amount, passwords that do not match). Never fatal.
	ErrValidation = errors.New("validation failed")

	// ErrAuth marks a failed register or login.
	ErrAuth = errors.New("authentication failed")

	// ErrPersistenceParse marks stored data that could not be decoded.
	// It is logged and recovered from, never surfaced to users.
	ErrPersistenceParse = errors.New("malformed stored data")

	ErrNotFound = errors.New("not found")

	// ErrPending is returned when a simulated operation is already in flight
	// for the same entity.
	ErrPending = errors.New("operation already pending")
)

// ValidationError describes which input was rejected.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Message
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Validation returns a ValidationError for field.
func Validation(field, message string) error {
	return &ValidationError{Field: field, Message: message}
}
