package errors

import (
	"errors"
	"fmt"
)

var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrConflict           = errors.New("conflicting concurrent modification")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// ValidationError reports the first violated invariant of a standing order
// definition. It blocks the whole operation; no partial state is created.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// NewValidation builds a ValidationError for a field.
func NewValidation(field, reason string) *ValidationError {
	return &ValidationError{Field: field, Reason: reason}
}

// ReferentialIntegrityError indicates a referenced customer or product
// vanished between standing order creation and occurrence materialization.
type ReferentialIntegrityError struct {
	Kind string
	ID   int64
}

func (e *ReferentialIntegrityError) Error() string {
	return fmt.Sprintf("%s %d no longer exists", e.Kind, e.ID)
}
