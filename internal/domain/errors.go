package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound signals a missing resource.
	ErrNotFound = errors.New("not found")
	// ErrAlreadyExists signals a duplicate resource (slug, email).
	ErrAlreadyExists = errors.New("already exists")
	// ErrValidation signals a document that violates its schema.
	ErrValidation = errors.New("validation failed")
	// ErrUnauthorized signals bad credentials.
	ErrUnauthorized = errors.New("authentication failed")
	// ErrForbidden signals a valid identity without the required role.
	ErrForbidden = errors.New("forbidden")
)

// ValidationError names the offending field of a rejected document.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", ErrValidation.Error(), e.Field, e.Reason)
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// NewValidationError creates a validation error for a single field.
func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}
