package domain

import (
	"errors"
	"fmt"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound   = errors.New("not found")
	ErrValidation = errors.New("validation error")

	// ErrEmptyName and ErrRatingOutOfRange are the meal construction failures.
	ErrEmptyName        = errors.New("empty name")
	ErrRatingOutOfRange = errors.New("rating out of range")

	// ErrIndexOutOfRange means a position names no meal in the journal.
	ErrIndexOutOfRange = fmt.Errorf("index out of range: %w", ErrNotFound)

	// ErrDecode marks a malformed archive or meal record.
	ErrDecode = errors.New("decode error")

	// ErrPersistence marks a failed archive write.
	ErrPersistence = errors.New("persistence failure")
)

// FieldError describes a validation error for a specific field.
// Err optionally carries a field-specific sentinel (e.g. ErrEmptyName).
type FieldError struct {
	Field   string
	Message string
	Err     error
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	return fmt.Sprintf("validation: %d errors", len(e.Errors))
}

// Unwrap exposes ErrValidation and every field sentinel, so both
// errors.Is(err, ErrValidation) and errors.Is(err, ErrEmptyName) hold.
func (e *ValidationError) Unwrap() []error {
	errs := []error{ErrValidation}
	for _, fe := range e.Errors {
		if fe.Err != nil {
			errs = append(errs, fe.Err)
		}
	}
	return errs
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message}},
	}
}

// NewFieldError creates a ValidationError for a single field carrying a sentinel.
func NewFieldError(field, message string, sentinel error) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Message: message, Err: sentinel}},
	}
}

// NewValidationErrors creates a ValidationError from multiple field errors.
func NewValidationErrors(errs []FieldError) *ValidationError {
	return &ValidationError{Errors: errs}
}
