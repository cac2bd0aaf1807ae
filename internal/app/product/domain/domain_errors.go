package domain

import (
	"errors"
	"fmt"
	"strings"
)

// Domain errors for Product aggregate
var (
	// ErrProductNotFound indicates that a product with the given ID does not exist.
	ErrProductNotFound = errors.New("product not found")

	// ErrCategoryNotFound indicates that a category with the given ID does not exist.
	ErrCategoryNotFound = errors.New("category not found")

	// ErrIdentityMismatch indicates that the addressed product ID and the ID carried
	// by the request body disagree.
	ErrIdentityMismatch = errors.New("product id mismatch")

	// ErrConcurrencyConflict indicates that the stored version of a product changed
	// between the caller's read and its write. Callers should reread and retry.
	ErrConcurrencyConflict = errors.New("product was modified concurrently")
)

// Infrastructure errors surfaced by collaborators.
var (
	// ErrStorage indicates an image persistence I/O failure.
	ErrStorage = errors.New("storage failure")
)

// Validation errors
var (
	// ErrValidation is matched by every input validation failure.
	ErrValidation = errors.New("validation failed")

	// ErrUnsupportedImageType indicates an upload with an extension outside the allowed set.
	ErrUnsupportedImageType = fmt.Errorf("%w: unsupported image type", ErrValidation)

	// ErrEmptyImage indicates an upload without any payload.
	ErrEmptyImage = fmt.Errorf("%w: image is empty", ErrValidation)

	// ErrImageTooLarge indicates an upload above the configured size limit.
	ErrImageTooLarge = fmt.Errorf("%w: image is too large", ErrValidation)
)

// FieldError describes one violated field constraint.
type FieldError struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError lists every violated field of an input, not just the first one.
type ValidationError struct {
	Fields []FieldError
	cause  error
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, len(e.Fields))
	for _, f := range e.Fields {
		parts = append(parts, f.Field+": "+f.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Is makes errors.Is(err, ErrValidation) hold for field-level failures.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// Unwrap exposes the sentinel behind a wrapped field error, if any.
func (e *ValidationError) Unwrap() error {
	return e.cause
}

// Add records a violation.
func (e *ValidationError) Add(field, message string) {
	e.Fields = append(e.Fields, FieldError{Field: field, Message: message})
}

// HasField reports whether the given field has been recorded.
func (e *ValidationError) HasField(field string) bool {
	for _, f := range e.Fields {
		if f.Field == field {
			return true
		}
	}
	return false
}

// Merge appends every violation of other.
func (e *ValidationError) Merge(other *ValidationError) {
	if other == nil {
		return
	}
	e.Fields = append(e.Fields, other.Fields...)
	if e.cause == nil {
		e.cause = other.cause
	}
}

// ErrOrNil returns e when at least one violation was recorded.
func (e *ValidationError) ErrOrNil() error {
	if e == nil || len(e.Fields) == 0 {
		return nil
	}
	return e
}

// NewFieldError is a shorthand for a single-field ValidationError.
func NewFieldError(field, message string) *ValidationError {
	return &ValidationError{Fields: []FieldError{{Field: field, Message: message}}}
}

// WrapFieldError reports cause as a violation of field. errors.Is still
// matches the sentinel cause.
func WrapFieldError(field, message string, cause error) *ValidationError {
	return &ValidationError{
		Fields: []FieldError{{Field: field, Message: message}},
		cause:  cause,
	}
}
