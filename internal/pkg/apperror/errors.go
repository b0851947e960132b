// internal/pkg/apperror/errors.go
package apperror

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrNotFound     = errors.New("not found")
	ErrUnauthorized = errors.New("authentication required")
	ErrForbidden    = errors.New("access denied")
	ErrConflict     = errors.New("conflict")
)

// ValidationError carries field-level detail and matches ErrValidation.
type ValidationError struct {
	Fields map[string]string
}

// NewValidation builds a ValidationError for a single field.
func NewValidation(field, message string) *ValidationError {
	return &ValidationError{Fields: map[string]string{field: message}}
}

// Add records a field problem and returns the receiver for chaining.
func (e *ValidationError) Add(field, message string) *ValidationError {
	if e.Fields == nil {
		e.Fields = make(map[string]string)
	}
	e.Fields[field] = message
	return e
}

// HasErrors reports whether any field failed.
func (e *ValidationError) HasErrors() bool {
	return e != nil && len(e.Fields) > 0
}

// OrNil returns nil when no field failed, so callers can write `return v.OrNil()`.
func (e *ValidationError) OrNil() error {
	if !e.HasErrors() {
		return nil
	}
	return e
}

func (e *ValidationError) Error() string {
	keys := make([]string, 0, len(e.Fields))
	for k := range e.Fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, fmt.Sprintf("%s: %s", k, e.Fields[k]))
	}
	return fmt.Sprintf("%s: %s", ErrValidation.Error(), strings.Join(parts, "; "))
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// NotFound wraps ErrNotFound with the entity name, e.g. "order not found".
func NotFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// Invalid wraps ErrValidation with a free-form message.
func Invalid(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrValidation, fmt.Sprintf(format, args...))
}

// Conflict wraps ErrConflict with a free-form message.
func Conflict(format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", ErrConflict, fmt.Sprintf(format, args...))
}
