package domain

import (
	"errors"
	"fmt"
)

// ErrUpstreamUnavailable is returned when a dependency cannot be reached:
// a model service that fails or refuses the request, or an entry store
// whose connection is down.
var ErrUpstreamUnavailable = errors.New("upstream service unavailable")

// ValidationError reports a missing or malformed input field.
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Message)
}

// NewValidationError creates a validation error for field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// IsValidationError reports whether err wraps a ValidationError.
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
