// Package validation defines the error type used to reject invalid input.
// A validation error is always reported synchronously to the caller and
// never retried or silently corrected.
package validation

import (
	"errors"
	"fmt"
)

// Error describes a rejected input value.
type Error struct {
	Field  string
	Reason string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Errorf builds a validation error for a field.
func Errorf(field, format string, args ...interface{}) *Error {
	return &Error{Field: field, Reason: fmt.Sprintf(format, args...)}
}

// IsValidation reports whether err is (or wraps) a validation error.
func IsValidation(err error) bool {
	var ve *Error
	return errors.As(err, &ve)
}
