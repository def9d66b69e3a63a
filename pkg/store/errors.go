// Package store provides database-backed access to users and movies.
// Handlers receive store instances explicitly; nothing in this package
// holds global state.
package store

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when no record exists for the requested id or
// username.
var ErrNotFound = errors.New("record not found")

// ValidationError reports a rejected field value. It is always recovered
// at the handler layer and surfaced to the user as a flash message.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid %s: %s", e.Field, e.Reason)
}

// IsValidation reports whether err is a ValidationError.
func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
