package app

import (
	"errors"
	"fmt"
)

// ErrNotFound indicates a referenced faculty does not exist.
var ErrNotFound = errors.New("faculty not found")

// ValidationError rejects caller input before it reaches the store, so a
// failed submission never leaves a partial write behind.
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("validation failed: %s", e.Reason)
	}
	return fmt.Sprintf("validation failed on %s: %s", e.Field, e.Reason)
}

func IsValidation(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
