package sun

import (
	"errors"
	"fmt"
)

// ErrInvalidElevation is returned when the observer elevation is negative
var ErrInvalidElevation = errors.New("elevation must be non-negative")

// ValidationError represents a validation error for input parameters
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
