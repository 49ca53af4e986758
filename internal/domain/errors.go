package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInput marks a missing or malformed caller-supplied field.
	ErrInput = errors.New("invalid input")
	// ErrStorage marks a persistence failure.
	ErrStorage = errors.New("storage unavailable")
)

// InputError names the offending field. It matches ErrInput with errors.Is.
type InputError struct {
	Field  string
	Reason string
}

// NewInputError builds an InputError for field.
func NewInputError(field, reason string) *InputError {
	return &InputError{Field: field, Reason: reason}
}

func (e *InputError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

// Is makes errors.Is(err, ErrInput) true for any InputError.
func (e *InputError) Is(target error) bool {
	return target == ErrInput
}
