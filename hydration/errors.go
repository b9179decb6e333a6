package hydration

import (
	"errors"
	"fmt"
)

// Validation errors. A rejected operation leaves state untouched.
var (
	ErrInvalidAmount        = errors.New("amount must be positive")
	ErrInvalidTarget        = errors.New("target must be positive")
	ErrIndexOutOfRange      = errors.New("record index out of range")
	ErrConfirmationRequired = errors.New("reset discards today's records; confirmation required")
)

// ValueError reports a rejected numeric input.
type ValueError struct {
	Field string
	Value int
	Err   error
}

func (e *ValueError) Error() string {
	return fmt.Sprintf("%s %d: %v", e.Field, e.Value, e.Err)
}

func (e *ValueError) Unwrap() error { return e.Err }

// IndexError reports a position outside the current list.
type IndexError struct {
	Index int
	Len   int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("index %d out of range [0, %d)", e.Index, e.Len)
}

func (e *IndexError) Unwrap() error { return ErrIndexOutOfRange }

// IsClientError returns true if the error is due to invalid caller input.
func IsClientError(err error) bool {
	return errors.Is(err, ErrInvalidAmount) ||
		errors.Is(err, ErrInvalidTarget) ||
		errors.Is(err, ErrIndexOutOfRange)
}
