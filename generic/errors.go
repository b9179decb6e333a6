/*
errors.go - Centralized error types for the generic engine

PURPOSE:
  All storage-level error types in one place for consistency and
  discoverability. Domain packages define their own validation errors
  (see hydration/errors.go) and wrap these where needed.

ERROR CATEGORIES:
  1. State errors - Persisted values that cannot be decoded
  2. Store errors - Database-level failures

USAGE:
  loaded, err := generic.Load[Settings](ctx, store, "settings")
  if loaded.Status == generic.LoadCorrupt {
      // loaded.Err wraps generic.ErrCorruptState
  }

SEE ALSO:
  - load.go: Produces DecodeError
  - hydration/errors.go: Domain validation errors
*/
package generic

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrCorruptState is returned when a persisted value is malformed or
	// does not match the expected schema. Callers recover by falling back
	// to defaults; it is never fatal.
	ErrCorruptState = errors.New("corrupt persisted state")

	// ErrStoreRequired is returned when a component is built without a store.
	ErrStoreRequired = errors.New("store is required")
)

// =============================================================================
// STRUCTURED ERRORS - Carry additional context
// =============================================================================

// DecodeError provides details about a value that failed to deserialize.
type DecodeError struct {
	Key string
	Err error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %q: %v", e.Key, e.Err)
}

func (e *DecodeError) Unwrap() []error {
	return []error{ErrCorruptState, e.Err}
}

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsCorrupt returns true if the error indicates unreadable persisted state.
func IsCorrupt(err error) bool {
	return errors.Is(err, ErrCorruptState)
}
