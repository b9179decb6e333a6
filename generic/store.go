/*
store.go - Persistence port for day-scoped state

PURPOSE:
  Defines the interface between the domain logic and local storage.
  State is kept as a handful of named values (settings, today's snapshot,
  archived history), each written as a whole. Different implementations
  can use SQLite or in-memory storage.

KEY INTERFACES:
  Store:   Get/Put of whole values by key
  TxStore: Atomic multi-key writes

WHOLE-VALUE CONTRACT:
  A Put replaces the previous value for the key. There is no partial
  update. A value that was written is read back byte-for-byte.

ATOMIC WRITES:
  WithTx() ensures all-or-nothing semantics. A day rollover writes both
  the archived history and the fresh snapshot; either both land or
  neither does.

IMPLEMENTATIONS:
  - store/sqlite/sqlite.go: SQLite (WAL)
  - generic/store/memory.go: In-memory for testing

EXAMPLE:
  store, _ := sqlite.New("./intake.db")
  err := store.WithTx(ctx, func(s generic.Store) error {
      if err := s.Put(ctx, "history", historyJSON); err != nil {
          return err
      }
      return s.Put(ctx, "todayData", snapshotJSON)
  })

SEE ALSO:
  - load.go: Typed loading with absent/corrupt/present outcomes
  - store/sqlite/sqlite.go: Concrete implementation
*/
package generic

import "context"

// =============================================================================
// STORE - Interface for key-value persistence
// =============================================================================

// Store persists whole values by key.
type Store interface {
	// Get returns the value for key. ok is false when nothing was stored.
	Get(ctx context.Context, key string) (value []byte, ok bool, err error)

	// Put replaces the value for key.
	Put(ctx context.Context, key string, value []byte) error

	// Keys returns all stored keys in ascending order.
	Keys(ctx context.Context) ([]string, error)
}

// =============================================================================
// TRANSACTIONAL STORE - For atomic operations across multiple writes
// =============================================================================

// TxStore wraps Store with transaction support.
type TxStore interface {
	Store

	// WithTx executes fn within a transaction.
	// If fn returns error, transaction is rolled back.
	// If fn returns nil, transaction is committed.
	WithTx(ctx context.Context, fn func(Store) error) error
}
