// Package store provides Store implementations.
package store

import (
	"context"
	"errors"
	"sort"
	"sync"

	"github.com/warp/intake-engine/generic"
)

// =============================================================================
// MEMORY STORE - In-memory implementation (for testing/dev)
// =============================================================================

type Memory struct {
	mu     sync.RWMutex
	values map[string][]byte

	// FailKey makes every Put to that key fail with ErrInjected.
	// Used to test rollback.
	FailKey string
}

// ErrInjected is returned by Put for FailKey.
var ErrInjected = errors.New("injected store failure")

func NewMemory() *Memory {
	return &Memory{values: make(map[string][]byte)}
}

func (m *Memory) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.getLocked(key)
}

func (m *Memory) getLocked(key string) ([]byte, bool, error) {
	v, ok := m.values[key]
	if !ok {
		return nil, false, nil
	}
	out := make([]byte, len(v))
	copy(out, v)
	return out, true, nil
}

// Put replaces the value for key.
func (m *Memory) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.putLocked(key, value)
}

func (m *Memory) putLocked(key string, value []byte) error {
	if m.FailKey != "" && key == m.FailKey {
		return ErrInjected
	}
	v := make([]byte, len(value))
	copy(v, value)
	m.values[key] = v
	return nil
}

func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.keysLocked(), nil
}

func (m *Memory) keysLocked() []string {
	keys := make([]string, 0, len(m.values))
	for k := range m.values {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// =============================================================================
// TRANSACTIONAL MEMORY STORE
// =============================================================================

// TxMemory wraps Memory with transaction support.
type TxMemory struct {
	*Memory
}

func NewTxMemory() *TxMemory {
	return &TxMemory{Memory: NewMemory()}
}

// WithTx executes fn within a transaction.
// For memory store, this is simulated with a snapshot + rollback on error.
func (tm *TxMemory) WithTx(ctx context.Context, fn func(generic.Store) error) error {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	snapshot := tm.snapshot()

	if err := fn(&txMemoryView{parent: tm}); err != nil {
		tm.values = snapshot
		return err
	}
	return nil
}

func (tm *TxMemory) snapshot() map[string][]byte {
	cp := make(map[string][]byte, len(tm.values))
	for k, v := range tm.values {
		cp[k] = append([]byte(nil), v...)
	}
	return cp
}

type txMemoryView struct {
	parent *TxMemory
}

func (tv *txMemoryView) Get(_ context.Context, key string) ([]byte, bool, error) {
	return tv.parent.getLocked(key)
}

func (tv *txMemoryView) Put(_ context.Context, key string, value []byte) error {
	return tv.parent.putLocked(key, value)
}

func (tv *txMemoryView) Keys(_ context.Context) ([]string, error) {
	return tv.parent.keysLocked(), nil
}
