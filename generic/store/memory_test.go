package store

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/intake-engine/generic"
)

func TestMemory_PutGetKeys(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	_, ok, err := m.Get(ctx, "missing")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, m.Put(ctx, "b", []byte("2")))
	require.NoError(t, m.Put(ctx, "a", []byte("1")))
	require.NoError(t, m.Put(ctx, "b", []byte("3")))

	v, ok, err := m.Get(ctx, "b")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Equal(t, []byte("3"), v)

	keys, err := m.Keys(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, keys)
}

func TestMemory_ValuesAreCopied(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	in := []byte("abc")
	require.NoError(t, m.Put(ctx, "k", in))
	in[0] = 'z'

	out, _, _ := m.Get(ctx, "k")
	assert.Equal(t, []byte("abc"), out)
}

func TestTxMemory_RollbackOnError(t *testing.T) {
	ctx := context.Background()
	m := NewTxMemory()
	require.NoError(t, m.Put(ctx, "a", []byte("old")))

	boom := errors.New("boom")
	err := m.WithTx(ctx, func(s generic.Store) error {
		require.NoError(t, s.Put(ctx, "a", []byte("new")))
		require.NoError(t, s.Put(ctx, "b", []byte("new")))
		v, _, _ := s.Get(ctx, "a")
		assert.Equal(t, []byte("new"), v, "writes are visible inside the transaction")
		return boom
	})
	assert.ErrorIs(t, err, boom)

	v, _, _ := m.Get(ctx, "a")
	assert.Equal(t, []byte("old"), v)
	_, ok, _ := m.Get(ctx, "b")
	assert.False(t, ok)
}

func TestTxMemory_CommitOnSuccess(t *testing.T) {
	ctx := context.Background()
	m := NewTxMemory()

	require.NoError(t, m.WithTx(ctx, func(s generic.Store) error {
		return s.Put(ctx, "a", []byte("1"))
	}))

	v, ok, _ := m.Get(ctx, "a")
	assert.True(t, ok)
	assert.Equal(t, []byte("1"), v)
}

func TestMemory_FailKey(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()
	m.FailKey = "bad"

	assert.ErrorIs(t, m.Put(ctx, "bad", nil), ErrInjected)
	assert.NoError(t, m.Put(ctx, "good", nil))
}
