package generic_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/warp/intake-engine/generic"
	"github.com/warp/intake-engine/generic/store"
)

type doc struct {
	Version int    `json:"version"`
	Name    string `json:"name"`
}

func (d doc) SchemaVersion() int         { return d.Version }
func (d doc) ExpectedSchemaVersion() int { return 2 }

func TestLoad_DistinguishesAbsentCorruptPresent(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()

	absent, err := generic.Load[doc](ctx, mem, "k")
	require.NoError(t, err)
	assert.Equal(t, generic.LoadAbsent, absent.Status)
	assert.False(t, absent.OK())

	require.NoError(t, mem.Put(ctx, "k", []byte("{broken")))
	corrupt, err := generic.Load[doc](ctx, mem, "k")
	require.NoError(t, err, "decode failures are not store errors")
	assert.Equal(t, generic.LoadCorrupt, corrupt.Status)
	assert.True(t, generic.IsCorrupt(corrupt.Err))
	var decErr *generic.DecodeError
	require.ErrorAs(t, corrupt.Err, &decErr)
	assert.Equal(t, "k", decErr.Key)

	require.NoError(t, generic.Save(ctx, mem, "k", doc{Version: 2, Name: "ok"}))
	present, err := generic.Load[doc](ctx, mem, "k")
	require.NoError(t, err)
	assert.True(t, present.OK())
	assert.Equal(t, doc{Version: 2, Name: "ok"}, present.Value)
}

func TestLoad_SchemaVersionMismatchIsCorrupt(t *testing.T) {
	ctx := context.Background()
	mem := store.NewMemory()
	require.NoError(t, generic.Save(ctx, mem, "k", doc{Version: 1, Name: "old"}))

	loaded, err := generic.Load[doc](ctx, mem, "k")
	require.NoError(t, err)

	assert.Equal(t, generic.LoadCorrupt, loaded.Status)
	assert.ErrorIs(t, loaded.Err, generic.ErrCorruptState)
	assert.Equal(t, doc{}, loaded.Value)
}

type failingStore struct{ generic.Store }

var errDown = errors.New("disk gone")

func (failingStore) Get(context.Context, string) ([]byte, bool, error) { return nil, false, errDown }

func TestLoad_StoreFailureIsReturned(t *testing.T) {
	_, err := generic.Load[doc](context.Background(), failingStore{}, "k")
	assert.ErrorIs(t, err, errDown)
	assert.False(t, generic.IsCorrupt(err))
}

func TestSave_NilStore(t *testing.T) {
	assert.ErrorIs(t, generic.Save(context.Background(), nil, "k", doc{}), generic.ErrStoreRequired)
}

func TestLoadStatus_String(t *testing.T) {
	assert.Equal(t, "absent", generic.LoadAbsent.String())
	assert.Equal(t, "corrupt", generic.LoadCorrupt.String())
	assert.Equal(t, "present", generic.LoadPresent.String())
}
