package generic

import (
	"context"
	"encoding/json"
	"fmt"
)

// LoadStatus distinguishes the three outcomes of reading a persisted value.
type LoadStatus int

const (
	LoadAbsent LoadStatus = iota
	LoadCorrupt
	LoadPresent
)

func (s LoadStatus) String() string {
	switch s {
	case LoadAbsent:
		return "absent"
	case LoadCorrupt:
		return "corrupt"
	case LoadPresent:
		return "present"
	default:
		return fmt.Sprintf("LoadStatus(%d)", int(s))
	}
}

// Loaded is the result of Load. Value is only meaningful when Status is
// LoadPresent; Err is set when Status is LoadCorrupt.
type Loaded[T any] struct {
	Value  T
	Status LoadStatus
	Err    error
}

// OK reports whether a value was decoded.
func (l Loaded[T]) OK() bool { return l.Status == LoadPresent }

// Versioned is implemented by persisted values that carry a schema version.
// A value whose stored version differs from the expected one is reported as
// corrupt.
type Versioned interface {
	SchemaVersion() int
	ExpectedSchemaVersion() int
}

// Load reads key from store and decodes it as JSON into T.
// The returned error is reserved for store failures; decoding problems are
// reported through Loaded.Status so callers can fall back to defaults.
func Load[T any](ctx context.Context, store Store, key string) (Loaded[T], error) {
	var out Loaded[T]
	raw, ok, err := store.Get(ctx, key)
	if err != nil {
		return out, fmt.Errorf("load %q: %w", key, err)
	}
	if !ok {
		out.Status = LoadAbsent
		return out, nil
	}

	var v T
	if err := json.Unmarshal(raw, &v); err != nil {
		out.Status = LoadCorrupt
		out.Err = &DecodeError{Key: key, Err: err}
		return out, nil
	}
	if vv, ok := any(v).(Versioned); ok && vv.SchemaVersion() != vv.ExpectedSchemaVersion() {
		out.Status = LoadCorrupt
		out.Err = &DecodeError{
			Key: key,
			Err: fmt.Errorf("schema version %d, want %d", vv.SchemaVersion(), vv.ExpectedSchemaVersion()),
		}
		return out, nil
	}

	out.Value = v
	out.Status = LoadPresent
	return out, nil
}

// Save encodes v as JSON and writes it under key.
func Save(ctx context.Context, store Store, key string, v any) error {
	if store == nil {
		return ErrStoreRequired
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %q: %w", key, err)
	}
	if err := store.Put(ctx, key, raw); err != nil {
		return fmt.Errorf("save %q: %w", key, err)
	}
	return nil
}
