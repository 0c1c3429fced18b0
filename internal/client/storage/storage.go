// Package storage is the client's durable local store: a small
// key/value table in a sqlite database. The session store keeps the
// credential pair here; the cart store keeps the anonymous cart.
package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
)

// Well-known keys.
const (
	KeyAuthTokens = "authTokens"
	KeyCart       = "cart"
)

// ErrStorageCorrupt reports a stored value that could not be decoded.
// The entry is removed before the error is returned, so callers may
// treat it as absence.
var ErrStorageCorrupt = errors.New("stored data corrupt")

// Repository is a durable string-keyed store of serialized values.
type Repository interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Clear(ctx context.Context) error
}

// LoadJSON reads key and unmarshals it into out. Returns (false, nil)
// when the key is absent. A value that fails to decode is pruned and
// reported as ErrStorageCorrupt.
func LoadJSON(ctx context.Context, r Repository, key string, out any) (bool, error) {
	data, err := r.Get(ctx, key)
	if err != nil {
		return false, err
	}
	if data == nil {
		return false, nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		_ = r.Delete(ctx, key)
		return false, fmt.Errorf("%w: %s: %w", ErrStorageCorrupt, key, err)
	}
	return true, nil
}

// SaveJSON marshals v and writes it under key.
func SaveJSON(ctx context.Context, r Repository, key string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return r.Set(ctx, key, data)
}
