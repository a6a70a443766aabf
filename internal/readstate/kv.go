package readstate

import (
	"context"
	"errors"

	"github.com/nhle/venuedesk/internal/store"
)

// Key is the single store key holding the acknowledged IDs.
const Key = "notifications.read"

// KV persists the set as a JSON array under one key of a store.Store.
type KV struct {
	store store.Store
	key   string
}

// NewKV returns a Persister backed by s under Key.
func NewKV(s store.Store) *KV {
	return &KV{store: s, key: Key}
}

// Load reads and decodes the stored array.
func (k *KV) Load(ctx context.Context) ([]string, error) {
	raw, err := k.store.GetValue(ctx, k.key)
	if errors.Is(err, store.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return decodeIDs(raw)
}

// Save encodes and overwrites the stored array.
func (k *KV) Save(ctx context.Context, ids []string) error {
	data, err := encodeIDs(ids)
	if err != nil {
		return err
	}
	return k.store.PutValue(ctx, k.key, data)
}
