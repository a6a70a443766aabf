package store

import (
	"context"
	"errors"
)

// ErrNotFound is returned when a key has no stored value.
var ErrNotFound = errors.New("not found")

// Store defines the local key-value persistence used for client-side state
// that is never synced to the backend.
type Store interface {
	// GetValue returns the value stored under key, or ErrNotFound.
	GetValue(ctx context.Context, key string) ([]byte, error)

	// PutValue stores value under key, replacing any previous value.
	PutValue(ctx context.Context, key string, value []byte) error

	// Close releases the underlying connection.
	Close() error
}
