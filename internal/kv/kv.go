// Package kv defines the on-device key-value persistence port and its
// backends. Values are opaque byte blobs keyed by string; the typed JSON
// layer lives in internal/storage.
package kv

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when the key has no stored value.
var ErrNotFound = errors.New("key not found")

type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)

	// Put stores value under key, overwriting any prior value.
	Put(ctx context.Context, key string, value []byte) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(ctx context.Context, key string) error

	// Keys lists all stored keys.
	Keys(ctx context.Context) ([]string, error)

	Close() error
}
