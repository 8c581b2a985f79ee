// Package db defines the storage contract dataset repositories run on.
package db

import (
	"context"
	"errors"
)

// ErrKeyNotFound signals a missing key.
var ErrKeyNotFound = errors.New("key not found")

// Store is the key-value surface a dataset repository needs.
type Store interface {
	// JSONSet stores a JSON document at key.
	JSONSet(ctx context.Context, key string, data []byte) error
	// JSONGet retrieves a JSON document by key. Missing keys return ErrKeyNotFound.
	JSONGet(ctx context.Context, key string) ([]byte, error)
	// Del removes a key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error
	// Scan returns all keys matching a glob pattern.
	Scan(ctx context.Context, pattern string) ([]string, error)
	// Ping checks connectivity.
	Ping(ctx context.Context) error
	// Close shuts down the store.
	Close()
}
