// Package kvstore defines the key-value persistence contract the quiz core
// depends on. A browser host backs it with localStorage, a server host with
// Redis; the core only ever sees the injected Store and never assumes a
// specific backend.
package kvstore

import (
	"context"
	"errors"
)

// ErrNotFound is returned by Get when no value exists for the key.
var ErrNotFound = errors.New("kvstore: key not found")

// Store is a minimal key-value contract: single-value slots plus
// append-only lists. Implementations must make Set atomic from the
// caller's perspective: a reader never observes a partial value.
type Store interface {
	// Get returns the value stored under key, or ErrNotFound.
	Get(ctx context.Context, key string) ([]byte, error)
	// Set stores value under key, overwriting any previous value.
	Set(ctx context.Context, key string, value []byte) error
	// Delete removes the slot for key. Deleting a missing key is a no-op.
	Delete(ctx context.Context, key string) error
	// Append adds value to the end of the list stored under key.
	Append(ctx context.Context, key string, value []byte) error
	// List returns all values appended under key, oldest first.
	// A missing list reads as empty.
	List(ctx context.Context, key string) ([][]byte, error)
}
