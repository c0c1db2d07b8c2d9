package kv

import (
	"context"
)

// KV is the interface for a persistent key-value store.
// Keys are strings, values are JSON-serializable.
// Get on a missing key returns an error wrapping sql.ErrNoRows.
type KV interface {
	Get(ctx context.Context, key string, dest any) error
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
	Has(ctx context.Context, key string) (bool, error)
	// ListKeys returns the keys beginning with prefix in sorted order.
	ListKeys(ctx context.Context, prefix string) ([]string, error)
	// Update runs fn against a view of the store whose writes are committed
	// together when fn returns nil and discarded otherwise.
	Update(ctx context.Context, fn func(tx KV) error) error
}
