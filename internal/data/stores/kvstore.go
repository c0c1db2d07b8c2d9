package stores

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/colonyops/assess/internal/core/kv"
	"github.com/colonyops/assess/internal/data/db"
)

// KVStore implements kv.KV using SQLite.
type KVStore struct {
	db *db.DB // nil when bound to a transaction
	q  *db.Queries
}

var _ kv.KV = (*KVStore)(nil)

// NewKVStore creates a new SQLite-backed KV store.
func NewKVStore(db *db.DB) *KVStore {
	return &KVStore{db: db, q: db.Queries()}
}

// Get retrieves and deserializes a value by key.
// Returns an error wrapping sql.ErrNoRows if the key does not exist.
func (s *KVStore) Get(ctx context.Context, key string, dest any) error {
	row, err := s.q.KVGet(ctx, key)
	if err != nil {
		return fmt.Errorf("kv get %q: %w", key, err)
	}

	if err := json.Unmarshal(row.Value, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}

	return nil
}

// Set stores a value, replacing any existing one.
func (s *KVStore) Set(ctx context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}

	now := time.Now().UnixNano()
	if err := s.q.KVSet(ctx, db.KVSetParams{
		Key:       key,
		Value:     data,
		CreatedAt: now,
		UpdatedAt: now,
	}); err != nil {
		return fmt.Errorf("kv set %q: %w", key, err)
	}

	return nil
}

// Delete removes a key. Deleting a missing key is not an error.
func (s *KVStore) Delete(ctx context.Context, key string) error {
	if err := s.q.KVDelete(ctx, key); err != nil {
		return fmt.Errorf("kv delete %q: %w", key, err)
	}
	return nil
}

// Has returns whether a key exists.
func (s *KVStore) Has(ctx context.Context, key string) (bool, error) {
	count, err := s.q.KVHas(ctx, key)
	if err != nil {
		return false, fmt.Errorf("kv has %q: %w", key, err)
	}
	return count > 0, nil
}

// ListKeys returns all keys beginning with prefix in sorted order.
func (s *KVStore) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := s.q.KVListKeys(ctx, prefix)
	if err != nil {
		return nil, fmt.Errorf("kv list keys %q: %w", prefix, err)
	}
	return keys, nil
}

// Update runs fn inside a SQLite transaction. Calls nested inside fn reuse
// the outer transaction.
func (s *KVStore) Update(ctx context.Context, fn func(tx kv.KV) error) error {
	if s.db == nil {
		return fn(s)
	}
	return s.db.WithTx(ctx, func(q *db.Queries) error {
		return fn(&KVStore{q: q})
	})
}
