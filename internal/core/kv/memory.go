package kv

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	memkv "github.com/colonyops/assess/pkg/kv"
)

// Memory is a process-local KV backed by an in-memory map. Values are stored
// as JSON so callers observe the same copy semantics as the SQLite store.
type Memory struct {
	mu   sync.Mutex // serializes Update commits
	data *memkv.Store[string, []byte]
}

var _ KV = (*Memory)(nil)

// NewMemory creates an empty in-memory KV.
func NewMemory() *Memory {
	return &Memory{data: memkv.New[string, []byte]()}
}

func (m *Memory) Get(_ context.Context, key string, dest any) error {
	raw, ok := m.data.Get(key)
	if !ok {
		return fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		return fmt.Errorf("kv get %q unmarshal: %w", key, err)
	}
	return nil
}

func (m *Memory) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}
	m.data.Set(key, raw)
	return nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	m.data.Delete(key)
	return nil
}

func (m *Memory) Has(_ context.Context, key string) (bool, error) {
	_, ok := m.data.Get(key)
	return ok, nil
}

func (m *Memory) ListKeys(_ context.Context, prefix string) ([]string, error) {
	keys := m.data.KeysFunc(func(k string) bool { return strings.HasPrefix(k, prefix) })
	sort.Strings(keys)
	return keys, nil
}

func (m *Memory) Update(ctx context.Context, fn func(tx KV) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	tx := &memoryTx{
		base:    m,
		writes:  map[string][]byte{},
		deletes: map[string]bool{},
	}
	if err := fn(tx); err != nil {
		return err
	}

	deletes := make([]string, 0, len(tx.deletes))
	for k := range tx.deletes {
		deletes = append(deletes, k)
	}
	m.data.Apply(tx.writes, deletes)
	return nil
}

// memoryTx buffers writes until the enclosing Update returns.
type memoryTx struct {
	base    *Memory
	writes  map[string][]byte
	deletes map[string]bool
}

func (t *memoryTx) Get(ctx context.Context, key string, dest any) error {
	if t.deletes[key] {
		return fmt.Errorf("kv get %q: %w", key, sql.ErrNoRows)
	}
	if raw, ok := t.writes[key]; ok {
		if err := json.Unmarshal(raw, dest); err != nil {
			return fmt.Errorf("kv get %q unmarshal: %w", key, err)
		}
		return nil
	}
	return t.base.Get(ctx, key, dest)
}

func (t *memoryTx) Set(_ context.Context, key string, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("kv set %q marshal: %w", key, err)
	}
	delete(t.deletes, key)
	t.writes[key] = raw
	return nil
}

func (t *memoryTx) Delete(_ context.Context, key string) error {
	delete(t.writes, key)
	t.deletes[key] = true
	return nil
}

func (t *memoryTx) Has(ctx context.Context, key string) (bool, error) {
	if t.deletes[key] {
		return false, nil
	}
	if _, ok := t.writes[key]; ok {
		return true, nil
	}
	return t.base.Has(ctx, key)
}

func (t *memoryTx) ListKeys(ctx context.Context, prefix string) ([]string, error) {
	base, err := t.base.ListKeys(ctx, prefix)
	if err != nil {
		return nil, err
	}

	seen := map[string]bool{}
	var keys []string
	for _, k := range base {
		if !t.deletes[k] {
			seen[k] = true
			keys = append(keys, k)
		}
	}
	for k := range t.writes {
		if strings.HasPrefix(k, prefix) && !seen[k] {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (t *memoryTx) Update(_ context.Context, fn func(tx KV) error) error {
	return fn(t)
}
