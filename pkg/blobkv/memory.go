package blobkv

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"iter"
	"os"
	"sort"
	"sync"
)

// Memory is an in-memory Store backed by a map. It is safe for
// concurrent use and intended primarily for testing; values are copied
// on the way in and out so callers cannot mutate stored data.
type Memory struct {
	mu   sync.RWMutex
	data map[string][]byte
}

// NewMemory creates a new in-memory store.
func NewMemory() *Memory {
	return &Memory{data: make(map[string][]byte)}
}

func (m *Memory) Exists(_ context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	m.mu.RLock()
	_, ok := m.data[key]
	m.mu.RUnlock()
	return ok, nil
}

func (m *Memory) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	m.mu.Lock()
	delete(m.data, key)
	m.mu.Unlock()
	return nil
}

func (m *Memory) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	m.mu.RLock()
	v, ok := m.data[key]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("blobkv: open %s: %w", key, ErrNotFound)
	}
	cp := make([]byte, len(v))
	copy(cp, v)
	return io.NopCloser(bytes.NewReader(cp)), nil
}

func (m *Memory) Put(_ context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	cp := make([]byte, len(data))
	copy(cp, data)
	m.mu.Lock()
	m.data[key] = cp
	m.mu.Unlock()
	return nil
}

func (m *Memory) PutReader(_ context.Context, key string, r io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.mu.Lock()
	m.data[key] = data
	m.mu.Unlock()
	return nil
}

// PutFile reads the file at path into the store and removes the
// source. There is no cheaper adoption than a full read for this
// backend.
func (m *Memory) PutFile(ctx context.Context, key string, path string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := m.Put(ctx, key, data); err != nil {
		return err
	}
	return os.Remove(path)
}

// Keys returns a sorted snapshot of all keys.
func (m *Memory) Keys(_ context.Context) ([]string, error) {
	m.mu.RLock()
	keys := make([]string, 0, len(m.data))
	for k := range m.data {
		keys = append(keys, k)
	}
	m.mu.RUnlock()
	sort.Strings(keys)
	return keys, nil
}

// IterKeys yields the keys of a snapshot taken when iteration starts,
// so the sequence is restartable and unaffected by concurrent writes.
func (m *Memory) IterKeys(ctx context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		keys, err := m.Keys(ctx)
		if err != nil {
			yield("", err)
			return
		}
		for _, k := range keys {
			if !yield(k, nil) {
				return
			}
		}
	}
}

func (m *Memory) Close() error { return nil }

// Compile-time interface check.
var _ Store = (*Memory)(nil)
