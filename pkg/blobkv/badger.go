package blobkv

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"iter"
	"os"

	badger "github.com/dgraph-io/badger/v4"
)

// Badger is a Store backed by an embedded BadgerDB v4 database. It is
// not URL-addressable: values live inside the database files, so there
// is no external locator to derive.
type Badger struct {
	db *badger.DB
}

// BadgerOptions configures the BadgerDB store.
type BadgerOptions struct {
	// Dir is the directory for BadgerDB data files.
	// Required unless InMemory is set.
	Dir string

	// InMemory runs BadgerDB in memory-only mode (no disk
	// persistence). Useful for testing with a real badger engine.
	InMemory bool

	// Logger sets the badger logger. If nil, badger output is
	// silenced.
	Logger badger.Logger
}

// NewBadger opens a BadgerDB-backed store.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	if !opts.InMemory && opts.Dir == "" {
		return nil, errors.New("blobkv: BadgerOptions.Dir is required for on-disk mode")
	}
	dbOpts := badger.DefaultOptions(opts.Dir)
	if opts.InMemory {
		dbOpts = dbOpts.WithInMemory(true)
	}
	dbOpts = dbOpts.WithLogger(opts.Logger)
	db, err := badger.Open(dbOpts)
	if err != nil {
		return nil, err
	}
	return &Badger{db: db}, nil
}

func (b *Badger) Exists(_ context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get([]byte(key))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

func (b *Badger) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	err := b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil
	}
	return err
}

func (b *Badger) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	var val []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		val, err = item.ValueCopy(nil)
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, fmt.Errorf("blobkv: open %s: %w", key, ErrNotFound)
	}
	if err != nil {
		return nil, err
	}
	return io.NopCloser(bytes.NewReader(val)), nil
}

func (b *Badger) Put(_ context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Set([]byte(key), data)
	})
}

// PutReader drains r through a bounded buffer into memory before the
// write; badger values pass through memory regardless, so streaming
// buys nothing beyond the read side.
func (b *Badger) PutReader(ctx context.Context, key string, r io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	var buf bytes.Buffer
	chunk := make([]byte, CopyBufferSize)
	if _, err := io.CopyBuffer(&buf, r, chunk); err != nil {
		return err
	}
	return b.Put(ctx, key, buf.Bytes())
}

// PutFile reads the file at path into the database and removes the
// source.
func (b *Badger) PutFile(ctx context.Context, key string, path string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	if err := b.Put(ctx, key, data); err != nil {
		return err
	}
	return os.Remove(path)
}

// Keys returns all keys from a read transaction's snapshot.
func (b *Badger) Keys(ctx context.Context) ([]string, error) {
	var keys []string
	for k, err := range b.IterKeys(ctx) {
		if err != nil {
			return nil, err
		}
		keys = append(keys, k)
	}
	return keys, nil
}

// IterKeys yields keys from a key-only iterator; values are never
// fetched. Each ranging opens a fresh transaction, so the sequence is
// restartable.
func (b *Badger) IterKeys(_ context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		err := b.db.View(func(txn *badger.Txn) error {
			iterOpts := badger.DefaultIteratorOptions
			iterOpts.PrefetchValues = false
			it := txn.NewIterator(iterOpts)
			defer it.Close()
			for it.Rewind(); it.Valid(); it.Next() {
				if !yield(string(it.Item().KeyCopy(nil)), nil) {
					return nil
				}
			}
			return nil
		})
		if err != nil {
			yield("", err)
		}
	}
}

// Close closes the underlying database.
func (b *Badger) Close() error {
	return b.db.Close()
}

// Compile-time interface check.
var _ Store = (*Badger)(nil)
