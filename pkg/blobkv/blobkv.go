// Package blobkv defines a backend-agnostic key-value store for opaque
// byte values. It abstracts the underlying storage substrate so that
// callers can swap between local disk, cloud object stores, or
// in-memory implementations without changing application code.
//
// Keys are flat strings subject to a strict grammar (see ValidateKey);
// values are arbitrary byte sequences. Every backend enforces the same
// observable semantics: the same key grammar, the same error kinds, and
// idempotent deletes. Application code depends only on the Store
// interface and matches failures with errors.Is against the package
// sentinels.
package blobkv

import (
	"context"
	"errors"
	"io"
	"iter"
)

// Sentinel errors.
var (
	// ErrNotFound is returned by Open when the key does not exist.
	// Exists and Delete never return it; absence is not an error there.
	ErrNotFound = errors.New("blobkv: not found")

	// ErrInvalidKey is returned when a key fails the grammar in
	// ValidateKey. It is reported before any I/O is attempted.
	ErrInvalidKey = errors.New("blobkv: invalid key")
)

// CopyBufferSize is the chunk size used by streaming puts.
const CopyBufferSize = 1 << 20 // 1 MiB

// Store is the capability set every backend implements.
//
// Operations are synchronous and context-aware. Implementations must be
// safe for concurrent use, but cross-operation guarantees are weak by
// design: Keys and IterKeys are a snapshot at call time and are not
// linearizable with concurrent Put/Delete, and no read-modify-write
// primitive is provided. Callers needing at-most-one-writer semantics
// per key must coordinate externally.
type Store interface {
	// Exists reports whether the key is present. A well-formed but
	// absent key is not an error.
	Exists(ctx context.Context, key string) (bool, error)

	// Delete removes the key's value. Deleting an absent key is a
	// successful no-op; only failures unrelated to absence are
	// returned.
	Delete(ctx context.Context, key string) error

	// Open returns a reader over the value stored at key.
	// The caller must close it. If the key does not exist, the error
	// wraps ErrNotFound.
	Open(ctx context.Context, key string) (io.ReadCloser, error)

	// Put stores data as the complete value for key, overwriting any
	// existing value.
	Put(ctx context.Context, key string, data []byte) error

	// PutReader stores the contents of r as the value for key,
	// copying through a bounded buffer of CopyBufferSize bytes so the
	// full value need never reside in memory.
	PutReader(ctx context.Context, key string, r io.Reader) error

	// PutFile adopts the file at path as the value for key, removing
	// the source. Backends move the file without copying when the
	// substrate allows it (same-volume rename); otherwise the content
	// is copied and the source deleted.
	PutFile(ctx context.Context, key string, path string) error

	// Keys returns every key currently stored, unordered. The result
	// is a snapshot taken at call time.
	Keys(ctx context.Context) ([]string, error)

	// IterKeys yields the same content as Keys, produced lazily so
	// very large keyspaces need not be materialized at once. The
	// returned sequence is finite and restartable.
	IterKeys(ctx context.Context) iter.Seq2[string, error]

	// Close releases any handles or connections held by the store.
	Close() error
}

// URLStore is implemented by backends whose values have an externally
// resolvable address. The URL is a derived view: a pure function of
// the key and the store's configuration, recomputed on every call,
// never checked against existence, and not subject to the key
// grammar — derivation touches no storage, so there is nothing to
// protect.
type URLStore interface {
	Store

	// URLFor derives the external address for key.
	URLFor(key string) (string, error)
}
