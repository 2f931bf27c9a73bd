package blobkv

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// FS implements Store on the local filesystem. Every value is a single
// file directly under the configured root directory, named by its key;
// the flat key grammar (see ValidateKey) is what guarantees a key can
// never resolve outside the root.
//
// Concurrency relies entirely on the filesystem's own per-file
// guarantees: PutFile renames atomically, but Put and PutReader write
// in place, so a reader that opens a key mid-write may observe a
// partial value. Callers needing stronger guarantees must serialize
// writers per key themselves.
type FS struct {
	root string
}

// NewFS creates a filesystem store rooted at dir.
// The directory is created (with parents) if it does not already exist.
func NewFS(dir string) (*FS, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return nil, err
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute root directory of the store.
func (s *FS) Root() string { return s.root }

// path resolves a key to its absolute file path.
func (s *FS) path(key string) string {
	return filepath.Join(s.root, key)
}

// Exists reports whether a file exists for key. No metadata is cached;
// every call stats the path.
func (s *FS) Exists(_ context.Context, key string) (bool, error) {
	if err := ValidateKey(key); err != nil {
		return false, err
	}
	_, err := os.Stat(s.path(key))
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}

// Delete unlinks the file for key. If the file does not exist, Delete
// returns nil (idempotent).
func (s *FS) Delete(_ context.Context, key string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	err := os.Remove(s.path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return err
}

// Open opens the value for key. The returned ReadCloser is an
// *os.File, so it also supports io.Seeker for random access.
func (s *FS) Open(_ context.Context, key string) (io.ReadCloser, error) {
	if err := ValidateKey(key); err != nil {
		return nil, err
	}
	f, err := os.Open(s.path(key))
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("blobkv: open %s: %w", key, ErrNotFound)
		}
		return nil, err
	}
	return f, nil
}

// Put writes data as the value for key in a single pass, truncating
// any existing file. The write is not atomic with respect to
// concurrent readers of the same key; use PutFile for an atomic
// replacement.
func (s *FS) Put(_ context.Context, key string, data []byte) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	return os.WriteFile(s.path(key), data, 0o644)
}

// PutReader copies r into the value for key through a CopyBufferSize
// buffer. Like Put, the write is in place and not atomic.
func (s *FS) PutReader(_ context.Context, key string, r io.Reader) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	f, err := os.Create(s.path(key))
	if err != nil {
		return err
	}
	buf := make([]byte, CopyBufferSize)
	_, err = io.CopyBuffer(f, r, buf)
	cerr := f.Close()
	if err != nil {
		return err
	}
	return cerr
}

// PutFile adopts the file at path as the value for key. When source
// and destination share a volume this is a single atomic rename, the
// one operation with a true atomicity guarantee. Across volumes the
// content is copied to a temporary file beside the destination,
// renamed into place, and the source removed.
func (s *FS) PutFile(_ context.Context, key string, path string) error {
	if err := ValidateKey(key); err != nil {
		return err
	}
	dst := s.path(key)
	err := os.Rename(path, dst)
	if err == nil {
		return nil
	}
	var lerr *os.LinkError
	if !errors.As(err, &lerr) {
		return err
	}
	// Rename refused (typically a cross-device move). Copy into the
	// root first so the final rename stays on one volume.
	tmp := filepath.Join(s.root, ".adopt-"+uuid.NewString())
	if err := copyFile(tmp, path); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return err
	}
	return os.Remove(path)
}

func copyFile(dst, src string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()
	out, err := os.Create(dst)
	if err != nil {
		return err
	}
	buf := make([]byte, CopyBufferSize)
	_, err = io.CopyBuffer(out, in, buf)
	cerr := out.Close()
	if err != nil {
		return err
	}
	return cerr
}

// Keys lists the root directory and returns every entry name verbatim.
// The listing is a snapshot at call time and is not linearizable with
// concurrent Put or Delete.
func (s *FS) Keys(_ context.Context) ([]string, error) {
	ents, err := os.ReadDir(s.root)
	if err != nil {
		return nil, err
	}
	keys := make([]string, len(ents))
	for i, e := range ents {
		keys[i] = e.Name()
	}
	return keys, nil
}

// IterKeys yields directory entry names in batches without
// materializing the whole listing. Each ranging of the sequence opens
// a fresh directory handle, so the sequence is restartable.
func (s *FS) IterKeys(_ context.Context) iter.Seq2[string, error] {
	return func(yield func(string, error) bool) {
		d, err := os.Open(s.root)
		if err != nil {
			yield("", err)
			return
		}
		defer d.Close()
		for {
			ents, err := d.ReadDir(256)
			for _, e := range ents {
				if !yield(e.Name(), nil) {
					return
				}
			}
			if err == io.EOF {
				return
			}
			if err != nil {
				yield("", err)
				return
			}
		}
	}
}

// Close releases nothing; the store holds no open handles between
// operations.
func (s *FS) Close() error { return nil }

// URLFor derives a file:// URL for key: the absolute path with each
// segment percent-encoded independently, so separators survive the
// encoding. Derivation is pure string manipulation — neither the
// key's existence nor its grammar is checked, and no I/O happens.
func (s *FS) URLFor(key string) (string, error) {
	segs := strings.Split(filepath.ToSlash(s.path(key)), "/")
	for i, seg := range segs {
		segs[i] = url.PathEscape(seg)
	}
	return "file://" + strings.Join(segs, "/"), nil
}

// WebFS is an FS whose values are also reachable through a web server
// exporting the root directory. It behaves exactly like FS except that
// URLFor emits web URLs under a configured prefix instead of file://
// URLs.
type WebFS struct {
	*FS
	urlPrefix string
}

// NewWebFS creates a web-addressable filesystem store rooted at dir.
// urlPrefix is prepended verbatim to every derived URL — including any
// trailing slash it needs — no normalization is applied.
func NewWebFS(dir, urlPrefix string) (*WebFS, error) {
	fss, err := NewFS(dir)
	if err != nil {
		return nil, err
	}
	return &WebFS{FS: fss, urlPrefix: urlPrefix}, nil
}

// URLFor derives the web URL for key: the configured prefix followed
// by the key percent-encoded as a single opaque path segment. Like
// FS.URLFor it is a pure derivation with no validation or I/O.
func (s *WebFS) URLFor(key string) (string, error) {
	return s.urlPrefix + url.PathEscape(key), nil
}

// Compile-time interface checks.
var (
	_ URLStore = (*FS)(nil)
	_ URLStore = (*WebFS)(nil)
)
