package blobkv

import (
	"bytes"
	"context"
	"errors"
	"io"
	"slices"
	"testing"
)

// testStoreContract runs the backend-independent properties of the
// Store contract against a fresh, empty store.
func testStoreContract(t *testing.T, s Store) {
	t.Helper()
	ctx := context.Background()

	t.Run("RoundTrip", func(t *testing.T) {
		want := []byte("bar")
		if err := s.Put(ctx, "foo", want); err != nil {
			t.Fatal(err)
		}
		r, err := s.Open(ctx, "foo")
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatal(err)
		}
		if !bytes.Equal(got, want) {
			t.Fatalf("got %q, want %q", got, want)
		}
		if err := s.Delete(ctx, "foo"); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		if err := s.Put(ctx, "ow", []byte("long content here")); err != nil {
			t.Fatal(err)
		}
		if err := s.Put(ctx, "ow", []byte("short")); err != nil {
			t.Fatal(err)
		}
		r, err := s.Open(ctx, "ow")
		if err != nil {
			t.Fatal(err)
		}
		got, err := io.ReadAll(r)
		r.Close()
		if err != nil {
			t.Fatal(err)
		}
		if string(got) != "short" {
			t.Fatalf("got %q, want %q", got, "short")
		}
		if err := s.Delete(ctx, "ow"); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("OpenMissing", func(t *testing.T) {
		_, err := s.Open(ctx, "never-put")
		if !errors.Is(err, ErrNotFound) {
			t.Fatalf("got %v, want ErrNotFound", err)
		}
	})

	t.Run("ExistsAndDelete", func(t *testing.T) {
		ok, err := s.Exists(ctx, "ghost")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("ghost should not exist")
		}

		if err := s.Put(ctx, "tmp", []byte("x")); err != nil {
			t.Fatal(err)
		}
		ok, err = s.Exists(ctx, "tmp")
		if err != nil {
			t.Fatal(err)
		}
		if !ok {
			t.Fatal("tmp should exist after put")
		}

		if err := s.Delete(ctx, "tmp"); err != nil {
			t.Fatal(err)
		}
		ok, err = s.Exists(ctx, "tmp")
		if err != nil {
			t.Fatal(err)
		}
		if ok {
			t.Fatal("tmp should be gone after delete")
		}
		// Delete again: idempotent.
		if err := s.Delete(ctx, "tmp"); err != nil {
			t.Fatal(err)
		}
	})

	t.Run("PutReaderSizes", func(t *testing.T) {
		for _, n := range []int{0, 1, CopyBufferSize, CopyBufferSize + 1} {
			data := bytes.Repeat([]byte("x"), n)
			if err := s.PutReader(ctx, "streamed", bytes.NewReader(data)); err != nil {
				t.Fatalf("n=%d: %v", n, err)
			}
			if err := s.Put(ctx, "whole", data); err != nil {
				t.Fatalf("n=%d: %v", n, err)
			}
			a := readAllKey(t, s, "streamed")
			b := readAllKey(t, s, "whole")
			if !bytes.Equal(a, b) {
				t.Fatalf("n=%d: streamed and whole puts differ (%d vs %d bytes)", n, len(a), len(b))
			}
			if len(a) != n {
				t.Fatalf("n=%d: got %d bytes", n, len(a))
			}
		}
		s.Delete(ctx, "streamed")
		s.Delete(ctx, "whole")
	})

	t.Run("InvalidKeyBeforeIO", func(t *testing.T) {
		for _, op := range []func() error{
			func() error { return s.Put(ctx, "a/b", []byte("x")) },
			func() error { _, err := s.Open(ctx, "a/b"); return err },
			func() error { _, err := s.Exists(ctx, "a/b"); return err },
			func() error { return s.Delete(ctx, "a/b") },
			func() error { return s.PutReader(ctx, "", bytes.NewReader(nil)) },
			func() error { return s.PutFile(ctx, "..", "/nonexistent") },
		} {
			if err := op(); !errors.Is(err, ErrInvalidKey) {
				t.Fatalf("got %v, want ErrInvalidKey", err)
			}
		}
	})

	t.Run("KeysAfterDelete", func(t *testing.T) {
		if err := s.Put(ctx, "a", []byte("1")); err != nil {
			t.Fatal(err)
		}
		if err := s.Put(ctx, "b", []byte("2")); err != nil {
			t.Fatal(err)
		}
		if err := s.Delete(ctx, "a"); err != nil {
			t.Fatal(err)
		}
		keys, err := s.Keys(ctx)
		if err != nil {
			t.Fatal(err)
		}
		if len(keys) != 1 || keys[0] != "b" {
			t.Fatalf("keys = %v, want exactly [b]", keys)
		}

		// IterKeys yields the same content and restarts cleanly.
		for range 2 {
			var got []string
			for k, err := range s.IterKeys(ctx) {
				if err != nil {
					t.Fatal(err)
				}
				got = append(got, k)
			}
			slices.Sort(got)
			slices.Sort(keys)
			if !slices.Equal(got, keys) {
				t.Fatalf("IterKeys = %v, Keys = %v", got, keys)
			}
		}
	})
}

func readAllKey(t *testing.T, s Store, key string) []byte {
	t.Helper()
	r, err := s.Open(context.Background(), key)
	if err != nil {
		t.Fatal(err)
	}
	defer r.Close()
	data, err := io.ReadAll(r)
	if err != nil {
		t.Fatal(err)
	}
	return data
}
