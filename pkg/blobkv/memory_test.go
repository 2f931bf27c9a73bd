package blobkv

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"
)

func TestMemoryContract(t *testing.T) {
	testStoreContract(t, NewMemory())
}

func TestMemoryCopiesValues(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	data := []byte("original")
	if err := s.Put(ctx, "k", data); err != nil {
		t.Fatal(err)
	}
	data[0] = 'X'

	got := readAllKey(t, s, "k")
	if !bytes.Equal(got, []byte("original")) {
		t.Fatalf("stored value was mutated through the caller's slice: %q", got)
	}
}

func TestMemoryPutFile(t *testing.T) {
	s := NewMemory()
	ctx := context.Background()

	src := filepath.Join(t.TempDir(), "produced")
	if err := os.WriteFile(src, []byte("payload"), 0o644); err != nil {
		t.Fatal(err)
	}
	if err := s.PutFile(ctx, "adopted", src); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(src); !os.IsNotExist(err) {
		t.Fatalf("source should be gone, stat err = %v", err)
	}
	if got := readAllKey(t, s, "adopted"); string(got) != "payload" {
		t.Fatalf("got %q", got)
	}
}
