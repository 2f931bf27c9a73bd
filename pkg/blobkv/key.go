package blobkv

import (
	"fmt"
	"strings"
)

// MaxKeyLength is the maximum key length in bytes. The grammar is pure
// ASCII, so bytes and code points coincide.
const MaxKeyLength = 250

// keyPunct is the punctuation allowed in keys alongside ASCII letters
// and digits. '/' is deliberately absent: the default keyspace is flat
// and a separator-free grammar is what keeps filesystem-backed stores
// confined to their root directory.
const keyPunct = "-_.()=!\"$%&'*+,:;<>?@[]^{}|~"

func validKeyByte(c byte) bool {
	switch {
	case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9':
		return true
	}
	return strings.IndexByte(keyPunct, c) >= 0
}

// ValidateKey checks key against the default grammar: non-empty, at
// most MaxKeyLength bytes, composed of ASCII letters, digits and the
// characters -_.()=!"$%&'*+,:;<>?@[]^{}|~. Keys equal to "." or ".."
// are rejected so a key can never name a directory entry outside the
// store root.
//
// Every Store operation validates its key with this function before
// touching storage, so all backends reject the same malformed keys
// with the same error kind. The returned error wraps ErrInvalidKey.
func ValidateKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrInvalidKey, len(key), MaxKeyLength)
	}
	if key == "." || key == ".." {
		return fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}
	for i := 0; i < len(key); i++ {
		if !validKeyByte(key[i]) {
			return fmt.Errorf("%w: %q contains byte %q", ErrInvalidKey, key, key[i])
		}
	}
	return nil
}

// ValidateHierKey checks key against the extended, hierarchical
// grammar: like ValidateKey but '/' is permitted as a segment
// separator. Segments must be non-empty (no leading, trailing or
// doubled slashes) and no segment may be "." or "..".
//
// The backends in this package keep the default flat grammar; this
// validator is the hook for callers layering hierarchical keyspaces on
// top, who are responsible for any encoding the substrate needs.
func ValidateHierKey(key string) error {
	if key == "" {
		return fmt.Errorf("%w: empty", ErrInvalidKey)
	}
	if len(key) > MaxKeyLength {
		return fmt.Errorf("%w: %d bytes exceeds maximum of %d", ErrInvalidKey, len(key), MaxKeyLength)
	}
	for _, seg := range strings.Split(key, "/") {
		if seg == "" {
			return fmt.Errorf("%w: %q has an empty segment", ErrInvalidKey, key)
		}
		if seg == "." || seg == ".." {
			return fmt.Errorf("%w: %q contains segment %q", ErrInvalidKey, key, seg)
		}
		for i := 0; i < len(seg); i++ {
			if !validKeyByte(seg[i]) {
				return fmt.Errorf("%w: %q contains byte %q", ErrInvalidKey, key, seg[i])
			}
		}
	}
	return nil
}
