package blobkv

import (
	"errors"
	"strings"
	"testing"
)

func TestValidateKey(t *testing.T) {
	valid := []string{
		"foo",
		"a",
		"UPPER.lower-123",
		"no_spaces_here",
		"weird!\"$%&'*+,:;<>?@[]^{}|~()=",
		strings.Repeat("k", MaxKeyLength),
	}
	for _, k := range valid {
		if err := ValidateKey(k); err != nil {
			t.Errorf("ValidateKey(%q) = %v, want nil", k, err)
		}
	}

	invalid := []string{
		"",
		"has/slash",
		"/leading",
		"trailing/",
		".",
		"..",
		"has space",
		"tab\there",
		"newline\n",
		"nul\x00byte",
		"bäckslash",
		strings.Repeat("k", MaxKeyLength+1),
	}
	for _, k := range invalid {
		err := ValidateKey(k)
		if err == nil {
			t.Errorf("ValidateKey(%q) = nil, want error", k)
			continue
		}
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateKey(%q) = %v, want ErrInvalidKey", k, err)
		}
	}
}

func TestValidateHierKey(t *testing.T) {
	valid := []string{
		"foo",
		"a/b",
		"a/b/c.txt",
		"deep/ly/nested/key",
	}
	for _, k := range valid {
		if err := ValidateHierKey(k); err != nil {
			t.Errorf("ValidateHierKey(%q) = %v, want nil", k, err)
		}
	}

	invalid := []string{
		"",
		"/leading",
		"trailing/",
		"double//slash",
		"a/../b",
		"a/./b",
		"..",
		"a/b c",
		strings.Repeat("k/", MaxKeyLength/2) + strings.Repeat("k", MaxKeyLength),
	}
	for _, k := range invalid {
		err := ValidateHierKey(k)
		if err == nil {
			t.Errorf("ValidateHierKey(%q) = nil, want error", k)
			continue
		}
		if !errors.Is(err, ErrInvalidKey) {
			t.Errorf("ValidateHierKey(%q) = %v, want ErrInvalidKey", k, err)
		}
	}
}
