package sha256

import (
	"strings"
	"testing"
)

// TestKeyDigestDeterministic ensures repeated hashing yields the same digest.
func TestKeyDigestDeterministic(t *testing.T) {
	t.Parallel()

	got := KeyDigest("hello world")
	want := "b94d27b9934d3e08a52e52d7da7dabfac484efe37a5380ee9088f7ace2efcde9"
	if got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if again := KeyDigest("hello world"); again != got {
		t.Fatalf("expected deterministic digest, got %s vs %s", got, again)
	}
}

// TestKeyDigestFixedWidth keeps long batch keys indexable.
func TestKeyDigestFixedWidth(t *testing.T) {
	t.Parallel()

	long := "/api/cached-v1/" + strings.Repeat("1234567890,", 500)
	if got := len(KeyDigest(long)); got != 64 {
		t.Fatalf("expected 64 hex chars, got %d", got)
	}
	if KeyDigest("/api/cached-v1/1,2") == KeyDigest("/api/cached-v1/1,3") {
		t.Fatal("expected distinct keys to produce distinct digests")
	}
}
