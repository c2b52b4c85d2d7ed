package uuid

import (
	"testing"

	goUUID "github.com/google/uuid"
)

// TestNewRequestID ensures generated IDs are unique, valid and time ordered.
func TestNewRequestID(t *testing.T) {
	t.Parallel()

	id1 := NewRequestID()
	id2 := NewRequestID()
	if id1 == id2 {
		t.Fatalf("expected unique IDs, got %s and %s", id1, id2)
	}
	parsed, err := goUUID.Parse(id1)
	if err != nil {
		t.Fatalf("id1 not valid UUID: %v", err)
	}
	if parsed.Version() != 7 {
		t.Fatalf("expected version 7, got %d", parsed.Version())
	}
}
