// Package uuid generates request identifiers.
package uuid

import (
	"github.com/google/uuid"
)

// NewRequestID returns a time-ordered UUIDv7 string, falling back to a
// random UUIDv4 if the v7 generator fails.
func NewRequestID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
