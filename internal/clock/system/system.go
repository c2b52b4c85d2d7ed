// Package system provides the wall clock used to stamp cache entry expiry.
package system

import "time"

// Clock reports the current UTC time.
type Clock struct{}

// New creates a new Clock.
func New() *Clock {
	return &Clock{}
}

// Now returns the current time in UTC so stored expiry timestamps compare
// consistently across replicas.
func (Clock) Now() time.Time {
	return time.Now().UTC()
}
