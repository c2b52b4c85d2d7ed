// Package sha256 derives fixed-width digests for response cache keys.
package sha256

import (
	"crypto/sha256"
	"encoding/hex"
)

// KeyDigest returns the hex SHA-256 digest of a cache key. Batch keys grow
// with the number of identifiers, so stores index the digest instead.
func KeyDigest(key string) string {
	sum := sha256.Sum256([]byte(key))
	return hex.EncodeToString(sum[:])
}
