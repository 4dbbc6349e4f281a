package util

import (
	"crypto/sha256"
	"encoding/hex"
)

// HashKey returns a hex SHA-256 digest usable as a filesystem or cache key.
func HashKey(s string) string {
	sum := sha256.Sum256([]byte(s))
	return hex.EncodeToString(sum[:])
}
