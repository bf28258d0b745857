// Package cache stores retrieved source documents so repeated builds do
// not re-fetch remote content.
package cache

import (
	"crypto/sha256"
	"encoding/hex"
	"time"
)

// Cache defines the interface for caching
type Cache interface {
	Get(key string) ([]byte, bool)
	Set(key string, value []byte, ttl time.Duration) error
	Delete(key string) error
	Clear() error
}

// keyVersion changes whenever the cached payload format changes
const keyVersion = "folio:v1:"

// CacheKey generates a cache key from a source identifier
func CacheKey(sourceID string) string {
	hash := sha256.Sum256([]byte(sourceID))
	return keyVersion + hex.EncodeToString(hash[:])
}
