// Package cache provides byte-level caching for blueprint source responses.
//
// Caching is disabled by default: the CLI and the HTTP viewer construct a
// [NullCache] unless a TTL is configured. Two persistent backends exist:
//
//   - [FileCache] stores entries under the user cache directory and is used
//     by the CLI shells.
//   - [RedisCache] stores entries in Redis and lets several viewer instances
//     share fetched blueprint sets.
//
// Keys are opaque strings. [Key] builds namespaced keys from parts so that
// the backends never see raw URLs.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"strings"
	"time"
)

// Cache stores opaque byte payloads with an optional expiry.
//
// Get reports a miss with hit=false and a nil error. A zero TTL passed to
// Set means the entry never expires.
type Cache interface {
	Get(ctx context.Context, key string) (data []byte, hit bool, err error)
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// Key joins a namespace and the hashed parts into a cache key of the form
// "namespace:<sha256>".
func Key(namespace string, parts ...string) string {
	return namespace + ":" + Hash([]byte(strings.Join(parts, "\x00")))
}

// Hash returns the hex SHA-256 digest of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
