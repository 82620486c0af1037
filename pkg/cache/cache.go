// Package cache stores rendered diagram artifacts so repeated renders of an
// unchanged plan skip the Graphviz and rsvg-convert steps.
//
// Entries are keyed by a hash of the DOT source and the output options, so a
// change to the inventory, the plan or the rendering options is always a miss.
//
// Backends: [FileCache] for the CLI, [MemoryCache] for a single server and
// [RedisCache] for servers sharing one cache. [NullCache] disables caching.
package cache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// DefaultTTL is how long rendered artifacts stay cached.
const DefaultTTL = 7 * 24 * time.Hour

// Cache is a byte store with optional expiration.
type Cache interface {
	// Get returns the cached value and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores a value. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
	Close() error
}

// ArtifactKeyOpts holds the rendering options that change an artifact's bytes.
type ArtifactKeyOpts struct {
	Format string  `json:"format"`
	Scale  float64 `json:"scale,omitempty"`
}

// ArtifactKey returns the key for the artifact rendered from dot with opts:
// "artifact:" followed by the SHA-256 of the source hash and options.
func ArtifactKey(dot string, opts ArtifactKeyOpts) string {
	parts, _ := json.Marshal([]any{Hash([]byte(dot)), opts})
	return "artifact:" + Hash(parts)
}

// Hash returns the hex-encoded SHA-256 of data.
func Hash(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}
