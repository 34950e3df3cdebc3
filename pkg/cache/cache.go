// Package cache provides byte-oriented caching for graph snapshots and
// rendered artifacts.
//
// # Backends
//
//   - [FileCache]: one JSON file per entry under a directory, for the CLI
//   - [RedisCache]: a Redis server, for the HTTP API across instances
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// Keys are produced by a [Keyer] so that every caller derives the same key
// for the same content. [ScopedKeyer] prefixes all keys for isolation
// between tenants or environments.
//
// # Observability
//
// [Observe] wraps any Cache so that hits, misses and writes are reported to
// the hooks registered with the observability package.
package cache

import (
	"context"
	"time"
)

// Cache is a key-value store for byte payloads with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was found.
	// Expired entries are reported as misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases resources held by the cache.
	Close() error
}

// Default TTLs per entry kind.
const (
	// TTLSnapshot applies to graphs produced by scripts.
	TTLSnapshot = 7 * 24 * time.Hour

	// TTLArtifact applies to rendered DOT and SVG output.
	TTLArtifact = 24 * time.Hour
)
