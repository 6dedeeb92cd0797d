// Package cache stores built trees and rendered artifacts between runs.
//
// # Backends
//
//   - [FileCache]: JSON entry files under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for servers
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// Keys are produced by a [Keyer]. Tree keys combine the source kind with
// the fingerprint the source reports for its input; artifact keys combine
// a hash of the tree snapshot with the render options. Every key embeds a
// SHA-256 digest, so they are safe as file names and Redis keys alike.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key-value store with per-entry expiry.
type Cache interface {
	// Get returns the stored data and true, or nil and false on a miss.
	// Expired entries are misses.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases the backend's resources.
	Close() error
}

// Default entry lifetimes.
const (
	// TTLTree bounds how long a built tree is reused. Tree keys already
	// change with the input, so this mostly limits disk growth.
	TTLTree = 7 * 24 * time.Hour

	// TTLArtifact is the lifetime of rendered images.
	TTLArtifact = 24 * time.Hour
)
