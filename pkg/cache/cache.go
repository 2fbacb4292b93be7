// Package cache stores filled documents and rendered artifacts.
//
// # Overview
//
// A fill pass is deterministic: the same template and the same records
// produce the same pages. The pipeline therefore caches the filled document
// under a key derived from the template and data hashes, and each rendered
// artifact under a key derived from the document hash and render options.
//
// # Backends
//
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP service
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// # Keys
//
// A [Keyer] builds keys; [ScopedKeyer] prefixes them so that several
// tenants or versions can share a backend.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the value for key and whether it was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data under key. A zero ttl never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	Close() error
}

// Entry lifetimes.
const (
	TTLDocument = 24 * time.Hour
	TTLArtifact = 7 * 24 * time.Hour
)
