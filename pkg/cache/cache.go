// Package cache stores compiled layouts and rendered artifacts.
//
// Every backend implements [Cache]: [NullCache] disables caching,
// [FileCache] serves the CLI, and [RedisCache] and [MongoCache] back the
// HTTP server when several instances share results. Keys come from a
// [Keyer] so that CLI, server and tests agree on them.
//
// Misses are not errors: Get returns hit=false and a nil error. Backend
// failures are returned as errors, and callers treat them as misses.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with optional per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Close releases backend connections.
	Close() error
}

// Default time-to-live values.
const (
	LayoutTTL   = 7 * 24 * time.Hour
	ArtifactTTL = 7 * 24 * time.Hour
)
