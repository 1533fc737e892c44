// Package cache stores transform results and analysis reports so repeated
// runs over the same project skip the work.
//
// Keys are content addressed: a [Keyer] hashes the input document together
// with the options that shape the output. Three backends exist:
//   - [FileCache]: one file per entry under a directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for the HTTP API
//   - [NullCache]: stores nothing, for --no-cache and tests
//
// A backend failing never fails the operation it accelerates; callers log
// and fall through to recomputing.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-oriented key/value store with optional expiry.
type Cache interface {
	// Get returns the entry for key and whether it was found.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Set stores data under key. A ttl of zero never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error
	// Delete removes key. Missing keys are not an error.
	Delete(ctx context.Context, key string) error
	// Close releases the backend.
	Close() error
}

// Default entry lifetimes.
const (
	TTLTransform = 7 * 24 * time.Hour
	TTLReport    = 24 * time.Hour
)
