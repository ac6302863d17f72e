// Package cache stores fetched traces so that replaying a session or
// opening the same instance twice does not hit the trace service again.
//
// Three backends implement [Cache]:
//
//   - [NullCache]: never stores anything (caching disabled)
//   - [FileCache]: JSON files under the user cache directory, for the CLI
//   - [RedisCache]: a shared Redis instance, for several API servers
//
// Keys are derived with [TraceKey], which hashes the algorithm name and the
// exact request payload, so two instances that serialize identically share
// one entry.
package cache

import (
	"context"
	"time"
)

// Cache is a byte store with per-entry expiry.
type Cache interface {
	// Get returns the stored bytes and whether the key was present.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores data. A ttl <= 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}

// DefaultTTL is how long a trace stays cached when no TTL is configured.
const DefaultTTL = 24 * time.Hour
