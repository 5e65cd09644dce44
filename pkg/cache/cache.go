// Package cache provides the response cache used between scraper runs.
//
// The primary release table and the supported-builds page change at most a
// few times a month, so scan and check runs cache raw HTTP responses keyed
// by URL. Three backends implement the same interface: a file cache for
// normal CLI use, a Redis cache for fleets sharing one scrape, and a null
// cache for --no-cache runs and tests.
package cache

import (
	"context"
	"time"
)

// Cache stores raw response bytes with per-entry expiry.
//
// Implementations must treat an expired or unreadable entry as a miss, not
// an error; errors are reserved for backend failures.
type Cache interface {
	// Get retrieves a value. The second result reports whether the key was
	// present and fresh.
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores a value. A ttl of 0 means the entry never expires.
	Set(ctx context.Context, key string, data []byte, ttl time.Duration) error

	// Delete removes a value. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error

	// Close releases backend resources.
	Close() error
}
