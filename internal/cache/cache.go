// SPDX-License-Identifier: MIT

// Package cache provides the read-through cache used in front of the user
// store, with in-memory and Redis backends behind one interface.
package cache

import (
	"context"
	"time"
)

// Cache stores opaque byte values under string keys with a TTL.
type Cache interface {
	// Get retrieves a value. The second return value is false when the key
	// is absent, expired, or the backend failed (misses are never fatal).
	Get(ctx context.Context, key string) ([]byte, bool)
	// Set stores a value with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	// Delete removes a key. Deleting an absent key is a no-op.
	Delete(ctx context.Context, key string)
	// Stats returns backend statistics.
	Stats() Stats
}

// Stats holds cache performance counters.
type Stats struct {
	Hits      int64 `json:"hits"`
	Misses    int64 `json:"misses"`
	Sets      int64 `json:"sets"`
	Evictions int64 `json:"evictions"`
	Size      int   `json:"size"` // -1 when the backend cannot report it
}
