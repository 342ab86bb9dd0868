package cache

import "time"

// Cache is a key-value store whose entries may expire.
type Cache[K comparable, V any] interface {
	// Get returns the value and whether it was present and not expired.
	Get(key K) (V, bool)

	// Set stores the value with the cache's default TTL.
	Set(key K, value V)

	// SetWithTTL stores the value with an explicit TTL. ttl <= 0 never expires.
	SetWithTTL(key K, value V, ttl time.Duration)

	// Delete removes the given keys if present.
	Delete(keys ...K)

	// Len returns the number of live entries.
	Len() int

	// PurgeExpired drops expired entries and reports how many were removed.
	PurgeExpired() int
}
