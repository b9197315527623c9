package entities

import "time"

// CacheEntry is the envelope persisted for every cache key
type CacheEntry[T any] struct {
	Data             T      `json:"data"`
	StoredAtEpochMs  int64  `json:"storedAtEpochMs"`
	ExpiresAtEpochMs *int64 `json:"expiresAtEpochMs,omitempty"`
}

// NewCacheEntry stamps data with the store time and, when ttl > 0, an expiry
func NewCacheEntry[T any](data T, now time.Time, ttl time.Duration) CacheEntry[T] {
	entry := CacheEntry[T]{
		Data:            data,
		StoredAtEpochMs: now.UnixMilli(),
	}
	if ttl > 0 {
		expires := now.Add(ttl).UnixMilli()
		entry.ExpiresAtEpochMs = &expires
	}
	return entry
}

// Permanent reports whether the entry carries no expiry
func (e CacheEntry[T]) Permanent() bool {
	return e.ExpiresAtEpochMs == nil
}

// Stale reports whether the entry is past its expiry or older than ttl at now.
// Both checks run so a bad expiry stamp cannot keep an entry alive.
func (e CacheEntry[T]) Stale(now time.Time, ttl time.Duration) bool {
	nowMs := now.UnixMilli()
	if e.ExpiresAtEpochMs != nil && nowMs > *e.ExpiresAtEpochMs {
		return true
	}
	return nowMs-e.StoredAtEpochMs > ttl.Milliseconds()
}

// CacheStats counts cached entries per namespace
type CacheStats struct {
	Current    int `json:"current"`
	Historical int `json:"historical"`
	Total      int `json:"total"`
}
