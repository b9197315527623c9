package cache

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"price-cache-service/internal/domain/interfaces"
)

// cacheItem is a stored value with an optional expiry
type cacheItem struct {
	value     string
	expiresAt time.Time
}

// isExpired reports whether the item has a deadline and it has passed
func (item *cacheItem) isExpired(now time.Time) bool {
	return !item.expiresAt.IsZero() && now.After(item.expiresAt)
}

// MemoryStore implements interfaces.Store in process memory.
// A zero TTL keeps the key until it is deleted.
type MemoryStore struct {
	items      map[string]*cacheItem
	maxEntries int
	now        func() time.Time
	mu         sync.RWMutex
}

// MemoryOption customizes a MemoryStore
type MemoryOption func(*MemoryStore)

// WithMaxEntries caps the number of keys; Set returns ErrStoreFull beyond it
func WithMaxEntries(n int) MemoryOption {
	return func(m *MemoryStore) {
		m.maxEntries = n
	}
}

// WithMemoryClock replaces time.Now for expiry checks
func WithMemoryClock(now func() time.Time) MemoryOption {
	return func(m *MemoryStore) {
		m.now = now
	}
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore(opts ...MemoryOption) *MemoryStore {
	m := &MemoryStore{
		items: make(map[string]*cacheItem),
		now:   time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Get returns the value for key or ErrKeyNotFound when absent or expired
func (m *MemoryStore) Get(ctx context.Context, key string) (string, error) {
	m.mu.RLock()
	item, exists := m.items[key]
	m.mu.RUnlock()

	if !exists {
		return "", interfaces.ErrKeyNotFound
	}

	if item.isExpired(m.now()) {
		m.evictExpired(key)
		return "", interfaces.ErrKeyNotFound
	}

	return item.value, nil
}

// evictExpired deletes key only if it is still expired under the write lock,
// so a value stored after the read is kept
func (m *MemoryStore) evictExpired(key string) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if item, exists := m.items[key]; exists && item.isExpired(m.now()) {
		delete(m.items, key)
	}
}

// Set stores value under key, sweeping expired keys first
func (m *MemoryStore) Set(ctx context.Context, key string, value string, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	m.sweepLocked(now)

	if _, exists := m.items[key]; !exists && m.maxEntries > 0 && len(m.items) >= m.maxEntries {
		return interfaces.ErrStoreFull
	}

	item := &cacheItem{value: value}
	if ttl > 0 {
		item.expiresAt = now.Add(ttl)
	}
	m.items[key] = item

	return nil
}

// Delete removes key; deleting a missing key is not an error
func (m *MemoryStore) Delete(ctx context.Context, key string) error {
	_, err := m.Remove(ctx, key)
	return err
}

// Remove deletes key and reports whether a live value was stored under it
func (m *MemoryStore) Remove(ctx context.Context, key string) (bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	item, exists := m.items[key]
	if !exists {
		return false, nil
	}
	delete(m.items, key)
	return !item.isExpired(m.now()), nil
}

// Keys returns the live keys starting with prefix, sorted
func (m *MemoryStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	now := m.now()
	keys := make([]string, 0)
	for key, item := range m.items {
		if item.isExpired(now) || !strings.HasPrefix(key, prefix) {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys, nil
}

// Size returns the number of stored keys, expired ones included
func (m *MemoryStore) Size() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.items)
}

// Cleanup drops expired keys
func (m *MemoryStore) Cleanup() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sweepLocked(m.now())
}

func (m *MemoryStore) sweepLocked(now time.Time) {
	for key, item := range m.items {
		if item.isExpired(now) {
			delete(m.items, key)
		}
	}
}
