package services

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/stretchr/testify/mock"

	"price-cache-service/internal/domain/entities"
	"price-cache-service/internal/domain/interfaces"
)

// fakeStore is a map-backed Store that records calls and can be told to fail
type fakeStore struct {
	mu      sync.Mutex
	data    map[string]string
	ttls    map[string]time.Duration
	gets    int
	sets    int
	getErr  error
	setErr  error
	keysErr error
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		data: make(map[string]string),
		ttls: make(map[string]time.Duration),
	}
}

func (f *fakeStore) Get(_ context.Context, key string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gets++
	if f.getErr != nil {
		return "", f.getErr
	}
	v, ok := f.data[key]
	if !ok {
		return "", interfaces.ErrKeyNotFound
	}
	return v, nil
}

func (f *fakeStore) Set(_ context.Context, key, value string, ttl time.Duration) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sets++
	if f.setErr != nil {
		return f.setErr
	}
	f.data[key] = value
	f.ttls[key] = ttl
	return nil
}

func (f *fakeStore) Delete(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.data, key)
	delete(f.ttls, key)
	return nil
}

func (f *fakeStore) Keys(_ context.Context, prefix string) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.keysErr != nil {
		return nil, f.keysErr
	}
	var keys []string
	for k := range f.data {
		if strings.HasPrefix(k, prefix) {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)
	return keys, nil
}

func (f *fakeStore) has(key string) bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	_, ok := f.data[key]
	return ok
}

func (f *fakeStore) put(key, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.data[key] = value
}

// repeatingStore lists every key twice, like a SCAN during a rehash, and
// reports whether a delete found the key
type repeatingStore struct {
	*fakeStore
}

func (r repeatingStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	keys, err := r.fakeStore.Keys(ctx, prefix)
	return append(keys, keys...), err
}

func (r repeatingStore) Remove(_ context.Context, key string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.data[key]
	delete(r.data, key)
	delete(r.ttls, key)
	return ok, nil
}

// fakeClock is a settable time source
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// MockCurrentSource mocks interfaces.CurrentPriceSource
type MockCurrentSource struct {
	mock.Mock
}

func (m *MockCurrentSource) GetPrice(ctx context.Context, assetType entities.AssetType, symbol string) entities.CurrentPriceResult {
	args := m.Called(ctx, assetType, symbol)
	return args.Get(0).(entities.CurrentPriceResult)
}

// MockHistoricalSource mocks interfaces.HistoricalPriceSource
type MockHistoricalSource struct {
	mock.Mock
}

func (m *MockHistoricalSource) GetPrice(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) entities.HistoricalPriceResult {
	args := m.Called(ctx, assetType, symbol, date)
	return args.Get(0).(entities.HistoricalPriceResult)
}

var testNow = time.Date(2025, time.June, 15, 10, 30, 0, 0, time.UTC)
