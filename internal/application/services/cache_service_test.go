package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-cache-service/internal/domain/entities"
	"price-cache-service/internal/domain/interfaces"
)

func newTestCacheService(store interfaces.Store, clock *fakeClock) *CacheService {
	return NewCacheService(store, WithClock(clock.Now))
}

// ===== ELIGIBILITY =====

func TestCacheService_IsDateInAllowedRange(t *testing.T) {
	clock := newFakeClock(testNow)
	cache := newTestCacheService(newFakeStore(), clock)

	testCases := []struct {
		name     string
		date     time.Time
		expected bool
	}{
		{"today", testNow, true},
		{"yesterday", testNow.AddDate(0, 0, -1), true},
		{"two years ago", testNow.AddDate(-2, 0, 0), true},
		{"seven years ago", testNow.AddDate(-7, 0, 0), true},
		{"exactly ten years ago", time.Date(2015, time.June, 15, 0, 0, 0, 0, time.UTC), true},
		{"ten years ago late in the day", time.Date(2015, time.June, 15, 23, 59, 0, 0, time.UTC), true},
		{"ten years and one day ago", time.Date(2015, time.June, 14, 0, 0, 0, 0, time.UTC), false},
		{"thirteen years ago", testNow.AddDate(-13, 0, 0), false},
		{"tomorrow", testNow.AddDate(0, 0, 1), false},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, cache.IsDateInAllowedRange(tc.date))
		})
	}
}

// ===== CURRENT PRICES =====

func TestCacheService_CurrentPrice_RoundTrip(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clock := newFakeClock(testNow)
	cache := newTestCacheService(store, clock)

	data := entities.CurrentPriceResult{Price: 97000, Source: "Binance", Timestamp: testNow.UnixMilli()}
	cache.SetCurrentPrice(ctx, entities.AssetCrypto, "btc", data)

	key := "price_current_crypto_BTC"
	require.True(t, store.has(key))
	assert.Equal(t, DefaultCurrentPriceTTL, store.ttls[key])

	var entry entities.CacheEntry[entities.CurrentPriceResult]
	require.NoError(t, json.Unmarshal([]byte(store.data[key]), &entry))
	assert.Equal(t, testNow.UnixMilli(), entry.StoredAtEpochMs)
	require.NotNil(t, entry.ExpiresAtEpochMs)
	assert.Equal(t, testNow.Add(12*time.Hour).UnixMilli(), *entry.ExpiresAtEpochMs)

	got, ok := cache.GetCurrentPrice(ctx, entities.AssetCrypto, "BTC")
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestCacheService_CurrentPrice_Expiry(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clock := newFakeClock(testNow)
	cache := newTestCacheService(store, clock)

	cache.SetCurrentPrice(ctx, entities.AssetStock, "AAPL", entities.CurrentPriceResult{Price: 190, Source: "Yahoo"})

	clock.Advance(12 * time.Hour)
	_, ok := cache.GetCurrentPrice(ctx, entities.AssetStock, "AAPL")
	assert.True(t, ok, "entry is still valid at exactly the TTL")

	clock.Advance(time.Millisecond)
	_, ok = cache.GetCurrentPrice(ctx, entities.AssetStock, "AAPL")
	assert.False(t, ok)
	assert.False(t, store.has("price_current_stock_AAPL"), "stale entry should be deleted on read")
}

func TestCacheService_CurrentPrice_CorruptEntry(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := newTestCacheService(store, newFakeClock(testNow))

	store.put("price_current_crypto_ETH", "{not json")

	_, ok := cache.GetCurrentPrice(ctx, entities.AssetCrypto, "ETH")
	assert.False(t, ok)
	assert.False(t, store.has("price_current_crypto_ETH"))
}

func TestCacheService_HistoricalPrice_InvalidEnvelope(t *testing.T) {
	date := testNow.AddDate(-1, 0, 0)
	stamp := testNow.UnixMilli()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"null", `null`},
		{"missing store time", `{"data":{"exists":true,"price":42000,"source":"Kraken"}}`},
		{"not found result", fmt.Sprintf(`{"data":{"exists":false,"price":0},"storedAtEpochMs":%d}`, stamp)},
		{"zero price", fmt.Sprintf(`{"data":{"exists":true,"price":0,"source":"Kraken"},"storedAtEpochMs":%d}`, stamp)},
		{"degraded source", fmt.Sprintf(`{"data":{"exists":true,"price":42000,"source":"Fallback"},"storedAtEpochMs":%d}`, stamp)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newFakeStore()
			cache := newTestCacheService(store, newFakeClock(testNow))

			key := HistoricalKey(entities.AssetCrypto, "BTC", date)
			store.put(key, tt.raw)

			got, ok := cache.GetHistoricalPrice(ctx, entities.AssetCrypto, "btc", date)
			assert.False(t, ok)
			assert.Equal(t, entities.HistoricalPriceResult{}, got)
			assert.False(t, store.has(key), "unusable entry should be deleted on read")
		})
	}
}

func TestCacheService_CurrentPrice_InvalidEnvelope(t *testing.T) {
	stamp := testNow.UnixMilli()

	tests := []struct {
		name string
		raw  string
	}{
		{"empty object", `{}`},
		{"zero price", fmt.Sprintf(`{"data":{"price":0,"source":"Kraken"},"storedAtEpochMs":%d}`, stamp)},
		{"degraded source", fmt.Sprintf(`{"data":{"price":97000,"source":"Kraken (fallback)"},"storedAtEpochMs":%d}`, stamp)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			store := newFakeStore()
			cache := newTestCacheService(store, newFakeClock(testNow))

			key := CurrentKey(entities.AssetCrypto, "BTC")
			store.put(key, tt.raw)

			_, ok := cache.GetCurrentPrice(ctx, entities.AssetCrypto, "btc")
			assert.False(t, ok)
			assert.False(t, store.has(key))
		})
	}
}

func TestCacheService_StoreErrorsAreSwallowed(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	store.getErr = errors.New("connection refused")
	store.setErr = errors.New("connection refused")
	cache := newTestCacheService(store, newFakeClock(testNow))

	assert.NotPanics(t, func() {
		cache.SetCurrentPrice(ctx, entities.AssetCrypto, "BTC", entities.CurrentPriceResult{Price: 1, Source: "Kraken"})
	})
	_, ok := cache.GetCurrentPrice(ctx, entities.AssetCrypto, "BTC")
	assert.False(t, ok)
}

func TestCacheService_StoreFull_RunsCleanupOnce(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clock := newFakeClock(testNow)
	cache := newTestCacheService(store, clock)

	cache.SetCurrentPrice(ctx, entities.AssetCrypto, "BTC", entities.CurrentPriceResult{Price: 1, Source: "Kraken"})
	clock.Advance(13 * time.Hour)

	store.setErr = interfaces.ErrStoreFull
	cache.SetCurrentPrice(ctx, entities.AssetCrypto, "ETH", entities.CurrentPriceResult{Price: 2, Source: "Kraken"})

	assert.Equal(t, 2, store.sets, "the failed write must not be retried")
	assert.False(t, store.has("price_current_crypto_BTC"), "cleanup should drop the expired entry")
	assert.False(t, store.has("price_current_crypto_ETH"))
}

// ===== HISTORICAL PRICES =====

func TestCacheService_HistoricalPrice_Permanent(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clock := newFakeClock(testNow)
	cache := newTestCacheService(store, clock)

	date := testNow.AddDate(-2, 0, 0)
	data := entities.HistoricalPriceResult{Exists: true, Price: 42000, Date: entities.FormatDate(date), Source: "Kraken"}
	cache.SetHistoricalPrice(ctx, entities.AssetCrypto, "BTC", date, data)

	key := "price_historical_crypto_BTC_2023-06-15"
	require.True(t, store.has(key))
	assert.Equal(t, time.Duration(0), store.ttls[key])

	var entry entities.CacheEntry[entities.HistoricalPriceResult]
	require.NoError(t, json.Unmarshal([]byte(store.data[key]), &entry))
	assert.True(t, entry.Permanent())

	clock.Advance(365 * 24 * time.Hour)
	got, ok := cache.GetHistoricalPrice(ctx, entities.AssetCrypto, "BTC", date)
	require.True(t, ok)
	assert.Equal(t, data, got)
}

func TestCacheService_HistoricalPrice_IneligibleDate(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := newTestCacheService(store, newFakeClock(testNow))

	old := testNow.AddDate(-13, 0, 0)
	cache.SetHistoricalPrice(ctx, entities.AssetStock, "IBM", old, entities.HistoricalPriceResult{Exists: true, Price: 100, Source: "Yahoo"})
	assert.Equal(t, 0, store.sets)

	_, ok := cache.GetHistoricalPrice(ctx, entities.AssetStock, "IBM", old)
	assert.False(t, ok)
	assert.Equal(t, 0, store.gets, "ineligible dates must not read the store")
}

// ===== MAINTENANCE =====

func seedEntries(t *testing.T, ctx context.Context, cache *CacheService) {
	t.Helper()
	cache.SetCurrentPrice(ctx, entities.AssetCrypto, "BTC", entities.CurrentPriceResult{Price: 97000, Source: "Kraken"})
	cache.SetCurrentPrice(ctx, entities.AssetCrypto, "ETH", entities.CurrentPriceResult{Price: 3500, Source: "Kraken"})
	cache.SetCurrentPrice(ctx, entities.AssetStock, "AAPL", entities.CurrentPriceResult{Price: 190, Source: "Yahoo"})
	cache.SetHistoricalPrice(ctx, entities.AssetCrypto, "BTC", testNow.AddDate(0, -1, 0),
		entities.HistoricalPriceResult{Exists: true, Price: 60000, Source: "Kraken"})
	cache.SetHistoricalPrice(ctx, entities.AssetIndex, "SPX", testNow.AddDate(0, -1, 0),
		entities.HistoricalPriceResult{Exists: true, Price: 5000, Source: "Yahoo"})
}

func TestCacheService_GetCacheStats(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := newTestCacheService(store, newFakeClock(testNow))
	seedEntries(t, ctx, cache)
	store.put("unrelated_key", "x")

	stats := cache.GetCacheStats(ctx)
	assert.Equal(t, entities.CacheStats{Current: 3, Historical: 2, Total: 5}, stats)
}

func TestCacheService_GetCacheStats_StoreFailure(t *testing.T) {
	store := newFakeStore()
	store.keysErr = errors.New("scan failed")
	cache := newTestCacheService(store, newFakeClock(testNow))

	assert.Equal(t, entities.CacheStats{}, cache.GetCacheStats(context.Background()))
}

func TestCacheService_CleanupOldCache(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	clock := newFakeClock(testNow)
	cache := newTestCacheService(store, clock)
	seedEntries(t, ctx, cache)

	clock.Advance(6 * time.Hour)
	cache.SetCurrentPrice(ctx, entities.AssetIndex, "NDX", entities.CurrentPriceResult{Price: 18000, Source: "Yahoo"})
	store.put("price_current_stock_MSFT", "garbage")

	clock.Advance(7 * time.Hour)
	removed := cache.CleanupOldCache(ctx)

	assert.Equal(t, 4, removed)
	assert.True(t, store.has("price_current_index_NDX"))
	assert.Equal(t, entities.CacheStats{Current: 1, Historical: 2, Total: 3}, cache.GetCacheStats(ctx))
}

func TestCacheService_ClearCounts_OnlyKeysThatExisted(t *testing.T) {
	ctx := context.Background()
	store := repeatingStore{fakeStore: newFakeStore()}
	cache := newTestCacheService(store, newFakeClock(testNow))
	seedEntries(t, ctx, cache)

	assert.Equal(t, 2, cache.ClearCacheByTypes(ctx, []entities.AssetType{entities.AssetStock, entities.AssetIndex}))
	assert.Equal(t, 3, cache.ClearAllCache(ctx))
	assert.Empty(t, store.data)
}

func TestCacheService_ClearCacheByTypes(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := newTestCacheService(store, newFakeClock(testNow))
	seedEntries(t, ctx, cache)

	removed := cache.ClearCacheByTypes(ctx, []entities.AssetType{entities.AssetCrypto})

	assert.Equal(t, 3, removed)
	keys, err := store.Keys(ctx, "price_")
	require.NoError(t, err)
	assert.ElementsMatch(t, []string{
		"price_current_stock_AAPL",
		"price_historical_index_SPX_2025-05-15",
	}, keys)

	assert.Equal(t, 0, cache.ClearCacheByTypes(ctx, nil))
}

func TestCacheService_ClearAllCache(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	cache := newTestCacheService(store, newFakeClock(testNow))
	seedEntries(t, ctx, cache)
	store.put("session_token", "keep")

	assert.Equal(t, 5, cache.ClearAllCache(ctx))
	assert.Equal(t, entities.CacheStats{}, cache.GetCacheStats(ctx))
	assert.True(t, store.has("session_token"))
}

func TestCacheService_WithCurrentTTL(t *testing.T) {
	cache := NewCacheService(newFakeStore(), WithCurrentTTL(time.Minute))
	assert.Equal(t, time.Minute, cache.CurrentTTL())

	cache = NewCacheService(newFakeStore(), WithCurrentTTL(-time.Minute))
	assert.Equal(t, DefaultCurrentPriceTTL, cache.CurrentTTL())
}
