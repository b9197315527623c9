package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"price-cache-service/internal/domain/entities"
	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/logging"
	"price-cache-service/internal/infrastructure/metrics"
)

// DefaultCurrentPriceTTL is how long a current price stays valid
const DefaultCurrentPriceTTL = 12 * time.Hour

var errMissingStoreTime = errors.New("envelope has no store time")

// eligibleWindowYears are the backward-looking windows, all ending at now
var eligibleWindowYears = []int{1, 3, 5, 10}

// CacheService owns the persisted entry format, TTL handling and
// historical date eligibility. Storage errors never escape it.
type CacheService struct {
	store      interfaces.Store
	currentTTL time.Duration
	now        func() time.Time
}

// CacheOption customizes a CacheService
type CacheOption func(*CacheService)

// WithClock replaces time.Now
func WithClock(now func() time.Time) CacheOption {
	return func(c *CacheService) {
		c.now = now
	}
}

// WithCurrentTTL overrides DefaultCurrentPriceTTL; non-positive values are ignored
func WithCurrentTTL(ttl time.Duration) CacheOption {
	return func(c *CacheService) {
		if ttl > 0 {
			c.currentTTL = ttl
		}
	}
}

// NewCacheService builds the policy engine over store
func NewCacheService(store interfaces.Store, opts ...CacheOption) *CacheService {
	c := &CacheService{
		store:      store,
		currentTTL: DefaultCurrentPriceTTL,
		now:        time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// CurrentTTL returns the validity window of current prices
func (c *CacheService) CurrentTTL() time.Duration {
	return c.currentTTL
}

// GetCurrentPrice returns the cached current price, purging it when stale
func (c *CacheService) GetCurrentPrice(ctx context.Context, assetType entities.AssetType, symbol string) (entities.CurrentPriceResult, bool) {
	key := CurrentKey(assetType, symbol)

	entry, ok := readEntry[entities.CurrentPriceResult](ctx, c, key, namespaceCurrent)
	if !ok {
		return entities.CurrentPriceResult{}, false
	}

	if entry.Stale(c.now(), c.currentTTL) {
		c.deleteKey(ctx, key)
		metrics.RecordCacheEviction("expired", 1)
		metrics.RecordCacheOperation("get", namespaceCurrent, "miss")
		logging.Debug(ctx, "Current price entry expired", logging.Fields{
			logging.FieldCacheKey: key,
			"stored_at_ms":        entry.StoredAtEpochMs,
		})
		return entities.CurrentPriceResult{}, false
	}

	if ok, reason := admitCurrent(entry.Data); !ok {
		c.purgeRejected(ctx, key, namespaceCurrent, reason)
		return entities.CurrentPriceResult{}, false
	}

	metrics.RecordCacheOperation("get", namespaceCurrent, "hit")
	logging.CacheOperation(ctx, logging.CacheOpGet, key, true)
	return entry.Data, true
}

// SetCurrentPrice stores data with a TTL. A full store triggers one cleanup
// pass and the write is dropped.
func (c *CacheService) SetCurrentPrice(ctx context.Context, assetType entities.AssetType, symbol string, data entities.CurrentPriceResult) {
	key := CurrentKey(assetType, symbol)
	entry := entities.NewCacheEntry(data, c.now(), c.currentTTL)

	if err := writeEntry(ctx, c, key, entry, c.currentTTL, namespaceCurrent); err != nil {
		c.handleWriteFailure(ctx, key, err)
	}
}

// IsDateInAllowedRange reports whether date falls in one of the 1/3/5/10 year
// windows ending now. Dates are compared as UTC calendar days.
func (c *CacheService) IsDateInAllowedRange(date time.Time) bool {
	now := c.now()
	day := entities.StartOfDay(date)
	if day.After(now) {
		return false
	}

	for _, years := range eligibleWindowYears {
		lower := entities.StartOfDay(now.AddDate(-years, 0, 0))
		if !day.Before(lower) {
			return true
		}
	}
	return false
}

// GetHistoricalPrice returns a cached historical price. Ineligible dates
// never touch the store.
func (c *CacheService) GetHistoricalPrice(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) (entities.HistoricalPriceResult, bool) {
	if !c.IsDateInAllowedRange(date) {
		metrics.RecordCacheOperation("get", namespaceHistorical, "skipped")
		return entities.HistoricalPriceResult{}, false
	}

	key := HistoricalKey(assetType, symbol, date)
	entry, ok := readEntry[entities.HistoricalPriceResult](ctx, c, key, namespaceHistorical)
	if !ok {
		return entities.HistoricalPriceResult{}, false
	}

	if ok, reason := admitHistorical(entry.Data); !ok {
		c.purgeRejected(ctx, key, namespaceHistorical, reason)
		return entities.HistoricalPriceResult{}, false
	}

	metrics.RecordCacheOperation("get", namespaceHistorical, "hit")
	logging.CacheOperation(ctx, logging.CacheOpGet, key, true)
	return entry.Data, true
}

// SetHistoricalPrice stores data permanently; ineligible dates are ignored
func (c *CacheService) SetHistoricalPrice(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time, data entities.HistoricalPriceResult) {
	if !c.IsDateInAllowedRange(date) {
		metrics.RecordCacheOperation("set", namespaceHistorical, "skipped")
		return
	}

	key := HistoricalKey(assetType, symbol, date)
	entry := entities.NewCacheEntry(data, c.now(), 0)

	if err := writeEntry(ctx, c, key, entry, 0, namespaceHistorical); err != nil {
		c.handleWriteFailure(ctx, key, err)
	}
}

// CleanupOldCache removes expired or unreadable current-price entries and
// returns how many were deleted. Historical entries are left alone.
func (c *CacheService) CleanupOldCache(ctx context.Context) int {
	keys, ok := c.keys(ctx, CurrentKeyPrefix)
	if !ok {
		return 0
	}

	now := c.now()
	removed := 0
	for _, key := range keys {
		raw, err := c.store.Get(ctx, key)
		if err != nil {
			if !errors.Is(err, interfaces.ErrKeyNotFound) {
				logging.Cache().CacheError(ctx, logging.CacheOpGet, key, err)
			}
			continue
		}

		var entry entities.CacheEntry[entities.CurrentPriceResult]
		if err := json.Unmarshal([]byte(raw), &entry); err != nil || entry.Stale(now, c.currentTTL) {
			if c.deleteKey(ctx, key) {
				removed++
			}
		}
	}

	metrics.RecordCacheEviction("cleanup", removed)
	logging.Info(ctx, "Cache cleanup completed", logging.Fields{
		"scanned": len(keys),
		"removed": removed,
	})
	return removed
}

// ClearCacheByTypes deletes current and historical entries whose type token
// is in types and returns the number deleted
func (c *CacheService) ClearCacheByTypes(ctx context.Context, types []entities.AssetType) int {
	if len(types) == 0 {
		return 0
	}

	wanted := make(map[entities.AssetType]bool, len(types))
	for _, t := range types {
		wanted[t] = true
	}

	removed := 0
	for _, prefix := range []string{CurrentKeyPrefix, HistoricalKeyPrefix} {
		keys, ok := c.keys(ctx, prefix)
		if !ok {
			continue
		}
		for _, key := range keys {
			t, ok := assetTypeFromKey(key)
			if !ok || !wanted[t] {
				continue
			}
			if c.deleteKey(ctx, key) {
				removed++
			}
		}
	}

	metrics.RecordCacheEviction("clear_types", removed)
	logging.Info(ctx, "Cache cleared by asset type", logging.Fields{
		"types":   types,
		"removed": removed,
	})
	return removed
}

// ClearAllCache deletes every price entry and returns the number deleted
func (c *CacheService) ClearAllCache(ctx context.Context) int {
	removed := 0
	for _, prefix := range []string{CurrentKeyPrefix, HistoricalKeyPrefix} {
		keys, ok := c.keys(ctx, prefix)
		if !ok {
			continue
		}
		for _, key := range keys {
			if c.deleteKey(ctx, key) {
				removed++
			}
		}
	}

	metrics.RecordCacheEviction("clear_all", removed)
	logging.Info(ctx, "Cache cleared", logging.Fields{"removed": removed})
	return removed
}

// GetCacheStats counts keys per namespace without reading values
func (c *CacheService) GetCacheStats(ctx context.Context) entities.CacheStats {
	current, _ := c.keys(ctx, CurrentKeyPrefix)
	historical, _ := c.keys(ctx, HistoricalKeyPrefix)

	stats := entities.CacheStats{
		Current:    len(current),
		Historical: len(historical),
		Total:      len(current) + len(historical),
	}
	metrics.UpdateCacheEntries(stats.Current, stats.Historical)
	return stats
}

func (c *CacheService) keys(ctx context.Context, prefix string) ([]string, bool) {
	keys, err := c.store.Keys(ctx, prefix)
	if err != nil {
		logging.Cache().CacheError(ctx, logging.CacheOpScan, prefix+"*", err)
		return nil, false
	}
	return keys, true
}

// deleteKey reports whether the key was removed. Stores implementing
// interfaces.Remover only count keys that still existed.
func (c *CacheService) deleteKey(ctx context.Context, key string) bool {
	if remover, ok := c.store.(interfaces.Remover); ok {
		existed, err := remover.Remove(ctx, key)
		if err != nil {
			logging.Cache().CacheError(ctx, logging.CacheOpDelete, key, err)
			return false
		}
		if existed {
			logging.Cache().Delete(ctx, key)
		}
		return existed
	}

	if err := c.store.Delete(ctx, key); err != nil {
		logging.Cache().CacheError(ctx, logging.CacheOpDelete, key, err)
		return false
	}
	logging.Cache().Delete(ctx, key)
	return true
}

// purgeRejected drops a cached value that admission control would not have written
func (c *CacheService) purgeRejected(ctx context.Context, key, namespace, reason string) {
	metrics.RecordCacheOperation("get", namespace, "miss")
	logging.Warn(ctx, "Cached price failed admission, purging", logging.Fields{
		logging.FieldCacheKey: key,
		"reason":              reason,
	})
	if c.deleteKey(ctx, key) {
		metrics.RecordCacheEviction("rejected", 1)
	}
}

func (c *CacheService) handleWriteFailure(ctx context.Context, key string, err error) {
	if !errors.Is(err, interfaces.ErrStoreFull) {
		return
	}
	logging.Warn(ctx, "Store is full, running cleanup without retrying the write", logging.Fields{
		logging.FieldCacheKey: key,
	})
	c.CleanupOldCache(ctx)
}

// readEntry loads and decodes an envelope. Missing, unreadable and corrupt
// entries are all reported as a miss; corrupt ones are deleted. An envelope
// without a store time is corrupt.
func readEntry[T any](ctx context.Context, c *CacheService, key, namespace string) (entities.CacheEntry[T], bool) {
	var entry entities.CacheEntry[T]

	raw, err := c.store.Get(ctx, key)
	if err != nil {
		if errors.Is(err, interfaces.ErrKeyNotFound) {
			metrics.RecordCacheOperation("get", namespace, "miss")
			logging.CacheOperation(ctx, logging.CacheOpGet, key, false)
		} else {
			metrics.RecordCacheOperation("get", namespace, "error")
			logging.Cache().CacheError(ctx, logging.CacheOpGet, key, err)
		}
		return entry, false
	}

	err = json.Unmarshal([]byte(raw), &entry)
	if err == nil && entry.StoredAtEpochMs <= 0 {
		err = errMissingStoreTime
	}
	if err != nil {
		metrics.RecordCacheOperation("get", namespace, "error")
		logging.Cache().CacheError(ctx, logging.CacheOpGet, key, fmt.Errorf("corrupt cache entry: %w", err))
		if c.deleteKey(ctx, key) {
			metrics.RecordCacheEviction("corrupt", 1)
		}
		return entities.CacheEntry[T]{}, false
	}

	return entry, true
}

// writeEntry encodes and stores an envelope, logging any failure
func writeEntry[T any](ctx context.Context, c *CacheService, key string, entry entities.CacheEntry[T], ttl time.Duration, namespace string) error {
	payload, err := json.Marshal(entry)
	if err != nil {
		metrics.RecordCacheOperation("set", namespace, "error")
		logging.Cache().CacheError(ctx, logging.CacheOpSet, key, err)
		return fmt.Errorf("failed to marshal cache entry for %s: %w", key, err)
	}

	if err := c.store.Set(ctx, key, string(payload), ttl); err != nil {
		metrics.RecordCacheOperation("set", namespace, "error")
		logging.Cache().CacheError(ctx, logging.CacheOpSet, key, err)
		return err
	}

	metrics.RecordCacheOperation("set", namespace, "success")
	logging.Cache().Set(ctx, key, ttl.Seconds())
	return nil
}
