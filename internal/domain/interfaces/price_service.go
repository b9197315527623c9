package interfaces

import (
	"context"
	"time"

	"price-cache-service/internal/domain/entities"
)

// CachedPriceService is the public entry point for price lookups.
// Lookups always return a result; problems surface through the result fields.
type CachedPriceService interface {
	GetCurrentPrice(ctx context.Context, assetType entities.AssetType, symbol string) entities.CurrentPriceResult
	GetHistoricalPrice(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) entities.HistoricalPriceResult
	GetSupportedAssets() entities.SupportedAssets

	CleanupCache(ctx context.Context)
	// CleanupExpiredCache runs the same cleanup and returns the number of entries removed
	CleanupExpiredCache(ctx context.Context) int
	ClearCacheByTypes(ctx context.Context, types []entities.AssetType) int
	ClearAllCache(ctx context.Context) int
	GetCacheStats(ctx context.Context) entities.CacheStats

	// CacheEnabled is false when the service was built without a persistent store
	CacheEnabled() bool
}
