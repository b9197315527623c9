package services

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"price-cache-service/internal/domain/entities"
	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/logging"
	"price-cache-service/internal/infrastructure/metrics"
)

const tracerName = "price-cache-service/services"

// cachedPriceService composes the cache policy with the upstream price sources
type cachedPriceService struct {
	cache      *CacheService
	current    interfaces.CurrentPriceSource
	historical interfaces.HistoricalPriceSource
	assets     entities.SupportedAssets
	tracer     trace.Tracer
	now        func() time.Time
}

// NewCachedPriceService wires the orchestrator. A nil cache disables every
// read and write so each lookup goes straight to the sources.
func NewCachedPriceService(
	cache *CacheService,
	current interfaces.CurrentPriceSource,
	historical interfaces.HistoricalPriceSource,
	assets entities.SupportedAssets,
) interfaces.CachedPriceService {
	return &cachedPriceService{
		cache:      cache,
		current:    current,
		historical: historical,
		assets:     assets,
		tracer:     otel.Tracer(tracerName),
		now:        time.Now,
	}
}

func (s *cachedPriceService) CacheEnabled() bool {
	return s.cache != nil
}

// GetCurrentPrice serves from cache when fresh, otherwise fetches and admits
// the result. Rejected results are still returned.
func (s *cachedPriceService) GetCurrentPrice(ctx context.Context, assetType entities.AssetType, symbol string) entities.CurrentPriceResult {
	symbol = entities.NormalizeSymbol(symbol)

	ctx, span := s.tracer.Start(ctx, "CachedPriceService.GetCurrentPrice", trace.WithAttributes(
		attribute.String("asset.type", string(assetType)),
		attribute.String("asset.symbol", symbol),
		attribute.Bool("cache.enabled", s.CacheEnabled()),
	))
	defer span.End()

	logging.Business().PriceRequested(ctx, string(assetType), symbol, namespaceCurrent)

	if !assetType.Valid() {
		logging.Business().ValidationFailed(ctx, string(assetType), "unknown asset type")
		metrics.RecordDegradedResult(namespaceCurrent, string(assetType))
		return entities.NewFallbackCurrentPrice(s.now())
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetCurrentPrice(ctx, assetType, symbol); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			metrics.RecordPriceRequest(string(assetType), namespaceCurrent, "hit")
			logging.Business().PriceServed(ctx, string(assetType), symbol, cached.Price, cached.Source, true)
			return cached
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	result := s.current.GetPrice(ctx, assetType, symbol)

	admitted, reason := admitCurrent(result)
	span.SetAttributes(attribute.Bool("cache.admitted", admitted))
	if admitted {
		metrics.UpdateCurrentPrice(string(assetType), symbol, result.Price)
		if s.cache != nil {
			s.cache.SetCurrentPrice(ctx, assetType, symbol, result)
		}
	} else {
		metrics.RecordDegradedResult(namespaceCurrent, string(assetType))
		logging.Business().AdmissionRejected(ctx, string(assetType), symbol, reason)
	}
	if s.cache != nil {
		metrics.RecordAdmission(namespaceCurrent, admitted, reason)
		metrics.RecordPriceRequest(string(assetType), namespaceCurrent, "miss")
	} else {
		metrics.RecordPriceRequest(string(assetType), namespaceCurrent, "bypass")
	}

	logging.Business().PriceServed(ctx, string(assetType), symbol, result.Price, result.Source, false)
	return result
}

// GetHistoricalPrice mirrors GetCurrentPrice for a calendar day. Dates outside
// the eligibility windows are always fetched and never stored.
func (s *cachedPriceService) GetHistoricalPrice(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) entities.HistoricalPriceResult {
	symbol = entities.NormalizeSymbol(symbol)
	day := entities.StartOfDay(date)

	ctx, span := s.tracer.Start(ctx, "CachedPriceService.GetHistoricalPrice", trace.WithAttributes(
		attribute.String("asset.type", string(assetType)),
		attribute.String("asset.symbol", symbol),
		attribute.String("asset.date", entities.FormatDate(day)),
		attribute.Bool("cache.enabled", s.CacheEnabled()),
	))
	defer span.End()

	logging.Business().PriceRequested(ctx, string(assetType), symbol, namespaceHistorical)

	if !assetType.Valid() {
		logging.Business().ValidationFailed(ctx, string(assetType), "unknown asset type")
		metrics.RecordDegradedResult(namespaceHistorical, string(assetType))
		return entities.NewMissingHistoricalPrice(day, entities.FallbackSource, entities.ErrUnknownAssetType.Error())
	}

	if s.cache != nil {
		if cached, ok := s.cache.GetHistoricalPrice(ctx, assetType, symbol, day); ok {
			span.SetAttributes(attribute.Bool("cache.hit", true))
			metrics.RecordPriceRequest(string(assetType), namespaceHistorical, "hit")
			logging.Business().PriceServed(ctx, string(assetType), symbol, cached.Price, cached.Source, true)
			return cached
		}
	}
	span.SetAttributes(attribute.Bool("cache.hit", false))

	result := s.historical.GetPrice(ctx, assetType, symbol, day)

	admitted, reason := admitHistorical(result)
	span.SetAttributes(attribute.Bool("cache.admitted", admitted))
	if admitted {
		if s.cache != nil {
			s.cache.SetHistoricalPrice(ctx, assetType, symbol, day, result)
		}
	} else {
		metrics.RecordDegradedResult(namespaceHistorical, string(assetType))
		logging.Business().AdmissionRejected(ctx, string(assetType), symbol, reason)
	}
	if s.cache != nil {
		metrics.RecordAdmission(namespaceHistorical, admitted, reason)
		metrics.RecordPriceRequest(string(assetType), namespaceHistorical, "miss")
	} else {
		metrics.RecordPriceRequest(string(assetType), namespaceHistorical, "bypass")
	}

	logging.Business().PriceServed(ctx, string(assetType), symbol, result.Price, result.Source, false)
	return result
}

// GetSupportedAssets returns the static asset lists, with or without a store
func (s *cachedPriceService) GetSupportedAssets() entities.SupportedAssets {
	return s.assets
}

func (s *cachedPriceService) CleanupCache(ctx context.Context) {
	s.CleanupExpiredCache(ctx)
}

func (s *cachedPriceService) CleanupExpiredCache(ctx context.Context) int {
	if s.cache == nil {
		return 0
	}
	return s.cache.CleanupOldCache(ctx)
}

func (s *cachedPriceService) ClearCacheByTypes(ctx context.Context, types []entities.AssetType) int {
	if s.cache == nil {
		return 0
	}
	return s.cache.ClearCacheByTypes(ctx, types)
}

func (s *cachedPriceService) ClearAllCache(ctx context.Context) int {
	if s.cache == nil {
		return 0
	}
	return s.cache.ClearAllCache(ctx)
}

// GetCacheStats reports zero counts when no store is configured
func (s *cachedPriceService) GetCacheStats(ctx context.Context) entities.CacheStats {
	if s.cache == nil {
		return entities.CacheStats{}
	}
	return s.cache.GetCacheStats(ctx)
}
