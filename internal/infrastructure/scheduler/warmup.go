package scheduler

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"golang.org/x/sync/errgroup"

	"price-cache-service/internal/domain/entities"
	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
	"price-cache-service/internal/infrastructure/metrics"
)

// ErrWarmupFailed is returned when no lookup of a run produced a usable price
var ErrWarmupFailed = errors.New("warmup produced no usable prices")

// PriceWarmer periodically refreshes current prices for every supported asset
type PriceWarmer struct {
	service      interfaces.CachedPriceService
	interval     time.Duration
	requestDelay time.Duration
	timeout      time.Duration
}

var _ interfaces.Warmer = (*PriceWarmer)(nil)

// NewPriceWarmer creates a warmer over the cached price service
func NewPriceWarmer(service interfaces.CachedPriceService, cfg config.WarmupConfig) *PriceWarmer {
	return &PriceWarmer{
		service:      service,
		interval:     cfg.Interval,
		requestDelay: cfg.RequestDelay,
		timeout:      cfg.Timeout,
	}
}

// WarmUp drops expired entries and then fetches every supported asset, one
// goroutine per asset type with requestDelay between requests of a type.
func (w *PriceWarmer) WarmUp(ctx context.Context) error {
	if w.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, w.timeout)
		defer cancel()
	}

	start := time.Now()
	w.service.CleanupCache(ctx)

	assets := w.service.GetSupportedAssets()
	var fetched, usable int64

	g, gctx := errgroup.WithContext(ctx)
	for _, assetType := range entities.AllAssetTypes() {
		symbols := assets.ByType(assetType)
		if len(symbols) == 0 {
			continue
		}

		g.Go(func() error {
			for i, symbol := range symbols {
				if i > 0 && w.requestDelay > 0 {
					if err := sleep(gctx, w.requestDelay); err != nil {
						return err
					}
				} else if err := gctx.Err(); err != nil {
					return err
				}

				result := w.service.GetCurrentPrice(gctx, assetType, symbol)
				atomic.AddInt64(&fetched, 1)
				if entities.IsUsablePrice(result.Price) && !entities.IsDegradedSource(result.Source) {
					atomic.AddInt64(&usable, 1)
				}
			}
			return nil
		})
	}

	err := g.Wait()
	if err == nil && fetched > 0 && usable == 0 {
		err = ErrWarmupFailed
	}

	metrics.RecordWarmupRun(err == nil)
	fields := logging.Fields{
		"fetched":     fetched,
		"usable":      usable,
		"duration_ms": float64(time.Since(start).Nanoseconds()) / 1e6,
	}
	if err != nil {
		logging.WarnWithError(ctx, "Cache warmup run failed", err, fields)
		return fmt.Errorf("cache warmup: %w", err)
	}

	logging.Info(ctx, "Cache warmup run completed", fields)
	return nil
}

// Run warms immediately and then on every interval until ctx is done
func (w *PriceWarmer) Run(ctx context.Context) {
	_ = w.WarmUp(ctx)
	if w.interval <= 0 {
		return
	}

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			logging.Info(ctx, "Cache warmer stopped", nil)
			return
		case <-ticker.C:
			_ = w.WarmUp(ctx)
		}
	}
}

func sleep(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
