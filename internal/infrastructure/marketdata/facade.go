package marketdata

import (
	"context"
	"errors"
	"fmt"
	"time"

	"price-cache-service/internal/domain/entities"
	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
	"price-cache-service/internal/infrastructure/metrics"
)

// CurrentPriceService tries each provider supporting the asset type in order.
// When none answers it returns a zero price labelled Fallback.
type CurrentPriceService struct {
	providers []Provider
	now       func() time.Time
}

// NewCurrentPriceService creates a current price facade over providers, in priority order
func NewCurrentPriceService(providers ...Provider) *CurrentPriceService {
	return &CurrentPriceService{providers: providers, now: time.Now}
}

func (s *CurrentPriceService) GetPrice(ctx context.Context, assetType entities.AssetType, symbol string) entities.CurrentPriceResult {
	var failed []string

	for _, p := range s.providers {
		if !p.Supports(assetType) {
			continue
		}

		quote, err := p.Quote(ctx, assetType, symbol)
		if err == nil && !entities.IsUsablePrice(quote.Price) {
			err = fmt.Errorf("%w: unusable price %v", ErrInvalidResponse, quote.Price)
		}
		if err != nil {
			failed = append(failed, p.Name())
			metrics.RecordFallbackActivation(p.Name(), string(assetType))
			logging.WarnWithError(ctx, "Current price provider failed", err, logging.Fields{
				"provider":   p.Name(),
				"asset_type": assetType,
				"symbol":     symbol,
			})
			continue
		}

		result := entities.CurrentPriceResult{
			Price:     quote.Price,
			Source:    p.Name(),
			Timestamp: quote.Timestamp.UnixMilli(),
		}
		result.Change24h, result.Change24hPercent = change24h(quote.Price, quote.PreviousClose)
		return result
	}

	logging.Warn(ctx, "No provider returned a current price, serving fallback", logging.Fields{
		"asset_type":       assetType,
		"symbol":           symbol,
		"failed_providers": failed,
	})
	return entities.NewFallbackCurrentPrice(s.now())
}

// HistoricalPriceService tries each provider supporting the asset type in order.
// A provider reporting no candle for the day is remembered so the result names it
// when no later provider has data either.
type HistoricalPriceService struct {
	providers []Provider
	now       func() time.Time
}

// NewHistoricalPriceService creates a historical price facade over providers, in priority order
func NewHistoricalPriceService(providers ...Provider) *HistoricalPriceService {
	return &HistoricalPriceService{providers: providers, now: time.Now}
}

func (s *HistoricalPriceService) GetPrice(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) entities.HistoricalPriceResult {
	day := entities.StartOfDay(date)
	if day.After(s.now()) {
		return entities.NewMissingHistoricalPrice(day, entities.FallbackSource, "date is in the future")
	}

	noDataSource := ""
	var lastErr error

	for _, p := range s.providers {
		if !p.Supports(assetType) {
			continue
		}

		price, err := p.DailyClose(ctx, assetType, symbol, day)
		if err == nil && !entities.IsUsablePrice(price) {
			err = fmt.Errorf("%w: unusable price %v", ErrInvalidResponse, price)
		}
		if err != nil {
			if errors.Is(err, ErrNoData) {
				if noDataSource == "" {
					noDataSource = p.Name()
				}
			} else {
				lastErr = err
				metrics.RecordFallbackActivation(p.Name(), string(assetType))
			}
			logging.Debug(ctx, "Historical price provider had no answer", logging.Fields{
				"provider":   p.Name(),
				"asset_type": assetType,
				"symbol":     symbol,
				"date":       entities.FormatDate(day),
				"error":      err.Error(),
			})
			continue
		}

		return entities.HistoricalPriceResult{
			Exists: true,
			Price:  price,
			Date:   entities.FormatDate(day),
			Source: p.Name(),
		}
	}

	if noDataSource != "" {
		return entities.NewMissingHistoricalPrice(day, noDataSource, "no trading data for this date")
	}

	reason := "no provider available"
	if lastErr != nil {
		reason = lastErr.Error()
	}
	logging.Warn(ctx, "No provider returned a historical price, serving fallback", logging.Fields{
		"asset_type": assetType,
		"symbol":     symbol,
		"date":       entities.FormatDate(day),
		"reason":     reason,
	})
	return entities.NewMissingHistoricalPrice(day, entities.FallbackSource, reason)
}

// NewProviders builds the provider chain from configuration. Mock mode replaces
// every upstream with the in-process mock.
func NewProviders(cfg config.SourcesConfig, mockMode bool) []Provider {
	if mockMode {
		return []Provider{NewMockProvider()}
	}

	var providers []Provider
	if cfg.Kraken.Enabled {
		providers = append(providers, NewKrakenProvider(cfg.Kraken))
	}
	if cfg.Yahoo.Enabled {
		providers = append(providers, NewYahooProvider(cfg.Yahoo))
	}
	return providers
}
