package dto

import (
	"price-cache-service/internal/domain/entities"
)

// PriceMapper converts domain results into response DTOs
type PriceMapper struct{}

// NewPriceMapper creates a new mapper
func NewPriceMapper() *PriceMapper {
	return &PriceMapper{}
}

func (m *PriceMapper) ToCurrentPriceResponse(ref AssetRef, result entities.CurrentPriceResult) CurrentPriceResponse {
	return CurrentPriceResponse{
		AssetType:        string(ref.Type),
		Symbol:           ref.Symbol,
		Price:            result.Price,
		Source:           result.Source,
		Timestamp:        result.Timestamp,
		Change24h:        result.Change24h,
		Change24hPercent: result.Change24hPercent,
		Degraded:         !entities.IsUsablePrice(result.Price) || entities.IsDegradedSource(result.Source),
	}
}

func (m *PriceMapper) ToHistoricalPriceResponse(ref AssetRef, result entities.HistoricalPriceResult) HistoricalPriceResponse {
	return HistoricalPriceResponse{
		AssetType: string(ref.Type),
		Symbol:    ref.Symbol,
		Exists:    result.Exists,
		Price:     result.Price,
		Date:      result.Date,
		Source:    result.Source,
		Error:     result.Error,
	}
}

func (m *PriceMapper) ToCacheStatsResponse(enabled bool, stats entities.CacheStats) CacheStatsResponse {
	return CacheStatsResponse{
		Enabled:    enabled,
		Current:    stats.Current,
		Historical: stats.Historical,
		Total:      stats.Total,
	}
}

// ToTypeNames renders asset types for responses
func (m *PriceMapper) ToTypeNames(types []entities.AssetType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = string(t)
	}
	return names
}
