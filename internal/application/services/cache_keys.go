package services

import (
	"strings"
	"time"

	"price-cache-service/internal/domain/entities"
)

const (
	CurrentKeyPrefix    = "price_current_"
	HistoricalKeyPrefix = "price_historical_"
)

const (
	namespaceCurrent    = "current"
	namespaceHistorical = "historical"
)

// CurrentKey builds price_current_{type}_{SYMBOL}
func CurrentKey(assetType entities.AssetType, symbol string) string {
	return CurrentKeyPrefix + string(assetType) + "_" + entities.NormalizeSymbol(symbol)
}

// HistoricalKey builds price_historical_{type}_{SYMBOL}_{YYYY-MM-DD}
func HistoricalKey(assetType entities.AssetType, symbol string, date time.Time) string {
	return HistoricalKeyPrefix + string(assetType) + "_" + entities.NormalizeSymbol(symbol) + "_" + entities.FormatDate(date)
}

// assetTypeFromKey extracts the type token from a cache key
func assetTypeFromKey(key string) (entities.AssetType, bool) {
	var rest string
	switch {
	case strings.HasPrefix(key, CurrentKeyPrefix):
		rest = strings.TrimPrefix(key, CurrentKeyPrefix)
	case strings.HasPrefix(key, HistoricalKeyPrefix):
		rest = strings.TrimPrefix(key, HistoricalKeyPrefix)
	default:
		return "", false
	}

	token, _, found := strings.Cut(rest, "_")
	if !found {
		return "", false
	}
	t := entities.AssetType(token)
	return t, t.Valid()
}
