package dto

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"time"

	"price-cache-service/internal/domain/entities"
)

// symbolPattern accepts tickers such as BTC, BRK.B, 005930 or ^GSPC
var symbolPattern = regexp.MustCompile(`^[A-Z0-9.^\-]{1,15}$`)

// AssetRef identifies one asset
type AssetRef struct {
	Type   entities.AssetType `json:"type"`
	Symbol string             `json:"symbol"`
}

func (a AssetRef) String() string {
	return string(a.Type) + ":" + a.Symbol
}

// CurrentPriceRequest is parsed from GET /api/v1/prices/current/{type}/{symbol}
type CurrentPriceRequest struct {
	AssetRef
}

// NewCurrentPriceRequest validates the path variables
func NewCurrentPriceRequest(typeParam, symbolParam string) (*CurrentPriceRequest, error) {
	ref, err := parseAssetRef(typeParam, symbolParam)
	if err != nil {
		return nil, err
	}
	return &CurrentPriceRequest{AssetRef: ref}, nil
}

// HistoricalPriceRequest is parsed from GET /api/v1/prices/historical/{type}/{symbol}?date=
type HistoricalPriceRequest struct {
	AssetRef
	Date time.Time
}

// NewHistoricalPriceRequest validates the path variables and the date query parameter
func NewHistoricalPriceRequest(typeParam, symbolParam, dateParam string) (*HistoricalPriceRequest, error) {
	ref, err := parseAssetRef(typeParam, symbolParam)
	if err != nil {
		return nil, err
	}

	if strings.TrimSpace(dateParam) == "" {
		return nil, errors.New("date query parameter is required (YYYY-MM-DD)")
	}
	date, err := entities.ParseDate(dateParam)
	if err != nil {
		return nil, err
	}

	return &HistoricalPriceRequest{AssetRef: ref, Date: date}, nil
}

// ClearCacheRequest is parsed from DELETE /api/v1/cache?types=crypto,stock
type ClearCacheRequest struct {
	Types []entities.AssetType
}

// NewClearCacheRequest requires at least one valid asset type
func NewClearCacheRequest(typesParam string) (*ClearCacheRequest, error) {
	types, err := entities.ParseAssetTypes(typesParam)
	if err != nil {
		return nil, err
	}
	if len(types) == 0 {
		return nil, errors.New("types query parameter is required (e.g. types=crypto,stock)")
	}
	return &ClearCacheRequest{Types: types}, nil
}

// StreamRequest lists the assets pushed over the price websocket
type StreamRequest struct {
	Assets []AssetRef
}

// NewStreamRequest parses "crypto:BTC,stock:AAPL". An empty parameter selects
// the supported assets in type order. At most maxAssets are accepted.
func NewStreamRequest(assetsParam string, supported entities.SupportedAssets, maxAssets int) (*StreamRequest, error) {
	var assets []AssetRef

	if strings.TrimSpace(assetsParam) == "" {
		for _, t := range entities.AllAssetTypes() {
			for _, symbol := range supported.ByType(t) {
				if len(assets) == maxAssets {
					return &StreamRequest{Assets: assets}, nil
				}
				assets = append(assets, AssetRef{Type: t, Symbol: symbol})
			}
		}
		return &StreamRequest{Assets: assets}, nil
	}

	seen := make(map[string]bool)
	for _, item := range strings.Split(assetsParam, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}

		typePart, symbolPart, ok := strings.Cut(item, ":")
		if !ok {
			return nil, fmt.Errorf("invalid asset format: %s (expected type:SYMBOL)", item)
		}
		ref, err := parseAssetRef(typePart, symbolPart)
		if err != nil {
			return nil, err
		}
		if seen[ref.String()] {
			continue
		}
		seen[ref.String()] = true
		assets = append(assets, ref)
	}

	if len(assets) == 0 {
		return nil, errors.New("no valid assets provided")
	}
	if len(assets) > maxAssets {
		return nil, fmt.Errorf("too many assets: %d, max %d", len(assets), maxAssets)
	}
	return &StreamRequest{Assets: assets}, nil
}

func parseAssetRef(typeParam, symbolParam string) (AssetRef, error) {
	assetType, err := entities.ParseAssetType(typeParam)
	if err != nil {
		return AssetRef{}, err
	}

	symbol := entities.NormalizeSymbol(symbolParam)
	if !symbolPattern.MatchString(symbol) {
		return AssetRef{}, fmt.Errorf("invalid symbol: %q", symbolParam)
	}

	return AssetRef{Type: assetType, Symbol: symbol}, nil
}
