package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"price-cache-service/internal/domain/entities"
	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
)

const (
	KrakenName       = "Kraken"
	KrakenAPIBaseURL = "https://api.kraken.com/0/public"
	// krakenDailyInterval is the OHLC candle width in minutes
	krakenDailyInterval = 1440
)

// krakenAssets maps tickers to Kraken base asset codes
var krakenAssets = map[string]string{
	"BTC":  "XBT",
	"DOGE": "XDG",
}

// KrakenProvider serves crypto prices from the Kraken public REST API
type KrakenProvider struct {
	baseURL string
	fetcher *httpFetcher
}

// NewKrakenProvider creates a Kraken provider from configuration
func NewKrakenProvider(cfg config.ProviderConfig) *KrakenProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = KrakenAPIBaseURL
	}
	return &KrakenProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newHTTPFetcher("kraken", cfg),
	}
}

func (k *KrakenProvider) Name() string {
	return KrakenName
}

func (k *KrakenProvider) Supports(assetType entities.AssetType) bool {
	return assetType == entities.AssetCrypto
}

// Quote returns the last traded price; the 24h reference is today's open
func (k *KrakenProvider) Quote(ctx context.Context, assetType entities.AssetType, symbol string) (Quote, error) {
	if !k.Supports(assetType) {
		return Quote{}, fmt.Errorf("%w: %s %s", ErrUnsupportedSymbol, assetType, symbol)
	}

	pair := toKrakenPair(symbol)
	var resp KrakenTickerResponse
	if err := k.fetcher.getJSON(ctx, "/Ticker", fmt.Sprintf("%s/Ticker?pair=%s", k.baseURL, url.QueryEscape(pair)), &resp); err != nil {
		return Quote{}, fmt.Errorf("kraken ticker %s: %w", pair, err)
	}

	if len(resp.Error) > 0 {
		return Quote{}, fmt.Errorf("%w: %s", ErrNonRetryable, strings.Join(resp.Error, ", "))
	}

	// Kraken may answer with a different pair name, take the first entry
	for _, ticker := range resp.Result {
		price, err := ticker.LastTradedPrice()
		if err != nil {
			return Quote{}, err
		}
		return Quote{
			Price:         price,
			PreviousClose: ticker.Open(),
			Timestamp:     time.Now(),
		}, nil
	}

	logging.Warn(ctx, "No ticker data found in Kraken response", logging.Fields{
		"pair": pair,
	})
	return Quote{}, fmt.Errorf("%w: no ticker data for pair %s", ErrNonRetryable, pair)
}

// DailyClose returns the close of the daily candle starting at the UTC day of date
func (k *KrakenProvider) DailyClose(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) (float64, error) {
	if !k.Supports(assetType) {
		return 0, fmt.Errorf("%w: %s %s", ErrUnsupportedSymbol, assetType, symbol)
	}

	pair := toKrakenPair(symbol)
	day := entities.StartOfDay(date).Unix()
	endpoint := fmt.Sprintf("%s/OHLC?pair=%s&interval=%d&since=%d", k.baseURL, url.QueryEscape(pair), krakenDailyInterval, day-1)

	var resp KrakenOHLCResponse
	if err := k.fetcher.getJSON(ctx, "/OHLC", endpoint, &resp); err != nil {
		return 0, fmt.Errorf("kraken ohlc %s: %w", pair, err)
	}

	if len(resp.Error) > 0 {
		return 0, fmt.Errorf("%w: %s", ErrNonRetryable, strings.Join(resp.Error, ", "))
	}

	return resp.CloseAt(day)
}

// toKrakenPair converts BTC into XBTUSD
func toKrakenPair(symbol string) string {
	base := entities.NormalizeSymbol(symbol)
	if code, ok := krakenAssets[base]; ok {
		base = code
	}
	return base + "USD"
}
