package marketdata

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"time"

	"github.com/PaesslerAG/jsonpath"

	"price-cache-service/internal/domain/entities"
	"price-cache-service/internal/infrastructure/config"
)

const (
	YahooName       = "Yahoo Finance"
	YahooAPIBaseURL = "https://query1.finance.yahoo.com"

	yahooPricePath      = "$.chart.result[0].meta.regularMarketPrice"
	yahooPrevClosePath  = "$.chart.result[0].meta.chartPreviousClose"
	yahooMarketTimePath = "$.chart.result[0].meta.regularMarketTime"
	yahooTimestampsPath = "$.chart.result[0].timestamp"
	yahooClosesPath     = "$.chart.result[0].indicators.quote[0].close"
)

var yahooIndexSymbols = map[string]string{
	"SPX":    "^GSPC",
	"NDX":    "^NDX",
	"DJI":    "^DJI",
	"KOSPI":  "^KS11",
	"KOSDAQ": "^KQ11",
}

// YahooProvider serves every asset type from the Yahoo Finance chart API
type YahooProvider struct {
	baseURL string
	fetcher *httpFetcher
}

// NewYahooProvider creates a Yahoo provider from configuration
func NewYahooProvider(cfg config.ProviderConfig) *YahooProvider {
	baseURL := cfg.BaseURL
	if baseURL == "" {
		baseURL = YahooAPIBaseURL
	}
	return &YahooProvider{
		baseURL: strings.TrimRight(baseURL, "/"),
		fetcher: newHTTPFetcher("yahoo", cfg),
	}
}

func (y *YahooProvider) Name() string {
	return YahooName
}

func (y *YahooProvider) Supports(assetType entities.AssetType) bool {
	return assetType.Valid()
}

func (y *YahooProvider) Quote(ctx context.Context, assetType entities.AssetType, symbol string) (Quote, error) {
	ticker, err := toYahooSymbol(assetType, symbol)
	if err != nil {
		return Quote{}, err
	}

	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&range=5d", y.baseURL, url.PathEscape(ticker))
	var body any
	if err := y.fetcher.getJSON(ctx, "/v8/finance/chart", endpoint, &body); err != nil {
		return Quote{}, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}

	price, err := jsonFloat(yahooPricePath, body)
	if err != nil {
		return Quote{}, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, ticker, err)
	}

	quote := Quote{Price: roundPrice(price), Timestamp: time.Now()}
	if prev, err := jsonFloat(yahooPrevClosePath, body); err == nil {
		quote.PreviousClose = roundPrice(prev)
	}
	if ts, err := jsonFloat(yahooMarketTimePath, body); err == nil && ts > 0 {
		quote.Timestamp = time.Unix(int64(ts), 0)
	}
	return quote, nil
}

// DailyClose returns the close of the trading session that opened on the UTC day of date
func (y *YahooProvider) DailyClose(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) (float64, error) {
	ticker, err := toYahooSymbol(assetType, symbol)
	if err != nil {
		return 0, err
	}

	start := entities.StartOfDay(date)
	end := start.Add(24 * time.Hour)
	endpoint := fmt.Sprintf("%s/v8/finance/chart/%s?interval=1d&period1=%d&period2=%d",
		y.baseURL, url.PathEscape(ticker), start.Unix(), end.Unix())

	var body any
	if err := y.fetcher.getJSON(ctx, "/v8/finance/chart", endpoint, &body); err != nil {
		return 0, fmt.Errorf("yahoo chart %s: %w", ticker, err)
	}

	timestamps, err := jsonpath.Get(yahooTimestampsPath, body)
	if err != nil {
		// a chart without timestamps means the market was closed
		return 0, ErrNoData
	}
	closes, err := jsonpath.Get(yahooClosesPath, body)
	if err != nil {
		return 0, ErrNoData
	}

	tsList, _ := timestamps.([]any)
	closeList, _ := closes.([]any)
	for i, raw := range tsList {
		ts, ok := raw.(float64)
		if !ok || i >= len(closeList) {
			continue
		}
		at := time.Unix(int64(ts), 0)
		if at.Before(start) || !at.Before(end) {
			continue
		}
		if c, ok := closeList[i].(float64); ok {
			return roundPrice(c), nil
		}
	}
	return 0, ErrNoData
}

// toYahooSymbol maps a ticker onto Yahoo's symbology
func toYahooSymbol(assetType entities.AssetType, symbol string) (string, error) {
	s := entities.NormalizeSymbol(symbol)
	if s == "" {
		return "", fmt.Errorf("%w: empty symbol", ErrUnsupportedSymbol)
	}

	switch assetType {
	case entities.AssetCrypto:
		return s + "-USD", nil
	case entities.AssetStock:
		return s, nil
	case entities.AssetIndex:
		if mapped, ok := yahooIndexSymbols[s]; ok {
			return mapped, nil
		}
		return "^" + s, nil
	case entities.AssetDomestic:
		return s + ".KS", nil
	default:
		return "", fmt.Errorf("%w: %s %s", ErrUnsupportedSymbol, assetType, symbol)
	}
}

// jsonFloat reads a numeric value at path, unwrapping single element results
func jsonFloat(path string, body any) (float64, error) {
	v, err := jsonpath.Get(path, body)
	if err != nil {
		return 0, err
	}
	if list, ok := v.([]any); ok {
		if len(list) == 0 {
			return 0, fmt.Errorf("no value at %s", path)
		}
		v = list[0]
	}
	f, ok := v.(float64)
	if !ok {
		return 0, fmt.Errorf("value at %s is %T, not a number", path, v)
	}
	return f, nil
}
