package marketdata

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"price-cache-service/internal/domain/entities"
)

// pricePrecision is the number of decimal places kept from upstream prices
const pricePrecision = 8

// Quote is a live price as reported by one provider.
// PreviousClose is zero when the provider did not report it.
type Quote struct {
	Price         float64
	PreviousClose float64
	Timestamp     time.Time
}

// Provider is one upstream market data API
type Provider interface {
	Name() string
	Supports(assetType entities.AssetType) bool
	Quote(ctx context.Context, assetType entities.AssetType, symbol string) (Quote, error)
	// DailyClose returns the closing price for the UTC calendar day of date.
	// It returns ErrNoData when the market has no candle for that day.
	DailyClose(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) (float64, error)
}

// parsePrice parses a decimal string as sent by exchanges
func parsePrice(raw string) (float64, error) {
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return 0, err
	}
	return d.Round(pricePrecision).InexactFloat64(), nil
}

// roundPrice trims float noise from JSON number prices
func roundPrice(v float64) float64 {
	return decimal.NewFromFloat(v).Round(pricePrecision).InexactFloat64()
}

// change24h returns the absolute and percent change from previous to current
func change24h(current, previous float64) (*float64, *float64) {
	if previous <= 0 {
		return nil, nil
	}
	cur := decimal.NewFromFloat(current)
	prev := decimal.NewFromFloat(previous)
	diff := cur.Sub(prev)

	abs := diff.Round(pricePrecision).InexactFloat64()
	pct := diff.Div(prev).Mul(decimal.NewFromInt(100)).Round(4).InexactFloat64()
	return &abs, &pct
}
