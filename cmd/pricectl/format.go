package main

import (
	"github.com/Rhymond/go-money"
	"github.com/shopspring/decimal"

	"price-cache-service/internal/domain/entities"
)

// quoteCurrency returns the currency an asset type is priced in. Index levels
// are points and have none.
func quoteCurrency(assetType entities.AssetType) string {
	switch assetType {
	case entities.AssetCrypto, entities.AssetStock:
		return money.USD
	case entities.AssetDomestic:
		return money.KRW
	default:
		return ""
	}
}

// formatPrice renders a price in its quote currency. Prices finer than the
// currency's minor unit keep their full digits.
func formatPrice(assetType entities.AssetType, price float64) string {
	value := decimal.NewFromFloat(price)

	code := quoteCurrency(assetType)
	if code == "" {
		return value.StringFixed(2)
	}

	cur := money.GetCurrency(code)
	minor := value.Shift(int32(cur.Fraction))
	if !minor.Equal(minor.Truncate(0)) {
		return cur.Grapheme + value.String()
	}
	return cur.Formatter().Format(minor.IntPart())
}

// formatChange renders a signed 24h change, or "-" when unknown
func formatChange(assetType entities.AssetType, change, percent *float64) string {
	if change == nil {
		return "-"
	}

	sign := ""
	if *change > 0 {
		sign = "+"
	}
	amount := *change
	if amount < 0 {
		sign = "-"
		amount = -amount
	}

	out := sign + formatPrice(assetType, amount)
	if percent != nil {
		out += " (" + decimal.NewFromFloat(*percent).StringFixed(2) + "%)"
	}
	return out
}
