package services

import (
	"math"

	"price-cache-service/internal/domain/entities"
)

// Reasons a fetched result is kept out of the cache
const (
	reasonAdmitted         = "admitted"
	reasonNonPositivePrice = "non_positive_price"
	reasonNonFinitePrice   = "non_finite_price"
	reasonDegradedSource   = "degraded_source"
	reasonNotFound         = "not_found"
)

func checkPrice(price float64, source string) string {
	if math.IsNaN(price) || math.IsInf(price, 0) {
		return reasonNonFinitePrice
	}
	if price <= 0 {
		return reasonNonPositivePrice
	}
	if entities.IsDegradedSource(source) {
		return reasonDegradedSource
	}
	return reasonAdmitted
}

// admitCurrent decides whether a current price may be written to the cache
func admitCurrent(result entities.CurrentPriceResult) (bool, string) {
	reason := checkPrice(result.Price, result.Source)
	return reason == reasonAdmitted, reason
}

// admitHistorical decides whether a historical price may be written to the cache
func admitHistorical(result entities.HistoricalPriceResult) (bool, string) {
	if !result.Exists {
		return false, reasonNotFound
	}
	reason := checkPrice(result.Price, result.Source)
	return reason == reasonAdmitted, reason
}
