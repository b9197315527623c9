package services

import "price-cache-service/internal/domain/entities"

// DefaultSupportedAssets returns the static symbol lists offered to callers
func DefaultSupportedAssets() entities.SupportedAssets {
	return entities.SupportedAssets{
		Crypto:   []string{"BTC", "ETH", "SOL", "XRP", "ADA", "DOGE"},
		Stock:    []string{"AAPL", "MSFT", "NVDA", "GOOGL", "AMZN", "TSLA"},
		Index:    []string{"SPX", "NDX", "DJI", "KOSPI", "KOSDAQ"},
		Domestic: []string{"005930", "000660", "035420", "035720", "005380"},
	}
}
