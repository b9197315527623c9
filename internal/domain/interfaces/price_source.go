package interfaces

import (
	"context"
	"time"

	"price-cache-service/internal/domain/entities"
)

// CurrentPriceSource fetches a live price. Failures are reported inside the
// result (zero price or a fallback source), never as an error.
type CurrentPriceSource interface {
	GetPrice(ctx context.Context, assetType entities.AssetType, symbol string) entities.CurrentPriceResult
}

// HistoricalPriceSource fetches the price of an asset on a calendar day.
// Exists is false when no data is available for that day.
type HistoricalPriceSource interface {
	GetPrice(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) entities.HistoricalPriceResult
}
