package marketdata

import (
	"context"
	"fmt"
	"hash/fnv"
	"math/rand"
	"sync"
	"time"

	"price-cache-service/internal/domain/entities"
	"price-cache-service/internal/infrastructure/logging"
)

const MockName = "Mock"

// MockProvider returns realistic fake prices for development without network access
type MockProvider struct {
	mu         sync.RWMutex
	basePrices map[string]float64
	variance   float64
}

// NewMockProvider creates a mock provider seeded with common assets
func NewMockProvider() *MockProvider {
	return &MockProvider{
		basePrices: map[string]float64{
			mockKey(entities.AssetCrypto, "BTC"):      97000.0,
			mockKey(entities.AssetCrypto, "ETH"):      3400.0,
			mockKey(entities.AssetCrypto, "SOL"):      180.0,
			mockKey(entities.AssetCrypto, "XRP"):      2.1,
			mockKey(entities.AssetCrypto, "ADA"):      0.95,
			mockKey(entities.AssetCrypto, "DOGE"):     0.32,
			mockKey(entities.AssetStock, "AAPL"):      230.0,
			mockKey(entities.AssetStock, "MSFT"):      420.0,
			mockKey(entities.AssetStock, "NVDA"):      135.0,
			mockKey(entities.AssetStock, "GOOGL"):     175.0,
			mockKey(entities.AssetStock, "AMZN"):      210.0,
			mockKey(entities.AssetStock, "TSLA"):      350.0,
			mockKey(entities.AssetIndex, "SPX"):       5900.0,
			mockKey(entities.AssetIndex, "NDX"):       21000.0,
			mockKey(entities.AssetIndex, "DJI"):       43000.0,
			mockKey(entities.AssetIndex, "KOSPI"):     2500.0,
			mockKey(entities.AssetIndex, "KOSDAQ"):    700.0,
			mockKey(entities.AssetDomestic, "005930"): 56000.0,
			mockKey(entities.AssetDomestic, "000660"): 180000.0,
			mockKey(entities.AssetDomestic, "035420"): 200000.0,
			mockKey(entities.AssetDomestic, "035720"): 40000.0,
			mockKey(entities.AssetDomestic, "005380"): 210000.0,
		},
		variance: 0.02,
	}
}

func (m *MockProvider) Name() string {
	return MockName
}

func (m *MockProvider) Supports(assetType entities.AssetType) bool {
	return assetType.Valid()
}

// Quote returns the base price with a random variation of up to variance
func (m *MockProvider) Quote(ctx context.Context, assetType entities.AssetType, symbol string) (Quote, error) {
	base, err := m.basePrice(assetType, symbol)
	if err != nil {
		return Quote{}, err
	}

	m.mu.RLock()
	variance := m.variance
	m.mu.RUnlock()

	variation := (rand.Float64()*2 - 1) * variance
	price := roundPrice(base * (1 + variation))

	logging.Debug(ctx, "MockProvider: generated mock price", logging.Fields{
		"asset_type": assetType,
		"symbol":     symbol,
		"base_price": base,
		"price":      price,
		"variation":  fmt.Sprintf("%.2f%%", variation*100),
	})

	return Quote{Price: price, PreviousClose: base, Timestamp: time.Now()}, nil
}

// DailyClose is deterministic per symbol and day. Non-crypto markets have no weekend candles.
func (m *MockProvider) DailyClose(ctx context.Context, assetType entities.AssetType, symbol string, date time.Time) (float64, error) {
	day := entities.StartOfDay(date)
	if assetType != entities.AssetCrypto {
		if wd := day.Weekday(); wd == time.Saturday || wd == time.Sunday {
			return 0, ErrNoData
		}
	}

	base, err := m.basePrice(assetType, symbol)
	if err != nil {
		return 0, err
	}

	h := fnv.New32a()
	_, _ = h.Write([]byte(mockKey(assetType, symbol) + entities.FormatDate(day)))
	// spread historical closes within +-30% of the base price
	factor := 0.7 + float64(h.Sum32()%6000)/10000
	return roundPrice(base * factor), nil
}

// AddSymbol registers a base price (useful for testing)
func (m *MockProvider) AddSymbol(assetType entities.AssetType, symbol string, basePrice float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.basePrices[mockKey(assetType, symbol)] = basePrice
}

// SetVariance sets the relative volatility of live quotes
func (m *MockProvider) SetVariance(variance float64) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.variance = variance
}

func (m *MockProvider) basePrice(assetType entities.AssetType, symbol string) (float64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	base, ok := m.basePrices[mockKey(assetType, symbol)]
	if !ok {
		return 0, fmt.Errorf("%w: %s %s", ErrUnsupportedSymbol, assetType, symbol)
	}
	return base, nil
}

func mockKey(assetType entities.AssetType, symbol string) string {
	return string(assetType) + ":" + entities.NormalizeSymbol(symbol)
}
