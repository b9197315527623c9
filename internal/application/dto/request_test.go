package dto

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-cache-service/internal/domain/entities"
)

func TestNewCurrentPriceRequest(t *testing.T) {
	tests := []struct {
		name     string
		typ      string
		symbol   string
		expected AssetRef
		wantErr  bool
	}{
		{"crypto lower case", "crypto", "btc", AssetRef{Type: entities.AssetCrypto, Symbol: "BTC"}, false},
		{"domestic numeric", "Domestic", "005930", AssetRef{Type: entities.AssetDomestic, Symbol: "005930"}, false},
		{"class share", "stock", "brk.b", AssetRef{Type: entities.AssetStock, Symbol: "BRK.B"}, false},
		{"unknown type", "bond", "X", AssetRef{}, true},
		{"empty symbol", "stock", "", AssetRef{}, true},
		{"symbol with slash", "crypto", "BTC/USD", AssetRef{}, true},
		{"symbol too long", "stock", "ABCDEFGHIJKLMNOP", AssetRef{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewCurrentPriceRequest(tt.typ, tt.symbol)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, req.AssetRef)
		})
	}
}

func TestNewHistoricalPriceRequest(t *testing.T) {
	req, err := NewHistoricalPriceRequest("index", "spx", "2024-03-05")
	require.NoError(t, err)
	assert.Equal(t, "SPX", req.Symbol)
	assert.Equal(t, time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC), req.Date)

	_, err = NewHistoricalPriceRequest("index", "SPX", "")
	assert.Error(t, err)

	_, err = NewHistoricalPriceRequest("index", "SPX", "05/03/2024")
	assert.ErrorIs(t, err, entities.ErrInvalidDate)
}

func TestNewClearCacheRequest(t *testing.T) {
	req, err := NewClearCacheRequest("crypto, stock")
	require.NoError(t, err)
	assert.Equal(t, []entities.AssetType{entities.AssetCrypto, entities.AssetStock}, req.Types)

	_, err = NewClearCacheRequest("")
	assert.Error(t, err)

	_, err = NewClearCacheRequest("crypto,bond")
	assert.ErrorIs(t, err, entities.ErrUnknownAssetType)
}

func TestNewStreamRequest(t *testing.T) {
	supported := entities.SupportedAssets{
		Crypto: []string{"BTC", "ETH"},
		Stock:  []string{"AAPL"},
	}

	tests := []struct {
		name      string
		param     string
		maxAssets int
		expected  []string
		wantErr   bool
	}{
		{"defaults to supported", "", 10, []string{"crypto:BTC", "crypto:ETH", "stock:AAPL"}, false},
		{"defaults capped", "", 2, []string{"crypto:BTC", "crypto:ETH"}, false},
		{"explicit list deduplicated", "crypto:btc, stock:MSFT,crypto:BTC", 10, []string{"crypto:BTC", "stock:MSFT"}, false},
		{"missing separator", "BTC", 10, nil, true},
		{"too many", "crypto:BTC,crypto:ETH", 1, nil, true},
		{"only commas", ",,", 10, nil, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := NewStreamRequest(tt.param, supported, tt.maxAssets)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			got := make([]string, len(req.Assets))
			for i, a := range req.Assets {
				got[i] = a.String()
			}
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestPriceMapper_ToCurrentPriceResponse(t *testing.T) {
	m := NewPriceMapper()
	ref := AssetRef{Type: entities.AssetCrypto, Symbol: "BTC"}

	ok := m.ToCurrentPriceResponse(ref, entities.CurrentPriceResult{Price: 97000, Source: "Kraken", Timestamp: 1})
	assert.False(t, ok.Degraded)
	assert.Equal(t, "crypto", ok.AssetType)

	fallback := m.ToCurrentPriceResponse(ref, entities.NewFallbackCurrentPrice(time.Unix(0, 0)))
	assert.True(t, fallback.Degraded)
	assert.Equal(t, entities.FallbackSource, fallback.Source)
}
