package marketdata

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-cache-service/internal/domain/entities"
)

// ===== QUOTE TESTS =====

func TestYahooProvider_Quote(t *testing.T) {
	var path string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		path = r.URL.Path
		_ = json.NewEncoder(w).Encode(createMockYahooChart(5912.17, 5870.0, nil, nil))
	}))
	defer server.Close()

	provider := NewYahooProvider(testProviderConfig(server.URL))
	quote, err := provider.Quote(context.Background(), entities.AssetIndex, "SPX")

	require.NoError(t, err)
	assert.Equal(t, "/v8/finance/chart/^GSPC", path)
	assert.Equal(t, 5912.17, quote.Price)
	assert.Equal(t, 5870.0, quote.PreviousClose)
	assert.Equal(t, int64(1718445600), quote.Timestamp.Unix())
}

func TestYahooProvider_QuoteNotFound(t *testing.T) {
	server, calls := createMockServer(t, http.StatusNotFound, map[string]any{
		"chart": map[string]any{"result": nil, "error": map[string]any{"code": "Not Found"}},
	})

	_, err := NewYahooProvider(testProviderConfig(server.URL)).Quote(context.Background(), entities.AssetStock, "NOPE")

	assert.ErrorIs(t, err, ErrNonRetryable)
	assert.Equal(t, int32(1), *calls)
}

func TestYahooProvider_QuoteMissingPrice(t *testing.T) {
	server, _ := createMockServer(t, http.StatusOK, map[string]any{"chart": map[string]any{"result": []any{}}})

	_, err := NewYahooProvider(testProviderConfig(server.URL)).Quote(context.Background(), entities.AssetStock, "AAPL")
	assert.ErrorIs(t, err, ErrInvalidResponse)
}

// ===== DAILY CLOSE TESTS =====

func TestYahooProvider_DailyClose(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	sessionOpen := day.Add(14*time.Hour + 30*time.Minute).Unix()

	tests := []struct {
		name        string
		timestamps  []int64
		closes      []any
		expected    float64
		expectedErr error
	}{
		{
			name:       "session on the day",
			timestamps: []int64{sessionOpen},
			closes:     []any{170.123456789},
			expected:   170.12345679,
		},
		{
			name:        "null close",
			timestamps:  []int64{sessionOpen},
			closes:      []any{nil},
			expectedErr: ErrNoData,
		},
		{
			name:        "session on another day",
			timestamps:  []int64{sessionOpen - 86400},
			closes:      []any{168.0},
			expectedErr: ErrNoData,
		},
		{
			name:        "market closed",
			expectedErr: ErrNoData,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server, _ := createMockServer(t, http.StatusOK, createMockYahooChart(0, 0, tt.timestamps, tt.closes))

			price, err := NewYahooProvider(testProviderConfig(server.URL)).
				DailyClose(context.Background(), entities.AssetStock, "AAPL", day)

			if tt.expectedErr != nil {
				assert.ErrorIs(t, err, tt.expectedErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, price)
		})
	}
}

func TestYahooProvider_DailyCloseQueryWindow(t *testing.T) {
	day := time.Date(2024, 3, 5, 0, 0, 0, 0, time.UTC)
	var query string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		query = r.URL.RawQuery
		_ = json.NewEncoder(w).Encode(createMockYahooChart(0, 0, nil, nil))
	}))
	defer server.Close()

	_, _ = NewYahooProvider(testProviderConfig(server.URL)).
		DailyClose(context.Background(), entities.AssetDomestic, "005930", day.Add(9*time.Hour))

	assert.True(t, strings.Contains(query, "period1=1709596800"))
	assert.True(t, strings.Contains(query, "period2=1709683200"))
}

// ===== SYMBOL MAPPING =====

func TestToYahooSymbol(t *testing.T) {
	tests := []struct {
		assetType entities.AssetType
		symbol    string
		expected  string
		wantErr   bool
	}{
		{entities.AssetCrypto, "btc", "BTC-USD", false},
		{entities.AssetStock, "aapl", "AAPL", false},
		{entities.AssetIndex, "SPX", "^GSPC", false},
		{entities.AssetIndex, "KOSDAQ", "^KQ11", false},
		{entities.AssetIndex, "N225", "^N225", false},
		{entities.AssetDomestic, "005930", "005930.KS", false},
		{entities.AssetStock, " ", "", true},
		{entities.AssetType("bond"), "X", "", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.assetType)+"_"+tt.symbol, func(t *testing.T) {
			got, err := toYahooSymbol(tt.assetType, tt.symbol)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnsupportedSymbol)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}
