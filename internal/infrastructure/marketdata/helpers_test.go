package marketdata

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"price-cache-service/internal/infrastructure/config"
)

func testProviderConfig(baseURL string) config.ProviderConfig {
	return config.ProviderConfig{
		Enabled:        true,
		BaseURL:        baseURL,
		Timeout:        2 * time.Second,
		RequestTimeout: time.Second,
		MaxRetries:     3,
	}
}

// createMockServer answers every request with statusCode and response encoded as JSON
func createMockServer(t *testing.T, statusCode int, response any) (*httptest.Server, *int32) {
	t.Helper()
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(statusCode)
		if response != nil {
			_ = json.NewEncoder(w).Encode(response)
		}
	}))
	t.Cleanup(server.Close)
	return server, &calls
}

func createMockKrakenResponse(pair, price, open string) KrakenTickerResponse {
	return KrakenTickerResponse{
		Error: []string{},
		Result: map[string]KrakenTickerData{
			pair: {
				Ask:             []string{price, "1", "1.000"},
				Bid:             []string{price, "1", "1.000"},
				LastTradeClosed: []string{price, "0.001"},
				OpeningPrice:    open,
			},
		},
	}
}

func createMockYahooChart(price, prevClose float64, timestamps []int64, closes []any) map[string]any {
	ts := make([]any, len(timestamps))
	for i, v := range timestamps {
		ts[i] = v
	}
	return map[string]any{
		"chart": map[string]any{
			"result": []any{
				map[string]any{
					"meta": map[string]any{
						"regularMarketPrice": price,
						"chartPreviousClose": prevClose,
						"regularMarketTime":  1718445600,
					},
					"timestamp": ts,
					"indicators": map[string]any{
						"quote": []any{
							map[string]any{"close": closes},
						},
					},
				},
			},
			"error": nil,
		},
	}
}
