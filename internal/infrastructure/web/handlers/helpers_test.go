package handlers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"time"

	"github.com/gorilla/mux"

	"price-cache-service/internal/domain/entities"
)

// stubPriceService records calls and returns canned results
type stubPriceService struct {
	mu sync.Mutex

	current    entities.CurrentPriceResult
	historical entities.HistoricalPriceResult
	assets     entities.SupportedAssets
	stats      []entities.CacheStats
	enabled    bool
	removed    int

	currentCalls  int
	lastType      entities.AssetType
	lastSymbol    string
	lastDate      time.Time
	clearedTypes  []entities.AssetType
	cleanupCalls  int
	clearAllCalls int
}

func newStubPriceService() *stubPriceService {
	return &stubPriceService{
		current: entities.CurrentPriceResult{Price: 97000, Source: "Kraken", Timestamp: 1718445600000},
		historical: entities.HistoricalPriceResult{
			Exists: true, Price: 170.12, Date: "2024-03-05", Source: "Yahoo Finance",
		},
		assets: entities.SupportedAssets{
			Crypto: []string{"BTC", "ETH"},
			Stock:  []string{"AAPL"},
		},
		enabled: true,
	}
}

func (s *stubPriceService) GetCurrentPrice(_ context.Context, assetType entities.AssetType, symbol string) entities.CurrentPriceResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.currentCalls++
	s.lastType, s.lastSymbol = assetType, symbol
	return s.current
}

func (s *stubPriceService) GetHistoricalPrice(_ context.Context, assetType entities.AssetType, symbol string, date time.Time) entities.HistoricalPriceResult {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastType, s.lastSymbol, s.lastDate = assetType, symbol, date
	return s.historical
}

func (s *stubPriceService) GetSupportedAssets() entities.SupportedAssets {
	return s.assets
}

func (s *stubPriceService) CleanupCache(ctx context.Context) {
	s.CleanupExpiredCache(ctx)
}

func (s *stubPriceService) CleanupExpiredCache(context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cleanupCalls++
	return s.removed
}

func (s *stubPriceService) ClearCacheByTypes(_ context.Context, types []entities.AssetType) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearedTypes = types
	return s.removed
}

func (s *stubPriceService) ClearAllCache(context.Context) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.clearAllCalls++
	return s.removed
}

// GetCacheStats pops queued stats so before/after reads can differ
func (s *stubPriceService) GetCacheStats(context.Context) entities.CacheStats {
	s.mu.Lock()
	defer s.mu.Unlock()
	if len(s.stats) == 0 {
		return entities.CacheStats{}
	}
	stats := s.stats[0]
	if len(s.stats) > 1 {
		s.stats = s.stats[1:]
	}
	return stats
}

func (s *stubPriceService) CacheEnabled() bool {
	return s.enabled
}

func (s *stubPriceService) currentCallCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.currentCalls
}

type stubPinger struct {
	err error
}

func (p stubPinger) Ping(context.Context) error {
	return p.err
}

var errPingFailed = errors.New("connection refused")

// serve routes a single request through a mux router so path variables resolve
func serve(pattern, method string, handler http.HandlerFunc, req *http.Request) *httptest.ResponseRecorder {
	router := mux.NewRouter()
	router.HandleFunc(pattern, handler).Methods(method)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}
