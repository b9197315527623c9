package ratelimit

import (
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"price-cache-service/internal/infrastructure/config"
)

func okHandler() http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})
}

func TestRateLimitMiddleware_BlocksAfterBurst(t *testing.T) {
	mw := NewRateLimitMiddleware(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 2})
	handler := mw.Handler(okHandler())

	codes := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/prices/current/crypto/BTC", nil)
		req.RemoteAddr = "10.0.0.1:5555"
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		codes = append(codes, rec.Code)
	}

	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, codes)
}

func TestRateLimitMiddleware_ClientsAreIndependent(t *testing.T) {
	mw := NewRateLimitMiddleware(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1})
	handler := mw.Handler(okHandler())

	for _, ip := range []string{"10.0.0.1", "10.0.0.2"} {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/assets", nil)
		req.Header.Set("X-Forwarded-For", ip+", 172.16.0.1")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code, ip)
	}

	assert.Equal(t, 2, mw.Stats()["total_clients"])
}

func TestRateLimitMiddleware_SkipsAndDisabled(t *testing.T) {
	mw := NewRateLimitMiddleware(config.RateLimitConfig{Enabled: true, RequestsPerSecond: 0.001, Burst: 1})
	handler := mw.Handler(okHandler())

	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}

	disabled := NewRateLimitMiddleware(config.RateLimitConfig{Enabled: false}).Handler(okHandler())
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		disabled.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/assets", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	}
}

func TestClientLimiters_CleanupIdleClients(t *testing.T) {
	limiters := NewClientLimiters(1, 1)
	start := time.Now()
	current := start
	limiters.now = func() time.Time { return current }

	limiters.Allow("idle")
	current = start.Add(cleanupInterval + idleTimeout + time.Second)
	limiters.Allow("fresh")

	assert.Equal(t, 1, limiters.Stats()["total_clients"])
}

func TestGetClientID(t *testing.T) {
	tests := []struct {
		name     string
		headers  map[string]string
		remote   string
		expected string
	}{
		{"forwarded for", map[string]string{"X-Forwarded-For": "1.2.3.4, 5.6.7.8"}, "9.9.9.9:1", "1.2.3.4"},
		{"real ip", map[string]string{"X-Real-IP": "4.3.2.1"}, "9.9.9.9:1", "4.3.2.1"},
		{"remote addr", nil, "9.9.9.9:1234", "9.9.9.9"},
		{"ipv6 remote", nil, "[::1]:8080", "::1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remote
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.expected, getClientID(req))
		})
	}
}
