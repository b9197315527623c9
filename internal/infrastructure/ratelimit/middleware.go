package ratelimit

import (
	"encoding/json"
	"net"
	"net/http"
	"strconv"
	"strings"

	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
	"price-cache-service/internal/infrastructure/metrics"
)

// RateLimitMiddleware provides per-client rate limiting for HTTP requests
type RateLimitMiddleware struct {
	limiters  *ClientLimiters
	skipPaths map[string]bool
	enabled   bool
}

// NewRateLimitMiddleware creates a rate limiting middleware from configuration
func NewRateLimitMiddleware(cfg config.RateLimitConfig) *RateLimitMiddleware {
	skipPaths := map[string]bool{
		"/health":  true,
		"/ready":   true,
		"/metrics": true,
	}

	var limiters *ClientLimiters
	if cfg.Enabled {
		limiters = NewClientLimiters(cfg.RequestsPerSecond, cfg.Burst)
	}

	return &RateLimitMiddleware{
		limiters:  limiters,
		skipPaths: skipPaths,
		enabled:   cfg.Enabled,
	}
}

// Handler returns the HTTP middleware handler
func (rlm *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !rlm.enabled || rlm.skipPaths[r.URL.Path] {
			next.ServeHTTP(w, r)
			return
		}

		clientID := getClientID(r)
		allowed, remaining := rlm.limiters.Allow(clientID)
		metrics.RecordRateLimitResult(allowed)

		if !allowed {
			logging.Security().RateLimitExceeded(r.Context(), clientID, r.URL.Path)
			writeRateLimitError(w)
			return
		}

		w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(remaining))
		next.ServeHTTP(w, r)
	})
}

// Stats returns rate limiting statistics
func (rlm *RateLimitMiddleware) Stats() map[string]interface{} {
	if rlm.limiters == nil {
		return map[string]interface{}{"enabled": false}
	}
	stats := rlm.limiters.Stats()
	stats["enabled"] = rlm.enabled
	return stats
}

// getClientID extracts the client address, preferring proxy headers
func getClientID(r *http.Request) string {
	if forwarded := r.Header.Get("X-Forwarded-For"); forwarded != "" {
		parts := strings.Split(forwarded, ",")
		return strings.TrimSpace(parts[0])
	}

	if realIP := r.Header.Get("X-Real-IP"); realIP != "" {
		return realIP
	}

	if host, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return host
	}
	return r.RemoteAddr
}

func writeRateLimitError(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("X-RateLimit-Remaining", "0")
	w.Header().Set("Retry-After", "1")
	w.WriteHeader(http.StatusTooManyRequests)

	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"error":   "RATE_LIMIT_EXCEEDED",
		"message": "Rate limit exceeded. Please slow down your requests.",
		"code":    http.StatusTooManyRequests,
	})
}
