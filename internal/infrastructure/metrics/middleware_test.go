package metrics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizePath(t *testing.T) {
	tests := []struct {
		path string
		want string
	}{
		{path: "/", want: "/"},
		{path: "/health", want: "/health"},
		{path: "/metrics/", want: "/metrics"},
		{path: "/api/v1/prices/current/crypto/BTC", want: "/api/v1/prices/current/{type}/{symbol}"},
		{path: "/api/v1/prices/historical/stock/AAPL", want: "/api/v1/prices/historical/{type}/{symbol}"},
		{path: "/api/v1/assets", want: "/api/v1/assets"},
		{path: "/api/v1/cache/stats", want: "/api/v1/cache/stats"},
		{path: "/ws/prices", want: "/ws/*"},
		{path: "/swagger/index.html", want: "/swagger/*"},
		{path: "/api/v2/other", want: "/api/*"},
		{path: "/favicon.ico", want: "/unknown"},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, normalizePath(tt.path))
		})
	}
}
