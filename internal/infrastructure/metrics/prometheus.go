package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// HTTP
	HTTPRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_http_requests_total",
			Help: "Total number of HTTP requests processed",
		},
		[]string{"method", "path", "status_code"},
	)

	HTTPRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "price_cache_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	HTTPResponseSizeBytes = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "price_cache_http_response_size_bytes",
			Help:    "HTTP response size in bytes",
			Buckets: []float64{100, 1000, 10000, 100000, 1000000},
		},
		[]string{"method", "path"},
	)

	// Cache
	CacheOperationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_cache_operations_total",
			Help: "Cache operations by namespace and result",
		},
		[]string{"operation", "namespace", "result"}, // result: hit/miss/success/error/skipped
	)

	CacheEntries = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "price_cache_cache_entries",
			Help: "Entries per namespace as of the last stats call",
		},
		[]string{"namespace"},
	)

	CacheEvictionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_cache_evictions_total",
			Help: "Entries removed by reason",
		},
		[]string{"reason"}, // expired/corrupt/cleanup/clear_types/clear_all
	)

	AdmissionDecisionsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_admission_decisions_total",
			Help: "Admission control outcomes for fetched prices",
		},
		[]string{"namespace", "decision", "reason"},
	)

	// Lookups
	PriceRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_price_requests_total",
			Help: "Price lookups by asset type, namespace and cache result",
		},
		[]string{"asset_type", "namespace", "cache_result"}, // cache_result: hit/miss/bypass/ineligible
	)

	CurrentPrices = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "price_cache_current_price",
			Help: "Last price served per asset",
		},
		[]string{"asset_type", "symbol"},
	)

	// Upstream providers
	ExternalAPIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_external_api_requests_total",
			Help: "Upstream provider requests",
		},
		[]string{"service", "endpoint", "status_code"},
	)

	ExternalAPIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "price_cache_external_api_request_duration_seconds",
			Help:    "Upstream provider request duration in seconds",
			Buckets: []float64{0.1, 0.5, 1.0, 2.0, 5.0, 10.0},
		},
		[]string{"service", "endpoint"},
	)

	ExternalAPIRetries = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_external_api_retries_total",
			Help: "Upstream provider retry attempts",
		},
		[]string{"service", "endpoint", "attempt"},
	)

	FallbackActivationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_fallback_activations_total",
			Help: "Times a provider failed and the next one in the chain was tried",
		},
		[]string{"provider", "asset_type"},
	)

	DegradedResultsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_degraded_results_total",
			Help: "Lookups answered with a fallback result because every provider failed",
		},
		[]string{"namespace", "asset_type"},
	)

	// Rate limiting
	RateLimitRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_rate_limit_requests_total",
			Help: "HTTP requests checked by the rate limiter",
		},
		[]string{"result"}, // allowed/denied
	)

	// Background work
	WarmupRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "price_cache_warmup_runs_total",
			Help: "Background cache warm-up runs",
		},
		[]string{"result"},
	)

	StreamClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "price_cache_stream_clients",
			Help: "Connected websocket price stream clients",
		},
	)

	ApplicationInfo = promauto.NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "price_cache_application_info",
			Help: "Build and runtime information",
		},
		[]string{"version", "cache_backend"},
	)
)

func RecordHTTPRequest(method, path string, statusCode int, duration float64, responseSize int64) {
	HTTPRequestsTotal.WithLabelValues(method, path, strconv.Itoa(statusCode)).Inc()
	HTTPRequestDuration.WithLabelValues(method, path).Observe(duration)
	if responseSize > 0 {
		HTTPResponseSizeBytes.WithLabelValues(method, path).Observe(float64(responseSize))
	}
}

func RecordCacheOperation(operation, namespace, result string) {
	CacheOperationsTotal.WithLabelValues(operation, namespace, result).Inc()
}

func RecordCacheEviction(reason string, count int) {
	if count > 0 {
		CacheEvictionsTotal.WithLabelValues(reason).Add(float64(count))
	}
}

func UpdateCacheEntries(current, historical int) {
	CacheEntries.WithLabelValues("current").Set(float64(current))
	CacheEntries.WithLabelValues("historical").Set(float64(historical))
}

func RecordAdmission(namespace string, admitted bool, reason string) {
	decision := "rejected"
	if admitted {
		decision = "admitted"
	}
	AdmissionDecisionsTotal.WithLabelValues(namespace, decision, reason).Inc()
}

func RecordPriceRequest(assetType, namespace, cacheResult string) {
	PriceRequestsTotal.WithLabelValues(assetType, namespace, cacheResult).Inc()
}

func UpdateCurrentPrice(assetType, symbol string, price float64) {
	CurrentPrices.WithLabelValues(assetType, symbol).Set(price)
}

// RecordExternalAPICall records one upstream request; duration is in milliseconds
func RecordExternalAPICall(service, endpoint string, statusCode int, durationMs float64) {
	ExternalAPIRequestsTotal.WithLabelValues(service, endpoint, strconv.Itoa(statusCode)).Inc()
	ExternalAPIRequestDuration.WithLabelValues(service, endpoint).Observe(durationMs / 1000)
}

func RecordExternalAPIRetry(service, endpoint string, attempt int) {
	ExternalAPIRetries.WithLabelValues(service, endpoint, strconv.Itoa(attempt)).Inc()
}

func RecordFallbackActivation(provider, assetType string) {
	FallbackActivationsTotal.WithLabelValues(provider, assetType).Inc()
}

func RecordDegradedResult(namespace, assetType string) {
	DegradedResultsTotal.WithLabelValues(namespace, assetType).Inc()
}

func RecordRateLimitResult(allowed bool) {
	if allowed {
		RateLimitRequestsTotal.WithLabelValues("allowed").Inc()
	} else {
		RateLimitRequestsTotal.WithLabelValues("denied").Inc()
	}
}

func RecordWarmupRun(success bool) {
	if success {
		WarmupRunsTotal.WithLabelValues("success").Inc()
	} else {
		WarmupRunsTotal.WithLabelValues("error").Inc()
	}
}

func SetApplicationInfo(version, cacheBackend string) {
	ApplicationInfo.WithLabelValues(version, cacheBackend).Set(1)
}
