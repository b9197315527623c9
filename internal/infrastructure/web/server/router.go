package server

import (
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	httpSwagger "github.com/swaggo/http-swagger"

	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/metrics"
	"price-cache-service/internal/infrastructure/ratelimit"
	"price-cache-service/internal/infrastructure/web/docs"
	"price-cache-service/internal/infrastructure/web/handlers"
	"price-cache-service/internal/infrastructure/web/middleware"
)

const (
	idleTimeout = 60 * time.Second
	apiPrefix   = "/api/v1"
)

// RouterConfig carries everything the HTTP layer needs
type RouterConfig struct {
	PriceService interfaces.CachedPriceService
	// Pinger is optional; nil skips the store check on /ready
	Pinger    interfaces.Pinger
	Auth      config.AuthConfig
	RateLimit config.RateLimitConfig
	Stream    config.StreamConfig
	Version   string
}

// NewRouter builds the routes and the middleware chain
func NewRouter(cfg RouterConfig) http.Handler {
	if cfg.Version != "" {
		docs.SwaggerInfo.Version = cfg.Version
	}

	priceHandler := handlers.NewPriceHandler(cfg.PriceService)
	cacheHandler := handlers.NewCacheHandler(cfg.PriceService)
	healthHandler := handlers.NewHealthHandler(cfg.PriceService, cfg.Pinger)
	streamHandler := handlers.NewStreamHandler(cfg.PriceService, cfg.Stream)

	router := mux.NewRouter()

	// API routes sit on the root router so a method mismatch yields 405
	router.HandleFunc(apiPrefix+"/prices/current/{type}/{symbol}", priceHandler.GetCurrentPrice).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/prices/historical/{type}/{symbol}", priceHandler.GetHistoricalPrice).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/assets", priceHandler.GetSupportedAssets).Methods(http.MethodGet)

	router.HandleFunc(apiPrefix+"/cache/stats", cacheHandler.Stats).Methods(http.MethodGet)
	router.HandleFunc(apiPrefix+"/cache/cleanup", cacheHandler.Cleanup).Methods(http.MethodPost)
	router.HandleFunc(apiPrefix+"/cache/all", cacheHandler.ClearAll).Methods(http.MethodDelete)
	router.HandleFunc(apiPrefix+"/cache", cacheHandler.ClearByTypes).Methods(http.MethodDelete)

	router.HandleFunc("/ws/prices", streamHandler.Stream).Methods(http.MethodGet)

	router.HandleFunc("/health", healthHandler.Health).Methods(http.MethodGet)
	router.HandleFunc("/ready", healthHandler.Ready).Methods(http.MethodGet)
	router.Handle("/metrics", promhttp.Handler()).Methods(http.MethodGet)

	router.PathPrefix("/swagger/").Handler(httpSwagger.Handler(
		httpSwagger.URL("/swagger/doc.json"),
	))
	router.HandleFunc("/docs", redirectToSwagger)
	router.HandleFunc("/docs/", redirectToSwagger)

	// Wrapped inside out; recovery ends up outermost and tracing assigns
	// the request id before anything logs.
	rateLimiter := ratelimit.NewRateLimitMiddleware(cfg.RateLimit)
	auth := middleware.NewAuthMiddleware(cfg.Auth)

	var handler http.Handler = router
	handler = auth.Handler(handler)
	handler = rateLimiter.Handler(handler)
	handler = metrics.HTTPMetricsMiddleware(handler)
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.RequestTracingMiddleware(handler)
	handler = middleware.RecoveryMiddleware(handler)

	return handler
}

func redirectToSwagger(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/swagger/", http.StatusMovedPermanently)
}
