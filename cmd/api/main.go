package main

import (
	"context"
	"errors"
	"io"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"price-cache-service/internal/application/services"
	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
	"price-cache-service/internal/infrastructure/marketdata"
	"price-cache-service/internal/infrastructure/metrics"
	"price-cache-service/internal/infrastructure/repositories/cache"
	"price-cache-service/internal/infrastructure/scheduler"
	"price-cache-service/internal/infrastructure/tracing"
	"price-cache-service/internal/infrastructure/web/server"
)

func main() {
	log.Println("Starting Price Cache Service...")

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	if err := initLogging(cfg); err != nil {
		log.Fatalf("Failed to initialize logging: %v", err)
	}

	ctx := logging.WithRequestID(context.Background(), "main")

	shutdownTracing, err := tracing.Setup(cfg.Tracing, cfg.App, os.Stdout)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to initialize tracing", err, nil)
		os.Exit(1)
	}

	store, err := createStore(cfg.Cache)
	if err != nil {
		logging.ErrorWithError(ctx, "Failed to create cache store", err, logging.Fields{
			"backend": cfg.Cache.Backend,
		})
		os.Exit(1)
	}

	var cacheService *services.CacheService
	if store != nil {
		cacheService = services.NewCacheService(store, services.WithCurrentTTL(cfg.Cache.CurrentTTL))
		logging.Info(ctx, "Cache initialized successfully", logging.Fields{
			"backend":     cfg.Cache.Backend,
			"current_ttl": cfg.Cache.CurrentTTL.String(),
		})
	} else {
		logging.Warn(ctx, "Running without a cache store, every lookup goes upstream", nil)
	}

	providers := marketdata.NewProviders(cfg.Sources, cfg.Development.MockMode)
	providerNames := make([]string, len(providers))
	for i, p := range providers {
		providerNames[i] = p.Name()
	}
	logging.Info(ctx, "Price providers configured", logging.Fields{
		"providers": providerNames,
		"mock_mode": cfg.Development.MockMode,
	})

	priceService := services.NewCachedPriceService(
		cacheService,
		marketdata.NewCurrentPriceService(providers...),
		marketdata.NewHistoricalPriceService(providers...),
		services.DefaultSupportedAssets(),
	)

	metrics.SetApplicationInfo(cfg.App.Version, cfg.Cache.Backend)

	bgCtx, stopBackground := context.WithCancel(ctx)
	defer stopBackground()

	if cfg.Warmup.Enabled {
		warmer := scheduler.NewPriceWarmer(priceService, cfg.Warmup)
		go warmer.Run(bgCtx)
	}

	var pinger interfaces.Pinger
	if p, ok := store.(interfaces.Pinger); ok {
		pinger = p
	}

	router := server.NewRouter(server.RouterConfig{
		PriceService: priceService,
		Pinger:       pinger,
		Auth:         cfg.Auth,
		RateLimit:    cfg.RateLimit,
		Stream:       cfg.Stream,
		Version:      cfg.App.Version,
	})
	srv := server.NewServer(router, cfg.Server)

	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logging.ErrorWithError(ctx, "Failed to start server", err, nil)
			os.Exit(1)
		}
	}()

	logging.Info(ctx, "Price Cache Service is running", logging.Fields{
		"port":        cfg.Server.Port,
		"environment": cfg.App.Environment,
		"cache":       cfg.Cache.Backend,
		"auth":        cfg.Auth.Enabled,
		"rate_limit":  cfg.RateLimit.Enabled,
		"warmup":      cfg.Warmup.Enabled,
	})

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logging.Info(ctx, "Shutting down server...", nil)
	stopBackground()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	if err := srv.Stop(shutdownCtx); err != nil {
		logging.ErrorWithError(ctx, "Server forced to shutdown", err, nil)
	}

	if closer, ok := store.(io.Closer); ok {
		if err := closer.Close(); err != nil {
			logging.WarnWithError(ctx, "Failed to close cache store", err, nil)
		}
	}

	if err := shutdownTracing(shutdownCtx); err != nil {
		logging.WarnWithError(ctx, "Failed to flush traces", err, nil)
	}

	logging.Info(ctx, "Server shutdown completed", nil)
}

// loadConfig reads configs/config.yaml merged with the environment overlay
// and validates the result
func loadConfig() (*config.Config, error) {
	cfg, err := config.NewLoader().LoadForEnvironment(config.GetEnvironment())
	if err != nil {
		return nil, err
	}

	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}

func initLogging(cfg *config.Config) error {
	logConfig := logging.NewConfig(cfg.App.Name, cfg.App.Version, cfg.App.Environment).
		WithLevel(logging.LogLevelFromString(cfg.Logging.Level)).
		WithFormat(logging.LogFormatFromString(cfg.Logging.Format))

	return logging.InitializeGlobalLoggers(logConfig)
}

func createStore(settings config.CacheConfig) (interfaces.Store, error) {
	return cache.NewFactory().CreateStore(cache.ConfigFromSettings(settings))
}
