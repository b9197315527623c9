package main

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/subcommands"

	"price-cache-service/internal/application/services"
	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
	"price-cache-service/internal/infrastructure/marketdata"
	"price-cache-service/internal/infrastructure/repositories/cache"
)

// app builds the price service on first use so help and flag listing work
// without a reachable store
type app struct {
	configPath string
	out        io.Writer

	once    sync.Once
	service interfaces.CachedPriceService
	store   interfaces.Store
	err     error
}

func newApp(configPath string, out io.Writer) *app {
	return &app{configPath: configPath, out: out}
}

// newAppWithService is used by tests to skip configuration loading
func newAppWithService(service interfaces.CachedPriceService, out io.Writer) *app {
	a := &app{out: out, service: service}
	a.once.Do(func() {})
	return a
}

func (a *app) priceService() (interfaces.CachedPriceService, error) {
	a.once.Do(func() {
		a.service, a.store, a.err = a.build()
	})
	return a.service, a.err
}

func (a *app) build() (interfaces.CachedPriceService, interfaces.Store, error) {
	loader := config.NewLoader()

	var (
		cfg *config.Config
		err error
	)
	if a.configPath != "" {
		cfg, err = loader.LoadFile(a.configPath)
	} else {
		cfg, err = loader.LoadForEnvironment(config.GetEnvironment())
	}
	if err != nil {
		return nil, nil, err
	}
	if err := config.NewValidator().Validate(cfg); err != nil {
		return nil, nil, err
	}

	logConfig := logging.NewConfig(cfg.App.Name+"-cli", cfg.App.Version, cfg.App.Environment).
		WithLevel(logging.LevelWarn).
		WithFormat(logging.FormatText).
		WithOutput(os.Stderr)
	if err := logging.InitializeGlobalLoggers(logConfig); err != nil {
		return nil, nil, err
	}

	store, err := cache.NewFactory().CreateStore(cache.ConfigFromSettings(cfg.Cache))
	if err != nil {
		return nil, nil, err
	}

	var cacheService *services.CacheService
	if store != nil {
		cacheService = services.NewCacheService(store, services.WithCurrentTTL(cfg.Cache.CurrentTTL))
	}

	providers := marketdata.NewProviders(cfg.Sources, cfg.Development.MockMode)
	service := services.NewCachedPriceService(
		cacheService,
		marketdata.NewCurrentPriceService(providers...),
		marketdata.NewHistoricalPriceService(providers...),
		services.DefaultSupportedAssets(),
	)
	return service, store, nil
}

func (a *app) close() {
	if closer, ok := a.store.(io.Closer); ok {
		_ = closer.Close()
	}
}

// fromArgs recovers the app passed to Commander.Execute
func fromArgs(args []interface{}) (*app, interfaces.CachedPriceService, subcommands.ExitStatus) {
	if len(args) == 0 {
		fmt.Fprintln(os.Stderr, "internal error: missing application context")
		return nil, nil, subcommands.ExitFailure
	}
	a, ok := args[0].(*app)
	if !ok {
		fmt.Fprintln(os.Stderr, "internal error: unexpected application context")
		return nil, nil, subcommands.ExitFailure
	}

	service, err := a.priceService()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error initializing price service: %v\n", err)
		return nil, nil, subcommands.ExitFailure
	}
	return a, service, subcommands.ExitSuccess
}
