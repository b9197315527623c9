package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
)

// StoreType selects the Store implementation
type StoreType string

const (
	StoreTypeNone   StoreType = "none"
	StoreTypeMemory StoreType = "memory"
	StoreTypeRedis  StoreType = "redis"
	StoreTypeTiered StoreType = "tiered"
)

// Config holds store configuration options
type Config struct {
	Type       StoreType
	RedisURL   string
	RedisDB    int
	Password   string
	MaxEntries int
	L1MaxCost  int64
	L1TTL      time.Duration
}

// ConfigFromSettings maps the application cache settings onto a store config
func ConfigFromSettings(settings config.CacheConfig) Config {
	return Config{
		Type:       StoreType(settings.Backend),
		RedisURL:   settings.Redis.Addr,
		RedisDB:    settings.Redis.DB,
		Password:   settings.Redis.Password,
		MaxEntries: settings.Memory.MaxEntries,
		L1MaxCost:  settings.L1.MaxCost,
		L1TTL:      settings.L1.TTL,
	}
}

// Factory provides methods to create store instances
type Factory struct {
	pingTimeout time.Duration
}

// NewFactory creates a new store factory
func NewFactory() *Factory {
	return &Factory{pingTimeout: 5 * time.Second}
}

// CreateStore creates a store based on configuration. StoreTypeNone yields a
// nil store and no error.
func (f *Factory) CreateStore(config Config) (interfaces.Store, error) {
	ctx := context.Background()

	switch config.Type {
	case StoreTypeNone:
		logging.Info(ctx, "Persistent store disabled", logging.Fields{"type": "none"})
		return nil, nil

	case StoreTypeMemory:
		logging.Info(ctx, "Creating memory store", logging.Fields{
			"type":        "memory",
			"max_entries": config.MaxEntries,
		})
		return NewMemoryStore(WithMaxEntries(config.MaxEntries)), nil

	case StoreTypeRedis:
		logging.Info(ctx, "Creating Redis store", logging.Fields{
			"type":     "redis",
			"addr":     config.RedisURL,
			"database": config.RedisDB,
		})
		store, err := f.createRedisStore(config)
		if err != nil {
			return nil, err
		}
		return store, nil

	case StoreTypeTiered:
		logging.Info(ctx, "Creating tiered store", logging.Fields{
			"type":        "tiered",
			"addr":        config.RedisURL,
			"l1_max_cost": config.L1MaxCost,
		})
		l2, err := f.createRedisStore(config)
		if err != nil {
			return nil, err
		}
		tiered, err := NewTieredStore(l2, config.L1MaxCost, config.L1TTL)
		if err != nil {
			_ = l2.Close()
			return nil, fmt.Errorf("failed to create L1 cache: %w", err)
		}
		return tiered, nil

	default:
		return nil, fmt.Errorf("unsupported store type: %s", config.Type)
	}
}

// createRedisStore creates and tests the Redis connection
func (f *Factory) createRedisStore(config Config) (*RedisStore, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     config.RedisURL,
		Password: config.Password,
		DB:       config.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), f.pingTimeout)
	defer cancel()

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("failed to connect to Redis at %s: %w", config.RedisURL, err)
	}

	logging.Info(context.Background(), "Redis connection established successfully", logging.Fields{
		"addr":     config.RedisURL,
		"database": config.RedisDB,
	})
	return NewRedisStoreWithClient(rdb), nil
}
