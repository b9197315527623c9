package config

import (
	"time"
)

// Config represents the complete application configuration
type Config struct {
	App         AppConfig         `yaml:"app" mapstructure:"app"`
	Server      ServerConfig      `yaml:"server" mapstructure:"server"`
	Cache       CacheConfig       `yaml:"cache" mapstructure:"cache"`
	Sources     SourcesConfig     `yaml:"sources" mapstructure:"sources"`
	RateLimit   RateLimitConfig   `yaml:"rate_limit" mapstructure:"rate_limit"`
	Auth        AuthConfig        `yaml:"auth" mapstructure:"auth"`
	Logging     LoggingConfig     `yaml:"logging" mapstructure:"logging"`
	Warmup      WarmupConfig      `yaml:"warmup" mapstructure:"warmup"`
	Tracing     TracingConfig     `yaml:"tracing" mapstructure:"tracing"`
	Stream      StreamConfig      `yaml:"stream" mapstructure:"stream"`
	Development DevelopmentConfig `yaml:"development" mapstructure:"development"`
}

// AppConfig identifies the running service
type AppConfig struct {
	Name        string `yaml:"name" mapstructure:"name"`
	Version     string `yaml:"version" mapstructure:"version"`
	Environment string `yaml:"environment" mapstructure:"environment"`
}

// ServerConfig contains HTTP server configuration
type ServerConfig struct {
	Port            int           `yaml:"port" mapstructure:"port"`
	ReadTimeout     time.Duration `yaml:"read_timeout" mapstructure:"read_timeout"`
	WriteTimeout    time.Duration `yaml:"write_timeout" mapstructure:"write_timeout"`
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// CacheConfig contains price cache configuration.
// Backend "none" runs without a persistent store.
type CacheConfig struct {
	Backend    string        `yaml:"backend" mapstructure:"backend"`
	CurrentTTL time.Duration `yaml:"current_ttl" mapstructure:"current_ttl"`
	Redis      RedisConfig   `yaml:"redis" mapstructure:"redis"`
	Memory     MemoryConfig  `yaml:"memory" mapstructure:"memory"`
	L1         L1Config      `yaml:"l1" mapstructure:"l1"`
}

// RedisConfig contains Redis-specific configuration
type RedisConfig struct {
	Addr     string `yaml:"addr" mapstructure:"addr"`
	Password string `yaml:"password" mapstructure:"password"`
	DB       int    `yaml:"db" mapstructure:"db"`
}

// MemoryConfig bounds the in-process store; zero means unbounded
type MemoryConfig struct {
	MaxEntries int `yaml:"max_entries" mapstructure:"max_entries"`
}

// L1Config sizes the in-process layer of the tiered backend
type L1Config struct {
	MaxCost int64         `yaml:"max_cost" mapstructure:"max_cost"`
	TTL     time.Duration `yaml:"ttl" mapstructure:"ttl"`
}

// SourcesConfig contains upstream price provider configuration
type SourcesConfig struct {
	Kraken ProviderConfig `yaml:"kraken" mapstructure:"kraken"`
	Yahoo  ProviderConfig `yaml:"yahoo" mapstructure:"yahoo"`
}

// ProviderConfig configures one upstream HTTP provider
type ProviderConfig struct {
	Enabled           bool          `yaml:"enabled" mapstructure:"enabled"`
	BaseURL           string        `yaml:"base_url" mapstructure:"base_url"`
	Timeout           time.Duration `yaml:"timeout" mapstructure:"timeout"`
	RequestTimeout    time.Duration `yaml:"request_timeout" mapstructure:"request_timeout"`
	MaxRetries        int           `yaml:"max_retries" mapstructure:"max_retries"`
	RequestsPerSecond float64       `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int           `yaml:"burst" mapstructure:"burst"`
}

// RateLimitConfig contains per-client HTTP rate limiting configuration
type RateLimitConfig struct {
	Enabled           bool    `yaml:"enabled" mapstructure:"enabled"`
	RequestsPerSecond float64 `yaml:"requests_per_second" mapstructure:"requests_per_second"`
	Burst             int     `yaml:"burst" mapstructure:"burst"`
}

// AuthConfig contains authentication configuration
type AuthConfig struct {
	Enabled     bool     `yaml:"enabled" mapstructure:"enabled"`
	APIKey      string   `yaml:"api_key" mapstructure:"api_key"`
	HeaderName  string   `yaml:"header_name" mapstructure:"header_name"`
	UnauthPaths []string `yaml:"unauth_paths" mapstructure:"unauth_paths"`
}

// LoggingConfig contains logging system configuration
type LoggingConfig struct {
	Level  string `yaml:"level" mapstructure:"level"`
	Format string `yaml:"format" mapstructure:"format"`
}

// WarmupConfig controls the background cache warmer
type WarmupConfig struct {
	Enabled      bool          `yaml:"enabled" mapstructure:"enabled"`
	Interval     time.Duration `yaml:"interval" mapstructure:"interval"`
	RequestDelay time.Duration `yaml:"request_delay" mapstructure:"request_delay"`
	Timeout      time.Duration `yaml:"timeout" mapstructure:"timeout"`
}

// TracingConfig controls OpenTelemetry export
type TracingConfig struct {
	Enabled     bool    `yaml:"enabled" mapstructure:"enabled"`
	SampleRatio float64 `yaml:"sample_ratio" mapstructure:"sample_ratio"`
}

// StreamConfig controls the websocket price stream
type StreamConfig struct {
	Interval  time.Duration `yaml:"interval" mapstructure:"interval"`
	MaxAssets int           `yaml:"max_assets" mapstructure:"max_assets"`
}

// DevelopmentConfig contains settings for development and testing
type DevelopmentConfig struct {
	MockMode bool `yaml:"mock_mode" mapstructure:"mock_mode"`
}

// GetDefaultConfig returns the default configuration
func GetDefaultConfig() *Config {
	return &Config{
		App: AppConfig{
			Name:        "price-cache-service",
			Version:     "1.0.0",
			Environment: "development",
		},
		Server: ServerConfig{
			Port:            8080,
			ReadTimeout:     15 * time.Second,
			WriteTimeout:    30 * time.Second,
			ShutdownTimeout: 30 * time.Second,
		},
		Cache: CacheConfig{
			Backend:    "memory",
			CurrentTTL: 12 * time.Hour,
			Redis: RedisConfig{
				Addr:     "localhost:6379",
				Password: "",
				DB:       0,
			},
			Memory: MemoryConfig{
				MaxEntries: 10000,
			},
			L1: L1Config{
				MaxCost: 16 << 20,
				TTL:     time.Minute,
			},
		},
		Sources: SourcesConfig{
			Kraken: ProviderConfig{
				Enabled:           true,
				BaseURL:           "https://api.kraken.com/0/public",
				Timeout:           10 * time.Second,
				RequestTimeout:    3 * time.Second,
				MaxRetries:        3,
				RequestsPerSecond: 1,
				Burst:             3,
			},
			Yahoo: ProviderConfig{
				Enabled:           true,
				BaseURL:           "https://query1.finance.yahoo.com",
				Timeout:           10 * time.Second,
				RequestTimeout:    5 * time.Second,
				MaxRetries:        3,
				RequestsPerSecond: 2,
				Burst:             4,
			},
		},
		RateLimit: RateLimitConfig{
			Enabled:           true,
			RequestsPerSecond: 10,
			Burst:             20,
		},
		Auth: AuthConfig{
			Enabled:     false,
			APIKey:      "",
			HeaderName:  "X-API-Key",
			UnauthPaths: []string{"/health", "/ready", "/metrics", "/swagger/", "/api/v1/prices/", "/api/v1/assets", "/ws/"},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "json",
		},
		Warmup: WarmupConfig{
			Enabled:      false,
			Interval:     15 * time.Minute,
			RequestDelay: 200 * time.Millisecond,
			Timeout:      2 * time.Minute,
		},
		Tracing: TracingConfig{
			Enabled:     false,
			SampleRatio: 1.0,
		},
		Stream: StreamConfig{
			Interval:  10 * time.Second,
			MaxAssets: 20,
		},
		Development: DevelopmentConfig{
			MockMode: false,
		},
	}
}
