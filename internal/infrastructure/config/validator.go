package config

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

// Validator checks a loaded configuration
type Validator struct{}

// NewValidator creates a new validator
func NewValidator() *Validator {
	return &Validator{}
}

// Validate checks every configuration section
func (v *Validator) Validate(config *Config) error {
	if err := v.validateServer(config.Server); err != nil {
		return fmt.Errorf("server config validation failed: %w", err)
	}

	if err := v.validateCache(config.Cache); err != nil {
		return fmt.Errorf("cache config validation failed: %w", err)
	}

	if err := v.validateSources(config.Sources, config.Development.MockMode); err != nil {
		return fmt.Errorf("sources config validation failed: %w", err)
	}

	if err := v.validateRateLimit(config.RateLimit); err != nil {
		return fmt.Errorf("rate limit config validation failed: %w", err)
	}

	if err := v.validateAuth(config.Auth); err != nil {
		return fmt.Errorf("auth config validation failed: %w", err)
	}

	if err := v.validateLogging(config.Logging); err != nil {
		return fmt.Errorf("logging config validation failed: %w", err)
	}

	if err := v.validateWarmup(config.Warmup); err != nil {
		return fmt.Errorf("warmup config validation failed: %w", err)
	}

	if err := v.validateTracing(config.Tracing); err != nil {
		return fmt.Errorf("tracing config validation failed: %w", err)
	}

	if err := v.validateStream(config.Stream); err != nil {
		return fmt.Errorf("stream config validation failed: %w", err)
	}

	return nil
}

func (v *Validator) validateServer(config ServerConfig) error {
	if config.Port <= 0 || config.Port > 65535 {
		return fmt.Errorf("invalid port: %d, must be between 1-65535", config.Port)
	}

	if config.ShutdownTimeout <= 0 {
		return fmt.Errorf("shutdown_timeout must be positive, got: %v", config.ShutdownTimeout)
	}

	if config.ShutdownTimeout > 5*time.Minute {
		return fmt.Errorf("shutdown_timeout too long: %v, max 5 minutes", config.ShutdownTimeout)
	}

	if config.ReadTimeout < 0 || config.WriteTimeout < 0 {
		return fmt.Errorf("read_timeout and write_timeout cannot be negative")
	}

	return nil
}

func (v *Validator) validateCache(config CacheConfig) error {
	validBackends := []string{"none", "memory", "redis", "tiered"}
	if !contains(validBackends, config.Backend) {
		return fmt.Errorf("invalid cache backend: %s, must be one of: %v", config.Backend, validBackends)
	}

	if err := v.validateTTL(config.CurrentTTL); err != nil {
		return err
	}

	if config.Memory.MaxEntries < 0 {
		return fmt.Errorf("memory max_entries cannot be negative, got: %d", config.Memory.MaxEntries)
	}

	switch strings.ToLower(config.Backend) {
	case "redis":
		return v.validateRedis(config.Redis)
	case "tiered":
		if err := v.validateRedis(config.Redis); err != nil {
			return err
		}
		if config.L1.MaxCost < 1024 {
			return fmt.Errorf("l1 max_cost too small: %d, min 1024 bytes", config.L1.MaxCost)
		}
		if config.L1.TTL <= 0 {
			return fmt.Errorf("l1 ttl must be positive, got: %v", config.L1.TTL)
		}
	}

	return nil
}

// validateTTL bounds the current-price TTL
func (v *Validator) validateTTL(ttl time.Duration) error {
	if ttl <= 0 {
		return fmt.Errorf("current_ttl must be positive, got: %v", ttl)
	}

	if ttl < time.Second {
		return fmt.Errorf("current_ttl too short: %v, min 1 second", ttl)
	}

	if ttl > 7*24*time.Hour {
		return fmt.Errorf("current_ttl too long: %v, max 7 days", ttl)
	}

	return nil
}

func (v *Validator) validateRedis(config RedisConfig) error {
	if config.Addr == "" {
		return fmt.Errorf("redis addr cannot be empty")
	}

	if !strings.Contains(config.Addr, ":") {
		return fmt.Errorf("invalid redis addr format: %s, expected host:port", config.Addr)
	}

	if config.DB < 0 || config.DB > 15 {
		return fmt.Errorf("invalid redis DB: %d, must be between 0-15", config.DB)
	}

	return nil
}

func (v *Validator) validateSources(config SourcesConfig, mockMode bool) error {
	if mockMode {
		return nil
	}

	if !config.Kraken.Enabled && !config.Yahoo.Enabled {
		return fmt.Errorf("at least one price source must be enabled when mock_mode is off")
	}

	if config.Kraken.Enabled {
		if err := v.validateProvider(config.Kraken, "kraken"); err != nil {
			return err
		}
	}

	if config.Yahoo.Enabled {
		if err := v.validateProvider(config.Yahoo, "yahoo"); err != nil {
			return err
		}
	}

	return nil
}

func (v *Validator) validateProvider(config ProviderConfig, name string) error {
	if err := v.validateURL(config.BaseURL, name+" base_url"); err != nil {
		return err
	}

	if config.Timeout <= 0 {
		return fmt.Errorf("%s timeout must be positive, got: %v", name, config.Timeout)
	}

	if config.RequestTimeout <= 0 {
		return fmt.Errorf("%s request_timeout must be positive, got: %v", name, config.RequestTimeout)
	}

	if config.RequestTimeout > config.Timeout {
		return fmt.Errorf("%s request_timeout (%v) should not exceed timeout (%v)", name, config.RequestTimeout, config.Timeout)
	}

	if config.MaxRetries < 1 || config.MaxRetries > 10 {
		return fmt.Errorf("%s max_retries must be between 1-10, got: %d", name, config.MaxRetries)
	}

	if config.RequestsPerSecond <= 0 {
		return fmt.Errorf("%s requests_per_second must be positive, got: %v", name, config.RequestsPerSecond)
	}

	if config.Burst < 1 {
		return fmt.Errorf("%s burst must be at least 1, got: %d", name, config.Burst)
	}

	return nil
}

func (v *Validator) validateRateLimit(config RateLimitConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.RequestsPerSecond <= 0 {
		return fmt.Errorf("rate_limit requests_per_second must be positive when enabled, got: %v", config.RequestsPerSecond)
	}

	if config.Burst <= 0 {
		return fmt.Errorf("rate_limit burst must be positive when enabled, got: %d", config.Burst)
	}

	if config.RequestsPerSecond > 1000 {
		return fmt.Errorf("rate_limit requests_per_second too high: %v, max 1000", config.RequestsPerSecond)
	}

	if config.Burst > 10000 {
		return fmt.Errorf("rate_limit burst too high: %d, max 10000", config.Burst)
	}

	return nil
}

func (v *Validator) validateAuth(config AuthConfig) error {
	if !config.Enabled {
		return nil
	}

	if len(config.APIKey) < 16 {
		return fmt.Errorf("api_key must be at least 16 characters when auth is enabled")
	}

	if config.HeaderName == "" {
		return fmt.Errorf("header_name cannot be empty when auth is enabled")
	}

	return nil
}

func (v *Validator) validateLogging(config LoggingConfig) error {
	validLevels := []string{"debug", "info", "warn", "error"}
	if !contains(validLevels, strings.ToLower(config.Level)) {
		return fmt.Errorf("invalid log level: %s, must be one of: %v", config.Level, validLevels)
	}

	validFormats := []string{"json", "text"}
	if !contains(validFormats, strings.ToLower(config.Format)) {
		return fmt.Errorf("invalid log format: %s, must be one of: %v", config.Format, validFormats)
	}

	return nil
}

func (v *Validator) validateWarmup(config WarmupConfig) error {
	if !config.Enabled {
		return nil
	}

	if config.Interval < time.Minute {
		return fmt.Errorf("warmup interval too short: %v, min 1 minute", config.Interval)
	}

	if config.RequestDelay < 0 {
		return fmt.Errorf("warmup request_delay cannot be negative, got: %v", config.RequestDelay)
	}

	if config.Timeout <= 0 || config.Timeout > config.Interval {
		return fmt.Errorf("warmup timeout must be positive and not exceed interval, got: %v", config.Timeout)
	}

	return nil
}

func (v *Validator) validateTracing(config TracingConfig) error {
	if config.SampleRatio < 0 || config.SampleRatio > 1 {
		return fmt.Errorf("tracing sample_ratio must be between 0 and 1, got: %v", config.SampleRatio)
	}
	return nil
}

func (v *Validator) validateStream(config StreamConfig) error {
	if config.Interval < time.Second {
		return fmt.Errorf("stream interval too short: %v, min 1 second", config.Interval)
	}

	if config.MaxAssets < 1 || config.MaxAssets > 100 {
		return fmt.Errorf("stream max_assets must be between 1-100, got: %d", config.MaxAssets)
	}

	return nil
}

// validateURL checks an HTTP/HTTPS URL
func (v *Validator) validateURL(rawURL, fieldName string) error {
	if rawURL == "" {
		return fmt.Errorf("%s cannot be empty", fieldName)
	}

	parsedURL, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid %s: %s, error: %v", fieldName, rawURL, err)
	}

	if parsedURL.Scheme != "http" && parsedURL.Scheme != "https" {
		return fmt.Errorf("invalid %s scheme: %s, must be http or https", fieldName, parsedURL.Scheme)
	}

	if parsedURL.Host == "" {
		return fmt.Errorf("%s must have a host", fieldName)
	}

	return nil
}

// contains reports whether slice holds item, ignoring case
func contains(slice []string, item string) bool {
	for _, s := range slice {
		if strings.EqualFold(s, item) {
			return true
		}
	}
	return false
}
