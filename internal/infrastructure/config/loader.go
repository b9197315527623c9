package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix prefixes every environment override: PRICE_CACHE_SERVER_PORT
const EnvPrefix = "PRICE_CACHE"

// Loader handles configuration loading using Viper
type Loader struct {
	v *viper.Viper
}

// NewLoader creates a new configuration loader instance
func NewLoader() *Loader {
	return &Loader{
		v: viper.New(),
	}
}

// Load loads configuration from files and environment variables
func (l *Loader) Load() (*Config, error) {
	l.setupViper()

	if err := l.v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	l.overrideWithEnvVars(config)

	return config, nil
}

// LoadFile loads configuration from an explicit file path
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.setupViper()
	l.v.SetConfigFile(path)

	if err := l.v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}

	config := GetDefaultConfig()
	if err := l.v.Unmarshal(config); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	l.overrideWithEnvVars(config)

	return config, nil
}

// setupViper configures Viper to read files and env vars
func (l *Loader) setupViper() {
	l.v.SetConfigName("config")
	l.v.SetConfigType("yaml")

	l.v.AddConfigPath("./configs")
	l.v.AddConfigPath("../configs")
	l.v.AddConfigPath(".")
	l.v.AddConfigPath("/etc/price-cache")

	l.v.AutomaticEnv()
	l.v.SetEnvPrefix(EnvPrefix)
	l.v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	l.bindEnvVars()
}

// bindEnvVars maps short environment variable names to configuration keys
func (l *Loader) bindEnvVars() {
	envMappings := map[string]string{
		"server.port":                    "PORT",
		"cache.backend":                  "CACHE_BACKEND",
		"cache.current_ttl":              "CACHE_CURRENT_TTL",
		"cache.redis.addr":               "REDIS_ADDR",
		"cache.redis.password":           "REDIS_PASSWORD",
		"cache.redis.db":                 "REDIS_DB",
		"cache.memory.max_entries":       "CACHE_MAX_ENTRIES",
		"sources.kraken.base_url":        "KRAKEN_BASE_URL",
		"sources.kraken.timeout":         "KRAKEN_TIMEOUT",
		"sources.yahoo.base_url":         "YAHOO_BASE_URL",
		"sources.yahoo.timeout":          "YAHOO_TIMEOUT",
		"logging.level":                  "LOG_LEVEL",
		"logging.format":                 "LOG_FORMAT",
		"rate_limit.enabled":             "RATE_LIMIT_ENABLED",
		"rate_limit.requests_per_second": "RATE_LIMIT_RPS",
		"rate_limit.burst":               "RATE_LIMIT_BURST",
		"auth.enabled":                   "AUTH_ENABLED",
		"auth.api_key":                   "API_KEY",
		"warmup.enabled":                 "WARMUP_ENABLED",
		"warmup.interval":                "WARMUP_INTERVAL",
		"tracing.enabled":                "TRACING_ENABLED",
		"app.environment":                "ENVIRONMENT",
	}

	for configKey, envVar := range envMappings {
		_ = l.v.BindEnv(configKey, EnvPrefix+"_"+strings.ToUpper(strings.ReplaceAll(configKey, ".", "_")), envVar)
	}
}

// overrideWithEnvVars handles env vars that do not map onto a single key
func (l *Loader) overrideWithEnvVars(config *Config) {
	if mockMode := os.Getenv("MOCK_MODE"); mockMode == "true" || mockMode == "1" {
		config.Development.MockMode = true
	}

	if paths := os.Getenv("AUTH_UNAUTH_PATHS"); paths != "" {
		var clean []string
		for _, p := range strings.Split(paths, ",") {
			if p = strings.TrimSpace(p); p != "" {
				clean = append(clean, p)
			}
		}
		if len(clean) > 0 {
			config.Auth.UnauthPaths = clean
		}
	}
}

// LoadForEnvironment loads the base config and merges config.<environment>.yaml over it
func (l *Loader) LoadForEnvironment(environment string) (*Config, error) {
	config, err := l.Load()
	if err != nil {
		return nil, err
	}

	if environment != "" {
		l.v.SetConfigName(fmt.Sprintf("config.%s", environment))

		if err := l.v.MergeInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to merge environment config: %w", err)
			}
		}

		if err := l.v.Unmarshal(config); err != nil {
			return nil, fmt.Errorf("failed to unmarshal merged config: %w", err)
		}

		l.overrideWithEnvVars(config)
	}

	return config, nil
}

// GetEnvironment determines the current environment from ENV vars
func GetEnvironment() string {
	env := strings.ToLower(os.Getenv("ENV"))
	if env == "" {
		env = strings.ToLower(os.Getenv("ENVIRONMENT"))
	}
	if env == "" {
		env = "development"
	}
	return env
}
