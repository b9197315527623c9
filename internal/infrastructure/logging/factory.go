package logging

import (
	"fmt"
	"sync"
)

// LoggerFactory builds domain loggers that share one backend
type LoggerFactory struct {
	baseLogger Logger
}

func NewLoggerFactory(config *LoggerConfig) (*LoggerFactory, error) {
	baseLogger, err := NewStructuredLogger(config)
	if err != nil {
		return nil, fmt.Errorf("failed to create base logger: %w", err)
	}
	return &LoggerFactory{baseLogger: baseLogger}, nil
}

// LoggerSet groups the base logger with every domain logger
type LoggerSet struct {
	Base        Logger
	HTTP        HTTPLogger
	ExternalAPI ExternalAPILogger
	Cache       CacheLogger
	Business    BusinessLogger
	Security    SecurityLogger
}

func (f *LoggerFactory) GetLoggerSet() *LoggerSet {
	return &LoggerSet{
		Base:        f.baseLogger,
		HTTP:        NewHTTPLogger(f.baseLogger),
		ExternalAPI: NewExternalAPILogger(f.baseLogger),
		Cache:       NewCacheLogger(f.baseLogger),
		Business:    NewBusinessLogger(f.baseLogger),
		Security:    NewSecurityLogger(f.baseLogger),
	}
}

var (
	globalMu      sync.RWMutex
	globalLoggers *LoggerSet
)

// InitializeGlobalLoggers replaces the process-wide logger set
func InitializeGlobalLoggers(config *LoggerConfig) error {
	factory, err := NewLoggerFactory(config)
	if err != nil {
		return fmt.Errorf("failed to initialize global loggers: %w", err)
	}

	globalMu.Lock()
	globalLoggers = factory.GetLoggerSet()
	globalMu.Unlock()
	return nil
}

func InitializeGlobalLoggersWithDefaults(service, version, environment string, level LogLevel) error {
	return InitializeGlobalLoggers(NewConfig(service, version, environment).WithLevel(level))
}

// GetGlobalLoggers returns the logger set, creating a default one on first use
func GetGlobalLoggers() *LoggerSet {
	globalMu.RLock()
	set := globalLoggers
	globalMu.RUnlock()
	if set != nil {
		return set
	}

	globalMu.Lock()
	defer globalMu.Unlock()
	if globalLoggers == nil {
		factory, err := NewLoggerFactory(DefaultConfig())
		if err != nil {
			panic(err)
		}
		globalLoggers = factory.GetLoggerSet()
	}
	return globalLoggers
}

func GetGlobalLogger() Logger {
	return GetGlobalLoggers().Base
}

func SetGlobalLogLevel(level LogLevel) {
	GetGlobalLogger().SetLevel(level)
}
