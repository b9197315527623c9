package logging

import (
	"context"
)

// Package-level helpers that log through the global logger set.

func Debug(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Debug(ctx, message, fields)
}

func Info(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Info(ctx, message, fields)
}

func Warn(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Warn(ctx, message, fields)
}

func Error(ctx context.Context, message string, fields Fields) {
	GetGlobalLogger().Error(ctx, message, fields)
}

func WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	GetGlobalLogger().WarnWithError(ctx, message, err, fields)
}

func ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	GetGlobalLogger().ErrorWithError(ctx, message, err, fields)
}

// CacheOperation logs a cache lookup outcome through the cache logger
func CacheOperation(ctx context.Context, operation, key string, hit bool) {
	if hit {
		Cache().Hit(ctx, key, operation)
	} else {
		Cache().Miss(ctx, key, operation)
	}
}

// ExternalRequest logs a completed upstream call
func ExternalRequest(ctx context.Context, service, endpoint string, durationMs float64, statusCode int) {
	ExternalAPI().RequestCompleted(ctx, service, endpoint, statusCode, durationMs)
}

func HTTP() HTTPLogger {
	return GetGlobalLoggers().HTTP
}

func ExternalAPI() ExternalAPILogger {
	return GetGlobalLoggers().ExternalAPI
}

func Cache() CacheLogger {
	return GetGlobalLoggers().Cache
}

func Business() BusinessLogger {
	return GetGlobalLoggers().Business
}

func Security() SecurityLogger {
	return GetGlobalLoggers().Security
}
