package logging

import (
	"context"
	"fmt"
	"time"
)

// Fields carries structured key/value pairs for a log line
type Fields map[string]interface{}

// LogLevel is the severity of a log line
type LogLevel string

const (
	LevelDebug LogLevel = "DEBUG"
	LevelInfo  LogLevel = "INFO"
	LevelWarn  LogLevel = "WARN"
	LevelError LogLevel = "ERROR"
)

// Standard field names
const (
	FieldRequestID = "request_id"
	FieldService   = "service"
	FieldVersion   = "version"
	FieldEnv       = "environment"
	FieldDomain    = "domain"
	FieldSource    = "source"
	FieldError     = "error"
	FieldErrorType = "error_type"
	FieldDuration  = "duration_ms"
)

// HTTP fields
const (
	FieldHTTPMethod     = "http_method"
	FieldHTTPPath       = "http_path"
	FieldHTTPStatusCode = "http_status_code"
	FieldHTTPUserAgent  = "http_user_agent"
	FieldHTTPRemoteIP   = "http_remote_ip"
)

// Upstream provider fields
const (
	FieldExternalService  = "external_service"
	FieldExternalEndpoint = "external_endpoint"
	FieldExternalMethod   = "external_method"
	FieldExternalStatus   = "external_status_code"
	FieldExternalDuration = "external_duration_ms"
)

// Cache fields
const (
	FieldCacheOperation = "cache_operation"
	FieldCacheKey       = "cache_key"
	FieldCacheHit       = "cache_hit"
	FieldCacheTTL       = "cache_ttl_seconds"
)

// Price fields
const (
	FieldAssetType = "asset_type"
	FieldSymbol    = "symbol"
	FieldDate      = "date"
	FieldPrice     = "price"
	FieldCached    = "cached"
	FieldReason    = "reason"
)

// Security fields
const (
	FieldClientIP  = "client_ip"
	FieldRateLimit = "rate_limit"
)

// Cache operations
const (
	CacheOpGet    = "GET"
	CacheOpSet    = "SET"
	CacheOpDelete = "DELETE"
	CacheOpScan   = "SCAN"
)

// FieldBuilder assembles Fields fluently
type FieldBuilder struct {
	fields Fields
}

func NewFieldBuilder() *FieldBuilder {
	return &FieldBuilder{fields: make(Fields)}
}

func (fb *FieldBuilder) WithError(err error) *FieldBuilder {
	if err != nil {
		fb.fields[FieldError] = err.Error()
		fb.fields[FieldErrorType] = errorType(err)
	}
	return fb
}

func (fb *FieldBuilder) WithDuration(d time.Duration) *FieldBuilder {
	fb.fields[FieldDuration] = float64(d.Nanoseconds()) / 1e6
	return fb
}

func (fb *FieldBuilder) WithHTTPInfo(method, path string, statusCode int) *FieldBuilder {
	fb.fields[FieldHTTPMethod] = method
	fb.fields[FieldHTTPPath] = path
	if statusCode > 0 {
		fb.fields[FieldHTTPStatusCode] = statusCode
	}
	return fb
}

func (fb *FieldBuilder) WithCache(operation, key string, hit bool) *FieldBuilder {
	fb.fields[FieldCacheOperation] = operation
	fb.fields[FieldCacheKey] = key
	fb.fields[FieldCacheHit] = hit
	return fb
}

func (fb *FieldBuilder) WithAsset(assetType, symbol string) *FieldBuilder {
	fb.fields[FieldAssetType] = assetType
	fb.fields[FieldSymbol] = symbol
	return fb
}

func (fb *FieldBuilder) WithPrice(price float64, source string, cached bool) *FieldBuilder {
	fb.fields[FieldPrice] = price
	fb.fields[FieldSource] = source
	fb.fields[FieldCached] = cached
	return fb
}

// WithCustomField adds key unless it is empty or value is nil
func (fb *FieldBuilder) WithCustomField(key string, value interface{}) *FieldBuilder {
	if key != "" && value != nil {
		fb.fields[key] = value
	}
	return fb
}

func (fb *FieldBuilder) Build() Fields {
	if len(fb.fields) == 0 {
		return nil
	}
	return fb.fields
}

type contextKey string

const (
	RequestIDKey contextKey = "request_id"
	StartTimeKey contextKey = "start_time"
)

func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, RequestIDKey, requestID)
}

func WithStartTime(ctx context.Context, startTime time.Time) context.Context {
	return context.WithValue(ctx, StartTimeKey, startTime)
}

func GetRequestID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if requestID, ok := ctx.Value(RequestIDKey).(string); ok {
		return requestID
	}
	return ""
}

func GetStartTime(ctx context.Context) time.Time {
	if ctx == nil {
		return time.Time{}
	}
	if startTime, ok := ctx.Value(StartTimeKey).(time.Time); ok {
		return startTime
	}
	return time.Time{}
}

func errorType(err error) string {
	return fmt.Sprintf("%T", err)
}
