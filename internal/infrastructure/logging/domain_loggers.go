package logging

import (
	"context"
)

// BaseDomainLogger adds the domain field to every line
type BaseDomainLogger struct {
	Logger
	domain string
}

func (dl *BaseDomainLogger) Domain() string {
	return dl.domain
}

func (dl *BaseDomainLogger) tag(fields Fields) Fields {
	tagged := make(Fields, len(fields)+1)
	for k, v := range fields {
		tagged[k] = v
	}
	tagged[FieldDomain] = dl.domain
	return tagged
}

func (dl *BaseDomainLogger) logAt(ctx context.Context, level LogLevel, message string, fields Fields) {
	fields = dl.tag(fields)
	switch level {
	case LevelDebug:
		dl.Logger.Debug(ctx, message, fields)
	case LevelWarn:
		dl.Logger.Warn(ctx, message, fields)
	case LevelError:
		dl.Logger.Error(ctx, message, fields)
	default:
		dl.Logger.Info(ctx, message, fields)
	}
}

func (dl *BaseDomainLogger) Debug(ctx context.Context, message string, fields Fields) {
	dl.logAt(ctx, LevelDebug, message, fields)
}

func (dl *BaseDomainLogger) Info(ctx context.Context, message string, fields Fields) {
	dl.logAt(ctx, LevelInfo, message, fields)
}

func (dl *BaseDomainLogger) Warn(ctx context.Context, message string, fields Fields) {
	dl.logAt(ctx, LevelWarn, message, fields)
}

func (dl *BaseDomainLogger) Error(ctx context.Context, message string, fields Fields) {
	dl.logAt(ctx, LevelError, message, fields)
}

func (dl *BaseDomainLogger) WarnWithError(ctx context.Context, message string, err error, fields Fields) {
	dl.Logger.WarnWithError(ctx, message, err, dl.tag(fields))
}

func (dl *BaseDomainLogger) ErrorWithError(ctx context.Context, message string, err error, fields Fields) {
	dl.Logger.ErrorWithError(ctx, message, err, dl.tag(fields))
}

// levelForStatus picks a level from an HTTP status code
func levelForStatus(statusCode int) LogLevel {
	switch {
	case statusCode >= 500:
		return LevelError
	case statusCode >= 400:
		return LevelWarn
	default:
		return LevelInfo
	}
}

type HTTPDomainLogger struct {
	*BaseDomainLogger
}

func NewHTTPLogger(baseLogger Logger) HTTPLogger {
	return &HTTPDomainLogger{BaseDomainLogger: &BaseDomainLogger{Logger: baseLogger, domain: "http"}}
}

func (hl *HTTPDomainLogger) RequestReceived(ctx context.Context, method, path, userAgent, remoteIP string) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, 0).
		WithCustomField(FieldHTTPUserAgent, userAgent).
		WithCustomField(FieldHTTPRemoteIP, remoteIP).
		Build()

	hl.Debug(ctx, "HTTP request received", fields)
}

func (hl *HTTPDomainLogger) RequestCompleted(ctx context.Context, method, path string, statusCode int, duration float64) {
	fields := NewFieldBuilder().
		WithHTTPInfo(method, path, statusCode).
		WithCustomField(FieldDuration, duration).
		Build()

	hl.logAt(ctx, levelForStatus(statusCode), "HTTP request completed", fields)
}

type ExternalAPIDomainLogger struct {
	*BaseDomainLogger
}

func NewExternalAPILogger(baseLogger Logger) ExternalAPILogger {
	return &ExternalAPIDomainLogger{BaseDomainLogger: &BaseDomainLogger{Logger: baseLogger, domain: "external_api"}}
}

func (el *ExternalAPIDomainLogger) RequestStarted(ctx context.Context, service, endpoint, method string) {
	el.Debug(ctx, "External API request started", Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
		FieldExternalMethod:   method,
	})
}

func (el *ExternalAPIDomainLogger) RequestCompleted(ctx context.Context, service, endpoint string, statusCode int, duration float64) {
	el.logAt(ctx, levelForStatus(statusCode), "External API request completed", Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
		FieldExternalStatus:   statusCode,
		FieldExternalDuration: duration,
	})
}

func (el *ExternalAPIDomainLogger) RequestFailed(ctx context.Context, service, endpoint string, statusCode int, err error, duration float64) {
	el.WarnWithError(ctx, "External API request failed", err, Fields{
		FieldExternalService:  service,
		FieldExternalEndpoint: endpoint,
		FieldExternalStatus:   statusCode,
		FieldExternalDuration: duration,
	})
}

type CacheDomainLogger struct {
	*BaseDomainLogger
}

func NewCacheLogger(baseLogger Logger) CacheLogger {
	return &CacheDomainLogger{BaseDomainLogger: &BaseDomainLogger{Logger: baseLogger, domain: "cache"}}
}

func (cl *CacheDomainLogger) Hit(ctx context.Context, key string, operation string) {
	cl.Debug(ctx, "Cache hit", NewFieldBuilder().WithCache(operation, key, true).Build())
}

func (cl *CacheDomainLogger) Miss(ctx context.Context, key string, operation string) {
	cl.Debug(ctx, "Cache miss", NewFieldBuilder().WithCache(operation, key, false).Build())
}

func (cl *CacheDomainLogger) Set(ctx context.Context, key string, ttl float64) {
	cl.Debug(ctx, "Cache set", Fields{
		FieldCacheOperation: CacheOpSet,
		FieldCacheKey:       key,
		FieldCacheTTL:       ttl,
	})
}

func (cl *CacheDomainLogger) Delete(ctx context.Context, key string) {
	cl.Debug(ctx, "Cache delete", Fields{
		FieldCacheOperation: CacheOpDelete,
		FieldCacheKey:       key,
	})
}

// CacheError logs at WARN: storage failures are recovered locally
func (cl *CacheDomainLogger) CacheError(ctx context.Context, operation, key string, err error) {
	cl.WarnWithError(ctx, "Cache operation failed", err, Fields{
		FieldCacheOperation: operation,
		FieldCacheKey:       key,
	})
}

type BusinessDomainLogger struct {
	*BaseDomainLogger
}

func NewBusinessLogger(baseLogger Logger) BusinessLogger {
	return &BusinessDomainLogger{BaseDomainLogger: &BaseDomainLogger{Logger: baseLogger, domain: "business"}}
}

func (bl *BusinessDomainLogger) PriceRequested(ctx context.Context, assetType, symbol, kind string) {
	fields := NewFieldBuilder().
		WithAsset(assetType, symbol).
		WithCustomField("kind", kind).
		Build()

	bl.Debug(ctx, "Price requested", fields)
}

func (bl *BusinessDomainLogger) PriceServed(ctx context.Context, assetType, symbol string, price float64, source string, cached bool) {
	fields := NewFieldBuilder().
		WithAsset(assetType, symbol).
		WithPrice(price, source, cached).
		Build()

	bl.Info(ctx, "Price served", fields)
}

func (bl *BusinessDomainLogger) AdmissionRejected(ctx context.Context, assetType, symbol, reason string) {
	fields := NewFieldBuilder().
		WithAsset(assetType, symbol).
		WithCustomField(FieldReason, reason).
		Build()

	bl.Info(ctx, "Price result not admitted to cache", fields)
}

func (bl *BusinessDomainLogger) ValidationFailed(ctx context.Context, input string, reason string) {
	bl.Warn(ctx, "Input validation failed", Fields{
		"input":     input,
		FieldReason: reason,
	})
}

type SecurityDomainLogger struct {
	*BaseDomainLogger
}

func NewSecurityLogger(baseLogger Logger) SecurityLogger {
	return &SecurityDomainLogger{BaseDomainLogger: &BaseDomainLogger{Logger: baseLogger, domain: "security"}}
}

func (sl *SecurityDomainLogger) RateLimitExceeded(ctx context.Context, clientIP string, endpoint string) {
	sl.Warn(ctx, "Rate limit exceeded", Fields{
		FieldClientIP:  clientIP,
		"endpoint":     endpoint,
		FieldRateLimit: "exceeded",
	})
}

func (sl *SecurityDomainLogger) AuthenticationFailed(ctx context.Context, clientIP string, reason string) {
	sl.Warn(ctx, "API key authentication failed", Fields{
		FieldClientIP: clientIP,
		FieldReason:   reason,
	})
}
