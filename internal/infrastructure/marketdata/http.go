package marketdata

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/avast/retry-go/v4"
	"golang.org/x/time/rate"

	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
	"price-cache-service/internal/infrastructure/metrics"
)

const (
	BaseBackoff = 100 * time.Millisecond
	MaxBackoff  = 2 * time.Second
)

// httpFetcher performs rate limited GET requests with retry and decodes JSON bodies
type httpFetcher struct {
	service        string
	httpClient     *http.Client
	limiter        *rate.Limiter
	maxRetries     int
	requestTimeout time.Duration
}

func newHTTPFetcher(service string, cfg config.ProviderConfig) *httpFetcher {
	limiter := rate.NewLimiter(rate.Inf, 0)
	if cfg.RequestsPerSecond > 0 {
		burst := cfg.Burst
		if burst < 1 {
			burst = 1
		}
		limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}

	maxRetries := cfg.MaxRetries
	if maxRetries < 1 {
		maxRetries = 1
	}

	requestTimeout := cfg.RequestTimeout
	if requestTimeout <= 0 {
		requestTimeout = cfg.Timeout
	}

	return &httpFetcher{
		service:        service,
		httpClient:     &http.Client{Timeout: cfg.Timeout},
		limiter:        limiter,
		maxRetries:     maxRetries,
		requestTimeout: requestTimeout,
	}
}

// getJSON fetches url and decodes the body into out. endpoint labels metrics and logs.
func (f *httpFetcher) getJSON(ctx context.Context, endpoint, url string, out any) error {
	return retry.Do(
		func() error {
			reqCtx, cancel := context.WithTimeout(ctx, f.requestTimeout)
			defer cancel()

			return f.doRequest(reqCtx, endpoint, url, out)
		},
		retry.Attempts(uint(f.maxRetries)),
		retry.Delay(BaseBackoff),
		retry.MaxDelay(MaxBackoff),
		retry.DelayType(retry.BackOffDelay),
		retry.RetryIf(isRetryableError),
		retry.LastErrorOnly(true),
		retry.Context(ctx),
		retry.OnRetry(func(n uint, err error) {
			metrics.RecordExternalAPIRetry(f.service, endpoint, int(n+1))

			logging.Warn(ctx, "Provider API retry attempt", logging.Fields{
				"service":      f.service,
				"endpoint":     endpoint,
				"attempt":      n + 1,
				"max_attempts": f.maxRetries,
				"error":        err.Error(),
			})
		}),
	)
}

func (f *httpFetcher) doRequest(ctx context.Context, endpoint, url string, out any) error {
	if err := f.limiter.Wait(ctx); err != nil {
		return fmt.Errorf("%w: rate limiter: %v", ErrNonRetryable, err)
	}

	logging.ExternalAPI().RequestStarted(ctx, f.service, endpoint, http.MethodGet)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("%w: failed to create request: %v", ErrNonRetryable, err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", "price-cache-service/1.0")

	requestStart := time.Now()
	resp, err := f.httpClient.Do(req)
	durationMs := float64(time.Since(requestStart).Nanoseconds()) / 1e6

	if err != nil {
		logging.ExternalAPI().RequestFailed(ctx, f.service, endpoint, 0, err, durationMs)

		if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
			return fmt.Errorf("%w: context timeout/canceled", ErrRetryableRequest)
		}
		return fmt.Errorf("%w: %v", ErrRetryableRequest, err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	metrics.RecordExternalAPICall(f.service, endpoint, resp.StatusCode, durationMs)

	switch {
	case resp.StatusCode >= 500 && resp.StatusCode < 600:
		return fmt.Errorf("%w: HTTP %d (server error)", ErrRetryableRequest, resp.StatusCode)
	case resp.StatusCode == http.StatusTooManyRequests:
		return fmt.Errorf("%w: HTTP %d (rate limited by %s)", ErrRetryableRequest, resp.StatusCode, f.service)
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("%w: HTTP %d (client error)", ErrNonRetryable, resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("%w: failed to decode response: %w", ErrRetryableRequest, err)
	}

	logging.ExternalRequest(ctx, f.service, endpoint, durationMs, resp.StatusCode)
	return nil
}

// isRetryableError determines if an error should trigger a retry
func isRetryableError(err error) bool {
	return errors.Is(err, ErrRetryableRequest) ||
		errors.Is(err, context.DeadlineExceeded)
}
