package marketdata

import "errors"

var (
	ErrRetryableRequest  = errors.New("retryable provider request failed")
	ErrNonRetryable      = errors.New("non-retryable provider error")
	ErrNoData            = errors.New("no price data for the requested day")
	ErrUnsupportedSymbol = errors.New("symbol not supported by provider")
	ErrInvalidResponse   = errors.New("invalid provider response")
)
