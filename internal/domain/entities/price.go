package entities

import (
	"fmt"
	"math"
	"strings"
	"time"
)

// DateLayout is the ISO calendar date format used in keys and requests
const DateLayout = "2006-01-02"

// FallbackSource marks a result produced after every upstream provider failed
const FallbackSource = "Fallback"

// CurrentPriceResult is the answer for a "price now" lookup.
// Timestamp is epoch milliseconds.
type CurrentPriceResult struct {
	Price            float64  `json:"price"`
	Source           string   `json:"source"`
	Timestamp        int64    `json:"timestamp"`
	Change24h        *float64 `json:"change24h,omitempty"`
	Change24hPercent *float64 `json:"change24hPercent,omitempty"`
}

// HistoricalPriceResult is the answer for a "price as of date" lookup
type HistoricalPriceResult struct {
	Exists bool    `json:"exists"`
	Price  float64 `json:"price"`
	Date   string  `json:"date"`
	Source string  `json:"source"`
	Error  string  `json:"error,omitempty"`
}

// NewFallbackCurrentPrice builds the degraded result returned when no provider answered
func NewFallbackCurrentPrice(now time.Time) CurrentPriceResult {
	return CurrentPriceResult{
		Price:     0,
		Source:    FallbackSource,
		Timestamp: now.UnixMilli(),
	}
}

// NewMissingHistoricalPrice builds a result for a date with no data
func NewMissingHistoricalPrice(date time.Time, source, reason string) HistoricalPriceResult {
	return HistoricalPriceResult{
		Exists: false,
		Date:   FormatDate(date),
		Source: source,
		Error:  reason,
	}
}

// IsDegradedSource reports whether a source label marks a fallback or degraded provider
func IsDegradedSource(source string) bool {
	s := strings.ToLower(source)
	return strings.Contains(s, "fallback") || strings.Contains(s, "degraded")
}

// IsUsablePrice reports whether p is a positive finite number
func IsUsablePrice(p float64) bool {
	return p > 0 && !math.IsInf(p, 0) && !math.IsNaN(p)
}

// FormatDate renders the UTC calendar day of t
func FormatDate(t time.Time) string {
	return t.UTC().Format(DateLayout)
}

// ParseDate parses a YYYY-MM-DD string as a UTC calendar day
func ParseDate(raw string) (time.Time, error) {
	t, err := time.Parse(DateLayout, strings.TrimSpace(raw))
	if err != nil {
		return time.Time{}, fmt.Errorf("%w: %q, expected YYYY-MM-DD", ErrInvalidDate, raw)
	}
	return t, nil
}

// StartOfDay truncates t to midnight UTC
func StartOfDay(t time.Time) time.Time {
	u := t.UTC()
	return time.Date(u.Year(), u.Month(), u.Day(), 0, 0, 0, 0, time.UTC)
}
