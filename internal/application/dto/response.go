package dto

import (
	"time"

	"price-cache-service/internal/domain/entities"
)

// CurrentPriceResponse represents a live price lookup
// @Description Current price of one asset
type CurrentPriceResponse struct {
	AssetType        string   `json:"assetType" example:"crypto"`
	Symbol           string   `json:"symbol" example:"BTC"`
	Price            float64  `json:"price" example:"97000"`
	Source           string   `json:"source" example:"Kraken"`
	Timestamp        int64    `json:"timestamp" example:"1718445600000"` // epoch milliseconds
	Change24h        *float64 `json:"change24h,omitempty" example:"1250.5"`
	Change24hPercent *float64 `json:"change24hPercent,omitempty" example:"1.31"`
	Degraded         bool     `json:"degraded" example:"false"` // true when the price came from a fallback
}

// HistoricalPriceResponse represents a price as of a calendar day
// @Description Closing price of one asset on a date
type HistoricalPriceResponse struct {
	AssetType string  `json:"assetType" example:"stock"`
	Symbol    string  `json:"symbol" example:"AAPL"`
	Exists    bool    `json:"exists" example:"true"`
	Price     float64 `json:"price" example:"170.12"`
	Date      string  `json:"date" example:"2024-03-05"`
	Source    string  `json:"source" example:"Yahoo Finance"`
	Error     string  `json:"error,omitempty" example:"no trading data for this date"`
}

// SupportedAssetsResponse lists the symbols offered per asset type
// @Description Supported symbols grouped by asset type
type SupportedAssetsResponse struct {
	Assets entities.SupportedAssets `json:"assets"`
}

// CacheStatsResponse reports how many entries each namespace holds
// @Description Cache entry counts
type CacheStatsResponse struct {
	Enabled    bool `json:"enabled" example:"true"`
	Current    int  `json:"current" example:"12"`
	Historical int  `json:"historical" example:"40"`
	Total      int  `json:"total" example:"52"`
}

// CacheMutationResponse reports the result of a cleanup or clear operation
// @Description Result of a cache maintenance operation
type CacheMutationResponse struct {
	Message string   `json:"message" example:"cache cleared"`
	Removed int      `json:"removed" example:"3"`
	Types   []string `json:"types,omitempty" example:"crypto"`
}

// StreamMessage is pushed over the price websocket
type StreamMessage struct {
	Type   string                 `json:"type"`
	Prices []CurrentPriceResponse `json:"prices,omitempty"`
	Error  string                 `json:"error,omitempty"`
	SentAt int64                  `json:"sentAt"`
}

// ErrorResponse represents a standard error response for endpoints
// @Description Standard error response for endpoints
type ErrorResponse struct {
	Error   string `json:"error" example:"INVALID_PARAMETER" validate:"required"`
	Message string `json:"message,omitempty" example:"unknown asset type: \"bond\""`
	Code    string `json:"code,omitempty" example:"400"`
}

// HealthResponse represents the health check response with service status
// @Description Health check response with service status
type HealthResponse struct {
	Status    string            `json:"status" example:"healthy" validate:"required" enums:"healthy,ready,degraded,unhealthy"`
	Timestamp time.Time         `json:"timestamp" example:"2025-06-15T10:30:00Z" validate:"required"`
	Services  map[string]string `json:"services,omitempty"`
}

// NewErrorResponseWithCode creates an error response with code
func NewErrorResponseWithCode(error string, message string, code string) *ErrorResponse {
	return &ErrorResponse{
		Error:   error,
		Message: message,
		Code:    code,
	}
}

// NewHealthResponse creates a health check response
func NewHealthResponse(status string, services map[string]string) *HealthResponse {
	return &HealthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Services:  services,
	}
}
