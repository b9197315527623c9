package handlers

import (
	"net/http"

	"github.com/gorilla/mux"

	"price-cache-service/internal/application/dto"
	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/logging"
)

// PriceHandler serves current and historical price lookups
type PriceHandler struct {
	priceService interfaces.CachedPriceService
	mapper       *dto.PriceMapper
}

// NewPriceHandler creates a new price handler
func NewPriceHandler(priceService interfaces.CachedPriceService) *PriceHandler {
	return &PriceHandler{
		priceService: priceService,
		mapper:       dto.NewPriceMapper(),
	}
}

// GetCurrentPrice godoc
// @Summary Current price of an asset
// @Description Returns the cached price when fresh, otherwise fetches it from the providers. A zero price with source Fallback means every provider failed.
// @Tags prices
// @Produce json
// @Param type path string true "Asset type" Enums(crypto, stock, index, domestic)
// @Param symbol path string true "Ticker symbol" example(BTC)
// @Success 200 {object} dto.CurrentPriceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid asset type or symbol"
// @Router /api/v1/prices/current/{type}/{symbol} [get]
func (h *PriceHandler) GetCurrentPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	req, err := dto.NewCurrentPriceRequest(vars["type"], vars["symbol"])
	if err != nil {
		logging.Business().ValidationFailed(ctx, vars["type"]+"/"+vars["symbol"], err.Error())
		writeErrorResponse(ctx, w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	}

	result := h.priceService.GetCurrentPrice(ctx, req.Type, req.Symbol)
	writeJSONResponse(ctx, w, http.StatusOK, h.mapper.ToCurrentPriceResponse(req.AssetRef, result))
}

// GetHistoricalPrice godoc
// @Summary Price of an asset on a date
// @Description Returns the closing price for a calendar day. Dates within the last ten years are cached permanently once found.
// @Tags prices
// @Produce json
// @Param type path string true "Asset type" Enums(crypto, stock, index, domestic)
// @Param symbol path string true "Ticker symbol" example(AAPL)
// @Param date query string true "Calendar day (YYYY-MM-DD)" example(2024-03-05)
// @Success 200 {object} dto.HistoricalPriceResponse
// @Failure 400 {object} dto.ErrorResponse "Invalid asset type, symbol or date"
// @Router /api/v1/prices/historical/{type}/{symbol} [get]
func (h *PriceHandler) GetHistoricalPrice(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	vars := mux.Vars(r)

	req, err := dto.NewHistoricalPriceRequest(vars["type"], vars["symbol"], r.URL.Query().Get("date"))
	if err != nil {
		logging.Business().ValidationFailed(ctx, r.URL.RequestURI(), err.Error())
		writeErrorResponse(ctx, w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	}

	result := h.priceService.GetHistoricalPrice(ctx, req.Type, req.Symbol, req.Date)
	writeJSONResponse(ctx, w, http.StatusOK, h.mapper.ToHistoricalPriceResponse(req.AssetRef, result))
}

// GetSupportedAssets godoc
// @Summary Supported assets
// @Description Lists the symbols offered for each asset type
// @Tags prices
// @Produce json
// @Success 200 {object} dto.SupportedAssetsResponse
// @Router /api/v1/assets [get]
func (h *PriceHandler) GetSupportedAssets(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(r.Context(), w, http.StatusOK, dto.SupportedAssetsResponse{
		Assets: h.priceService.GetSupportedAssets(),
	})
}
