package handlers

import (
	"net/http"

	"price-cache-service/internal/application/dto"
	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/logging"
)

// CacheHandler exposes cache maintenance operations
type CacheHandler struct {
	priceService interfaces.CachedPriceService
	mapper       *dto.PriceMapper
}

// NewCacheHandler creates a new cache handler
func NewCacheHandler(priceService interfaces.CachedPriceService) *CacheHandler {
	return &CacheHandler{
		priceService: priceService,
		mapper:       dto.NewPriceMapper(),
	}
}

// Stats godoc
// @Summary Cache statistics
// @Description Counts current and historical entries. All counts are zero when running without a store.
// @Tags cache
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.CacheStatsResponse
// @Router /api/v1/cache/stats [get]
func (h *CacheHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	stats := h.priceService.GetCacheStats(ctx)
	writeJSONResponse(ctx, w, http.StatusOK, h.mapper.ToCacheStatsResponse(h.priceService.CacheEnabled(), stats))
}

// Cleanup godoc
// @Summary Remove expired current prices
// @Tags cache
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.CacheMutationResponse
// @Router /api/v1/cache/cleanup [post]
func (h *CacheHandler) Cleanup(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	removed := h.priceService.CleanupExpiredCache(ctx)

	logging.Info(ctx, "Cache cleanup requested", logging.Fields{"removed": removed})
	writeJSONResponse(ctx, w, http.StatusOK, dto.CacheMutationResponse{
		Message: "expired entries removed",
		Removed: removed,
	})
}

// ClearByTypes godoc
// @Summary Clear cached prices of some asset types
// @Description Removes current and historical entries of the given types
// @Tags cache
// @Produce json
// @Security ApiKeyAuth
// @Param types query string true "Comma separated asset types" example(crypto,stock)
// @Success 200 {object} dto.CacheMutationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Router /api/v1/cache [delete]
func (h *CacheHandler) ClearByTypes(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := dto.NewClearCacheRequest(r.URL.Query().Get("types"))
	if err != nil {
		writeErrorResponse(ctx, w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	}

	removed := h.priceService.ClearCacheByTypes(ctx, req.Types)
	writeJSONResponse(ctx, w, http.StatusOK, dto.CacheMutationResponse{
		Message: "cache cleared",
		Removed: removed,
		Types:   h.mapper.ToTypeNames(req.Types),
	})
}

// ClearAll godoc
// @Summary Clear every cached price
// @Tags cache
// @Produce json
// @Security ApiKeyAuth
// @Success 200 {object} dto.CacheMutationResponse
// @Router /api/v1/cache/all [delete]
func (h *CacheHandler) ClearAll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	removed := h.priceService.ClearAllCache(ctx)
	writeJSONResponse(ctx, w, http.StatusOK, dto.CacheMutationResponse{
		Message: "cache cleared",
		Removed: removed,
	})
}
