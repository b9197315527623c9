package handlers

import (
	"context"
	"net/http"
	"time"

	"price-cache-service/internal/application/dto"
	"price-cache-service/internal/domain/interfaces"
)

const readinessTimeout = 2 * time.Second

// HealthHandler serves the health check endpoints
type HealthHandler struct {
	priceService interfaces.CachedPriceService
	pinger       interfaces.Pinger
}

// NewHealthHandler creates a new health handler. pinger may be nil when the
// store has no connection to check.
func NewHealthHandler(priceService interfaces.CachedPriceService, pinger interfaces.Pinger) *HealthHandler {
	return &HealthHandler{
		priceService: priceService,
		pinger:       pinger,
	}
}

// Health godoc
// @Summary Basic health check
// @Description Verifies that the service is running. Responds without checking external dependencies.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is running correctly"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	writeJSONResponse(r.Context(), w, http.StatusOK, dto.NewHealthResponse("healthy", map[string]string{
		"service": "running",
	}))
}

// Ready godoc
// @Summary Readiness check
// @Description Verifies the cache store is reachable. Running without a store is reported as degraded but ready.
// @Tags health
// @Produce json
// @Success 200 {object} dto.HealthResponse "Service is ready to receive traffic"
// @Failure 503 {object} dto.HealthResponse "Cache store is unreachable"
// @Router /ready [get]
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	services := map[string]string{"service": "ready"}

	if !h.priceService.CacheEnabled() {
		services["cache"] = "disabled"
		writeJSONResponse(ctx, w, http.StatusOK, dto.NewHealthResponse("degraded", services))
		return
	}

	if h.pinger != nil {
		pingCtx, cancel := context.WithTimeout(ctx, readinessTimeout)
		defer cancel()

		if err := h.pinger.Ping(pingCtx); err != nil {
			services["cache"] = "error: " + err.Error()
			writeJSONResponse(ctx, w, http.StatusServiceUnavailable, dto.NewHealthResponse("unhealthy", services))
			return
		}
	}

	services["cache"] = "ready"
	writeJSONResponse(ctx, w, http.StatusOK, dto.NewHealthResponse("ready", services))
}
