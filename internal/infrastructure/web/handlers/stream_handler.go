package handlers

import (
	"context"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"price-cache-service/internal/application/dto"
	"price-cache-service/internal/domain/interfaces"
	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
	"price-cache-service/internal/infrastructure/metrics"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	maxMessageSize = 512
)

// StreamHandler pushes current prices over a websocket at a fixed interval
type StreamHandler struct {
	priceService interfaces.CachedPriceService
	mapper       *dto.PriceMapper
	upgrader     websocket.Upgrader
	interval     time.Duration
	maxAssets    int
}

// NewStreamHandler creates a websocket price stream handler
func NewStreamHandler(priceService interfaces.CachedPriceService, cfg config.StreamConfig) *StreamHandler {
	return &StreamHandler{
		priceService: priceService,
		mapper:       dto.NewPriceMapper(),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 4096,
			CheckOrigin:     func(r *http.Request) bool { return true },
		},
		interval:  cfg.Interval,
		maxAssets: cfg.MaxAssets,
	}
}

// Stream godoc
// @Summary Websocket price stream
// @Description Upgrades to a websocket and pushes a "prices" message for the requested assets on every interval. Prices are served through the cache.
// @Tags prices
// @Param assets query string false "Comma separated type:SYMBOL list, defaults to the supported assets" example(crypto:BTC,stock:AAPL)
// @Success 101 {object} dto.StreamMessage
// @Failure 400 {object} dto.ErrorResponse
// @Router /ws/prices [get]
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	req, err := dto.NewStreamRequest(r.URL.Query().Get("assets"), h.priceService.GetSupportedAssets(), h.maxAssets)
	if err != nil {
		writeErrorResponse(ctx, w, http.StatusBadRequest, "INVALID_PARAMETER", err.Error())
		return
	}

	conn, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.WarnWithError(ctx, "Websocket upgrade failed", err, nil)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	metrics.StreamClients.Inc()
	defer metrics.StreamClients.Dec()

	logging.Info(ctx, "Price stream client connected", logging.Fields{
		"assets_count": len(req.Assets),
		"interval":     h.interval.String(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()
	go h.readLoop(conn, cancel)

	ticker := time.NewTicker(h.interval)
	defer ticker.Stop()

	for {
		if err := h.push(ctx, conn, req.Assets); err != nil {
			logging.Debug(ctx, "Price stream write failed", logging.Fields{"error": err.Error()})
			return
		}

		select {
		case <-ctx.Done():
			_ = conn.WriteControl(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(writeWait))
			logging.Info(ctx, "Price stream client disconnected", nil)
			return
		case <-ticker.C:
		}
	}
}

func (h *StreamHandler) push(ctx context.Context, conn *websocket.Conn, assets []dto.AssetRef) error {
	prices := make([]dto.CurrentPriceResponse, 0, len(assets))
	for _, asset := range assets {
		if ctx.Err() != nil {
			return nil
		}
		result := h.priceService.GetCurrentPrice(ctx, asset.Type, asset.Symbol)
		prices = append(prices, h.mapper.ToCurrentPriceResponse(asset, result))
	}

	if err := conn.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeWait)); err != nil {
		return err
	}
	_ = conn.SetWriteDeadline(time.Now().Add(writeWait))
	return conn.WriteJSON(dto.StreamMessage{
		Type:   "prices",
		Prices: prices,
		SentAt: time.Now().UnixMilli(),
	})
}

// readLoop drains client frames so control messages are processed and a
// closed connection cancels the stream
func (h *StreamHandler) readLoop(conn *websocket.Conn, cancel context.CancelFunc) {
	defer cancel()

	conn.SetReadLimit(maxMessageSize)
	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			return
		}
		_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	}
}
