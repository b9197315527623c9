package server

import (
	"context"
	"fmt"
	"net/http"

	"price-cache-service/internal/infrastructure/config"
	"price-cache-service/internal/infrastructure/logging"
)

// Server encapsulates HTTP server configuration
type Server struct {
	httpServer *http.Server
	port       int
}

// NewServer creates a new server instance
func NewServer(handler http.Handler, cfg config.ServerConfig) *Server {
	return &Server{
		httpServer: &http.Server{
			Addr:         fmt.Sprintf(":%d", cfg.Port),
			Handler:      handler,
			ReadTimeout:  cfg.ReadTimeout,
			WriteTimeout: cfg.WriteTimeout,
			IdleTimeout:  idleTimeout,
		},
		port: cfg.Port,
	}
}

// Start starts the HTTP server. It blocks until the server stops and
// returns http.ErrServerClosed after a graceful Stop.
func (s *Server) Start() error {
	ctx := context.Background()

	logging.Info(ctx, "HTTP server starting", logging.Fields{
		"port": s.port,
	})

	logging.Info(ctx, "Available endpoints", logging.Fields{
		"endpoints": []string{
			fmt.Sprintf("GET    http://localhost:%d/health", s.port),
			fmt.Sprintf("GET    http://localhost:%d/ready", s.port),
			fmt.Sprintf("GET    http://localhost:%d/api/v1/prices/current/crypto/BTC", s.port),
			fmt.Sprintf("GET    http://localhost:%d/api/v1/prices/historical/stock/AAPL?date=2024-03-05", s.port),
			fmt.Sprintf("GET    http://localhost:%d/api/v1/assets", s.port),
			fmt.Sprintf("GET    http://localhost:%d/api/v1/cache/stats", s.port),
			fmt.Sprintf("POST   http://localhost:%d/api/v1/cache/cleanup", s.port),
			fmt.Sprintf("DELETE http://localhost:%d/api/v1/cache?types=crypto", s.port),
			fmt.Sprintf("DELETE http://localhost:%d/api/v1/cache/all", s.port),
			fmt.Sprintf("WS     ws://localhost:%d/ws/prices?assets=crypto:BTC", s.port),
			fmt.Sprintf("GET    http://localhost:%d/swagger/", s.port),
		},
	})

	return s.httpServer.ListenAndServe()
}

// Stop stops the HTTP server gracefully
func (s *Server) Stop(ctx context.Context) error {
	logging.Info(ctx, "Stopping HTTP server gracefully", logging.Fields{
		"port": s.port,
	})

	return s.httpServer.Shutdown(ctx)
}

// GetPort returns the configured port
func (s *Server) GetPort() int {
	return s.port
}
