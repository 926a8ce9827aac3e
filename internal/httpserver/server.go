package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/davidbz/glimpse/internal/config"
	"github.com/davidbz/glimpse/internal/httpserver/middleware"
	"github.com/davidbz/glimpse/internal/observability"
)

// Server represents the local HTTP bridge.
type Server struct {
	config      *config.ServerConfig
	handler     *Handler
	middlewares middleware.Middleware
	srv         *http.Server
}

// NewServer creates a new HTTP server (DI constructor).
func NewServer(
	cfg *config.ServerConfig,
	handler *Handler,
	middlewares middleware.Middleware,
) *Server {
	return &Server{
		config:      cfg,
		handler:     handler,
		middlewares: middlewares,
		srv:         nil,
	}
}

// NewMux registers the bridge routes.
func NewMux(handler *Handler) *http.ServeMux {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", handler.HandleHealth)
	mux.HandleFunc("GET /v1/vendors", handler.HandleVendors)
	mux.HandleFunc("GET /v1/vendors/{id}/model", handler.HandleCurrentModel)
	mux.HandleFunc("DELETE /v1/vendors/{id}/model", handler.HandleInvalidateModel)
	mux.HandleFunc("POST /v1/ask", handler.HandleAsk)
	mux.HandleFunc("POST /v1/summaries", handler.HandleSummary)
	mux.HandleFunc("POST /v1/questions", handler.HandleQuestions)
	mux.HandleFunc("GET /v1/sessions/{id}/history", handler.HandleHistory)
	mux.HandleFunc("DELETE /v1/sessions/{id}/history", handler.HandleClearHistory)

	return mux
}

// Addr is the listen address.
func (s *Server) Addr() string {
	return net.JoinHostPort(s.config.Host, strconv.Itoa(s.config.Port))
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	s.srv = &http.Server{
		Addr:              s.Addr(),
		Handler:           s.middlewares(NewMux(s.handler)),
		ReadTimeout:       time.Duration(s.config.ReadTimeout) * time.Second,
		ReadHeaderTimeout: time.Duration(s.config.ReadTimeout) * time.Second,
		WriteTimeout:      time.Duration(s.config.WriteTimeout) * time.Second,
	}

	ctx := context.Background()
	observability.FromContext(ctx).Info("starting HTTP server", observability.String("addr", s.Addr()))

	if err := s.srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	observability.FromContext(ctx).Info("shutting down HTTP server")

	if s.srv == nil {
		return nil
	}

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown server: %w", err)
	}

	return nil
}
