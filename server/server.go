// Package server wires the relay together: router, middleware stack, the
// Gemini provider, and the HTTP server lifecycle.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"tutorgate/config"
	"tutorgate/errors"
	"tutorgate/server/handlers"
	"tutorgate/server/metrics"
	"tutorgate/server/middleware"
	"tutorgate/server/processing"
	"tutorgate/server/provider"
)

// NewRouter builds the relay's router with the full middleware stack.
// The generator is injected so tests can run the whole HTTP surface
// against a mock.
func NewRouter(generator provider.Generator, m *metrics.Metrics, cfg *config.Config, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RequestTimer)
	r.Use(middleware.PanicRecovery)
	r.Use(middleware.Logging(logger))
	r.Use(middleware.PrometheusMetrics(m))
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))

	processor := processing.NewProcessor(generator, m, logger)
	chat := handlers.NewChatHandler(processor, logger)

	r.Post("/api/chat", chat.ServeHTTP)
	r.Get("/health", handlers.Health)
	r.Get("/metrics", m.Handler().ServeHTTP)

	return r
}

// Server represents the HTTP server
type Server struct {
	httpServer      *http.Server
	shutdownTimeout time.Duration
	publicBaseURL   string
	logger          *zap.Logger
}

// NewServer creates a server backed by the real Gemini provider.
func NewServer(ctx context.Context, cfg *config.Config, logger *zap.Logger) (*Server, error) {
	gemini, err := provider.NewGemini(ctx, cfg.Gemini, logger)
	if err != nil {
		return nil, fmt.Errorf("initialize provider: %w", err)
	}
	return NewServerWithGenerator(cfg, gemini, logger), nil
}

// NewServerWithGenerator creates a server around an arbitrary generator.
func NewServerWithGenerator(cfg *config.Config, generator provider.Generator, logger *zap.Logger) *Server {
	handler := NewRouter(generator, metrics.NewMetrics(), cfg, logger)

	return &Server{
		httpServer: &http.Server{
			Addr:           fmt.Sprintf(":%d", cfg.Server.Port),
			Handler:        handler,
			ReadTimeout:    cfg.Server.ReadTimeout,
			WriteTimeout:   cfg.Server.WriteTimeout,
			MaxHeaderBytes: cfg.Server.MaxHeaderBytes,
		},
		shutdownTimeout: cfg.Server.ShutdownTimeout,
		publicBaseURL:   cfg.PublicBaseURL,
		logger:          logger,
	}
}

// Start starts the server and blocks until ctx is cancelled or the server
// fails, then drains in-flight requests within the shutdown timeout.
func (s *Server) Start(ctx context.Context) error {
	errChan := make(chan error, 1)

	go func() {
		s.logger.Info("Server started",
			zap.String("address", s.httpServer.Addr),
			zap.String("base_url", s.publicBaseURL),
		)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.shutdownTimeout)
		defer cancel()

		errors.DefaultLogger.Info("Shutting down server")
		if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("error during server shutdown: %w", err)
		}
		return nil

	case err := <-errChan:
		return err
	}
}
