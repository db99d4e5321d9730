// Package api serves a read-only HTTP view of catalogued VFB documents.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/ssargent/vfbkit/pkg/logging"
)

const shutdownTimeout = 10 * time.Second

// Routes builds the router with all middleware and endpoints
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(logging.Middleware(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		ExposedHeaders:   []string{"X-VFB-Key", "X-VFB-Offset"},
		AllowCredentials: false,
		MaxAge:           300,
	}))

	// Unprotected for health checks and scraping
	r.Get("/health", s.metrics.InstrumentHandler("GET", "/health", s.handleHealth))
	r.Handle("/metrics", s.metrics.Handler())

	r.Route("/api/v1", func(r chi.Router) {
		if s.config.APIKey != "" {
			r.Use(apiKeyMiddleware(s.config.APIKey, s.metrics))
		}

		r.Get("/documents", s.metrics.InstrumentHandler("GET", "/api/v1/documents", s.handleListDocuments))
		r.Post("/documents", s.metrics.InstrumentHandler("POST", "/api/v1/documents", s.handleAddDocument))
		r.Get("/documents/{id}", s.metrics.InstrumentHandler("GET", "/api/v1/documents/{id}", s.handleGetDocument))
		r.Delete("/documents/{id}", s.metrics.InstrumentHandler("DELETE", "/api/v1/documents/{id}", s.handleDeleteDocument))
		r.Get("/documents/{id}/fields", s.metrics.InstrumentHandler("GET", "/api/v1/documents/{id}/fields", s.handleListFields))
		r.Get("/documents/{id}/fields/{index}",
			s.metrics.InstrumentHandler("GET", "/api/v1/documents/{id}/fields/{index}", s.handleGetField))
	})

	return r
}

// Addr returns the listen address for the configuration
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Bind, strconv.Itoa(c.Port))
}

// StartServer serves the API until ctx is cancelled, then shuts down gracefully
func StartServer(ctx context.Context, cat CatalogStore, config ServerConfig, metrics *Metrics, logger *slog.Logger) error {
	server := NewServer(cat, config, metrics, logger)
	httpServer := &http.Server{
		Addr:              config.Addr(),
		Handler:           server.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	listener, err := net.Listen("tcp", httpServer.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", httpServer.Addr, err)
	}
	return server.serve(ctx, httpServer, listener)
}

func (s *Server) serve(ctx context.Context, httpServer *http.Server, listener net.Listener) error {
	s.logger.Info("starting vfb API server",
		"addr", listener.Addr().String(),
		"auth", s.config.APIKey != "")

	errCh := make(chan error, 1)
	go func() {
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down vfb API server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("failed to shut down: %w", err)
	}
	return nil
}
