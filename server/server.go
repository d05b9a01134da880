// Package server exposes the return engine as a JSON HTTP API.
package server

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/etnz/returns"
	"github.com/etnz/returns/config"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server handles the API requests with a single Analyzer.
type Server struct {
	analyzer *returns.Analyzer
	logger   *slog.Logger
}

// New creates a Server.
func New(analyzer *returns.Analyzer, logger *slog.Logger) *Server {
	return &Server{analyzer: analyzer, logger: logger}
}

// Router creates and configures the HTTP router
func (s *Server) Router(allowedOrigins []string) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(Logger(s.logger))
	r.Use(middleware.Recoverer)
	r.Use(NewCORS(allowedOrigins).Handler)

	r.Route("/api", func(r chi.Router) {
		r.Get("/system/health", s.Health)
		r.Post("/analysis", s.Analysis)
		r.Post("/xirr", s.XIRR)
		r.Post("/mirr", s.MIRR)
	})
	return r
}

// ListenAndServe serves the API until ctx is done, then shuts down
// gracefully.
func ListenAndServe(ctx context.Context, cfg *config.Config, handler http.Handler, logger *slog.Logger) error {
	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      handler,
		ReadTimeout:  cfg.Server.ReadTimeout,
		WriteTimeout: cfg.Server.WriteTimeout,
		IdleTimeout:  60 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		logger.Info("starting server", "addr", cfg.Server.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errc; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
