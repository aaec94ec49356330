// Package server provides the HTTP API for the spelling corrector.
package server

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hyperjump/corretor/internal/config"
	"github.com/hyperjump/corretor/internal/speller"
	"go.uber.org/zap"
)

// Server is the HTTP server for the corrector API.
type Server struct {
	speller *speller.Speller
	config  *config.ServerConfig
	source  string
	logger  *zap.Logger
	server  *http.Server
}

// NewServer creates a server with the given dependencies. source describes
// where the vocabulary came from and is reported by the status endpoint.
func NewServer(sp *speller.Speller, cfg *config.ServerConfig, source string, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		speller: sp,
		config:  cfg,
		source:  source,
		logger:  logger,
	}
}

// Handler returns the router with all routes and middleware mounted.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	if s.config.RequestTimeout > 0 {
		r.Use(middleware.Timeout(s.config.RequestTimeout))
	}
	r.Use(middleware.Compress(5))

	r.Post("/api/check", s.handleCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/check", s.handleCheck)
		r.Post("/correct", s.handleCorrect)
		r.Get("/status", s.handleStatus)
	})
	r.Get("/health", s.handleHealth)
	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Host, s.config.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Handler(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
