// Copyright 2025 Sander Nunes
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package server exposes the engine over HTTP: a question endpoint, a
// reindex trigger, feedback submission, health and Prometheus metrics.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/SanderNunes/cellito-engine/pkg/config"
	"github.com/SanderNunes/cellito-engine/pkg/engine"
	"github.com/SanderNunes/cellito-engine/pkg/ratelimit"
)

const shutdownTimeout = 5 * time.Second

// HTTPServer serves the Cellito HTTP API.
type HTTPServer struct {
	cfg      *config.Config
	engine   *engine.Engine
	registry *prometheus.Registry
	server   *http.Server
	logger   *slog.Logger
}

// HTTPServerOption configures the HTTP server.
type HTTPServerOption func(*HTTPServer)

// WithRegistry sets the Prometheus registry backing /metrics.
// When unset, /metrics serves the default registry.
func WithRegistry(reg *prometheus.Registry) HTTPServerOption {
	return func(s *HTTPServer) {
		s.registry = reg
	}
}

// WithLogger sets the request logger.
func WithLogger(logger *slog.Logger) HTTPServerOption {
	return func(s *HTTPServer) {
		s.logger = logger
	}
}

// NewHTTPServer creates an HTTP server over the given engine.
func NewHTTPServer(cfg *config.Config, eng *engine.Engine, opts ...HTTPServerOption) *HTTPServer {
	if cfg.Server.Host == "" || cfg.Server.Port == 0 {
		cfg.Server.SetDefaults()
	}

	s := &HTTPServer{
		cfg:    cfg,
		engine: eng,
		logger: slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Handler builds the routed handler. Exposed so tests can drive the
// router without a listener.
func (s *HTTPServer) Handler() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Use(ratelimit.Middleware(ratelimit.NewLimiter(s.cfg.Server.RateLimit)))
		r.Post("/ask", s.handleAsk)
		r.Post("/reindex", s.handleReindex)
		r.Post("/feedback", s.handleFeedback)
	})

	return r
}

// Start runs the server until ctx is cancelled or the listener fails.
func (s *HTTPServer) Start(ctx context.Context) error {
	s.server = &http.Server{
		Addr:              s.cfg.Server.Address(),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("HTTP server listening", "address", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("HTTP server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
		return s.Shutdown(context.Background())
	}
}

// Shutdown stops the server, waiting for in-flight requests.
func (s *HTTPServer) Shutdown(ctx context.Context) error {
	if s.server == nil {
		return nil
	}
	shutdownCtx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	s.logger.Info("HTTP server shutting down")
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP shutdown error: %w", err)
	}
	return nil
}

func (s *HTTPServer) metricsHandler() http.Handler {
	if s.registry != nil {
		return promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{})
	}
	return promhttp.Handler()
}

func (s *HTTPServer) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		started := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)
		s.logger.Info("Request handled",
			"method", r.Method,
			"path", r.URL.Path,
			"status", ww.Status(),
			"duration", time.Since(started),
			"request_id", middleware.GetReqID(r.Context()))
	})
}
