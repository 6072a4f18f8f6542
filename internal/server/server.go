// Copyright (c) 2024-2025 Jesse Morgan / Morgan Forge
// SPDX-License-Identifier: AGPL-3.0-or-later

// Package server provides the greeting API that the bouncing box polls.
//
// Endpoints:
//   - GET /            - Welcome text
//   - GET /api/hello   - The greeting {message, timestamp}
//   - GET /api/health  - Health check {status, environment, timestamp}
//   - GET /metrics     - Prometheus metrics (when enabled)
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/mux"
	"github.com/sirupsen/logrus"

	"github.com/jeranaias/bouncer/internal/config"
	"github.com/jeranaias/bouncer/internal/logging"
)

// ============================================================================
// CONSTANTS
// ============================================================================

const (
	// DefaultAddr is the default listen address.
	DefaultAddr = ":5000"

	// DefaultEnvironment is reported by /api/health when none is configured.
	DefaultEnvironment = "Production"

	// WelcomeText is served at the root.
	WelcomeText = "Welcome to getService MVP!"

	// HealthyStatus is the status reported by /api/health.
	HealthyStatus = "Healthy"

	// ShutdownTimeout bounds graceful shutdown.
	ShutdownTimeout = 10 * time.Second

	// limiterIdle is how long an idle client keeps its token bucket.
	limiterIdle = 10 * time.Minute
)

// ============================================================================
// OPTIONS
// ============================================================================

// Options configures a Server.
type Options struct {
	Addr           string
	Environment    string
	Message        string
	MessageFile    string
	AllowedOrigins []string
	RateLimitRPS   float64
	RateLimitBurst int
	MetricsEnabled bool

	Logger logrus.FieldLogger
	// Now stamps responses. Defaults to time.Now.
	Now func() time.Time
}

// OptionsFromConfig maps the [server] config section onto Options.
func OptionsFromConfig(cfg config.ServerConfig, logger logrus.FieldLogger) Options {
	return Options{
		Addr:           cfg.Addr,
		Environment:    cfg.Environment,
		Message:        cfg.Message,
		MessageFile:    cfg.MessageFile,
		AllowedOrigins: append([]string(nil), cfg.AllowedOrigins...),
		RateLimitRPS:   cfg.RateLimitRPS,
		RateLimitBurst: cfg.RateLimitBurst,
		MetricsEnabled: cfg.MetricsEnabled,
		Logger:         logger,
	}
}

// ============================================================================
// SERVER
// ============================================================================

// Server is the greeting API.
type Server struct {
	opts    Options
	log     logrus.FieldLogger
	router  *mux.Router
	handler http.Handler
	limiter *RateLimiter
	metrics *Metrics
	message *MessageSource
	started time.Time

	mu       sync.Mutex
	server   *http.Server
	listener net.Listener
}

// New creates a Server. Routes and middleware are ready immediately; call
// Serve to listen.
func New(opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.Environment == "" {
		opts.Environment = DefaultEnvironment
	}
	if opts.Now == nil {
		opts.Now = time.Now
	}
	log := logging.Component(opts.Logger, "server")

	s := &Server{
		opts:    opts,
		log:     log,
		router:  mux.NewRouter(),
		limiter: NewRateLimiter(opts.RateLimitRPS, opts.RateLimitBurst),
		metrics: NewMetrics(),
		message: NewMessageSource(opts.Message, opts.MessageFile, log),
		started: opts.Now(),
	}
	s.message.onReload = s.metrics.messageReloaded

	s.setupRoutes()
	s.handler = Chain(
		RecoveryMiddleware(log),
		RequestIDMiddleware(),
		LoggingMiddleware(log),
		SecurityHeadersMiddleware(),
		CORSMiddleware(DefaultCORSConfig(opts.AllowedOrigins)),
		RateLimitMiddleware(s.limiter, log),
	)(s.router)
	return s
}

// Handler returns the full middleware-wrapped handler.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// Metrics returns the server's collectors.
func (s *Server) Metrics() *Metrics {
	return s.metrics
}

// Messages returns the greeting source.
func (s *Server) Messages() *MessageSource {
	return s.message
}

// Addr returns the bound address once listening, else the configured one.
func (s *Server) Addr() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.listener != nil {
		return s.listener.Addr().String()
	}
	return s.opts.Addr
}

// ============================================================================
// ROUTES
// ============================================================================

// setupRoutes configures all HTTP routes.
func (s *Server) setupRoutes() {
	s.router.Use(s.metrics.Middleware)

	s.router.HandleFunc("/", s.handleWelcome).Methods(http.MethodGet, http.MethodHead)

	api := s.router.PathPrefix("/api").Subrouter()
	api.HandleFunc("/hello", s.handleHello).Methods(http.MethodGet)
	api.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	if s.opts.MetricsEnabled {
		s.router.Handle("/metrics", s.metrics.Handler()).Methods(http.MethodGet)
	}

	s.router.NotFoundHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, "not found")
	})
	s.router.MethodNotAllowedHandler = http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
	})
}

// ============================================================================
// HANDLERS
// ============================================================================

// HelloResponse is the body of GET /api/hello.
type HelloResponse struct {
	Message   string `json:"message"`
	Timestamp string `json:"timestamp"`
}

// HealthResponse is the body of GET /api/health.
type HealthResponse struct {
	Status      string    `json:"status"`
	Environment string    `json:"environment"`
	Timestamp   time.Time `json:"timestamp"`
	Uptime      string    `json:"uptime,omitempty"`
}

func (s *Server) handleWelcome(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if r.Method != http.MethodHead {
		_, _ = w.Write([]byte(WelcomeText))
	}
}

func (s *Server) handleHello(w http.ResponseWriter, r *http.Request) {
	s.metrics.greetingServed()
	writeJSON(w, http.StatusOK, HelloResponse{
		Message:   s.message.Message(),
		Timestamp: s.opts.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	now := s.opts.Now()
	writeJSON(w, http.StatusOK, HealthResponse{
		Status:      HealthyStatus,
		Environment: s.opts.Environment,
		Timestamp:   now.UTC(),
		Uptime:      now.Sub(s.started).Truncate(time.Second).String(),
	})
}

// ============================================================================
// SERVER LIFECYCLE
// ============================================================================

// Listen binds the configured address without serving yet.
func (s *Server) Listen() error {
	ln, err := net.Listen("tcp", s.opts.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.opts.Addr, err)
	}
	s.mu.Lock()
	s.listener = ln
	s.mu.Unlock()
	return nil
}

// Serve serves until ctx is cancelled, then shuts down gracefully. It binds
// the address first if Listen was not called. The message watcher and the
// limiter cleanup live as long as ctx.
func (s *Server) Serve(ctx context.Context) error {
	s.mu.Lock()
	ln := s.listener
	s.mu.Unlock()
	if ln == nil {
		if err := s.Listen(); err != nil {
			return err
		}
		s.mu.Lock()
		ln = s.listener
		s.mu.Unlock()
	}

	if err := s.message.Watch(ctx); err != nil {
		s.log.WithError(err).Warn("Message file will not be reloaded")
	}
	go s.limiter.RunCleanup(ctx, time.Minute, limiterIdle)

	srv := &http.Server{
		Handler:           s.handler,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	s.mu.Lock()
	s.server = srv
	s.mu.Unlock()

	s.log.WithFields(logrus.Fields{
		"addr":        ln.Addr().String(),
		"environment": s.opts.Environment,
		"metrics":     s.opts.MetricsEnabled,
	}).Info("Application starting up")

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
	defer cancel()
	if err := s.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	s.mu.Lock()
	srv := s.server
	s.mu.Unlock()
	if srv == nil {
		return nil
	}

	s.log.Info("Shutting down")
	return srv.Shutdown(ctx)
}
