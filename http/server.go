// Package http exposes a shorten.ShortenerService over HTTP.
package http

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/relistan/shorten"
)

// Server defaults.
const (
	DefaultAddr            = ":4567"
	DefaultReadTimeout     = 10 * time.Second
	DefaultWriteTimeout    = 10 * time.Second
	DefaultShutdownTimeout = 5 * time.Second
)

// Server serves the shortener API:
//
//	GET  /shorten?url=        shorten a URL
//	GET  /lookup?code=        look up a short code
//	GET  /r/{code}            redirect to the target URL
//	GET  /health              liveness check
//	GET  /admin/filter        expanding filter stats
//	POST /admin/filter/resize grow the filter now
type Server struct {
	shortener shorten.ShortenerService
	filter    shorten.GrowableFilter
	limiter   *ClientLimiter
	logger    *slog.Logger

	router *mux.Router
	server *http.Server
}

// Option configures a Server.
type Option func(*Server)

// WithFilter enables the filter admin routes.
func WithFilter(f shorten.GrowableFilter) Option {
	return func(s *Server) {
		s.filter = f
	}
}

// WithLogger sets the request logger. Defaults to discarding output.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) {
		s.logger = logger
	}
}

// WithRateLimit limits each client host to rps requests per second.
// A non-positive rps disables limiting, which is the default.
func WithRateLimit(rps float64, burst int) Option {
	return func(s *Server) {
		if rps <= 0 {
			s.limiter = nil
			return
		}
		s.limiter = NewClientLimiter(rps, burst)
	}
}

// WithAddr sets the listen address. Defaults to DefaultAddr.
func WithAddr(addr string) Option {
	return func(s *Server) {
		s.server.Addr = addr
	}
}

// NewServer creates a new Server for svc.
func NewServer(svc shorten.ShortenerService, opts ...Option) *Server {
	s := &Server{
		shortener: svc,
		logger:    slog.New(slog.DiscardHandler),
		router:    mux.NewRouter(),
		server: &http.Server{
			Addr:         DefaultAddr,
			ReadTimeout:  DefaultReadTimeout,
			WriteTimeout: DefaultWriteTimeout,
		},
	}
	for _, opt := range opts {
		opt(s)
	}

	s.setupRoutes()
	s.server.Handler = s.router
	return s
}

// Handler returns the root handler, including middleware.
func (s *Server) Handler() http.Handler {
	return s.router
}

// Addr returns the configured listen address.
func (s *Server) Addr() string {
	return s.server.Addr
}

// ListenAndServe serves until Shutdown is called.
// Returns nil after a clean shutdown.
func (s *Server) ListenAndServe() error {
	s.logger.Info("http server listening", "addr", s.server.Addr)
	if err := s.server.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown stops accepting connections and waits for in-flight requests
// until ctx expires.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.server.Shutdown(ctx)
}

func (s *Server) setupRoutes() {
	s.router.Use(requestIDMiddleware, s.loggingMiddleware, s.rateLimitMiddleware)

	s.router.HandleFunc("/shorten", s.handleShorten).Methods(http.MethodGet)
	s.router.HandleFunc("/lookup", s.handleLookup).Methods(http.MethodGet)
	s.router.HandleFunc("/r/{code}", s.handleRedirect).Methods(http.MethodGet)
	s.router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	if s.filter != nil {
		admin := s.router.PathPrefix("/admin").Subrouter()
		admin.HandleFunc("/filter", s.handleFilterStats).Methods(http.MethodGet)
		admin.HandleFunc("/filter/resize", s.handleFilterResize).Methods(http.MethodPost)
	}
}
