// Package server exposes F(k) and the device strategy timings over HTTP.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/rs/zerolog/log"

	"github.com/agbru/fibdrv/internal/config"
	apperrors "github.com/agbru/fibdrv/internal/errors"
	"github.com/agbru/fibdrv/internal/logging"
	"github.com/agbru/fibdrv/internal/service"
)

// Server is the HTTP front end of a service.Service.
type Server struct {
	service        service.Service
	cfg            config.AppConfig
	httpServer     *http.Server
	logger         logging.Logger
	shutdownSignal chan os.Signal
	rateLimiter    *RateLimiter
	securityConfig SecurityConfig
	metrics        *Metrics
	timeouts       Timeouts
}

// NewServer creates a Server for svc listening on cfg.Port. The rate
// limiter defaults to cfg.RateLimit requests per second with a burst of
// cfg.RateBurst; a zero rate disables limiting.
//
// Parameters:
//   - svc: The service answering requests.
//   - cfg: The application configuration.
//   - opts: Optional settings such as WithLogger or WithTimeouts.
//
// Returns:
//   - *Server: The configured server, not yet listening.
func NewServer(svc service.Service, cfg config.AppConfig, opts ...Option) *Server {
	s := &Server{
		service:        svc,
		cfg:            cfg,
		logger:         logging.NewZerologAdapter(log.Logger.With().Str("component", "server").Logger()),
		shutdownSignal: make(chan os.Signal, 1),
		securityConfig: DefaultSecurityConfig(),
		metrics:        NewMetrics(),
		timeouts:       DefaultServerTimeouts(),
	}

	for _, opt := range opts {
		opt(s)
	}

	if s.rateLimiter == nil && cfg.RateLimit > 0 {
		s.rateLimiter = NewRateLimiter(RateLimiterConfig{
			RequestsPerSecond: cfg.RateLimit,
			Burst:             cfg.RateBurst,
		})
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/fibonacci", s.wrapWithMiddleware(routeFibonacci, s.handleFibonacci))
	mux.HandleFunc("/time", s.wrapWithMiddleware(routeTime, s.handleTime))
	mux.HandleFunc("/health", s.wrapWithMiddleware(routeHealth, s.handleHealth))
	mux.HandleFunc("/algorithms", s.wrapWithMiddleware(routeAlgorithms, s.handleAlgorithms))
	mux.HandleFunc("/metrics", s.wrapWithMiddleware(routeMetrics, s.handleMetrics))

	s.httpServer = &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      mux,
		ReadTimeout:  s.timeouts.ReadTimeout,
		WriteTimeout: s.timeouts.WriteTimeout,
		IdleTimeout:  s.timeouts.IdleTimeout,
	}

	return s
}

// Handler returns the routed handler with its middleware chain.
func (s *Server) Handler() http.Handler {
	return s.httpServer.Handler
}

// wrapWithMiddleware applies Security -> RateLimit -> Logging -> Metrics.
func (s *Server) wrapWithMiddleware(route string, handler http.HandlerFunc) http.HandlerFunc {
	wrapped := s.metricsMiddleware(route, handler)
	wrapped = s.loggingMiddleware(wrapped)
	if s.rateLimiter != nil {
		wrapped = RateLimitMiddleware(s.rateLimiter, wrapped)
	}
	return SecurityMiddleware(s.securityConfig, wrapped)
}

// Start listens on the configured address and serves until ctx is done or
// SIGINT/SIGTERM arrives, then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.httpServer.Addr)
	if err != nil {
		return apperrors.NewServerError("server failed to start", err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done or a shutdown signal arrives.
//
// Returns:
//   - error: A ServerError if serving or the graceful shutdown failed.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	signal.Notify(s.shutdownSignal, os.Interrupt, syscall.SIGTERM)
	defer signal.Stop(s.shutdownSignal)
	if s.rateLimiter != nil {
		defer s.rateLimiter.Stop()
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			logging.String("addr", ln.Addr().String()),
			logging.Int64("max_k", s.cfg.MaxK),
			logging.Int("cache_size", s.cfg.CacheSize))
		s.logger.Println("Available endpoints:")
		s.logger.Println("  GET /fibonacci?k=<index>&algo=<algorithm>")
		s.logger.Println("  GET /time?k=<index>&selector=<0-3>")
		s.logger.Println("  GET /health")
		s.logger.Println("  GET /algorithms")
		s.logger.Println("  GET /metrics")

		if err := s.httpServer.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case <-s.shutdownSignal:
		s.logger.Info("shutdown signal received")
	case <-ctx.Done():
		s.logger.Info("context done, shutting down")
	case err, ok := <-errCh:
		if ok {
			return apperrors.NewServerError("server failed", err)
		}
		return nil
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), s.timeouts.ShutdownTimeout)
	defer cancel()
	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return apperrors.NewServerError("failed to gracefully shutdown server", err)
	}

	s.logger.Info("server stopped gracefully")
	return nil
}
