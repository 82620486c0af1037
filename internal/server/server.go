// Package server exposes the wave planner over HTTP.
//
// Every planning endpoint accepts an inventory document in the request body
// (JSON by default, TOML or CSV when selected with the format query parameter
// or the Content-Type header) and answers with JSON:
//
//	GET  /healthz
//	POST /api/v1/plan            full analysis and wave plan
//	POST /api/v1/cycles          dependency cycles, optionally ?node=ID
//	POST /api/v1/critical-path   longest dependency chain
//	POST /api/v1/render          diagram, ?output=svg|dot|png|pdf
//
// Rendered diagrams are cached in memory, keyed by their Graphviz source.
// Errors are reported as {"code": ..., "message": ...} where code is one of
// the [errors.Code] values.
//
// [errors.Code]: github.com/matzehuels/waveplan/pkg/errors
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/waveplan/pkg/cache"
	"github.com/matzehuels/waveplan/pkg/pipeline"
)

const (
	// DefaultAddr is the listen address used when Config.Addr is empty.
	DefaultAddr = ":8080"

	// DefaultShutdownTimeout bounds graceful shutdown.
	DefaultShutdownTimeout = 10 * time.Second

	// DefaultRequestTimeout bounds a single planning request.
	DefaultRequestTimeout = 30 * time.Second

	// DefaultMaxBodyBytes caps the size of an uploaded inventory.
	DefaultMaxBodyBytes int64 = 10 << 20
)

// Config configures the HTTP server. Zero fields take the defaults above.
type Config struct {
	Addr            string
	ShutdownTimeout time.Duration
	RequestTimeout  time.Duration
	MaxBodyBytes    int64

	// Cache holds rendered diagrams. Nil uses an in-memory cache of
	// cache.DefaultMemoryEntries diagrams.
	Cache cache.Cache
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ShutdownTimeout <= 0 {
		c.ShutdownTimeout = DefaultShutdownTimeout
	}
	if c.RequestTimeout <= 0 {
		c.RequestTimeout = DefaultRequestTimeout
	}
	if c.MaxBodyBytes <= 0 {
		c.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if c.Cache == nil {
		c.Cache = cache.NewMemoryCache(cache.DefaultMemoryEntries)
	}
}

// Server serves planning requests. It holds no per-request state, so a
// single Server handles any number of concurrent requests.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger
	cfg    Config
}

// New creates a server. A nil runner uses a runner sharing logger; a nil
// logger uses log.Default().
func New(runner *pipeline.Runner, logger *log.Logger, cfg Config) *Server {
	if logger == nil {
		logger = log.Default()
	}
	if runner == nil {
		runner = pipeline.NewRunner(logger)
	}
	cfg.setDefaults()
	return &Server{runner: runner, logger: logger, cfg: cfg}
}

// Addr returns the configured listen address.
func (s *Server) Addr() string { return s.cfg.Addr }

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.requestLog)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealthz)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Timeout(s.cfg.RequestTimeout))
		r.Post("/plan", s.handlePlan)
		r.Post("/cycles", s.handleCycles)
		r.Post("/critical-path", s.handleCriticalPath)
		r.Post("/render", s.handleRender)
	})

	return r
}

// Run listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	return s.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 5 * time.Second,
		IdleTimeout:       60 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errCh <- srv.Serve(ln)
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()
		s.logger.Info("shutting down")
		defer s.cfg.Cache.Close()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}
