// Package server exposes the fill pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz   liveness and build version
//	GET  /v1/formats
//	POST /v1/fill   fill a template, returning every artifact base64-encoded
//	POST /v1/fill?raw=pdf
//	                fill a template, returning the single artifact as the body
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bandfill/pkg/buildinfo"
	"github.com/matzehuels/bandfill/pkg/pipeline"
)

// DefaultMaxBodyBytes bounds the size of a fill request.
const DefaultMaxBodyBytes = 8 << 20

// Option configures a [Server].
type Option func(*Server)

// WithTemplateDir lets requests name templates stored under dir instead of
// sending the template text.
func WithTemplateDir(dir string) Option { return func(s *Server) { s.templateDir = dir } }

// WithMaxBodyBytes overrides [DefaultMaxBodyBytes].
func WithMaxBodyBytes(n int64) Option { return func(s *Server) { s.maxBody = n } }

// WithTimeout bounds the time spent on one fill request.
func WithTimeout(d time.Duration) Option { return func(s *Server) { s.timeout = d } }

// Server is the fill service.
type Server struct {
	runner      *pipeline.Runner
	logger      *log.Logger
	templateDir string
	maxBody     int64
	timeout     time.Duration
	router      chi.Router
}

// New creates a server running fills through runner.
func New(runner *pipeline.Runner, logger *log.Logger, opts ...Option) *Server {
	if logger == nil {
		logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	s := &Server{
		runner:  runner,
		logger:  logger,
		maxBody: DefaultMaxBodyBytes,
		timeout: time.Minute,
	}
	for _, opt := range opts {
		opt(s)
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Use(middleware.SetHeader("Server", buildinfo.UserAgent()))

	r.Get("/healthz", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Get("/formats", s.handleFormats)
		r.With(middleware.AllowContentType("application/json")).Post("/fill", s.handleFill)
	})
	s.router = r
	return s
}

// Handler returns the HTTP handler of the service.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", addr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		s.logger.Info("shutting down")
		return srv.Shutdown(shutdownCtx)
	}
}
