// Package server exposes the diagram pipeline over HTTP.
//
// Routes:
//
//	POST /graph?format=svg   body is diagram source, response is the artifact
//	GET  /health             liveness probe
//
// Compile errors (bad syntax, incomplete edges, text measurement) answer
// 406 Not Acceptable with a JSON body of the form
//
//	{"code": "SYNTAX_ERROR", "message": "invalid diagram: line 2: ..."}
//
// Requests larger than [Options.MaxBodyBytes] answer 413. Every response
// carries an X-Request-ID header.
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

	apperr "github.com/matzehuels/stackgraph/pkg/errors"
	"github.com/matzehuels/stackgraph/pkg/pipeline"
)

// Options configures a Server. Zero fields take the defaults below.
type Options struct {
	Addr           string
	MaxBodyBytes   int
	CompileTimeout time.Duration
	ReadTimeout    time.Duration
	WriteTimeout   time.Duration
	Version        string
	Logger         *log.Logger
}

const (
	DefaultAddr           = ":8080"
	DefaultCompileTimeout = 10 * time.Second
	shutdownTimeout       = 5 * time.Second
)

func (o Options) withDefaults() Options {
	if o.Addr == "" {
		o.Addr = DefaultAddr
	}
	if o.MaxBodyBytes <= 0 {
		o.MaxBodyBytes = apperr.MaxSourceBytes
	}
	if o.CompileTimeout <= 0 {
		o.CompileTimeout = DefaultCompileTimeout
	}
	if o.ReadTimeout <= 0 {
		o.ReadTimeout = 15 * time.Second
	}
	if o.WriteTimeout <= 0 {
		o.WriteTimeout = 30 * time.Second
	}
	if o.Version == "" {
		o.Version = "dev"
	}
	if o.Logger == nil {
		o.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	return o
}

// Server serves diagrams rendered by a pipeline runner.
type Server struct {
	runner *pipeline.Runner
	opts   Options
	router chi.Router
}

// New creates a server around runner.
func New(runner *pipeline.Runner, opts Options) *Server {
	s := &Server{runner: runner, opts: opts.withDefaults()}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)
	r.Post("/graph", s.handleGraph)
	r.Get("/health", s.handleHealth)
	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, http.StatusNotFound, apperr.New(apperr.ErrCodeNotFound, "no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the HTTP handler of the server.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.opts.Addr,
		Handler:      s.router,
		ReadTimeout:  s.opts.ReadTimeout,
		WriteTimeout: s.opts.WriteTimeout,
	}

	errc := make(chan error, 1)
	go func() {
		s.opts.Logger.Info("listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	s.opts.Logger.Info("shutting down")
	return srv.Shutdown(shutdownCtx)
}
