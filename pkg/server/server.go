package server

import (
	"context"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/c4x/pkg/pipeline"
)

// Defaults for [Options] fields left zero.
const (
	DefaultAddr         = ":8080"
	DefaultMaxBodyBytes = 1 << 20
	DefaultTimeout      = 30 * time.Second
)

// Options configures a Server.
type Options struct {
	Addr string

	// RateLimit is the sustained requests per second allowed per client
	// address. Zero disables rate limiting.
	RateLimit float64
	Burst     int

	MaxBodyBytes int64
	Timeout      time.Duration // per-request compile deadline

	// Compile is the base option set for every request: layout tuning,
	// default theme, custom theme. Requests override theme and format.
	Compile pipeline.Options

	Logger *log.Logger
}

// Server serves the c4x HTTP API.
type Server struct {
	runner  *pipeline.Runner
	opts    Options
	logger  *log.Logger
	limiter *clientLimiter
	router  chi.Router
}

// New builds a server around runner. The runner is shared by all requests
// and must not be closed while the server is running.
func New(runner *pipeline.Runner, opts Options) *Server {
	if opts.Addr == "" {
		opts.Addr = DefaultAddr
	}
	if opts.MaxBodyBytes <= 0 {
		opts.MaxBodyBytes = DefaultMaxBodyBytes
	}
	if opts.Timeout <= 0 {
		opts.Timeout = DefaultTimeout
	}
	logger := opts.Logger
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		runner: runner,
		opts:   opts,
		logger: logger.WithPrefix("http"),
	}
	if opts.RateLimit > 0 {
		s.limiter = newClientLimiter(opts.RateLimit, max(opts.Burst, 1))
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(s.requestID)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/v1", func(r chi.Router) {
		r.Get("/themes", s.handleThemes)

		r.Group(func(r chi.Router) {
			r.Use(s.rateLimit)
			r.Use(s.limitBody)
			r.Post("/render", s.handleRender)
			r.Post("/validate", s.handleValidate)
			r.Post("/layout", s.handleLayout)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusNotFound, "NOT_FOUND", "no route for "+r.Method+" "+r.URL.Path)
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", r.Method+" not allowed on "+r.URL.Path)
	})
	return r
}

// Handler returns the root handler, for tests and for embedding.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:              s.opts.Addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
		WriteTimeout:      s.opts.Timeout + 5*time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.opts.Addr)
		errc <- srv.ListenAndServe()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		s.logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	}
}
