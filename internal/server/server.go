// Package server implements the HTTP blueprint viewer.
//
// The viewer serves an HTML page mirroring the terminal browser (author
// search, result table, total points, a modal drawing of the opened
// blueprint) plus a small JSON API and rendered artifacts:
//
//	GET /health
//	GET /?author=john&open=house
//	GET /api/blueprints[/{author}]
//	GET /api/blueprints/{author}/{name}/plan
//	GET /render/{author}/{name}.{svg|png|json|dot}
//
// The author "_" in a path selects all authors. The query parameters
// width, height and margin override the viewport. Each request fetches
// from the source and builds its own plan, so handlers share no drawing
// state.
package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/bpview/pkg/buildinfo"
	"github.com/matzehuels/bpview/pkg/fit"
	"github.com/matzehuels/bpview/pkg/source"
)

const shutdownTimeout = 5 * time.Second

// Server is the HTTP viewer.
type Server struct {
	src      source.Source
	logger   *log.Logger
	viewport fit.Viewport
	version  string
	router   chi.Router
}

// Option configures a [Server].
type Option func(*Server)

// WithLogger sets the logger. Requests are logged at info level.
func WithLogger(l *log.Logger) Option {
	return func(s *Server) { s.logger = l }
}

// WithViewport sets the default viewport for drawings.
func WithViewport(vp fit.Viewport) Option {
	return func(s *Server) { s.viewport = vp }
}

// New creates a viewer reading from src.
func New(src source.Source, opts ...Option) *Server {
	s := &Server{
		src:      src,
		logger:   log.Default(),
		viewport: fit.DefaultViewport(),
		version:  buildinfo.Short(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(s.recovery)
	r.Use(chimiddleware.RequestLogger(&chimiddleware.DefaultLogFormatter{
		Logger:  s.logger.StandardLog(log.StandardLogOptions{ForceLevel: log.InfoLevel}),
		NoColor: true,
	}))

	r.Get("/health", s.handleHealth)
	r.Get("/", s.handleIndex)

	r.Route("/api/blueprints", func(r chi.Router) {
		r.Get("/", s.handleList)
		r.Get("/{author}", s.handleList)
		r.Get("/{author}/{name}/plan", s.handlePlan)
	})
	r.Get("/render/{author}/{file}", s.handleRender)

	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is cancelled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s,
		ReadHeaderTimeout: 5 * time.Second,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() { errc <- srv.Serve(ln) }()
	s.logger.Info("serving blueprint viewer", "addr", "http://"+ln.Addr().String(), "source", s.src.Name())

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
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	return nil
}
