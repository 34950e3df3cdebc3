// Package server exposes live connection graphs over an HTTP JSON API.
//
// Graphs are held in memory and addressed by UUID. Each graph has its own
// mutex, so requests against different graphs proceed in parallel while
// requests against the same graph are serialised. Snapshots go to a
// storage.Store and can be restored into new live graphs.
package server

import (
	"context"
	"errors"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/linkgraph/pkg/events"
	"github.com/matzehuels/linkgraph/pkg/observability"
	"github.com/matzehuels/linkgraph/pkg/pipeline"
	"github.com/matzehuels/linkgraph/pkg/storage"
)

// Config configures a Server. Nil fields get working defaults.
type Config struct {
	Store      storage.Store
	Runner     *pipeline.Runner
	Dispatcher *events.Dispatcher
	Logger     *log.Logger

	// RequestTimeout bounds each request; zero means 30s.
	RequestTimeout time.Duration
}

// Server is the HTTP API.
type Server struct {
	router  chi.Router
	graphs  *registry
	store   storage.Store
	runner  *pipeline.Runner
	events  *events.Dispatcher
	logger  *log.Logger
	timeout time.Duration
}

// New creates a server and registers its routes.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.Default()
	}
	if cfg.Store == nil {
		cfg.Store = storage.NewMemoryStore()
	}
	if cfg.Runner == nil {
		cfg.Runner = pipeline.NewRunner(nil, nil, cfg.Logger)
	}
	if cfg.Dispatcher == nil {
		cfg.Dispatcher = events.New(events.WithLogger(cfg.Logger))
	}
	if cfg.RequestTimeout <= 0 {
		cfg.RequestTimeout = 30 * time.Second
	}

	s := &Server{
		graphs:  newRegistry(),
		store:   cfg.Store,
		runner:  cfg.Runner,
		events:  cfg.Dispatcher,
		logger:  cfg.Logger,
		timeout: cfg.RequestTimeout,
	}
	s.router = s.routes()

	events.Subscribe(s.events, func(m events.Mutation) {
		s.logger.Debug("graph mutated", "graph", m.Graph, "op", m.Op, "nodes", m.NodeCount, "edges", m.EdgeCount)
	})
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.observe)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(s.timeout))

	r.Get("/healthz", s.handleHealth)
	r.Get("/version", s.handleVersion)

	r.Route("/graphs", func(r chi.Router) {
		r.Get("/", s.handleListGraphs)
		r.Post("/", s.handleCreateGraph)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetGraph)
			r.Delete("/", s.handleDeleteGraph)
			r.Delete("/nodes", s.handleClearGraph)

			r.Post("/connections", s.handleAddConnections)
			r.Delete("/connections", s.handleRemoveConnections)

			r.Get("/nodes/{node}", s.handleGetNode)
			r.Delete("/nodes/{node}", s.handleClearNode)
			r.Post("/nodes/{node}/collapse", s.handleCollapseNode)

			r.Get("/connected", s.handleConnected)
			r.Get("/components", s.handleComponents)
			r.Get("/dot", s.handleDOT)
			r.Get("/render", s.handleRender)
			r.Post("/script", s.handleApplyScript)

			r.Post("/snapshots", s.handleSaveSnapshot)
		})
	})

	r.Route("/snapshots", func(r chi.Router) {
		r.Get("/", s.handleListSnapshots)
		r.Get("/{sid}", s.handleGetSnapshot)
		r.Delete("/{sid}", s.handleDeleteSnapshot)
		r.Post("/{sid}/restore", s.handleRestoreSnapshot)
	})
	return r
}

// Handler returns the HTTP handler.
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
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// observe reports requests to the HTTP hooks and logs them at debug level.
func (s *Server) observe(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		next.ServeHTTP(ww, r)

		route := r.URL.Path
		if rc := chi.RouteContext(r.Context()); rc != nil && rc.RoutePattern() != "" {
			route = rc.RoutePattern()
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		observability.HTTP().OnRequest(r.Context(), r.Method, route)
		observability.HTTP().OnResponse(r.Context(), r.Method, route, status, time.Since(start))
		s.logger.Debug("http", "method", r.Method, "route", route, "status", status,
			"duration", time.Since(start), "request_id", middleware.GetReqID(r.Context()))
	})
}
