// Package server implements the tracil HTTP API.
//
// The API exposes the lineage pipeline over REST: POST a variable query to
// /api/v1/analyze to fetch, lay out, and persist its lineage, or POST a
// lineage document to /api/v1/layout to lay out a graph already in hand.
// Persisted analyses are served from /api/v1/snapshots.
package server

import (
	"context"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/1mgroot/Tracil-sub000/pkg/cache"
	"github.com/1mgroot/Tracil-sub000/pkg/pipeline"
	"github.com/1mgroot/Tracil-sub000/pkg/store"
	"github.com/1mgroot/Tracil-sub000/pkg/upstream"
)

const (
	readHeaderTimeout = 10 * time.Second
	shutdownTimeout   = 5 * time.Second

	// maxBodyBytes caps request bodies; lineage documents are small.
	maxBodyBytes = 10 << 20
)

// Server wires the pipeline, the inference client, and the snapshot store
// behind an HTTP API.
type Server struct {
	cfg      Config
	logger   *log.Logger
	runner   *pipeline.Runner
	analyzer pipeline.Analyzer
	store    store.Store
}

// New builds a server from config: cache backend, pipeline runner,
// inference client, and snapshot store.
func New(ctx context.Context, cfg Config, logger *log.Logger) (*Server, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if logger == nil {
		logger = log.Default()
	}

	c, err := cfg.NewCache(ctx)
	if err != nil {
		return nil, err
	}

	var clientOpts []upstream.Option
	clientOpts = append(clientOpts, upstream.WithLogger(logger))
	if cfg.Upstream.Strict {
		clientOpts = append(clientOpts, upstream.WithStrict())
	}
	client, err := upstream.NewClient(cfg.Upstream.URL, clientOpts...)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	st, err := cfg.NewStore(ctx)
	if err != nil {
		_ = c.Close()
		return nil, err
	}

	return &Server{
		cfg:      cfg,
		logger:   logger,
		runner:   pipeline.NewRunner(c, cache.NewDefaultKeyer(), logger),
		analyzer: client,
		store:    st,
	}, nil
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(
		middleware.RequestID,
		middleware.RealIP,
		middleware.Logger,
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1", func(r chi.Router) {
		r.Post("/analyze", s.handleAnalyze)
		r.Post("/layout", s.handleLayout)
		r.Get("/snapshots", s.handleListSnapshots)
		r.Get("/snapshots/{id}", s.handleGetSnapshot)
		r.Delete("/snapshots/{id}", s.handleDeleteSnapshot)
	})

	return r
}

// Serve starts the HTTP server and blocks until the context is cancelled or
// the listener fails.
func (s *Server) Serve(ctx context.Context) error {
	s.logger.Info("starting API server", "addr", s.cfg.Addr)

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Addr:    s.cfg.Addr,
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: readHeaderTimeout,
	}

	eg.Go(func() error {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})

	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down API server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}

// Close releases the cache and snapshot store.
func (s *Server) Close(ctx context.Context) error {
	err := s.runner.Close()
	if cerr := s.store.Close(ctx); err == nil {
		err = cerr
	}
	return err
}
