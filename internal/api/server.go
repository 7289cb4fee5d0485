// Package api provides the HTTP server exposing the database gateway.
package api

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/leapstack-labs/litegate/internal/api/router"
	"github.com/leapstack-labs/litegate/internal/catalog"
	"github.com/leapstack-labs/litegate/internal/gateway"
	"github.com/leapstack-labs/litegate/internal/metrics"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = ":3000"

const shutdownTimeout = 5 * time.Second

// Server is the HTTP API server.
type Server struct {
	addr            string
	catalog         *catalog.Catalog
	resolver        gateway.Resolver
	gateway         *gateway.Gateway
	metrics         *metrics.Metrics
	defaultDatabase string
	secondaryDir    string
	secondaryRoute  string
	watch           bool
	logger          *slog.Logger
}

// Config holds configuration for the API server.
type Config struct {
	Addr            string
	Catalog         *catalog.Catalog
	Resolver        gateway.Resolver
	Gateway         *gateway.Gateway
	Metrics         *metrics.Metrics
	DefaultDatabase string
	SecondaryDir    string
	SecondaryRoute  string
	Watch           bool
	Logger          *slog.Logger
}

// NewServer creates a new API server instance.
func NewServer(cfg Config) *Server {
	addr := cfg.Addr
	if addr == "" {
		addr = DefaultAddr
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Server{
		addr:            addr,
		catalog:         cfg.Catalog,
		resolver:        cfg.Resolver,
		gateway:         cfg.Gateway,
		metrics:         cfg.Metrics,
		defaultDatabase: cfg.DefaultDatabase,
		secondaryDir:    cfg.SecondaryDir,
		secondaryRoute:  cfg.SecondaryRoute,
		watch:           cfg.Watch,
		logger:          logger,
	}
}

// Handler builds the router with its middleware stack.
func (s *Server) Handler() (http.Handler, error) {
	r := chi.NewMux()
	r.Use(
		requestID,
		middleware.RealIP,
		requestLogger(s.logger),
		middleware.Recoverer,
	)
	if s.metrics != nil {
		r.Use(s.metrics.Middleware)
	}
	r.Use(
		newCORS().Handler,
		corsFallback,
		middleware.Compress(5),
	)

	deps := router.Deps{
		Catalog:         s.catalog,
		Resolver:        s.resolver,
		Gateway:         s.gateway,
		DefaultDatabase: s.defaultDatabase,
		SecondaryDir:    s.secondaryDir,
		SecondaryRoute:  s.secondaryRoute,
		Logger:          s.logger,
	}
	if s.metrics != nil {
		deps.Metrics = s.metrics.Handler()
	}
	if err := router.SetupRoutes(r, deps); err != nil {
		return nil, fmt.Errorf("failed to setup routes: %w", err)
	}
	return r, nil
}

// Serve listens on the configured address and blocks until ctx is cancelled.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener serves on ln until ctx is cancelled, then shuts down
// gracefully. ln is closed on return.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	handler, err := s.Handler()
	if err != nil {
		_ = ln.Close()
		return err
	}

	s.logger.Info("starting server", "addr", ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)

	srv := &http.Server{
		Handler: handler,
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: 10 * time.Second,
	}

	// Invalidate the catalog cache on filesystem changes
	if s.watch && s.catalog != nil {
		eg.Go(func() error {
			return s.catalog.Watch(egctx)
		})
	}

	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server...")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
