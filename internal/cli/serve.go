package cli

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/aretw0/stepwise/internal/config"
	httpAdapter "github.com/aretw0/stepwise/pkg/adapters/http"
	"github.com/aretw0/stepwise/pkg/adapters/mcp"
	"github.com/aretw0/stepwise/pkg/observability"
	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// ShutdownTimeout bounds graceful shutdown of the HTTP server.
const ShutdownTimeout = 5 * time.Second

// ServeOptions configures the HTTP server.
type ServeOptions struct {
	Config config.Config
	Addr   string
	Logger *slog.Logger
}

// NewHTTPHandler wires an engine into the HTTP adapter. Lifecycle events are
// logged, counted on reg and streamed to /events subscribers; /metrics exposes reg.
func NewHTTPHandler(cfg config.Config, logger *slog.Logger, reg *prometheus.Registry) (http.Handler, *Backend, error) {
	streams := httpAdapter.NewStreamManager(logger)
	metrics := observability.NewMetrics(reg)
	hooks := observability.Merge(observability.LogHooks(logger), metrics.Hooks(), streams.Hooks())

	engine, backend, err := NewEngine(cfg, logger, hooks)
	if err != nil {
		return nil, nil, err
	}
	handler := httpAdapter.NewHandler(engine,
		httpAdapter.WithLogger(logger),
		httpAdapter.WithStreams(streams),
		httpAdapter.WithRoutes(func(r chi.Router) {
			r.Handle("/metrics", promhttp.HandlerFor(reg, promhttp.HandlerOpts{}))
		}),
	)
	return handler, backend, nil
}

// Serve runs the HTTP server until ctx is cancelled, then shuts it down.
func Serve(ctx context.Context, opts ServeOptions) error {
	handler, backend, err := NewHTTPHandler(opts.Config, opts.Logger, prometheus.NewRegistry())
	if err != nil {
		return err
	}
	defer backend.Close()

	srv := &http.Server{
		Addr:              opts.Addr,
		Handler:           handler,
		ReadHeaderTimeout: 10 * time.Second,
	}

	serverErrors := make(chan error, 1)
	go func() {
		opts.Logger.Info("Starting Stepwise Server", "address", srv.Addr, "store", opts.Config.Store.Backend)
		serverErrors <- srv.ListenAndServe()
	}()

	select {
	case err := <-serverErrors:
		return fmt.Errorf("server error: %w", err)
	case <-ctx.Done():
		opts.Logger.Info("Start shutdown...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), ShutdownTimeout)
		defer cancel()

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return errors.Join(fmt.Errorf("graceful shutdown did not complete in %v: %w", ShutdownTimeout, err), srv.Close())
		}
		opts.Logger.Info("Stepwise Server stopped gracefully")
		return nil
	}
}

// MCPOptions configures the MCP server.
type MCPOptions struct {
	Config    config.Config
	Transport string
	Port      int
	Logger    *slog.Logger
}

// ServeMCP exposes the engine as MCP tools over stdio or SSE.
func ServeMCP(ctx context.Context, opts MCPOptions) error {
	engine, backend, err := NewEngine(opts.Config, opts.Logger, observability.LogHooks(opts.Logger))
	if err != nil {
		return err
	}
	defer backend.Close()

	srv := mcp.NewServer(engine, mcp.WithLogger(opts.Logger))
	switch opts.Transport {
	case "", "stdio":
		opts.Logger.Info("Starting Stepwise MCP Server (Stdio)...")
		return srv.ServeStdio()
	case "sse":
		err := srv.ServeSSE(ctx, opts.Port)
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
	return fmt.Errorf("unknown transport: %s. Supported: stdio, sse", opts.Transport)
}
