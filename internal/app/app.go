// Package app orchestrates configuration, credential sources, and the proxy
// server lifecycle.
package app

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tmessner/responsum/internal/proxy"
)

// App orchestrates the lifecycle of the proxy server and related services.
type App struct {
	proxy  *proxy.Proxy
	health *Health
	addr   string
}

// New creates a new App instance from the loaded configuration.
func New(cfg Config) (*App, error) {
	keys, err := cfg.Auth.NewKeySource()
	if err != nil {
		return nil, fmt.Errorf("failed to create key source: %w", err)
	}

	health := NewHealth()

	opts := []proxy.Option{
		proxy.WithMaxRequestBytes(cfg.Server.MaxRequestBytes),
	}
	if cfg.Upstream.BaseURL != "" {
		opts = append(opts, proxy.WithUpstreamBaseURL(cfg.Upstream.BaseURL))
	}

	proxyServer, err := proxy.New(keys, health, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create proxy: %w", err)
	}

	return &App{
		proxy:  proxyServer,
		health: health,
		addr:   cfg.Server.Addr,
	}, nil
}

// Start starts all services and blocks until shutdown is triggered.
// Uses errgroup for runtime error monitoring and shutdown function collection for coordinated cleanup.
func (a *App) Start(ctx context.Context) error {
	g, gCtx := errgroup.WithContext(ctx)

	var shutdownFuncs []func(context.Context) error

	// Startup phase: Start services
	slog.InfoContext(gCtx, "starting proxy server", "addr", a.addr)
	proxyErrCh, err := a.proxy.Start(gCtx, a.addr)
	if err != nil {
		return fmt.Errorf("proxy startup failed: %w", err)
	}
	shutdownFuncs = append(shutdownFuncs, a.proxy.Shutdown)

	a.health.SetReady(true)

	// Monitor runtime errors - errgroup cancels context on first error
	g.Go(func() error {
		select {
		case err := <-proxyErrCh:
			if err != nil {
				slog.ErrorContext(gCtx, "proxy runtime error", "error", err)
				return fmt.Errorf("proxy: %w", err)
			}
			return nil
		case <-gCtx.Done():
			return nil
		}
	})

	runtimeErr := g.Wait()

	a.health.SetReady(false)
	slog.InfoContext(gCtx, "shutting down services")

	// Shutdown phase: Stop all services
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	var errs []error
	if runtimeErr != nil {
		errs = append(errs, fmt.Errorf("runtime: %w", runtimeErr))
	}

	for i := len(shutdownFuncs) - 1; i >= 0; i-- {
		if err := shutdownFuncs[i](shutdownCtx); err != nil {
			slog.ErrorContext(shutdownCtx, "service shutdown failed", "error", err)
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	slog.Info("application stopped")
	return nil
}
