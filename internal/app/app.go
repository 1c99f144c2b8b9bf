// Package app provides the top-level application lifecycle for the
// marketplace gateway. It wires together the chain gateway, metadata
// resolver, caches, and services, and runs the HTTP server until the
// context is cancelled.
package app

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/mintbay/marketgate/internal/config"
	"github.com/mintbay/marketgate/internal/server"
	"github.com/mintbay/marketgate/internal/server/handler"
)

// App is the root application object. It owns the configuration,
// logger, and a list of cleanup functions that are called in reverse
// order on shutdown.
type App struct {
	cfg     *config.Config
	logger  *slog.Logger
	closers []func()
}

// New creates a new App from the given configuration and logger.
func New(cfg *config.Config, logger *slog.Logger) *App {
	return &App{
		cfg:    cfg,
		logger: logger.With(slog.String("component", "app")),
	}
}

// Run is the main entry point. It wires all dependencies, starts the
// HTTP server, and blocks until the context is cancelled or the server
// fails. On return the server has been drained and all resources
// released.
func (a *App) Run(ctx context.Context) error {
	a.logger.InfoContext(ctx, "starting application",
		slog.String("chain_rpc", a.cfg.Chain.RPCURL),
		slog.Int64("chain_id", a.cfg.Chain.ChainID),
		slog.String("log_level", a.cfg.LogLevel),
	)

	deps, cleanup, err := Wire(ctx, a.cfg)
	if err != nil {
		return fmt.Errorf("app: wire dependencies: %w", err)
	}
	a.closers = append(a.closers, cleanup)
	defer a.Close()

	srv := server.NewServer(server.Config{
		Port:            a.cfg.Server.Port,
		CORSOrigins:     a.cfg.Server.CORSOrigins,
		APIKey:          a.cfg.Server.APIKey,
		RateLimit:       a.cfg.Server.RateLimit,
		RateLimitWindow: a.cfg.Server.RateLimitWindow.Duration,
	}, server.Handlers{
		Items: handler.NewItemHandler(deps.Markets, a.logger),
		Admin: handler.NewAdminHandler(deps.Admin, a.logger),
	}, deps.Limiter, a.logger)

	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.Start()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return <-errCh
	case err := <-errCh:
		return err
	}
}

// Close tears down all resources in reverse registration order. It is
// safe to call multiple times; subsequent calls are no-ops.
func (a *App) Close() {
	for i := len(a.closers) - 1; i >= 0; i-- {
		a.closers[i]()
	}
	a.closers = nil
}
