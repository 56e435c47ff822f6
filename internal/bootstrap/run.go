package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/levino/pocketbase-auth-layer/config"
)

// Run wires the full gate and blocks until SIGINT/SIGTERM, then shuts the
// server down gracefully.
func Run(ctx context.Context, cfg config.AppConfig, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.Default()
	}

	auth, err := BuildAuthService(&cfg, logger)
	if err != nil {
		return err
	}
	renderer, err := BuildRenderer(&cfg, logger)
	if err != nil {
		return err
	}

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   &cfg,
		Auth:     auth,
		Renderer: renderer,
		Logger:   logger,
	})

	return waitForShutdown(ctx, server, cfg.HTTP.ShutdownTimeout, logger)
}

// waitForShutdown blocks until the context is cancelled by a signal, then
// drains in-flight requests within the shutdown timeout.
func waitForShutdown(ctx context.Context, server *http.Server, timeout time.Duration, logger *slog.Logger) error {
	signalCtx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	g, gCtx := errgroup.WithContext(signalCtx)
	g.Go(func() error {
		<-gCtx.Done()
		// Fresh context: the signal context is already cancelled and would
		// abort the drain immediately.
		return ShutdownHTTPServer(ShutdownConfig{
			Context: context.Background(),
			Server:  server,
			Timeout: timeout,
			Logger:  logger,
		})
	})

	if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}
