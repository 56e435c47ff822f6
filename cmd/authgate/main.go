package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/levino/pocketbase-auth-layer/config"
	"github.com/levino/pocketbase-auth-layer/internal/bootstrap"
)

func main() {
	ctx := context.Background()

	cfg, err := bootstrap.LoadConfig()
	logger := bootstrap.InitLogger(cfg.IsDev)
	if err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}

	logStartupInfo(ctx, logger, &cfg)

	if err := bootstrap.Run(ctx, cfg, logger); err != nil {
		logger.ErrorContext(ctx, "fatal error", "error", err)
		os.Exit(1) //nolint:forbidigo // Main entrypoint should exit with non-zero status on fatal errors.
	}
}

func logStartupInfo(ctx context.Context, logger *slog.Logger, cfg *config.AppConfig) {
	logger.InfoContext(ctx, "starting auth gate",
		"addr", cfg.HTTP.Addr,
		"identity_url", cfg.Identity.URL,
		"group_field", cfg.Identity.GroupField,
		"static_dir", cfg.HTTP.StaticDir,
		"dev", cfg.IsDev)
}
