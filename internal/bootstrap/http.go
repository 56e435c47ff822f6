package bootstrap

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/levino/pocketbase-auth-layer/config"
	httpx "github.com/levino/pocketbase-auth-layer/internal/http"
	"github.com/levino/pocketbase-auth-layer/internal/ports"
	"github.com/levino/pocketbase-auth-layer/internal/service"
)

// HTTPServerConfig contains configuration for the HTTP server.
type HTTPServerConfig struct {
	Config   *config.AppConfig
	Auth     *service.AuthService
	Renderer ports.PageRenderer
	Logger   *slog.Logger
}

// StartHTTPServer creates and starts the HTTP server.
// Returns the server instance for graceful shutdown.
func StartHTTPServer(cfg *HTTPServerConfig) *http.Server {
	if cfg == nil {
		return nil
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	appCfg := cfg.Config
	if appCfg == nil {
		appCfg = &config.AppConfig{}
	}

	services := httpx.RouterServices{
		Auth:           cfg.Auth,
		Renderer:       cfg.Renderer,
		Login:          LoginPageData(appCfg),
		NotAuthorized:  NotAuthorizedPageData(appCfg),
		CookieOptions:  appCfg.Cookie.Options(),
		LogoutRedirect: appCfg.HTTP.LogoutRedirect,
		Protected:      protectedHandler(appCfg, logger),
		Logger:         logger,
	}

	// Order: Recover -> Logging -> Router
	handler := httpx.Recover(logger)(httpx.Logging(logger)(httpx.NewRouter(services)))

	return startServer(logger, handler, appCfg.HTTP.Addr)
}

// protectedHandler is what an authorized request reaches: the configured
// static directory, or 404 when none is configured.
func protectedHandler(cfg *config.AppConfig, logger *slog.Logger) http.Handler {
	if cfg.HTTP.StaticDir == "" {
		return nil
	}
	logger.Info("serving static content", "dir", cfg.HTTP.StaticDir)
	return http.FileServer(http.Dir(cfg.HTTP.StaticDir))
}

func startServer(logger *slog.Logger, handler http.Handler, addr string) *http.Server {
	// Guard against empty addr to avoid listening on Go default
	if addr == "" {
		addr = ":8080"
	}

	server := &http.Server{
		Addr:         addr,
		Handler:      handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  120 * time.Second,
	}

	go func() {
		logger.Info("starting HTTP server", "addr", server.Addr)
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("HTTP server failed", "error", err)
		}
	}()

	return server
}

// ShutdownConfig contains dependencies for HTTP server shutdown.
type ShutdownConfig struct {
	Context context.Context
	Server  *http.Server
	Timeout time.Duration
	Logger  *slog.Logger
}

// ShutdownHTTPServer gracefully shuts down the HTTP server.
func ShutdownHTTPServer(cfg ShutdownConfig) error {
	if cfg.Server == nil {
		return nil
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("shutting down HTTP server")
	}

	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(cfg.Context, timeout)
	defer cancel()

	if err := cfg.Server.Shutdown(shutdownCtx); err != nil {
		return err
	}

	if cfg.Logger != nil {
		cfg.Logger.Info("HTTP server stopped")
	}

	return nil
}
