package bootstrap

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/levino/pocketbase-auth-layer/config"
	"github.com/levino/pocketbase-auth-layer/internal/adapters/pocketbase"
	httpx "github.com/levino/pocketbase-auth-layer/internal/http"
	"github.com/levino/pocketbase-auth-layer/internal/ports"
	"github.com/levino/pocketbase-auth-layer/internal/service"
)

// BuildAuthService wires the PocketBase client into the decision service.
func BuildAuthService(cfg *config.AppConfig, logger *slog.Logger) (*service.AuthService, error) {
	provider, err := pocketbase.NewClient(pocketbase.Config{
		BaseURL:         cfg.Identity.URL,
		AuthCollection:  cfg.Identity.AuthCollection,
		GroupCollection: cfg.Identity.GroupCollection,
		Timeout:         cfg.Identity.Timeout,
	})
	if err != nil {
		return nil, fmt.Errorf("build identity provider: %w", err)
	}

	svc, err := service.NewAuthService(service.AuthServiceOptions{
		Provider:   provider,
		CookieName: cfg.Cookie.Name,
		GroupField: cfg.Identity.GroupField,
		Logger:     logger,
	})
	if err != nil {
		return nil, fmt.Errorf("build auth service: %w", err)
	}
	return svc, nil
}

// BuildRenderer selects the page renderer: host templates from the
// configured directory when set, the embedded pages otherwise.
func BuildRenderer(cfg *config.AppConfig, logger *slog.Logger) (ports.PageRenderer, error) {
	if dir := cfg.HTTP.TemplatesDir; dir != "" {
		if _, err := os.Stat(dir); err != nil {
			return nil, fmt.Errorf("templates dir: %w", err)
		}
		logger.Info("using host page templates", "dir", dir)
		renderer, err := httpx.NewHostTemplateRenderer(os.DirFS(dir), "*.html.tmpl")
		if err != nil {
			return nil, fmt.Errorf("build host renderer: %w", err)
		}
		return renderer, nil
	}

	renderer, err := httpx.NewBuiltinRenderer()
	if err != nil {
		return nil, fmt.Errorf("build builtin renderer: %w", err)
	}
	return renderer, nil
}

// LoginPageData maps page configuration onto the login page.
func LoginPageData(cfg *config.AppConfig) ports.LoginPageData {
	return ports.LoginPageData{
		Title:        cfg.Pages.LoginTitle,
		IdentityURL:  cfg.Identity.URL,
		MicrosoftURL: cfg.Identity.MicrosoftURL,
		Providers:    cfg.Pages.Providers,
		RedirectURL:  cfg.Pages.RedirectURL,
	}
}

// NotAuthorizedPageData maps page configuration onto the access-denied page.
func NotAuthorizedPageData(cfg *config.AppConfig) ports.NotAuthorizedPageData {
	return ports.NotAuthorizedPageData{
		RequestAccessEmail: cfg.Pages.RequestAccessEmail,
	}
}
