package config

import "time"

// HTTPConfig contains HTTP server configuration.
type HTTPConfig struct {
	// Addr is the address to bind the HTTP server to.
	Addr string `env:"HTTP_ADDR" envDefault:":8080"`

	// StaticDir is the directory served behind the gate. Empty disables
	// static serving (API-only mode).
	StaticDir string `env:"STATIC_DIR" envDefault:""`

	// TemplatesDir overrides the built-in login and access-denied pages
	// with host templates loaded from this directory.
	TemplatesDir string `env:"TEMPLATES_DIR" envDefault:""`

	// LogoutRedirect is where /api/logout sends the browser.
	LogoutRedirect string `env:"LOGOUT_REDIRECT" envDefault:"/"`

	// ShutdownTimeout bounds graceful shutdown on SIGINT/SIGTERM.
	ShutdownTimeout time.Duration `env:"HTTP_SHUTDOWN_TIMEOUT" envDefault:"10s"`
}

// Sanitize applies guardrails to HTTP configuration values.
func (h *HTTPConfig) Sanitize() {
	if h.Addr == "" {
		h.Addr = ":8080"
	}
	if h.LogoutRedirect == "" {
		h.LogoutRedirect = "/"
	}
	if h.ShutdownTimeout <= 0 {
		h.ShutdownTimeout = 10 * time.Second
	}
}
