package config

import (
	"fmt"
	"os"
	"strings"
)

// AppConfig is the main application configuration struct that composes
// domain-specific configuration from separate files.
//
// Configuration is loaded from environment variables using the
// github.com/caarlos0/env library. See individual domain config
// files for details on available environment variables:
//   - identity.go: Identity provider configuration
//   - cookie.go: Session cookie configuration
//   - http.go: HTTP server configuration
//   - pages.go: Login and access-denied page configuration
type AppConfig struct {
	// IsDev controls development mode behavior (debug logging, text output).
	// Set DEV=true or NODE_ENV=development for development mode.
	IsDev bool `env:"DEV" envDefault:"false"`

	// Identity provider configuration
	Identity IdentityConfig `envPrefix:"PB_"`

	// Session cookie configuration
	Cookie CookieConfig `envPrefix:"COOKIE_"`

	// HTTP server configuration
	HTTP HTTPConfig

	// Page configuration
	Pages PagesConfig `envPrefix:"PAGE_"`
}

// Sanitize applies guardrails to configuration values loaded from env.
// This should be called after loading configuration from environment variables.
func (c *AppConfig) Sanitize() {
	c.Identity.Sanitize()
	c.Cookie.Sanitize()
	c.HTTP.Sanitize()

	// Check NODE_ENV for dev mode
	c.detectDevMode()
}

// Validate rejects configurations that cannot serve any request.
func (c *AppConfig) Validate() error {
	if err := c.Identity.Validate(); err != nil {
		return fmt.Errorf("identity config: %w", err)
	}
	if err := c.Cookie.Validate(); err != nil {
		return fmt.Errorf("cookie config: %w", err)
	}
	return nil
}

// detectDevMode checks both DEV and NODE_ENV environment variables.
// This is called by Sanitize() to ensure IsDev is set correctly.
// NODE_ENV is checked as a fallback (common in frontend tooling).
func (c *AppConfig) detectDevMode() {
	if !c.IsDev {
		nodeEnv := strings.ToLower(os.Getenv("NODE_ENV"))
		c.IsDev = nodeEnv == "development" || nodeEnv == "dev"
	}
}
