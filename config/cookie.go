package config

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/net/publicsuffix"

	"github.com/levino/pocketbase-auth-layer/internal/cookie"
)

// SameSiteMode is the SameSite cookie attribute, parsed case-insensitively
// from the environment.
type SameSiteMode string

const (
	SameSiteNone   SameSiteMode = "None"
	SameSiteLax    SameSiteMode = "Lax"
	SameSiteStrict SameSiteMode = "Strict"
)

// UnmarshalText implements encoding.TextUnmarshaler for env parsing.
func (m *SameSiteMode) UnmarshalText(text []byte) error {
	switch strings.ToLower(strings.TrimSpace(string(text))) {
	case "none", "":
		*m = SameSiteNone
	case "lax":
		*m = SameSiteLax
	case "strict":
		*m = SameSiteStrict
	default:
		return fmt.Errorf("invalid SameSite mode %q (valid: none, lax, strict)", text)
	}
	return nil
}

// CookieConfig configures the session cookie's name and attributes.
// All variables carry the COOKIE_ prefix.
type CookieConfig struct {
	// Name is the session cookie name. PocketBase's JS SDK default.
	Name string `env:"NAME" envDefault:"pb_auth"`

	// Path scopes the cookie; defaults to the whole site.
	Path string `env:"PATH" envDefault:"/"`

	// Domain widens the cookie to a parent domain when set. Leave empty for
	// host-only cookies.
	Domain string `env:"DOMAIN"`

	// SameSite defaults to None so the cookie survives cross-site redirects
	// from the identity provider.
	SameSite SameSiteMode `env:"SAMESITE" envDefault:"none"`

	// MaxAge in seconds. 0 derives the lifetime from the session token's
	// expiry instead.
	MaxAge int `env:"MAX_AGE" envDefault:"0"`

	HTTPOnly bool `env:"HTTP_ONLY" envDefault:"true"`
	Secure   bool `env:"SECURE" envDefault:"true"`
}

// Sanitize applies cookie attribute guardrails.
func (c *CookieConfig) Sanitize() {
	if c.Name == "" {
		c.Name = "pb_auth"
	}
	if c.Path == "" {
		c.Path = "/"
	}
	if c.SameSite == "" {
		c.SameSite = SameSiteNone
	}
	// Browsers reject SameSite=None without Secure.
	if c.SameSite == SameSiteNone {
		c.Secure = true
	}
	if c.MaxAge < 0 {
		c.MaxAge = 0
	}
}

// Validate rejects cookie domains browsers would refuse or that would leak
// the session to unrelated sites.
func (c *CookieConfig) Validate() error {
	if c.Domain == "" {
		return nil
	}
	domain := strings.TrimPrefix(c.Domain, ".")
	if domain == "" {
		return errors.New("COOKIE_DOMAIN must name a host")
	}
	// A cookie scoped to a public suffix (com, co.uk, github.io) would be
	// shared across every site under it; registries and browsers both
	// reject that.
	if suffix, _ := publicsuffix.PublicSuffix(domain); suffix == domain {
		return fmt.Errorf("COOKIE_DOMAIN %q is a public suffix", c.Domain)
	}
	return nil
}

// Options converts the configuration into codec attributes.
func (c *CookieConfig) Options() cookie.Options {
	return cookie.Options{
		Path:     c.Path,
		Domain:   c.Domain,
		SameSite: string(c.SameSite),
		MaxAge:   c.MaxAge,
		HTTPOnly: c.HTTPOnly,
		Secure:   c.Secure,
	}
}
