package config

import (
	"testing"
	"time"

	env "github.com/caarlos0/env/v11"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func parseConfig(t *testing.T) AppConfig {
	t.Helper()
	var cfg AppConfig
	require.NoError(t, env.Parse(&cfg))
	cfg.Sanitize()
	return cfg
}

func TestDefaults(t *testing.T) {
	cfg := parseConfig(t)

	assert.False(t, cfg.IsDev)
	assert.Equal(t, "users", cfg.Identity.AuthCollection)
	assert.Equal(t, "groups", cfg.Identity.GroupCollection)
	assert.Equal(t, "members", cfg.Identity.GroupField)
	assert.Equal(t, 5*time.Second, cfg.Identity.Timeout)

	assert.Equal(t, "pb_auth", cfg.Cookie.Name)
	assert.Equal(t, "/", cfg.Cookie.Path)
	assert.Equal(t, SameSiteNone, cfg.Cookie.SameSite)
	assert.True(t, cfg.Cookie.HTTPOnly)
	assert.True(t, cfg.Cookie.Secure)

	assert.Equal(t, ":8080", cfg.HTTP.Addr)
	assert.Equal(t, "/", cfg.HTTP.LogoutRedirect)
	assert.Equal(t, []string{"github", "google", "microsoft"}, cfg.Pages.Providers)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("PB_URL", "https://pb.example.com")
	t.Setenv("PB_GROUP_FIELD", "flags.active_member")
	t.Setenv("COOKIE_NAME", "session")
	t.Setenv("COOKIE_SAMESITE", "lax")
	t.Setenv("PAGE_PROVIDERS", "github;google")
	t.Setenv("HTTP_ADDR", ":9000")

	cfg := parseConfig(t)

	assert.Equal(t, "https://pb.example.com", cfg.Identity.URL)
	assert.Equal(t, "flags.active_member", cfg.Identity.GroupField)
	assert.Equal(t, "session", cfg.Cookie.Name)
	assert.Equal(t, SameSiteLax, cfg.Cookie.SameSite)
	assert.Equal(t, []string{"github", "google"}, cfg.Pages.Providers)
	assert.Equal(t, ":9000", cfg.HTTP.Addr)
}

func TestDetectDevMode(t *testing.T) {
	t.Setenv("NODE_ENV", "development")

	cfg := parseConfig(t)

	assert.True(t, cfg.IsDev)
}

func TestSanitize(t *testing.T) {
	t.Run("clamps identity timeout", func(t *testing.T) {
		c := IdentityConfig{Timeout: 0}
		c.Sanitize()
		assert.Equal(t, minIdentityTimeout, c.Timeout)

		c = IdentityConfig{Timeout: time.Minute}
		c.Sanitize()
		assert.Equal(t, maxIdentityTimeout, c.Timeout)
	})

	t.Run("samesite none forces secure", func(t *testing.T) {
		c := CookieConfig{SameSite: SameSiteNone, Secure: false}
		c.Sanitize()
		assert.True(t, c.Secure)
	})

	t.Run("lax keeps secure off", func(t *testing.T) {
		c := CookieConfig{SameSite: SameSiteLax, Secure: false}
		c.Sanitize()
		assert.False(t, c.Secure)
	})

	t.Run("negative max-age dropped", func(t *testing.T) {
		c := CookieConfig{MaxAge: -5}
		c.Sanitize()
		assert.Equal(t, 0, c.MaxAge)
	})
}

func TestSameSiteMode_UnmarshalText(t *testing.T) {
	cases := map[string]SameSiteMode{
		"none":   SameSiteNone,
		"None":   SameSiteNone,
		"LAX":    SameSiteLax,
		"strict": SameSiteStrict,
		"":       SameSiteNone,
	}
	for input, want := range cases {
		var m SameSiteMode
		require.NoError(t, m.UnmarshalText([]byte(input)), "input %q", input)
		assert.Equal(t, want, m, "input %q", input)
	}

	var m SameSiteMode
	assert.Error(t, m.UnmarshalText([]byte("bogus")))
}

func TestValidate(t *testing.T) {
	t.Run("missing provider url", func(t *testing.T) {
		cfg := parseConfig(t)
		assert.ErrorContains(t, cfg.Validate(), "PB_URL is required")
	})

	t.Run("relative provider url", func(t *testing.T) {
		t.Setenv("PB_URL", "pb.example.com/no-scheme")
		cfg := parseConfig(t)
		assert.ErrorContains(t, cfg.Validate(), "absolute URL")
	})

	t.Run("public suffix cookie domain", func(t *testing.T) {
		t.Setenv("PB_URL", "https://pb.example.com")
		t.Setenv("COOKIE_DOMAIN", "co.uk")
		cfg := parseConfig(t)
		assert.ErrorContains(t, cfg.Validate(), "public suffix")
	})

	t.Run("registrable cookie domain", func(t *testing.T) {
		t.Setenv("PB_URL", "https://pb.example.com")
		t.Setenv("COOKIE_DOMAIN", ".example.com")
		cfg := parseConfig(t)
		assert.NoError(t, cfg.Validate())
	})
}

func TestCookieOptions(t *testing.T) {
	c := CookieConfig{Name: "pb_auth", Path: "/app", Domain: "example.com",
		SameSite: SameSiteStrict, MaxAge: 3600, HTTPOnly: true, Secure: true}

	opts := c.Options()

	assert.Equal(t, "/app", opts.Path)
	assert.Equal(t, "example.com", opts.Domain)
	assert.Equal(t, "Strict", opts.SameSite)
	assert.Equal(t, 3600, opts.MaxAge)
	assert.True(t, opts.HTTPOnly)
	assert.True(t, opts.Secure)
}
