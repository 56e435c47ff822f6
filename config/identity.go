package config

import (
	"errors"
	"fmt"
	"net/url"
	"time"
)

const (
	minIdentityTimeout = 1 * time.Second
	maxIdentityTimeout = 30 * time.Second
)

// IdentityConfig configures the PocketBase identity provider connection.
// All variables carry the PB_ prefix.
type IdentityConfig struct {
	// URL is the base URL of the PocketBase instance. Required.
	URL string `env:"URL"`

	// MicrosoftURL is an optional second PocketBase base URL used only for
	// Microsoft logins. Falls back to URL when empty.
	MicrosoftURL string `env:"URL_MICROSOFT"`

	// AuthCollection is the PocketBase auth collection holding users.
	AuthCollection string `env:"AUTH_COLLECTION" envDefault:"users"`

	// GroupCollection is the collection queried for group membership.
	GroupCollection string `env:"GROUP_COLLECTION" envDefault:"groups"`

	// GroupField is the field on a group record that grants access when
	// boolean true. May address nested fields ("flags.active_member").
	GroupField string `env:"GROUP_FIELD" envDefault:"members"`

	// Timeout bounds each provider call. Refreshes and group fetches that
	// exceed it are treated as failures, never retried.
	Timeout time.Duration `env:"TIMEOUT" envDefault:"5s"`
}

// Sanitize clamps the provider timeout to a sane range.
func (c *IdentityConfig) Sanitize() {
	if c.Timeout < minIdentityTimeout {
		c.Timeout = minIdentityTimeout
	}
	if c.Timeout > maxIdentityTimeout {
		c.Timeout = maxIdentityTimeout
	}
}

// Validate checks that the provider is reachable in principle.
func (c *IdentityConfig) Validate() error {
	if c.URL == "" {
		return errors.New("PB_URL is required")
	}
	for name, raw := range map[string]string{"PB_URL": c.URL, "PB_URL_MICROSOFT": c.MicrosoftURL} {
		if raw == "" {
			continue
		}
		u, err := url.Parse(raw)
		if err != nil || u.Scheme == "" || u.Host == "" {
			return fmt.Errorf("%s must be an absolute URL, got %q", name, raw)
		}
	}
	if c.GroupField == "" {
		return errors.New("PB_GROUP_FIELD must not be empty")
	}
	return nil
}
