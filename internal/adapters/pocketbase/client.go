// Package pocketbase implements the IdentityProvider port against a
// PocketBase-shaped REST API: auth-refresh for session validation and a
// filtered records list for group membership.
package pocketbase

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/oauth2"

	domainauth "github.com/levino/pocketbase-auth-layer/internal/domain/auth"
	"github.com/levino/pocketbase-auth-layer/internal/ports"
)

const defaultTimeout = 5 * time.Second

// groupPageSize caps how many group records a single membership query
// returns. Membership sets are tiny in practice; there is no pagination.
const groupPageSize = 200

// Config holds configuration for the PocketBase client.
type Config struct {
	// BaseURL is the root URL of the PocketBase instance.
	BaseURL string

	// AuthCollection is the auth collection name (default "users").
	AuthCollection string

	// GroupCollection is the group collection name (default "groups").
	GroupCollection string

	// Timeout bounds each provider call (default 5s). A timeout surfaces as
	// a plain error; callers fold it into the refresh-failed outcome.
	Timeout time.Duration

	// HTTPClient overrides the transport, mainly for tests.
	HTTPClient *http.Client
}

// Client talks to one PocketBase instance. It holds no session state; the
// token for each call comes from the request being served, so a single
// Client is safely shared across concurrent requests.
type Client struct {
	baseURL         string
	authCollection  string
	groupCollection string
	timeout         time.Duration
	httpClient      *http.Client
}

var _ ports.IdentityProvider = (*Client)(nil)

// NewClient creates a PocketBase client from cfg.
func NewClient(cfg Config) (*Client, error) {
	if cfg.BaseURL == "" {
		return nil, errors.New("base URL is required")
	}
	u, err := url.Parse(cfg.BaseURL)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid base URL %q", cfg.BaseURL)
	}

	authCollection := cfg.AuthCollection
	if authCollection == "" {
		authCollection = "users"
	}
	groupCollection := cfg.GroupCollection
	if groupCollection == "" {
		groupCollection = "groups"
	}
	timeout := cfg.Timeout
	if timeout <= 0 {
		timeout = defaultTimeout
	}
	httpClient := cfg.HTTPClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: timeout}
	}

	return &Client{
		baseURL:         strings.TrimSuffix(cfg.BaseURL, "/"),
		authCollection:  authCollection,
		groupCollection: groupCollection,
		timeout:         timeout,
		httpClient:      httpClient,
	}, nil
}

// refreshResponse mirrors the auth-refresh payload.
type refreshResponse struct {
	Token  string `json:"token"`
	Record struct {
		ID    string `json:"id"`
		Email string `json:"email"`
	} `json:"record"`
}

// listResponse mirrors a records list payload.
type listResponse struct {
	Items []map[string]any `json:"items"`
}

// apiError mirrors PocketBase's error body.
type apiError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (c *Client) RefreshSession(ctx context.Context, tok string) (domainauth.Session, error) {
	endpoint := fmt.Sprintf("%s/api/collections/%s/auth-refresh", c.baseURL, c.authCollection)

	var out refreshResponse
	if err := c.call(ctx, callParams{Method: http.MethodPost, URL: endpoint, Token: tok}, &out); err != nil {
		return domainauth.Session{}, fmt.Errorf("auth refresh: %w", err)
	}

	refreshed := out.Token
	if refreshed == "" {
		refreshed = tok
	}
	return domainauth.Session{
		Token: refreshed,
		Principal: domainauth.Principal{
			ID:    out.Record.ID,
			Email: out.Record.Email,
		},
	}, nil
}

func (c *Client) Groups(ctx context.Context, tok, userID string) ([]domainauth.GroupRecord, error) {
	if strings.ContainsAny(userID, `"'\`) {
		return nil, fmt.Errorf("invalid user id %q", userID)
	}

	query := url.Values{}
	query.Set("filter", fmt.Sprintf("users.id ?= %q", userID))
	query.Set("perPage", fmt.Sprint(groupPageSize))
	endpoint := fmt.Sprintf("%s/api/collections/%s/records?%s",
		c.baseURL, c.groupCollection, query.Encode())

	var out listResponse
	if err := c.call(ctx, callParams{Method: http.MethodGet, URL: endpoint, Token: tok}, &out); err != nil {
		return nil, fmt.Errorf("list groups: %w", err)
	}

	groups := make([]domainauth.GroupRecord, 0, len(out.Items))
	for _, item := range out.Items {
		groups = append(groups, domainauth.GroupRecord{
			ID:     stringField(item, "id"),
			Name:   stringField(item, "name"),
			Fields: item,
		})
	}
	return groups, nil
}

// callParams groups parameters for a single provider call.
type callParams struct {
	Method string
	URL    string
	Token  string
}

// call performs one authenticated provider request and decodes the JSON
// response into dst. The session token rides as a bearer credential via an
// oauth2 static token source, and every call is bounded by the configured
// timeout.
func (c *Client) call(ctx context.Context, p callParams, dst any) error {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)
	authed := oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{
		AccessToken: p.Token,
		TokenType:   "Bearer",
	}))

	req, err := http.NewRequestWithContext(ctx, p.Method, p.URL, nil)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	req.Header.Set("Accept", "application/json")

	resp, err := authed.Do(req)
	if err != nil {
		return fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // read-only body

	body, err := io.ReadAll(io.LimitReader(resp.Body, 1<<20))
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		var apiErr apiError
		if json.Unmarshal(body, &apiErr) == nil && apiErr.Message != "" {
			return fmt.Errorf("provider returned %d: %s", resp.StatusCode, apiErr.Message)
		}
		return fmt.Errorf("provider returned %d", resp.StatusCode)
	}

	if err := json.Unmarshal(body, dst); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

func stringField(m map[string]any, key string) string {
	if s, ok := m[key].(string); ok {
		return s
	}
	return ""
}
