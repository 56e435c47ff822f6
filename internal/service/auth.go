package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	jmespath "github.com/jmespath-community/go-jmespath"

	"github.com/levino/pocketbase-auth-layer/internal/cookie"
	domainauth "github.com/levino/pocketbase-auth-layer/internal/domain/auth"
	"github.com/levino/pocketbase-auth-layer/internal/ports"
	"github.com/levino/pocketbase-auth-layer/internal/token"
)

// GroupFieldEvaluator abstracts the group-field lookup for testability. The
// field name is a data-driven string key (possibly a nested expression), not
// a statically-typed field.
type GroupFieldEvaluator interface {
	Validate(expr string) error
	Evaluate(expr string, data any) (any, error)
}

// jmespathEvaluator implements GroupFieldEvaluator using go-jmespath. Plain
// field names like "members" are valid JMESPath identifiers, so simple
// configurations work unchanged while nested lookups stay possible.
type jmespathEvaluator struct{}

func (j jmespathEvaluator) Validate(expr string) error {
	if strings.TrimSpace(expr) == "" {
		return errors.New("group field is required")
	}
	_, err := jmespath.Compile(expr)
	return err
}

func (j jmespathEvaluator) Evaluate(expr string, data any) (any, error) {
	return jmespath.Search(expr, data)
}

// AuthServiceOptions groups dependencies for AuthService.
type AuthServiceOptions struct {
	Provider   ports.IdentityProvider
	CookieName string
	GroupField string
	Evaluator  GroupFieldEvaluator // optional; defaults to JMESPath
	Logger     *slog.Logger        // optional
}

// AuthService runs the per-request auth decision: cookie → token → provider
// refresh → group check. It holds no mutable state and is safe for
// concurrent use; every request is re-decided from scratch.
type AuthService struct {
	provider   ports.IdentityProvider
	cookieName string
	groupField string
	eval       GroupFieldEvaluator
	logger     *slog.Logger
}

// NewAuthService constructs an AuthService, validating the group-field
// expression up front.
func NewAuthService(opts AuthServiceOptions) (*AuthService, error) {
	if opts.Provider == nil {
		return nil, errors.New("identity provider is required")
	}
	if opts.CookieName == "" {
		return nil, errors.New("cookie name is required")
	}

	eval := opts.Evaluator
	if eval == nil {
		eval = jmespathEvaluator{}
	}
	if err := eval.Validate(opts.GroupField); err != nil {
		return nil, fmt.Errorf("invalid group field %q: %w", opts.GroupField, err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return &AuthService{
		provider:   opts.Provider,
		cookieName: opts.CookieName,
		groupField: opts.GroupField,
		eval:       eval,
		logger:     logger,
	}, nil
}

// CookieName returns the session cookie name the service looks for.
func (s *AuthService) CookieName() string { return s.cookieName }

// Decide maps a raw Cookie header to an auth decision.
//
// Structurally invalid tokens are rejected before any network call. Provider
// failures are terminal for the current request and never retried: a failed
// refresh yields an unauthenticated decision, a failed group fetch yields an
// authenticated-but-unauthorized one (fail closed).
func (s *AuthService) Decide(ctx context.Context, cookieHeader string) domainauth.Decision {
	tok := cookie.Get(cookieHeader, s.cookieName)
	if tok == "" {
		return domainauth.Denied(domainauth.ReasonNoCookie)
	}

	if !token.Valid(tok) {
		return domainauth.Denied(domainauth.ReasonInvalidCookie)
	}

	sess, err := s.provider.RefreshSession(ctx, tok)
	if err != nil {
		s.logger.DebugContext(ctx, "session refresh failed", "error", err)
		return domainauth.Denied(domainauth.ReasonRefreshFailed)
	}

	if sess.Principal.ID == "" {
		return domainauth.Denied(domainauth.ReasonNoUserRecord)
	}

	groups, err := s.provider.Groups(ctx, sess.Token, sess.Principal.ID)
	if err != nil {
		s.logger.WarnContext(ctx, "group lookup failed",
			"user_id", sess.Principal.ID, "error", err)
		return domainauth.NotAuthorized(sess.Principal, domainauth.ReasonGroupCheckFailed)
	}

	if !s.memberOf(ctx, groups) {
		return domainauth.NotAuthorized(sess.Principal, domainauth.ReasonNotInGroup)
	}

	return domainauth.Granted(sess.Principal, groups)
}

// memberOf reports whether at least one group record carries the configured
// field set to boolean true. Zero groups means not authorized, not an error.
func (s *AuthService) memberOf(ctx context.Context, groups []domainauth.GroupRecord) bool {
	for _, g := range groups {
		v, err := s.eval.Evaluate(s.groupField, g.Fields)
		if err != nil {
			s.logger.WarnContext(ctx, "group field evaluation failed",
				"group", g.ID, "field", s.groupField, "error", err)
			continue
		}
		if flag, ok := v.(bool); ok && flag {
			return true
		}
	}
	return false
}
