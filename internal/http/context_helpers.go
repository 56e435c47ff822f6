package httpx

import (
	"context"

	domainauth "github.com/levino/pocketbase-auth-layer/internal/domain/auth"
)

// principalKey is an unexported context key type to avoid collisions across
// packages. Centralized here so gate middleware and handlers share one key.
type principalKey struct{}

// SetPrincipalInContext returns a child context carrying the authenticated
// principal. If principal is nil, the original ctx is returned unchanged.
func SetPrincipalInContext(ctx context.Context, principal *domainauth.Principal) context.Context {
	if principal == nil {
		return ctx
	}
	return context.WithValue(ctx, principalKey{}, principal)
}

// PrincipalFromContext returns the authenticated principal and a boolean
// indicating presence. Only requests that passed the gate carry one.
func PrincipalFromContext(ctx context.Context) (*domainauth.Principal, bool) {
	if p, ok := ctx.Value(principalKey{}).(*domainauth.Principal); ok && p != nil {
		return p, true
	}
	return nil, false
}
