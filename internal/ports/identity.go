// Package ports defines interfaces (hexagonal ports) for identity and
// rendering behavior. Implementations live in internal/adapters and
// internal/http; orchestration in internal/service.
package ports

import (
	"context"

	domainauth "github.com/levino/pocketbase-auth-layer/internal/domain/auth"
)

// IdentityProvider is the external identity-provider boundary. It validates
// and refreshes session tokens and resolves group memberships. Implementations
// must be safe for concurrent use and hold no per-request state.
type IdentityProvider interface {
	// RefreshSession validates the token against the provider and returns the
	// refreshed session. A failed refresh (expiry, revocation, network error)
	// is returned as an error; callers treat it as terminal for the request.
	RefreshSession(ctx context.Context, token string) (domainauth.Session, error)

	// Groups fetches the group records scoped to the given principal id,
	// authenticated with the given session token.
	Groups(ctx context.Context, token, userID string) ([]domainauth.GroupRecord, error)
}
