// Package identity contains test doubles for the IdentityProvider port.
// The stub here is a lightweight hand-written double; provider_mock.go holds
// the MockGen-generated mock for expectation-style tests.
package identity

import (
	"context"
	"errors"

	domainauth "github.com/levino/pocketbase-auth-layer/internal/domain/auth"
	"github.com/levino/pocketbase-auth-layer/internal/ports"
)

// Ensure compile-time conformance to the port.
var _ ports.IdentityProvider = (*ProviderStub)(nil)

// ProviderStub simulates an identity provider for tests. Override the Func
// fields per test; unset funcs fall back to a deterministic default user.
// Call counters allow asserting that no network call happened.
type ProviderStub struct {
	RefreshFunc func(ctx context.Context, token string) (domainauth.Session, error)
	GroupsFunc  func(ctx context.Context, token, userID string) ([]domainauth.GroupRecord, error)

	RefreshCalls int
	GroupsCalls  int
}

// DefaultPrincipal is the identity the stub returns when RefreshFunc is unset.
var DefaultPrincipal = domainauth.Principal{ID: "user1", Email: "user@example.com"}

func (p *ProviderStub) RefreshSession(ctx context.Context, token string) (domainauth.Session, error) {
	p.RefreshCalls++
	if p.RefreshFunc != nil {
		return p.RefreshFunc(ctx, token)
	}
	if token == "" {
		return domainauth.Session{}, errors.New("missing token")
	}
	return domainauth.Session{Token: token, Principal: DefaultPrincipal}, nil
}

func (p *ProviderStub) Groups(ctx context.Context, token, userID string) ([]domainauth.GroupRecord, error) {
	p.GroupsCalls++
	if p.GroupsFunc != nil {
		return p.GroupsFunc(ctx, token, userID)
	}
	return []domainauth.GroupRecord{
		{ID: "g1", Name: "members", Fields: map[string]any{"members": true}},
	}, nil
}
