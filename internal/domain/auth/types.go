// Package auth contains domain-level types for session authentication and
// group authorization. It is pure and free of framework/adapter concerns.
package auth

// Principal is the authenticated user's identity as returned by the
// identity provider. It is reconstructed on every request and never cached.
type Principal struct {
	ID    string
	Email string
}

// Session is the result of refreshing a session token against the identity
// provider: the (possibly rotated) token plus the principal it belongs to.
type Session struct {
	Token     string
	Principal Principal
}

// GroupRecord is one group-membership record from the identity provider.
// Fields holds the raw record attributes; the authorization flag is a
// data-driven boolean field looked up by its configured name.
type GroupRecord struct {
	ID     string
	Name   string
	Fields map[string]any
}

// Reason explains why a Decision denied authentication or authorization.
type Reason string

const (
	ReasonNoCookie         Reason = "no_cookie"
	ReasonInvalidCookie    Reason = "invalid_cookie"
	ReasonRefreshFailed    Reason = "refresh_failed"
	ReasonNoUserRecord     Reason = "no_user_record"
	ReasonGroupCheckFailed Reason = "group_check_failed"
	ReasonNotInGroup       Reason = "not_in_group"
)

// Decision is the outcome of the per-request auth check. All downstream
// dispatch (proceed, login page, not-authorized page) depends on it.
// Authorized is never true unless Authenticated is true.
type Decision struct {
	Authenticated bool
	Authorized    bool
	Principal     *Principal
	Groups        []GroupRecord
	Reason        Reason
}

// Denied returns an unauthenticated Decision with the given reason.
func Denied(reason Reason) Decision {
	return Decision{Reason: reason}
}

// NotAuthorized returns an authenticated-but-unauthorized Decision for p.
func NotAuthorized(p Principal, reason Reason) Decision {
	return Decision{Authenticated: true, Principal: &p, Reason: reason}
}

// Granted returns a fully authorized Decision carrying the principal and
// the group records that granted access.
func Granted(p Principal, groups []GroupRecord) Decision {
	return Decision{
		Authenticated: true,
		Authorized:    true,
		Principal:     &p,
		Groups:        groups,
	}
}
