// Package token performs local structural checks on session tokens before
// any network call. Session tokens are JWTs issued by the identity provider;
// signature verification belongs to the provider, so only shape and expiry
// are checked here.
package token

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

var parser = jwt.NewParser()

// Valid reports whether the token is a well-formed JWT that has not expired.
// Tokens without an exp claim are considered valid; the provider-side
// refresh is the authoritative check.
func Valid(tok string) bool {
	if tok == "" {
		return false
	}
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil {
		return false
	}
	if exp == nil {
		return true
	}
	return exp.After(time.Now())
}

// ExpiresAt returns the token's expiry, if it carries one.
func ExpiresAt(tok string) (time.Time, bool) {
	claims := jwt.MapClaims{}
	if _, _, err := parser.ParseUnverified(tok, claims); err != nil {
		return time.Time{}, false
	}
	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return time.Time{}, false
	}
	return exp.Time, true
}
