package httpx

import (
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/levino/pocketbase-auth-layer/internal/cookie"
	"github.com/levino/pocketbase-auth-layer/internal/token"
)

// AuthHandlers provides the HTTP endpoints of the auth gate: the token-to-
// cookie exchange and logout.
type AuthHandlers struct {
	CookieName     string
	CookieOptions  cookie.Options
	LogoutRedirect string
	Logger         *slog.Logger
}

func (h *AuthHandlers) logger() *slog.Logger {
	if h != nil && h.Logger != nil {
		return h.Logger
	}
	return slog.Default()
}

// cookieRequest is the body of the cookie-set endpoint.
type cookieRequest struct {
	Token string `json:"token"`
}

// SetCookie handles POST /api/cookie. It exchanges a provider-issued bearer
// token for an HTTP-only session cookie. The token is deliberately not
// validated against the provider here: the next protected request re-decides
// it anyway, and skipping the check avoids a second network call per login.
func (h *AuthHandlers) SetCookie(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		WriteError(w, ErrorParams{
			Code:    http.StatusMethodNotAllowed,
			ErrCode: "method_not_allowed",
			Err:     errors.New("method not allowed"),
		})
		return
	}

	var body cookieRequest
	if !DecodeJSON(w, r, &body) {
		return
	}
	if body.Token == "" {
		WriteError(w, ErrorParams{
			Code:    http.StatusBadRequest,
			ErrCode: "token_required",
			Err:     errors.New("token is required"),
		})
		return
	}

	opts := h.CookieOptions
	if opts.MaxAge == 0 {
		// Align the cookie lifetime with the token's own expiry, like the
		// provider SDK's cookie export does.
		if exp, ok := token.ExpiresAt(body.Token); ok {
			if ttl := int(time.Until(exp).Seconds()); ttl > 0 {
				opts.MaxAge = ttl
			}
		}
	}

	w.Header().Set("Set-Cookie", cookie.Build(h.CookieName, body.Token, opts))
	WriteJSON(w, http.StatusOK, map[string]bool{"success": true})
}

// Logout handles POST /api/logout. It expires the session cookie and
// redirects. Idempotent: the response is identical with or without an
// existing cookie.
func (h *AuthHandlers) Logout(w http.ResponseWriter, r *http.Request) {
	redirect := h.LogoutRedirect
	if redirect == "" {
		redirect = "/"
	}

	w.Header().Set("Set-Cookie", cookie.BuildExpired(h.CookieName, h.CookieOptions))
	http.Redirect(w, r, redirect, http.StatusFound)
}
