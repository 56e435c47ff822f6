package httpx

import (
	"encoding/base64"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levino/pocketbase-auth-layer/internal/cookie"
)

func newAuthHandlers() *AuthHandlers {
	return &AuthHandlers{
		CookieName:    "pb_auth",
		CookieOptions: cookie.DefaultOptions(),
	}
}

func TestSetCookie_Success(t *testing.T) {
	h := newAuthHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/cookie",
		strings.NewReader(`{"token": "valid-token"}`))
	w := httptest.NewRecorder()

	h.SetCookie(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	setCookie := w.Header().Get("Set-Cookie")
	require.NotEmpty(t, setCookie)
	assert.True(t, strings.HasPrefix(setCookie, "pb_auth="))
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "SameSite=None")
	assert.Contains(t, setCookie, "Secure")

	var body map[string]bool
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.True(t, body["success"])
}

func TestSetCookie_TokenRoundTripsThroughCodec(t *testing.T) {
	h := newAuthHandlers()
	token := "eyJhbGciOiJIUzI1NiJ9.eyJpZCI6InUxIn0.sig"

	req := httptest.NewRequest(http.MethodPost, "/api/cookie",
		strings.NewReader(`{"token": "`+token+`"}`))
	w := httptest.NewRecorder()

	h.SetCookie(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	pair, _, _ := strings.Cut(w.Header().Get("Set-Cookie"), "; ")
	assert.Equal(t, token, cookie.Parse(pair)["pb_auth"])
}

func TestSetCookie_DerivesMaxAgeFromTokenExpiry(t *testing.T) {
	h := newAuthHandlers()

	header := base64.RawURLEncoding.EncodeToString([]byte(`{"alg":"HS256","typ":"JWT"}`))
	payload, err := json.Marshal(map[string]any{
		"id":  "u1",
		"exp": time.Now().Add(time.Hour).Unix(),
	})
	require.NoError(t, err)
	token := header + "." + base64.RawURLEncoding.EncodeToString(payload) + ".sig"

	body, err := json.Marshal(map[string]string{"token": token})
	require.NoError(t, err)
	req := httptest.NewRequest(http.MethodPost, "/api/cookie", strings.NewReader(string(body)))
	w := httptest.NewRecorder()

	h.SetCookie(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Set-Cookie"), "Max-Age=")
}

func TestSetCookie_EmptyBody(t *testing.T) {
	h := newAuthHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/cookie", strings.NewReader(""))
	w := httptest.NewRecorder()

	h.SetCookie(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Empty(t, w.Header().Get("Set-Cookie"))
}

func TestSetCookie_MissingToken(t *testing.T) {
	h := newAuthHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/cookie", strings.NewReader(`{}`))
	w := httptest.NewRecorder()

	h.SetCookie(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "token_required", body["error"])
}

func TestSetCookie_WrongMethod(t *testing.T) {
	h := newAuthHandlers()

	req := httptest.NewRequest(http.MethodGet, "/api/cookie", nil)
	w := httptest.NewRecorder()

	h.SetCookie(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestLogout(t *testing.T) {
	h := newAuthHandlers()

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	req.Header.Set("Cookie", "pb_auth=existing-token")
	w := httptest.NewRecorder()

	h.Logout(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/", w.Header().Get("Location"))

	setCookie := w.Header().Get("Set-Cookie")
	assert.True(t, strings.HasPrefix(setCookie, "pb_auth=;"))
	assert.Contains(t, setCookie, "Path=/")
	assert.Contains(t, setCookie, "HttpOnly")
	assert.Contains(t, setCookie, "SameSite=None")
	assert.Contains(t, setCookie, "Secure")
	assert.Contains(t, setCookie, "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
}

func TestLogout_IdempotentWithoutCookie(t *testing.T) {
	h := newAuthHandlers()

	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
		w := httptest.NewRecorder()

		h.Logout(w, req)

		assert.Equal(t, http.StatusFound, w.Code)
		assert.Equal(t, "/", w.Header().Get("Location"))
		assert.Contains(t, w.Header().Get("Set-Cookie"), "Expires=Thu, 01 Jan 1970 00:00:00 GMT")
	}
}

func TestLogout_CustomRedirect(t *testing.T) {
	h := newAuthHandlers()
	h.LogoutRedirect = "/goodbye"

	req := httptest.NewRequest(http.MethodPost, "/api/logout", nil)
	w := httptest.NewRecorder()

	h.Logout(w, req)

	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, "/goodbye", w.Header().Get("Location"))
}
