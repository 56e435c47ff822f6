package httpx

import (
	"log/slog"
	"net/http"

	"github.com/levino/pocketbase-auth-layer/internal/cookie"
	"github.com/levino/pocketbase-auth-layer/internal/ports"
	"github.com/levino/pocketbase-auth-layer/internal/service"
)

// RouterServices holds everything the HTTP router needs.
type RouterServices struct {
	Auth           *service.AuthService
	Renderer       ports.PageRenderer
	Login          ports.LoginPageData
	NotAuthorized  ports.NotAuthorizedPageData
	CookieOptions  cookie.Options
	LogoutRedirect string

	// Protected is the handler guarded by the gate: typically a static file
	// server, or the host application's own handler chain. When nil,
	// protected paths return 404 after passing the gate.
	Protected http.Handler

	Logger *slog.Logger
}

// NewRouter wires the auth endpoints, the health check, and the gated
// catch-all. The API endpoints check their method themselves so wrong verbs
// get a JSON 405 rather than the mux default.
func NewRouter(s RouterServices) http.Handler {
	mux := http.NewServeMux()

	authHandlers := &AuthHandlers{
		CookieName:     s.Auth.CookieName(),
		CookieOptions:  s.CookieOptions,
		LogoutRedirect: s.LogoutRedirect,
		Logger:         s.Logger,
	}

	mux.HandleFunc("/api/cookie", authHandlers.SetCookie)
	mux.HandleFunc("POST /api/logout", authHandlers.Logout)
	mux.HandleFunc("GET /healthz", healthHandler)
	mux.HandleFunc("HEAD /healthz", healthHandler)

	protected := s.Protected
	if protected == nil {
		protected = http.NotFoundHandler()
	}

	gate := Gate(GateConfig{
		Auth:          s.Auth,
		Renderer:      s.Renderer,
		Login:         s.Login,
		NotAuthorized: s.NotAuthorized,
		Logger:        s.Logger,
	})
	mux.Handle("/", gate(protected))

	return mux
}
