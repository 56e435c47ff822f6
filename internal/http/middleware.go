package httpx

import (
	"log/slog"
	"net/http"
	"runtime/debug"
	"time"

	"github.com/google/uuid"

	"github.com/levino/pocketbase-auth-layer/internal/ports"
	"github.com/levino/pocketbase-auth-layer/internal/service"
)

// Logging returns a middleware that logs HTTP requests and responses with a
// per-request id.
func Logging(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			requestID := uuid.NewString()
			const defaultHTTPStatus = 200
			ww := &respWriter{ResponseWriter: w, status: defaultHTTPStatus}
			next.ServeHTTP(ww, r)
			logger.Info("http",
				slog.String("request_id", requestID),
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.Int("status", ww.status),
				slog.Duration("duration", time.Since(start)),
			)
		})
	}
}

type respWriter struct {
	http.ResponseWriter
	status int
}

func (w *respWriter) WriteHeader(status int) {
	w.status = status
	w.ResponseWriter.WriteHeader(status)
}

// Recover returns a middleware that recovers from panics and logs them.
func Recover(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if err := recover(); err != nil {
					logger.Error("panic",
						slog.Any("error", err),
						slog.String("path", r.URL.Path),
						slog.String("method", r.Method),
						slog.String("stack", string(debug.Stack())))
					http.Error(w, "Internal Server Error", http.StatusInternalServerError)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// GateConfig groups the dependencies of the gate middleware.
type GateConfig struct {
	Auth          *service.AuthService
	Renderer      ports.PageRenderer
	Login         ports.LoginPageData
	NotAuthorized ports.NotAuthorizedPageData
	Logger        *slog.Logger
}

// Gate returns the middleware that enforces the auth decision on protected
// routes. Unauthenticated requests get the login page (401), authenticated
// but unauthorized ones the not-authorized page (403); authorized requests
// proceed with the principal placed in the request context.
func Gate(cfg GateConfig) func(http.Handler) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}

	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			decision := cfg.Auth.Decide(r.Context(), r.Header.Get("Cookie"))

			switch {
			case !decision.Authenticated:
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusUnauthorized)
				if err := cfg.Renderer.LoginPage(w, cfg.Login); err != nil {
					logger.ErrorContext(r.Context(), "render login page failed", "error", err)
				}

			case !decision.Authorized:
				data := cfg.NotAuthorized
				if decision.Principal != nil {
					data.Email = decision.Principal.Email
				}
				w.Header().Set("Content-Type", "text/html; charset=utf-8")
				w.WriteHeader(http.StatusForbidden)
				if err := cfg.Renderer.NotAuthorizedPage(w, data); err != nil {
					logger.ErrorContext(r.Context(), "render not-authorized page failed", "error", err)
				}

			default:
				ctx := SetPrincipalInContext(r.Context(), decision.Principal)
				next.ServeHTTP(w, r.WithContext(ctx))
			}
		})
	}
}
