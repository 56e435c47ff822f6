// Package edge adapts the auth gate to function-style hosting platforms
// that model a request filter as handle(request) -> response-or-nil. A nil
// response tells the platform to serve the origin content unchanged; a
// non-nil response is returned to the client instead.
package edge

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/levino/pocketbase-auth-layer/internal/cookie"
	httpx "github.com/levino/pocketbase-auth-layer/internal/http"
	"github.com/levino/pocketbase-auth-layer/internal/ports"
	"github.com/levino/pocketbase-auth-layer/internal/service"
)

// Request is the platform-neutral shape of an incoming request. Path may
// carry a query string.
type Request struct {
	Method string
	Path   string
	Header http.Header
	Body   []byte
}

// Response is what the platform should send to the client. Handlers that
// want the origin to answer return nil instead.
type Response struct {
	StatusCode int
	Header     http.Header
	Body       []byte
}

// Options configures a Handler. Auth and Renderer are required.
type Options struct {
	Auth           *service.AuthService
	Renderer       ports.PageRenderer
	Login          ports.LoginPageData
	NotAuthorized  ports.NotAuthorizedPageData
	CookieOptions  cookie.Options
	LogoutRedirect string
	Logger         *slog.Logger
}

// Handler runs the gate's routing over platform requests.
type Handler struct {
	router http.Handler
}

// New builds an edge Handler around the same router the HTTP server uses.
func New(opts Options) (*Handler, error) {
	if opts.Auth == nil {
		return nil, errors.New("auth service is required")
	}
	if opts.Renderer == nil {
		return nil, errors.New("page renderer is required")
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	router := httpx.NewRouter(httpx.RouterServices{
		Auth:           opts.Auth,
		Renderer:       opts.Renderer,
		Login:          opts.Login,
		NotAuthorized:  opts.NotAuthorized,
		CookieOptions:  opts.CookieOptions,
		LogoutRedirect: opts.LogoutRedirect,
		Protected:      http.HandlerFunc(markProceed),
		Logger:         logger,
	})
	return &Handler{router: httpx.Recover(logger)(router)}, nil
}

// Handle decides one request. It returns (nil, nil) when the caller should
// proceed to the origin, which happens exactly when the request carried an
// authorized session and targeted no gate endpoint.
func (h *Handler) Handle(ctx context.Context, req Request) (*Response, error) {
	httpReq, err := toHTTPRequest(ctx, req)
	if err != nil {
		return nil, err
	}

	var proceed bool
	httpReq = httpReq.WithContext(withProceed(httpReq.Context(), &proceed))

	rec := newRecorder()
	h.router.ServeHTTP(rec, httpReq)

	if proceed {
		return nil, nil
	}
	return rec.response(), nil
}

func toHTTPRequest(ctx context.Context, req Request) (*http.Request, error) {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}
	path := req.Path
	if path == "" {
		path = "/"
	}
	u, err := url.ParseRequestURI(path)
	if err != nil {
		return nil, fmt.Errorf("parse request path: %w", err)
	}

	var body io.Reader
	if len(req.Body) > 0 {
		body = bytes.NewReader(req.Body)
	}
	httpReq, err := http.NewRequestWithContext(ctx, method, u.String(), body)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	for name, values := range req.Header {
		for _, v := range values {
			httpReq.Header.Add(name, v)
		}
	}
	return httpReq, nil
}

type proceedKey struct{}

func withProceed(ctx context.Context, flag *bool) context.Context {
	return context.WithValue(ctx, proceedKey{}, flag)
}

// markProceed stands in for the origin: reaching it means the gate let the
// request through, so the platform should serve the real content.
func markProceed(_ http.ResponseWriter, r *http.Request) {
	if flag, ok := r.Context().Value(proceedKey{}).(*bool); ok {
		*flag = true
	}
}

// recorder captures a handler's output without a network connection.
type recorder struct {
	status int
	header http.Header
	body   bytes.Buffer
}

func newRecorder() *recorder {
	return &recorder{header: make(http.Header)}
}

func (r *recorder) Header() http.Header { return r.header }

func (r *recorder) Write(p []byte) (int, error) {
	if r.status == 0 {
		r.status = http.StatusOK
	}
	return r.body.Write(p)
}

func (r *recorder) WriteHeader(status int) {
	if r.status == 0 {
		r.status = status
	}
}

func (r *recorder) response() *Response {
	status := r.status
	if status == 0 {
		status = http.StatusOK
	}
	return &Response{
		StatusCode: status,
		Header:     r.header,
		Body:       r.body.Bytes(),
	}
}
