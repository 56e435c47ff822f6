package httpx

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"strings"

	"github.com/levino/pocketbase-auth-layer/internal/ports"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

const (
	loginTemplate         = "login.html.tmpl"
	notAuthorizedTemplate = "not_authorized.html.tmpl"
)

var templateFuncs = template.FuncMap{
	"providerLabel": providerLabel,
}

// providerLabel maps a provider slug to its button label.
func providerLabel(provider string) string {
	switch provider {
	case "github":
		return "GitHub"
	case "google":
		return "Google"
	case "microsoft":
		return "Microsoft"
	case "":
		return ""
	default:
		return strings.ToUpper(provider[:1]) + provider[1:]
	}
}

// BuiltinRenderer renders the login and not-authorized pages from the
// embedded templates. It is the default PageRenderer.
type BuiltinRenderer struct {
	t *template.Template
}

var _ ports.PageRenderer = (*BuiltinRenderer)(nil)

// NewBuiltinRenderer parses the embedded page templates.
func NewBuiltinRenderer() (*BuiltinRenderer, error) {
	t, err := template.New("pages").Funcs(templateFuncs).ParseFS(templateFS, "templates/*.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse embedded templates: %w", err)
	}
	return &BuiltinRenderer{t: t}, nil
}

func (r *BuiltinRenderer) LoginPage(w io.Writer, data ports.LoginPageData) error {
	return r.t.ExecuteTemplate(w, loginTemplate, normalizeLoginData(data))
}

func (r *BuiltinRenderer) NotAuthorizedPage(w io.Writer, data ports.NotAuthorizedPageData) error {
	return r.t.ExecuteTemplate(w, notAuthorizedTemplate, normalizeNotAuthorizedData(data))
}

// HostTemplateRenderer renders the same pages from a caller-supplied
// template set, for hosts that want the gate pages to match their own look.
// The filesystem must contain templates named login.html.tmpl and
// not_authorized.html.tmpl; they receive the same data as the built-ins.
type HostTemplateRenderer struct {
	t *template.Template
}

var _ ports.PageRenderer = (*HostTemplateRenderer)(nil)

// NewHostTemplateRenderer parses page templates from fsys using glob.
func NewHostTemplateRenderer(fsys fs.FS, glob string) (*HostTemplateRenderer, error) {
	if fsys == nil {
		return nil, errors.New("template filesystem is required")
	}
	if glob == "" {
		glob = "*.html.tmpl"
	}
	t, err := template.New("pages").Funcs(templateFuncs).ParseFS(fsys, glob)
	if err != nil {
		return nil, fmt.Errorf("parse host templates: %w", err)
	}
	for _, name := range []string{loginTemplate, notAuthorizedTemplate} {
		if t.Lookup(name) == nil {
			return nil, fmt.Errorf("host templates missing %q", name)
		}
	}
	return &HostTemplateRenderer{t: t}, nil
}

func (r *HostTemplateRenderer) LoginPage(w io.Writer, data ports.LoginPageData) error {
	return r.t.ExecuteTemplate(w, loginTemplate, normalizeLoginData(data))
}

func (r *HostTemplateRenderer) NotAuthorizedPage(w io.Writer, data ports.NotAuthorizedPageData) error {
	return r.t.ExecuteTemplate(w, notAuthorizedTemplate, normalizeNotAuthorizedData(data))
}

func normalizeLoginData(data ports.LoginPageData) ports.LoginPageData {
	if data.Title == "" {
		data.Title = "Login"
	}
	if len(data.Providers) == 0 {
		data.Providers = []string{"github", "google", "microsoft"}
	}
	if data.MicrosoftURL == "" {
		data.MicrosoftURL = data.IdentityURL
	}
	if data.CookieEndpoint == "" {
		data.CookieEndpoint = "/api/cookie"
	}
	if data.RedirectURL == "" {
		data.RedirectURL = "/"
	}
	return data
}

func normalizeNotAuthorizedData(data ports.NotAuthorizedPageData) ports.NotAuthorizedPageData {
	if data.Title == "" {
		data.Title = "Access Denied"
	}
	if data.Message == "" {
		data.Message = "You are logged in but do not have access to this resource."
	}
	if data.LogoutEndpoint == "" {
		data.LogoutEndpoint = "/api/logout"
	}
	return data
}
