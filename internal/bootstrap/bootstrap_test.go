package bootstrap

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/levino/pocketbase-auth-layer/config"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func testConfig() config.AppConfig {
	cfg := config.AppConfig{}
	cfg.Identity.URL = "https://pb.example.com"
	cfg.Identity.GroupField = "members"
	cfg.Cookie.Name = "pb_auth"
	cfg.Sanitize()
	return cfg
}

func TestLoadConfig_MissingEnvFileIsFine(t *testing.T) {
	// Run from a directory with no .env file.
	t.Chdir(t.TempDir())
	t.Setenv("PB_URL", "https://pb.example.com")

	cfg, err := LoadConfig()
	require.NoError(t, err)
	assert.Equal(t, "https://pb.example.com", cfg.Identity.URL)
}

func TestLoadConfig_ValidatesProviderURL(t *testing.T) {
	t.Chdir(t.TempDir())
	t.Setenv("PB_URL", "")

	_, err := LoadConfig()
	assert.ErrorContains(t, err, "PB_URL is required")
}

func TestBuildAuthService(t *testing.T) {
	cfg := testConfig()

	svc, err := BuildAuthService(&cfg, discardLogger())
	require.NoError(t, err)
	assert.Equal(t, "pb_auth", svc.CookieName())
}

func TestBuildAuthService_BadProviderURL(t *testing.T) {
	cfg := testConfig()
	cfg.Identity.URL = "not-a-url"

	_, err := BuildAuthService(&cfg, discardLogger())
	assert.ErrorContains(t, err, "build identity provider")
}

func TestBuildRenderer_Builtin(t *testing.T) {
	cfg := testConfig()

	renderer, err := BuildRenderer(&cfg, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, renderer)
}

func TestBuildRenderer_HostTemplates(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"login.html.tmpl", "not_authorized.html.tmpl"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600))
	}

	cfg := testConfig()
	cfg.HTTP.TemplatesDir = dir

	renderer, err := BuildRenderer(&cfg, discardLogger())
	require.NoError(t, err)
	assert.NotNil(t, renderer)
}

func TestBuildRenderer_MissingTemplatesDir(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.TemplatesDir = filepath.Join(t.TempDir(), "nope")

	_, err := BuildRenderer(&cfg, discardLogger())
	assert.ErrorContains(t, err, "templates dir")
}

func TestLoginPageData(t *testing.T) {
	cfg := testConfig()
	cfg.Pages.LoginTitle = "Sign in"
	cfg.Pages.Providers = []string{"github"}
	cfg.Identity.MicrosoftURL = "https://ms.example.com"

	data := LoginPageData(&cfg)

	assert.Equal(t, "Sign in", data.Title)
	assert.Equal(t, "https://pb.example.com", data.IdentityURL)
	assert.Equal(t, "https://ms.example.com", data.MicrosoftURL)
	assert.Equal(t, []string{"github"}, data.Providers)
}

func TestStartAndShutdownHTTPServer(t *testing.T) {
	cfg := testConfig()
	cfg.HTTP.Addr = "127.0.0.1:0"

	auth, err := BuildAuthService(&cfg, discardLogger())
	require.NoError(t, err)
	renderer, err := BuildRenderer(&cfg, discardLogger())
	require.NoError(t, err)

	server := StartHTTPServer(&HTTPServerConfig{
		Config:   &cfg,
		Auth:     auth,
		Renderer: renderer,
		Logger:   discardLogger(),
	})
	require.NotNil(t, server)

	err = ShutdownHTTPServer(ShutdownConfig{
		Context: context.Background(),
		Server:  server,
		Timeout: time.Second,
		Logger:  discardLogger(),
	})
	assert.NoError(t, err)
}

func TestStartHTTPServer_NilConfig(t *testing.T) {
	assert.Nil(t, StartHTTPServer(nil))
}

func TestShutdownHTTPServer_NilServer(t *testing.T) {
	assert.NoError(t, ShutdownHTTPServer(ShutdownConfig{Context: context.Background()}))
}
