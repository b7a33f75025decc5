package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONTENT_BACKEND", "")
	t.Setenv("SITE_URL", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "dev", cfg.Env)
	assert.Equal(t, ":3000", cfg.Addr)
	assert.Equal(t, BackendSupabase, cfg.Content.Backend)
	assert.Equal(t, "http://localhost:3000", cfg.Site.URL)
	assert.Equal(t, 5, cfg.Security.LoginMaxAttempts)
	assert.Equal(t, time.Minute, cfg.Security.LoginWindow)
	assert.False(t, cfg.Admin.CookieSecure)
}

func TestDevGeneratesSessionSecret(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONTENT_BACKEND", "")
	t.Setenv("ENV", "dev")
	t.Setenv("ADMIN_SESSION_SECRET", "")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Len(t, cfg.Admin.SessionSecret, 64)
	assert.True(t, cfg.Admin.GeneratedSecret)

	again, err := Load()
	require.NoError(t, err)
	assert.NotEqual(t, cfg.Admin.SessionSecret, again.Admin.SessionSecret)

	t.Setenv("ADMIN_SESSION_SECRET", "configured-secret")
	cfg, err = Load()
	require.NoError(t, err)
	assert.Equal(t, "configured-secret", cfg.Admin.SessionSecret)
	assert.False(t, cfg.Admin.GeneratedSecret)
}

func TestLoadFromEnv(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("SITE_URL", "https://www.northpoint-it.co.uk/")
	t.Setenv("CONTENT_BACKEND", "SQLite")
	t.Setenv("COOKIE_SECURE", "true")
	t.Setenv("LOGIN_WINDOW", "30s")
	t.Setenv("SUPABASE_URL", " https://abc.supabase.co ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "https://www.northpoint-it.co.uk", cfg.Site.URL)
	assert.Equal(t, BackendSQLite, cfg.Content.Backend)
	assert.True(t, cfg.Admin.CookieSecure)
	assert.Equal(t, 30*time.Second, cfg.Security.LoginWindow)
	assert.Equal(t, "https://abc.supabase.co", cfg.Content.SupabaseURL)
}

func TestLoadRejectsUnknownBackend(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONTENT_BACKEND", "mongo")

	_, err := Load()
	assert.ErrorContains(t, err, "CONTENT_BACKEND")
}

func TestProdRequiresAdminSecrets(t *testing.T) {
	chdir(t, t.TempDir())
	t.Setenv("CONTENT_BACKEND", "")
	t.Setenv("ENV", "prod")
	t.Setenv("ADMIN_PASSWORD", "")
	t.Setenv("ADMIN_PASSWORD_HASH", "")

	_, err := Load()
	assert.ErrorContains(t, err, "ADMIN_PASSWORD")

	t.Setenv("ADMIN_PASSWORD", "hunter2")
	t.Setenv("ADMIN_SESSION_SECRET", "short")
	_, err = Load()
	assert.ErrorContains(t, err, "ADMIN_SESSION_SECRET")
}

// chdir changes the working directory for the duration of the test and
// restores it on cleanup (testing.T.Chdir is only available from Go 1.24).
func chdir(t *testing.T, dir string) {
	t.Helper()
	old, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	t.Cleanup(func() { _ = os.Chdir(old) })
}
