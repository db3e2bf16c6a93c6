package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMaskValue(t *testing.T) {
	assert.Equal(t, "****", maskValue("short"))
	assert.Equal(t, "sk****cdef", maskValue("sk_test_abcdef"))
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "secret")
	t.Setenv("DATABASE_URL", "postgres://localhost/budget")

	cfg, err := Load("does-not-exist.env")
	require.NoError(t, err)

	assert.Equal(t, "development", cfg.Env)
	assert.Equal(t, 30*time.Second, cfg.Plaid.Timeout)
	assert.Equal(t, 15*time.Second, cfg.Stripe.Timeout)
	assert.Equal(t, 30, cfg.Plaid.SyncWindowDays)
	assert.Equal(t, []string{"auth", "transactions"}, cfg.Plaid.Products)
	assert.Equal(t, "Budget Tracker", cfg.Plaid.ClientName)
	assert.Equal(t, "memory", cfg.EventBus.Driver)
	assert.Equal(t, "*", cfg.Cors.AllowOrigins)
	assert.Equal(t, "prod_TQwmCxRJiMH3Nv", cfg.Stripe.ProProductID)
}

func TestLoad_MissingJwtSecret(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	os.Unsetenv("AUTH_JWT_SECRET") //nolint:errcheck

	_, err := Load("does-not-exist.env")
	assert.Error(t, err)
}

func TestLoad_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"AUTH_JWT_SECRET=from-file\nSTRIPE_PRODUCT_ALIASES=prod_old:premium\n",
	), 0o600))
	t.Chdir(dir)
	t.Setenv("AUTH_JWT_SECRET", "")
	os.Unsetenv("AUTH_JWT_SECRET")        //nolint:errcheck
	os.Unsetenv("STRIPE_PRODUCT_ALIASES") //nolint:errcheck
	t.Cleanup(func() {
		os.Unsetenv("STRIPE_PRODUCT_ALIASES") //nolint:errcheck
	})

	cfg, err := Load("test.env")
	require.NoError(t, err)
	assert.Equal(t, "from-file", cfg.Auth.Jwt.Secret)
	assert.Equal(t, map[string]string{"prod_old": "premium"}, cfg.Stripe.ProductAliases)
}

func TestFindEnvFile_NotFound(t *testing.T) {
	t.Chdir(t.TempDir())
	_, err := FindEnvFile("definitely-missing.env")
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadDB_WithoutAppSecrets(t *testing.T) {
	t.Setenv("AUTH_JWT_SECRET", "")
	os.Unsetenv("AUTH_JWT_SECRET") //nolint:errcheck
	t.Setenv("DATABASE_URL", "postgres://localhost/budget")

	db, err := LoadDB("does-not-exist.env")
	require.NoError(t, err)
	assert.Equal(t, "postgres://localhost/budget", db.Url)
}

func TestLoadDB_FromEnvFile(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(envFile, []byte(
		"DATABASE_URL=postgres://file/budget\nDATABASE_MIGRATIONS_PATH=/srv/migrations\n",
	), 0o600))
	t.Chdir(dir)
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL")             //nolint:errcheck
	os.Unsetenv("DATABASE_MIGRATIONS_PATH") //nolint:errcheck
	t.Cleanup(func() {
		os.Unsetenv("DATABASE_URL")             //nolint:errcheck
		os.Unsetenv("DATABASE_MIGRATIONS_PATH") //nolint:errcheck
	})

	db, err := LoadDB("test.env")
	require.NoError(t, err)
	assert.Equal(t, "postgres://file/budget", db.Url)
	assert.Equal(t, "/srv/migrations", db.MigrationsPath)
}

func TestLoadDB_MissingUrl(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	os.Unsetenv("DATABASE_URL") //nolint:errcheck

	_, err := LoadDB("does-not-exist.env")
	assert.ErrorContains(t, err, "DATABASE_URL")
}
