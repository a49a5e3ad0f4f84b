package config

import (
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func Test_Load_Defaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "dev", cfg.AppEnv)
	require.Equal(t, 8080, cfg.Port)
	require.Equal(t, "memory", cfg.CacheBackend)
	require.Equal(t, 3600*time.Second, cfg.CacheTTL)
	require.Equal(t, 150, cfg.DefaultDeadlineMs)
	require.False(t, cfg.AdminEnabled())
	require.True(t, cfg.IsDev())
	require.False(t, cfg.IsProd())
}

func Test_Load_AdminEnabled(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("ADMIN_USERNAME", "admin")
	t.Setenv("ADMIN_PASSWORD", "secret")
	t.Setenv("ADMIN_SESSION_SECRET", "abcd")

	cfg, err := Load()
	require.NoError(t, err)
	require.True(t, cfg.AdminEnabled())
	require.True(t, cfg.IsProd())

	require.NoError(t, os.Unsetenv("ADMIN_USERNAME"))
	cfg, err = Load()
	require.NoError(t, err)
	require.False(t, cfg.AdminEnabled())
}

func Test_GetGeoBackoffConfig_TestEnvShortened(t *testing.T) {
	t.Setenv("APP_ENV", "test")
	cfg, err := Load()
	require.NoError(t, err)
	maxElapsed, initial, maxI, mult := cfg.GetGeoBackoffConfig()
	require.Equal(t, 200*time.Millisecond, maxElapsed)
	require.Equal(t, 10*time.Millisecond, initial)
	require.Equal(t, 50*time.Millisecond, maxI)
	require.Equal(t, 2.0, mult)
}

func Test_GetGeoBackoffConfig_ProdUsesConfigured(t *testing.T) {
	t.Setenv("APP_ENV", "prod")
	t.Setenv("GEO_BACKOFF_MAX_ELAPSED", "9s")
	cfg, err := Load()
	require.NoError(t, err)
	maxElapsed, _, _, _ := cfg.GetGeoBackoffConfig()
	require.Equal(t, 9*time.Second, maxElapsed)
}
