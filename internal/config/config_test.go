package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SIMCHECK_DATABASE_URL", "postgres://localhost:5432/simcheck")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, "SIMCHECK API", cfg.AppName)
	require.Equal(t, "development", cfg.AppEnv)
	require.Equal(t, ":8080", cfg.HTTPAddress())
	require.Equal(t, 24*time.Hour, cfg.ExtractCacheTTL)
	require.Equal(t, 3, cfg.WebMaxSnippets)
	require.Equal(t, 5, cfg.WebMaxResults)
	require.False(t, cfg.WebSearchEnabled())
}

func TestLoadRequiresDatabaseURL(t *testing.T) {
	t.Setenv("SIMCHECK_DATABASE_URL", "")

	_, err := Load()
	require.Error(t, err)
	require.Contains(t, err.Error(), "database url")
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("SIMCHECK_DATABASE_URL", "postgres://localhost:5432/simcheck")
	t.Setenv("SIMCHECK_APP_PORT", "9090")
	t.Setenv("SIMCHECK_SEARCH_API_KEY", "key")
	t.Setenv("SIMCHECK_SEARCH_ENGINE_ID", "engine")
	t.Setenv("SIMCHECK_WEB_BUDGET", "45s")

	cfg, err := Load()
	require.NoError(t, err)
	require.Equal(t, ":9090", cfg.HTTPAddress())
	require.True(t, cfg.WebSearchEnabled())
	require.Equal(t, 45*time.Second, cfg.WebBudget)
}

func TestHTTPAddressAcceptsColonPrefix(t *testing.T) {
	cfg := Config{AppPort: ":3000"}
	require.Equal(t, ":3000", cfg.HTTPAddress())
}
