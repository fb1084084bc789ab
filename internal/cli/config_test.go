/*
Copyright © 2025 Acronis International GmbH.

Released under MIT license.
*/

package cli

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/acronis/go-hrsearch/config"
	"github.com/acronis/go-hrsearch/internal/directory"
	"github.com/acronis/go-hrsearch/internal/ratelimit"
	"github.com/acronis/go-hrsearch/profserver"
)

func writeConfigFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestLoadAppConfig(t *testing.T) {
	t.Run("defaults", func(t *testing.T) {
		cfg, err := LoadAppConfig("")
		require.NoError(t, err)
		require.Equal(t, ":8000", cfg.Server.Address)
		require.Equal(t, ratelimit.NewDefaultConfig(), cfg.RateLimit)
		require.Equal(t, directory.DefaultOrganizationColumns(), cfg.Directory.Organizations)
		require.Equal(t, profserver.NewDefaultConfig(), cfg.ProfServer)
	})

	t.Run("file", func(t *testing.T) {
		path := writeConfigFile(t, "config.yml", `
server:
  address: 127.0.0.1:9090
log:
  level: debug
rateLimit:
  limit: 10
  window: 30s
directory:
  organizations:
    org_x: [first_name, last_name]
`)
		cfg, err := LoadAppConfig(path)
		require.NoError(t, err)
		require.Equal(t, "127.0.0.1:9090", cfg.Server.Address)
		require.Equal(t, 10, cfg.RateLimit.Limit)
		require.Equal(t, config.TimeDuration(30*time.Second), cfg.RateLimit.Window)
		require.Equal(t, directory.OrganizationColumns{"org_x": {"first_name", "last_name"}}, cfg.Directory.Organizations)
	})

	t.Run("environment variables override file", func(t *testing.T) {
		t.Setenv("HRSEARCH_RATELIMIT_LIMIT", "3")
		path := writeConfigFile(t, "config.json", `{"rateLimit":{"limit":10}}`)
		cfg, err := LoadAppConfig(path)
		require.NoError(t, err)
		require.Equal(t, 3, cfg.RateLimit.Limit)
	})

	t.Run("invalid value", func(t *testing.T) {
		path := writeConfigFile(t, "config.yaml", "rateLimit:\n  limit: 0\n")
		_, err := LoadAppConfig(path)
		require.EqualError(t, err, "rateLimit.limit: must be positive")
	})

	t.Run("unsupported extension", func(t *testing.T) {
		path := writeConfigFile(t, "config.toml", "")
		_, err := LoadAppConfig(path)
		require.EqualError(t, err, `unsupported config file extension ".toml", should be one of .yaml, .yml, .json`)
	})
}
