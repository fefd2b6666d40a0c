package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8000", cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 200, cfg.History.Limit)
	assert.True(t, cfg.Storage.Enabled)
	assert.Equal(t, "workspace", cfg.Workspace.Root)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("PORT", "9999")
	t.Setenv("HISTORY_LIMIT", "50")
	t.Setenv("RATE_LIMIT_ENABLED", "false")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9999", cfg.Server.Port)
	assert.Equal(t, 50, cfg.History.Limit)
	assert.False(t, cfg.RateLimit.Enabled)
}

func TestAddr(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "0.0.0.0:8000", cfg.Server.Addr())
}
