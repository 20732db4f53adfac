package config

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testSecret = "0123456789abcdef0123456789abcdef"

func setRequiredEnv(t *testing.T) {
	t.Helper()
	t.Setenv("ARCANA_DATABASE_URL", "postgres://localhost:5432/arcana_test")
	t.Setenv("ARCANA_AUTH_JWT_SECRET", testSecret)
}

func TestLoadWithDefaults(t *testing.T) {
	setRequiredEnv(t)

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Server.LogLevel)
	assert.Equal(t, int64(10), cfg.Engine.PaidBoosterCost)
	assert.Equal(t, 24, cfg.Engine.FreeWindowHours)
	assert.Equal(t, 10, cfg.Engine.LuckBonusCap)
}

func TestLoadEnvOverrides(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ARCANA_SERVER_PORT", "9090")
	t.Setenv("ARCANA_SERVER_LOG_LEVEL", "debug")
	t.Setenv("ARCANA_ENGINE_PAID_BOOSTER_COST", "25")
	t.Setenv("ARCANA_ENGINE_FREE_WINDOW_HOURS", "12")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Server.LogLevel)
	assert.Equal(t, int64(25), cfg.Engine.PaidBoosterCost)
	assert.Equal(t, 12, cfg.Engine.FreeWindowHours)
}

func TestLoadRejectsMissingDatabaseURL(t *testing.T) {
	t.Setenv("ARCANA_AUTH_JWT_SECRET", testSecret)

	_, err := Load()
	require.Error(t, err)
	assert.True(t, strings.Contains(err.Error(), "validation"))
}

func TestLoadRejectsShortJWTSecret(t *testing.T) {
	t.Setenv("ARCANA_DATABASE_URL", "postgres://localhost:5432/arcana_test")
	t.Setenv("ARCANA_AUTH_JWT_SECRET", "too-short")

	_, err := Load()
	require.Error(t, err)
}

func TestLoadRejectsInvalidLogLevel(t *testing.T) {
	setRequiredEnv(t)
	t.Setenv("ARCANA_SERVER_LOG_LEVEL", "loud")

	_, err := Load()
	require.Error(t, err)
}
