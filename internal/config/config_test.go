package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("REDIS_ADDR", "")
	t.Setenv("SIM_CREATE_DELAY_MS", "")
	t.Setenv("COMMENT_DEFAULT_AUTHOR", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:8080", cfg.App.Addr())
	assert.False(t, cfg.Redis.Enabled())
	assert.Equal(t, 1500*time.Millisecond, cfg.Simulation.CreateDelay())
	assert.Equal(t, time.Second, cfg.Simulation.MutationDelay())
	assert.Equal(t, 500*time.Millisecond, cfg.Simulation.CommentDelay())
	assert.Equal(t, time.Duration(0), cfg.Simulation.RedeemDelay())
	assert.Equal(t, "Current User", cfg.Comments.DefaultAuthor)
	assert.Equal(t, 50, cfg.Rewards.PointsPerResolution)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_PORT", "9090")
	t.Setenv("REDIS_ADDR", "127.0.0.1:6379")
	t.Setenv("SIM_MUTATION_DELAY_MS", "0")
	t.Setenv("SUBMISSION_GUARD_TTL_SECONDS", "5")
	t.Setenv("REWARDS_POINTS_PER_RESOLUTION", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "0.0.0.0:9090", cfg.App.Addr())
	assert.True(t, cfg.Redis.Enabled())
	assert.Equal(t, time.Duration(0), cfg.Simulation.MutationDelay())
	assert.Equal(t, 5*time.Second, cfg.Simulation.GuardTTL())
	assert.Equal(t, 50, cfg.Rewards.PointsPerResolution)
}

func TestLoad_InvalidRedisDB(t *testing.T) {
	t.Setenv("REDIS_DB", "zero")

	_, err := Load()
	assert.Error(t, err)
}

func TestRequestTimeout(t *testing.T) {
	assert.Equal(t, time.Duration(0), AppConfig{}.RequestTimeout())
	assert.Equal(t, 3*time.Second, AppConfig{RequestTimeoutSeconds: 3}.RequestTimeout())
}
