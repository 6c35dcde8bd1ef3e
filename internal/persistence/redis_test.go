package persistence

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/spec-kit/support-dashboard/internal/config"
)

func TestNewRedisDisabledWithoutAddr(t *testing.T) {
	r := NewRedis(config.RedisConfig{}, zap.NewNop())

	assert.Nil(t, r)
	assert.False(t, r.Enabled())
	assert.ErrorIs(t, r.Ping(context.Background()), ErrRedisDisabled)
	r.Close()
}
