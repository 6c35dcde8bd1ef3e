package service

import (
	"context"
	"os"
	"strings"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryGuard(t *testing.T) {
	guard := NewMemoryGuard()
	ctx := context.Background()

	ok, err := guard.Acquire(ctx, "s1:create:0")
	require.NoError(t, err)
	assert.True(t, ok)

	ok, err = guard.Acquire(ctx, "s1:create:0")
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = guard.Acquire(ctx, "s2:create:0")
	require.NoError(t, err)
	assert.True(t, ok)

	require.NoError(t, guard.Release(ctx, "s1:create:0"))
	ok, err = guard.Acquire(ctx, "s1:create:0")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestSubmissionKey(t *testing.T) {
	assert.Equal(t, "s1:status:4", submissionKey("s1", opStatus, 4))

	anonymous := submissionKey("", opCreate, 0)
	assert.True(t, strings.HasPrefix(anonymous, "anonymous-"))
	assert.True(t, strings.HasSuffix(anonymous, ":create:0"))
	assert.NotEqual(t, anonymous, submissionKey("", opCreate, 0))
}

func TestRedisSubmissionGuard(t *testing.T) {
	addr := os.Getenv("TEST_REDIS_ADDR")
	if addr == "" {
		addr = "localhost:6379"
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	t.Cleanup(func() { _ = client.Close() })

	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		t.Skipf("redis not reachable at %s: %v", addr, err)
	}

	prefix := "support-dashboard-test:" + t.Name() + ":"
	guard := NewRedisSubmissionGuard(client, prefix, 5*time.Second)
	other := NewRedisSubmissionGuard(client, prefix, 5*time.Second)
	key := "s1:comment:1"
	t.Cleanup(func() { client.Del(context.Background(), prefix+"submission:"+key) })

	ok, err := guard.Acquire(ctx, key)
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = other.Acquire(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok, "held by another process")

	require.NoError(t, other.Release(ctx, key), "release without holding is a no-op")
	ok, err = other.Acquire(ctx, key)
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, guard.Release(ctx, key))
	ok, err = other.Acquire(ctx, key)
	require.NoError(t, err)
	assert.True(t, ok)
	require.NoError(t, other.Release(ctx, key))
}
