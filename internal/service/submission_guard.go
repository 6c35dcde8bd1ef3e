package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// SubmissionGuard rejects a second submission for a key while the first is
// still outstanding.
type SubmissionGuard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

type memoryGuard struct {
	mu   sync.Mutex
	held map[string]struct{}
}

// NewMemoryGuard keeps held keys in process memory.
func NewMemoryGuard() SubmissionGuard {
	return &memoryGuard{held: make(map[string]struct{})}
}

func (g *memoryGuard) Acquire(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()
	if _, busy := g.held[key]; busy {
		return false, nil
	}
	g.held[key] = struct{}{}
	return true, nil
}

func (g *memoryGuard) Release(_ context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.held, key)
	return nil
}

// releaseScript deletes the key only when it still carries our token, so an
// expired-and-reacquired key is not released by the previous holder.
var releaseScript = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
	return redis.call("DEL", KEYS[1])
end
return 0
`)

// RedisSubmissionGuard shares held keys across processes through Redis.
// Keys expire after ttl so a crashed holder cannot block a form forever.
type RedisSubmissionGuard struct {
	client *redis.Client
	prefix string
	ttl    time.Duration

	mu     sync.Mutex
	tokens map[string]string
}

// NewRedisSubmissionGuard builds a guard on top of client.
func NewRedisSubmissionGuard(client *redis.Client, prefix string, ttl time.Duration) *RedisSubmissionGuard {
	if ttl <= 0 {
		ttl = 30 * time.Second
	}
	return &RedisSubmissionGuard{
		client: client,
		prefix: prefix,
		ttl:    ttl,
		tokens: make(map[string]string),
	}
}

func (g *RedisSubmissionGuard) Acquire(ctx context.Context, key string) (bool, error) {
	token := uuid.NewString()
	ok, err := g.client.SetNX(ctx, g.redisKey(key), token, g.ttl).Result()
	if err != nil {
		return false, fmt.Errorf("acquire submission key: %w", err)
	}
	if !ok {
		return false, nil
	}
	g.mu.Lock()
	g.tokens[key] = token
	g.mu.Unlock()
	return true, nil
}

func (g *RedisSubmissionGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	token, ok := g.tokens[key]
	delete(g.tokens, key)
	g.mu.Unlock()
	if !ok {
		return nil
	}
	if err := releaseScript.Run(ctx, g.client, []string{g.redisKey(key)}, token).Err(); err != nil {
		return fmt.Errorf("release submission key: %w", err)
	}
	return nil
}

func (g *RedisSubmissionGuard) redisKey(key string) string {
	return g.prefix + "submission:" + key
}
