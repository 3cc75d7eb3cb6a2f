package rediscache

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/Udayshakya28/AI-tooltextto3DModel/internal/config"
)

const keyPrefix = "text3d:enhanced:"

// PromptCache stores enhanced prompts in Redis. Keys are scoped by the
// enhancer (provider and model) so switching models does not serve stale text.
type PromptCache struct {
	rdb   *redis.Client
	scope string
	ttl   time.Duration
}

// New connects to Redis and verifies the connection.
func New(ctx context.Context, cfg *config.RedisConfig, scope string) (*PromptCache, error) {
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})

	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("ping redis: %w", err)
	}

	ttl := cfg.TTL
	if ttl <= 0 {
		ttl = 24 * time.Hour
	}
	return &PromptCache{rdb: rdb, scope: scope, ttl: ttl}, nil
}

func (c *PromptCache) Get(ctx context.Context, prompt, memoryContext string) (string, bool, error) {
	val, err := c.rdb.Get(ctx, c.key(prompt, memoryContext)).Result()
	if errors.Is(err, redis.Nil) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("redis get: %w", err)
	}
	return val, true, nil
}

func (c *PromptCache) Set(ctx context.Context, prompt, memoryContext, enhanced string) error {
	if err := c.rdb.Set(ctx, c.key(prompt, memoryContext), enhanced, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (c *PromptCache) Close() error {
	return c.rdb.Close()
}

func (c *PromptCache) key(prompt, memoryContext string) string {
	h := sha256.New()
	h.Write([]byte(c.scope))
	h.Write([]byte{0})
	h.Write([]byte(prompt))
	h.Write([]byte{0})
	h.Write([]byte(memoryContext))
	return keyPrefix + hex.EncodeToString(h.Sum(nil))
}
