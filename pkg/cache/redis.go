package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/manishsingh1309/ai-planet/pkg/models"
)

// RedisCache implements SessionCache on Redis. History lists are stored as a
// single JSON value per session key.
type RedisCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCache connects to the given Redis URL and verifies the connection.
func NewRedisCache(ctx context.Context, redisURL string, ttl time.Duration) (*RedisCache, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis url: %w", err)
	}

	client := redis.NewClient(opts)

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	if ttl <= 0 {
		ttl = DefaultTTL
	}

	return &RedisCache{client: client, ttl: ttl}, nil
}

func sessionKey(sessionID string) string {
	return "intelliflow:chat:" + sessionID
}

func (c *RedisCache) GetHistory(ctx context.Context, sessionID string) ([]*models.ChatHistoryEntry, bool, error) {
	data, err := c.client.Get(ctx, sessionKey(sessionID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}

		return nil, false, fmt.Errorf("failed to get cached history: %w", err)
	}

	var entries []*models.ChatHistoryEntry
	if err := json.Unmarshal(data, &entries); err != nil {
		return nil, false, fmt.Errorf("failed to unmarshal cached history: %w", err)
	}

	return entries, true, nil
}

func (c *RedisCache) SetHistory(ctx context.Context, sessionID string, entries []*models.ChatHistoryEntry) error {
	data, err := json.Marshal(entries)
	if err != nil {
		return fmt.Errorf("failed to marshal history: %w", err)
	}

	if err := c.client.Set(ctx, sessionKey(sessionID), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("failed to cache history: %w", err)
	}

	return nil
}

func (c *RedisCache) Invalidate(ctx context.Context, sessionID string) error {
	if err := c.client.Del(ctx, sessionKey(sessionID)).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cached history: %w", err)
	}

	return nil
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}
