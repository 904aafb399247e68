package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/felixgeelhaar/moodsphere/internal/journal/application/services"
	"github.com/redis/go-redis/v9"
)

// DefaultTTL bounds how stale cached insights may get when an invalidation
// is missed.
const DefaultTTL = 10 * time.Minute

// RedisInsightsCache stores computed trends in Redis.
// Keys are namespaced: moodsphere:insights:{user_id}:{range}. Each user has
// an index set of their keys so all ranges can be dropped together.
type RedisInsightsCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisInsightsCache creates a cache over client. A non-positive ttl
// selects DefaultTTL.
func NewRedisInsightsCache(client *redis.Client, ttl time.Duration) *RedisInsightsCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisInsightsCache{client: client, ttl: ttl}
}

// NewRedisClient parses a redis:// URL and verifies the server responds.
func NewRedisClient(ctx context.Context, url string) (*redis.Client, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("failed to parse redis URL: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return client, nil
}

func (c *RedisInsightsCache) key(userID, rangeKey string) string {
	return fmt.Sprintf("moodsphere:insights:%s:%s", userID, rangeKey)
}

func (c *RedisInsightsCache) indexKey(userID string) string {
	return fmt.Sprintf("moodsphere:insights:%s", userID)
}

// Get returns the cached trends, or nil on a miss.
func (c *RedisInsightsCache) Get(ctx context.Context, userID, rangeKey string) (*services.Trends, error) {
	val, err := c.client.Get(ctx, c.key(userID, rangeKey)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	var trends services.Trends
	if err := json.Unmarshal(val, &trends); err != nil {
		return nil, fmt.Errorf("failed to decode cached insights: %w", err)
	}
	return &trends, nil
}

// Set stores trends and records the key in the user's index.
func (c *RedisInsightsCache) Set(ctx context.Context, userID, rangeKey string, trends *services.Trends) error {
	payload, err := json.Marshal(trends)
	if err != nil {
		return fmt.Errorf("failed to encode insights: %w", err)
	}

	key := c.key(userID, rangeKey)
	index := c.indexKey(userID)

	pipe := c.client.TxPipeline()
	pipe.Set(ctx, key, payload, c.ttl)
	pipe.SAdd(ctx, index, key)
	pipe.Expire(ctx, index, c.ttl)
	_, err = pipe.Exec(ctx)
	return err
}

// Invalidate drops every cached range for the user.
func (c *RedisInsightsCache) Invalidate(ctx context.Context, userID string) error {
	index := c.indexKey(userID)

	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil {
		return err
	}
	return c.client.Del(ctx, append(keys, index)...).Err()
}

// Ping checks the Redis connection.
func (c *RedisInsightsCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

// Close closes the Redis client.
func (c *RedisInsightsCache) Close() error {
	return c.client.Close()
}
