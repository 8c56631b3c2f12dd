package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"escrow/internal/clientcard/metrics"
	"escrow/internal/clientcard/models"
	"escrow/pkg/platform/sentinel"
)

const redisKeyPrefix = "cspc:client:"

// RedisCache keeps client cards in Redis as JSON values expiring after the TTL.
type RedisCache struct {
	client   redis.Cmdable
	cacheTTL time.Duration
	metrics  *metrics.Metrics
}

// NewRedisCache constructs a Redis-backed client card cache.
func NewRedisCache(client redis.Cmdable, cacheTTL time.Duration, metrics *metrics.Metrics) *RedisCache {
	return &RedisCache{
		client:   client,
		cacheTTL: cacheTTL,
		metrics:  metrics,
	}
}

func redisKey(clientID string) string {
	return redisKeyPrefix + clientID
}

func (c *RedisCache) FindClient(ctx context.Context, clientID string) (*models.ClientInformation, error) {
	raw, err := c.client.Get(ctx, redisKey(clientID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			c.recordMiss()
			return nil, sentinel.ErrNotFound
		}
		return nil, fmt.Errorf("find client cache: %w", err)
	}

	var record models.ClientInformation
	if err := json.Unmarshal(raw, &record); err != nil {
		return nil, fmt.Errorf("decode client cache: %w", err)
	}
	c.recordHit()
	return &record, nil
}

func (c *RedisCache) SaveClient(ctx context.Context, record *models.ClientInformation) error {
	if record == nil {
		return errors.New("client record is required")
	}
	raw, err := json.Marshal(record)
	if err != nil {
		return fmt.Errorf("encode client cache: %w", err)
	}
	if err := c.client.Set(ctx, redisKey(record.ID), raw, c.cacheTTL).Err(); err != nil {
		return fmt.Errorf("save client cache: %w", err)
	}
	return nil
}

func (c *RedisCache) recordHit() {
	if c.metrics != nil {
		c.metrics.RecordCacheHit("redis")
	}
}

func (c *RedisCache) recordMiss() {
	if c.metrics != nil {
		c.metrics.RecordCacheMiss("redis")
	}
}
