package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/duscraft/garry/internal/domain"
)

// StatsCache holds per-owner aggregate counts so repeated dashboard
// loads do not re-run four COUNT queries. Every warranty mutation
// invalidates the owner's entry.
type StatsCache interface {
	Get(ctx context.Context, userID string) (*domain.WarrantyStats, bool, error)
	Set(ctx context.Context, userID string, stats *domain.WarrantyStats) error
	Invalidate(ctx context.Context, userID string) error
}

type RedisStatsCache struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

func NewRedisStatsCache(client redis.UniversalClient, prefix string, ttl time.Duration) *RedisStatsCache {
	if prefix == "" {
		prefix = "warranty_stats"
	}
	if ttl <= 0 {
		ttl = time.Minute
	}
	return &RedisStatsCache{client: client, prefix: prefix, ttl: ttl}
}

func (c *RedisStatsCache) key(userID string) string {
	return fmt.Sprintf("%s:%s", c.prefix, userID)
}

func (c *RedisStatsCache) Get(ctx context.Context, userID string) (*domain.WarrantyStats, bool, error) {
	if c.client == nil {
		return nil, false, nil
	}
	val, err := c.client.Get(ctx, c.key(userID)).Bytes()
	if err == redis.Nil {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	var stats domain.WarrantyStats
	if err := json.Unmarshal(val, &stats); err != nil {
		// A corrupt entry behaves like a miss.
		return nil, false, nil
	}
	return &stats, true, nil
}

func (c *RedisStatsCache) Set(ctx context.Context, userID string, stats *domain.WarrantyStats) error {
	if c.client == nil || stats == nil {
		return nil
	}
	data, err := json.Marshal(stats)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, c.key(userID), data, c.ttl).Err()
}

func (c *RedisStatsCache) Invalidate(ctx context.Context, userID string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, c.key(userID)).Err()
}

// NoopStatsCache is used when Redis is not configured.
type NoopStatsCache struct{}

func NewNoopStatsCache() *NoopStatsCache { return &NoopStatsCache{} }

func (NoopStatsCache) Get(context.Context, string) (*domain.WarrantyStats, bool, error) {
	return nil, false, nil
}
func (NoopStatsCache) Set(context.Context, string, *domain.WarrantyStats) error { return nil }
func (NoopStatsCache) Invalidate(context.Context, string) error                 { return nil }
