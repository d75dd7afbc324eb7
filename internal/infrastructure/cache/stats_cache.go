package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
	"github.com/sangkips/salon-api/internal/domain/stats"
)

const statsKeyPrefix = "stats:"

// RedisStatsCache keeps aggregates in Redis as JSON. Entries outlive the
// staleness window so a stale value can still be served while a recompute
// fails; the caller decides staleness from ComputedAt.
type RedisStatsCache[T any] struct {
	rdb *redis.Client
	ttl time.Duration
}

func NewRedisStatsCache[T any](rdb *redis.Client, staleAfter time.Duration) *RedisStatsCache[T] {
	return &RedisStatsCache[T]{rdb: rdb, ttl: 2 * staleAfter}
}

var _ domainRepo.StatsCache[int] = (*RedisStatsCache[int])(nil)

func (c *RedisStatsCache[T]) Get(ctx context.Context, key string) (*stats.CachedAggregate[T], error) {
	val, err := c.rdb.Get(ctx, statsKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("stats cache: get %s: %w", key, err)
	}

	var agg stats.CachedAggregate[T]
	if err := json.Unmarshal(val, &agg); err != nil {
		// unreadable entries count as a miss
		return nil, nil
	}
	return &agg, nil
}

func (c *RedisStatsCache[T]) Set(ctx context.Context, key string, value stats.CachedAggregate[T]) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("stats cache: encode %s: %w", key, err)
	}
	if err := c.rdb.Set(ctx, statsKeyPrefix+key, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("stats cache: set %s: %w", key, err)
	}
	return nil
}

func (c *RedisStatsCache[T]) Delete(ctx context.Context, key string) error {
	if err := c.rdb.Del(ctx, statsKeyPrefix+key).Err(); err != nil {
		return fmt.Errorf("stats cache: delete %s: %w", key, err)
	}
	return nil
}

type cacheEntry[V any] struct {
	value     V
	expiresAt time.Time
}

// MemoryStatsCache is the in-process fallback used when Redis is disabled.
type MemoryStatsCache[T any] struct {
	mu    sync.RWMutex
	items map[string]cacheEntry[stats.CachedAggregate[T]]
	ttl   time.Duration
	now   func() time.Time
}

func NewMemoryStatsCache[T any](staleAfter time.Duration) *MemoryStatsCache[T] {
	return &MemoryStatsCache[T]{
		items: make(map[string]cacheEntry[stats.CachedAggregate[T]]),
		ttl:   2 * staleAfter,
		now:   time.Now,
	}
}

var _ domainRepo.StatsCache[int] = (*MemoryStatsCache[int])(nil)

func (c *MemoryStatsCache[T]) Get(ctx context.Context, key string) (*stats.CachedAggregate[T], error) {
	c.mu.RLock()
	entry, ok := c.items[key]
	c.mu.RUnlock()
	if !ok {
		return nil, nil
	}
	if !entry.expiresAt.IsZero() && c.now().After(entry.expiresAt) {
		_ = c.Delete(ctx, key)
		return nil, nil
	}
	agg := entry.value
	return &agg, nil
}

func (c *MemoryStatsCache[T]) Set(_ context.Context, key string, value stats.CachedAggregate[T]) error {
	var expiresAt time.Time
	if c.ttl > 0 {
		expiresAt = c.now().Add(c.ttl)
	}
	c.mu.Lock()
	c.items[key] = cacheEntry[stats.CachedAggregate[T]]{value: value, expiresAt: expiresAt}
	c.mu.Unlock()
	return nil
}

func (c *MemoryStatsCache[T]) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	delete(c.items, key)
	c.mu.Unlock()
	return nil
}
