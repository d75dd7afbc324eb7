package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/go-redis/redis/v8"

	"github.com/sangkips/salon-api/internal/domain/entity"
	domainRepo "github.com/sangkips/salon-api/internal/domain/repository"
)

const idempotencyKeyPrefix = "idempotency:"

func idempotencyKey(key, userID, tenantID string) string {
	return idempotencyKeyPrefix + tenantID + ":" + userID + ":" + key
}

type redisIdempotencyRepository struct {
	rdb *redis.Client
}

// NewRedisIdempotencyRepository stores processed requests in Redis until
// they expire.
func NewRedisIdempotencyRepository(rdb *redis.Client) domainRepo.IdempotencyRepository {
	return &redisIdempotencyRepository{rdb: rdb}
}

func (r *redisIdempotencyRepository) GetByKey(ctx context.Context, key, userID, tenantID string) (*entity.IdempotencyKey, error) {
	val, err := r.rdb.Get(ctx, idempotencyKey(key, userID, tenantID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("idempotency: get: %w", err)
	}

	var ikey entity.IdempotencyKey
	if err := json.Unmarshal(val, &ikey); err != nil {
		return nil, fmt.Errorf("idempotency: decode: %w", err)
	}
	if ikey.IsExpired() {
		return nil, nil
	}
	return &ikey, nil
}

func (r *redisIdempotencyRepository) Create(ctx context.Context, ikey *entity.IdempotencyKey) error {
	ttl := time.Until(ikey.ExpiresAt)
	if ttl <= 0 {
		return nil
	}
	data, err := json.Marshal(ikey)
	if err != nil {
		return fmt.Errorf("idempotency: encode: %w", err)
	}
	// SETNX keeps the first response when two retries race.
	if err := r.rdb.SetNX(ctx, idempotencyKey(ikey.Key, ikey.UserID, ikey.TenantID), data, ttl).Err(); err != nil {
		return fmt.Errorf("idempotency: set: %w", err)
	}
	return nil
}

type memoryIdempotencyRepository struct {
	mu   sync.Mutex
	keys map[string]entity.IdempotencyKey
}

// NewMemoryIdempotencyRepository keeps processed requests in process memory.
func NewMemoryIdempotencyRepository() domainRepo.IdempotencyRepository {
	return &memoryIdempotencyRepository{keys: make(map[string]entity.IdempotencyKey)}
}

func (r *memoryIdempotencyRepository) GetByKey(_ context.Context, key, userID, tenantID string) (*entity.IdempotencyKey, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := idempotencyKey(key, userID, tenantID)
	ikey, ok := r.keys[k]
	if !ok {
		return nil, nil
	}
	if ikey.IsExpired() {
		delete(r.keys, k)
		return nil, nil
	}
	return &ikey, nil
}

func (r *memoryIdempotencyRepository) Create(_ context.Context, ikey *entity.IdempotencyKey) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	k := idempotencyKey(ikey.Key, ikey.UserID, ikey.TenantID)
	if existing, ok := r.keys[k]; ok && !existing.IsExpired() {
		return nil
	}
	r.keys[k] = *ikey
	return nil
}
