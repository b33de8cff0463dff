package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/Domenick1991/tourbooking/config"
	"github.com/redis/go-redis/v9"
)

type RedisCache struct {
	client          *redis.Client
	availabilityTTL time.Duration
}

func NewRedisCache(cfg config.RedisConfig, availabilityTTL time.Duration) *RedisCache {
	return &RedisCache{
		client:          redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB}),
		availabilityTTL: availabilityTTL,
	}
}

// Client exposes the underlying connection for components that share it,
// such as the rate limiter store.
func (c *RedisCache) Client() *redis.Client {
	return c.client
}

// GetOccupancy returns the cached counts for tourID and whether they were
// present.
func (c *RedisCache) GetOccupancy(ctx context.Context, tourID string) (map[string]int, bool, error) {
	data, err := c.client.Get(ctx, occupancyKey(tourID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}

	counts := map[string]int{}
	if err := json.Unmarshal(data, &counts); err != nil {
		return nil, false, err
	}
	return counts, true, nil
}

func (c *RedisCache) SetOccupancy(ctx context.Context, tourID string, counts map[string]int) error {
	payload, err := json.Marshal(counts)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, occupancyKey(tourID), payload, c.availabilityTTL).Err()
}

func (c *RedisCache) InvalidateOccupancy(ctx context.Context, tourID string) error {
	return c.client.Del(ctx, occupancyKey(tourID)).Err()
}

// ClaimIdempotencyKey stores value under key if the key is unused. When the
// key was already claimed the stored value is returned with claimed=false.
func (c *RedisCache) ClaimIdempotencyKey(ctx context.Context, tourID, key string, value []byte, ttl time.Duration) ([]byte, bool, error) {
	k := idempotencyKey(tourID, key)
	ok, err := c.client.SetNX(ctx, k, value, ttl).Result()
	if err != nil {
		return nil, false, err
	}
	if ok {
		return value, true, nil
	}

	stored, err := c.client.Get(ctx, k).Bytes()
	if err != nil {
		return nil, false, err
	}
	return stored, false, nil
}

// UpdateIdempotencyKey replaces the value of an existing key and keeps its
// TTL. A key that expired in the meantime stays absent.
func (c *RedisCache) UpdateIdempotencyKey(ctx context.Context, tourID, key string, value []byte) error {
	err := c.client.SetArgs(ctx, idempotencyKey(tourID, key), value, redis.SetArgs{Mode: "XX", KeepTTL: true}).Err()
	if errors.Is(err, redis.Nil) {
		return nil
	}
	return err
}

func (c *RedisCache) ReleaseIdempotencyKey(ctx context.Context, tourID, key string) error {
	return c.client.Del(ctx, idempotencyKey(tourID, key)).Err()
}

func (c *RedisCache) Ping(ctx context.Context) error {
	return c.client.Ping(ctx).Err()
}

func (c *RedisCache) Close() error {
	return c.client.Close()
}

func occupancyKey(tourID string) string {
	return fmt.Sprintf("cache:occupancy:%s", tourID)
}

func idempotencyKey(tourID, key string) string {
	return fmt.Sprintf("idem:booking:%s:%s", tourID, key)
}
