package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"review-enhancer/domain/model"
	"review-enhancer/infrastructure/utils"

	"github.com/redis/go-redis/v9"
)

const reviewKeyPrefix = "reviews:"

type redisKV interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
}

type entry struct {
	Payload  *model.ReviewPayload `json:"payload"`
	CachedAt time.Time            `json:"cached_at"`
}

// ReviewCache stores payloads in Redis. The key carries a Redis TTL as well,
// but freshness is decided by cached_at so the injected clock is authoritative.
type ReviewCache struct {
	client redisKV
	ttl    time.Duration
	clock  utils.Clock
}

func NewReviewCache(client redisKV, ttl time.Duration, clock utils.Clock) *ReviewCache {
	return &ReviewCache{client: client, ttl: ttl, clock: clock}
}

func (c *ReviewCache) Get(ctx context.Context, key string) (*model.ReviewPayload, error) {
	raw, err := c.client.Get(ctx, reviewKeyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, nil
		}
		return nil, err
	}
	var e entry
	if err := json.Unmarshal(raw, &e); err != nil {
		return nil, err
	}
	if c.clock.Now().Sub(e.CachedAt) >= c.ttl {
		return nil, nil
	}
	return e.Payload, nil
}

func (c *ReviewCache) Set(ctx context.Context, key string, payload *model.ReviewPayload) error {
	raw, err := json.Marshal(entry{Payload: payload, CachedAt: c.clock.Now()})
	if err != nil {
		return err
	}
	return c.client.Set(ctx, reviewKeyPrefix+key, raw, c.ttl).Err()
}
