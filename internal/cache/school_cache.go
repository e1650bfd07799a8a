// Package cache fronts school existence checks with Redis.
package cache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const (
	keyPrefix  = "school:exists:"
	defaultTTL = 5 * time.Minute
)

// SchoolLookup answers existence from the system of record.
type SchoolLookup interface {
	Exists(ctx context.Context, id string) (bool, error)
}

// SchoolCache caches positive existence results only, so a school created
// after a miss is visible immediately. Redis failures fall through to the
// lookup.
type SchoolCache struct {
	client *redis.Client
	source SchoolLookup
	ttl    time.Duration
	logger *zap.Logger
}

// NewSchoolCache returns a cache over source. A nil client disables caching.
func NewSchoolCache(client *redis.Client, source SchoolLookup, ttl time.Duration, logger *zap.Logger) *SchoolCache {
	if ttl <= 0 {
		ttl = defaultTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &SchoolCache{client: client, source: source, ttl: ttl, logger: logger}
}

// Exists reports whether the school id exists.
func (c *SchoolCache) Exists(ctx context.Context, id string) (bool, error) {
	if c.client == nil {
		return c.source.Exists(ctx, id)
	}

	err := c.client.Get(ctx, keyPrefix+id).Err()
	switch {
	case err == nil:
		return true, nil
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("school cache read failed", zap.String("school_id", id), zap.Error(err))
	}

	exists, err := c.source.Exists(ctx, id)
	if err != nil || !exists {
		return exists, err
	}
	if err := c.client.Set(ctx, keyPrefix+id, "1", c.ttl).Err(); err != nil {
		c.logger.Warn("school cache write failed", zap.String("school_id", id), zap.Error(err))
	}
	return true, nil
}

// Invalidate drops the cached entry for id.
func (c *SchoolCache) Invalidate(ctx context.Context, id string) error {
	if c.client == nil {
		return nil
	}
	return c.client.Del(ctx, keyPrefix+id).Err()
}
