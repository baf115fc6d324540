// Package cache provides the optional Redis read-through cache for the
// resolve hot path. It is strictly an optimization: entries are copies of
// store records, invalidated on delete and bounded by a TTL. Cache failures
// are logged and ignored so Redis outages never fail a resolution.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"linkcut/internal/models"
)

const keyPrefix = "link:"

type RedisCache struct {
	rdb *redis.Client
	ttl time.Duration
	log *slog.Logger
}

func NewRedisCache(rdb *redis.Client, ttl time.Duration, log *slog.Logger) *RedisCache {
	if log == nil {
		log = slog.Default()
	}
	return &RedisCache{rdb: rdb, ttl: ttl, log: log.With("module", "cache")}
}

func (c *RedisCache) Get(ctx context.Context, code string) (*models.Link, bool) {
	payload, err := c.rdb.Get(ctx, keyPrefix+code).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache read failed", "code", code, "err", err)
		}
		return nil, false
	}

	var link models.Link
	if err := json.Unmarshal(payload, &link); err != nil {
		c.log.Warn("cache entry corrupt, evicting", "code", code, "err", err)
		c.Del(ctx, code)
		return nil, false
	}
	return &link, true
}

func (c *RedisCache) Set(ctx context.Context, link *models.Link) {
	payload, err := json.Marshal(link)
	if err != nil {
		c.log.Warn("cache encode failed", "code", link.Code, "err", err)
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+link.Code, payload, c.ttl).Err(); err != nil {
		c.log.Warn("cache write failed", "code", link.Code, "err", err)
	}
}

func (c *RedisCache) Del(ctx context.Context, code string) {
	if err := c.rdb.Del(ctx, keyPrefix+code).Err(); err != nil {
		c.log.Warn("cache invalidation failed", "code", code, "err", err)
	}
}
