// Package cache keeps read-mostly query results in Redis.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"go.uber.org/zap"

	"github.com/hostelmess/mess-service/internal/config"
	"github.com/hostelmess/mess-service/internal/core/domain"
	"github.com/hostelmess/mess-service/internal/core/ports"
)

const menuKey = "mess:menu:week"

// RedisClient is the part of *redis.Client the cache needs.
type RedisClient interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// MenuCache stores the weekly menu. Redis failures degrade to cache misses.
type MenuCache struct {
	client RedisClient
	ttl    time.Duration
	cb     *gobreaker.CircuitBreaker
	log    *zap.Logger
}

var _ ports.MenuCache = (*MenuCache)(nil)

func NewMenuCache(client RedisClient, ttl time.Duration, log *zap.Logger) *MenuCache {
	return &MenuCache{
		client: client,
		ttl:    ttl,
		cb:     config.NewCircuitBreaker(config.BreakerMenuCache, log),
		log:    log,
	}
}

func (c *MenuCache) Get(ctx context.Context) ([]domain.Menu, bool) {
	raw, err := c.cb.Execute(func() (interface{}, error) {
		val, err := c.client.Get(ctx, menuKey).Bytes()
		if errors.Is(err, redis.Nil) {
			// a miss is not a Redis failure
			return nil, nil
		}
		return val, err
	})
	if err != nil {
		c.log.Warn("menu cache read failed", zap.Error(err))
		return nil, false
	}
	body, _ := raw.([]byte)
	if body == nil {
		return nil, false
	}

	var menus []domain.Menu
	if err := json.Unmarshal(body, &menus); err != nil {
		c.log.Warn("menu cache entry corrupt", zap.Error(err))
		return nil, false
	}
	return menus, true
}

func (c *MenuCache) Set(ctx context.Context, menus []domain.Menu) {
	body, err := json.Marshal(menus)
	if err != nil {
		c.log.Warn("menu cache encode failed", zap.Error(err))
		return
	}
	_, err = c.cb.Execute(func() (interface{}, error) {
		return nil, c.client.Set(ctx, menuKey, body, c.ttl).Err()
	})
	if err != nil {
		c.log.Warn("menu cache write failed", zap.Error(err))
	}
}

func (c *MenuCache) Invalidate(ctx context.Context) {
	_, err := c.cb.Execute(func() (interface{}, error) {
		return nil, c.client.Del(ctx, menuKey).Err()
	})
	if err != nil {
		c.log.Warn("menu cache invalidation failed", zap.Error(err))
	}
}
