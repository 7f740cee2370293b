// Package cache 短码查询的读穿缓存，以及记录已发出短码的布隆过滤器
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"

	"linkcut.local/internal/app/shortener"
	"linkcut.local/internal/platform/metrics"
)

const (
	keyPrefix        = "url:"
	notFoundSentinel = "__nil__"
)

// State 是一次缓存查找的结果
type State int

const (
	Miss State = iota
	Hit
	// Negative 表示缓存明确记录了该短码不存在
	Negative
)

func (s State) label() string {
	switch s {
	case Hit:
		return "hit"
	case Negative:
		return "hit_negative"
	}
	return "miss"
}

// URLCache: L1 ristretto (可选) + L2 Redis
type URLCache struct {
	client   *redis.Client
	local    *LocalCache
	ttl      time.Duration
	emptyTTL time.Duration
}

func NewURLCache(client *redis.Client, local *LocalCache) *URLCache {
	return &URLCache{
		client:   client,
		local:    local,
		ttl:      time.Hour,
		emptyTTL: 30 * time.Second,
	}
}

func key(code string) string { return keyPrefix + code }

func (c *URLCache) Get(ctx context.Context, code string) (shortener.URL, State, error) {
	if c.local != nil {
		if u, st := c.local.Get(code); st != Miss {
			metrics.CacheOperations.WithLabelValues("l1", st.label()).Inc()
			return u, st, nil
		}
	}

	raw, err := c.client.Get(ctx, key(code)).Result()
	if errors.Is(err, redis.Nil) {
		metrics.CacheOperations.WithLabelValues("l2", "miss").Inc()
		return shortener.URL{}, Miss, nil
	}
	if err != nil {
		metrics.CacheOperations.WithLabelValues("l2", "error").Inc()
		return shortener.URL{}, Miss, err
	}

	if raw == notFoundSentinel {
		metrics.CacheOperations.WithLabelValues("l2", "hit_negative").Inc()
		if c.local != nil {
			c.local.SetNotFound(code)
		}
		return shortener.URL{}, Negative, nil
	}

	var u shortener.URL
	if err := json.Unmarshal([]byte(raw), &u); err != nil {
		// 坏数据当作未命中，顺手删掉
		metrics.CacheOperations.WithLabelValues("l2", "error").Inc()
		_ = c.client.Del(ctx, key(code)).Err()
		return shortener.URL{}, Miss, err
	}
	metrics.CacheOperations.WithLabelValues("l2", "hit").Inc()
	if c.local != nil {
		c.local.Set(u)
	}
	return u, Hit, nil
}

// Set 写入记录，同时覆盖可能存在的负缓存
func (c *URLCache) Set(ctx context.Context, u shortener.URL) error {
	if c.local != nil {
		c.local.Set(u)
	}
	b, err := json.Marshal(u)
	if err != nil {
		return err
	}
	return c.client.Set(ctx, key(u.Code), b, c.ttl).Err()
}

// SetNotFound 用明确的哨兵值做负缓存，防止缓存穿透。
// 不用 "" 做哨兵，否则分不清“未命中”和“命中空值”。
func (c *URLCache) SetNotFound(ctx context.Context, code string) error {
	if c.local != nil {
		c.local.SetNotFound(code)
	}
	return c.client.Set(ctx, key(code), notFoundSentinel, c.emptyTTL).Err()
}

func (c *URLCache) Delete(ctx context.Context, code string) error {
	if c.local != nil {
		c.local.Del(code)
	}
	return c.client.Del(ctx, key(code)).Err()
}

func (c *URLCache) Close() {
	if c.local != nil {
		c.local.Close()
		slog.Info("local cache closed")
	}
}
