// Package cache keeps read-mostly catalog listings in Redis
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-redis/redis/v8"
	"github.com/kydzoster/e-learning-dj-linux/internal/metrics"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const keyPrefix = "educa:"

// Keys of cached catalog listings
const (
	KeySubjects   = "subjects"
	KeyAllCourses = "courses:all"
)

// SubjectCoursesKey is the key of the course listing of one subject
func SubjectCoursesKey(slug string) string {
	return "courses:subject:" + slug
}

// Store is the subset of *redis.Client used by the cache
type Store interface {
	Get(ctx context.Context, key string) *redis.StringCmd
	Set(ctx context.Context, key string, value interface{}, expiration time.Duration) *redis.StatusCmd
	Del(ctx context.Context, keys ...string) *redis.IntCmd
}

// Cache is a JSON read-through cache. Concurrent misses on the same key share one load.
type Cache struct {
	store   Store
	ttl     time.Duration
	group   singleflight.Group
	metrics *metrics.Collector
	logger  *zap.Logger
}

// New creates a cache storing entries for ttl
func New(store Store, ttl time.Duration, m *metrics.Collector, logger *zap.Logger) *Cache {
	return &Cache{
		store:   store,
		ttl:     ttl,
		metrics: m,
		logger:  logger,
	}
}

// GetOrLoad returns the cached value of key, calling load and storing its result on a miss.
// Redis failures are logged and fall back to load.
func GetOrLoad[T any](ctx context.Context, c *Cache, key string, load func(context.Context) (T, error)) (T, error) {
	label := metricLabel(key)

	raw, err := c.store.Get(ctx, keyPrefix+key).Bytes()
	switch {
	case err == nil:
		var value T
		if jsonErr := json.Unmarshal(raw, &value); jsonErr == nil {
			c.metrics.CacheHits.WithLabelValues(label).Inc()
			return value, nil
		}
		c.logger.Warn("discarding undecodable cache entry", zap.String("key", key))
	case !errors.Is(err, redis.Nil):
		c.logger.Warn("cache read failed", zap.String("key", key), zap.Error(err))
	}
	c.metrics.CacheMisses.WithLabelValues(label).Inc()

	result, err, _ := c.group.Do(key, func() (any, error) {
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}

		encoded, err := json.Marshal(value)
		if err != nil {
			return nil, fmt.Errorf("failed to encode cache entry: %w", err)
		}
		if err := c.store.Set(ctx, keyPrefix+key, encoded, c.ttl).Err(); err != nil {
			c.logger.Warn("cache write failed", zap.String("key", key), zap.Error(err))
		}
		return value, nil
	})
	if err != nil {
		var zero T
		return zero, err
	}

	return result.(T), nil
}

// Invalidate removes the given keys
func (c *Cache) Invalidate(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}

	prefixed := make([]string, len(keys))
	for i, key := range keys {
		prefixed[i] = keyPrefix + key
	}

	if err := c.store.Del(ctx, prefixed...).Err(); err != nil {
		return fmt.Errorf("failed to invalidate cache: %w", err)
	}
	return nil
}

// metricLabel drops per-entity suffixes so labels stay bounded
func metricLabel(key string) string {
	if i := strings.LastIndex(key, ":"); i > 0 && strings.HasPrefix(key, "courses:subject:") {
		return key[:i]
	}
	return key
}
