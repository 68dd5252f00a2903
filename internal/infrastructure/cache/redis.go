// Package cache provides the Redis-backed report cache.  Reports are cached
// as JSON; concurrent misses for the same key collapse into a single build.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"golang.org/x/sync/singleflight"

	"github.com/Doommen3/congress-bill-stats/internal/config"
	"github.com/Doommen3/congress-bill-stats/internal/infrastructure/monitoring/logging"
	apperrors "github.com/Doommen3/congress-bill-stats/pkg/errors"
)

// Cache wraps a Redis client with JSON marshalling and a key prefix.
type Cache struct {
	client     *redis.Client
	keyPrefix  string
	defaultTTL time.Duration
	group      singleflight.Group
	log        logging.Logger
}

// New builds a Cache from configuration and verifies connectivity.
func New(ctx context.Context, cfg config.RedisConfig, log logging.Logger) (*Cache, error) {
	if log == nil {
		log = logging.NewNopLogger()
	}
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     cfg.PoolSize,
		MinIdleConns: cfg.MinIdleConns,
		DialTimeout:  cfg.DialTimeout,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "redis unreachable")
	}
	ttl := cfg.DefaultTTL
	if ttl <= 0 {
		ttl = 15 * time.Minute
	}
	log.Info("redis connected", logging.String("addr", cfg.Addr))
	return &Cache{
		client:     client,
		keyPrefix:  cfg.KeyPrefix,
		defaultTTL: ttl,
		log:        log.Named("cache"),
	}, nil
}

// NewWithClient wires an existing client, for tests.
func NewWithClient(client *redis.Client, keyPrefix string, defaultTTL time.Duration, log logging.Logger) *Cache {
	if log == nil {
		log = logging.NewNopLogger()
	}
	if defaultTTL <= 0 {
		defaultTTL = 15 * time.Minute
	}
	return &Cache{client: client, keyPrefix: keyPrefix, defaultTTL: defaultTTL, log: log}
}

func (c *Cache) key(parts ...string) string {
	key := c.keyPrefix
	for i, part := range parts {
		if i > 0 {
			key += ":"
		}
		key += part
	}
	return key
}

// StatsKey is the cache key for one session's report.
func (c *Cache) StatsKey(session int) string {
	return c.key("stats", fmt.Sprintf("%d", session))
}

// Get unmarshals the cached value at key into dest.  Returns false on a
// miss; Redis failures degrade to a miss so a cache outage never blocks
// reads.
func (c *Cache) Get(ctx context.Context, key string, dest interface{}) bool {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("cache get failed", logging.String("key", key), logging.Err(err))
		}
		return false
	}
	if err := json.Unmarshal(data, dest); err != nil {
		c.log.Warn("cache entry corrupt", logging.String("key", key), logging.Err(err))
		return false
	}
	return true
}

// Set stores a JSON-encoded value.  ttl <= 0 uses the configured default.
func (c *Cache) Set(ctx context.Context, key string, value interface{}, ttl time.Duration) {
	data, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache encode failed", logging.String("key", key), logging.Err(err))
		return
	}
	if ttl <= 0 {
		ttl = c.defaultTTL
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", logging.String("key", key), logging.Err(err))
	}
}

// Delete removes cached keys, for invalidation after a rebuild.
func (c *Cache) Delete(ctx context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		c.log.Warn("cache delete failed", logging.Err(err))
	}
}

// GetOrSet returns the cached JSON for key, or runs load once across all
// concurrent callers and caches its result.  load's result is returned
// JSON-encoded.
func (c *Cache) GetOrSet(ctx context.Context, key string, ttl time.Duration, load func(ctx context.Context) (interface{}, error)) ([]byte, error) {
	if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
		return data, nil
	}

	result, err, _ := c.group.Do(key, func() (interface{}, error) {
		// Re-check: another flight may have filled the key while this call
		// waited for the lock.
		if data, err := c.client.Get(ctx, key).Bytes(); err == nil {
			return data, nil
		}
		value, err := load(ctx)
		if err != nil {
			return nil, err
		}
		data, err := json.Marshal(value)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrCodeCacheError, "failed to encode cache value")
		}
		c.Set(ctx, key, json.RawMessage(data), ttl)
		return data, nil
	})
	if err != nil {
		return nil, err
	}
	return result.([]byte), nil
}

// HealthCheck pings Redis with a short deadline.
func (c *Cache) HealthCheck(ctx context.Context) error {
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	if err := c.client.Ping(ctx).Err(); err != nil {
		return apperrors.Wrap(err, apperrors.ErrCodeCacheError, "redis health check failed")
	}
	return nil
}

// Close releases the client.
func (c *Cache) Close() error { return c.client.Close() }

//Personal.AI order the ending
