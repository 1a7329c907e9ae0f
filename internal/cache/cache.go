package cache

import (
	"context"
	"encoding/json"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"
)

// Cache is a Redis cache-aside layer for JSON values. With a nil client
// every operation is a no-op and every read is a miss.
type Cache struct {
	rdb    *redis.Client
	hits   prometheus.Counter
	misses prometheus.Counter
}

// New connects to redisURL. An empty URL, an invalid URL or a failed ping
// leave caching disabled instead of failing startup.
func New(ctx context.Context, redisURL string, log *logrus.Logger) *Cache {
	if redisURL == "" {
		log.Info("redis: no URL configured, caching disabled")
		return &Cache{}
	}

	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		log.WithError(err).Warn("redis: invalid URL, caching disabled")
		return &Cache{}
	}

	rdb := redis.NewClient(opts)

	pingCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()

	if err := rdb.Ping(pingCtx).Err(); err != nil {
		log.WithError(err).Warn("redis: connection failed, caching disabled")
		_ = rdb.Close()
		return &Cache{}
	}

	log.WithField("addr", opts.Addr).Info("redis: connected, caching enabled")
	return &Cache{rdb: rdb}
}

// Instrument counts hits and misses on the given counters.
func (c *Cache) Instrument(hits, misses prometheus.Counter) *Cache {
	c.hits, c.misses = hits, misses
	return c
}

// Enabled reports whether a Redis client is configured.
func (c *Cache) Enabled() bool { return c.rdb != nil }

// GetJSON decodes the value at key into dst and reports whether it was found.
func (c *Cache) GetJSON(ctx context.Context, key string, dst any) (bool, error) {
	if c.rdb == nil {
		return false, nil
	}
	data, err := c.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		c.observe(c.misses)
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal(data, dst); err != nil {
		c.observe(c.misses)
		return false, err
	}
	c.observe(c.hits)
	return true, nil
}

// SetJSON stores v at key for ttl.
func (c *Cache) SetJSON(ctx context.Context, key string, v any, ttl time.Duration) error {
	if c.rdb == nil {
		return nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, key, b, ttl).Err()
}

func (c *Cache) Delete(ctx context.Context, keys ...string) error {
	if c.rdb == nil || len(keys) == 0 {
		return nil
	}
	return c.rdb.Del(ctx, keys...).Err()
}

// Ping checks the connection. A disabled cache is always healthy.
func (c *Cache) Ping(ctx context.Context) error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Ping(ctx).Err()
}

// Close shuts down the Redis connection.
func (c *Cache) Close() error {
	if c.rdb == nil {
		return nil
	}
	return c.rdb.Close()
}

func (c *Cache) observe(counter prometheus.Counter) {
	if counter != nil {
		counter.Inc()
	}
}
