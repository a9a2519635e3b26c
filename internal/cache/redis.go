package cache

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/nvoronin/golab/internal/log"
	"github.com/nvoronin/golab/internal/metrics"
)

// Redis is a Redis-backed implementation of Cache. Backend failures degrade
// to cache misses so a dead Redis never takes requests down with it.
type Redis struct {
	client *redis.Client
	logger zerolog.Logger

	hits      atomic.Int64
	misses    atomic.Int64
	sets      atomic.Int64
	evictions atomic.Int64
}

// RedisConfig holds connection settings for the Redis backend.
type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

// NewRedis connects to Redis and returns the cache. The connection is
// verified with a ping before use.
func NewRedis(cfg RedisConfig, logger zerolog.Logger) (*Redis, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  3 * time.Second,
		WriteTimeout: 3 * time.Second,
		PoolSize:     10,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("cache: redis connection failed: %w", err)
	}

	logger.Info().
		Str("addr", cfg.Addr).
		Int("db", cfg.DB).
		Msg("connected to Redis cache")

	return &Redis{client: client, logger: logger}, nil
}

// Get retrieves a value from Redis.
func (c *Redis) Get(ctx context.Context, key string) ([]byte, bool) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	val, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		c.misses.Add(1)
		metrics.CacheMiss("redis")
		return nil, false
	}
	if err != nil {
		c.logger.Warn().Err(err).Str(log.FieldKey, key).Msg("redis get failed")
		c.misses.Add(1)
		metrics.CacheMiss("redis")
		return nil, false
	}
	c.hits.Add(1)
	metrics.CacheHit("redis")
	return val, true
}

// Set stores a value in Redis with a TTL.
func (c *Redis) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	if err := c.client.Set(ctx, key, value, ttl).Err(); err != nil {
		c.logger.Warn().Err(err).Str(log.FieldKey, key).Msg("redis set failed")
		return
	}
	c.sets.Add(1)
}

// Delete removes a value from Redis.
func (c *Redis) Delete(ctx context.Context, key string) {
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()

	n, err := c.client.Del(ctx, key).Result()
	if err != nil {
		c.logger.Warn().Err(err).Str(log.FieldKey, key).Msg("redis delete failed")
		return
	}
	c.evictions.Add(n)
}

// Stats returns cache statistics. Size is -1: counting keys in Redis is not
// worth a KEYS scan.
func (c *Redis) Stats() Stats {
	return Stats{
		Hits:      c.hits.Load(),
		Misses:    c.misses.Load(),
		Sets:      c.sets.Load(),
		Evictions: c.evictions.Load(),
		Size:      -1,
	}
}

// Close releases the Redis client.
func (c *Redis) Close() error {
	return c.client.Close()
}
