package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/aurelle/marketing-backend/internal/logger"
)

type redisCache struct {
	log *logger.Logger
	rdb *goredis.Client
}

// NewRedisCache connects to Redis from env. Returns (nil, nil) when
// REDIS_ADDR is unset so the caller can run without a cache.
func NewRedisCache(log *logger.Logger) (Cache, error) {
	if log == nil {
		return nil, fmt.Errorf("logger required")
	}

	addr := strings.TrimSpace(os.Getenv("REDIS_ADDR"))
	if addr == "" {
		return nil, nil
	}

	rdb := goredis.NewClient(&goredis.Options{
		Addr:        addr,
		Password:    strings.TrimSpace(os.Getenv("REDIS_PASSWORD")),
		DialTimeout: 5 * time.Second,
		ReadTimeout: 5 * time.Second,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := rdb.Ping(ctx).Err(); err != nil {
		_ = rdb.Close()
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &redisCache{
		log: log.With("client", "RedisCache"),
		rdb: rdb,
	}, nil
}

func (c *redisCache) Available() bool {
	return c != nil && c.rdb != nil
}

func (c *redisCache) Set(ctx context.Context, key string, value any, ttl time.Duration) bool {
	if !c.Available() {
		return false
	}
	raw, err := json.Marshal(value)
	if err != nil {
		c.log.Warn("cache set: encode failed", "key", key, "error", err)
		return false
	}
	if err := c.rdb.Set(ctx, key, raw, ttl).Err(); err != nil {
		c.log.Warn("cache set failed", "key", key, "error", err)
		return false
	}
	return true
}

func (c *redisCache) Get(ctx context.Context, key string, dest any) bool {
	if !c.Available() {
		return false
	}
	raw, err := c.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return false
	}
	if err != nil {
		c.log.Warn("cache get failed", "key", key, "error", err)
		return false
	}
	if err := json.Unmarshal(raw, dest); err != nil {
		c.log.Warn("cache get: decode failed, dropping entry", "key", key, "error", err)
		_ = c.rdb.Del(ctx, key).Err()
		return false
	}
	return true
}

func (c *redisCache) Delete(ctx context.Context, key string) bool {
	if !c.Available() {
		return false
	}
	n, err := c.rdb.Del(ctx, key).Result()
	if err != nil {
		c.log.Warn("cache delete failed", "key", key, "error", err)
		return false
	}
	return n > 0
}

func (c *redisCache) DeletePattern(ctx context.Context, pattern string) int {
	if !c.Available() {
		return 0
	}
	var deleted int
	iter := c.rdb.Scan(ctx, 0, pattern, 200).Iterator()
	batch := make([]string, 0, 200)
	for iter.Next(ctx) {
		batch = append(batch, iter.Val())
		if len(batch) >= 200 {
			deleted += c.deleteBatch(ctx, batch)
			batch = batch[:0]
		}
	}
	if err := iter.Err(); err != nil {
		c.log.Warn("cache pattern scan failed", "pattern", pattern, "error", err)
	}
	if len(batch) > 0 {
		deleted += c.deleteBatch(ctx, batch)
	}
	return deleted
}

func (c *redisCache) deleteBatch(ctx context.Context, keys []string) int {
	n, err := c.rdb.Del(ctx, keys...).Result()
	if err != nil {
		c.log.Warn("cache batch delete failed", "error", err)
		return 0
	}
	return int(n)
}

func (c *redisCache) Stats(ctx context.Context) map[string]any {
	if !c.Available() {
		return map[string]any{"status": "disconnected"}
	}
	info, err := c.rdb.Info(ctx, "stats", "memory", "clients").Result()
	if err != nil {
		c.log.Warn("cache stats failed", "error", err)
		return map[string]any{"status": "error"}
	}
	stats := map[string]any{"status": "connected"}
	for _, line := range strings.Split(info, "\n") {
		line = strings.TrimSpace(line)
		parts := strings.SplitN(line, ":", 2)
		if len(parts) != 2 {
			continue
		}
		switch parts[0] {
		case "used_memory_human", "keyspace_hits", "keyspace_misses", "connected_clients":
			stats[parts[0]] = parts[1]
		}
	}
	return stats
}
