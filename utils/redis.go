package utils

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/chnm/relcensus-backend/config"
)

var RedisClient *redis.Client

// InitRedis connects the shared Redis client used for the geocode cache and the
// API rate limiter store.
func InitRedis(cfg *config.Config) error {
	addr := cfg.RedisAddr
	if addr == "" {
		addr = "localhost:6379"
	}

	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: cfg.RedisPassword,
		DB:       cfg.RedisDB,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient = nil
		return fmt.Errorf("redis ping failed: %w", err)
	}

	log.Printf("✅ Redis connected at %s", addr)
	return nil
}

// CacheGet returns the cached value for key, or "" when absent.
func CacheGet(ctx context.Context, key string) (string, error) {
	if RedisClient == nil {
		return "", nil
	}
	val, err := RedisClient.Get(ctx, key).Result()
	if err == redis.Nil {
		return "", nil
	}
	return val, err
}

// CacheSet stores value under key with a TTL.
func CacheSet(ctx context.Context, key, value string, ttl time.Duration) error {
	if RedisClient == nil {
		return nil
	}
	return RedisClient.Set(ctx, key, value, ttl).Err()
}
