package utils

import (
	"context"
	"net"
	"strconv"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/cppla/nexus/config"
)

var (
	redisClient *redis.Client
	redisOnce   sync.Once
)

// InitRedis builds the shared Redis client. An empty RedisHost leaves caching disabled.
func InitRedis(cfg config.AppConfig) *redis.Client {
	redisOnce.Do(func() {
		if cfg.CacheTTLSeconds > 0 {
			cacheTTL = time.Duration(cfg.CacheTTLSeconds) * time.Second
		}
		if cfg.RedisHost == "" {
			return
		}
		redisClient = redis.NewClient(&redis.Options{
			Addr:         net.JoinHostPort(cfg.RedisHost, strconv.Itoa(cfg.RedisPort)),
			Password:     cfg.RedisPassword,
			DB:           cfg.RedisDB,
			DialTimeout:  3 * time.Second,
			ReadTimeout:  2 * time.Second,
			WriteTimeout: 2 * time.Second,
		})
		// Ping only to surface misconfiguration early; cache calls degrade to misses on error
		ctx, cancel := context.WithTimeout(context.Background(), 2*time.Second)
		defer cancel()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			Sugar.Warnf("redis ping failed addr=%s err=%v", redisClient.Options().Addr, err)
		}
	})
	return redisClient
}

// GetRedis returns the shared client, or nil when caching is disabled.
func GetRedis() *redis.Client {
	return redisClient
}
