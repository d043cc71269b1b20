package config

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// RedisClient is a global Redis client instance; nil when REDIS_ADDR is unset.
var RedisClient *redis.Client

func InitRedis() {
	addr := GetEnv("REDIS_ADDR", "")
	if addr == "" {
		RedisClient = nil
		return
	}
	RedisClient = redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: GetEnv("REDIS_PASS", ""),
		DB:       0,
	})
}

// PingRedis disables Redis when it is configured but unreachable.
func PingRedis(ctx context.Context) string {
	if RedisClient == nil {
		return "Redis not configured, per-SKU locks are process-local."
	}
	if err := RedisClient.Ping(ctx).Err(); err != nil {
		RedisClient = nil
		return "Redis configured but not reachable, per-SKU locks are process-local."
	}
	return "Redis connection successful, per-SKU locks are distributed."
}
