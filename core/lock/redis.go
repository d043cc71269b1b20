package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

const (
	redisLockTTL     = 30 * time.Second
	redisLockBackoff = 50 * time.Millisecond
	redisLockRetries = 100
)

var ErrNotObtained = errors.New("lock: could not obtain lock")

// RedisLocker serializes a key across processes with a redislock lease. A local
// KeyedMutex is taken first so goroutines of one process queue in memory instead
// of polling Redis.
type RedisLocker struct {
	local  *KeyedMutex
	client *redislock.Client
	prefix string
}

func NewRedisLocker(rdb *redis.Client, prefix string) *RedisLocker {
	return &RedisLocker{
		local:  NewKeyedMutex(),
		client: redislock.New(rdb),
		prefix: prefix,
	}
}

func (r *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	release, _ := r.local.Lock(ctx, key)
	lockKey := fmt.Sprintf("%s:%s", r.prefix, key)
	l, err := r.client.Obtain(ctx, lockKey, redisLockTTL, &redislock.Options{
		RetryStrategy: redislock.LimitRetry(redislock.LinearBackoff(redisLockBackoff), redisLockRetries),
	})
	if err == redislock.ErrNotObtained {
		release()
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, lockKey)
	} else if err != nil {
		release()
		return nil, err
	}
	return func() {
		_ = l.Release(context.Background())
		release()
	}, nil
}
