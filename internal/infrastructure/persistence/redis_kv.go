package persistence

import (
	"context"
	"errors"

	goredis "github.com/redis/go-redis/v9"
	"nft-market.backend/pkg/redis"
)

var (
	redisGet = redis.Get
	redisSet = redis.Set
	redisDel = redis.Del
)

// RedisKV stores snapshots in Redis via the shared client. Keys never
// expire; the snapshot is the durable copy.
type RedisKV struct{}

// NewRedisKV creates a Redis-backed KV. redis.Init must have been called.
func NewRedisKV() *RedisKV {
	return &RedisKV{}
}

func (kv *RedisKV) Get(ctx context.Context, key string) (string, error) {
	val, err := redisGet(ctx, key)
	if err != nil {
		if errors.Is(err, goredis.Nil) {
			return "", ErrKeyNotFound
		}
		return "", err
	}
	return val, nil
}

func (kv *RedisKV) Set(ctx context.Context, key, value string) error {
	return redisSet(ctx, key, value, 0)
}

func (kv *RedisKV) Del(ctx context.Context, key string) error {
	return redisDel(ctx, key)
}
