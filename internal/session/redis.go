package session

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "storefront:session:"

// RedisBackend stores identities as plain strings with no TTL.
type RedisBackend struct {
	rdb *redis.Client
}

func NewRedisBackend(rdb *redis.Client) *RedisBackend {
	return &RedisBackend{rdb: rdb}
}

func (b *RedisBackend) Get(ctx context.Context, id string) ([]byte, error) {
	data, err := b.rdb.Get(ctx, redisKeyPrefix+id).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, ErrNoSession
	}
	return data, err
}

func (b *RedisBackend) Put(ctx context.Context, id string, data []byte) error {
	return b.rdb.Set(ctx, redisKeyPrefix+id, data, 0).Err()
}

func (b *RedisBackend) Delete(ctx context.Context, id string) error {
	return b.rdb.Del(ctx, redisKeyPrefix+id).Err()
}
