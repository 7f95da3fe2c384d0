package kvstore

import (
	"context"

	"github.com/redis/go-redis/v9"
)

// Redis is a Store backed by a Redis client. Slots map to plain string keys,
// lists to Redis lists via RPush/LRange.
type Redis struct {
	rdb *redis.Client
}

// NewRedis wraps an existing Redis client as a Store.
func NewRedis(rdb *redis.Client) *Redis {
	return &Redis{rdb: rdb}
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, error) {
	val, err := r.rdb.Get(ctx, key).Bytes()
	if err == redis.Nil {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return val, nil
}

func (r *Redis) Set(ctx context.Context, key string, value []byte) error {
	return r.rdb.Set(ctx, key, value, 0).Err()
}

func (r *Redis) Delete(ctx context.Context, key string) error {
	return r.rdb.Del(ctx, key).Err()
}

func (r *Redis) Append(ctx context.Context, key string, value []byte) error {
	return r.rdb.RPush(ctx, key, value).Err()
}

func (r *Redis) List(ctx context.Context, key string) ([][]byte, error) {
	vals, err := r.rdb.LRange(ctx, key, 0, -1).Result()
	if err != nil {
		return nil, err
	}
	out := make([][]byte, len(vals))
	for i, v := range vals {
		out[i] = []byte(v)
	}
	return out, nil
}
