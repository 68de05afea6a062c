package cache

import (
	"context"
	"errors"
	"time"

	"github.com/Domenick1991/roombooking/config"
	"github.com/redis/go-redis/v9"
)

const versionKey = "avail:version"

func NewRedisClient(cfg config.RedisConfig) *redis.Client {
	return redis.NewClient(&redis.Options{Addr: cfg.Addr, Password: cfg.Password, DB: cfg.DB})
}

type RedisCache struct {
	client *redis.Client
}

func NewRedisCache(client *redis.Client) *RedisCache {
	return &RedisCache{client: client}
}

func (c *RedisCache) Get(ctx context.Context, key string) ([]byte, bool, error) {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return data, true, nil
}

func (c *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) error {
	if ttl < 0 {
		ttl = 0
	}
	return c.client.Set(ctx, key, value, ttl).Err()
}

func (c *RedisCache) Delete(ctx context.Context, keys ...string) error {
	if len(keys) == 0 {
		return nil
	}
	return c.client.Del(ctx, keys...).Err()
}

// RedisVersion shares the availability version between instances.
type RedisVersion struct {
	client *redis.Client
	key    string
}

func NewRedisVersion(client *redis.Client) *RedisVersion {
	return &RedisVersion{client: client, key: versionKey}
}

func (v *RedisVersion) Current(ctx context.Context) (int64, error) {
	n, err := v.client.Get(ctx, v.key).Int64()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return 0, nil
		}
		return 0, err
	}
	return n, nil
}

func (v *RedisVersion) Bump(ctx context.Context) (int64, error) {
	return v.client.Incr(ctx, v.key).Result()
}

var (
	_ Backend       = (*RedisCache)(nil)
	_ VersionSource = (*RedisVersion)(nil)
)
