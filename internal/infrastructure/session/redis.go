package session

import (
	"context"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"files-manager-api/config"
)

const DefaultKeyPrefix = "auth_"

// RedisResolver reads user ids written by the authentication service under
// <prefix><token>. Entries expire on the Redis side.
type RedisResolver struct {
	rdb    redis.Cmdable
	prefix string
}

func NewClient(cfg config.Redis) *redis.Client {
	return redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
}

func NewRedisResolver(rdb redis.Cmdable, prefix string) *RedisResolver {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return &RedisResolver{rdb: rdb, prefix: prefix}
}

func (r *RedisResolver) Resolve(ctx context.Context, token string) (string, bool, error) {
	if token == "" {
		return "", false, nil
	}

	userID, err := r.rdb.Get(ctx, r.prefix+token).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("session lookup: %w", err)
	}
	if userID == "" {
		return "", false, nil
	}

	return userID, true, nil
}

func (r *RedisResolver) Ping(ctx context.Context) error {
	return r.rdb.Ping(ctx).Err()
}
