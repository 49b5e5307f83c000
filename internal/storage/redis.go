package storage

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultRedisPrefix namespaces token keys.
const DefaultRedisPrefix = "ta:token:"

// Redis stores tokens as plain string values under prefix+key.  A zero TTL
// keeps keys until Delete.
type Redis struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedis wraps client.  An empty prefix selects DefaultRedisPrefix.
func NewRedis(client redis.UniversalClient, prefix string, ttl time.Duration) *Redis {
	if prefix == "" {
		prefix = DefaultRedisPrefix
	}
	return &Redis{client: client, prefix: prefix, ttl: ttl}
}

func (b *Redis) Get(ctx context.Context, key string) (string, error) {
	if key == "" {
		return "", ErrNotFound
	}
	tok, err := b.client.Get(ctx, b.prefix+key).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", ErrNotFound
		}
		return "", fmt.Errorf("redis get: %w", err)
	}
	return tok, nil
}

func (b *Redis) Set(ctx context.Context, key, token string) error {
	if key == "" {
		return errors.New("storage: empty key")
	}
	if err := b.client.Set(ctx, b.prefix+key, token, b.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func (b *Redis) Delete(ctx context.Context, key string) error {
	if key == "" {
		return nil
	}
	if err := b.client.Del(ctx, b.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del: %w", err)
	}
	return nil
}
