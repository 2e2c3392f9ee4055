package state

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/redis/go-redis/v9"
)

const defaultRedisPrefix = "ytannounce:"

type redisKV struct {
	client *redis.Client
	prefix string
}

// OpenRedis connects to addr and namespaces every key with prefix.
func OpenRedis(ctx context.Context, addr, prefix string) (KV, error) {
	if strings.TrimSpace(addr) == "" {
		return nil, errors.New("REDIS_ADDR is required for the redis driver")
	}
	client := redis.NewClient(&redis.Options{Addr: addr})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}
	return NewRedis(client, prefix), nil
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string) KV {
	if prefix == "" {
		prefix = defaultRedisPrefix
	}
	return &redisKV{client: client, prefix: prefix}
}

func (s *redisKV) Get(ctx context.Context, key string) (string, error) {
	v, err := s.client.Get(ctx, s.prefix+key).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("failed to read %s: %w", key, err)
	}
	return v, nil
}

func (s *redisKV) Set(ctx context.Context, key, value string) error {
	if err := s.client.Set(ctx, s.prefix+key, value, 0).Err(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	return nil
}

func (s *redisKV) Close() error { return s.client.Close() }
