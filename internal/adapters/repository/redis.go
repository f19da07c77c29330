package repository

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	defaultRedisPrefix = "vstrike:"
	scanBatch          = 100
)

// RedisStore keeps each record as a Redis string.
type RedisStore struct {
	client *redis.Client
	prefix string
}

// NewRedisStore wraps a go-redis client.
func NewRedisStore(client *redis.Client, opts ...RedisOption) *RedisStore {
	s := &RedisStore{client: client, prefix: defaultRedisPrefix}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Ping checks connectivity.
func (s *RedisStore) Ping(ctx context.Context) error {
	if err := s.client.Ping(ctx).Err(); err != nil {
		return fmt.Errorf("redis ping: %w", err)
	}
	return nil
}

// Get returns the value under key.
func (s *RedisStore) Get(ctx context.Context, key string) ([]byte, error) {
	start := time.Now()
	v, err := s.client.Get(ctx, s.prefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		err = ErrNotFound
	} else if err != nil {
		err = fmt.Errorf("redis get %s: %w", key, err)
	}
	observe(BackendRedis, "get", start, err)
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Set stores value without expiry.
func (s *RedisStore) Set(ctx context.Context, key string, value []byte) error {
	start := time.Now()
	err := s.client.Set(ctx, s.prefix+key, value, 0).Err()
	if err != nil {
		err = fmt.Errorf("redis set %s: %w", key, err)
	}
	observe(BackendRedis, "set", start, err)
	return err
}

// Delete removes key.
func (s *RedisStore) Delete(ctx context.Context, key string) error {
	if err := s.client.Del(ctx, s.prefix+key).Err(); err != nil {
		return fmt.Errorf("redis del %s: %w", key, err)
	}
	return nil
}

// Keys scans for keys with the prefix.
func (s *RedisStore) Keys(ctx context.Context, prefix string) ([]string, error) {
	var (
		keys   []string
		cursor uint64
	)
	for {
		batch, next, err := s.client.Scan(ctx, cursor, s.prefix+prefix+"*", scanBatch).Result()
		if err != nil {
			return nil, fmt.Errorf("redis scan %s: %w", prefix, err)
		}
		for _, k := range batch {
			keys = append(keys, strings.TrimPrefix(k, s.prefix))
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	sort.Strings(keys)
	return keys, nil
}

// Close closes the client.
func (s *RedisStore) Close() error {
	return s.client.Close()
}
