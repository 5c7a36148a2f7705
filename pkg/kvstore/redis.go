package kvstore

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

// RedisConfig configures RedisStore.
type RedisConfig struct {
	Addr     string        // host:port, default "localhost:6379"
	Password string        // optional
	DB       int           // logical database index
	Prefix   string        // key prefix, default "moodlog"
	TTL      time.Duration // expiry for written keys, 0 = no expiry
}

// RedisStore keeps values in Redis under "<prefix>:<key>".
type RedisStore struct {
	client redis.UniversalClient
	prefix string
	ttl    time.Duration
}

// NewRedisStore connects to Redis and verifies the connection with PING.
func NewRedisStore(ctx context.Context, cfg RedisConfig) (*RedisStore, error) {
	if cfg.Addr == "" {
		cfg.Addr = "localhost:6379"
	}

	client := redis.NewClient(&redis.Options{
		Addr:     cfg.Addr,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to ping redis at '%s': %w", cfg.Addr, err)
	}

	return NewRedisStoreWithClient(client, cfg), nil
}

// NewRedisStoreWithClient wraps an existing client (single node, cluster or
// ring). Only Prefix and TTL are read from cfg.
func NewRedisStoreWithClient(client redis.UniversalClient, cfg RedisConfig) *RedisStore {
	prefix := cfg.Prefix
	if prefix == "" {
		prefix = "moodlog"
	}
	return &RedisStore{client: client, prefix: prefix, ttl: cfg.TTL}
}

func (r *RedisStore) key(key string) string {
	return fmt.Sprintf("%s:%s", r.prefix, key)
}

func (r *RedisStore) Get(ctx context.Context, key string) (string, bool, error) {
	val, err := r.client.Get(ctx, r.key(key)).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("failed to read key '%s': %w", key, err)
	}
	return val, true, nil
}

func (r *RedisStore) Set(ctx context.Context, key, value string) error {
	if err := r.client.Set(ctx, r.key(key), value, r.ttl).Err(); err != nil {
		return fmt.Errorf("failed to write key '%s': %w", key, err)
	}
	return nil
}

func (r *RedisStore) Remove(ctx context.Context, key string) error {
	if err := r.client.Del(ctx, r.key(key)).Err(); err != nil {
		return fmt.Errorf("failed to remove key '%s': %w", key, err)
	}
	return nil
}

func (r *RedisStore) Close() error {
	return r.client.Close()
}

var _ Store = (*RedisStore)(nil)
