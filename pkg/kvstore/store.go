package kvstore

import (
	"context"
	"fmt"
	"strings"
)

// Store is a string key-value store. Get reports ok == false for a key
// that has never been set or has been removed.
type Store interface {
	Get(ctx context.Context, key string) (value string, ok bool, err error)
	Set(ctx context.Context, key, value string) error
	Remove(ctx context.Context, key string) error
	Close() error
}

// Backend names a Store implementation selectable from configuration.
type Backend string

const (
	BackendSQLite Backend = "sqlite"
	BackendRedis  Backend = "redis"
	BackendMemory Backend = "memory"
)

// ParseBackend validates a backend name.
func ParseBackend(name string) (Backend, error) {
	switch b := Backend(strings.ToLower(strings.TrimSpace(name))); b {
	case BackendSQLite, BackendRedis, BackendMemory:
		return b, nil
	default:
		return "", fmt.Errorf("invalid store backend: %s. Must be one of sqlite, redis, memory", name)
	}
}
