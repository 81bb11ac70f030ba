// Package kv defines the key-value store contract that every persisted record
// in the platform lives behind, plus its badger and redis implementations.
package kv

import (
	"context"
	"errors"
	"time"
)

// ErrNotFound is returned by Get when a key does not exist (or has expired).
var ErrNotFound = errors.New("kv: key not found")

// Store is the minimal key-value surface the registry and session layers use.
//
// Values are opaque strings; callers decide whether they hold JSON or a plain
// value. Sets are unordered collections of strings addressed by their own key.
type Store interface {
	Get(ctx context.Context, key string) (string, error)
	// Set writes value under key. A zero ttl means the key never expires.
	Set(ctx context.Context, key, value string, ttl time.Duration) error
	// Delete removes key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
	// Keys returns every plain key starting with prefix, in no particular order.
	Keys(ctx context.Context, prefix string) ([]string, error)
	// MGet returns one entry per key; missing keys yield a nil entry.
	MGet(ctx context.Context, keys ...string) ([]*string, error)

	SAdd(ctx context.Context, key string, members ...string) error
	SRem(ctx context.Context, key string, members ...string) error
	SMembers(ctx context.Context, key string) ([]string, error)
	SIsMember(ctx context.Context, key, member string) (bool, error)

	Ping(ctx context.Context) error
	Close() error
}

// Backend names accepted by configuration.
const (
	BackendBadger = "badger"
	BackendRedis  = "redis"
)
