// Package store persists tenant, library and session records in a key-value
// store using the platform's string-keyed schema.
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/librarysites/librarysites-server/internal/kv"
)

// Store is the registry of subdomains, library content, custom domain
// mappings and sessions. Every operation is an independent point read or
// write against the underlying kv.Store; there are no multi-key transactions.
type Store struct {
	kv     kv.Store
	logger *slog.Logger
}

// New creates a Store over the given key-value backend.
func New(backend kv.Store, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{kv: backend, logger: logger}
}

// Ping verifies the backend is reachable.
func (s *Store) Ping(ctx context.Context) error {
	return s.kv.Ping(ctx)
}

// Close closes the backend.
func (s *Store) Close() error {
	return s.kv.Close()
}

// Helper methods for JSON-valued keys.

// getJSON loads key into dest. found is false when the key is absent.
func (s *Store) getJSON(ctx context.Context, key string, dest any) (found bool, err error) {
	raw, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	if err := json.Unmarshal([]byte(raw), dest); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

// setJSON stores value under key.
func (s *Store) setJSON(ctx context.Context, key string, value any, ttl time.Duration) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to marshal value: %w", err)
	}
	return s.kv.Set(ctx, key, string(data), ttl)
}

// exists checks if a key exists.
func (s *Store) exists(ctx context.Context, key string) (bool, error) {
	_, err := s.kv.Get(ctx, key)
	if errors.Is(err, kv.ErrNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
