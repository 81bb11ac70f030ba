package kv

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/dgraph-io/badger/v4"
)

// setSeparator splits a set key from its member in badger's flat keyspace.
// Plain keys never contain it, which keeps Keys scans free of set members.
const setSeparator = "\x00"

// BadgerOptions configures an embedded badger store.
type BadgerOptions struct {
	Path     string
	InMemory bool
	Logger   *slog.Logger
}

// Badger is an embedded Store backed by a badger database.
type Badger struct {
	db     *badger.DB
	logger *slog.Logger
}

// NewBadger opens (or creates) a badger database.
func NewBadger(opts BadgerOptions) (*Badger, error) {
	bopts := badger.DefaultOptions(opts.Path)
	if opts.InMemory {
		bopts = badger.DefaultOptions("").WithInMemory(true)
	}
	bopts.Logger = nil            // Disable Badger's internal logging
	bopts.SyncWrites = !opts.InMemory
	bopts.CompactL0OnClose = true // Compact L0 tables on close for faster startup

	db, err := badger.Open(bopts)
	if err != nil {
		return nil, fmt.Errorf("failed to open badger db: %w", err)
	}

	if opts.Logger != nil {
		opts.Logger.Info("Badger database opened successfully", "path", opts.Path, "in_memory", opts.InMemory)
	}

	return &Badger{db: db, logger: opts.Logger}, nil
}

// Get implements Store.
func (b *Badger) Get(ctx context.Context, key string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	var value string
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get([]byte(key))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			value = string(val)
			return nil
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return "", ErrNotFound
	}
	if err != nil {
		return "", fmt.Errorf("get %s: %w", key, err)
	}
	return value, nil
}

// Set implements Store.
func (b *Badger) Set(ctx context.Context, key, value string, ttl time.Duration) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		entry := badger.NewEntry([]byte(key), []byte(value))
		if ttl > 0 {
			entry = entry.WithTTL(ttl)
		}
		return txn.SetEntry(entry)
	})
}

// Delete implements Store.
func (b *Badger) Delete(ctx context.Context, key string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		return txn.Delete([]byte(key))
	})
}

// Keys implements Store.
func (b *Badger) Keys(ctx context.Context, prefix string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	var keys []string
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = []byte(prefix)
		opts.PrefetchValues = false // We only need keys

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(opts.Prefix); it.ValidForPrefix(opts.Prefix); it.Next() {
			key := string(it.Item().Key())
			if strings.Contains(key, setSeparator) {
				continue
			}
			keys = append(keys, key)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", prefix, err)
	}
	return keys, nil
}

// MGet implements Store. All keys are read inside a single view transaction.
func (b *Badger) MGet(ctx context.Context, keys ...string) ([]*string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	values := make([]*string, len(keys))
	err := b.db.View(func(txn *badger.Txn) error {
		for i, key := range keys {
			item, err := txn.Get([]byte(key))
			if errors.Is(err, badger.ErrKeyNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			if err := item.Value(func(val []byte) error {
				v := string(val)
				values[i] = &v
				return nil
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("mget: %w", err)
	}
	return values, nil
}

func memberKey(key, member string) []byte {
	return []byte(key + setSeparator + member)
}

// SAdd implements Store.
func (b *Badger) SAdd(ctx context.Context, key string, members ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		for _, m := range members {
			if err := txn.Set(memberKey(key, m), []byte{}); err != nil {
				return err
			}
		}
		return nil
	})
}

// SRem implements Store.
func (b *Badger) SRem(ctx context.Context, key string, members ...string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	return b.db.Update(func(txn *badger.Txn) error {
		for _, m := range members {
			if err := txn.Delete(memberKey(key, m)); err != nil {
				return err
			}
		}
		return nil
	})
}

// SMembers implements Store. Members are returned sorted.
func (b *Badger) SMembers(ctx context.Context, key string) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prefix := []byte(key + setSeparator)
	members := []string{}
	err := b.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.Prefix = prefix
		opts.PrefetchValues = false

		it := txn.NewIterator(opts)
		defer it.Close()

		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			members = append(members, string(it.Item().Key()[len(prefix):]))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("smembers %s: %w", key, err)
	}
	sort.Strings(members)
	return members, nil
}

// SIsMember implements Store.
func (b *Badger) SIsMember(ctx context.Context, key, member string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	err := b.db.View(func(txn *badger.Txn) error {
		_, err := txn.Get(memberKey(key, member))
		return err
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}

// Ping verifies the database still accepts read transactions.
func (b *Badger) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.db.IsClosed() {
		return errors.New("badger db is closed")
	}
	return b.db.View(func(*badger.Txn) error { return nil })
}

// Close gracefully closes the database. Closing twice is a no-op.
func (b *Badger) Close() error {
	if b.db.IsClosed() {
		return nil
	}
	if b.logger != nil {
		b.logger.Info("Closing database connection")
	}
	return b.db.Close()
}
