package kv

import (
	"context"
	"fmt"
	"sort"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-redis/redis/v8"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// backends returns one fresh Store per implementation so every contract test
// runs against badger and redis alike.
func backends(t *testing.T) map[string]Store {
	t.Helper()

	b, err := NewBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)
	t.Cleanup(func() { _ = b.Close() })

	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	r := NewRedisFromClient(client)
	t.Cleanup(func() { _ = r.Close() })

	return map[string]Store{
		BackendBadger: b,
		BackendRedis:  r,
	}
}

func TestStore_GetSetDelete(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			_, err := s.Get(ctx, "subdomain:acme")
			assert.ErrorIs(t, err, ErrNotFound)

			require.NoError(t, s.Set(ctx, "subdomain:acme", `{"emoji":"📚"}`, 0))

			got, err := s.Get(ctx, "subdomain:acme")
			require.NoError(t, err)
			assert.Equal(t, `{"emoji":"📚"}`, got)

			require.NoError(t, s.Delete(ctx, "subdomain:acme"))
			_, err = s.Get(ctx, "subdomain:acme")
			assert.ErrorIs(t, err, ErrNotFound)

			// Deleting again is a no-op.
			assert.NoError(t, s.Delete(ctx, "subdomain:acme"))
		})
	}
}

func TestStore_KeysByPrefix(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, "subdomain:a", "1", 0))
			require.NoError(t, s.Set(ctx, "subdomain:b", "2", 0))
			require.NoError(t, s.Set(ctx, "library:a", "3", 0))
			require.NoError(t, s.SAdd(ctx, "subdomain:set", "x"))

			keys, err := s.Keys(ctx, "subdomain:")
			require.NoError(t, err)
			sort.Strings(keys)

			if name == BackendBadger {
				assert.Equal(t, []string{"subdomain:a", "subdomain:b"}, keys)
			} else {
				// Redis sets live in the same keyspace as plain keys.
				assert.Equal(t, []string{"subdomain:a", "subdomain:b", "subdomain:set"}, keys)
			}
		})
	}
}

func TestStore_MGet(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()

			require.NoError(t, s.Set(ctx, "k1", "v1", 0))
			require.NoError(t, s.Set(ctx, "k3", "v3", 0))

			values, err := s.MGet(ctx, "k1", "k2", "k3")
			require.NoError(t, err)
			require.Len(t, values, 3)

			require.NotNil(t, values[0])
			assert.Equal(t, "v1", *values[0])
			assert.Nil(t, values[1])
			require.NotNil(t, values[2])
			assert.Equal(t, "v3", *values[2])
		})
	}
}

func TestStore_Sets(t *testing.T) {
	for name, s := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			key := "user:owner@example.com:subdomains"

			members, err := s.SMembers(ctx, key)
			require.NoError(t, err)
			assert.Empty(t, members)

			require.NoError(t, s.SAdd(ctx, key, "beta", "alpha"))
			require.NoError(t, s.SAdd(ctx, key, "alpha"))

			members, err = s.SMembers(ctx, key)
			require.NoError(t, err)
			assert.Equal(t, []string{"alpha", "beta"}, members)

			ok, err := s.SIsMember(ctx, key, "beta")
			require.NoError(t, err)
			assert.True(t, ok)

			require.NoError(t, s.SRem(ctx, key, "beta"))

			ok, err = s.SIsMember(ctx, key, "beta")
			require.NoError(t, err)
			assert.False(t, ok)
		})
	}
}

func TestRedis_SetWithTTLExpires(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer r.Close()

	ctx := context.Background()
	require.NoError(t, r.Set(ctx, "session:abc", "{}", time.Hour))

	mr.FastForward(2 * time.Hour)

	_, err := r.Get(ctx, "session:abc")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBadger_PingAfterClose(t *testing.T) {
	b, err := NewBadger(BadgerOptions{InMemory: true})
	require.NoError(t, err)

	require.NoError(t, b.Ping(context.Background()))
	require.NoError(t, b.Close())
	assert.Error(t, b.Ping(context.Background()))
}

func TestAppendUnique_DropsRepeatedScanKeys(t *testing.T) {
	seen := make(map[string]struct{})

	keys := appendUnique(nil, seen, []string{"subdomain:a", "subdomain:b"})
	keys = appendUnique(keys, seen, []string{"subdomain:b", "subdomain:c", "subdomain:a"})

	assert.Equal(t, []string{"subdomain:a", "subdomain:b", "subdomain:c"}, keys)
}

func TestRedis_KeysAcrossBatchesAreUnique(t *testing.T) {
	mr := miniredis.RunT(t)
	r := NewRedisFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}))
	defer r.Close()

	ctx := context.Background()
	want := 3*scanBatch + 7
	for i := range want {
		require.NoError(t, r.Set(ctx, fmt.Sprintf("customdomain:lib%d.org", i), "acme", 0))
	}
	require.NoError(t, r.Set(ctx, "subdomain:acme", "{}", 0))

	keys, err := r.Keys(ctx, "customdomain:")
	require.NoError(t, err)
	assert.Len(t, keys, want)

	unique := make(map[string]bool, len(keys))
	for _, k := range keys {
		assert.False(t, unique[k], "duplicate key %s", k)
		unique[k] = true
	}
}
