package auth

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"
)

func newRedisStore(t *testing.T, cfg Config) (*RedisTokenStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewRedisTokenStore(client, cfg), mr
}

func TestMemoryTokenStore(t *testing.T) {
	ctx := context.Background()
	var store TokenStore = NewMemoryTokenStore("")

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, store.Set(ctx, "abc"))
	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "abc", got)

	require.NoError(t, store.Remove(ctx))
	_, err = store.Get(ctx)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedisTokenStoreRoundTrip(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, Config{})

	_, err := store.Get(ctx)
	require.ErrorIs(t, err, ErrTokenNotFound)

	require.NoError(t, store.Set(ctx, "opaque"))
	require.True(t, mr.Exists("diary:auth:jwt_token"))
	require.Zero(t, mr.TTL("diary:auth:jwt_token"))

	got, err := store.Get(ctx)
	require.NoError(t, err)
	require.Equal(t, "opaque", got)

	require.NoError(t, store.Remove(ctx))
	require.False(t, mr.Exists("diary:auth:jwt_token"))
}

func TestRedisTokenStoreExpiresWithToken(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, Config{Prefix: "test:"})
	now := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	store.now = func() time.Time { return now }

	require.NoError(t, store.Set(ctx, signToken(t, now.Add(10*time.Minute))))
	require.Equal(t, 10*time.Minute, mr.TTL("test:jwt_token"))

	mr.FastForward(11 * time.Minute)
	_, err := store.Get(ctx)
	require.ErrorIs(t, err, ErrTokenNotFound)
}

func TestRedisTokenStoreConfiguredTTL(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, Config{TTL: time.Hour})

	require.NoError(t, store.Set(ctx, signToken(t, time.Now().Add(10*time.Minute))))
	require.Equal(t, time.Hour, mr.TTL("diary:auth:jwt_token"))
}

func TestRedisTokenStoreEmptySetRemoves(t *testing.T) {
	ctx := context.Background()
	store, mr := newRedisStore(t, Config{})
	require.NoError(t, store.Set(ctx, "abc"))
	require.NoError(t, store.Set(ctx, ""))
	require.False(t, mr.Exists("diary:auth:jwt_token"))
}

func TestNilRedisTokenStore(t *testing.T) {
	require.Nil(t, NewRedisTokenStore(nil, Config{}))
	var store *RedisTokenStore
	_, err := store.Get(context.Background())
	require.Error(t, err)
}
