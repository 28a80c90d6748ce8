package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestRedisStore(t *testing.T, ttl time.Duration) (*RedisStore, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	store, err := NewRedisStore("redis://"+mr.Addr()+"/0", ttl)
	require.NoError(t, err)
	t.Cleanup(func() { _ = store.Close() })
	return store, mr
}

func TestRedisStore_PutAndGet(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Minute)

	require.NoError(t, store.Ping(ctx))
	store.Put(ctx, "https://h/countries", []byte(`[{"id":1}]`))

	got, ok := store.Get(ctx, "https://h/countries")
	require.True(t, ok)
	assert.Equal(t, `[{"id":1}]`, string(got))
	assert.True(t, mr.Exists(DefaultRedisPrefix+"https://h/countries"))
	assert.Equal(t, time.Minute, mr.TTL(DefaultRedisPrefix+"https://h/countries"))
}

func TestRedisStore_Expires(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Minute)

	store.Put(ctx, "k", []byte(`[]`))
	mr.FastForward(2 * time.Minute)

	_, ok := store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisStore_MissAndDelete(t *testing.T) {
	ctx := context.Background()
	store, _ := newTestRedisStore(t, 0)

	_, ok := store.Get(ctx, "absent")
	assert.False(t, ok)

	store.Put(ctx, "k", []byte(`{}`))
	store.Delete(ctx, "k")
	_, ok = store.Get(ctx, "k")
	assert.False(t, ok)
}

func TestRedisStore_ClearAllKeepsForeignKeys(t *testing.T) {
	ctx := context.Background()
	store, mr := newTestRedisStore(t, time.Minute)

	store.Put(ctx, "a", []byte(`1`))
	store.Put(ctx, "b", []byte(`2`))
	require.NoError(t, mr.Set("other:key", "x"))

	n, err := store.ClearAll(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.True(t, mr.Exists("other:key"))
}

func TestNewRedisStore_InvalidURL(t *testing.T) {
	_, err := NewRedisStore("not a url", time.Minute)
	assert.Error(t, err)
}
