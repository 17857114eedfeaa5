package cache

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestAdapter(t *testing.T) (*miniredis.Miniredis, *RedisAdapter) {
	t.Helper()

	mr := miniredis.RunT(t)

	adapter, err := NewRedisAdapter("redis://" + mr.Addr())
	require.NoError(t, err)
	t.Cleanup(func() { adapter.Close() })

	return mr, adapter
}

func TestRedisAdapter_GetSet(t *testing.T) {
	_, adapter := newTestAdapter(t)
	ctx := context.Background()

	key := "test_key"
	value := []byte("test_value")
	ttl := 10 * time.Second

	err := adapter.Set(ctx, key, value, ttl)
	assert.NoError(t, err)

	retrievedValue, err := adapter.Get(ctx, key)
	assert.NoError(t, err)
	assert.Equal(t, value, retrievedValue)
}

func TestRedisAdapter_GetMiss(t *testing.T) {
	_, adapter := newTestAdapter(t)
	ctx := context.Background()

	_, err := adapter.Get(ctx, "non_existent_key")
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisAdapter_Delete(t *testing.T) {
	_, adapter := newTestAdapter(t)
	ctx := context.Background()

	key := "delete_test"
	err := adapter.Set(ctx, key, []byte("value"), 0)
	require.NoError(t, err)

	err = adapter.Delete(ctx, key)
	assert.NoError(t, err)

	_, err = adapter.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisAdapter_TTL(t *testing.T) {
	mr, adapter := newTestAdapter(t)
	ctx := context.Background()

	key := "ttl_test"
	err := adapter.Set(ctx, key, []byte("value"), 5*time.Second)
	require.NoError(t, err)

	// miniredis advances expiry manually.
	mr.FastForward(6 * time.Second)

	_, err = adapter.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisAdapter_SetUntil(t *testing.T) {
	mr, adapter := newTestAdapter(t)
	ctx := context.Background()

	key := "deadline_test"
	err := adapter.SetUntil(ctx, key, []byte("value"), time.Now().Add(30*time.Second))
	require.NoError(t, err)

	val, err := adapter.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, []byte("value"), val)

	mr.FastForward(time.Minute)

	_, err = adapter.Get(ctx, key)
	assert.ErrorIs(t, err, ErrCacheMiss)
}

func TestRedisAdapter_SetUntil_PastDeadline(t *testing.T) {
	_, adapter := newTestAdapter(t)
	ctx := context.Background()

	// A deadline already behind us must not produce a non-expiring key.
	err := adapter.SetUntil(ctx, "stale", []byte("value"), time.Now().Add(-time.Hour))
	assert.NoError(t, err)
}

func TestRedisAdapter_InvalidURL(t *testing.T) {
	_, err := NewRedisAdapter("not-a-url")
	assert.Error(t, err)
}

func TestRedisAdapter_Ping(t *testing.T) {
	mr, adapter := newTestAdapter(t)
	ctx := context.Background()

	assert.NoError(t, adapter.Ping(ctx))

	mr.Close()
	assert.Error(t, adapter.Ping(ctx))
}
