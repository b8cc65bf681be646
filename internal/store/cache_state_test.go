package store

import (
	"context"
	"testing"
	"time"

	"github.com/MKhiriev/lks-registry/internal/config"
	"github.com/MKhiriev/lks-registry/internal/logger"
	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStateStore(t *testing.T) {
	mr := miniredis.RunT(t)
	ctx := context.Background()

	s, err := NewStateStore(ctx, config.Redis{URL: "redis://" + mr.Addr()}, logger.Nop())
	require.NoError(t, err)

	_, err = s.Get(ctx, "missing")
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, s.Put(ctx, "st-1", "pending", time.Minute))
	v, err := s.Get(ctx, "st-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", v)
	assert.True(t, mr.Exists("oauth_state:st-1"))

	mr.FastForward(2 * time.Minute)
	_, err = s.Get(ctx, "st-1")
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, s.Put(ctx, "st-2", "cred", time.Minute))
	require.NoError(t, s.Delete(ctx, "st-2"))
	_, err = s.Get(ctx, "st-2")
	assert.ErrorIs(t, err, ErrStateNotFound)
}

func TestNewStateStore_RedisUnavailable(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewStateStore(context.Background(), config.Redis{URL: "redis://" + addr}, logger.Nop())
	assert.Error(t, err)
}

func TestMemoryStateStore_Expiry(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 1, 1, 10, 0, 0, 0, time.UTC)

	s := NewMemoryStateStore().(*memoryStateStore)
	s.now = func() time.Time { return now }

	require.NoError(t, s.Put(ctx, "st-1", "pending", time.Minute))
	v, err := s.Get(ctx, "st-1")
	require.NoError(t, err)
	assert.Equal(t, "pending", v)

	now = now.Add(2 * time.Minute)
	_, err = s.Get(ctx, "st-1")
	assert.ErrorIs(t, err, ErrStateNotFound)

	require.NoError(t, s.Delete(ctx, "unknown"))
}

func TestNewStateStore_MemoryFallback(t *testing.T) {
	s, err := NewStateStore(context.Background(), config.Redis{}, logger.Nop())
	require.NoError(t, err)
	_, ok := s.(*memoryStateStore)
	assert.True(t, ok)
}
