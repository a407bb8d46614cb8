package batch

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryCooldown_ReserveOnce(t *testing.T) {
	ctx := context.Background()
	cd := &MemoryCooldown{Window: time.Hour}

	ok, remaining, err := cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, remaining)

	ok, remaining, err = cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, remaining, time.Duration(0))

	// Different actors do not share a window.
	ok, _, err = cd.Reserve(ctx, "actor-2")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCooldown_ReleaseReopens(t *testing.T) {
	ctx := context.Background()
	cd := &MemoryCooldown{Window: time.Hour}

	ok, _, err := cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	require.True(t, ok)

	require.NoError(t, cd.Release(ctx, "actor-1"))

	ok, _, err = cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestMemoryCooldown_WindowExpires(t *testing.T) {
	ctx := context.Background()
	cd := &MemoryCooldown{Window: 20 * time.Millisecond}

	ok, _, err := cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	require.True(t, ok)

	time.Sleep(30 * time.Millisecond)

	ok, _, err = cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCooldown_ReserveAndRelease(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	cd := &RedisCooldown{Client: rdb, Window: time.Minute}

	ok, remaining, err := cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	assert.True(t, ok)
	assert.Zero(t, remaining)

	ok, remaining, err = cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	assert.False(t, ok)
	assert.Greater(t, remaining, time.Duration(0))
	assert.LessOrEqual(t, remaining, time.Minute)

	require.NoError(t, cd.Release(ctx, "actor-1"))
	ok, _, err = cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCooldown_WindowExpires(t *testing.T) {
	mr, err := miniredis.Run()
	require.NoError(t, err)
	defer mr.Close()
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	defer rdb.Close()

	ctx := context.Background()
	cd := &RedisCooldown{Client: rdb, Window: time.Minute}

	ok, _, err := cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	require.True(t, ok)

	mr.FastForward(time.Minute + time.Second)

	ok, _, err = cd.Reserve(ctx, "actor-1")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestRedisCooldown_DefaultWindow(t *testing.T) {
	cd := &RedisCooldown{}
	assert.Equal(t, DefaultCooldown, cd.window())
	m := &MemoryCooldown{}
	assert.Equal(t, DefaultCooldown, m.window())
}
