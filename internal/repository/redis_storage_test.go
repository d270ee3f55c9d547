package repository

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redis "github.com/redis/go-redis/v9"
	"github.com/sony/gobreaker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRedisStorage_ReadWrite(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)

	rdb, err := NewRedisClient(RedisOptions{Addr: mr.Addr(), MaxRetries: 1}, quietLogger())
	require.NoError(t, err)
	factory := NewRedisStorage(rdb, 30*time.Minute, quietLogger())
	defer factory.Close()

	store := factory.ForSession("abc")
	_, found, err := store.Read(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, found)

	require.NoError(t, store.Write(ctx, "cart", `[{"id":"a"}]`))

	raw, err := mr.Get("storefront:abc:cart")
	require.NoError(t, err)
	assert.Equal(t, `[{"id":"a"}]`, raw)
	assert.Equal(t, 30*time.Minute, mr.TTL("storefront:abc:cart"))

	v, found, err := store.Read(ctx, "cart")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"a"}]`, v)

	_, found, err = factory.ForSession("other").Read(ctx, "cart")
	require.NoError(t, err)
	assert.False(t, found)
}

func TestRedisStorage_BreakerOpensWhenRedisIsDown(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	rdb := redis.NewClient(&redis.Options{Addr: mr.Addr(), MaxRetries: -1})
	factory := NewRedisStorage(rdb, time.Minute, quietLogger())
	store := factory.ForSession("abc")

	mr.Close()
	for i := 0; i < 5; i++ {
		assert.Error(t, store.Write(ctx, "cart", "[]"))
	}

	_, _, err := store.Read(ctx, "cart")
	assert.ErrorIs(t, err, gobreaker.ErrOpenState)
}

func TestNewRedisClient_GivesUp(t *testing.T) {
	mr := miniredis.RunT(t)
	addr := mr.Addr()
	mr.Close()

	_, err := NewRedisClient(RedisOptions{Addr: addr, MaxRetries: 1}, quietLogger())
	assert.Error(t, err)
}

func TestSessionKey(t *testing.T) {
	assert.Equal(t, "storefront:s1:wishlist", sessionKey("s1", "wishlist"))
}
