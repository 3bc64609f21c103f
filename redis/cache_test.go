package redis

import (
	"context"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	redisLib "github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type cachedThing struct {
	ID    string `json:"id"`
	Likes int    `json:"likes"`
}

func setupCache(t *testing.T) (*Cache, *miniredis.Miniredis) {
	mr := miniredis.RunT(t)
	client := redisLib.NewClient(&redisLib.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })
	return NewCache(client, time.Minute), mr
}

func TestCache_SetGet(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "thing:1", cachedThing{ID: "1", Likes: 3}, 0))

	var got cachedThing
	found, err := cache.Get(ctx, "thing:1", &got)
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, 3, got.Likes)
}

func TestCache_Miss(t *testing.T) {
	cache, _ := setupCache(t)

	var got cachedThing
	found, err := cache.Get(context.Background(), "absent", &got)
	require.NoError(t, err)
	assert.False(t, found)
}

func TestCache_TTL(t *testing.T) {
	cache, mr := setupCache(t)
	ctx := context.Background()

	require.NoError(t, cache.Set(ctx, "short", cachedThing{ID: "x"}, time.Second))
	mr.FastForward(2 * time.Second)

	var got cachedThing
	found, _ := cache.Get(ctx, "short", &got)
	assert.False(t, found)
}

func TestCache_Versions(t *testing.T) {
	cache, _ := setupCache(t)
	ctx := context.Background()

	assert.Equal(t, int64(0), cache.GetVersion(ctx, "resumes:version"))
	cache.IncrementVersion(ctx, "resumes:version")
	cache.IncrementVersion(ctx, "resumes:version")
	assert.Equal(t, int64(2), cache.GetVersion(ctx, "resumes:version"))
}

func TestCache_NilClientIsNoop(t *testing.T) {
	cache := NewCache(nil, time.Minute)
	ctx := context.Background()

	assert.NoError(t, cache.Set(ctx, "k", cachedThing{}, 0))
	found, err := cache.Get(ctx, "k", &cachedThing{})
	assert.NoError(t, err)
	assert.False(t, found)
	cache.IncrementVersion(ctx, "v")
	assert.Equal(t, int64(0), cache.GetVersion(ctx, "v"))
}

func TestInitRedis_Unavailable(t *testing.T) {
	client := InitRedis(context.Background(), "127.0.0.1:1", zap.NewNop())
	assert.Nil(t, client)
}

func TestInitRedis_Available(t *testing.T) {
	mr := miniredis.RunT(t)
	client := InitRedis(context.Background(), mr.Addr(), zap.NewNop())
	require.NotNil(t, client)
	client.Close()
}
