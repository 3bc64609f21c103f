package vote

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSessionStore(t *testing.T) {
	ctx := context.Background()
	store := NewFileSessionStore(t.TempDir(), "viewer-1")

	empty, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	in := map[string]Interaction{"c1": {Liked: true}, "c2": {}}
	require.NoError(t, store.Save(ctx, "r1", in))

	got, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	other, err := store.Load(ctx, "r2")
	require.NoError(t, err)
	assert.Empty(t, other)
}

func TestFileSessionStore_StoredFormat(t *testing.T) {
	dir := t.TempDir()
	store := NewFileSessionStore(dir, "viewer-1")
	require.NoError(t, store.Save(context.Background(), "r1", map[string]Interaction{"c1": {Disliked: true}}))

	data, err := os.ReadFile(filepath.Join(dir, "viewer-1", "interactions-r1.json"))
	require.NoError(t, err)
	assert.JSONEq(t, `{"c1":{"liked":false,"disliked":true}}`, string(data))
}

func TestFileSessionStore_Corrupt(t *testing.T) {
	dir := t.TempDir()
	store := NewFileSessionStore(dir, "viewer-1")
	require.NoError(t, os.MkdirAll(filepath.Join(dir, "viewer-1"), 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "viewer-1", "interactions-r1.json"), []byte("{"), 0o644))

	_, err := store.Load(context.Background(), "r1")
	assert.Error(t, err)

	_, err = NewSession(context.Background(), store, "r1")
	assert.Error(t, err)
}

func TestRedisSessionStore(t *testing.T) {
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	ctx := context.Background()
	store := NewRedisSessionStore(client, "viewer-1", time.Hour)

	empty, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, empty)

	in := map[string]Interaction{"c1": {Liked: true}}
	require.NoError(t, store.Save(ctx, "r1", in))

	assert.True(t, mr.Exists("interactions:viewer-1:r1"))
	assert.Equal(t, time.Hour, mr.TTL("interactions:viewer-1:r1"))

	got, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Equal(t, in, got)

	mr.FastForward(2 * time.Hour)
	expired, err := store.Load(ctx, "r1")
	require.NoError(t, err)
	assert.Empty(t, expired)
}
