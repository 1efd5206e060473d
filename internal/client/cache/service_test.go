package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage/boltdb"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

func newTestCache(t *testing.T, ttl time.Duration) (*Service, *boltdb.Storage) {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "cache.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	logger := slog.New(slog.DiscardHandler)
	return NewService(store, ttl, logger), store
}

func TestPutAndGet(t *testing.T) {
	svc, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "m/s", "B5", json.RawMessage(`42`), 3, 0))

	got, err := svc.Get(ctx, "m/s", "B5")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`42`), got.Value)
	assert.Equal(t, int64(3), got.Version)
}

func TestGet_Miss(t *testing.T) {
	svc, _ := newTestCache(t, time.Minute)

	_, err := svc.Get(context.Background(), "m/s", "Z9")
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}

// Истекшая запись — miss в обоих слоях
func TestGet_Expired(t *testing.T) {
	svc, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "m/s", "B5", json.RawMessage(`42`), 1, 30*time.Millisecond))

	_, err := svc.Get(ctx, "m/s", "B5")
	require.NoError(t, err)

	time.Sleep(50 * time.Millisecond)

	_, err = svc.Get(ctx, "m/s", "B5")
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}

// Durable-слой обслуживает чтение после потери горячего слоя
// (эмулируем перезапуск новым сервисом над тем же хранилищем)
func TestGet_DurableFallback(t *testing.T) {
	svc, store := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "m/s", "B5", json.RawMessage(`42`), 3, 0))

	restarted := NewService(store, time.Minute, slog.New(slog.DiscardHandler))
	got, err := restarted.Get(ctx, "m/s", "B5")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`42`), got.Value)
}

func TestInvalidate(t *testing.T) {
	svc, store := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "m/s", "B5", json.RawMessage(`42`), 1, 0))

	svc.Invalidate(ctx, "m/s", "B5")

	_, err := svc.Get(ctx, "m/s", "B5")
	assert.ErrorIs(t, err, storage.ErrCacheMiss)

	// Удалено и из durable-слоя
	_, err = store.GetCachedValue(ctx, "m/s", "B5")
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}

func TestClearExpired(t *testing.T) {
	svc, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "m/s", "A1", json.RawMessage(`1`), 1, time.Minute))
	require.NoError(t, svc.Put(ctx, "m/s", "B2", json.RawMessage(`2`), 1, 20*time.Millisecond))

	time.Sleep(40 * time.Millisecond)

	removed, err := svc.ClearExpired(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, removed)

	_, err = svc.Get(ctx, "m/s", "A1")
	assert.NoError(t, err)
}

func TestClearAll(t *testing.T) {
	svc, _ := newTestCache(t, time.Minute)
	ctx := context.Background()

	require.NoError(t, svc.Put(ctx, "m/s", "A1", json.RawMessage(`1`), 1, 0))
	require.NoError(t, svc.ClearAll(ctx))

	_, err := svc.Get(ctx, "m/s", "A1")
	assert.ErrorIs(t, err, storage.ErrCacheMiss)
}

func TestDefaultTTL(t *testing.T) {
	svc, _ := newTestCache(t, 0)
	assert.Equal(t, models.DefaultCacheTTL, svc.DefaultTTL())

	custom, _ := newTestCache(t, time.Second)
	assert.Equal(t, time.Second, custom.DefaultTTL())
}
