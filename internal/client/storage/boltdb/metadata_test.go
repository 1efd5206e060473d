package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

func TestSyncMetadata_RoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	meta := &models.SyncMetadata{
		Key:               "m/s",
		LastSyncTimestamp: 1000,
		SyncVersion:       5,
		ServerVersion:     5,
	}
	require.NoError(t, store.UpdateSyncMetadata(ctx, meta))

	got, err := store.GetSyncMetadata(ctx, "m/s")
	require.NoError(t, err)
	assert.Equal(t, int64(5), got.SyncVersion)
	assert.False(t, got.InConflict())

	// Upsert по тому же ключу замещает запись
	meta.SyncVersion = 6
	require.NoError(t, store.UpdateSyncMetadata(ctx, meta))

	got, err = store.GetSyncMetadata(ctx, "m/s")
	require.NoError(t, err)
	assert.Equal(t, int64(6), got.SyncVersion)
	assert.True(t, got.InConflict())
}

func TestGetSyncMetadata_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetSyncMetadata(context.Background(), "never-synced")
	assert.ErrorIs(t, err, storage.ErrMetadataNotFound)
}
