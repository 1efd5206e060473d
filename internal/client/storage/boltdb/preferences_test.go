package boltdb

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
)

func TestPreferences_SetAndGet(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.SetPreference(ctx, "client_id", "abc-123"))

	pref, err := store.GetPreference(ctx, "client_id")
	require.NoError(t, err)
	assert.Equal(t, "client_id", pref.Key)
	assert.Equal(t, "abc-123", pref.Value)
	assert.False(t, pref.UpdatedAt.IsZero())

	// Повторная запись замещает значение
	require.NoError(t, store.SetPreference(ctx, "client_id", "def-456"))
	pref, err = store.GetPreference(ctx, "client_id")
	require.NoError(t, err)
	assert.Equal(t, "def-456", pref.Value)
}

func TestGetPreference_NotFound(t *testing.T) {
	store := newTestStorage(t)

	_, err := store.GetPreference(context.Background(), "missing")
	assert.ErrorIs(t, err, storage.ErrPreferenceNotFound)
}

func TestGetAllPreferences(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	prefs, err := store.GetAllPreferences(ctx)
	require.NoError(t, err)
	assert.Empty(t, prefs)

	require.NoError(t, store.SetPreference(ctx, "client_id", "abc"))
	require.NoError(t, store.SetPreference(ctx, "user_name", "alice"))

	prefs, err = store.GetAllPreferences(ctx)
	require.NoError(t, err)
	assert.Len(t, prefs, 2)
}
