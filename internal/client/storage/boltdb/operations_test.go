package boltdb

import (
	"context"
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

func TestAddAndGetPendingOperations_Ordering(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	// Добавляем в обратном порядке timestamp
	ops := []*models.PendingOperation{
		{ID: "03", Type: models.OperationUpdate, ModelPath: "m/s", Address: "C3", Timestamp: 300},
		{ID: "01", Type: models.OperationUpdate, ModelPath: "m/s", Address: "A1", Timestamp: 100},
		{ID: "02", Type: models.OperationUpdate, ModelPath: "m/s", Address: "B2", Timestamp: 200},
	}
	for _, op := range ops {
		require.NoError(t, store.AddPendingOperation(ctx, op))
	}

	got, err := store.GetPendingOperations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 3)

	// Возвращаются в порядке локальной записи
	assert.Equal(t, "A1", got[0].Address)
	assert.Equal(t, "B2", got[1].Address)
	assert.Equal(t, "C3", got[2].Address)
}

// При равных timestamp порядок определяется ULID
func TestGetPendingOperations_TimestampTie(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.AddPendingOperation(ctx, &models.PendingOperation{
		ID: "02", ModelPath: "m/s", Address: "B2", Timestamp: 100,
	}))
	require.NoError(t, store.AddPendingOperation(ctx, &models.PendingOperation{
		ID: "01", ModelPath: "m/s", Address: "A1", Timestamp: 100,
	}))

	got, err := store.GetPendingOperations(ctx)
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "01", got[0].ID)
	assert.Equal(t, "02", got[1].ID)
}

func TestGetPendingOperationByAddress(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.AddPendingOperation(ctx, &models.PendingOperation{
		ID:        "op-1",
		Type:      models.OperationUpdate,
		ModelPath: "m/s",
		Address:   "B5",
		Value:     json.RawMessage(`100`),
	}))

	op, err := store.GetPendingOperationByAddress(ctx, "m/s", "B5")
	require.NoError(t, err)
	assert.Equal(t, "op-1", op.ID)

	// Другой адрес — операция не найдена
	_, err = store.GetPendingOperationByAddress(ctx, "m/s", "Z9")
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)

	// Тот же адрес в другой модели — тоже не найдена
	_, err = store.GetPendingOperationByAddress(ctx, "other/s", "B5")
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)
}

func TestUpdatePendingOperation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	op := &models.PendingOperation{
		ID:        "op-1",
		Type:      models.OperationUpdate,
		ModelPath: "m/s",
		Address:   "B5",
		Value:     json.RawMessage(`100`),
	}
	require.NoError(t, store.AddPendingOperation(ctx, op))

	op.Value = json.RawMessage(`120`)
	op.RetryCount = 2
	require.NoError(t, store.UpdatePendingOperation(ctx, op))

	got, err := store.GetPendingOperationByAddress(ctx, "m/s", "B5")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`120`), got.Value)
	assert.Equal(t, 2, got.RetryCount)

	// Обновление несуществующей операции — ошибка
	missing := &models.PendingOperation{ID: "ghost"}
	err = store.UpdatePendingOperation(ctx, missing)
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)
}

// Конфликт сериализуется вместе с операцией и переживает чтение
func TestPendingOperation_ConflictRoundTrip(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	op := &models.PendingOperation{
		ID:        "op-1",
		ModelPath: "m/s",
		Address:   "B5",
	}
	require.NoError(t, store.AddPendingOperation(ctx, op))

	op.Conflict = &models.SyncConflict{
		ServerValue:   json.RawMessage(`110`),
		ModifiedBy:    "user-2",
		ServerVersion: 7,
	}
	require.NoError(t, store.UpdatePendingOperation(ctx, op))

	got, err := store.GetPendingOperationByAddress(ctx, "m/s", "B5")
	require.NoError(t, err)
	require.NotNil(t, got.Conflict)
	assert.Equal(t, "user-2", got.Conflict.ModifiedBy)
	assert.Equal(t, int64(7), got.Conflict.ServerVersion)
	assert.False(t, got.Outstanding())
}

func TestRemovePendingOperation(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, store.AddPendingOperation(ctx, &models.PendingOperation{
		ID: "op-1", ModelPath: "m/s", Address: "A1",
	}))

	require.NoError(t, store.RemovePendingOperation(ctx, "op-1"))

	ops, err := store.GetPendingOperations(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)

	err = store.RemovePendingOperation(ctx, "op-1")
	assert.ErrorIs(t, err, storage.ErrOperationNotFound)
}

func TestClearPendingOperations(t *testing.T) {
	store := newTestStorage(t)
	ctx := context.Background()

	for _, id := range []string{"op-1", "op-2"} {
		require.NoError(t, store.AddPendingOperation(ctx, &models.PendingOperation{
			ID: id, ModelPath: "m/s", Address: id,
		}))
	}

	require.NoError(t, store.ClearPendingOperations(ctx))

	ops, err := store.GetPendingOperations(ctx)
	require.NoError(t, err)
	assert.Empty(t, ops)
}
