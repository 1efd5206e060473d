package sync

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/api"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/cache"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/links"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/queue"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage/boltdb"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/transport"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/version"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/pkg/api"
)

// fakeTransport эмулирует live-транспорт без сети
type fakeTransport struct {
	mu            sync.Mutex
	state         transport.State
	handlers      map[string][]transport.Handler
	stateHandlers []func(transport.State)
}

func newFakeTransport(state transport.State) *fakeTransport {
	return &fakeTransport{
		state:    state,
		handlers: make(map[string][]transport.Handler),
	}
}

func (f *fakeTransport) State() transport.State {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.state
}

func (f *fakeTransport) Presence() []api.PresenceAnnouncement { return nil }

func (f *fakeTransport) Subscribe(msgType string, handler transport.Handler) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.handlers[msgType] = append(f.handlers[msgType], handler)
	return func() {}
}

func (f *fakeTransport) OnStateChange(handler func(transport.State)) func() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.stateHandlers = append(f.stateHandlers, handler)
	return func() {}
}

// emit доставляет сообщение подписчикам синхронно
func (f *fakeTransport) emit(msg api.Message) {
	f.mu.Lock()
	handlers := append([]transport.Handler(nil), f.handlers[msg.Type]...)
	f.mu.Unlock()
	for _, h := range handlers {
		h(msg)
	}
}

type testEnv struct {
	svc   *Service
	store *boltdb.Storage
	queue queue.Service
	cache *cache.Service
	links *links.Service
	api   *httpapi.ClientAPIMock
	ft    *fakeTransport
	clock *version.Clock
}

func newTestEnv(t *testing.T, apiMock *httpapi.ClientAPIMock, ft *fakeTransport) *testEnv {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "sync.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	logger := slog.New(slog.DiscardHandler)
	q := queue.NewService(store, apiMock, "client-1", queue.Config{RetryBase: time.Millisecond}, logger)
	c := cache.NewService(store, time.Minute, logger)
	l := links.NewService(store, logger)
	clock := version.NewClockWithNodeID("client-1")

	var tr Transport
	if ft != nil {
		tr = ft
	}

	svc := NewService(q, c, l, tr, apiMock, store, clock, "client-1", logger)
	return &testEnv{svc: svc, store: store, queue: q, cache: c, links: l, api: apiMock, ft: ft, clock: clock}
}

// Офлайн: запись не теряется, а встает в очередь
func TestSetCell_OfflineQueues(t *testing.T) {
	env := newTestEnv(t, &httpapi.ClientAPIMock{}, nil)
	ctx := context.Background()

	result, err := env.svc.SetCell(ctx, models.MutationIntent{
		ModelPath: "m/s", Address: "B5", Value: json.RawMessage(`100`),
	})
	require.NoError(t, err)

	assert.True(t, result.Queued)
	assert.NotEmpty(t, result.OperationID)

	count, err := env.svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// Онлайн: запись уходит на сервер сразу и кэшируется
func TestSetCell_OnlineSyncs(t *testing.T) {
	apiMock := &httpapi.ClientAPIMock{
		SyncCellFunc: func(ctx context.Context, req api.CellSyncRequest) (*api.CellSyncResponse, error) {
			assert.Equal(t, "m", req.ModelID)
			assert.Equal(t, "s", req.SheetID)
			assert.Equal(t, "client-1", req.ClientID)
			return &api.CellSyncResponse{Status: api.SyncStatusSynced, ServerVersion: 12}, nil
		},
	}
	env := newTestEnv(t, apiMock, newFakeTransport(transport.StateOpen))
	ctx := context.Background()

	result, err := env.svc.SetCell(ctx, models.MutationIntent{
		ModelPath: "m/s", Address: "B5", Value: json.RawMessage(`100`),
	})
	require.NoError(t, err)

	assert.False(t, result.Queued)
	assert.Equal(t, int64(12), result.ServerVersion)

	count, err := env.svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Значение закэшировано
	cached, err := env.cache.Get(ctx, "m/s", "B5")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`100`), cached.Value)

	// Метаданные сошлись с сервером
	meta, err := env.store.GetSyncMetadata(ctx, "m/s")
	require.NoError(t, err)
	assert.False(t, meta.InConflict())
	assert.Equal(t, int64(12), meta.ServerVersion)
}

// Конфликт сервера: локальная запись сохраняется с payload конфликта,
// автоматического merge нет
func TestSetCell_ConflictSurfaced(t *testing.T) {
	apiMock := &httpapi.ClientAPIMock{
		SyncCellFunc: func(ctx context.Context, req api.CellSyncRequest) (*api.CellSyncResponse, error) {
			return nil, &httpapi.ConflictError{Conflict: api.CellConflict{
				CellAddress:   req.CellAddress,
				ServerValue:   json.RawMessage(`110`),
				ModifiedBy:    "user-2",
				ServerVersion: 7,
			}}
		},
	}
	env := newTestEnv(t, apiMock, newFakeTransport(transport.StateOpen))
	ctx := context.Background()

	result, err := env.svc.SetCell(ctx, models.MutationIntent{
		ModelPath: "m/s", Address: "B5", Value: json.RawMessage(`100`),
	})
	require.NoError(t, err)

	assert.True(t, result.Queued)
	require.NotNil(t, result.Conflict)
	assert.Equal(t, "user-2", result.Conflict.ModifiedBy)

	conflicted, err := env.svc.Conflicts(ctx)
	require.NoError(t, err)
	require.Len(t, conflicted, 1)
	assert.Equal(t, json.RawMessage(`100`), conflicted[0].Value)

	// Метаданные фиксируют расхождение
	meta, err := env.store.GetSyncMetadata(ctx, "m/s")
	require.NoError(t, err)
	assert.True(t, meta.InConflict())
}

// Сетевой сбой при открытом соединении откатывается в очередь
func TestSetCell_NetworkFailureQueues(t *testing.T) {
	apiMock := &httpapi.ClientAPIMock{
		SyncCellFunc: func(ctx context.Context, req api.CellSyncRequest) (*api.CellSyncResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	env := newTestEnv(t, apiMock, newFakeTransport(transport.StateOpen))
	ctx := context.Background()

	result, err := env.svc.SetCell(ctx, models.MutationIntent{
		ModelPath: "m/s", Address: "B5", Value: json.RawMessage(`100`),
	})
	require.NoError(t, err)
	assert.True(t, result.Queued)

	count, err := env.svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, count)
}

// Сквозной кэш: первый запрос идет на сервер, второй обслуживается кэшем
func TestGetCell_ReadThrough(t *testing.T) {
	apiMock := &httpapi.ClientAPIMock{
		GetValueFunc: func(ctx context.Context, modelID, sheetID, reference string) (*api.ValueResponse, error) {
			return &api.ValueResponse{Value: json.RawMessage(`42`), Version: 3}, nil
		},
	}
	env := newTestEnv(t, apiMock, nil)
	ctx := context.Background()

	first, err := env.svc.GetCell(ctx, "m/s", "B5", false)
	require.NoError(t, err)
	assert.Equal(t, SourceServer, first.Source)
	assert.Equal(t, json.RawMessage(`42`), first.Value)

	second, err := env.svc.GetCell(ctx, "m/s", "B5", false)
	require.NoError(t, err)
	assert.Equal(t, SourceCache, second.Source)

	assert.Len(t, apiMock.GetValueCalls(), 1)

	// forceRefresh обходит кэш
	third, err := env.svc.GetCell(ctx, "m/s", "B5", true)
	require.NoError(t, err)
	assert.Equal(t, SourceServer, third.Source)
	assert.Len(t, apiMock.GetValueCalls(), 2)
}

// Офлайн при пустом кэше — ошибка, устаревших значений нет
func TestGetCell_OfflineMiss(t *testing.T) {
	apiMock := &httpapi.ClientAPIMock{
		GetValueFunc: func(ctx context.Context, modelID, sheetID, reference string) (*api.ValueResponse, error) {
			return nil, errors.New("connection refused")
		},
	}
	env := newTestEnv(t, apiMock, nil)

	_, err := env.svc.GetCell(context.Background(), "m/s", "B5", false)
	assert.Error(t, err)
}

// Входящее live-обновление кэшируется и применяется только к pull-сторонам
func TestHandleCellUpdate(t *testing.T) {
	ft := newFakeTransport(transport.StateOpen)
	env := newTestEnv(t, &httpapi.ClientAPIMock{}, ft)
	ctx := context.Background()

	env.svc.Start()
	defer env.svc.Stop()

	_, err := env.links.Link(ctx, "localA", "m/s", "B5", models.SyncPull)
	require.NoError(t, err)
	_, err = env.links.Link(ctx, "localB", "m/s", "C7", models.SyncPush)
	require.NoError(t, err)

	payload, _ := json.Marshal(api.CellUpdate{
		ModelPath: "m/s",
		Updates: []api.CellValueUpdate{
			{Reference: "B5", Value: json.RawMessage(`42`), Version: 5},
			{Reference: "C7", Value: json.RawMessage(`7`), Version: 5},
		},
	})
	ft.emit(api.Message{Type: api.MessageTypeCellUpdate, Payload: payload})

	// Оба значения в кэше
	cached, err := env.cache.Get(ctx, "m/s", "B5")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`42`), cached.Value)

	// Pull-связь обновлена входящим значением
	pullLink, err := env.links.Get(ctx, "localA")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`42`), pullLink.LastValue)

	// Push-only связь не тронута
	pushLink, err := env.links.Get(ctx, "localB")
	require.NoError(t, err)
	assert.Nil(t, pushLink.LastValue)

	// Часы наблюдали серверную версию
	assert.GreaterOrEqual(t, env.clock.Current(), int64(5))
}

// Переподключение: очередь досылается, pull-связи перечитываются
func TestOnReconnect(t *testing.T) {
	apiMock := &httpapi.ClientAPIMock{
		SyncBatchFunc: func(ctx context.Context, req api.BatchSyncRequest) (*api.BatchSyncResponse, error) {
			results := make([]api.CellSyncResult, 0, len(req.Operations))
			for _, op := range req.Operations {
				results = append(results, api.CellSyncResult{
					CellAddress: op.CellAddress, Status: api.SyncStatusSynced,
				})
			}
			return &api.BatchSyncResponse{Results: results, ServerVersion: 9}, nil
		},
		GetValueFunc: func(ctx context.Context, modelID, sheetID, reference string) (*api.ValueResponse, error) {
			return &api.ValueResponse{Value: json.RawMessage(`55`), Version: 9}, nil
		},
	}
	env := newTestEnv(t, apiMock, newFakeTransport(transport.StateOpen))
	ctx := context.Background()

	// Очередь с отложенной операцией и pull-связь
	_, err := env.queue.Enqueue(ctx, models.MutationIntent{
		ModelPath: "m/s", Address: "A1", Value: json.RawMessage(`1`),
	})
	require.NoError(t, err)
	_, err = env.links.Link(ctx, "localA", "m/s", "B5", models.SyncPull)
	require.NoError(t, err)

	require.NoError(t, env.svc.OnReconnect(ctx))

	// Очередь пуста
	count, err := env.svc.PendingCount(ctx)
	require.NoError(t, err)
	assert.Zero(t, count)

	// Pull-связь освежена серверным значением
	link, err := env.links.Get(ctx, "localA")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`55`), link.LastValue)
	assert.False(t, link.LastSyncedAt.IsZero())

	// Значение попало в кэш
	cached, err := env.cache.Get(ctx, "m/s", "B5")
	require.NoError(t, err)
	assert.Equal(t, json.RawMessage(`55`), cached.Value)
}

// Push-связь с последним значением досылается общей очередью
func TestOnReconnect_PushLink(t *testing.T) {
	apiMock := &httpapi.ClientAPIMock{
		SyncBatchFunc: func(ctx context.Context, req api.BatchSyncRequest) (*api.BatchSyncResponse, error) {
			results := make([]api.CellSyncResult, 0, len(req.Operations))
			for _, op := range req.Operations {
				results = append(results, api.CellSyncResult{
					CellAddress: op.CellAddress, Status: api.SyncStatusSynced,
				})
			}
			return &api.BatchSyncResponse{Results: results}, nil
		},
	}
	env := newTestEnv(t, apiMock, newFakeTransport(transport.StateOpen))
	ctx := context.Background()

	_, err := env.links.Link(ctx, "localB", "m/s", "C7", models.SyncPush)
	require.NoError(t, err)
	require.NoError(t, env.links.MarkSynced(ctx, "localB", json.RawMessage(`77`), time.Now()))

	require.NoError(t, env.svc.OnReconnect(ctx))

	calls := apiMock.SyncBatchCalls()
	require.Len(t, calls, 1)
	require.Len(t, calls[0].Req.Operations, 1)
	assert.Equal(t, "localB", calls[0].Req.Operations[0].CellAddress)
	assert.Equal(t, json.RawMessage(`77`), calls[0].Req.Operations[0].Value)
}

func TestStatus(t *testing.T) {
	env := newTestEnv(t, &httpapi.ClientAPIMock{}, nil)
	ctx := context.Background()

	_, err := env.svc.SetCell(ctx, models.MutationIntent{
		ModelPath: "m/s", Address: "B5", Value: json.RawMessage(`1`),
	})
	require.NoError(t, err)
	_, err = env.links.Link(ctx, "localA", "m/s", "B5", models.SyncPull)
	require.NoError(t, err)

	status, err := env.svc.Status(ctx)
	require.NoError(t, err)
	assert.Equal(t, transport.StateDisconnected.String(), status.Transport)
	assert.Equal(t, 1, status.Pending)
	assert.Zero(t, status.Conflicts)
	assert.Equal(t, 1, status.Links)
}
