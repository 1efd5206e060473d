package cli

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpapi "github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/api"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/cache"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/iocli"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/links"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/queue"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage/boltdb"
	syncsvc "github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/sync"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/version"
)

// testCli собирает CLI над реальными сервисами и bolt-хранилищем.
// Транспорт не сконфигурирован, поэтому все записи идут офлайн-путем.
type testCli struct {
	cli    *Cli
	io     *iocli.IOMock
	out    *strings.Builder
	store  *boltdb.Storage
	cache  *cache.Service
	apiMok *httpapi.ClientAPIMock
}

func newTestCli(t *testing.T) *testCli {
	t.Helper()

	store, err := boltdb.New(context.Background(), filepath.Join(t.TempDir(), "cli.db"))
	require.NoError(t, err)
	t.Cleanup(func() {
		require.NoError(t, store.Close())
	})

	logger := slog.New(slog.DiscardHandler)
	apiMock := &httpapi.ClientAPIMock{}
	q := queue.NewService(store, apiMock, "client-1", queue.Config{}, logger)
	c := cache.NewService(store, time.Minute, logger)
	l := links.NewService(store, logger)
	clock := version.NewClockWithNodeID("client-1")
	svc := syncsvc.NewService(q, c, l, nil, apiMock, store, clock, "client-1", logger)

	out := &strings.Builder{}
	ioMock := &iocli.IOMock{
		PrintlnFunc: func(a ...any) {
			fmt.Fprintln(out, a...)
		},
		PrintfFunc: func(format string, a ...any) {
			fmt.Fprintf(out, format, a...)
		},
	}

	return &testCli{
		cli:    New(svc, l, c, nil, store, ioMock),
		io:     ioMock,
		out:    out,
		store:  store,
		cache:  c,
		apiMok: apiMock,
	}
}

func TestRun_UnknownCommand(t *testing.T) {
	tc := newTestCli(t)

	err := tc.cli.Run(context.Background(), "frobnicate", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown command")
}

func TestRunSet_QueuedOffline(t *testing.T) {
	tc := newTestCli(t)

	err := tc.cli.Run(context.Background(), "set", []string{"m1", "s1", "B5", "100"})
	require.NoError(t, err)
	assert.Contains(t, tc.out.String(), "Queued for sync")
}

func TestRunSet_Usage(t *testing.T) {
	tc := newTestCli(t)

	err := tc.cli.Run(context.Background(), "set", []string{"m1", "s1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")
}

func TestRunGet_FromCache(t *testing.T) {
	tc := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, tc.cache.Put(ctx, "m1/s1", "B5", normalizeValue("42"), 3, 0))

	err := tc.cli.Run(ctx, "get", []string{"m1", "s1", "B5"})
	require.NoError(t, err)

	output := tc.out.String()
	assert.Contains(t, output, "Value:    42")
	assert.Contains(t, output, "Source:   cache")
	// Сервер не трогали
	assert.Empty(t, tc.apiMok.GetValueCalls())
}

func TestRunLink_Lifecycle(t *testing.T) {
	tc := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, tc.cli.Run(ctx, "link", []string{"Sheet1!A1", "m1", "s1", "B5", "pull"}))
	assert.Contains(t, tc.out.String(), "Linked Sheet1!A1 -> m1/s1/B5 (pull)")

	tc.out.Reset()
	require.NoError(t, tc.cli.Run(ctx, "links", nil))
	assert.Contains(t, tc.out.String(), "Sheet1!A1 -> m1/s1/B5")
	assert.Contains(t, tc.out.String(), "direction:   pull")

	tc.out.Reset()
	require.NoError(t, tc.cli.Run(ctx, "unlink", []string{"Sheet1!A1"}))
	assert.Contains(t, tc.out.String(), "Unlinked Sheet1!A1")

	// Повторный unlink — понятная ошибка
	err := tc.cli.Run(ctx, "unlink", []string{"Sheet1!A1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no link registered")
}

func TestRunPrefs(t *testing.T) {
	tc := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, tc.cli.Run(ctx, "prefs", []string{"theme", "dark"}))
	assert.Contains(t, tc.out.String(), "theme = dark")

	tc.out.Reset()
	require.NoError(t, tc.cli.Run(ctx, "prefs", []string{"theme"}))
	assert.Contains(t, tc.out.String(), "theme = dark")

	tc.out.Reset()
	require.NoError(t, tc.cli.Run(ctx, "prefs", nil))
	assert.Contains(t, tc.out.String(), "theme = dark")

	err := tc.cli.Run(ctx, "prefs", []string{"missing"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "is not set")
}

func TestRunClear_Aborted(t *testing.T) {
	tc := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, tc.store.SetPreference(ctx, "theme", "dark"))

	tc.io.ConfirmFunc = func(prompt string) (bool, error) {
		return false, nil
	}

	require.NoError(t, tc.cli.Run(ctx, "clear", nil))
	assert.Contains(t, tc.out.String(), "Aborted")

	// Данные на месте
	_, err := tc.store.GetPreference(ctx, "theme")
	assert.NoError(t, err)
}

func TestRunClear_Confirmed(t *testing.T) {
	tc := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, tc.store.SetPreference(ctx, "theme", "dark"))
	require.NoError(t, tc.cli.Run(ctx, "set", []string{"m1", "s1", "B5", "100"}))

	tc.io.ConfirmFunc = func(prompt string) (bool, error) {
		return true, nil
	}

	tc.out.Reset()
	require.NoError(t, tc.cli.Run(ctx, "clear", nil))

	output := tc.out.String()
	assert.Contains(t, output, "1 pending operation(s) will be lost")
	assert.Contains(t, output, "Local data cleared")

	stats, err := tc.store.GetStats(ctx)
	require.NoError(t, err)
	assert.Zero(t, stats.PendingOperations)
	assert.Zero(t, stats.Preferences)
}

func TestRunSync_NothingToSync(t *testing.T) {
	tc := newTestCli(t)

	require.NoError(t, tc.cli.Run(context.Background(), "sync", nil))
	assert.Contains(t, tc.out.String(), "Nothing to sync")
}

func TestRunConflicts_Empty(t *testing.T) {
	tc := newTestCli(t)

	require.NoError(t, tc.cli.Run(context.Background(), "conflicts", nil))
	assert.Contains(t, tc.out.String(), "No conflicts")
}

func TestRunResolve_Usage(t *testing.T) {
	tc := newTestCli(t)
	ctx := context.Background()

	err := tc.cli.Run(ctx, "resolve", []string{"op-1"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "usage")

	err = tc.cli.Run(ctx, "resolve", []string{"op-1", "merge"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "expected keep or discard")
}

func TestRunStatus(t *testing.T) {
	tc := newTestCli(t)
	ctx := context.Background()

	require.NoError(t, tc.cli.Run(ctx, "set", []string{"m1", "s1", "B5", "100"}))

	tc.out.Reset()
	require.NoError(t, tc.cli.Run(ctx, "status", nil))

	output := tc.out.String()
	assert.Contains(t, output, "Connection: disconnected")
	assert.Contains(t, output, "Pending sync: 1 operation(s) waiting")
	assert.Contains(t, output, "pending operations: 1")
}

func TestRunWatch_NoTransport(t *testing.T) {
	tc := newTestCli(t)

	err := tc.cli.Run(context.Background(), "watch", nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "live transport is not configured")
}
