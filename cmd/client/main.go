package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/google/uuid"

	httpapi "github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/api"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/cache"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/cli"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/iocli"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/links"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/queue"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage/boltdb"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage/sqlite"
	syncsvc "github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/sync"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/transport"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/version"
)

var (
	// Version information set via ldflags during build
	Version   = "dev"
	BuildDate = "unknown"
	GitCommit = "unknown"
)

func main() {
	// Глобальные флаги
	showVersion := flag.Bool("version", false, "Show version information")
	serverURL := flag.String("server", "http://localhost:8080", "Sync server URL")
	wsURL := flag.String("ws", "ws://localhost:8080/ws", "Live transport URL")
	dbPath := flag.String("db", "cellsync-client.db", "Path to local database")
	engine := flag.String("engine", "bolt", "Storage engine: bolt or sqlite")
	token := flag.String("token", "", "Access token (or CELLSYNC_TOKEN env var)")
	cacheTTL := flag.Duration("ttl", models.DefaultCacheTTL, "Cache TTL")
	maxRetries := flag.Int("max-retries", queue.DefaultMaxRetries, "Retry ceiling for queued operations")

	flag.Parse()

	if *showVersion {
		printVersion()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) == 0 {
		cli.PrintUsage()
		os.Exit(1)
	}
	command := args[0]

	logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
		Level: slog.LevelWarn,
	}))
	slog.SetDefault(logger)

	// Ctrl+C завершает длительные команды (watch)
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	accessToken := *token
	if accessToken == "" {
		accessToken = os.Getenv("CELLSYNC_TOKEN")
	}

	store, err := openStore(ctx, *engine, *dbPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to open database: %v\n", err)
		os.Exit(1)
	}
	defer func() {
		if err := store.Close(); err != nil {
			slog.Error("failed to close database", "error", err)
		}
	}()

	clientID, err := resolveClientID(ctx, store)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to resolve client id: %v\n", err)
		os.Exit(1)
	}

	apiClient := httpapi.NewClient(*serverURL, accessToken)

	queueService := queue.NewService(store, apiClient, clientID, queue.Config{
		MaxRetries: *maxRetries,
	}, logger)
	cacheService := cache.NewService(store, *cacheTTL, logger)
	linkService := links.NewService(store, logger)

	// Счетчик версий подтягивается к серверному через Observe
	// при первой же синхронизации, отдельного восстановления не нужно
	clock := version.NewClockWithNodeID(clientID)

	// Live-транспорт требует токен; без него команды работают офлайн
	var tm *transport.Manager
	if accessToken != "" {
		tm, err = transport.NewManager(transport.Config{
			URL:    *wsURL,
			Token:  accessToken,
			Logger: logger,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Failed to init live transport: %v\n", err)
			os.Exit(1)
		}
		defer func() {
			if err := tm.Close(); err != nil {
				slog.Error("failed to close live transport", "error", err)
			}
		}()
	}

	// Типизированный nil в интерфейсе ведет себя как подключенный
	// транспорт, поэтому оборачиваем только созданный менеджер
	var liveTransport syncsvc.Transport
	if tm != nil {
		liveTransport = tm
	}

	syncService := syncsvc.NewService(
		queueService, cacheService, linkService, liveTransport,
		apiClient, store, clock, clientID, logger,
	)
	syncService.Start()
	defer syncService.Stop()

	c := cli.New(syncService, linkService, cacheService, tm, store, iocli.NewStdio())

	if err := c.Run(ctx, command, args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// openStore открывает локальное хранилище выбранным движком
func openStore(ctx context.Context, engine, dbPath string) (storage.Store, error) {
	switch engine {
	case "bolt":
		return boltdb.New(ctx, dbPath)
	case "sqlite":
		return sqlite.New(ctx, dbPath)
	default:
		return nil, fmt.Errorf("unknown storage engine %q, expected bolt or sqlite", engine)
	}
}

// resolveClientID возвращает стабильный идентификатор клиента:
// сохраненный в настройках либо сгенерированный при первом запуске.
func resolveClientID(ctx context.Context, store storage.Store) (string, error) {
	pref, err := store.GetPreference(ctx, models.PreferenceClientID)
	if err == nil {
		return pref.Value, nil
	}
	if !errors.Is(err, storage.ErrPreferenceNotFound) {
		return "", err
	}

	clientID := uuid.New().String()
	if err := store.SetPreference(ctx, models.PreferenceClientID, clientID); err != nil {
		return "", err
	}
	return clientID, nil
}

func printVersion() {
	fmt.Printf("Cell Sync Client\n")
	fmt.Printf("Version:    %s\n", Version)
	fmt.Printf("Build Date: %s\n", BuildDate)
	fmt.Printf("Git Commit: %s\n", GitCommit)
}
