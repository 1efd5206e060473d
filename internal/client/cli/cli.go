package cli

import (
	"fmt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/cache"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/iocli"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/links"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	syncsvc "github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/sync"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/transport"
)

// Cli связывает команды пользователя с сервисами ядра синхронизации
type Cli struct {
	syncService *syncsvc.Service
	linkService *links.Service
	cacheSvc    *cache.Service
	transport   *transport.Manager
	store       storage.Store
	io          iocli.IO
}

func New(
	syncService *syncsvc.Service,
	linkService *links.Service,
	cacheSvc *cache.Service,
	tm *transport.Manager,
	store storage.Store,
	io iocli.IO,
) *Cli {
	return &Cli{
		syncService: syncService,
		linkService: linkService,
		cacheSvc:    cacheSvc,
		transport:   tm,
		store:       store,
		io:          io,
	}
}

func PrintUsage() {
	fmt.Println("Cell Sync Client")
	fmt.Println()
	fmt.Println("Usage:")
	fmt.Println("  cellsync [OPTIONS] COMMAND [ARGS]")
	fmt.Println()
	fmt.Println("Options:")
	fmt.Println("  --version              Show version information")
	fmt.Println("  --server URL           Sync server URL (default: http://localhost:8080)")
	fmt.Println("  --ws URL               Live transport URL (default: ws://localhost:8080/ws)")
	fmt.Println("  --db PATH              Path to local database (default: cellsync-client.db)")
	fmt.Println("  --engine NAME          Storage engine: bolt or sqlite (default: bolt)")
	fmt.Println("  --token TOKEN          Access token (or CELLSYNC_TOKEN env var)")
	fmt.Println("  --ttl DURATION         Cache TTL (default: 5m)")
	fmt.Println("  --max-retries N        Retry ceiling for queued operations (default: 5)")
	fmt.Println()
	fmt.Println("Commands:")
	fmt.Println("  status                                        Show sync status and presence")
	fmt.Println("  set MODEL SHEET ADDRESS VALUE [FORMULA]       Write a cell value")
	fmt.Println("  get [-refresh] MODEL SHEET REFERENCE          Read a cell value")
	fmt.Println("  link LOCAL MODEL SHEET REMOTE [DIRECTION]     Link a local cell to a remote one")
	fmt.Println("  unlink LOCAL                                  Remove a cell link")
	fmt.Println("  links                                         List registered links")
	fmt.Println("  sync                                          Replay the offline queue now")
	fmt.Println("  conflicts                                     List operations in conflict")
	fmt.Println("  resolve ID keep|discard                       Resolve a conflict")
	fmt.Println("  watch                                         Follow live cell updates")
	fmt.Println("  prefs [KEY [VALUE]]                           Show or change preferences")
	fmt.Println("  clear                                         Wipe all local data")
	fmt.Println()
	fmt.Println("Link directions: bidirectional (default), pull, push")
}
