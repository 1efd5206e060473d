package storage

import "context"

// Stats contains per-table row counts
type Stats struct {
	PendingOperations int `json:"pending_operations"`
	CachedValues      int `json:"cached_values"`
	LinkedCells       int `json:"linked_cells"`
	SyncMetadata      int `json:"sync_metadata"`
	Preferences       int `json:"preferences"`
}

// Store is the full durable local store: four sync tables plus preferences.
// Every operation is transactional at single-table granularity; no
// cross-table atomicity is provided or required. Initialization is
// idempotent — reopening an existing store never recreates or truncates
// tables. The store is passed explicitly to every component that needs
// persistence; there is no shared global instance.
type Store interface {
	OperationStorage
	CacheStorage
	LinkStorage
	MetadataStorage
	PreferenceStorage

	// GetStats returns row counts per logical table
	GetStats(ctx context.Context) (*Stats, error)

	// ClearAll wipes every table. Used for full reset and in tests.
	ClearAll(ctx context.Context) error

	// Close releases the underlying engine
	Close() error
}
