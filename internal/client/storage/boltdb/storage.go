package boltdb

import (
	"context"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
)

var (
	// BoltDB bucket names, one per logical table
	bucketOperations  = []byte("pending_operations")
	bucketCache       = []byte("cached_values")
	bucketLinks       = []byte("linked_cells")
	bucketMetadata    = []byte("sync_metadata")
	bucketPreferences = []byte("preferences")
)

// Storage represents BoltDB implementation of the durable local store
type Storage struct {
	db *bbolt.DB
}

// interface guard
var _ storage.Store = (*Storage)(nil)

// New creates a new BoltDB storage instance.
// dbPath is the path to the BoltDB database file.
// Initialization is idempotent: existing buckets are never recreated.
func New(ctx context.Context, dbPath string) (*Storage, error) {
	// Timeout защищает от вечного ожидания file lock,
	// когда база занята другим процессом
	db, err := bbolt.Open(dbPath, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to open boltdb: %v", storage.ErrStorageUnavailable, err)
	}

	s := &Storage{db: db}

	// Инициализируем buckets
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, fmt.Errorf("%w: failed to initialize buckets: %v", storage.ErrStorageUnavailable, err)
	}

	return s, nil
}

// Close closes the database connection
func (s *Storage) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

// initBuckets создает недостающие buckets, существующие не трогает
func (s *Storage) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{
			bucketOperations,
			bucketCache,
			bucketLinks,
			bucketMetadata,
			bucketPreferences,
		}
		for _, name := range buckets {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create bucket %s: %w", name, err)
			}
		}
		return nil
	})
}

// GetStats returns row counts per logical table
func (s *Storage) GetStats(ctx context.Context) (*storage.Stats, error) {
	stats := &storage.Stats{}

	err := s.db.View(func(tx *bbolt.Tx) error {
		count := func(name []byte) (int, error) {
			bucket := tx.Bucket(name)
			if bucket == nil {
				return 0, fmt.Errorf("bucket %s not found", name)
			}
			return bucket.Stats().KeyN, nil
		}

		var err error
		if stats.PendingOperations, err = count(bucketOperations); err != nil {
			return err
		}
		if stats.CachedValues, err = count(bucketCache); err != nil {
			return err
		}
		if stats.LinkedCells, err = count(bucketLinks); err != nil {
			return err
		}
		if stats.SyncMetadata, err = count(bucketMetadata); err != nil {
			return err
		}
		stats.Preferences, err = count(bucketPreferences)
		return err
	})
	if err != nil {
		return nil, fmt.Errorf("failed to collect stats: %w", err)
	}

	return stats, nil
}

// ClearAll wipes every table by recreating its bucket
func (s *Storage) ClearAll(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		buckets := [][]byte{
			bucketOperations,
			bucketCache,
			bucketLinks,
			bucketMetadata,
			bucketPreferences,
		}
		for _, name := range buckets {
			if err := tx.DeleteBucket(name); err != nil {
				return fmt.Errorf("failed to delete bucket %s: %w", name, err)
			}
			if _, err := tx.CreateBucket(name); err != nil {
				return fmt.Errorf("failed to recreate bucket %s: %w", name, err)
			}
		}
		return nil
	})
}
