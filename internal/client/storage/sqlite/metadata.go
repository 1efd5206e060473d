package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// UpdateSyncMetadata upserts the metadata record for its key
func (s *Storage) UpdateSyncMetadata(ctx context.Context, meta *models.SyncMetadata) error {
	query := `
		INSERT INTO sync_metadata (key, last_sync_timestamp, sync_version, server_version)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			last_sync_timestamp = excluded.last_sync_timestamp,
			sync_version = excluded.sync_version,
			server_version = excluded.server_version
	`

	_, err := s.db.ExecContext(ctx, query,
		meta.Key,
		meta.LastSyncTimestamp,
		meta.SyncVersion,
		meta.ServerVersion,
	)
	if err != nil {
		return fmt.Errorf("failed to update sync metadata: %w", err)
	}

	return nil
}

// GetSyncMetadata returns the metadata record for a sync scope
func (s *Storage) GetSyncMetadata(ctx context.Context, key string) (*models.SyncMetadata, error) {
	query := `
		SELECT key, last_sync_timestamp, sync_version, server_version
		FROM sync_metadata
		WHERE key = ?
	`

	var meta models.SyncMetadata
	err := s.db.QueryRowContext(ctx, query, key).Scan(
		&meta.Key,
		&meta.LastSyncTimestamp,
		&meta.SyncVersion,
		&meta.ServerVersion,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrMetadataNotFound
		}
		return nil, fmt.Errorf("failed to get sync metadata: %w", err)
	}

	return &meta, nil
}
