package storage

import (
	"context"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// MetadataStorage defines interface for per-scope sync metadata
type MetadataStorage interface {
	// UpdateSyncMetadata upserts the metadata record for its key
	UpdateSyncMetadata(ctx context.Context, meta *models.SyncMetadata) error

	// GetSyncMetadata returns the metadata record for a sync scope.
	// Returns ErrMetadataNotFound if the scope has never synced.
	GetSyncMetadata(ctx context.Context, key string) (*models.SyncMetadata, error)
}
