package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// UpdateSyncMetadata upserts the metadata record for its key
func (s *Storage) UpdateSyncMetadata(ctx context.Context, meta *models.SyncMetadata) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data, err := json.Marshal(meta)
		if err != nil {
			return fmt.Errorf("failed to marshal sync metadata: %w", err)
		}

		if err := bucket.Put([]byte(meta.Key), data); err != nil {
			return fmt.Errorf("failed to save sync metadata: %w", err)
		}

		return nil
	})
}

// GetSyncMetadata returns the metadata record for a sync scope
func (s *Storage) GetSyncMetadata(ctx context.Context, key string) (*models.SyncMetadata, error) {
	var meta *models.SyncMetadata

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketMetadata)
		if bucket == nil {
			return fmt.Errorf("metadata bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrMetadataNotFound
		}

		meta = &models.SyncMetadata{}
		if err := json.Unmarshal(data, meta); err != nil {
			return fmt.Errorf("failed to unmarshal sync metadata: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return meta, nil
}
