package boltdb

import (
	"context"
	"encoding/json"
	"fmt"

	"go.etcd.io/bbolt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// UpsertLinkedCell creates or updates a link. The bucket is keyed by
// localAddress, so uniqueness holds structurally; on update the stored
// row identity (ID) is reused.
func (s *Storage) UpsertLinkedCell(ctx context.Context, link *models.LinkedCell) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLinks)
		if bucket == nil {
			return fmt.Errorf("links bucket not found")
		}

		key := []byte(link.LocalAddress)

		// Адрес уже привязан — сохраняем идентификатор существующей записи
		if data := bucket.Get(key); data != nil {
			existing := &models.LinkedCell{}
			if err := json.Unmarshal(data, existing); err != nil {
				return fmt.Errorf("failed to unmarshal linked cell: %w", err)
			}
			link.ID = existing.ID
		}

		data, err := json.Marshal(link)
		if err != nil {
			return fmt.Errorf("failed to marshal linked cell: %w", err)
		}

		if err := bucket.Put(key, data); err != nil {
			return fmt.Errorf("failed to save linked cell: %w", err)
		}

		return nil
	})
}

// GetLinkedCellByAddress returns the link for a local address
func (s *Storage) GetLinkedCellByAddress(ctx context.Context, localAddress string) (*models.LinkedCell, error) {
	var link *models.LinkedCell

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLinks)
		if bucket == nil {
			return fmt.Errorf("links bucket not found")
		}

		data := bucket.Get([]byte(localAddress))
		if data == nil {
			return storage.ErrLinkNotFound
		}

		link = &models.LinkedCell{}
		if err := json.Unmarshal(data, link); err != nil {
			return fmt.Errorf("failed to unmarshal linked cell: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return link, nil
}

// GetAllLinkedCells returns every registered link
func (s *Storage) GetAllLinkedCells(ctx context.Context) ([]*models.LinkedCell, error) {
	var links []*models.LinkedCell

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLinks)
		if bucket == nil {
			return fmt.Errorf("links bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			link := &models.LinkedCell{}
			if err := json.Unmarshal(v, link); err != nil {
				return fmt.Errorf("failed to unmarshal linked cell: %w", err)
			}
			links = append(links, link)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return links, nil
}

// GetLinkedCellsByModel returns links bound to one model path
func (s *Storage) GetLinkedCellsByModel(ctx context.Context, modelPath string) ([]*models.LinkedCell, error) {
	var links []*models.LinkedCell

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLinks)
		if bucket == nil {
			return fmt.Errorf("links bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			link := &models.LinkedCell{}
			if err := json.Unmarshal(v, link); err != nil {
				return fmt.Errorf("failed to unmarshal linked cell: %w", err)
			}
			if link.ModelPath == modelPath {
				links = append(links, link)
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return links, nil
}

// RemoveLinkedCell deletes a link
func (s *Storage) RemoveLinkedCell(ctx context.Context, localAddress string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketLinks)
		if bucket == nil {
			return fmt.Errorf("links bucket not found")
		}

		key := []byte(localAddress)
		if bucket.Get(key) == nil {
			return storage.ErrLinkNotFound
		}

		if err := bucket.Delete(key); err != nil {
			return fmt.Errorf("failed to remove linked cell: %w", err)
		}

		return nil
	})
}
