package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"

	"go.etcd.io/bbolt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// AddPendingOperation inserts a new pending operation
func (s *Storage) AddPendingOperation(ctx context.Context, op *models.PendingOperation) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOperations)
		if bucket == nil {
			return fmt.Errorf("operations bucket not found")
		}

		data, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("failed to marshal operation: %w", err)
		}

		// Ключ — ULID операции
		if err := bucket.Put([]byte(op.ID), data); err != nil {
			return fmt.Errorf("failed to save operation: %w", err)
		}

		return nil
	})
}

// GetPendingOperations returns all pending operations ordered by timestamp
func (s *Storage) GetPendingOperations(ctx context.Context) ([]*models.PendingOperation, error) {
	var ops []*models.PendingOperation

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOperations)
		if bucket == nil {
			return fmt.Errorf("operations bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			op := &models.PendingOperation{}
			if err := json.Unmarshal(v, op); err != nil {
				return fmt.Errorf("failed to unmarshal operation: %w", err)
			}
			ops = append(ops, op)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	// Порядок воспроизведения: по времени локальной записи,
	// при равенстве — по ULID (он тоже упорядочен по времени создания)
	sort.Slice(ops, func(i, j int) bool {
		if ops[i].Timestamp != ops[j].Timestamp {
			return ops[i].Timestamp < ops[j].Timestamp
		}
		return ops[i].ID < ops[j].ID
	})

	return ops, nil
}

// GetPendingOperationByAddress returns the operation queued for the (modelPath, address) pair
func (s *Storage) GetPendingOperationByAddress(ctx context.Context, modelPath, address string) (*models.PendingOperation, error) {
	var found *models.PendingOperation

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOperations)
		if bucket == nil {
			return fmt.Errorf("operations bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			if found != nil {
				return nil
			}
			op := &models.PendingOperation{}
			if err := json.Unmarshal(v, op); err != nil {
				return fmt.Errorf("failed to unmarshal operation: %w", err)
			}
			if op.ModelPath == modelPath && op.Address == address {
				found = op
			}
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	if found == nil {
		return nil, storage.ErrOperationNotFound
	}

	return found, nil
}

// UpdatePendingOperation overwrites an existing operation in place
func (s *Storage) UpdatePendingOperation(ctx context.Context, op *models.PendingOperation) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOperations)
		if bucket == nil {
			return fmt.Errorf("operations bucket not found")
		}

		if bucket.Get([]byte(op.ID)) == nil {
			return storage.ErrOperationNotFound
		}

		data, err := json.Marshal(op)
		if err != nil {
			return fmt.Errorf("failed to marshal operation: %w", err)
		}

		if err := bucket.Put([]byte(op.ID), data); err != nil {
			return fmt.Errorf("failed to update operation: %w", err)
		}

		return nil
	})
}

// RemovePendingOperation removes an operation by id
func (s *Storage) RemovePendingOperation(ctx context.Context, id string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketOperations)
		if bucket == nil {
			return fmt.Errorf("operations bucket not found")
		}

		if bucket.Get([]byte(id)) == nil {
			return storage.ErrOperationNotFound
		}

		if err := bucket.Delete([]byte(id)); err != nil {
			return fmt.Errorf("failed to remove operation: %w", err)
		}

		return nil
	})
}

// ClearPendingOperations removes all pending operations
func (s *Storage) ClearPendingOperations(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketOperations); err != nil {
			return fmt.Errorf("failed to delete operations bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketOperations); err != nil {
			return fmt.Errorf("failed to recreate operations bucket: %w", err)
		}
		return nil
	})
}
