package boltdb

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// CacheValue upserts a cached value by its key
func (s *Storage) CacheValue(ctx context.Context, value *models.CachedValue) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return fmt.Errorf("cache bucket not found")
		}

		data, err := json.Marshal(value)
		if err != nil {
			return fmt.Errorf("failed to marshal cached value: %w", err)
		}

		if err := bucket.Put([]byte(value.Key), data); err != nil {
			return fmt.Errorf("failed to save cached value: %w", err)
		}

		return nil
	})
}

// GetCachedValue returns the unexpired cached value for the pair.
// An expired row is reported as a miss even before the sweep removes it.
func (s *Storage) GetCachedValue(ctx context.Context, modelPath, reference string) (*models.CachedValue, error) {
	var value *models.CachedValue

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return fmt.Errorf("cache bucket not found")
		}

		data := bucket.Get([]byte(models.CacheKey(modelPath, reference)))
		if data == nil {
			return storage.ErrCacheMiss
		}

		cached := &models.CachedValue{}
		if err := json.Unmarshal(data, cached); err != nil {
			return fmt.Errorf("failed to unmarshal cached value: %w", err)
		}

		// Просроченная запись равнозначна отсутствию
		if cached.Expired(time.Now()) {
			return storage.ErrCacheMiss
		}

		value = cached
		return nil
	})
	if err != nil {
		return nil, err
	}

	return value, nil
}

// RemoveCachedValue deletes one cached value by the pair
func (s *Storage) RemoveCachedValue(ctx context.Context, modelPath, reference string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return fmt.Errorf("cache bucket not found")
		}

		if err := bucket.Delete([]byte(models.CacheKey(modelPath, reference))); err != nil {
			return fmt.Errorf("failed to delete cached value: %w", err)
		}

		return nil
	})
}

// ClearExpiredCache removes expired rows and returns the removed count
func (s *Storage) ClearExpiredCache(ctx context.Context) (int, error) {
	removed := 0

	err := s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketCache)
		if bucket == nil {
			return fmt.Errorf("cache bucket not found")
		}

		now := time.Now()

		// Сначала собираем ключи, удалять внутри ForEach нельзя
		var expired [][]byte
		err := bucket.ForEach(func(k, v []byte) error {
			cached := &models.CachedValue{}
			if err := json.Unmarshal(v, cached); err != nil {
				return fmt.Errorf("failed to unmarshal cached value: %w", err)
			}
			if cached.Expired(now) {
				key := make([]byte, len(k))
				copy(key, k)
				expired = append(expired, key)
			}
			return nil
		})
		if err != nil {
			return err
		}

		for _, key := range expired {
			if err := bucket.Delete(key); err != nil {
				return fmt.Errorf("failed to delete expired value: %w", err)
			}
			removed++
		}

		return nil
	})
	if err != nil {
		return 0, err
	}

	return removed, nil
}

// ClearAllCache removes all cached values
func (s *Storage) ClearAllCache(ctx context.Context) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(bucketCache); err != nil {
			return fmt.Errorf("failed to delete cache bucket: %w", err)
		}
		if _, err := tx.CreateBucket(bucketCache); err != nil {
			return fmt.Errorf("failed to recreate cache bucket: %w", err)
		}
		return nil
	})
}
