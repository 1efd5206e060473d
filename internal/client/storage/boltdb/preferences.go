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

// SetPreference upserts a preference value by key
func (s *Storage) SetPreference(ctx context.Context, key, value string) error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPreferences)
		if bucket == nil {
			return fmt.Errorf("preferences bucket not found")
		}

		pref := &models.UserPreference{
			Key:       key,
			Value:     value,
			UpdatedAt: time.Now(),
		}

		data, err := json.Marshal(pref)
		if err != nil {
			return fmt.Errorf("failed to marshal preference: %w", err)
		}

		if err := bucket.Put([]byte(key), data); err != nil {
			return fmt.Errorf("failed to save preference: %w", err)
		}

		return nil
	})
}

// GetPreference returns the preference for a key
func (s *Storage) GetPreference(ctx context.Context, key string) (*models.UserPreference, error) {
	var pref *models.UserPreference

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPreferences)
		if bucket == nil {
			return fmt.Errorf("preferences bucket not found")
		}

		data := bucket.Get([]byte(key))
		if data == nil {
			return storage.ErrPreferenceNotFound
		}

		pref = &models.UserPreference{}
		if err := json.Unmarshal(data, pref); err != nil {
			return fmt.Errorf("failed to unmarshal preference: %w", err)
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	return pref, nil
}

// GetAllPreferences returns every stored preference
func (s *Storage) GetAllPreferences(ctx context.Context) ([]*models.UserPreference, error) {
	var prefs []*models.UserPreference

	err := s.db.View(func(tx *bbolt.Tx) error {
		bucket := tx.Bucket(bucketPreferences)
		if bucket == nil {
			return fmt.Errorf("preferences bucket not found")
		}

		return bucket.ForEach(func(k, v []byte) error {
			pref := &models.UserPreference{}
			if err := json.Unmarshal(v, pref); err != nil {
				return fmt.Errorf("failed to unmarshal preference: %w", err)
			}
			prefs = append(prefs, pref)
			return nil
		})
	})
	if err != nil {
		return nil, err
	}

	return prefs, nil
}
