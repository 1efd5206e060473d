package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// SetPreference upserts a preference value by key
func (s *Storage) SetPreference(ctx context.Context, key, value string) error {
	query := `
		INSERT INTO preferences (key, value, updated_at)
		VALUES (?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			updated_at = excluded.updated_at
	`

	_, err := s.db.ExecContext(ctx, query, key, value, time.Now().UnixMilli())
	if err != nil {
		return fmt.Errorf("failed to set preference: %w", err)
	}

	return nil
}

// GetPreference returns the preference for a key
func (s *Storage) GetPreference(ctx context.Context, key string) (*models.UserPreference, error) {
	query := "SELECT key, value, updated_at FROM preferences WHERE key = ?"

	var (
		pref      models.UserPreference
		updatedAt int64
	)

	err := s.db.QueryRowContext(ctx, query, key).Scan(&pref.Key, &pref.Value, &updatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrPreferenceNotFound
		}
		return nil, fmt.Errorf("failed to get preference: %w", err)
	}

	pref.UpdatedAt = time.UnixMilli(updatedAt)

	return &pref, nil
}

// GetAllPreferences returns every stored preference
func (s *Storage) GetAllPreferences(ctx context.Context) ([]*models.UserPreference, error) {
	query := "SELECT key, value, updated_at FROM preferences ORDER BY key"

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query preferences: %w", err)
	}
	defer rows.Close()

	var prefs []*models.UserPreference
	for rows.Next() {
		var (
			pref      models.UserPreference
			updatedAt int64
		)
		if err := rows.Scan(&pref.Key, &pref.Value, &updatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan preference: %w", err)
		}
		pref.UpdatedAt = time.UnixMilli(updatedAt)
		prefs = append(prefs, &pref)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate preferences: %w", err)
	}

	return prefs, nil
}
