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

// CacheValue upserts a cached value by its key
func (s *Storage) CacheValue(ctx context.Context, value *models.CachedValue) error {
	query := `
		INSERT INTO cached_values (key, model_path, reference, value, timestamp, expires_at, version)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(key) DO UPDATE SET
			value = excluded.value,
			timestamp = excluded.timestamp,
			expires_at = excluded.expires_at,
			version = excluded.version
	`

	_, err := s.db.ExecContext(ctx, query,
		value.Key,
		value.ModelPath,
		value.Reference,
		rawToNullString(value.Value),
		value.Timestamp,
		value.ExpiresAt,
		value.Version,
	)
	if err != nil {
		return fmt.Errorf("failed to cache value: %w", err)
	}

	return nil
}

// GetCachedValue returns the unexpired cached value for the pair.
// Expiry is part of the query, so an unswept expired row is never returned.
func (s *Storage) GetCachedValue(ctx context.Context, modelPath, reference string) (*models.CachedValue, error) {
	query := `
		SELECT key, model_path, reference, value, timestamp, expires_at, version
		FROM cached_values
		WHERE key = ? AND expires_at > ?
	`

	var (
		cached models.CachedValue
		value  sql.NullString
	)

	err := s.db.QueryRowContext(ctx, query,
		models.CacheKey(modelPath, reference),
		time.Now().UnixMilli(),
	).Scan(
		&cached.Key,
		&cached.ModelPath,
		&cached.Reference,
		&value,
		&cached.Timestamp,
		&cached.ExpiresAt,
		&cached.Version,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrCacheMiss
		}
		return nil, fmt.Errorf("failed to get cached value: %w", err)
	}

	cached.Value = nullStringToRaw(value)

	return &cached, nil
}

// RemoveCachedValue deletes one cached value by the pair
func (s *Storage) RemoveCachedValue(ctx context.Context, modelPath, reference string) error {
	_, err := s.db.ExecContext(ctx,
		"DELETE FROM cached_values WHERE key = ?",
		models.CacheKey(modelPath, reference),
	)
	if err != nil {
		return fmt.Errorf("failed to delete cached value: %w", err)
	}
	return nil
}

// ClearExpiredCache removes expired rows over the expires_at index
func (s *Storage) ClearExpiredCache(ctx context.Context) (int, error) {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM cached_values WHERE expires_at <= ?",
		time.Now().UnixMilli(),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to clear expired cache: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return int(affected), nil
}

// ClearAllCache removes all cached values
func (s *Storage) ClearAllCache(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM cached_values"); err != nil {
		return fmt.Errorf("failed to clear cache: %w", err)
	}
	return nil
}
