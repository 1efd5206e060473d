package storage

import (
	"context"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// CacheStorage defines interface for the cached-values table.
// The cache is best effort: callers may log and swallow write errors.
type CacheStorage interface {
	// CacheValue upserts a cached value by its key (modelPath:reference)
	CacheValue(ctx context.Context, value *models.CachedValue) error

	// GetCachedValue returns the unexpired cached value for the pair.
	// Expiry is checked at read time: an unswept expired row is never
	// returned. Returns ErrCacheMiss when absent or expired.
	GetCachedValue(ctx context.Context, modelPath, reference string) (*models.CachedValue, error)

	// RemoveCachedValue deletes one cached value by the pair.
	// Removing an absent key is not an error.
	RemoveCachedValue(ctx context.Context, modelPath, reference string) error

	// ClearExpiredCache removes rows with expiresAt in the past and
	// returns the number of removed rows. Correctness does not depend
	// on how often this sweep runs.
	ClearExpiredCache(ctx context.Context) (int, error)

	// ClearAllCache removes all cached values
	ClearAllCache(ctx context.Context) error
}
