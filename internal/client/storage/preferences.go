package storage

import (
	"context"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// PreferenceStorage defines interface for user preferences.
// Preferences are not sync-critical; they only share the storage engine.
type PreferenceStorage interface {
	// SetPreference upserts a preference value by key
	SetPreference(ctx context.Context, key, value string) error

	// GetPreference returns the preference for a key.
	// Returns ErrPreferenceNotFound if the key was never set.
	GetPreference(ctx context.Context, key string) (*models.UserPreference, error)

	// GetAllPreferences returns every stored preference
	GetAllPreferences(ctx context.Context) ([]*models.UserPreference, error)
}
