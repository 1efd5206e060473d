package storage

import "errors"

// Common client storage errors
var (
	// ErrStorageUnavailable indicates that the persistence engine cannot be
	// opened or written (locked by another process, quota exceeded, etc.)
	ErrStorageUnavailable = errors.New("storage unavailable")

	// ErrStorageClosed indicates that storage is closed
	ErrStorageClosed = errors.New("storage is closed")

	// ErrOperationNotFound indicates that pending operation was not found
	ErrOperationNotFound = errors.New("pending operation not found")

	// ErrCacheMiss indicates that no valid (unexpired) cached value exists
	ErrCacheMiss = errors.New("cache miss")

	// ErrLinkNotFound indicates that no link is registered for the address
	ErrLinkNotFound = errors.New("linked cell not found")

	// ErrMetadataNotFound indicates that no sync metadata exists for the key
	ErrMetadataNotFound = errors.New("sync metadata not found")

	// ErrPreferenceNotFound indicates that preference was not found
	ErrPreferenceNotFound = errors.New("preference not found")
)
