package storage

import (
	"context"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// OperationStorage defines interface for the pending-operations table.
// Losing a queued write is data loss, so unlike the cache path every
// error here must be surfaced to the caller.
type OperationStorage interface {
	// AddPendingOperation inserts a new pending operation
	AddPendingOperation(ctx context.Context, op *models.PendingOperation) error

	// GetPendingOperations returns all pending operations ordered by timestamp
	GetPendingOperations(ctx context.Context) ([]*models.PendingOperation, error)

	// GetPendingOperationByAddress returns the operation queued for the
	// (modelPath, address) pair.
	// Returns ErrOperationNotFound if nothing is queued for the pair.
	GetPendingOperationByAddress(ctx context.Context, modelPath, address string) (*models.PendingOperation, error)

	// UpdatePendingOperation overwrites an existing operation in place
	// (coalescing, retry count bump, conflict payload attachment).
	// Returns ErrOperationNotFound if the operation doesn't exist.
	UpdatePendingOperation(ctx context.Context, op *models.PendingOperation) error

	// RemovePendingOperation removes an operation after successful sync
	// or explicit user resolution
	RemovePendingOperation(ctx context.Context, id string) error

	// ClearPendingOperations removes all pending operations
	ClearPendingOperations(ctx context.Context) error
}
