package storage

import (
	"context"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// LinkStorage defines interface for the linked-cells table.
// localAddress is a uniqueness constraint across the table.
type LinkStorage interface {
	// UpsertLinkedCell creates or updates a link. An update for an
	// already-linked localAddress reuses the existing row identity,
	// never producing a duplicate.
	UpsertLinkedCell(ctx context.Context, link *models.LinkedCell) error

	// GetLinkedCellByAddress returns the link for a local address.
	// Returns ErrLinkNotFound if the address is not linked.
	GetLinkedCellByAddress(ctx context.Context, localAddress string) (*models.LinkedCell, error)

	// GetAllLinkedCells returns every registered link
	GetAllLinkedCells(ctx context.Context) ([]*models.LinkedCell, error)

	// GetLinkedCellsByModel returns links bound to one model path
	GetLinkedCellsByModel(ctx context.Context, modelPath string) ([]*models.LinkedCell, error)

	// RemoveLinkedCell deletes a link (explicit unlink).
	// Returns ErrLinkNotFound if the address is not linked.
	RemoveLinkedCell(ctx context.Context, localAddress string) error
}
