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

// UpsertLinkedCell creates or updates a link. The unique local_address
// constraint plus ON CONFLICT keeps one row per address; the stored row
// identity (id) is preserved on update.
func (s *Storage) UpsertLinkedCell(ctx context.Context, link *models.LinkedCell) error {
	query := `
		INSERT INTO linked_cells (id, local_address, model_path, remote_reference, last_synced_at, last_value, sync_direction)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(local_address) DO UPDATE SET
			model_path = excluded.model_path,
			remote_reference = excluded.remote_reference,
			last_synced_at = excluded.last_synced_at,
			last_value = excluded.last_value,
			sync_direction = excluded.sync_direction
	`

	_, err := s.db.ExecContext(ctx, query,
		link.ID,
		link.LocalAddress,
		link.ModelPath,
		link.RemoteReference,
		link.LastSyncedAt.UnixMilli(),
		rawToNullString(link.LastValue),
		string(link.SyncDirection),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert linked cell: %w", err)
	}

	return nil
}

// GetLinkedCellByAddress returns the link for a local address
func (s *Storage) GetLinkedCellByAddress(ctx context.Context, localAddress string) (*models.LinkedCell, error) {
	query := `
		SELECT id, local_address, model_path, remote_reference, last_synced_at, last_value, sync_direction
		FROM linked_cells
		WHERE local_address = ?
	`

	link, err := scanLinkedCell(s.db.QueryRowContext(ctx, query, localAddress))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrLinkNotFound
		}
		return nil, err
	}

	return link, nil
}

// GetAllLinkedCells returns every registered link
func (s *Storage) GetAllLinkedCells(ctx context.Context) ([]*models.LinkedCell, error) {
	query := `
		SELECT id, local_address, model_path, remote_reference, last_synced_at, last_value, sync_direction
		FROM linked_cells
		ORDER BY local_address
	`

	return s.queryLinkedCells(ctx, query)
}

// GetLinkedCellsByModel returns links bound to one model path
func (s *Storage) GetLinkedCellsByModel(ctx context.Context, modelPath string) ([]*models.LinkedCell, error) {
	query := `
		SELECT id, local_address, model_path, remote_reference, last_synced_at, last_value, sync_direction
		FROM linked_cells
		WHERE model_path = ?
		ORDER BY local_address
	`

	return s.queryLinkedCells(ctx, query, modelPath)
}

// RemoveLinkedCell deletes a link
func (s *Storage) RemoveLinkedCell(ctx context.Context, localAddress string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM linked_cells WHERE local_address = ?", localAddress)
	if err != nil {
		return fmt.Errorf("failed to remove linked cell: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrLinkNotFound
	}

	return nil
}

func (s *Storage) queryLinkedCells(ctx context.Context, query string, args ...any) ([]*models.LinkedCell, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to query linked cells: %w", err)
	}
	defer rows.Close()

	var links []*models.LinkedCell
	for rows.Next() {
		link, err := scanLinkedCell(rows)
		if err != nil {
			return nil, err
		}
		links = append(links, link)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate linked cells: %w", err)
	}

	return links, nil
}

// scanLinkedCell читает одну строку linked_cells
func scanLinkedCell(row scanner) (*models.LinkedCell, error) {
	var (
		link         models.LinkedCell
		lastSyncedAt int64
		lastValue    sql.NullString
		direction    string
	)

	err := row.Scan(
		&link.ID,
		&link.LocalAddress,
		&link.ModelPath,
		&link.RemoteReference,
		&lastSyncedAt,
		&lastValue,
		&direction,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan linked cell: %w", err)
	}

	link.LastSyncedAt = time.UnixMilli(lastSyncedAt)
	link.LastValue = nullStringToRaw(lastValue)
	link.SyncDirection = models.SyncDirection(direction)

	return &link, nil
}
