package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// AddPendingOperation inserts a new pending operation.
// The unique (model_path, address) index enforces the single-outstanding-
// operation invariant at the engine level.
func (s *Storage) AddPendingOperation(ctx context.Context, op *models.PendingOperation) error {
	conflict, err := marshalConflict(op.Conflict)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO pending_operations
			(id, op_type, model_path, address, value, formula, client_id, timestamp, retry_count, terminal, conflict)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		op.ID,
		string(op.Type),
		op.ModelPath,
		op.Address,
		rawToNullString(op.Value),
		op.Formula,
		op.ClientID,
		op.Timestamp,
		op.RetryCount,
		boolToInt(op.Terminal),
		conflict,
	)
	if err != nil {
		return fmt.Errorf("failed to insert operation: %w", err)
	}

	return nil
}

// GetPendingOperations returns all pending operations ordered by timestamp
func (s *Storage) GetPendingOperations(ctx context.Context) ([]*models.PendingOperation, error) {
	query := `
		SELECT id, op_type, model_path, address, value, formula, client_id, timestamp, retry_count, terminal, conflict
		FROM pending_operations
		ORDER BY timestamp, id
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query operations: %w", err)
	}
	defer rows.Close()

	var ops []*models.PendingOperation
	for rows.Next() {
		op, err := scanOperation(rows)
		if err != nil {
			return nil, err
		}
		ops = append(ops, op)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate operations: %w", err)
	}

	return ops, nil
}

// GetPendingOperationByAddress returns the operation queued for the (modelPath, address) pair
func (s *Storage) GetPendingOperationByAddress(ctx context.Context, modelPath, address string) (*models.PendingOperation, error) {
	query := `
		SELECT id, op_type, model_path, address, value, formula, client_id, timestamp, retry_count, terminal, conflict
		FROM pending_operations
		WHERE model_path = ? AND address = ?
	`

	row := s.db.QueryRowContext(ctx, query, modelPath, address)
	op, err := scanOperation(row)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, storage.ErrOperationNotFound
		}
		return nil, err
	}

	return op, nil
}

// UpdatePendingOperation overwrites an existing operation in place
func (s *Storage) UpdatePendingOperation(ctx context.Context, op *models.PendingOperation) error {
	conflict, err := marshalConflict(op.Conflict)
	if err != nil {
		return err
	}

	query := `
		UPDATE pending_operations
		SET op_type = ?, model_path = ?, address = ?, value = ?, formula = ?,
		    client_id = ?, timestamp = ?, retry_count = ?, terminal = ?, conflict = ?
		WHERE id = ?
	`

	res, err := s.db.ExecContext(ctx, query,
		string(op.Type),
		op.ModelPath,
		op.Address,
		rawToNullString(op.Value),
		op.Formula,
		op.ClientID,
		op.Timestamp,
		op.RetryCount,
		boolToInt(op.Terminal),
		conflict,
		op.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update operation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrOperationNotFound
	}

	return nil
}

// RemovePendingOperation removes an operation by id
func (s *Storage) RemovePendingOperation(ctx context.Context, id string) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM pending_operations WHERE id = ?", id)
	if err != nil {
		return fmt.Errorf("failed to remove operation: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if affected == 0 {
		return storage.ErrOperationNotFound
	}

	return nil
}

// ClearPendingOperations removes all pending operations
func (s *Storage) ClearPendingOperations(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM pending_operations"); err != nil {
		return fmt.Errorf("failed to clear operations: %w", err)
	}
	return nil
}

// scanner покрывает и *sql.Row, и *sql.Rows
type scanner interface {
	Scan(dest ...any) error
}

// scanOperation читает одну строку pending_operations
func scanOperation(row scanner) (*models.PendingOperation, error) {
	var (
		op       models.PendingOperation
		opType   string
		value    sql.NullString
		terminal int
		conflict sql.NullString
	)

	err := row.Scan(
		&op.ID,
		&opType,
		&op.ModelPath,
		&op.Address,
		&value,
		&op.Formula,
		&op.ClientID,
		&op.Timestamp,
		&op.RetryCount,
		&terminal,
		&conflict,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan operation: %w", err)
	}

	op.Type = models.OperationType(opType)
	op.Value = nullStringToRaw(value)
	op.Terminal = terminal != 0

	if conflict.Valid {
		op.Conflict = &models.SyncConflict{}
		if err := json.Unmarshal([]byte(conflict.String), op.Conflict); err != nil {
			return nil, fmt.Errorf("failed to unmarshal conflict payload: %w", err)
		}
	}

	return &op, nil
}

// marshalConflict сериализует payload конфликта в nullable колонку
func marshalConflict(c *models.SyncConflict) (sql.NullString, error) {
	if c == nil {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(c)
	if err != nil {
		return sql.NullString{}, fmt.Errorf("failed to marshal conflict payload: %w", err)
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func rawToNullString(raw json.RawMessage) sql.NullString {
	if raw == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: string(raw), Valid: true}
}

func nullStringToRaw(ns sql.NullString) json.RawMessage {
	if !ns.Valid {
		return nil
	}
	return json.RawMessage(ns.String)
}

func boolToInt(b bool) int {
	if b {
		return 1
	}
	return 0
}
