// Package queue реализует очередь офлайн-операций: локальные мутации
// переживают перезапуск процесса и воспроизводятся на сервере в порядке
// локальной записи, по одной незавершенной операции на адрес.
package queue

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/oklog/ulid/v2"
	"github.com/sethvargo/go-retry"

	httpClient "github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/api"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/pkg/api"
)

// Значения по умолчанию для политики повторов
const (
	DefaultMaxRetries        = 5                      // retry ceiling между drain-проходами
	DefaultTransientAttempts = 2                      // быстрые повторы внутри одного submit
	DefaultRetryBase         = 100 * time.Millisecond // база fibonacci backoff
)

// Config задает политику повторов очереди.
// Потолок повторов выбирается вызывающей стороной, не ядром:
// исходное поведение с неограниченными повторами рискует бесконечным
// циклом против навсегда отклоняющего сервера.
type Config struct {
	MaxRetries        int           // после этого порога операция помечается терминальной
	TransientAttempts uint64        // повторы сетевых ошибок внутри одного submit
	RetryBase         time.Duration // база backoff для таких повторов
}

func (c Config) withDefaults() Config {
	if c.MaxRetries <= 0 {
		c.MaxRetries = DefaultMaxRetries
	}
	if c.TransientAttempts == 0 {
		c.TransientAttempts = DefaultTransientAttempts
	}
	if c.RetryBase <= 0 {
		c.RetryBase = DefaultRetryBase
	}
	return c
}

// DrainResult contains queue drain counters
type DrainResult struct {
	Synced    int // подтверждено сервером и удалено из очереди
	Conflicts int // оставлено в очереди с прикрепленным payload конфликта
	Failed    int // ошибка, остались в очереди с увеличенным retry count
	Terminal  int // достигли retry ceiling, ждут ручного разрешения
	Skipped   int // терминальные/конфликтные, не участвовали в drain
}

// Service определяет интерфейс очереди офлайн-операций
type Service interface {
	// Enqueue принимает намерение мутации. Если по паре (modelPath, address)
	// уже есть незавершенная операция, она замещается на месте (coalescing),
	// вторая запись не создается.
	Enqueue(ctx context.Context, intent models.MutationIntent) (*models.PendingOperation, error)

	// Drain воспроизводит все незавершенные операции по одной,
	// в порядке timestamp
	Drain(ctx context.Context) (*DrainResult, error)

	// DrainBatch воспроизводит операции батчами, по одному батчу на модель.
	// Результаты сервера сопоставляются по адресу, не по позиции.
	DrainBatch(ctx context.Context) (*DrainResult, error)

	// PendingCount возвращает количество записей, ожидающих синхронизации
	PendingCount(ctx context.Context) (int, error)

	// Conflicts возвращает операции с прикрепленным payload конфликта
	Conflicts(ctx context.Context) ([]*models.PendingOperation, error)

	// AttachConflict прикрепляет payload конфликта к операции,
	// выводя ее из drain до ручного разрешения
	AttachConflict(ctx context.Context, id string, conflict *models.SyncConflict) error

	// Discard удаляет операцию после ручного разрешения конфликта
	Discard(ctx context.Context, id string) error

	// Requeue сбрасывает терминальный/конфликтный статус операции,
	// возвращая ее в следующий drain
	Requeue(ctx context.Context, id string) error
}

type service struct {
	ops       storage.OperationStorage
	apiClient httpClient.ClientAPI
	logger    *slog.Logger
	clientID  string
	cfg       Config
}

// NewService creates a new offline queue service
func NewService(ops storage.OperationStorage, apiClient httpClient.ClientAPI, clientID string, cfg Config, logger *slog.Logger) Service {
	return &service{
		ops:       ops,
		apiClient: apiClient,
		logger:    logger,
		clientID:  clientID,
		cfg:       cfg.withDefaults(),
	}
}

// Enqueue принимает намерение мутации с coalescing по (modelPath, address)
func (s *service) Enqueue(ctx context.Context, intent models.MutationIntent) (*models.PendingOperation, error) {
	opType := intent.Type
	if opType == "" {
		opType = models.OperationUpdate
	}
	if !opType.Valid() {
		return nil, fmt.Errorf("unknown operation type %q", opType)
	}

	existing, err := s.ops.GetPendingOperationByAddress(ctx, intent.ModelPath, intent.Address)
	if err != nil && !errors.Is(err, storage.ErrOperationNotFound) {
		return nil, fmt.Errorf("failed to look up pending operation: %w", err)
	}

	now := time.Now().UnixMilli()

	if existing != nil {
		// Замещаем на месте: id сохраняется, свежая запись получает
		// новый бюджет повторов, прежний конфликт ею вытеснен
		existing.Type = opType
		existing.Value = intent.Value
		existing.Formula = intent.Formula
		existing.Timestamp = now
		existing.RetryCount = 0
		existing.Terminal = false
		existing.Conflict = nil

		if err := s.ops.UpdatePendingOperation(ctx, existing); err != nil {
			return nil, fmt.Errorf("failed to coalesce pending operation: %w", err)
		}

		s.logger.Debug("coalesced pending operation",
			"id", existing.ID,
			"model_path", existing.ModelPath,
			"address", existing.Address)

		return existing, nil
	}

	op := &models.PendingOperation{
		ID:        ulid.Make().String(),
		Type:      opType,
		ModelPath: intent.ModelPath,
		Address:   intent.Address,
		Value:     intent.Value,
		Formula:   intent.Formula,
		ClientID:  s.clientID,
		Timestamp: now,
	}

	if err := s.ops.AddPendingOperation(ctx, op); err != nil {
		return nil, fmt.Errorf("failed to add pending operation: %w", err)
	}

	s.logger.Debug("enqueued pending operation",
		"id", op.ID,
		"model_path", op.ModelPath,
		"address", op.Address)

	return op, nil
}

// Drain воспроизводит операции по одной в порядке timestamp
func (s *service) Drain(ctx context.Context) (*DrainResult, error) {
	ops, err := s.ops.GetPendingOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending operations: %w", err)
	}

	result := &DrainResult{}

	for _, op := range ops {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		if !op.Outstanding() {
			result.Skipped++
			continue
		}

		err := s.submit(ctx, op)
		switch {
		case err == nil:
			if err := s.ops.RemovePendingOperation(ctx, op.ID); err != nil {
				return result, fmt.Errorf("failed to remove synced operation: %w", err)
			}
			result.Synced++

		default:
			var conflictErr *httpClient.ConflictError
			if errors.As(err, &conflictErr) {
				s.attachConflict(op, conflictErr.Conflict.ServerValue, conflictErr.Conflict.ServerFormula,
					conflictErr.Conflict.ModifiedBy, conflictErr.Conflict.ServerTimestamp, conflictErr.Conflict.ServerVersion)
				if err := s.ops.UpdatePendingOperation(ctx, op); err != nil {
					return result, fmt.Errorf("failed to attach conflict: %w", err)
				}
				result.Conflicts++
				continue
			}

			s.logger.Warn("failed to sync pending operation",
				"id", op.ID,
				"address", op.Address,
				"retry_count", op.RetryCount+1,
				"error", err)

			s.bumpRetry(op, result)
			if err := s.ops.UpdatePendingOperation(ctx, op); err != nil {
				return result, fmt.Errorf("failed to update failed operation: %w", err)
			}
		}
	}

	s.logger.Info("queue drain completed",
		"synced", result.Synced,
		"conflicts", result.Conflicts,
		"failed", result.Failed,
		"terminal", result.Terminal,
		"skipped", result.Skipped)

	return result, nil
}

// DrainBatch воспроизводит операции батчами, по одному на модель
func (s *service) DrainBatch(ctx context.Context) (*DrainResult, error) {
	ops, err := s.ops.GetPendingOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending operations: %w", err)
	}

	result := &DrainResult{}

	// Группируем по модели, сохраняя порядок timestamp внутри группы
	groups := make(map[string][]*models.PendingOperation)
	var order []string
	for _, op := range ops {
		if !op.Outstanding() {
			result.Skipped++
			continue
		}
		if _, ok := groups[op.ModelPath]; !ok {
			order = append(order, op.ModelPath)
		}
		groups[op.ModelPath] = append(groups[op.ModelPath], op)
	}

	for _, modelPath := range order {
		if err := ctx.Err(); err != nil {
			return result, err
		}
		if err := s.drainModelBatch(ctx, modelPath, groups[modelPath], result); err != nil {
			return result, err
		}
	}

	s.logger.Info("batch drain completed",
		"synced", result.Synced,
		"conflicts", result.Conflicts,
		"failed", result.Failed,
		"terminal", result.Terminal,
		"skipped", result.Skipped)

	return result, nil
}

func (s *service) drainModelBatch(ctx context.Context, modelPath string, group []*models.PendingOperation, result *DrainResult) error {
	modelID, sheetID := models.SplitModelPath(modelPath)

	req := api.BatchSyncRequest{
		ModelID:    modelID,
		Operations: make([]api.CellSyncOperation, 0, len(group)),
	}
	for _, op := range group {
		req.Operations = append(req.Operations, api.CellSyncOperation{
			Type:        string(op.Type),
			SheetID:     sheetID,
			CellAddress: op.Address,
			Value:       op.Value,
			Formula:     op.Formula,
			ClientID:    op.ClientID,
			Timestamp:   op.Timestamp,
		})
	}

	resp, err := s.apiClient.SyncBatch(ctx, req)
	if err != nil {
		// Сбой всего запроса равнозначен сетевому сбою каждой операции
		s.logger.Warn("batch sync request failed", "model_path", modelPath, "error", err)
		for _, op := range group {
			s.bumpRetry(op, result)
			if err := s.ops.UpdatePendingOperation(ctx, op); err != nil {
				return fmt.Errorf("failed to update failed operation: %w", err)
			}
		}
		return nil
	}

	// Результаты и конфликты сопоставляем по адресу, не по позиции
	statuses := make(map[string]string, len(resp.Results))
	for _, r := range resp.Results {
		statuses[r.CellAddress] = r.Status
	}
	conflicts := make(map[string]api.CellConflict, len(resp.Conflicts))
	for _, c := range resp.Conflicts {
		conflicts[c.CellAddress] = c
	}

	for _, op := range group {
		status, ok := statuses[op.Address]
		switch {
		case ok && status == api.SyncStatusSynced:
			if err := s.ops.RemovePendingOperation(ctx, op.ID); err != nil {
				return fmt.Errorf("failed to remove synced operation: %w", err)
			}
			result.Synced++

		case ok && status == api.SyncStatusConflict:
			conflict := conflicts[op.Address]
			s.attachConflict(op, conflict.ServerValue, conflict.ServerFormula,
				conflict.ModifiedBy, conflict.ServerTimestamp, conflict.ServerVersion)
			if err := s.ops.UpdatePendingOperation(ctx, op); err != nil {
				return fmt.Errorf("failed to attach conflict: %w", err)
			}
			result.Conflicts++

		default:
			// failed либо сервер не вернул результат для адреса
			s.bumpRetry(op, result)
			if err := s.ops.UpdatePendingOperation(ctx, op); err != nil {
				return fmt.Errorf("failed to update failed operation: %w", err)
			}
		}
	}

	return nil
}

// PendingCount возвращает количество записей, ожидающих синхронизации
func (s *service) PendingCount(ctx context.Context) (int, error) {
	ops, err := s.ops.GetPendingOperations(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to get pending operations: %w", err)
	}
	return len(ops), nil
}

// Conflicts возвращает операции с прикрепленным payload конфликта
func (s *service) Conflicts(ctx context.Context) ([]*models.PendingOperation, error) {
	ops, err := s.ops.GetPendingOperations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending operations: %w", err)
	}

	var conflicted []*models.PendingOperation
	for _, op := range ops {
		if op.Conflict != nil {
			conflicted = append(conflicted, op)
		}
	}

	return conflicted, nil
}

// AttachConflict прикрепляет payload конфликта к операции
func (s *service) AttachConflict(ctx context.Context, id string, conflict *models.SyncConflict) error {
	ops, err := s.ops.GetPendingOperations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending operations: %w", err)
	}

	for _, op := range ops {
		if op.ID != id {
			continue
		}
		op.Conflict = conflict
		if err := s.ops.UpdatePendingOperation(ctx, op); err != nil {
			return fmt.Errorf("failed to attach conflict: %w", err)
		}
		return nil
	}

	return storage.ErrOperationNotFound
}

// Discard удаляет операцию после ручного разрешения
func (s *service) Discard(ctx context.Context, id string) error {
	if err := s.ops.RemovePendingOperation(ctx, id); err != nil {
		return fmt.Errorf("failed to discard operation: %w", err)
	}
	return nil
}

// Requeue сбрасывает терминальный/конфликтный статус операции
func (s *service) Requeue(ctx context.Context, id string) error {
	ops, err := s.ops.GetPendingOperations(ctx)
	if err != nil {
		return fmt.Errorf("failed to get pending operations: %w", err)
	}

	for _, op := range ops {
		if op.ID != id {
			continue
		}
		op.RetryCount = 0
		op.Terminal = false
		op.Conflict = nil
		if err := s.ops.UpdatePendingOperation(ctx, op); err != nil {
			return fmt.Errorf("failed to requeue operation: %w", err)
		}
		return nil
	}

	return storage.ErrOperationNotFound
}

// submit отправляет одну операцию с быстрыми повторами сетевых ошибок.
// Ответы сервера (конфликт, отказ валидации) не ретраятся.
func (s *service) submit(ctx context.Context, op *models.PendingOperation) error {
	modelID, sheetID := models.SplitModelPath(op.ModelPath)

	req := api.CellSyncRequest{
		ModelID:     modelID,
		SheetID:     sheetID,
		CellAddress: op.Address,
		Value:       op.Value,
		Formula:     op.Formula,
		ClientID:    op.ClientID,
		Timestamp:   op.Timestamp,
	}

	backoff := retry.WithMaxRetries(s.cfg.TransientAttempts, retry.NewFibonacci(s.cfg.RetryBase))

	return retry.Do(ctx, backoff, func(ctx context.Context) error {
		_, callErr := s.apiClient.SyncCell(ctx, req)
		if callErr == nil {
			return nil
		}

		var conflictErr *httpClient.ConflictError
		var reqErr *httpClient.RequestError
		if errors.As(callErr, &conflictErr) || errors.As(callErr, &reqErr) {
			return callErr
		}

		// Сетевой сбой или таймаут — пробуем еще раз
		return retry.RetryableError(callErr)
	})
}

// bumpRetry увеличивает retry count и помечает операцию терминальной
// при достижении потолка
func (s *service) bumpRetry(op *models.PendingOperation, result *DrainResult) {
	op.RetryCount++
	if op.RetryCount >= s.cfg.MaxRetries {
		op.Terminal = true
		result.Terminal++
		s.logger.Error("pending operation reached retry ceiling, needs manual resolution",
			"id", op.ID,
			"model_path", op.ModelPath,
			"address", op.Address,
			"retry_count", op.RetryCount)
		return
	}
	result.Failed++
}

// attachConflict прикрепляет payload конфликта к операции
func (s *service) attachConflict(op *models.PendingOperation, serverValue []byte, serverFormula, modifiedBy string, serverTimestamp, serverVersion int64) {
	op.Conflict = &models.SyncConflict{
		DetectedAt:      time.Now(),
		ServerValue:     serverValue,
		ServerFormula:   serverFormula,
		ModifiedBy:      modifiedBy,
		ServerTimestamp: serverTimestamp,
		ServerVersion:   serverVersion,
	}
}
