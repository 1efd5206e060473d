// Package links реализует реестр связанных ячеек: какие локальные адреса
// привязаны к каким удаленным ссылкам и в каком направлении, чтобы логика
// переподключения знала, что перечитать и что дослать.
package links

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// RefreshPlan разбивает связи по ролям при переподключении:
// Pulls перечитываются с сервера, Pushes досылаются на сервер.
// Двунаправленные связи попадают в оба списка — и только они
// могут породить конфликт.
type RefreshPlan struct {
	Pulls  []*models.LinkedCell
	Pushes []*models.LinkedCell
}

// Service обслуживает реестр связанных ячеек
type Service struct {
	store  storage.LinkStorage
	logger *slog.Logger
}

// NewService creates a new linked-cell registry service
func NewService(store storage.LinkStorage, logger *slog.Logger) *Service {
	return &Service{store: store, logger: logger}
}

// Link создает или обновляет привязку локального адреса.
// Повторная привязка того же адреса обновляет запись на месте,
// дубликат не создается.
func (s *Service) Link(ctx context.Context, localAddress, modelPath, remoteReference string, direction models.SyncDirection) (*models.LinkedCell, error) {
	if !direction.Valid() {
		return nil, fmt.Errorf("unknown sync direction %q", direction)
	}
	if localAddress == "" {
		return nil, fmt.Errorf("local address must not be empty")
	}

	link := &models.LinkedCell{
		ID:              uuid.New().String(),
		LocalAddress:    localAddress,
		ModelPath:       modelPath,
		RemoteReference: remoteReference,
		SyncDirection:   direction,
	}

	if err := s.store.UpsertLinkedCell(ctx, link); err != nil {
		return nil, fmt.Errorf("failed to upsert linked cell: %w", err)
	}

	s.logger.Debug("linked cell",
		"local_address", localAddress,
		"model_path", modelPath,
		"remote_reference", remoteReference,
		"direction", direction)

	return link, nil
}

// Unlink удаляет привязку. Возвращает storage.ErrLinkNotFound,
// если адрес не привязан.
func (s *Service) Unlink(ctx context.Context, localAddress string) error {
	if err := s.store.RemoveLinkedCell(ctx, localAddress); err != nil {
		return err
	}

	s.logger.Debug("unlinked cell", "local_address", localAddress)
	return nil
}

// Get возвращает привязку локального адреса
func (s *Service) Get(ctx context.Context, localAddress string) (*models.LinkedCell, error) {
	return s.store.GetLinkedCellByAddress(ctx, localAddress)
}

// List возвращает все привязки
func (s *Service) List(ctx context.Context) ([]*models.LinkedCell, error) {
	return s.store.GetAllLinkedCells(ctx)
}

// ListByModel возвращает привязки одной модели
func (s *Service) ListByModel(ctx context.Context, modelPath string) ([]*models.LinkedCell, error) {
	return s.store.GetLinkedCellsByModel(ctx, modelPath)
}

// FindByRemote ищет привязку по удаленной стороне.
// Используется при входящих live-обновлениях.
// Возвращает storage.ErrLinkNotFound, если привязки нет.
func (s *Service) FindByRemote(ctx context.Context, modelPath, remoteReference string) (*models.LinkedCell, error) {
	linked, err := s.store.GetLinkedCellsByModel(ctx, modelPath)
	if err != nil {
		return nil, err
	}

	for _, link := range linked {
		if link.RemoteReference == remoteReference {
			return link, nil
		}
	}

	return nil, storage.ErrLinkNotFound
}

// MarkSynced фиксирует успешную синхронизацию связи
func (s *Service) MarkSynced(ctx context.Context, localAddress string, value json.RawMessage, at time.Time) error {
	link, err := s.store.GetLinkedCellByAddress(ctx, localAddress)
	if err != nil {
		return err
	}

	link.LastValue = value
	link.LastSyncedAt = at

	if err := s.store.UpsertLinkedCell(ctx, link); err != nil {
		return fmt.Errorf("failed to mark link synced: %w", err)
	}

	return nil
}

// Plan строит план ресинхронизации после переподключения.
// modelPath пустой — по всем связям.
func (s *Service) Plan(ctx context.Context, modelPath string) (*RefreshPlan, error) {
	var (
		linked []*models.LinkedCell
		err    error
	)
	if modelPath == "" {
		linked, err = s.store.GetAllLinkedCells(ctx)
	} else {
		linked, err = s.store.GetLinkedCellsByModel(ctx, modelPath)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to list linked cells: %w", err)
	}

	plan := &RefreshPlan{}
	for _, link := range linked {
		if link.SyncDirection.Pulls() {
			plan.Pulls = append(plan.Pulls, link)
		}
		if link.SyncDirection.Pushes() {
			plan.Pushes = append(plan.Pushes, link)
		}
	}

	return plan, nil
}
