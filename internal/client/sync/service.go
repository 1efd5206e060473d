// Package sync — оркестратор ядра синхронизации. Связывает очередь
// офлайн-операций, кэш, реестр связанных ячеек и live-транспорт в единый
// фасад: запись уходит на сервер или в очередь в зависимости от состояния
// соединения, чтение обслуживается сквозным кэшем, переподключение
// запускает drain и ресинхронизацию связей.
package sync

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	httpapi "github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/api"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/cache"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/links"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/queue"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/transport"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/version"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/pkg/api"
)

// Источники значения, возвращаемого чтением
const (
	SourceCache  = "cache"  // значение из локального кэша
	SourceServer = "server" // свежее значение с сервера
)

// SetResult описывает исход локальной записи
type SetResult struct {
	Conflict      *models.SyncConflict // заполнен, если сервер сообщил конфликт
	OperationID   string               // id записи в очереди, если запись отложена
	Queued        bool                 // запись поставлена в очередь, а не подтверждена
	ServerVersion int64                // версия сервера после подтвержденной записи
}

// GetResult описывает значение ячейки и его происхождение
type GetResult struct {
	Source     string // cache | server
	Formula    string
	ModifiedBy string
	Value      json.RawMessage
	Version    int64
	Timestamp  int64 // unix milli
}

// Status — сводное состояние ядра для отображения пользователю
type Status struct {
	Transport string                     // состояние live-соединения
	Presence  []api.PresenceAnnouncement // кто сейчас в сессии
	Pending   int                        // операций в очереди
	Conflicts int                        // из них с конфликтом
	Links     int                        // зарегистрированных связей
}

// Transport — срез live-транспорта, нужный оркестратору
type Transport interface {
	State() transport.State
	Presence() []api.PresenceAnnouncement
	Subscribe(msgType string, handler transport.Handler) func()
	OnStateChange(handler func(transport.State)) func()
}

// Service — фасад ядра синхронизации
type Service struct {
	queue     queue.Service
	cache     *cache.Service
	links     *links.Service
	transport Transport
	apiClient httpapi.ClientAPI
	meta      storage.MetadataStorage
	clock     *version.Clock
	logger    *slog.Logger
	clientID  string

	unsubUpdate func()
	unsubState  func()
}

// NewService creates the sync orchestrator over the assembled services
func NewService(
	q queue.Service,
	c *cache.Service,
	l *links.Service,
	t Transport,
	apiClient httpapi.ClientAPI,
	meta storage.MetadataStorage,
	clock *version.Clock,
	clientID string,
	logger *slog.Logger,
) *Service {
	return &Service{
		queue:     q,
		cache:     c,
		links:     l,
		transport: t,
		apiClient: apiClient,
		meta:      meta,
		clock:     clock,
		logger:    logger,
		clientID:  clientID,
	}
}

// Start подписывает оркестратор на события live-транспорта:
// входящие обновления ячеек и переходы состояния соединения.
func (s *Service) Start() {
	if s.transport == nil {
		return
	}

	s.unsubUpdate = s.transport.Subscribe(api.MessageTypeCellUpdate, s.handleCellUpdate)
	s.unsubState = s.transport.OnStateChange(func(state transport.State) {
		if state != transport.StateOpen {
			return
		}
		// Переподключение: дослать очередь и освежить связи
		ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
		defer cancel()
		if err := s.OnReconnect(ctx); err != nil {
			s.logger.Warn("reconnect resync failed", "error", err)
		}
	})
}

// Stop снимает подписки оркестратора
func (s *Service) Stop() {
	if s.unsubUpdate != nil {
		s.unsubUpdate()
		s.unsubUpdate = nil
	}
	if s.unsubState != nil {
		s.unsubState()
		s.unsubState = nil
	}
}

// online сообщает, открыт ли live-транспорт
func (s *Service) online() bool {
	return s.transport != nil && s.transport.State() == transport.StateOpen
}

// SetCell выполняет локальную запись ячейки. Онлайн — отправляет сразу;
// офлайн или при сетевом сбое — ставит в очередь. Конфликт сервера
// сохраняется вместе с отложенной операцией и ждет ручного разрешения,
// автоматического merge нет.
func (s *Service) SetCell(ctx context.Context, intent models.MutationIntent) (*SetResult, error) {
	if intent.Type == "" {
		intent.Type = models.OperationUpdate
	}
	if !intent.Type.Valid() {
		return nil, fmt.Errorf("unknown operation type %q", intent.Type)
	}

	if !s.online() {
		op, err := s.queue.Enqueue(ctx, intent)
		if err != nil {
			return nil, fmt.Errorf("failed to queue mutation: %w", err)
		}
		return &SetResult{Queued: true, OperationID: op.ID}, nil
	}

	modelID, sheetID := models.SplitModelPath(intent.ModelPath)
	resp, err := s.apiClient.SyncCell(ctx, api.CellSyncRequest{
		ModelID:     modelID,
		SheetID:     sheetID,
		CellAddress: intent.Address,
		Value:       intent.Value,
		Formula:     intent.Formula,
		ClientID:    s.clientID,
		Timestamp:   time.Now().UnixMilli(),
	})

	switch {
	case err == nil:
		s.clock.Observe(resp.ServerVersion)
		s.recordSync(ctx, intent.ModelPath, resp.ServerVersion)

		if err := s.cache.Put(ctx, intent.ModelPath, intent.Address, intent.Value, resp.ServerVersion, 0); err != nil {
			s.logger.Warn("failed to cache confirmed value", "address", intent.Address, "error", err)
		}

		return &SetResult{ServerVersion: resp.ServerVersion}, nil

	default:
		var conflictErr *httpapi.ConflictError
		if errors.As(err, &conflictErr) {
			// Конфликт: локальная запись уходит в очередь с payload сервера
			op, qErr := s.queue.Enqueue(ctx, intent)
			if qErr != nil {
				return nil, fmt.Errorf("failed to queue conflicted mutation: %w", qErr)
			}

			conflict := conflictToModel(conflictErr.Conflict)
			if uErr := s.queue.AttachConflict(ctx, op.ID, conflict); uErr != nil {
				return nil, fmt.Errorf("failed to persist conflict: %w", uErr)
			}

			s.clock.Observe(conflictErr.Conflict.ServerVersion)
			s.clock.Tick()
			s.recordSync(ctx, intent.ModelPath, conflictErr.Conflict.ServerVersion)

			return &SetResult{Queued: true, OperationID: op.ID, Conflict: conflict}, nil
		}

		// Сетевой сбой при открытом соединении: запись не теряется
		s.logger.Warn("direct sync failed, queueing mutation",
			"address", intent.Address, "error", err)

		op, qErr := s.queue.Enqueue(ctx, intent)
		if qErr != nil {
			return nil, fmt.Errorf("failed to queue mutation after sync failure: %w", qErr)
		}
		return &SetResult{Queued: true, OperationID: op.ID}, nil
	}
}

// GetCell читает значение ячейки через сквозной кэш.
// forceRefresh обходит кэш и всегда идет на сервер.
// Офлайн при пустом кэше — ошибка: устаревших значений ядро не выдумывает.
func (s *Service) GetCell(ctx context.Context, modelPath, reference string, forceRefresh bool) (*GetResult, error) {
	if !forceRefresh {
		cached, err := s.cache.Get(ctx, modelPath, reference)
		if err == nil {
			return &GetResult{
				Source:    SourceCache,
				Value:     cached.Value,
				Version:   cached.Version,
				Timestamp: cached.Timestamp,
			}, nil
		}
		if !errors.Is(err, storage.ErrCacheMiss) {
			return nil, err
		}
	}

	modelID, sheetID := models.SplitModelPath(modelPath)
	resp, err := s.apiClient.GetValue(ctx, modelID, sheetID, reference)
	if err != nil {
		return nil, fmt.Errorf("failed to read cell from server: %w", err)
	}

	if err := s.cache.Put(ctx, modelPath, reference, resp.Value, resp.Version, 0); err != nil {
		s.logger.Warn("failed to cache fetched value", "reference", reference, "error", err)
	}

	// Связанная pull-сторона получает свежее значение вместе с чтением
	if link, lErr := s.links.FindByRemote(ctx, modelPath, reference); lErr == nil && link.SyncDirection.Pulls() {
		if mErr := s.links.MarkSynced(ctx, link.LocalAddress, resp.Value, time.Now()); mErr != nil {
			s.logger.Warn("failed to refresh link from read", "local_address", link.LocalAddress, "error", mErr)
		}
	}

	return &GetResult{
		Source:     SourceServer,
		Value:      resp.Value,
		Formula:    resp.Formula,
		ModifiedBy: resp.ModifiedBy,
		Version:    resp.Version,
		Timestamp:  resp.ModifiedAt.UnixMilli(),
	}, nil
}

// Drain вручную воспроизводит очередь офлайн-операций
func (s *Service) Drain(ctx context.Context) (*queue.DrainResult, error) {
	return s.queue.DrainBatch(ctx)
}

// OnReconnect выполняет ресинхронизацию после восстановления соединения:
// досылает push-стороны связей, воспроизводит очередь, перечитывает
// pull-стороны и убирает истекший кэш.
func (s *Service) OnReconnect(ctx context.Context) error {
	plan, err := s.links.Plan(ctx, "")
	if err != nil {
		return fmt.Errorf("failed to plan link refresh: %w", err)
	}

	// Push-стороны: последнее локальное значение встает в очередь
	// и уходит общим drain, coalescing не даст дублей
	for _, link := range plan.Pushes {
		if link.LastValue == nil {
			continue
		}
		_, err := s.queue.Enqueue(ctx, models.MutationIntent{
			Type:      models.OperationUpdate,
			ModelPath: link.ModelPath,
			Address:   link.LocalAddress,
			Value:     link.LastValue,
		})
		if err != nil {
			s.logger.Warn("failed to queue push link", "local_address", link.LocalAddress, "error", err)
		}
	}

	result, err := s.queue.DrainBatch(ctx)
	if err != nil {
		return fmt.Errorf("failed to drain queue: %w", err)
	}

	// Pull-стороны: перечитываем с сервера и обновляем кэш и связь
	now := time.Now()
	for _, link := range plan.Pulls {
		modelID, sheetID := models.SplitModelPath(link.ModelPath)
		resp, err := s.apiClient.GetValue(ctx, modelID, sheetID, link.RemoteReference)
		if err != nil {
			s.logger.Warn("failed to refresh pull link",
				"local_address", link.LocalAddress,
				"remote_reference", link.RemoteReference,
				"error", err)
			continue
		}

		if err := s.cache.Put(ctx, link.ModelPath, link.RemoteReference, resp.Value, resp.Version, 0); err != nil {
			s.logger.Warn("failed to cache pulled value", "reference", link.RemoteReference, "error", err)
		}
		if err := s.links.MarkSynced(ctx, link.LocalAddress, resp.Value, now); err != nil {
			s.logger.Warn("failed to mark link synced", "local_address", link.LocalAddress, "error", err)
		}
	}

	if _, err := s.cache.ClearExpired(ctx); err != nil {
		s.logger.Warn("failed to sweep expired cache", "error", err)
	}

	s.logger.Info("reconnect resync completed",
		"synced", result.Synced,
		"conflicts", result.Conflicts,
		"failed", result.Failed,
		"pulled", len(plan.Pulls),
		"pushed", len(plan.Pushes))

	return nil
}

// PendingCount возвращает количество операций в очереди
func (s *Service) PendingCount(ctx context.Context) (int, error) {
	return s.queue.PendingCount(ctx)
}

// Conflicts возвращает операции, ожидающие ручного разрешения конфликта
func (s *Service) Conflicts(ctx context.Context) ([]*models.PendingOperation, error) {
	return s.queue.Conflicts(ctx)
}

// Discard удаляет операцию из очереди (разрешение конфликта в пользу сервера)
func (s *Service) Discard(ctx context.Context, id string) error {
	return s.queue.Discard(ctx, id)
}

// Requeue возвращает операцию в очередь (разрешение в пользу локальной записи)
func (s *Service) Requeue(ctx context.Context, id string) error {
	return s.queue.Requeue(ctx, id)
}

// Status собирает сводку состояния ядра
func (s *Service) Status(ctx context.Context) (*Status, error) {
	pending, err := s.queue.PendingCount(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to count pending operations: %w", err)
	}

	conflicts, err := s.queue.Conflicts(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list conflicts: %w", err)
	}

	linked, err := s.links.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list links: %w", err)
	}

	st := &Status{
		Transport: transport.StateDisconnected.String(),
		Pending:   pending,
		Conflicts: len(conflicts),
		Links:     len(linked),
	}
	if s.transport != nil {
		st.Transport = s.transport.State().String()
		st.Presence = s.transport.Presence()
	}

	return st, nil
}

// handleCellUpdate применяет входящий батч изменений: обновляет кэш
// и затрагивает только pull-стороны связей. Связь push-only входящими
// обновлениями не трогается.
func (s *Service) handleCellUpdate(msg api.Message) {
	var update api.CellUpdate
	if err := json.Unmarshal(msg.Payload, &update); err != nil {
		s.logger.Warn("failed to decode cell update", "error", err)
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	now := time.Now()
	for _, u := range update.Updates {
		if err := s.cache.Put(ctx, update.ModelPath, u.Reference, u.Value, u.Version, 0); err != nil {
			s.logger.Warn("failed to cache live update", "reference", u.Reference, "error", err)
		}
		s.clock.Observe(u.Version)

		link, err := s.links.FindByRemote(ctx, update.ModelPath, u.Reference)
		if err != nil {
			if !errors.Is(err, storage.ErrLinkNotFound) {
				s.logger.Warn("failed to look up link for live update", "reference", u.Reference, "error", err)
			}
			continue
		}
		if !link.SyncDirection.Pulls() {
			continue
		}

		if err := s.links.MarkSynced(ctx, link.LocalAddress, u.Value, now); err != nil {
			s.logger.Warn("failed to apply live update to link",
				"local_address", link.LocalAddress, "error", err)
		}
	}
}

// recordSync фиксирует исход попытки синхронизации в метаданных scope.
// После подтверждения часы уже наблюдали серверную версию и значения
// совпадают; после конфликта локальный счетчик уходит вперед через Tick,
// и InConflict у метаданных становится истинным.
func (s *Service) recordSync(ctx context.Context, modelPath string, serverVersion int64) {
	meta := &models.SyncMetadata{
		Key:               modelPath,
		LastSyncTimestamp: time.Now().UnixMilli(),
		SyncVersion:       s.clock.Current(),
		ServerVersion:     serverVersion,
	}

	if err := s.meta.UpdateSyncMetadata(ctx, meta); err != nil {
		s.logger.Warn("failed to record sync metadata", "model_path", modelPath, "error", err)
	}
}

// conflictToModel переводит wire-представление конфликта во внутреннее
func conflictToModel(c api.CellConflict) *models.SyncConflict {
	return &models.SyncConflict{
		DetectedAt:      time.Now(),
		ServerValue:     c.ServerValue,
		ServerFormula:   c.ServerFormula,
		ModifiedBy:      c.ModifiedBy,
		ServerTimestamp: c.ServerTimestamp,
		ServerVersion:   c.ServerVersion,
	}
}
