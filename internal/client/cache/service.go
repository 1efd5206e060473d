// Package cache реализует time-boxed read-through кэш удаленных значений:
// горячий in-memory слой поверх durable-таблицы локального хранилища.
// Кэш — best effort: ошибки durable-слоя логируются и не прерывают чтение.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/client/storage"
	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/internal/models"
)

// Service обслуживает чтения без round trip и безопасно сбрасывает устаревшее
type Service struct {
	store      storage.CacheStorage
	hot        *gocache.Cache
	logger     *slog.Logger
	defaultTTL time.Duration
}

// NewService creates a new cache service.
// defaultTTL применяется, когда вызывающая сторона передала ttl <= 0;
// ноль берет models.DefaultCacheTTL.
func NewService(store storage.CacheStorage, defaultTTL time.Duration, logger *slog.Logger) *Service {
	if defaultTTL <= 0 {
		defaultTTL = models.DefaultCacheTTL
	}
	return &Service{
		store:      store,
		hot:        gocache.New(defaultTTL, 2*defaultTTL),
		logger:     logger,
		defaultTTL: defaultTTL,
	}
}

// DefaultTTL возвращает действующий TTL по умолчанию
func (s *Service) DefaultTTL() time.Duration {
	return s.defaultTTL
}

// Put кэширует значение в обоих слоях.
// Сбой durable-слоя не фатален: горячий слой уже обслужит чтения,
// потеряется только персистентность между перезапусками.
func (s *Service) Put(ctx context.Context, modelPath, reference string, value json.RawMessage, version int64, ttl time.Duration) error {
	if ttl <= 0 {
		ttl = s.defaultTTL
	}

	now := time.Now()
	cached := &models.CachedValue{
		Key:       models.CacheKey(modelPath, reference),
		ModelPath: modelPath,
		Reference: reference,
		Value:     value,
		Timestamp: now.UnixMilli(),
		ExpiresAt: now.Add(ttl).UnixMilli(),
		Version:   version,
	}

	s.hot.Set(cached.Key, cached, ttl)

	if err := s.store.CacheValue(ctx, cached); err != nil {
		s.logger.Warn("failed to persist cached value",
			"key", cached.Key,
			"error", err)
	}

	return nil
}

// Get возвращает неистекшее значение из горячего или durable-слоя.
// Возвращает storage.ErrCacheMiss при отсутствии или истечении.
func (s *Service) Get(ctx context.Context, modelPath, reference string) (*models.CachedValue, error) {
	key := models.CacheKey(modelPath, reference)

	// Горячий слой сам отбрасывает истекшие записи
	if v, ok := s.hot.Get(key); ok {
		cached := v.(*models.CachedValue)
		// Перестраховка на случай рассинхронизации TTL слоев
		if !cached.Expired(time.Now()) {
			return cached, nil
		}
		s.hot.Delete(key)
	}

	cached, err := s.store.GetCachedValue(ctx, modelPath, reference)
	if err != nil {
		if errors.Is(err, storage.ErrCacheMiss) {
			return nil, storage.ErrCacheMiss
		}
		// Durable-слой недоступен — для вызывающей стороны это miss
		s.logger.Warn("durable cache read failed, treating as miss",
			"key", key,
			"error", err)
		return nil, storage.ErrCacheMiss
	}

	// Прогреваем горячий слой на остаток TTL
	if remaining := time.Until(time.UnixMilli(cached.ExpiresAt)); remaining > 0 {
		s.hot.Set(key, cached, remaining)
	}

	return cached, nil
}

// Invalidate удаляет один ключ из обоих слоев.
// Используется при входящих live-обновлениях, вытесняющих кэш.
func (s *Service) Invalidate(ctx context.Context, modelPath, reference string) {
	key := models.CacheKey(modelPath, reference)
	s.hot.Delete(key)

	if err := s.store.RemoveCachedValue(ctx, modelPath, reference); err != nil {
		s.logger.Warn("failed to invalidate cached value", "key", key, "error", err)
	}
}

// ClearExpired выполняет уборку истекших записей в обоих слоях.
// Корректность чтений от частоты уборки не зависит: истечение
// проверяется при каждом чтении.
func (s *Service) ClearExpired(ctx context.Context) (int, error) {
	s.hot.DeleteExpired()

	removed, err := s.store.ClearExpiredCache(ctx)
	if err != nil {
		return 0, err
	}

	if removed > 0 {
		s.logger.Debug("cleared expired cache entries", "removed", removed)
	}

	return removed, nil
}

// ClearAll сбрасывает кэш целиком
func (s *Service) ClearAll(ctx context.Context) error {
	s.hot.Flush()
	return s.store.ClearAllCache(ctx)
}
