package models

import (
	"encoding/json"
	"time"
)

// DefaultCacheTTL применяется, когда вызывающая сторона не указала TTL
const DefaultCacheTTL = 5 * time.Minute

// CacheKey строит ключ кэша из пути модели и удаленной ссылки
func CacheKey(modelPath, reference string) string {
	return modelPath + ":" + reference
}

// CachedValue представляет закэшированное значение удаленной ячейки.
// Запись валидна только пока now < ExpiresAt; проверка выполняется
// при каждом чтении, а не только при периодической уборке.
type CachedValue struct {
	Key       string          `json:"key"` // ModelPath + ":" + Reference
	ModelPath string          `json:"model_path"`
	Reference string          `json:"reference"`
	Value     json.RawMessage `json:"value"`
	Timestamp int64           `json:"timestamp"`  // unix milli момента кэширования
	ExpiresAt int64           `json:"expires_at"` // unix milli истечения
	Version   int64           `json:"version,omitempty"`
}

// Expired сообщает, истекла ли запись на момент now
func (c *CachedValue) Expired(now time.Time) bool {
	return now.UnixMilli() >= c.ExpiresAt
}
