package models

import "time"

// Известные ключи настроек, используемые ядром
const (
	PreferenceClientID = "client_id" // стабильный идентификатор этого клиента
	PreferenceUserName = "user_name" // имя для presence-объявления
	PreferenceCacheTTL = "cache_ttl" // TTL кэша по умолчанию (duration строкой)
)

// UserPreference представляет настройку пользователя.
// Не участвует в синхронизации, хранится в том же движке для удобства.
type UserPreference struct {
	UpdatedAt time.Time `json:"updated_at"`
	Key       string    `json:"key"`
	Value     string    `json:"value"`
}
