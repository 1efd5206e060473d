package models

// SyncMetadata представляет состояние синхронизации одного scope
// (обычно одной модели). SyncVersion — локальный монотонный счетчик,
// ServerVersion — последняя версия, подтвержденная сервером.
type SyncMetadata struct {
	Key               string `json:"key"` // scope, обычно ModelPath
	LastSyncTimestamp int64  `json:"last_sync_timestamp"`
	SyncVersion       int64  `json:"sync_version"`
	ServerVersion     int64  `json:"server_version"`
}

// InConflict сообщает о расхождении локальной и серверной версий
// после попытки синхронизации — это сигнал конфликта для вызывающей стороны.
func (m *SyncMetadata) InConflict() bool {
	return m.SyncVersion != m.ServerVersion
}
