package models

import (
	"encoding/json"
	"time"
)

// SyncDirection направление синхронизации связанной ячейки
type SyncDirection string

// Поддерживаемые направления
const (
	SyncBidirectional SyncDirection = "bidirectional"
	SyncPull          SyncDirection = "pull"
	SyncPush          SyncDirection = "push"
)

// Valid проверяет, что направление известно ядру
func (d SyncDirection) Valid() bool {
	switch d {
	case SyncBidirectional, SyncPull, SyncPush:
		return true
	}
	return false
}

// Pulls сообщает, обновляется ли связь входящими данными сервера
func (d SyncDirection) Pulls() bool {
	return d == SyncBidirectional || d == SyncPull
}

// Pushes сообщает, отправляются ли локальные изменения связи на сервер
func (d SyncDirection) Pushes() bool {
	return d == SyncBidirectional || d == SyncPush
}

// LinkedCell представляет привязку локального адреса к удаленной ссылке.
// LocalAddress уникален: повторный upsert по тому же адресу обновляет
// существующую запись, сохраняя ее идентификатор.
type LinkedCell struct {
	LastSyncedAt    time.Time       `json:"last_synced_at"`
	ID              string          `json:"id"` // UUID, назначается при первом создании
	LocalAddress    string          `json:"local_address"`
	ModelPath       string          `json:"model_path"` // "modelID/sheetID"
	RemoteReference string          `json:"remote_reference"`
	LastValue       json.RawMessage `json:"last_value,omitempty"`
	SyncDirection   SyncDirection   `json:"sync_direction"`
}
