package api

import "encoding/json"

// Типы сообщений live-транспорта
const (
	MessageTypePresence   = "presence"    // объявление/обновление присутствия
	MessageTypeCellUpdate = "cell_update" // батч изменений ячеек от сервера
	MessageTypeError      = "error"       // ошибка, отправленная сервером
)

// Статусы присутствия
const (
	PresenceOnline  = "online"
	PresenceAway    = "away"
	PresenceOffline = "offline"
)

// Message представляет конверт сообщения live-транспорта.
// Payload декодируется по значению Type.
type Message struct {
	Type      string          `json:"type"`
	UserID    string          `json:"user_id,omitempty"`
	Payload   json.RawMessage `json:"payload"`
	Timestamp int64           `json:"timestamp"` // unix milli
}

// PresenceAnnouncement представляет объявление присутствия клиента.
// Отправляется сразу после установки соединения, до любого другого трафика.
type PresenceAnnouncement struct {
	UserID   string `json:"user_id"`
	UserName string `json:"user_name"`
	Status   string `json:"status"`
}

// CellValueUpdate представляет изменение одной ячейки во входящем батче
type CellValueUpdate struct {
	Reference  string          `json:"reference"` // адрес ячейки на сервере
	Formula    string          `json:"formula,omitempty"`
	ModifiedBy string          `json:"modified_by,omitempty"`
	Value      json.RawMessage `json:"value"`
	Version    int64           `json:"version"`
}

// CellUpdate представляет батч изменений ячеек одной модели
type CellUpdate struct {
	ModelPath string            `json:"model_path"` // "modelID/sheetID"
	Updates   []CellValueUpdate `json:"updates"`
}

// ErrorPayload представляет ошибку, присланную сервером по live-транспорту
type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
