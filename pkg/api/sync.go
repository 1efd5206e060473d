package api

import (
	"encoding/json"
	"time"
)

// Статусы результата синхронизации одной ячейки
const (
	SyncStatusSynced   = "synced"   // запись принята сервером
	SyncStatusConflict = "conflict" // состояние сервера разошлось с клиентом
	SyncStatusFailed   = "failed"   // запись отклонена по иной причине
)

// CellSyncRequest представляет запрос на синхронизацию одной ячейки
type CellSyncRequest struct {
	ModelID     string          `json:"model_id"`          // идентификатор модели
	SheetID     string          `json:"sheet_id"`          // идентификатор листа
	CellAddress string          `json:"cell_address"`      // адрес ячейки (например "B5")
	Formula     string          `json:"formula,omitempty"` // формула ячейки, если есть
	ClientID    string          `json:"client_id"`         // идентификатор клиента-отправителя
	Value       json.RawMessage `json:"value"`             // значение ячейки (JSON)
	Timestamp   int64           `json:"timestamp"`         // время локальной записи (unix milli)
}

// CellSyncResponse представляет ответ сервера на синхронизацию одной ячейки
type CellSyncResponse struct {
	Status          string          `json:"status"`                   // synced | conflict
	ServerFormula   string          `json:"server_formula,omitempty"` // актуальная формула сервера при конфликте
	ModifiedBy      string          `json:"modified_by,omitempty"`    // кто последним менял ячейку на сервере
	ServerValue     json.RawMessage `json:"server_value,omitempty"`   // актуальное значение сервера при конфликте
	ServerTimestamp int64           `json:"server_timestamp"`         // время последней записи на сервере
	ServerVersion   int64           `json:"server_version"`           // версия состояния сервера после операции
}

// CellSyncOperation представляет одну операцию внутри батча.
// Порядок операций в батче задается клиентом и сохраняется сервером.
type CellSyncOperation struct {
	Type        string          `json:"type"` // update | delete | insert
	SheetID     string          `json:"sheet_id"`
	CellAddress string          `json:"cell_address"`
	Formula     string          `json:"formula,omitempty"`
	ClientID    string          `json:"client_id"`
	Value       json.RawMessage `json:"value,omitempty"`
	Timestamp   int64           `json:"timestamp"`
}

// BatchSyncRequest представляет запрос на батчевую синхронизацию
type BatchSyncRequest struct {
	ModelID    string              `json:"model_id"`
	Operations []CellSyncOperation `json:"operations"` // упорядочены по timestamp
}

// CellSyncResult представляет результат одной операции из батча.
// Результаты могут приходить в произвольном порядке: сопоставление
// выполняется по адресу ячейки, а не по позиции в списке.
type CellSyncResult struct {
	SheetID     string `json:"sheet_id"`
	CellAddress string `json:"cell_address"`
	Status      string `json:"status"`            // synced | conflict | failed
	Message     string `json:"message,omitempty"` // причина отказа для failed
}

// CellConflict представляет конфликт, обнаруженный сервером
type CellConflict struct {
	SheetID         string          `json:"sheet_id"`
	CellAddress     string          `json:"cell_address"`
	ServerFormula   string          `json:"server_formula,omitempty"`
	ModifiedBy      string          `json:"modified_by,omitempty"`
	ServerValue     json.RawMessage `json:"server_value,omitempty"`
	ServerTimestamp int64           `json:"server_timestamp"`
	ServerVersion   int64           `json:"server_version"`
}

// BatchSyncResponse представляет ответ сервера на батчевую синхронизацию
type BatchSyncResponse struct {
	Results         []CellSyncResult `json:"results"`
	Conflicts       []CellConflict   `json:"conflicts,omitempty"`
	ServerTimestamp int64            `json:"server_timestamp"`
	ServerVersion   int64            `json:"server_version"`
}

// ValueResponse представляет ответ на чтение значения ячейки
type ValueResponse struct {
	ModifiedAt time.Time       `json:"modified_at"` // время последнего изменения
	DataType   string          `json:"data_type"`   // number | string | boolean | formula
	Formula    string          `json:"formula,omitempty"`
	ModifiedBy string          `json:"modified_by,omitempty"` // provenance последней записи
	Value      json.RawMessage `json:"value"`
	Version    int64           `json:"version"`
}

// SensitivityResponse представляет результат sensitivity-анализа ячейки.
// Содержимое трактуется вызывающей стороной, ядро его не интерпретирует.
type SensitivityResponse struct {
	CellAddress string          `json:"cell_address"`
	Inputs      json.RawMessage `json:"inputs,omitempty"`
	Matrix      json.RawMessage `json:"matrix,omitempty"`
}

// AuditEntry представляет одну запись истории изменений ячейки
type AuditEntry struct {
	ModifiedAt time.Time       `json:"modified_at"`
	UserID     string          `json:"user_id"`
	Action     string          `json:"action"`
	Value      json.RawMessage `json:"value,omitempty"`
	Version    int64           `json:"version"`
}

// AuditTrailResponse представляет историю изменений ячейки
type AuditTrailResponse struct {
	CellAddress string       `json:"cell_address"`
	Entries     []AuditEntry `json:"entries"`
}

// Comment представляет комментарий к ячейке
type Comment struct {
	CreatedAt time.Time `json:"created_at"`
	ID        string    `json:"id"`
	UserID    string    `json:"user_id"`
	Text      string    `json:"text"`
}

// CommentsResponse представляет список комментариев ячейки
type CommentsResponse struct {
	CellAddress string    `json:"cell_address"`
	Comments    []Comment `json:"comments"`
}

// ErrorResponse представляет ответ сервера с ошибкой
type ErrorResponse struct {
	Error   string `json:"error"`             // описание ошибки
	Message string `json:"message,omitempty"` // дополнительное сообщение
}
