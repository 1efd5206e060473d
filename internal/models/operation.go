package models

import (
	"encoding/json"
	"time"
)

// OperationType тип локальной мутации ячейки
type OperationType string

// Поддерживаемые типы операций
const (
	OperationUpdate OperationType = "update"
	OperationDelete OperationType = "delete"
	OperationInsert OperationType = "insert"
)

// Valid проверяет, что тип операции известен ядру
func (t OperationType) Valid() bool {
	switch t {
	case OperationUpdate, OperationDelete, OperationInsert:
		return true
	}
	return false
}

// MutationIntent представляет намерение изменить ячейку, поступившее
// от бизнес-логики или UI. Ядро решает: отправить сразу или поставить в очередь.
type MutationIntent struct {
	Type      OperationType   `json:"type"`
	ModelPath string          `json:"model_path"` // "modelID/sheetID"
	Address   string          `json:"address"`    // локальный адрес ячейки
	Formula   string          `json:"formula,omitempty"`
	Value     json.RawMessage `json:"value,omitempty"`
}

// SyncConflict представляет payload конфликта, присланный сервером.
// Прикрепляется к ожидающей операции и разрешается только явным
// действием пользователя, ядро не выполняет автоматический merge.
type SyncConflict struct {
	DetectedAt      time.Time       `json:"detected_at"`
	ServerFormula   string          `json:"server_formula,omitempty"`
	ModifiedBy      string          `json:"modified_by,omitempty"`
	ServerValue     json.RawMessage `json:"server_value,omitempty"`
	ServerTimestamp int64           `json:"server_timestamp"`
	ServerVersion   int64           `json:"server_version"`
}

// PendingOperation представляет локальную мутацию, еще не подтвержденную
// удаленным хранилищем. Инвариант: на пару (ModelPath, Address) существует
// не более одной незавершенной операции — повторная запись по тому же адресу
// замещает существующую (coalescing), а не добавляет вторую.
type PendingOperation struct {
	Conflict   *SyncConflict   `json:"conflict,omitempty"` // payload конфликта, если сервер его сообщил
	ID         string          `json:"id"`                 // ULID, упорядочен по времени создания
	Type       OperationType   `json:"type"`
	ModelPath  string          `json:"model_path"`
	Address    string          `json:"address"`
	Formula    string          `json:"formula,omitempty"`
	ClientID   string          `json:"client_id"`
	Value      json.RawMessage `json:"value,omitempty"`
	Timestamp  int64           `json:"timestamp"` // unix milli момента локальной записи
	RetryCount int             `json:"retry_count"`
	Terminal   bool            `json:"terminal"` // превышен retry ceiling, нужно ручное разрешение
}

// Outstanding сообщает, участвует ли операция в следующем drain.
// Терминальные и конфликтные операции ждут явного действия пользователя.
func (op *PendingOperation) Outstanding() bool {
	return !op.Terminal && op.Conflict == nil
}
