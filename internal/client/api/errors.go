package api

import (
	"fmt"

	"github.com/sreejagatab/Financial-Modeling-Platform-sub000/pkg/api"
)

// ConflictError сигнализирует, что состояние сервера разошлось с локально
// поставленной в очередь записью. Несет актуальное состояние сервера;
// разрешение конфликта — решение вызывающей стороны, ядро не применяет
// last-write-wins автоматически.
type ConflictError struct {
	Conflict api.CellConflict
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("sync conflict at %s: server version %d (modified by %s)",
		e.Conflict.CellAddress, e.Conflict.ServerVersion, e.Conflict.ModifiedBy)
}

// RequestError сигнализирует об отказе сервера по причине, отличной от
// конфликта (валидация, авторизация и т.п.)
type RequestError struct {
	Message    string
	StatusCode int
}

func (e *RequestError) Error() string {
	return fmt.Sprintf("server error (%d): %s", e.StatusCode, e.Message)
}
