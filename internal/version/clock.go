// Package version содержит логические часы для ведения локального
// счетчика версий синхронизации (syncVersion из метаданных).
package version

import (
	"sync"

	"github.com/google/uuid"
)

// Clock представляет монотонно возрастающий счетчик версий клиента.
// Каждая попытка синхронизации получает новую версию через Tick;
// подтверждения сервера подтягивают счетчик вперед через Observe,
// чтобы локальная версия никогда не отставала от подтвержденной серверной.
type Clock struct {
	nodeID  string     // уникальный идентификатор этого клиента
	counter int64      // монотонно возрастающий счетчик
	mu      sync.Mutex // мьютекс для потокобезопасности
}

// NewClock создает часы с новым идентификатором узла (UUID)
func NewClock() *Clock {
	return NewClockWithNodeID(uuid.New().String())
}

// NewClockWithNodeID создает часы с заданным идентификатором узла.
// Используется при восстановлении состояния после перезапуска.
func NewClockWithNodeID(nodeID string) *Clock {
	return &Clock{nodeID: nodeID}
}

// Tick увеличивает счетчик и возвращает новое значение версии.
// Вызывается при каждой попытке синхронизации.
func (c *Clock) Tick() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter++
	return c.counter
}

// Observe обновляет счетчик по версии, подтвержденной сервером:
// counter = max(counter, serverVersion). Возвращает текущее значение.
func (c *Clock) Observe(serverVersion int64) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	if serverVersion > c.counter {
		c.counter = serverVersion
	}
	return c.counter
}

// Current возвращает текущее значение счетчика без изменения
func (c *Clock) Current() int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.counter
}

// Restore устанавливает счетчик в сохраненное ранее значение
func (c *Clock) Restore(counter int64) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.counter = counter
}

// NodeID возвращает идентификатор узла
func (c *Clock) NodeID() string {
	return c.nodeID
}
