package transport

import "time"

// CancelFunc отменяет запланированный вызов. Повторный вызов безопасен.
type CancelFunc func()

// Scheduler планирует отложенный вызов. Выделен в интерфейс,
// чтобы тесты могли управлять временем переподключения.
type Scheduler interface {
	Schedule(d time.Duration, fn func()) CancelFunc
}

type timerScheduler struct{}

// NewTimerScheduler returns a Scheduler backed by time.AfterFunc
func NewTimerScheduler() Scheduler {
	return timerScheduler{}
}

func (timerScheduler) Schedule(d time.Duration, fn func()) CancelFunc {
	t := time.AfterFunc(d, fn)
	return func() { t.Stop() }
}
