package version

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestClock_Tick(t *testing.T) {
	clock := NewClock()

	assert.Equal(t, int64(1), clock.Tick())
	assert.Equal(t, int64(2), clock.Tick())
	assert.Equal(t, int64(2), clock.Current())
}

// Observe подтягивает счетчик к серверной версии, но никогда не откатывает
func TestClock_Observe(t *testing.T) {
	clock := NewClock()
	clock.Tick()

	assert.Equal(t, int64(10), clock.Observe(10))
	assert.Equal(t, int64(10), clock.Observe(3))
	assert.Equal(t, int64(11), clock.Tick())
}

func TestClock_Restore(t *testing.T) {
	clock := NewClockWithNodeID("client-1")
	clock.Restore(42)

	assert.Equal(t, int64(42), clock.Current())
	assert.Equal(t, int64(43), clock.Tick())
	assert.Equal(t, "client-1", clock.NodeID())
}

// Конкурентные Tick не теряют значения
func TestClock_ConcurrentTick(t *testing.T) {
	clock := NewClock()

	var wg sync.WaitGroup
	for i := 0; i < 100; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			clock.Tick()
		}()
	}
	wg.Wait()

	assert.Equal(t, int64(100), clock.Current())
}
