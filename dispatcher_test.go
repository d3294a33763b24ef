package inappmsg

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDispatcherRunsTasksInOrder(t *testing.T) {
	d := newDispatcher()

	var mu sync.Mutex
	var order []int
	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		n := i
		wg.Add(1)
		d.Do(func() {
			mu.Lock()
			order = append(order, n)
			mu.Unlock()
			wg.Done()
		})
	}
	wg.Wait()
	d.Close()

	assert.Equal(t, []int{0, 1, 2, 3, 4, 5, 6, 7, 8, 9}, order)
}

func TestDispatcherCloseDrainsSubmitted(t *testing.T) {
	d := newDispatcher()

	var mu sync.Mutex
	ran := 0
	for i := 0; i < 5; i++ {
		d.Do(func() {
			mu.Lock()
			ran++
			mu.Unlock()
		})
	}
	d.Close()

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, 5, ran)
}

func TestDispatcherDropsAfterClose(t *testing.T) {
	d := newDispatcher()
	d.Close()

	// Must not block or panic.
	d.Do(func() { t.Error("task ran after close") })
}
