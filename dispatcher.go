package inappmsg

import "sync"

// dispatcher serializes gateway calls onto a single goroutine, modelling the
// host's interaction (UI) execution context. Tasks run in submission order.
// Do never blocks; the engine may submit while holding its queue lock, and
// the dispatcher goroutine may re-enter the engine through gateway callbacks.
type dispatcher struct {
	mu     sync.Mutex
	cond   *sync.Cond
	tasks  []func()
	closed bool
	done   chan struct{}
}

func newDispatcher() *dispatcher {
	d := &dispatcher{
		done: make(chan struct{}),
	}
	d.cond = sync.NewCond(&d.mu)
	go d.run()
	return d
}

func (d *dispatcher) run() {
	for {
		d.mu.Lock()
		for len(d.tasks) == 0 && !d.closed {
			d.cond.Wait()
		}
		if len(d.tasks) == 0 {
			d.mu.Unlock()
			close(d.done)
			return
		}
		task := d.tasks[0]
		d.tasks = d.tasks[1:]
		d.mu.Unlock()

		task()
	}
}

// Do submits a task. Tasks submitted after Close are dropped.
func (d *dispatcher) Do(task func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.closed {
		return
	}
	d.tasks = append(d.tasks, task)
	d.cond.Signal()
}

// Close stops the dispatcher after draining the tasks already submitted.
// Safe to call more than once.
func (d *dispatcher) Close() {
	d.mu.Lock()
	if !d.closed {
		d.closed = true
		d.cond.Signal()
	}
	d.mu.Unlock()

	<-d.done
}
