package extract

import "sync"

// Dispatcher funnels completion callbacks onto one designated goroutine so
// callers with thread-affine state (a UI loop, a single-writer cache) see
// every delivery on the same goroutine regardless of which goroutine ran
// the network call.
type Dispatcher struct {
	jobs      chan func()
	closeOnce sync.Once
	done      chan struct{}
}

func NewDispatcher() *Dispatcher {
	d := &Dispatcher{
		jobs: make(chan func(), 16),
		done: make(chan struct{}),
	}
	go d.loop()
	return d
}

func (d *Dispatcher) loop() {
	defer close(d.done)
	for fn := range d.jobs {
		fn()
	}
}

// Dispatch queues fn for execution on the dispatcher goroutine.
func (d *Dispatcher) Dispatch(fn func()) {
	d.jobs <- fn
}

// Close stops the dispatcher after draining queued callbacks.
func (d *Dispatcher) Close() {
	d.closeOnce.Do(func() { close(d.jobs) })
	<-d.done
}

// Deliver consumes a pipeline result and redelivers it through d: exactly
// one of onSuccess or onError fires, exactly once, on the dispatcher
// goroutine.
func Deliver[T any](ch <-chan Result[T], d *Dispatcher, onSuccess func(T), onError func(reason string)) {
	go func() {
		r := <-ch
		d.Dispatch(func() {
			if r.Err != nil {
				onError(r.Err.Error())
				return
			}
			onSuccess(r.Value)
		})
	}()
}
