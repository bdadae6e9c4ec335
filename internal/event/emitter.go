// Package event provides typed event emission for session subscribers.
package event

import "sync"

// Emitter delivers events of one type to registered handlers, in
// registration order, on the emitting goroutine.
type Emitter[E any] struct {
	// +checklocks:mu
	handlers []handler[E]
	// +checklocks:mu
	nextID uint64
	mu     sync.RWMutex
}

type handler[E any] struct {
	id uint64
	fn func(E)
}

// OnEvent registers an event handler and returns a function that removes it.
// Handlers are called synchronously when events are emitted.
func (e *Emitter[E]) OnEvent(fn func(E)) (unsubscribe func()) {
	e.mu.Lock()
	defer e.mu.Unlock()

	e.nextID++
	id := e.nextID
	e.handlers = append(e.handlers, handler[E]{id: id, fn: fn})

	var once sync.Once
	return func() {
		once.Do(func() { e.remove(id) })
	}
}

func (e *Emitter[E]) remove(id uint64) {
	e.mu.Lock()
	defer e.mu.Unlock()

	for i, h := range e.handlers {
		if h.id == id {
			e.handlers = append(e.handlers[:i:i], e.handlers[i+1:]...)
			return
		}
	}
}

// Emit sends an event to all registered handlers.
// Handlers are called with a copy of the handler slice, so handlers may
// register or unsubscribe during emission; the change applies to the next
// event. Must not be called with lock held.
func (e *Emitter[E]) Emit(event E) {
	e.mu.RLock()
	handlers := make([]handler[E], len(e.handlers))
	copy(handlers, e.handlers)
	e.mu.RUnlock()

	for _, h := range handlers {
		h.fn(event)
	}
}

// Len returns the number of registered handlers.
func (e *Emitter[E]) Len() int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return len(e.handlers)
}

// Chan adapts a registration function such as Emitter.OnEvent (or a
// session's OnReady) to a buffered channel. Delivery never blocks the
// emitter: when the buffer is full the event is dropped for this channel.
// The returned cancel function unsubscribes and closes the channel.
func Chan[E any](register func(func(E)) func(), buffer int) (<-chan E, func()) {
	ch := make(chan E, buffer)

	var mu sync.Mutex
	closed := false

	unsubscribe := register(func(ev E) {
		mu.Lock()
		defer mu.Unlock()
		if closed {
			return
		}
		select {
		case ch <- ev:
		default:
		}
	})

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			unsubscribe()
			mu.Lock()
			closed = true
			close(ch)
			mu.Unlock()
		})
	}
	return ch, cancel
}
