// Package event provides an ordered fan-out of values to any number of listeners.
package event

import (
	"context"
	"sync"
)

// Emitter delivers every emitted value to each listener in emission order.
// Emit never blocks: every listener owns an unbounded backlog drained by
// its own goroutine. The zero value is ready to use.
type Emitter[T any] struct {
	lock      sync.RWMutex
	listeners map[*listener[T]]struct{}
	closed    bool
}

type listener[T any] struct {
	lock    sync.Mutex
	pending []T
	wake    chan struct{}
	out     chan T
	done    chan struct{}
}

func (l *listener[T]) push(v T) {
	l.lock.Lock()
	l.pending = append(l.pending, v)
	l.lock.Unlock()

	select {
	case l.wake <- struct{}{}:
	default:
	}
}

func (l *listener[T]) pump() {
	defer close(l.out)

	for {
		l.lock.Lock()
		if len(l.pending) == 0 {
			l.lock.Unlock()
			select {
			case <-l.wake:
				continue
			case <-l.done:
				return
			}
		}
		v := l.pending[0]
		var zero T
		l.pending[0] = zero
		l.pending = l.pending[1:]
		l.lock.Unlock()

		select {
		case l.out <- v:
		case <-l.done:
			return
		}
	}
}

// Emit queues v for every current listener.
func (em *Emitter[T]) Emit(v T) {
	em.lock.RLock()
	defer em.lock.RUnlock()

	for l := range em.listeners {
		l.push(v)
	}
}

// Listen registers a listener that lives until ctx is done or the emitter
// is closed. The returned channel is closed afterwards.
func (em *Emitter[T]) Listen(ctx context.Context) <-chan T {
	l := &listener[T]{
		wake: make(chan struct{}, 1),
		out:  make(chan T),
		done: make(chan struct{}),
	}

	em.lock.Lock()
	if em.closed {
		em.lock.Unlock()
		close(l.out)
		return l.out
	}
	if em.listeners == nil {
		em.listeners = make(map[*listener[T]]struct{})
	}
	em.listeners[l] = struct{}{}
	em.lock.Unlock()

	go l.pump()
	go func() {
		select {
		case <-ctx.Done():
			em.unlisten(l)
		case <-l.done:
		}
	}()

	return l.out
}

// Subscribe calls fn for each value until ctx is done. Calls happen on a
// single goroutine in emission order.
func (em *Emitter[T]) Subscribe(ctx context.Context, fn func(T)) {
	ch := em.Listen(ctx)
	go func() {
		for v := range ch {
			fn(v)
		}
	}()
}

// Len returns the number of registered listeners.
func (em *Emitter[T]) Len() int {
	em.lock.RLock()
	defer em.lock.RUnlock()

	return len(em.listeners)
}

// Close detaches every listener. Later Listen calls return closed channels.
func (em *Emitter[T]) Close() {
	em.lock.Lock()
	defer em.lock.Unlock()

	em.closed = true
	for l := range em.listeners {
		delete(em.listeners, l)
		close(l.done)
	}
}

func (em *Emitter[T]) unlisten(l *listener[T]) {
	em.lock.Lock()
	defer em.lock.Unlock()

	if _, ok := em.listeners[l]; !ok {
		return
	}
	delete(em.listeners, l)
	close(l.done)
}
