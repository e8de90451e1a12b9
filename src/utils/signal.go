package utils

import (
	"sync"
)

// -----------------------------------------------------------------------------
// Signal is an observable value. A new subscriber first receives the current
// value, then every later Set in the order the Sets were issued. Set never
// blocks on a slow subscriber: each subscription has its own unbounded queue.
// -----------------------------------------------------------------------------

type Signal[T any] struct {
	mu     sync.Mutex
	value  T
	subs   map[*Subscription[T]]struct{}
	closed bool
}

// -----------------------------------------------------------------------------

func NewSignal[T any](initial T) *Signal[T] {
	return &Signal[T]{
		value: initial,
		subs:  make(map[*Subscription[T]]struct{}),
	}
}

// -----------------------------------------------------------------------------

// Get returns the current value.
func (s *Signal[T]) Get() T {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.value
}

// -----------------------------------------------------------------------------

// Set stores v and queues it for every subscriber.
func (s *Signal[T]) Set(v T) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = v
	for sub := range s.subs {
		sub.push(v)
	}
}

// -----------------------------------------------------------------------------

// Update applies fn to the current value under the signal lock and publishes the result.
func (s *Signal[T]) Update(fn func(T) T) T {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.value = fn(s.value)
	for sub := range s.subs {
		sub.push(s.value)
	}
	return s.value
}

// -----------------------------------------------------------------------------

// Subscribe registers a subscriber. The current value is delivered first.
func (s *Signal[T]) Subscribe() *Subscription[T] {
	sub := &Subscription[T]{
		out:    make(chan T),
		wake:   make(chan struct{}, 1),
		done:   make(chan struct{}),
		signal: s,
	}

	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		close(sub.out)
		return sub
	}
	sub.push(s.value)
	s.subs[sub] = struct{}{}
	s.mu.Unlock()

	go sub.pump()
	return sub
}

// -----------------------------------------------------------------------------

// SubscriberCount returns the number of live subscriptions.
func (s *Signal[T]) SubscriberCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.subs)
}

// -----------------------------------------------------------------------------

// Close ends every subscription. Later Sets only update the stored value.
func (s *Signal[T]) Close() {
	s.mu.Lock()
	subs := s.subs
	s.subs = make(map[*Subscription[T]]struct{})
	s.closed = true
	s.mu.Unlock()

	for sub := range subs {
		sub.stop()
	}
}

func (s *Signal[T]) remove(sub *Subscription[T]) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}

// -----------------------------------------------------------------------------
// Subscription
// -----------------------------------------------------------------------------

type Subscription[T any] struct {
	out    chan T
	wake   chan struct{}
	done   chan struct{}
	signal *Signal[T]

	mu      sync.Mutex
	queue   []T
	stopped bool
}

// C delivers values in order. It is closed after Close.
func (sub *Subscription[T]) C() <-chan T {
	return sub.out
}

// Close unregisters the subscription. Undelivered values are dropped.
func (sub *Subscription[T]) Close() {
	sub.signal.remove(sub)
	sub.stop()
}

func (sub *Subscription[T]) push(v T) {
	sub.mu.Lock()
	if sub.stopped {
		sub.mu.Unlock()
		return
	}
	sub.queue = append(sub.queue, v)
	sub.mu.Unlock()

	select {
	case sub.wake <- struct{}{}:
	default:
	}
}

func (sub *Subscription[T]) stop() {
	sub.mu.Lock()
	defer sub.mu.Unlock()
	if sub.stopped {
		return
	}
	sub.stopped = true
	sub.queue = nil
	close(sub.done)
}

func (sub *Subscription[T]) pump() {
	defer close(sub.out)
	for {
		sub.mu.Lock()
		if len(sub.queue) == 0 {
			sub.mu.Unlock()
			select {
			case <-sub.wake:
				continue
			case <-sub.done:
				return
			}
		}
		next := sub.queue[0]
		sub.queue = sub.queue[1:]
		sub.mu.Unlock()

		select {
		case sub.out <- next:
		case <-sub.done:
			return
		}
	}
}
