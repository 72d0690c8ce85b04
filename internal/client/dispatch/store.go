// Package dispatch implements the unidirectional state container features
// are built on. A Store owns one state value and consumes actions from a
// single queue: every action runs through the reducer in arrival order, and
// effects started by a reduction feed their follow-up actions back through
// the same queue. No two reductions for one store ever run concurrently.
package dispatch

import (
	"context"
	"sync"
)

// Effect is asynchronous work started by a reduction: a network call, a
// database write. It reports back by sending follow-up actions.
type Effect[A any] func(ctx context.Context, send func(A))

// Reducer computes the next state for an action and the effects to start.
// Reducers must be pure; all I/O belongs in effects.
type Reducer[S, A any] func(state S, action A) (S, []Effect[A])

// Store runs a reducer over a serialized action queue.
type Store[S, A any] struct {
	reduce Reducer[S, A]

	actions chan A
	done    chan struct{}
	closers sync.Once
	wg      sync.WaitGroup

	mu    sync.Mutex
	state S
	subs  map[*Subscription[S]]struct{}
}

// Subscription delivers state snapshots on C. Deliveries coalesce: a slow
// consumer always sees the latest state, not every intermediate one.
type Subscription[S any] struct {
	// C receives the state after each reduction.
	C chan S
}

// NewStore starts a store with the given initial state. The consumer
// goroutine runs until Close.
func NewStore[S, A any](initial S, reduce Reducer[S, A]) *Store[S, A] {
	s := &Store[S, A]{
		reduce:  reduce,
		actions: make(chan A, 64),
		done:    make(chan struct{}),
		state:   initial,
		subs:    make(map[*Subscription[S]]struct{}),
	}
	s.wg.Add(1)
	go s.loop()
	return s
}

// Send enqueues an action. Safe from any goroutine; actions sent after
// Close are dropped.
func (s *Store[S, A]) Send(action A) {
	select {
	case s.actions <- action:
	case <-s.done:
	}
}

// State returns the current state snapshot.
func (s *Store[S, A]) State() S {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Subscribe registers a snapshot listener. The current state is delivered
// immediately.
func (s *Store[S, A]) Subscribe() *Subscription[S] {
	sub := &Subscription[S]{C: make(chan S, 1)}

	s.mu.Lock()
	s.subs[sub] = struct{}{}
	state := s.state
	s.mu.Unlock()

	sub.push(state)
	return sub
}

// Unsubscribe removes the subscription from the store.
func (s *Store[S, A]) Unsubscribe(sub *Subscription[S]) {
	s.mu.Lock()
	delete(s.subs, sub)
	s.mu.Unlock()
}

// Close stops the consumer and waits for running effects to return.
// Follow-up actions those effects send are dropped.
func (s *Store[S, A]) Close() {
	s.closers.Do(func() { close(s.done) })
	s.wg.Wait()
}

func (s *Store[S, A]) loop() {
	defer s.wg.Done()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	for {
		select {
		case <-s.done:
			return
		case action := <-s.actions:
			s.apply(ctx, action)
		}
	}
}

// apply runs one reduction and starts its effects. Only the consumer
// goroutine calls this, so reductions never overlap.
func (s *Store[S, A]) apply(ctx context.Context, action A) {
	s.mu.Lock()
	next, effects := s.reduce(s.state, action)
	s.state = next
	subs := make([]*Subscription[S], 0, len(s.subs))
	for sub := range s.subs {
		subs = append(subs, sub)
	}
	s.mu.Unlock()

	for _, sub := range subs {
		sub.push(next)
	}

	for _, effect := range effects {
		if effect == nil {
			continue
		}
		s.wg.Add(1)
		go func(effect Effect[A]) {
			defer s.wg.Done()
			effect(ctx, s.Send)
		}(effect)
	}
}

// push replaces any undelivered snapshot with the newer one.
func (sub *Subscription[S]) push(state S) {
	for {
		select {
		case sub.C <- state:
			return
		default:
			select {
			case <-sub.C:
			default:
			}
		}
	}
}
