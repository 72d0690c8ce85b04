// Package livequery provides live-updating read views over the database:
// a change hub that writers notify after each committed transaction, a
// generic watcher that re-runs a query on every relevant change, and the
// pure in-memory detail filters applied to already-fetched lists.
package livequery

import "sync"

// Hub fans table-change notifications out to subscribers. Writers call
// Publish with the tables a committed transaction touched; subscriptions
// matching any of those tables are signalled.
type Hub struct {
	mu   sync.Mutex
	subs map[*Subscription]struct{}
}

// NewHub returns an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*Subscription]struct{})}
}

// Subscription delivers change signals for a set of tables on C. Signals
// coalesce: a slow consumer sees at least one signal for any burst of
// publishes, not necessarily one per publish.
type Subscription struct {
	hub    *Hub
	tables map[string]struct{}

	// C receives a signal after each committed write against a watched table.
	C chan struct{}
}

// Subscribe registers interest in the given tables.
func (h *Hub) Subscribe(tables ...string) *Subscription {
	s := &Subscription{
		hub:    h,
		tables: make(map[string]struct{}, len(tables)),
		C:      make(chan struct{}, 1),
	}
	for _, t := range tables {
		s.tables[t] = struct{}{}
	}

	h.mu.Lock()
	h.subs[s] = struct{}{}
	h.mu.Unlock()
	return s
}

// Cancel removes the subscription. C is not closed; watchers select on a
// context alongside it.
func (s *Subscription) Cancel() {
	s.hub.mu.Lock()
	delete(s.hub.subs, s)
	s.hub.mu.Unlock()
}

// Publish signals every subscription watching any of the given tables.
// The send never blocks; a pending undelivered signal absorbs new ones.
func (h *Hub) Publish(tables ...string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	for s := range h.subs {
		for _, t := range tables {
			if _, ok := s.tables[t]; !ok {
				continue
			}
			select {
			case s.C <- struct{}{}:
			default:
			}
			break
		}
	}
}
