// Package realtime fans out table change events to subscribers.
package realtime

import (
	"sync"

	"github.com/timmy/learnx/internal/domain"
	"github.com/timmy/learnx/internal/logger"
)

const defaultBufferSize = 64

// Hub is an in-process pub/sub for table change events.
type Hub struct {
	mu         sync.RWMutex
	subs       map[string]map[*Subscription]struct{}
	bufferSize int
	closed     bool
}

// Subscription receives events for one table until Close is called.
type Subscription struct {
	table string
	ch    chan domain.ChangeEvent
	hub   *Hub
	once  sync.Once
}

// NewHub creates a hub whose subscribers buffer up to bufferSize events.
func NewHub(bufferSize int) *Hub {
	if bufferSize <= 0 {
		bufferSize = defaultBufferSize
	}
	return &Hub{
		subs:       make(map[string]map[*Subscription]struct{}),
		bufferSize: bufferSize,
	}
}

// Subscribe registers a listener for changes on table.
// The returned subscription's channel is closed by Close or by Hub.Close.
func (h *Hub) Subscribe(table string) *Subscription {
	sub := &Subscription{
		table: table,
		ch:    make(chan domain.ChangeEvent, h.bufferSize),
		hub:   h,
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		sub.once.Do(func() { close(sub.ch) })
		return sub
	}
	if h.subs[table] == nil {
		h.subs[table] = make(map[*Subscription]struct{})
	}
	h.subs[table][sub] = struct{}{}
	return sub
}

// Publish delivers event to every subscriber of event.Table without blocking.
// A subscriber with a full buffer loses its oldest pending event instead, so
// the latest change always reaches it.
func (h *Hub) Publish(event domain.ChangeEvent) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for sub := range h.subs[event.Table] {
		sub.push(event)
	}
}

func (s *Subscription) push(event domain.ChangeEvent) {
	for {
		select {
		case s.ch <- event:
			return
		default:
		}

		select {
		case dropped := <-s.ch:
			logger.GetDefault().WithFields(logger.Fields{
				logger.FieldTable:    dropped.Table,
				logger.FieldRecordID: dropped.RecordID,
			}).Warn("Dropping oldest change event for slow subscriber")
		default:
		}
	}
}

// SubscriberCount returns the number of live subscriptions on table.
func (h *Hub) SubscriberCount(table string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subs[table])
}

// Close ends every subscription. Publish after Close is a no-op.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.closed {
		return
	}
	h.closed = true
	for table, subs := range h.subs {
		for sub := range subs {
			sub.once.Do(func() { close(sub.ch) })
		}
		delete(h.subs, table)
	}
}

// C returns the event channel.
func (s *Subscription) C() <-chan domain.ChangeEvent {
	return s.ch
}

// Close unregisters the subscription and closes its channel.
func (s *Subscription) Close() {
	s.hub.mu.Lock()
	defer s.hub.mu.Unlock()

	if subs, ok := s.hub.subs[s.table]; ok {
		delete(subs, s)
		if len(subs) == 0 {
			delete(s.hub.subs, s.table)
		}
	}
	s.once.Do(func() { close(s.ch) })
}
