// Package live streams conversation turns to monitoring clients.
package live

import (
	"sync"
	"time"
)

const (
	// replayLimit bounds how many recent events a late joiner receives.
	replayLimit = 32
	// subCap must exceed replayLimit so a fresh subscriber can absorb
	// the full replay before its reader starts draining.
	subCap = 64
)

// Event is one conversation update pushed to monitors.
type Event struct {
	SessionID string    `json:"session_id"`
	Role      string    `json:"role"`
	Message   string    `json:"message"`
	State     string    `json:"state"`
	At        time.Time `json:"timestamp"`
}

type subscriber struct {
	sessionID string // empty subscribes to every session
	ch        chan Event
}

// Hub fans conversation events out to subscribers. Slow subscribers
// lose their oldest pending event rather than blocking the turn path.
type Hub struct {
	mu     sync.Mutex
	subs   map[*subscriber]struct{}
	replay []Event
}

// NewHub creates an empty hub.
func NewHub() *Hub {
	return &Hub{subs: make(map[*subscriber]struct{})}
}

// Publish delivers an event to all matching subscribers and records it
// for replay.
func (h *Hub) Publish(e Event) {
	h.mu.Lock()
	defer h.mu.Unlock()

	h.replay = append(h.replay, e)
	if len(h.replay) > replayLimit {
		h.replay = h.replay[len(h.replay)-replayLimit:]
	}

	for s := range h.subs {
		if s.sessionID != "" && s.sessionID != e.SessionID {
			continue
		}
		send(s.ch, e)
	}
}

// send pushes without blocking, dropping the subscriber's oldest
// pending event when its buffer is full. Callers hold h.mu, so no
// other goroutine writes or closes ch concurrently.
func send(ch chan Event, e Event) {
	select {
	case ch <- e:
		return
	default:
	}
	select {
	case <-ch:
	default:
	}
	select {
	case ch <- e:
	default:
	}
}

// Subscribe registers a listener for one session, or for all sessions
// when sessionID is empty. Recent matching events are replayed into the
// channel first. The returned cancel function must be called when the
// listener goes away; it closes the channel.
func (h *Hub) Subscribe(sessionID string) (<-chan Event, func()) {
	s := &subscriber{sessionID: sessionID, ch: make(chan Event, subCap)}

	h.mu.Lock()
	for _, e := range h.replay {
		if s.sessionID != "" && s.sessionID != e.SessionID {
			continue
		}
		send(s.ch, e)
	}
	h.subs[s] = struct{}{}
	h.mu.Unlock()

	cancel := func() {
		h.mu.Lock()
		defer h.mu.Unlock()
		if _, ok := h.subs[s]; !ok {
			return
		}
		delete(h.subs, s)
		close(s.ch)
	}
	return s.ch, cancel
}

// SubscriberCount reports how many listeners are registered.
func (h *Hub) SubscriberCount() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.subs)
}
