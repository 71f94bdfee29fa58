package coach

import (
	"log/slog"
	"sync"
	"time"
)

// IdleTimeout is how long a session may go untouched before StartEviction
// closes it.
const IdleTimeout = 30 * time.Minute

type entry struct {
	session *Session
	seen    time.Time
}

// Hub owns one session per device.
type Hub struct {
	delay time.Duration
	opts  []Option
	now   func() time.Time

	mu       sync.Mutex
	sessions map[string]*entry
}

func NewHub(delay time.Duration, opts ...Option) *Hub {
	return &Hub{delay: delay, opts: opts, now: time.Now, sessions: make(map[string]*entry)}
}

func (h *Hub) Session(deviceID string) *Session {
	h.mu.Lock()
	defer h.mu.Unlock()
	e, ok := h.sessions[deviceID]
	if !ok {
		e = &entry{session: NewSession(h.delay, h.opts...)}
		h.sessions[deviceID] = e
	}
	e.seen = h.now()
	return e.session
}

// Len returns the number of live sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.sessions)
}

// End tears down the device's session, dropping any pending reply.
func (h *Hub) End(deviceID string) {
	h.mu.Lock()
	e, ok := h.sessions[deviceID]
	delete(h.sessions, deviceID)
	h.mu.Unlock()
	if ok {
		e.session.Close()
	}
}

// Evict closes sessions last used before cutoff. A device that comes back
// later starts over from the greeting.
func (h *Hub) Evict(cutoff time.Time) int {
	h.mu.Lock()
	var stale []*Session
	for id, e := range h.sessions {
		if e.seen.Before(cutoff) {
			stale = append(stale, e.session)
			delete(h.sessions, id)
		}
	}
	h.mu.Unlock()
	for _, s := range stale {
		s.Close()
	}
	return len(stale)
}

// StartEviction drops sessions idle for longer than idle until done is closed.
func StartEviction(h *Hub, idle time.Duration, done chan struct{}) {
	go func() {
		ticker := time.NewTicker(idle / 2)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := h.Evict(h.now().Add(-idle)); n > 0 {
					slog.Info("coach sessions evicted", "count", n)
				}
			case <-done:
				return
			}
		}
	}()
}

func (h *Hub) Close() {
	h.mu.Lock()
	sessions := h.sessions
	h.sessions = make(map[string]*entry)
	h.mu.Unlock()
	for _, e := range sessions {
		e.session.Close()
	}
}
