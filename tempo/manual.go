package tempo

import (
	"sync"
	"time"
)

// Manual is a hand-cranked beat source for tests and frame-locked hosts.
// Each Pulse delivers one beat with the caller's timestamp.
type Manual struct {
	mu        sync.RWMutex
	nextID    uint64
	listeners []listenerEntry
}

type listenerEntry struct {
	id uint64
	l  Listener
}

// NewManual creates an empty manual beat source
func NewManual() *Manual {
	return &Manual{}
}

// Attach subscribes a listener; delivery follows attach order
func (m *Manual) Attach(l Listener) (detach func()) {
	m.mu.Lock()
	m.nextID++
	id := m.nextID
	m.listeners = append(m.listeners, listenerEntry{id: id, l: l})
	m.mu.Unlock()

	return func() {
		m.mu.Lock()
		defer m.mu.Unlock()
		for i, e := range m.listeners {
			if e.id == id {
				m.listeners = append(m.listeners[:i], m.listeners[i+1:]...)
				return
			}
		}
	}
}

// Pulse delivers one beat carrying the given timestamp
func (m *Manual) Pulse(now time.Time) {
	m.mu.RLock()
	snapshot := make([]listenerEntry, len(m.listeners))
	copy(snapshot, m.listeners)
	m.mu.RUnlock()

	for _, e := range snapshot {
		e.l.Beat(now)
	}
}

// PulseEvery delivers count beats starting at first, spaced by step.
// Convenience for walking a deterministic timeline in tests.
func (m *Manual) PulseEvery(first time.Time, step time.Duration, count int) {
	for i := 0; i < count; i++ {
		m.Pulse(first.Add(time.Duration(i) * step))
	}
}
