package tempo

import (
	"sync"
	"sync/atomic"
	"time"
)

// Ticker delivers beats at a fixed interval on its own goroutine.
// Deadlines advance by whole intervals for drift correction; a ticker
// that falls too far behind re-anchors instead of bursting catch-up
// beats.
type Ticker struct {
	clock    Clock
	interval time.Duration

	mu           sync.RWMutex
	nextID       uint64
	listeners    []listenerEntry
	nextDeadline time.Time

	// Beat counter for debugging and metrics
	beatCount atomic.Uint64

	// Control channels
	stopChan chan struct{}
	stopOnce sync.Once
	wg       sync.WaitGroup
	running  atomic.Bool
}

// NewTicker creates a ticker on the system clock
func NewTicker(interval time.Duration) *Ticker {
	return NewTickerWithClock(interval, NewSystemClock())
}

// NewTickerWithClock creates a ticker on the provided clock
func NewTickerWithClock(interval time.Duration, clock Clock) *Ticker {
	if interval <= 0 {
		interval = DefaultInterval
	}
	return &Ticker{
		clock:    clock,
		interval: interval,
		stopChan: make(chan struct{}),
	}
}

// Interval returns the configured beat interval
func (t *Ticker) Interval() time.Duration {
	return t.interval
}

// BeatCount returns the number of beats delivered since Start
func (t *Ticker) BeatCount() uint64 {
	return t.beatCount.Load()
}

// Attach subscribes a listener; delivery follows attach order
func (t *Ticker) Attach(l Listener) (detach func()) {
	t.mu.Lock()
	t.nextID++
	id := t.nextID
	t.listeners = append(t.listeners, listenerEntry{id: id, l: l})
	t.mu.Unlock()

	return func() {
		t.mu.Lock()
		defer t.mu.Unlock()
		for i, e := range t.listeners {
			if e.id == id {
				t.listeners = append(t.listeners[:i], t.listeners[i+1:]...)
				return
			}
		}
	}
}

// Start begins the beat loop
func (t *Ticker) Start() {
	if t.running.CompareAndSwap(false, true) {
		t.wg.Add(1)
		go t.loop()
	}
}

// Stop halts the beat loop and waits for it to exit
func (t *Ticker) Stop() {
	t.stopOnce.Do(func() {
		if t.running.CompareAndSwap(true, false) {
			close(t.stopChan)
			t.wg.Wait()
		}
	})
}

// loop runs the beat delivery loop with drift correction
func (t *Ticker) loop() {
	defer t.wg.Done()

	t.mu.Lock()
	t.nextDeadline = t.clock.Now().Add(t.interval)
	t.mu.Unlock()

	timer := time.NewTimer(0)
	if !timer.Stop() {
		select {
		case <-timer.C:
		default:
		}
	}
	defer timer.Stop()

	for {
		select {
		case <-t.stopChan:
			return
		default:
		}

		now := t.clock.Now()

		t.mu.RLock()
		deadline := t.nextDeadline
		t.mu.RUnlock()

		var sleepDuration time.Duration

		if !now.Before(deadline) {
			t.deliver(now)
			t.beatCount.Add(1)

			t.mu.Lock()
			t.nextDeadline = t.nextDeadline.Add(t.interval)

			// Re-anchor when too far behind rather than bursting
			maxBehind := t.interval * 2
			if now.Sub(t.nextDeadline) > maxBehind {
				t.nextDeadline = now.Add(t.interval)
			}
			deadline = t.nextDeadline
			t.mu.Unlock()

			sleepDuration = deadline.Sub(t.clock.Now())
			if sleepDuration < 0 {
				sleepDuration = 0
			}
		} else {
			sleepDuration = deadline.Sub(now)
		}

		if sleepDuration > 0 {
			timer.Reset(sleepDuration)
			select {
			case <-timer.C:
			case <-t.stopChan:
				return
			}
		}
	}
}

// deliver invokes listeners outside the lock so a listener may detach
// itself during its own beat
func (t *Ticker) deliver(now time.Time) {
	t.mu.RLock()
	snapshot := make([]listenerEntry, len(t.listeners))
	copy(snapshot, t.listeners)
	t.mu.RUnlock()

	for _, e := range snapshot {
		e.l.Beat(now)
	}
}
