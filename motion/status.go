package motion

import (
	"sync"
	"time"
)

// StatusType represents the type of motion status event
type StatusType int

const (
	// StatusStarted signals the motion began producing values
	// Trigger: first beat after Start() clears any delay
	StatusStarted StatusType = iota

	// StatusStopped signals a user-requested halt without completion
	// Trigger: Stop() from any non-stopped state
	StatusStopped

	// StatusPaused signals suspension with elapsed time held
	// Trigger: Pause() while moving
	StatusPaused

	// StatusResumed signals continuation after a pause
	// Trigger: Resume() while paused
	StatusResumed

	// StatusUpdated signals one tick of value production
	// Trigger: every beat processed while moving
	StatusUpdated

	// StatusReversed signals the direction flip of a reversing cycle
	// Trigger: forward leg reached its end
	StatusReversed

	// StatusRepeated signals the start of the next repeat cycle
	// Trigger: cycle end with repeat cycles remaining
	StatusRepeated

	// StatusHalfCompleted signals the half-way point of a repeating run
	// Trigger: cycles completed reaches the rounded half of the repeat
	// count while the reverse leg is active
	// Consumer: contiguous sequences flip direction in lock-step
	StatusHalfCompleted

	// StatusCompleted signals the motion finished its full run
	// Trigger: final cycle reached its terminus
	StatusCompleted

	// StatusStepped signals a container advanced to its next child
	// Trigger: sequence child finished its traversal leg
	StatusStepped
)

func (s StatusType) String() string {
	switch s {
	case StatusStarted:
		return "Started"
	case StatusStopped:
		return "Stopped"
	case StatusPaused:
		return "Paused"
	case StatusResumed:
		return "Resumed"
	case StatusUpdated:
		return "Updated"
	case StatusReversed:
		return "Reversed"
	case StatusRepeated:
		return "Repeated"
	case StatusHalfCompleted:
		return "HalfCompleted"
	case StatusCompleted:
		return "Completed"
	case StatusStepped:
		return "Stepped"
	default:
		return "Unknown"
	}
}

// Status is a single lifecycle event with its source and tick time
type Status struct {
	Type   StatusType
	Source Moveable
	Time   time.Time
}

// StatusFunc receives status events
type StatusFunc func(Status)

// notifier delivers status events to observers in subscription order.
// Delivery is synchronous and at-most-once per event; observers are
// invoked outside any motion lock so they may call back into the source.
type notifier struct {
	mu        sync.Mutex
	nextID    uint64
	observers []observerEntry
}

type observerEntry struct {
	id uint64
	fn StatusFunc
}

// subscribe adds an observer and returns its detach func
func (n *notifier) subscribe(fn StatusFunc) func() {
	n.mu.Lock()
	n.nextID++
	id := n.nextID
	n.observers = append(n.observers, observerEntry{id: id, fn: fn})
	n.mu.Unlock()

	return func() {
		n.mu.Lock()
		defer n.mu.Unlock()
		for i, o := range n.observers {
			if o.id == id {
				n.observers = append(n.observers[:i], n.observers[i+1:]...)
				return
			}
		}
	}
}

// emit delivers one event to a snapshot of current observers
func (n *notifier) emit(s Status) {
	n.mu.Lock()
	snapshot := make([]observerEntry, len(n.observers))
	copy(snapshot, n.observers)
	n.mu.Unlock()

	for _, o := range snapshot {
		o.fn(s)
	}
}
