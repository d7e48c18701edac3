package motion

import (
	"sync"
	"time"

	"github.com/lixenwraith/kinetic/tempo"
)

// SequenceMode selects how a reversing sequence traverses back through
// its steps
type SequenceMode int

const (
	// Sequential replays each step normally, in reverse order
	Sequential SequenceMode = iota
	// Contiguous holds each step at its reversal point as the sequence
	// advances, then releases them in reverse order so values flow
	// back through the chain without jumps
	Contiguous
)

func (m SequenceMode) String() string {
	switch m {
	case Sequential:
		return "sequential"
	case Contiguous:
		return "contiguous"
	default:
		return "unknown"
	}
}

// SequenceConfig holds options for a step-by-step motion sequence
type SequenceConfig struct {
	// Reversing traverses the steps forward then back each cycle
	Reversing bool

	// Mode selects the reverse traversal style; Contiguous marks every
	// child reversing and keeps values continuous through the turn
	Mode SequenceMode

	// Repeating restarts the sequence once a full traversal completes;
	// RepeatCycles bounds the repeats, zero meaning infinite
	Repeating    bool
	RepeatCycles uint32

	// Tempo subscribes the sequence to a beat source while it runs
	Tempo tempo.Source
}

// Sequence runs child moveables one after another as one moveable. A
// step completing advances to the next with a stepped status; the
// sequence completes when the traversal does.
type Sequence struct {
	mu sync.RWMutex

	children    []Moveable
	childDetach []func()

	reversing    bool
	mode         SequenceMode
	repeating    bool
	repeatCycles uint32

	state           State
	direction       Direction
	currentIndex    int
	cyclesCompleted uint32
	completedFull   bool
	started         bool
	currentTime     time.Time

	tempoSrc    tempo.Source
	tempoDetach func()

	notify notifier
}

// NewSequence builds a sequence over the given steps. A reversing
// contiguous sequence marks every stopped child reversing so each step
// can hold at its turn.
func NewSequence(children []Moveable, cfg SequenceConfig) (*Sequence, error) {
	if len(children) == 0 {
		return nil, ErrNoChildren
	}
	q := &Sequence{
		children:     children,
		reversing:    cfg.Reversing,
		mode:         cfg.Mode,
		repeating:    cfg.Repeating,
		repeatCycles: cfg.RepeatCycles,
		tempoSrc:     cfg.Tempo,
		state:        Stopped,
		direction:    Forward,
	}
	if cfg.Reversing && cfg.Mode == Contiguous {
		for _, c := range children {
			if r, ok := c.(reversible); ok {
				r.setReversing(true)
			}
		}
	}
	q.childDetach = make([]func(), len(children))
	for i, c := range children {
		q.childDetach[i] = c.OnStatus(q.handleChildStatus)
	}
	return q, nil
}

// Children returns the steps in traversal order
func (q *Sequence) Children() []Moveable {
	q.mu.RLock()
	defer q.mu.RUnlock()
	out := make([]Moveable, len(q.children))
	copy(out, q.children)
	return out
}

// CurrentIndex returns the index of the active step
func (q *Sequence) CurrentIndex() int {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.currentIndex
}

// ============================================================================
// Lifecycle
// ============================================================================

// Start begins the first step from the stopped state
func (q *Sequence) Start() {
	q.mu.Lock()
	if q.state != Stopped {
		q.mu.Unlock()
		return
	}
	q.state = Moving
	q.direction = Forward
	q.currentIndex = 0
	q.cyclesCompleted = 0
	q.completedFull = false
	q.started = false
	q.currentTime = time.Time{}
	first := q.children[0]
	q.mu.Unlock()

	first.Start()

	q.mu.Lock()
	src := q.tempoSrc
	attach := src != nil && q.tempoDetach == nil
	q.mu.Unlock()
	if attach {
		detach := src.Attach(tempo.ListenerFunc(q.Update))
		q.mu.Lock()
		q.tempoDetach = detach
		q.mu.Unlock()
	}
}

// Stop halts the sequence and every step. Idempotent.
func (q *Sequence) Stop() {
	q.mu.Lock()
	if q.state == Stopped {
		q.mu.Unlock()
		return
	}
	q.state = Stopped
	detach := q.tempoDetach
	q.tempoDetach = nil
	at := q.currentTime
	children := q.children
	q.mu.Unlock()

	for _, c := range children {
		c.Stop()
	}
	if detach != nil {
		detach()
	}
	q.notify.emit(Status{Type: StatusStopped, Source: q, Time: at})
}

// Pause suspends the sequence; held steps stay held
func (q *Sequence) Pause() {
	q.mu.Lock()
	if q.state != Moving {
		q.mu.Unlock()
		return
	}
	q.state = Paused
	at := q.currentTime
	children := q.children
	q.mu.Unlock()

	for _, c := range children {
		c.Pause()
	}
	q.notify.emit(Status{Type: StatusPaused, Source: q, Time: at})
}

// Resume continues a paused sequence. Only the active step wakes;
// steps held at their reversal point stay held.
func (q *Sequence) Resume() {
	q.mu.Lock()
	if q.state != Paused {
		q.mu.Unlock()
		return
	}
	q.state = Moving
	at := q.currentTime
	current := q.children[q.currentIndex]
	q.mu.Unlock()

	current.Resume()
	q.notify.emit(Status{Type: StatusResumed, Source: q, Time: at})
}

// Reset restores the sequence and every step without destroying them.
// Silent; implies stopped.
func (q *Sequence) Reset() {
	q.mu.Lock()
	q.state = Stopped
	q.direction = Forward
	q.currentIndex = 0
	q.cyclesCompleted = 0
	q.completedFull = false
	q.started = false
	q.currentTime = time.Time{}
	detach := q.tempoDetach
	q.tempoDetach = nil
	children := q.children
	q.mu.Unlock()

	for _, c := range children {
		c.Reset()
	}
	if detach != nil {
		detach()
	}
}

// Update forwards one timing beat to the active step. Beats while
// stopped or paused are ignored.
func (q *Sequence) Update(now time.Time) {
	q.mu.Lock()
	if q.state != Moving {
		q.mu.Unlock()
		return
	}
	q.currentTime = now
	first := !q.started
	q.started = true
	current := q.children[q.currentIndex]
	q.mu.Unlock()

	if first {
		q.notify.emit(Status{Type: StatusStarted, Source: q, Time: now})
	}
	current.Update(now)

	q.mu.RLock()
	moving := q.state == Moving
	q.mu.RUnlock()
	if moving {
		q.notify.emit(Status{Type: StatusUpdated, Source: q, Time: now})
	}
}

// ============================================================================
// Step advancement
// ============================================================================

// handleChildStatus consumes the step status streams. Completions
// advance the traversal; reversal cues drive contiguous holds.
func (q *Sequence) handleChildStatus(s Status) {
	switch s.Type {
	case StatusCompleted:
		q.stepCompleted(s.Source)
	case StatusReversed:
		// repeating steps cue through HalfCompleted instead
		if !s.Source.Repeating() {
			q.stepReachedTurn(s.Source)
		}
	case StatusHalfCompleted:
		if s.Source.Repeating() {
			q.stepReachedTurn(s.Source)
		}
	}
}

// stepReachedTurn handles a contiguous step arriving at its reversal
// point: mid-traversal steps hold there while the sequence moves on;
// the last step turns the whole sequence around
func (q *Sequence) stepReachedTurn(child Moveable) {
	q.mu.Lock()
	if q.state != Moving || q.direction != Forward ||
		q.mode != Contiguous || !q.reversing ||
		child != q.children[q.currentIndex] {
		q.mu.Unlock()
		return
	}
	at := q.currentTime
	if q.currentIndex == len(q.children)-1 {
		q.direction = Reverse
		q.mu.Unlock()
		q.notify.emit(Status{Type: StatusReversed, Source: q, Time: at})
		return
	}
	q.currentIndex++
	next := q.children[q.currentIndex]
	q.mu.Unlock()

	child.Pause()
	next.Start()
	q.notify.emit(Status{Type: StatusStepped, Source: q, Time: at})
}

// stepCompleted advances the traversal when the active step finishes
func (q *Sequence) stepCompleted(child Moveable) {
	q.mu.Lock()
	if q.state != Moving || child != q.children[q.currentIndex] {
		q.mu.Unlock()
		return
	}
	at := q.currentTime
	n := len(q.children)

	if q.direction == Reverse {
		if q.currentIndex > 0 {
			q.currentIndex--
			prev := q.children[q.currentIndex]
			contiguous := q.mode == Contiguous
			q.mu.Unlock()

			if contiguous {
				prev.Resume()
			} else {
				prev.Start()
			}
			q.notify.emit(Status{Type: StatusStepped, Source: q, Time: at})
			return
		}
		q.traversalDoneLocked(at)
		return
	}

	if q.currentIndex < n-1 {
		q.currentIndex++
		next := q.children[q.currentIndex]
		q.mu.Unlock()

		next.Start()
		q.notify.emit(Status{Type: StatusStepped, Source: q, Time: at})
		return
	}

	if q.reversing {
		// Sequential turn: the last step replays in reverse order
		q.direction = Reverse
		last := q.children[q.currentIndex]
		q.mu.Unlock()

		last.Start()
		q.notify.emit(Status{Type: StatusReversed, Source: q, Time: at})
		return
	}
	q.traversalDoneLocked(at)
}

// traversalDoneLocked finishes one full traversal, cycling or
// completing. Called with the lock held; releases it.
func (q *Sequence) traversalDoneLocked(at time.Time) {
	if q.repeating {
		q.cyclesCompleted++
		if q.repeatCycles == 0 || q.cyclesCompleted <= q.repeatCycles {
			q.direction = Forward
			q.currentIndex = 0
			first := q.children[0]
			q.mu.Unlock()

			first.Start()
			q.notify.emit(Status{Type: StatusRepeated, Source: q, Time: at})
			return
		}
	}
	q.state = Stopped
	q.completedFull = true
	detach := q.tempoDetach
	q.tempoDetach = nil
	q.mu.Unlock()

	if detach != nil {
		detach()
	}
	q.notify.emit(Status{Type: StatusCompleted, Source: q, Time: at})
}

// ============================================================================
// Telemetry
// ============================================================================

// State returns the sequence's lifecycle state
func (q *Sequence) State() State {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.state
}

// Direction reports whether the traversal is on its way back
func (q *Sequence) Direction() Direction {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.direction
}

// MotionProgress is the active step's leg progress
func (q *Sequence) MotionProgress() float64 {
	q.mu.RLock()
	current := q.children[q.currentIndex]
	q.mu.RUnlock()
	return current.MotionProgress()
}

// CycleProgress is the progress of one full traversal, folding both
// passes of a reversing sequence
func (q *Sequence) CycleProgress() float64 {
	q.mu.RLock()
	if q.completedFull {
		q.mu.RUnlock()
		return 1
	}
	idx := q.currentIndex
	n := float64(len(q.children))
	dir := q.direction
	reversing := q.reversing
	contiguous := q.mode == Contiguous
	current := q.children[idx]
	q.mu.RUnlock()

	frac := current.TotalProgress()
	if !reversing {
		return (float64(idx) + frac) / n
	}
	if dir == Forward {
		if contiguous {
			frac = frac * 2
		}
		if frac > 1 {
			frac = 1
		}
		return 0.5 * (float64(idx) + frac) / n
	}
	if contiguous {
		frac = (frac - 0.5) * 2
	}
	if frac < 0 {
		frac = 0
	}
	return 0.5 + 0.5*((n-1-float64(idx))+frac)/n
}

// TotalProgress scales traversal progress across finite repeat cycles
func (q *Sequence) TotalProgress() float64 {
	q.mu.RLock()
	repeating := q.repeating
	repeatCycles := q.repeatCycles
	cycles := q.cyclesCompleted
	done := q.completedFull
	q.mu.RUnlock()
	cp := q.CycleProgress()
	if repeating && repeatCycles > 0 && !done {
		return (cp + float64(cycles)) / float64(repeatCycles+1)
	}
	return cp
}

// CyclesCompleted counts finished repeat cycles
func (q *Sequence) CyclesCompleted() uint32 {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.cyclesCompleted
}

// Reversing reports whether the traversal runs forward then back
func (q *Sequence) Reversing() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.reversing
}

// Repeating reports whether the sequence cycles more than once
func (q *Sequence) Repeating() bool {
	q.mu.RLock()
	defer q.mu.RUnlock()
	return q.repeating
}

// OnStatus subscribes to the sequence's status stream; the returned
// detach func unsubscribes
func (q *Sequence) OnStatus(fn StatusFunc) (detach func()) {
	return q.notify.subscribe(fn)
}

// setReversing lets an outer container propagate reversing into the
// sequence; contiguous children pick it up as well
func (q *Sequence) setReversing(on bool) {
	q.mu.Lock()
	if q.state != Stopped {
		q.mu.Unlock()
		return
	}
	q.reversing = on
	propagate := q.mode == Contiguous
	children := q.children
	q.mu.Unlock()
	if !propagate {
		return
	}
	for _, c := range children {
		if r, ok := c.(reversible); ok {
			r.setReversing(on)
		}
	}
}
