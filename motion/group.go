package motion

import (
	"sync"
	"time"

	"github.com/lixenwraith/kinetic/tempo"
)

// GroupConfig holds options for a concurrent motion group
type GroupConfig struct {
	// Reversing propagates to all children so each cycle runs forward
	// then back
	Reversing bool

	// SyncWhenReversing holds children that reach their reversal point
	// until all have, so the reverse pass starts in lockstep
	SyncWhenReversing bool

	// Repeating restarts all children once every child completes;
	// RepeatCycles bounds the repeats, zero meaning infinite
	Repeating    bool
	RepeatCycles uint32

	// Tempo subscribes the group to a beat source while it runs;
	// children are driven by the group and need no source of their own
	Tempo tempo.Source
}

// Group runs child moveables concurrently as one moveable: operations
// batch to all children, beats forward to all children, and the group
// completes when every child has
type Group struct {
	mu sync.RWMutex

	children    []Moveable
	childDetach []func()

	reversing     bool
	syncReversing bool
	repeating     bool
	repeatCycles  uint32

	state           State
	direction       Direction
	cyclesCompleted uint32
	completedFull   bool
	started         bool
	completedCount  int
	reversedCount   int
	currentTime     time.Time

	tempoSrc    tempo.Source
	tempoDetach func()

	notify notifier
}

// NewGroup builds a group over the given children. A reversing group
// marks every stopped child reversing.
func NewGroup(children []Moveable, cfg GroupConfig) (*Group, error) {
	if len(children) == 0 {
		return nil, ErrNoChildren
	}
	g := &Group{
		children:      children,
		reversing:     cfg.Reversing,
		syncReversing: cfg.SyncWhenReversing,
		repeating:     cfg.Repeating,
		repeatCycles:  cfg.RepeatCycles,
		tempoSrc:      cfg.Tempo,
		state:         Stopped,
		direction:     Forward,
	}
	if cfg.Reversing {
		for _, c := range children {
			if r, ok := c.(reversible); ok {
				r.setReversing(true)
			}
		}
	}
	g.childDetach = make([]func(), len(children))
	for i, c := range children {
		g.childDetach[i] = c.OnStatus(g.handleChildStatus)
	}
	return g, nil
}

// Children returns the child moveables in registration order
func (g *Group) Children() []Moveable {
	g.mu.RLock()
	defer g.mu.RUnlock()
	out := make([]Moveable, len(g.children))
	copy(out, g.children)
	return out
}

// ============================================================================
// Lifecycle
// ============================================================================

// Start begins all children from the stopped state
func (g *Group) Start() {
	g.mu.Lock()
	if g.state != Stopped {
		g.mu.Unlock()
		return
	}
	g.state = Moving
	g.direction = Forward
	g.cyclesCompleted = 0
	g.completedFull = false
	g.started = false
	g.completedCount = 0
	g.reversedCount = 0
	g.currentTime = time.Time{}
	children := g.children
	g.mu.Unlock()

	for _, c := range children {
		c.Start()
	}

	g.mu.Lock()
	src := g.tempoSrc
	attach := src != nil && g.tempoDetach == nil
	g.mu.Unlock()
	if attach {
		detach := src.Attach(tempo.ListenerFunc(g.Update))
		g.mu.Lock()
		g.tempoDetach = detach
		g.mu.Unlock()
	}
}

// Stop halts the group and all children. Idempotent.
func (g *Group) Stop() {
	g.mu.Lock()
	if g.state == Stopped {
		g.mu.Unlock()
		return
	}
	g.state = Stopped
	detach := g.tempoDetach
	g.tempoDetach = nil
	at := g.currentTime
	children := g.children
	g.mu.Unlock()

	for _, c := range children {
		c.Stop()
	}
	if detach != nil {
		detach()
	}
	g.notify.emit(Status{Type: StatusStopped, Source: g, Time: at})
}

// Pause suspends the group and all children
func (g *Group) Pause() {
	g.mu.Lock()
	if g.state != Moving {
		g.mu.Unlock()
		return
	}
	g.state = Paused
	at := g.currentTime
	children := g.children
	g.mu.Unlock()

	for _, c := range children {
		c.Pause()
	}
	g.notify.emit(Status{Type: StatusPaused, Source: g, Time: at})
}

// Resume continues a paused group and all children
func (g *Group) Resume() {
	g.mu.Lock()
	if g.state != Paused {
		g.mu.Unlock()
		return
	}
	g.state = Moving
	at := g.currentTime
	children := g.children
	g.mu.Unlock()

	for _, c := range children {
		c.Resume()
	}
	g.notify.emit(Status{Type: StatusResumed, Source: g, Time: at})
}

// Reset restores the group and all children without destroying them.
// Silent; implies stopped.
func (g *Group) Reset() {
	g.mu.Lock()
	g.state = Stopped
	g.direction = Forward
	g.cyclesCompleted = 0
	g.completedFull = false
	g.started = false
	g.completedCount = 0
	g.reversedCount = 0
	g.currentTime = time.Time{}
	detach := g.tempoDetach
	g.tempoDetach = nil
	children := g.children
	g.mu.Unlock()

	for _, c := range children {
		c.Reset()
	}
	if detach != nil {
		detach()
	}
}

// Update forwards one timing beat to every child. Beats while stopped
// or paused are ignored.
func (g *Group) Update(now time.Time) {
	g.mu.Lock()
	if g.state != Moving {
		g.mu.Unlock()
		return
	}
	g.currentTime = now
	first := !g.started
	g.started = true
	children := g.children
	g.mu.Unlock()

	if first {
		g.notify.emit(Status{Type: StatusStarted, Source: g, Time: now})
	}
	for _, c := range children {
		c.Update(now)
	}

	g.mu.RLock()
	moving := g.state == Moving
	g.mu.RUnlock()
	if moving {
		g.notify.emit(Status{Type: StatusUpdated, Source: g, Time: now})
	}
}

// handleChildStatus consumes the child status streams, tracking
// completion and the reversal sync barrier
func (g *Group) handleChildStatus(s Status) {
	switch s.Type {
	case StatusCompleted:
		g.childCompleted()
	case StatusReversed:
		g.childReversed(s.Source)
	}
}

// childCompleted counts children in; when the last one lands the group
// cycles or completes
func (g *Group) childCompleted() {
	g.mu.Lock()
	g.completedCount++
	if g.completedCount < len(g.children) {
		g.mu.Unlock()
		return
	}

	if g.repeating {
		g.cyclesCompleted++
		if g.repeatCycles == 0 || g.cyclesCompleted <= g.repeatCycles {
			g.completedCount = 0
			g.reversedCount = 0
			g.direction = Forward
			at := g.currentTime
			children := g.children
			g.mu.Unlock()

			for _, c := range children {
				c.Start()
			}
			g.notify.emit(Status{Type: StatusRepeated, Source: g, Time: at})
			return
		}
	}

	g.state = Stopped
	g.completedFull = true
	detach := g.tempoDetach
	g.tempoDetach = nil
	at := g.currentTime
	g.mu.Unlock()

	if detach != nil {
		detach()
	}
	g.notify.emit(Status{Type: StatusCompleted, Source: g, Time: at})
}

// childReversed advances the reversal barrier: under sync, early
// arrivals pause until the last child flips, then all resume together
func (g *Group) childReversed(child Moveable) {
	g.mu.Lock()
	if !g.reversing {
		g.mu.Unlock()
		return
	}
	g.reversedCount++
	g.direction = Reverse
	all := g.reversedCount >= len(g.children)
	sync := g.syncReversing
	at := g.currentTime
	children := g.children
	g.mu.Unlock()

	if !all {
		if sync {
			child.Pause()
		}
		return
	}
	if sync {
		for _, c := range children {
			c.Resume()
		}
	}
	g.notify.emit(Status{Type: StatusReversed, Source: g, Time: at})
}

// ============================================================================
// Telemetry
// ============================================================================

// State returns the group's lifecycle state
func (g *Group) State() State {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.state
}

// Direction returns Reverse once any child has entered its reverse leg
func (g *Group) Direction() Direction {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.direction
}

// MotionProgress is the mean leg progress across children
func (g *Group) MotionProgress() float64 {
	g.mu.RLock()
	children := g.children
	g.mu.RUnlock()
	sum := 0.0
	for _, c := range children {
		sum += c.MotionProgress()
	}
	return sum / float64(len(children))
}

// CycleProgress is the mean full-run progress across children
func (g *Group) CycleProgress() float64 {
	g.mu.RLock()
	children := g.children
	g.mu.RUnlock()
	sum := 0.0
	for _, c := range children {
		sum += c.TotalProgress()
	}
	return sum / float64(len(children))
}

// TotalProgress scales cycle progress across finite repeat cycles
func (g *Group) TotalProgress() float64 {
	g.mu.RLock()
	repeating := g.repeating
	repeatCycles := g.repeatCycles
	cycles := g.cyclesCompleted
	done := g.completedFull
	g.mu.RUnlock()
	cp := g.CycleProgress()
	if repeating && repeatCycles > 0 && !done {
		return (cp + float64(cycles)) / float64(repeatCycles+1)
	}
	return cp
}

// CyclesCompleted counts finished repeat cycles
func (g *Group) CyclesCompleted() uint32 {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.cyclesCompleted
}

// Reversing reports whether children run forward then back
func (g *Group) Reversing() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.reversing
}

// Repeating reports whether the group cycles more than once
func (g *Group) Repeating() bool {
	g.mu.RLock()
	defer g.mu.RUnlock()
	return g.repeating
}

// OnStatus subscribes to the group's status stream; the returned
// detach func unsubscribes
func (g *Group) OnStatus(fn StatusFunc) (detach func()) {
	return g.notify.subscribe(fn)
}

// setReversing lets an outer container propagate reversing through the
// group to its children
func (g *Group) setReversing(on bool) {
	g.mu.Lock()
	if g.state != Stopped {
		g.mu.Unlock()
		return
	}
	g.reversing = on
	children := g.children
	g.mu.Unlock()
	for _, c := range children {
		if r, ok := c.(reversible); ok {
			r.setReversing(on)
		}
	}
}
