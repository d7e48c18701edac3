package motion

import "time"

// Moveable is the common control surface of motions and their
// containers. All lifecycle calls in inapplicable states are silent
// no-ops; telemetry getters are safe from any goroutine.
type Moveable interface {
	// Start begins a run from the stopped state, resetting first
	Start()

	// Stop halts a run without completion semantics; idempotent
	Stop()

	// Pause suspends a moving run, holding elapsed time
	Pause()

	// Resume continues a paused run with paused time excluded
	Resume()

	// Reset restores initial values and counters without destroying
	// the object
	Reset()

	// Update processes one timing beat
	Update(now time.Time)

	// State returns the current lifecycle state
	State() State

	// Direction returns the active leg of a reversing cycle
	Direction() Direction

	// MotionProgress is the progress of the current leg, 0 to 1
	MotionProgress() float64

	// CycleProgress is the progress of the current cycle, folding both
	// legs of a reversing motion, 0 to 1
	CycleProgress() float64

	// TotalProgress is the progress of the full run including repeat
	// cycles, 0 to 1
	TotalProgress() float64

	// CyclesCompleted counts finished repeat cycles
	CyclesCompleted() uint32

	// Reversing reports whether each cycle runs forward then back
	Reversing() bool

	// Repeating reports whether the motion cycles more than once
	Repeating() bool

	// OnStatus subscribes to the status stream; the returned detach
	// func unsubscribes
	OnStatus(fn StatusFunc) (detach func())
}

// reversible lets containers propagate their reversing flag into
// children before a run starts
type reversible interface {
	setReversing(on bool)
}
