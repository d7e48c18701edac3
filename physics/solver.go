// Package physics integrates motion positions under a decaying velocity
// model. A Solver advances one or more scalar channels sharing a single
// velocity, decelerating under friction and optionally colliding with
// per-channel bounds. Integration runs on a fixed sub-step interval
// consumed from delivered timestamps, so fidelity does not depend on the
// caller's update rate and synthetic clocks drive it deterministically.
package physics

import (
	"math"
	"time"
)

const (
	// DefaultStepRate is the sub-step frequency in steps per second
	DefaultStepRate = 120

	// DefaultDecayLimit is the velocity magnitude below which a motion
	// is considered at rest
	DefaultDecayLimit = 0.95

	// frictionEpsilon keeps friction strictly positive so velocity
	// always decays
	frictionEpsilon = 1e-5
)

// Bound constrains one position channel to a closed interval.
// A zero-width bound leaves the channel unconstrained.
type Bound struct {
	Start float64
	End   float64
}

func (b Bound) valid() bool {
	return b.Start != b.End
}

func (b Bound) ordered() (lo, hi float64) {
	if b.Start <= b.End {
		return b.Start, b.End
	}
	return b.End, b.Start
}

// Config holds solver tuning parameters
type Config struct {
	Velocity           float64 // units per second, signed
	Friction           float64 // fraction of velocity lost per second, 0..1
	Restitution        float64 // velocity fraction kept on collision, 0..1
	CollisionDetection bool
	StepRate           int // sub-steps per second, default 120
}

// Solver advances positions under velocity decay. Not safe for
// concurrent use; the owning motion serializes access.
type Solver struct {
	velocity        float64
	initialVelocity float64
	friction        float64
	restitution     float64
	collisions      bool
	direction       float64
	bounds          []Bound

	stepInterval time.Duration
	lastTime     time.Time
	accumulator  time.Duration
	latched      bool
	paused       bool
	steps        uint64
}

// NewSolver creates a solver from config, clamping friction into (0, 1]
// and restitution into [0, 1]
func NewSolver(cfg Config) *Solver {
	friction := cfg.Friction
	if friction < 0 {
		friction = 0
	}
	if friction > 1 {
		friction = 1
	}
	if friction == 0 {
		friction = frictionEpsilon
	}

	restitution := cfg.Restitution
	if restitution < 0 {
		restitution = 0
	}
	if restitution > 1 {
		restitution = 1
	}

	rate := cfg.StepRate
	if rate <= 0 {
		rate = DefaultStepRate
	}

	return &Solver{
		velocity:        cfg.Velocity,
		initialVelocity: cfg.Velocity,
		friction:        friction,
		restitution:     restitution,
		collisions:      cfg.CollisionDetection,
		direction:       1,
		stepInterval:    time.Second / time.Duration(rate),
	}
}

// SetBounds installs per-channel collision bounds, positionally matched
// to the slice passed to Solve
func (s *Solver) SetBounds(bounds []Bound) {
	s.bounds = bounds
}

// Velocity returns the current signed velocity
func (s *Solver) Velocity() float64 {
	return s.velocity
}

// SetVelocity assigns velocity explicitly; Reset restores this value
func (s *Solver) SetVelocity(v float64) {
	s.velocity = v
	s.initialVelocity = v
}

// Friction returns the effective friction after clamping
func (s *Solver) Friction() float64 {
	return s.friction
}

// Restitution returns the effective restitution after clamping
func (s *Solver) Restitution() float64 {
	return s.restitution
}

// CollisionDetection reports whether bounds are enforced
func (s *Solver) CollisionDetection() bool {
	return s.collisions
}

// StepInterval returns the fixed sub-step interval
func (s *Solver) StepInterval() time.Duration {
	return s.stepInterval
}

// Steps returns the total sub-steps executed since the last reset
func (s *Solver) Steps() uint64 {
	return s.steps
}

// AtRest reports whether velocity has decayed to or below the limit
func (s *Solver) AtRest(limit float64) bool {
	return math.Abs(s.velocity) <= limit
}

// Solve consumes elapsed time since the previous call in whole
// sub-steps and returns the advanced positions. The first call after a
// reset only latches the timestamp. Input is not modified.
func (s *Solver) Solve(positions []float64, now time.Time) []float64 {
	out := make([]float64, len(positions))
	copy(out, positions)

	if s.paused {
		return out
	}
	if !s.latched {
		s.latched = true
		s.lastTime = now
		return out
	}

	elapsed := now.Sub(s.lastTime)
	if elapsed < 0 {
		elapsed = 0
	}
	s.lastTime = now
	s.accumulator += elapsed

	dt := s.stepInterval.Seconds()
	decay := math.Pow(1.0-s.friction, dt)

	for s.accumulator >= s.stepInterval {
		s.accumulator -= s.stepInterval
		s.steps++

		s.velocity *= decay
		step := s.velocity * s.direction * dt

		collided := false
		for i := range out {
			out[i] += step
			if !s.collisions || collided || i >= len(s.bounds) || !s.bounds[i].valid() {
				continue
			}
			lo, hi := s.bounds[i].ordered()
			if out[i] <= lo {
				out[i] = lo
				s.velocity = -s.velocity * s.restitution
				collided = true
			} else if out[i] >= hi {
				out[i] = hi
				s.velocity = -s.velocity * s.restitution
				collided = true
			}
		}
	}

	return out
}

// Pause suspends integration; accumulated sub-step remainder is kept
func (s *Solver) Pause() {
	s.paused = true
}

// Resume re-latches the timeline at now so paused wall time is excluded
func (s *Solver) Resume(now time.Time) {
	s.paused = false
	s.lastTime = now
}

// ReverseDirection flips the direction positions advance in without
// touching the decaying velocity
func (s *Solver) ReverseDirection() {
	s.direction = -s.direction
}

// Reset restores the last explicitly assigned velocity and clears all
// run-time integration state
func (s *Solver) Reset() {
	s.velocity = s.initialVelocity
	s.direction = 1
	s.accumulator = 0
	s.lastTime = time.Time{}
	s.latched = false
	s.paused = false
	s.steps = 0
}
