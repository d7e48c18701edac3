package motion

import (
	"time"

	"github.com/lixenwraith/kinetic/easing"
	"github.com/lixenwraith/kinetic/physics"
)

// producer is the value-production strategy run by the lifecycle
// engine. Implementations write slot Current values under the motion's
// lock; the engine owns timing, application, progress and status.
type producer interface {
	// advance writes this beat's values into the slots
	advance(m *Motion, now time.Time)
	// finished reports whether the current leg is done
	finished(m *Motion, now time.Time) bool
	// reverseLeg prepares the producer for the reverse leg
	reverseLeg(m *Motion)
	// finish takes the producer's final say on slot values at completion
	finish(m *Motion)
	// reset restores producer state for a fresh run or repeat cycle
	reset(m *Motion)
	// pause freezes producer-internal timing
	pause(m *Motion)
	// resume re-latches producer-internal timing at now
	resume(m *Motion, now time.Time)
}

// applier is implemented by producers that write the target themselves
// instead of the engine's per-slot scalar application
type applier interface {
	applyValues(m *Motion, holdoff bool)
}

// ============================================================================
// Eased interpolation
// ============================================================================

// legCurves pairs the easing curves of the forward and reverse legs
type legCurves struct {
	forward easing.Curve
	reverse easing.Curve
}

// easingProducer maps elapsed leg time through an easing curve. The
// reverse leg runs its own curve from End back to Start.
type easingProducer struct {
	curves legCurves
}

func (p *easingProducer) advance(m *Motion, now time.Time) {
	elapsed := m.currentTime.Sub(m.startTime).Seconds()
	duration := m.duration.Seconds()
	for _, s := range m.slots {
		if s.Range() == 0 {
			continue
		}
		if m.direction == Forward {
			s.Current = p.curves.forward(elapsed, s.Start, s.End-s.Start, duration)
		} else {
			s.Current = p.curves.reverse(elapsed, s.End, s.Start-s.End, duration)
		}
	}
}

func (p *easingProducer) finished(m *Motion, now time.Time) bool {
	return !m.endTime.IsZero() && !m.currentTime.Before(m.endTime)
}

func (p *easingProducer) reverseLeg(m *Motion) {}

func (p *easingProducer) finish(m *Motion) {
	for _, s := range m.slots {
		final := s.End
		if m.reversing && m.direction == Reverse {
			final = s.Start
		}
		if s.Current != final {
			s.Delta = final - s.Current
			s.Current = final
			m.applyOneLocked(s)
		}
	}
}

func (p *easingProducer) reset(m *Motion)                 {}
func (p *easingProducer) pause(m *Motion)                 {}
func (p *easingProducer) resume(m *Motion, now time.Time) {}

// ============================================================================
// Physics interpolation
// ============================================================================

// PhysicsConfig parameterizes a velocity-and-friction motion. The
// embedded solver config supplies velocity, friction, restitution and
// step rate; DecayLimit is the velocity magnitude below which the
// motion is considered at rest, zero selecting the default.
type PhysicsConfig struct {
	physics.Config
	DecayLimit float64
}

// physicsProducer runs a friction solver against slot positions on its
// own fixed-rate sub-schedule. Slot Start and End double as collision
// bounds when collision detection is on.
type physicsProducer struct {
	solver     *physics.Solver
	decayLimit float64
	positions  []float64
	stale      bool
}

// NewPhysics creates a motion whose values evolve from an initial
// velocity decayed by friction. Props keep zero-width channels: End
// serves as the collision bound and progress reference rather than a
// destination. Enabling collision detection clamps positions to each
// slot's Start..End and rebounds scaled by restitution.
func NewPhysics(target any, props []Prop, pcfg PhysicsConfig, cfg Config) (*Motion, error) {
	m, err := newMotion(target, props, cfg, false, true)
	if err != nil {
		return nil, err
	}
	limit := pcfg.DecayLimit
	if limit <= 0 {
		limit = physics.DefaultDecayLimit
	}
	p := &physicsProducer{
		solver:     physics.NewSolver(pcfg.Config),
		decayLimit: limit,
		positions:  make([]float64, len(m.slots)),
		stale:      true,
	}
	for _, s := range m.slots {
		s.onRestart = func(*Slot) { p.stale = true }
	}
	m.producer = p
	return m, nil
}

func (p *physicsProducer) advance(m *Motion, now time.Time) {
	if p.stale {
		p.syncBounds(m)
		p.stale = false
	}
	for i, s := range m.slots {
		p.positions[i] = s.Current
	}
	out := p.solver.Solve(p.positions, now)
	for i, s := range m.slots {
		s.Current = out[i]
	}
}

func (p *physicsProducer) finished(m *Motion, now time.Time) bool {
	return p.solver.AtRest(p.decayLimit)
}

func (p *physicsProducer) reverseLeg(m *Motion) {
	p.solver.Reset()
	p.solver.ReverseDirection()
	p.stale = true
}

// finish leaves positions where decay ended; a physics motion has no
// destination to snap to
func (p *physicsProducer) finish(m *Motion) {}

func (p *physicsProducer) reset(m *Motion) {
	p.solver.Reset()
	p.stale = true
}

func (p *physicsProducer) pause(m *Motion) {
	p.solver.Pause()
}

func (p *physicsProducer) resume(m *Motion, now time.Time) {
	p.solver.Resume(now)
}

// syncBounds feeds slot ranges to the solver as collision bounds
func (p *physicsProducer) syncBounds(m *Motion) {
	if !p.solver.CollisionDetection() {
		return
	}
	bounds := make([]physics.Bound, len(m.slots))
	for i, s := range m.slots {
		bounds[i] = physics.Bound{Start: s.Start, End: s.End}
	}
	p.solver.SetBounds(bounds)
}
