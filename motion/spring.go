package motion

import (
	"math"
	"time"

	"github.com/charmbracelet/harmonica"

	"github.com/lixenwraith/kinetic/physics"
)

const (
	defaultSpringFrequency = 6.0
	defaultSpringDamping   = 0.5
	defaultSpringEpsilon   = 1e-4
)

// SpringConfig parameterizes a damped harmonic motion. Frequency is
// the angular frequency (stiffness), Damping the damping ratio with
// 1.0 critically damped. Epsilon is the position and velocity
// magnitude below which the spring is at rest. Zero values select
// defaults.
type SpringConfig struct {
	Frequency float64
	Damping   float64
	Epsilon   float64
	StepRate  int
}

// springProducer integrates a damped spring toward each slot's leg
// target on a fixed-rate sub-schedule. Velocities persist across a leg
// reversal so the spring rebounds naturally.
type springProducer struct {
	spring       harmonica.Spring
	epsilon      float64
	stepInterval time.Duration
	lastTime     time.Time
	accumulator  time.Duration
	latched      bool
	velocities   []float64
}

// NewSpring creates a motion that springs each channel from Start to
// End, overshooting and settling per the damping ratio. Duration is
// ignored; the spring completes when all channels are within Epsilon
// of the leg target at negligible velocity.
func NewSpring(target any, props []Prop, scfg SpringConfig, cfg Config) (*Motion, error) {
	m, err := newMotion(target, props, cfg, true, true)
	if err != nil {
		return nil, err
	}
	frequency := scfg.Frequency
	if frequency <= 0 {
		frequency = defaultSpringFrequency
	}
	damping := scfg.Damping
	if damping <= 0 {
		damping = defaultSpringDamping
	}
	epsilon := scfg.Epsilon
	if epsilon <= 0 {
		epsilon = defaultSpringEpsilon
	}
	rate := scfg.StepRate
	if rate <= 0 {
		rate = physics.DefaultStepRate
	}
	m.producer = &springProducer{
		spring:       harmonica.NewSpring(harmonica.FPS(rate), frequency, damping),
		epsilon:      epsilon,
		stepInterval: time.Second / time.Duration(rate),
		velocities:   make([]float64, len(m.slots)),
	}
	return m, nil
}

func (p *springProducer) legTarget(m *Motion, s *Slot) float64 {
	if m.direction == Reverse {
		return s.Start
	}
	return s.End
}

func (p *springProducer) advance(m *Motion, now time.Time) {
	if !p.latched {
		p.latched = true
		p.lastTime = now
		return
	}
	p.accumulator += now.Sub(p.lastTime)
	p.lastTime = now
	for p.accumulator >= p.stepInterval {
		p.accumulator -= p.stepInterval
		for i, s := range m.slots {
			s.Current, p.velocities[i] = p.spring.Update(s.Current, p.velocities[i], p.legTarget(m, s))
		}
	}
}

func (p *springProducer) finished(m *Motion, now time.Time) bool {
	if !p.latched {
		return false
	}
	for i, s := range m.slots {
		if math.Abs(s.Current-p.legTarget(m, s)) > p.epsilon {
			return false
		}
		if math.Abs(p.velocities[i]) > p.epsilon {
			return false
		}
	}
	return true
}

// reverseLeg keeps velocities so the spring rebounds out of its
// settled state instead of teleporting
func (p *springProducer) reverseLeg(m *Motion) {}

func (p *springProducer) finish(m *Motion) {
	for i, s := range m.slots {
		target := s.End
		if m.reversing && m.direction == Reverse {
			target = s.Start
		}
		p.velocities[i] = 0
		if s.Current != target {
			s.Delta = target - s.Current
			s.Current = target
			m.applyOneLocked(s)
		}
	}
}

func (p *springProducer) reset(m *Motion) {
	for i := range p.velocities {
		p.velocities[i] = 0
	}
	p.latched = false
	p.accumulator = 0
	p.lastTime = time.Time{}
}

func (p *springProducer) pause(m *Motion) {}

func (p *springProducer) resume(m *Motion, now time.Time) {
	if p.latched {
		p.lastTime = now
	}
}
