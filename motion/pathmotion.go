package motion

import (
	"fmt"
	"math"
	"time"

	"github.com/lixenwraith/kinetic/geom"
	"github.com/lixenwraith/kinetic/path"
	"github.com/lixenwraith/kinetic/physics"
	"github.com/lixenwraith/kinetic/value"
)

// positionChannel is the virtual slot channel carrying normalized path
// position; the target is written through its x and y channels instead
const positionChannel = "position"

// PathConfig parameterizes traversal over a path state. StartPosition
// and EndPosition bound the traversed span in normalized positions;
// both zero selects the full path. A positive PrecomputeResolution
// samples the path into a lookup table in the background.
type PathConfig struct {
	StartPosition        float64
	EndPosition          float64
	PrecomputeResolution int
}

// normalizeSpan coerces a traversal span into ordered positions within
// [0, 1], with the zero value selecting the full path
func normalizeSpan(start, end float64) (float64, float64) {
	if start == 0 && end == 0 {
		return 0, 1
	}
	start = math.Min(math.Max(start, 0), 1)
	end = math.Min(math.Max(end, 0), 1)
	if end < start {
		start, end = end, start
	}
	return start, end
}

// validatePointChannels confirms the target exposes x and y
func validatePointChannels(adapter value.Adapter, target any) error {
	for _, ch := range [...]string{"x", "y"} {
		if _, err := adapter.Get(target, ch); err != nil {
			return fmt.Errorf("motion: channel %q: %w", ch, err)
		}
	}
	return nil
}

// pathWriter resolves the traversal slot into a point and writes it to
// the target. Additive mode composes point deltas; the previous point
// carries across leg reversals so deltas stay continuous.
type pathWriter struct {
	state     *path.State
	startEdge float64
	endEdge   float64
	prev      geom.Point
	havePrev  bool
}

func (w *pathWriter) writePoint(m *Motion, holdoff bool) {
	s := m.slots[0]
	pt := w.state.MovePoint(s.Current, w.startEdge, w.endEdge)
	s.Current = w.state.Position()
	if holdoff {
		w.prev = pt
		w.havePrev = true
		return
	}
	if m.additive {
		if !w.havePrev {
			w.prev = pt
			w.havePrev = true
			return
		}
		_ = m.adapter.Add(m.target, "x", (pt.X-w.prev.X)*m.weighting)
		_ = m.adapter.Add(m.target, "y", (pt.Y-w.prev.Y)*m.weighting)
		w.prev = pt
		return
	}
	_ = m.adapter.Set(m.target, "x", pt.X)
	_ = m.adapter.Set(m.target, "y", pt.Y)
	w.prev = pt
	w.havePrev = true
}

func (w *pathWriter) resetWriter() {
	w.prev = geom.Point{}
	w.havePrev = false
}

// ============================================================================
// Eased path traversal
// ============================================================================

// pathEasingProducer eases the traversal position along the span; the
// edge policy folds easing overshoot back onto the path
type pathEasingProducer struct {
	easingProducer
	writer *pathWriter
}

// NewPath creates a motion easing the target point along a path over
// the configured duration. The target must expose x and y channels;
// *geom.Point targets resolve automatically.
func NewPath(state *path.State, target any, pcfg PathConfig, cfg Config) (*Motion, error) {
	if state == nil {
		return nil, ErrNilPath
	}
	if cfg.Duration <= 0 {
		return nil, ErrNoDuration
	}
	start, end := normalizeSpan(pcfg.StartPosition, pcfg.EndPosition)
	m, err := newMotion(target, []Prop{{Channel: positionChannel, Start: start, End: end}}, cfg, false, false)
	if err != nil {
		return nil, err
	}
	if err := validatePointChannels(m.adapter, target); err != nil {
		return nil, err
	}
	m.duration = cfg.Duration
	m.producer = &pathEasingProducer{
		easingProducer: easingProducer{curves: resolveCurves(cfg)},
		writer:         &pathWriter{state: state, startEdge: start, endEdge: end},
	}
	if pcfg.PrecomputeResolution > 0 {
		state.BeginPrecompute(pcfg.PrecomputeResolution)
	}
	return m, nil
}

func (p *pathEasingProducer) applyValues(m *Motion, holdoff bool) {
	p.writer.writePoint(m, holdoff)
}

func (p *pathEasingProducer) finish(m *Motion) {
	s := m.slots[0]
	final := s.End
	if m.reversing && m.direction == Reverse {
		final = s.Start
	}
	s.Delta = final - s.Current
	s.Current = final
	p.writer.writePoint(m, false)
}

func (p *pathEasingProducer) reset(m *Motion) {
	p.writer.resetWriter()
}

// ============================================================================
// Physics path traversal
// ============================================================================

// pathPhysicsProducer runs the friction solver in arc-length space and
// maps the decaying position back to a normalized traversal position.
// Velocity is therefore in path length units per second.
type pathPhysicsProducer struct {
	solver     *physics.Solver
	decayLimit float64
	writer     *pathWriter
	scaled     [1]float64
	stale      bool
}

// NewPathPhysics creates a motion pushing the target point along a
// path from an initial velocity decayed by friction. Velocity is in
// arc length units per second. A stop-at-edges path turns collision
// detection on so traversal rebounds off the span ends; a contiguous
// path wraps around instead.
func NewPathPhysics(state *path.State, target any, pcfg PathConfig, phys PhysicsConfig, cfg Config) (*Motion, error) {
	if state == nil {
		return nil, ErrNilPath
	}
	start, end := normalizeSpan(pcfg.StartPosition, pcfg.EndPosition)
	m, err := newMotion(target, []Prop{{Channel: positionChannel, Start: start, End: end}}, cfg, false, false)
	if err != nil {
		return nil, err
	}
	if err := validatePointChannels(m.adapter, target); err != nil {
		return nil, err
	}
	limit := phys.DecayLimit
	if limit <= 0 {
		limit = physics.DefaultDecayLimit
	}
	solverCfg := phys.Config
	if state.EdgeBehavior() == path.StopAtEdges {
		solverCfg.CollisionDetection = true
	}
	m.producer = &pathPhysicsProducer{
		solver:     physics.NewSolver(solverCfg),
		decayLimit: limit,
		writer:     &pathWriter{state: state, startEdge: start, endEdge: end},
		stale:      true,
	}
	if pcfg.PrecomputeResolution > 0 {
		state.BeginPrecompute(pcfg.PrecomputeResolution)
	}
	return m, nil
}

func (p *pathPhysicsProducer) advance(m *Motion, now time.Time) {
	s := m.slots[0]
	length := p.writer.state.Length()
	if length == 0 {
		return
	}
	if p.stale {
		if p.solver.CollisionDetection() {
			p.solver.SetBounds([]physics.Bound{{
				Start: p.writer.startEdge * length,
				End:   p.writer.endEdge * length,
			}})
		}
		p.stale = false
	}
	p.scaled[0] = s.Current * length
	out := p.solver.Solve(p.scaled[:], now)
	s.Current = out[0] / length
}

func (p *pathPhysicsProducer) finished(m *Motion, now time.Time) bool {
	return p.solver.AtRest(p.decayLimit)
}

func (p *pathPhysicsProducer) reverseLeg(m *Motion) {
	p.solver.Reset()
	p.solver.ReverseDirection()
	p.stale = true
}

// finish leaves the point where decay ended
func (p *pathPhysicsProducer) finish(m *Motion) {}

func (p *pathPhysicsProducer) reset(m *Motion) {
	p.solver.Reset()
	p.stale = true
	p.writer.resetWriter()
}

func (p *pathPhysicsProducer) pause(m *Motion) {
	p.solver.Pause()
}

func (p *pathPhysicsProducer) resume(m *Motion, now time.Time) {
	p.solver.Resume(now)
}

func (p *pathPhysicsProducer) applyValues(m *Motion, holdoff bool) {
	p.writer.writePoint(m, holdoff)
}
