// Package motion implements a time-based value-interpolation engine.
// One lifecycle engine drives every interpolation strategy: eased
// curves, decaying-velocity physics, springs and path traversal all
// share the same state machine, delay, repeat cycling, reversing and
// status stream, and differ only in how per-tick values are produced.
//
// Motions are driven by beats pushed from a tempo source (or direct
// Update calls); no goroutine polls. Telemetry getters are safe from
// any goroutine. Additive motions compose deltas through an explicit
// AdditiveRegistry shared by all participants on a target.
package motion

import (
	"fmt"
	"math"
	"sync"
	"time"

	"github.com/lixenwraith/kinetic/easing"
	"github.com/lixenwraith/kinetic/tempo"
	"github.com/lixenwraith/kinetic/value"
)

// Prop declares one channel interpolation when constructing a motion.
// Channels whose Start equals End are skipped for timed motions; a
// prop with UseExistingStart reads the live target value when the
// motion starts.
type Prop struct {
	Channel          string
	Start            float64
	End              float64
	UseExistingStart bool
}

// Config holds the lifecycle options shared by every motion variant
type Config struct {
	// Duration of one leg; required for eased motions, ignored by
	// physics and spring variants
	Duration time.Duration

	// Easing maps elapsed time to values; nil selects easing.Linear
	Easing easing.Curve

	// ReverseEasing drives the reverse leg; nil reuses Easing
	ReverseEasing easing.Curve

	// Delay postpones movement after Start
	Delay time.Duration

	// Reversing runs each cycle forward then back
	Reversing bool

	// Repeating cycles the motion; RepeatCycles bounds the repeats,
	// zero meaning infinite
	Repeating    bool
	RepeatCycles uint32

	// ResetOnRepeat snaps the target back to starting values at each
	// cycle boundary
	ResetOnRepeat bool

	// Additive composes deltas onto the target instead of overwriting.
	// Requires Registry; Weighting scales contributions, zero value
	// selecting full weight.
	Additive  bool
	Weighting float64
	Registry  *AdditiveRegistry

	// Adapter overrides target resolution; nil uses value.AdapterFor
	Adapter value.Adapter

	// Tempo subscribes the motion to a beat source while it runs
	Tempo tempo.Source
}

// Motion is the lifecycle engine for one interpolation. Construct with
// New, NewPhysics, NewSpring, NewPath or NewPathPhysics.
type Motion struct {
	mu sync.RWMutex

	target   any
	adapter  value.Adapter
	slots    []*Slot
	producer producer
	scratch  []float64

	// configuration
	duration      time.Duration
	delay         time.Duration
	reversing     bool
	repeating     bool
	repeatCycles  uint32
	resetOnRepeat bool
	additive      bool
	weighting     float64
	registry      *AdditiveRegistry

	// run state
	state           State
	direction       Direction
	motionProgress  float64
	cycleProgress   float64
	cyclesCompleted uint32
	completedFull   bool
	started         bool
	additiveActive  bool
	operationID     uint64

	// timing
	startstamp    time.Time // delay epoch, latched on first beat
	startTime     time.Time // leg epoch, latched on first moving beat
	currentTime   time.Time
	endTime       time.Time
	pausedElapsed time.Duration
	resumeLatch   bool

	tempoSrc    tempo.Source
	tempoDetach func()

	notify notifier
}

// tickOutcome carries the effects of one locked tick to be performed
// outside the lock
type tickOutcome struct {
	evs      []StatusType
	teardown bool
}

// New creates an eased motion interpolating the given props on the
// target over the configured duration
func New(target any, props []Prop, cfg Config) (*Motion, error) {
	if cfg.Duration <= 0 {
		return nil, ErrNoDuration
	}
	m, err := newMotion(target, props, cfg, true, true)
	if err != nil {
		return nil, err
	}
	m.duration = cfg.Duration
	m.producer = &easingProducer{curves: resolveCurves(cfg)}
	return m, nil
}

// resolveCurves fills in easing defaults: Linear when unset, the
// forward curve for an unset reverse curve
func resolveCurves(cfg Config) legCurves {
	curve := cfg.Easing
	if curve == nil {
		curve = easing.Linear
	}
	reverseCurve := cfg.ReverseEasing
	if reverseCurve == nil {
		reverseCurve = curve
	}
	return legCurves{forward: curve, reverse: reverseCurve}
}

// newMotion builds the common engine; producers attach afterward. Path
// producers skip channel validation since their slot is the virtual
// traversal position rather than an adapter channel.
func newMotion(target any, props []Prop, cfg Config, skipZeroWidth, validateChannels bool) (*Motion, error) {
	if target == nil {
		return nil, ErrNilTarget
	}
	adapter := cfg.Adapter
	if adapter == nil {
		var err error
		adapter, err = value.AdapterFor(target)
		if err != nil {
			return nil, err
		}
	}

	var slots []*Slot
	for _, p := range props {
		if skipZeroWidth && p.Start == p.End && !p.UseExistingStart {
			continue
		}
		if validateChannels {
			if _, err := adapter.Get(target, p.Channel); err != nil {
				return nil, fmt.Errorf("motion: channel %q: %w", p.Channel, err)
			}
		}
		slots = append(slots, &Slot{
			Channel:          p.Channel,
			Start:            p.Start,
			Current:          p.Start,
			End:              p.End,
			UseExistingStart: p.UseExistingStart,
			configuredStart:  p.Start,
		})
	}
	if len(slots) == 0 {
		return nil, ErrNoChannels
	}
	if cfg.Additive && cfg.Registry == nil {
		return nil, ErrNoRegistry
	}

	weighting := cfg.Weighting
	switch {
	case weighting == 0:
		weighting = 1
	case weighting < 0:
		weighting = 0
	case weighting > 1:
		weighting = 1
	}

	return &Motion{
		target:        target,
		adapter:       adapter,
		slots:         slots,
		scratch:       make([]float64, len(slots)),
		delay:         cfg.Delay,
		reversing:     cfg.Reversing,
		repeating:     cfg.Repeating,
		repeatCycles:  cfg.RepeatCycles,
		resetOnRepeat: cfg.ResetOnRepeat,
		additive:      cfg.Additive,
		weighting:     weighting,
		registry:      cfg.Registry,
		tempoSrc:      cfg.Tempo,
		state:         Stopped,
		direction:     Forward,
	}, nil
}

// ============================================================================
// Lifecycle
// ============================================================================

// Start begins a run from the stopped state: the motion resets, resolves
// its starting values (live target reads and additive handoff), registers
// additively and awaits its first beat. No-op unless stopped.
func (m *Motion) Start() {
	m.mu.Lock()
	if m.state != Stopped {
		m.mu.Unlock()
		return
	}
	m.resetLocked()
	if m.delay > 0 {
		m.state = Delayed
	} else {
		m.state = Moving
	}
	m.mu.Unlock()

	if m.additive {
		id := m.registry.Register(m)
		m.mu.Lock()
		if m.state == Stopped {
			// Stopped underneath us between unlock and register
			m.mu.Unlock()
			m.registry.Unregister(m, id)
		} else {
			m.operationID = id
			m.mu.Unlock()
		}
	}

	m.resolveStarts()

	m.mu.Lock()
	src := m.tempoSrc
	attach := src != nil && m.tempoDetach == nil && m.state != Stopped
	m.mu.Unlock()
	if attach {
		detach := src.Attach(tempo.ListenerFunc(m.Update))
		m.mu.Lock()
		m.tempoDetach = detach
		m.mu.Unlock()
	}
}

// resolveStarts fixes each slot's starting point: live target reads for
// existing-start slots, then additive handoff from the most recently
// registered other motion on the channel
func (m *Motion) resolveStarts() {
	m.mu.RLock()
	adapter := m.adapter
	target := m.target
	additive := m.additive
	opID := m.operationID
	registry := m.registry
	slots := m.slots
	m.mu.RUnlock()

	for _, s := range slots {
		var start float64
		have := false
		if additive || s.UseExistingStart {
			if cur, err := adapter.Get(target, s.Channel); err == nil {
				start = cur
				have = true
			}
		}
		if additive {
			if hv, ok := registry.TargetValue(target, s.Channel, opID); ok {
				start = hv
				have = true
			}
		}
		if have {
			m.mu.Lock()
			s.SetStart(start)
			m.mu.Unlock()
		}
	}
}

// Stop halts the run without completion semantics: timing state zeroes,
// the physics sub-schedule tears down, the additive registration and
// tempo subscription detach. Idempotent.
func (m *Motion) Stop() {
	m.mu.Lock()
	if m.state == Stopped {
		m.mu.Unlock()
		return
	}
	m.state = Stopped
	m.zeroTimingLocked()
	m.producer.reset(m)
	opID := m.operationID
	m.operationID = 0
	detach := m.tempoDetach
	m.tempoDetach = nil
	at := m.currentTime
	m.mu.Unlock()

	if opID != 0 {
		m.registry.Unregister(m, opID)
	}
	if detach != nil {
		detach()
	}
	m.notify.emit(Status{Type: StatusStopped, Source: m, Time: at})
}

// Pause suspends a moving run, holding the elapsed time consumed so far
func (m *Motion) Pause() {
	m.mu.Lock()
	if m.state != Moving {
		m.mu.Unlock()
		return
	}
	m.state = Paused
	if !m.startTime.IsZero() {
		m.pausedElapsed = m.currentTime.Sub(m.startTime)
	} else {
		m.pausedElapsed = 0
	}
	m.producer.pause(m)
	at := m.currentTime
	m.mu.Unlock()

	m.notify.emit(Status{Type: StatusPaused, Source: m, Time: at})
}

// Resume continues a paused run; the next beat rebases the timeline so
// paused wall time never counts toward the duration
func (m *Motion) Resume() {
	m.mu.Lock()
	if m.state != Paused {
		m.mu.Unlock()
		return
	}
	m.state = Moving
	m.resumeLatch = true
	at := m.currentTime
	m.mu.Unlock()

	m.notify.emit(Status{Type: StatusResumed, Source: m, Time: at})
}

// Reset restores initial values and counters without destroying the
// motion. Silent; implies stopped.
func (m *Motion) Reset() {
	m.mu.Lock()
	m.resetLocked()
	opID := m.operationID
	m.operationID = 0
	detach := m.tempoDetach
	m.tempoDetach = nil
	m.mu.Unlock()

	if opID != 0 {
		m.registry.Unregister(m, opID)
	}
	if detach != nil {
		detach()
	}
}

func (m *Motion) resetLocked() {
	m.state = Stopped
	m.direction = Forward
	m.motionProgress = 0
	m.cycleProgress = 0
	m.cyclesCompleted = 0
	m.completedFull = false
	m.started = false
	m.additiveActive = false
	m.zeroTimingLocked()
	for _, s := range m.slots {
		s.restore()
	}
	m.producer.reset(m)
}

func (m *Motion) zeroTimingLocked() {
	m.startstamp = time.Time{}
	m.startTime = time.Time{}
	m.currentTime = time.Time{}
	m.endTime = time.Time{}
	m.pausedElapsed = 0
	m.resumeLatch = false
}

// BindTempo stores a beat source the motion subscribes to on its next
// Start. An active subscription is left untouched.
func (m *Motion) BindTempo(src tempo.Source) {
	m.mu.Lock()
	m.tempoSrc = src
	m.mu.Unlock()
}

// ============================================================================
// Tick processing
// ============================================================================

// Update processes one timing beat. Beats while stopped or paused are
// silently ignored; beats during the delay window only age the delay.
func (m *Motion) Update(now time.Time) {
	m.mu.Lock()
	out := m.tickLocked(now)
	var opID uint64
	var detach func()
	if out.teardown {
		opID = m.operationID
		m.operationID = 0
		detach = m.tempoDetach
		m.tempoDetach = nil
	}
	m.mu.Unlock()

	if opID != 0 {
		m.registry.Unregister(m, opID)
	}
	if detach != nil {
		detach()
	}
	for _, t := range out.evs {
		m.notify.emit(Status{Type: t, Source: m, Time: now})
	}
}

func (m *Motion) tickLocked(now time.Time) tickOutcome {
	var out tickOutcome

	switch m.state {
	case Delayed:
		if m.startstamp.IsZero() {
			m.startstamp = now
			return out
		}
		if now.Sub(m.startstamp) < m.delay {
			return out
		}
		m.state = Moving
	case Moving:
	default:
		return out
	}

	// Rebase the timeline after a resume so paused time is excluded
	if m.resumeLatch {
		m.resumeLatch = false
		if m.pausedElapsed > 0 || !m.startTime.IsZero() {
			m.startTime = now.Add(-m.pausedElapsed)
			if m.duration > 0 {
				m.endTime = m.startTime.Add(m.duration)
			}
		}
		m.producer.resume(m, now)
	}

	// First beat of a leg latches the timebase
	if m.startTime.IsZero() {
		m.startTime = now
		if m.duration > 0 {
			m.endTime = m.startTime.Add(m.duration)
		}
		if !m.started {
			m.started = true
			out.evs = append(out.evs, StatusStarted)
		}
	}

	m.currentTime = now
	if m.duration > 0 && m.currentTime.After(m.endTime) {
		m.currentTime = m.endTime
	}

	// Produce, apply, account
	for i, s := range m.slots {
		m.scratch[i] = s.Current
	}
	m.producer.advance(m, now)
	for i, s := range m.slots {
		s.Delta = s.Current - m.scratch[i]
	}

	m.applyLocked()
	m.refreshProgressLocked()

	if m.producer.finished(m, now) {
		m.branchCompletionLocked(&out)
	} else {
		out.evs = append(out.evs, StatusUpdated)
	}
	return out
}

// applyLocked writes this tick's values to the target. The first
// additive tick is held off so slots establish their true starting
// position before deltas begin compounding.
func (m *Motion) applyLocked() {
	holdoff := false
	if m.additive && !m.additiveActive {
		m.additiveActive = true
		holdoff = true
	}

	if a, ok := m.producer.(applier); ok {
		a.applyValues(m, holdoff)
		return
	}
	if holdoff {
		return
	}

	if m.additive {
		for _, s := range m.slots {
			_ = m.adapter.Add(m.target, s.Channel, s.Delta*m.weighting)
		}
		return
	}
	for _, s := range m.slots {
		_ = m.adapter.Set(m.target, s.Channel, s.Current)
	}
}

// applyOneLocked writes a single slot, honoring additive mode
func (m *Motion) applyOneLocked(s *Slot) {
	if m.additive {
		if m.additiveActive {
			_ = m.adapter.Add(m.target, s.Channel, s.Delta*m.weighting)
		}
		return
	}
	_ = m.adapter.Set(m.target, s.Channel, s.Current)
}

// refreshProgressLocked recomputes leg and cycle progress. The last
// slot with a usable range is authoritative; slots share one timebase,
// so per-slot progress is expected to agree.
func (m *Motion) refreshProgressLocked() {
	p := m.motionProgress
	for _, s := range m.slots {
		if sp, ok := s.progress(m.direction); ok {
			p = sp
		}
	}
	m.motionProgress = p
	m.cycleProgress = m.toCycleProgress(p)
}

// branchCompletionLocked routes a finished leg, in order: plain
// completion, repeat cycling, reversing repeat cycling, reversing
// completion, then direction reversal for a finished forward leg
func (m *Motion) branchCompletionLocked(out *tickOutcome) {
	switch {
	case !m.reversing && !m.repeating:
		m.completeLocked(out)
	case m.repeating && !m.reversing:
		m.nextRepeatCycleLocked(out)
	case m.reversing && m.repeating && m.direction == Reverse:
		m.nextRepeatCycleLocked(out)
	case m.reversing && !m.repeating && m.direction == Reverse:
		m.completeLocked(out)
	default:
		m.reverseDirectionLocked(out)
	}
}

// reverseDirectionLocked flips onto the reverse leg; the next beat
// latches the leg's timebase
func (m *Motion) reverseDirectionLocked(out *tickOutcome) {
	m.direction = Reverse
	m.motionProgress = 0
	m.cycleProgress = 0.5
	m.startTime = time.Time{}
	m.endTime = time.Time{}
	m.producer.reverseLeg(m)
	out.evs = append(out.evs, StatusReversed)
}

// nextRepeatCycleLocked advances repeat accounting: cycle on when
// cycles remain (zero repeatCycles repeats forever), otherwise finalize
func (m *Motion) nextRepeatCycleLocked(out *tickOutcome) {
	m.cyclesCompleted++
	if m.repeatCycles == 0 || m.cyclesCompleted <= m.repeatCycles {
		out.evs = append(out.evs, StatusRepeated)
		if m.reversing && m.direction == Reverse &&
			m.cyclesCompleted == uint32(math.Round(float64(m.repeatCycles)/2)) {
			out.evs = append(out.evs, StatusHalfCompleted)
		}
		if m.reversing {
			m.direction = Forward
		}
		m.motionProgress = 0
		m.cycleProgress = 0
		for _, s := range m.slots {
			s.Current = s.Start
			s.Delta = 0
			if m.resetOnRepeat && !m.additive {
				_ = m.adapter.Set(m.target, s.Channel, s.Start)
			}
		}
		m.startTime = time.Time{}
		m.endTime = time.Time{}
		m.producer.reset(m)
		return
	}
	m.completeLocked(out)
}

// completeLocked finalizes the run: the producer takes its final say on
// slot values, progress pins to 1 and the motion stops
func (m *Motion) completeLocked(out *tickOutcome) {
	m.producer.finish(m)
	m.motionProgress = 1
	m.cycleProgress = 1
	m.completedFull = true
	m.state = Stopped
	m.zeroTimingLocked()
	out.teardown = true
	out.evs = append(out.evs, StatusCompleted)
}

// ============================================================================
// Progress conversion
// ============================================================================

// toCycleProgress folds leg progress into cycle progress: the forward
// leg of a reversing motion covers the first half, the reverse leg the
// second
func (m *Motion) toCycleProgress(motionProgress float64) float64 {
	if !m.reversing {
		return motionProgress
	}
	if m.direction == Forward {
		return motionProgress * 0.5
	}
	return motionProgress*0.5 + 0.5
}

// toMotionProgress inverts toCycleProgress exactly
func (m *Motion) toMotionProgress(cycleProgress float64) float64 {
	if !m.reversing {
		return cycleProgress
	}
	if cycleProgress < 0.5 {
		return cycleProgress * 2
	}
	return cycleProgress*2 - 1
}

// ============================================================================
// Telemetry
// ============================================================================

// State returns the current lifecycle state
func (m *Motion) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

// Direction returns the active leg of a reversing cycle
func (m *Motion) Direction() Direction {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.direction
}

// MotionProgress is the progress of the current leg, 0 to 1
func (m *Motion) MotionProgress() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.motionProgress
}

// CycleProgress is the progress of the current cycle, folding both legs
// of a reversing motion, 0 to 1
func (m *Motion) CycleProgress() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cycleProgress
}

// TotalProgress is the progress of the full run: cycle progress scaled
// across finite repeat cycles, or cycle progress itself otherwise
func (m *Motion) TotalProgress() float64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if m.repeating && m.repeatCycles > 0 && !m.completedFull {
		return (m.cycleProgress + float64(m.cyclesCompleted)) / float64(m.repeatCycles+1)
	}
	return m.cycleProgress
}

// CyclesCompleted counts finished repeat cycles
func (m *Motion) CyclesCompleted() uint32 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.cyclesCompleted
}

// Reversing reports whether each cycle runs forward then back
func (m *Motion) Reversing() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.reversing
}

// Repeating reports whether the motion cycles more than once
func (m *Motion) Repeating() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.repeating
}

// Additive reports whether the motion composes deltas via a registry
func (m *Motion) Additive() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.additive
}

// OperationID returns the additive registration id; zero means
// unregistered
func (m *Motion) OperationID() uint64 {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.operationID
}

// OnStatus subscribes to the status stream; the returned detach func
// unsubscribes
func (m *Motion) OnStatus(fn StatusFunc) (detach func()) {
	return m.notify.subscribe(fn)
}

// setReversing lets containers propagate their reversing mode before a
// run starts
func (m *Motion) setReversing(on bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == Stopped {
		m.reversing = on
	}
}

// currentValue reports the live value of a channel for additive handoff
func (m *Motion) currentValue(channel string) (float64, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	for _, s := range m.slots {
		if s.Channel == channel {
			return s.Current, true
		}
	}
	return 0, false
}

// channelNames lists the channels this motion animates, in slot order
func (m *Motion) channelNames() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.slots))
	for i, s := range m.slots {
		names[i] = s.Channel
	}
	return names
}
