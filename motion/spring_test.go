package motion

import (
	"testing"
	"time"

	"github.com/lixenwraith/kinetic/geom"
)

// ============================================================================
// Spring motions
// ============================================================================

func TestSpringSettlesAtTarget(t *testing.T) {
	x := 0.0
	m, err := NewSpring(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, SpringConfig{
		Frequency: 6,
		Damping:   1, // critically damped, no overshoot
	}, Config{})
	if err != nil {
		t.Fatalf("NewSpring: %v", err)
	}
	rec := &statusRecorder{}
	m.OnStatus(rec.record)

	m.Start()
	pulse(m, testEpoch, 10*time.Millisecond, 600)

	if m.State() != Stopped {
		t.Fatalf("state = %v, want %v after settling", m.State(), Stopped)
	}
	if got := rec.count(StatusCompleted); got != 1 {
		t.Errorf("completed count = %d, want 1", got)
	}
	// Completion snaps the settled value onto the destination
	if x != 10 {
		t.Errorf("final value = %v, want exactly 10", x)
	}
}

func TestSpringCriticallyDampedStaysMonotonic(t *testing.T) {
	x := 0.0
	m, err := NewSpring(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, SpringConfig{
		Frequency: 4,
		Damping:   1,
	}, Config{})
	if err != nil {
		t.Fatalf("NewSpring: %v", err)
	}
	m.Start()

	prev := 0.0
	for i := 0; i < 600; i++ {
		m.Update(testEpoch.Add(time.Duration(i) * 10 * time.Millisecond))
		if x < prev-1e-9 {
			t.Fatalf("critically damped spring regressed at beat %d: %v < %v", i, x, prev)
		}
		prev = x
		if m.State() == Stopped {
			break
		}
	}
	if m.State() != Stopped {
		t.Fatal("spring did not settle")
	}
}

func TestSpringUnderdampedOvershoots(t *testing.T) {
	x := 0.0
	m, err := NewSpring(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, SpringConfig{
		Frequency: 8,
		Damping:   0.3,
	}, Config{})
	if err != nil {
		t.Fatalf("NewSpring: %v", err)
	}
	m.Start()

	peak := 0.0
	for i := 0; i < 1000; i++ {
		m.Update(testEpoch.Add(time.Duration(i) * 10 * time.Millisecond))
		if x > peak {
			peak = x
		}
		if m.State() == Stopped {
			break
		}
	}
	if m.State() != Stopped {
		t.Fatal("spring did not settle")
	}
	if peak <= 10 {
		t.Errorf("peak = %v, want overshoot past 10 at damping 0.3", peak)
	}
	if x != 10 {
		t.Errorf("final value = %v, want exactly 10", x)
	}
}

func TestSpringReversingReboundsHome(t *testing.T) {
	x := 0.0
	m, err := NewSpring(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, SpringConfig{
		Frequency: 6,
		Damping:   1,
	}, Config{
		Reversing: true,
	})
	if err != nil {
		t.Fatalf("NewSpring: %v", err)
	}
	rec := &statusRecorder{}
	m.OnStatus(rec.record)

	m.Start()
	pulse(m, testEpoch, 10*time.Millisecond, 1200)

	if got := rec.count(StatusReversed); got != 1 {
		t.Errorf("reversed count = %d, want 1", got)
	}
	if got := rec.count(StatusCompleted); got != 1 {
		t.Errorf("completed count = %d, want 1", got)
	}
	if x != 0 {
		t.Errorf("final value = %v, want exactly 0", x)
	}
}

func TestSpringMultiChannel(t *testing.T) {
	pt := geom.Pt(0, 0)
	m, err := NewSpring(&pt, []Prop{
		{Channel: "x", Start: 0, End: 4},
		{Channel: "y", Start: 0, End: -2},
	}, SpringConfig{
		Frequency: 6,
		Damping:   1,
	}, Config{})
	if err != nil {
		t.Fatalf("NewSpring: %v", err)
	}
	m.Start()
	pulse(m, testEpoch, 10*time.Millisecond, 600)

	if m.State() != Stopped {
		t.Fatalf("state = %v, want %v", m.State(), Stopped)
	}
	if pt.X != 4 || pt.Y != -2 {
		t.Errorf("settled point = %v, want (4, -2)", pt)
	}
}
