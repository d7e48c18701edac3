package motion

import (
	"math"
	"testing"
	"time"
)

// ============================================================================
// Registry bookkeeping
// ============================================================================

func TestRegistryAssignsMonotonicIDs(t *testing.T) {
	reg := NewAdditiveRegistry()
	x := 0.0
	cfg := Config{Duration: time.Second, Additive: true, Registry: reg}

	m1, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m2, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 5}}, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	id1 := reg.Register(m1)
	id2 := reg.Register(m2)
	if id1 == 0 || id2 == 0 {
		t.Fatalf("ids must be non-zero: %d, %d", id1, id2)
	}
	if id2 <= id1 {
		t.Errorf("ids not monotonic: %d then %d", id1, id2)
	}
	if got := reg.Count(&x, "value"); got != 2 {
		t.Errorf("count = %d, want 2", got)
	}

	reg.Unregister(m1, id1)
	if got := reg.Count(&x, "value"); got != 1 {
		t.Errorf("count after unregister = %d, want 1", got)
	}
	reg.Unregister(m1, id1) // repeat is a no-op
	reg.Unregister(m1, 0)   // zero id ignored
	if got := reg.Count(&x, "value"); got != 1 {
		t.Errorf("count after no-op unregisters = %d, want 1", got)
	}
}

func TestStartRegistersStopUnregisters(t *testing.T) {
	reg := NewAdditiveRegistry()
	x := 0.0
	m, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, Config{
		Duration: time.Second,
		Additive: true,
		Registry: reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if m.OperationID() != 0 {
		t.Fatalf("operation id before start = %d, want 0", m.OperationID())
	}
	m.Start()
	if m.OperationID() == 0 {
		t.Fatal("operation id not assigned on start")
	}
	if got := reg.Count(&x, "value"); got != 1 {
		t.Fatalf("registered count = %d, want 1", got)
	}

	m.Stop()
	if m.OperationID() != 0 {
		t.Errorf("operation id after stop = %d, want 0", m.OperationID())
	}
	if got := reg.Count(&x, "value"); got != 0 {
		t.Errorf("registered count after stop = %d, want 0", got)
	}
}

func TestCompletionUnregisters(t *testing.T) {
	reg := NewAdditiveRegistry()
	x := 0.0
	m, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, Config{
		Duration: 100 * time.Millisecond,
		Additive: true,
		Registry: reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Start()
	pulse(m, testEpoch, 25*time.Millisecond, 6)

	if m.State() != Stopped {
		t.Fatalf("state = %v, want %v", m.State(), Stopped)
	}
	if got := reg.Count(&x, "value"); got != 0 {
		t.Errorf("registered count after completion = %d, want 0", got)
	}
}

// ============================================================================
// Handoff
// ============================================================================

func TestAdditiveHandoffSeedsStartFromPredecessor(t *testing.T) {
	reg := NewAdditiveRegistry()
	x := 0.0
	m1, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, Config{
		Duration: time.Second,
		Additive: true,
		Registry: reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m1.Start()
	m1.Update(testEpoch)
	m1.Update(testEpoch.Add(400 * time.Millisecond))

	mid, ok := m1.currentValue("value")
	if !ok {
		t.Fatal("currentValue missing channel")
	}
	if math.Abs(mid-4) > 1e-9 {
		t.Fatalf("predecessor current = %v, want 4", mid)
	}

	m2, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 20}}, Config{
		Duration: time.Second,
		Additive: true,
		Registry: reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m2.Start()

	if got, ok := m2.currentValue("value"); !ok || math.Abs(got-mid) > 1e-9 {
		t.Errorf("successor start = %v (ok=%v), want %v", got, ok, mid)
	}
}

func TestTargetValueExcludesRequester(t *testing.T) {
	reg := NewAdditiveRegistry()
	x := 0.0
	m, err := New(&x, []Prop{{Channel: "value", Start: 3, End: 10}}, Config{
		Duration: time.Second,
		Additive: true,
		Registry: reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	id := reg.Register(m)

	if _, ok := reg.TargetValue(&x, "value", id); ok {
		t.Error("sole registrant must not see itself")
	}
	if v, ok := reg.TargetValue(&x, "value", 0); !ok || v != 3 {
		t.Errorf("unfiltered lookup = %v (ok=%v), want 3", v, ok)
	}
}

// ============================================================================
// Delta composition
// ============================================================================

func TestAdditiveFirstTickHoldsOff(t *testing.T) {
	reg := NewAdditiveRegistry()
	x := 50.0
	m, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, Config{
		Duration: time.Second,
		Additive: true,
		Registry: reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Start()

	// The first beat establishes state without writing the target
	m.Update(testEpoch)
	if x != 50 {
		t.Errorf("target after first beat = %v, want 50", x)
	}

	m.Update(testEpoch.Add(100 * time.Millisecond))
	if x == 50 {
		t.Error("target unchanged after second beat")
	}
}

func TestAdditiveAppliesDeltasNotAbsolutes(t *testing.T) {
	reg := NewAdditiveRegistry()
	x := 100.0
	m, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, Config{
		Duration: time.Second,
		Additive: true,
		Registry: reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Start()

	// Handoff seeds the slot start from the live value, so the run
	// contributes the remaining span on top of it
	pulse(m, testEpoch, 100*time.Millisecond, 11)
	if m.State() != Stopped {
		t.Fatalf("state = %v, want %v", m.State(), Stopped)
	}
	if math.Abs(x-10) > 1e-6 {
		t.Errorf("final value = %v, want 10", x)
	}
}

func TestWeightingScalesContribution(t *testing.T) {
	reg := NewAdditiveRegistry()
	x := 0.0
	m, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, Config{
		Duration:  time.Second,
		Additive:  true,
		Weighting: 0.5,
		Registry:  reg,
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m.Start()
	pulse(m, testEpoch, 100*time.Millisecond, 11)

	// Half weighting contributes half the span
	if math.Abs(x-5) > 1e-6 {
		t.Errorf("final value = %v, want 5", x)
	}
}

func TestTwoAdditiveMotionsCompose(t *testing.T) {
	reg := NewAdditiveRegistry()
	x := 0.0
	cfg := Config{Duration: time.Second, Additive: true, Registry: reg}

	m1, err := New(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	m2, err := New(&x, []Prop{{Channel: "value", Start: 0, End: -4}}, cfg)
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	m1.Start()
	m2.Start()
	for i := 0; i <= 10; i++ {
		now := testEpoch.Add(time.Duration(i) * 100 * time.Millisecond)
		m1.Update(now)
		m2.Update(now)
	}

	if m1.State() != Stopped || m2.State() != Stopped {
		t.Fatalf("states = %v, %v, want both stopped", m1.State(), m2.State())
	}
	// Contributions sum: +10 from the first run, -4 from the second
	if math.Abs(x-6) > 1e-6 {
		t.Errorf("composed value = %v, want 6", x)
	}
}
