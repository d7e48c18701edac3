package motion

import (
	"math"
	"testing"
	"time"

	"github.com/lixenwraith/kinetic/physics"
)

// ============================================================================
// Physics motions
// ============================================================================

func TestPhysicsMotionDecaysToRest(t *testing.T) {
	x := 0.0
	m, err := NewPhysics(&x, []Prop{{Channel: "value", Start: 0, End: 100}}, PhysicsConfig{
		Config: physics.Config{Velocity: 10, Friction: 0.5},
	}, Config{})
	if err != nil {
		t.Fatalf("NewPhysics: %v", err)
	}
	rec := &statusRecorder{}
	m.OnStatus(rec.record)

	m.Start()
	pulse(m, testEpoch, 500*time.Millisecond, 20)

	if m.State() != Stopped {
		t.Fatalf("state = %v, want %v after decay", m.State(), Stopped)
	}
	if got := rec.count(StatusCompleted); got != 1 {
		t.Errorf("completed count = %d, want 1", got)
	}
	if x <= 0 {
		t.Errorf("position did not advance: %v", x)
	}

	// Completion leaves the position where decay ended
	final := x
	m.Update(testEpoch.Add(time.Hour))
	if x != final {
		t.Errorf("position moved after completion: %v -> %v", final, x)
	}
}

func TestPhysicsMotionCollisionSticksAtBound(t *testing.T) {
	x := 0.0
	m, err := NewPhysics(&x, []Prop{{Channel: "value", Start: 0, End: 5}}, PhysicsConfig{
		Config: physics.Config{
			Velocity:           100,
			Friction:           0.5,
			Restitution:        0,
			CollisionDetection: true,
		},
	}, Config{})
	if err != nil {
		t.Fatalf("NewPhysics: %v", err)
	}
	m.Start()
	pulse(m, testEpoch, 100*time.Millisecond, 30)

	if m.State() != Stopped {
		t.Fatalf("state = %v, want %v", m.State(), Stopped)
	}
	if x != 5 {
		t.Errorf("resting position = %v, want 5 at the bound", x)
	}
}

func TestPhysicsMotionRestitutionBouncesBack(t *testing.T) {
	x := 0.0
	m, err := NewPhysics(&x, []Prop{{Channel: "value", Start: 0, End: 5}}, PhysicsConfig{
		Config: physics.Config{
			Velocity:           50,
			Friction:           0.3,
			Restitution:        0.8,
			CollisionDetection: true,
		},
	}, Config{})
	if err != nil {
		t.Fatalf("NewPhysics: %v", err)
	}
	m.Start()
	pulse(m, testEpoch, 100*time.Millisecond, 100)

	if m.State() != Stopped {
		t.Fatalf("state = %v, want %v", m.State(), Stopped)
	}
	if x < 0 || x > 5 {
		t.Errorf("resting position = %v, want within [0, 5]", x)
	}
	if x == 5 {
		t.Errorf("position stuck at bound despite restitution")
	}
}

func TestPhysicsMotionZeroVelocityCompletesImmediately(t *testing.T) {
	x := 0.0
	m, err := NewPhysics(&x, []Prop{{Channel: "value", Start: 0, End: 10}}, PhysicsConfig{
		Config: physics.Config{Velocity: 0, Friction: 0.1},
	}, Config{})
	if err != nil {
		t.Fatalf("NewPhysics: %v", err)
	}
	rec := &statusRecorder{}
	m.OnStatus(rec.record)

	m.Start()
	m.Update(testEpoch)

	if m.State() != Stopped {
		t.Errorf("state = %v, want %v", m.State(), Stopped)
	}
	if got := rec.count(StatusCompleted); got != 1 {
		t.Errorf("completed count = %d, want 1", got)
	}
	if x != 0 {
		t.Errorf("position moved: %v", x)
	}
}

func TestPhysicsMotionReversingReturns(t *testing.T) {
	x := 0.0
	m, err := NewPhysics(&x, []Prop{{Channel: "value", Start: 0, End: 100}}, PhysicsConfig{
		Config: physics.Config{Velocity: 10, Friction: 0.5},
	}, Config{
		Reversing: true,
	})
	if err != nil {
		t.Fatalf("NewPhysics: %v", err)
	}
	rec := &statusRecorder{}
	m.OnStatus(rec.record)

	m.Start()
	pulse(m, testEpoch, 500*time.Millisecond, 40)

	if got := rec.count(StatusReversed); got != 1 {
		t.Fatalf("reversed count = %d, want 1", got)
	}
	if got := rec.count(StatusCompleted); got != 1 {
		t.Fatalf("completed count = %d, want 1", got)
	}
	// The reverse leg retraces the decay, landing near the origin
	if math.Abs(x) > 0.5 {
		t.Errorf("final position = %v, want near 0", x)
	}
}

func TestPhysicsMotionPauseFreezesSubSchedule(t *testing.T) {
	x := 0.0
	m, err := NewPhysics(&x, []Prop{{Channel: "value", Start: 0, End: 1000}}, PhysicsConfig{
		Config: physics.Config{Velocity: 10, Friction: 0.1},
	}, Config{})
	if err != nil {
		t.Fatalf("NewPhysics: %v", err)
	}
	m.Start()
	m.Update(testEpoch)
	m.Update(testEpoch.Add(500 * time.Millisecond))
	frozen := x

	m.Pause()
	m.Update(testEpoch.Add(5 * time.Second))
	if x != frozen {
		t.Fatalf("position moved while paused: %v -> %v", frozen, x)
	}

	m.Resume()
	m.Update(testEpoch.Add(6 * time.Second))
	m.Update(testEpoch.Add(6500 * time.Millisecond))
	if x <= frozen {
		t.Errorf("position did not advance after resume: %v", x)
	}
}

func TestPhysicsMotionKeepsZeroWidthChannels(t *testing.T) {
	x := 0.0
	m, err := NewPhysics(&x, []Prop{{Channel: "value", Start: 0, End: 0}}, PhysicsConfig{
		Config: physics.Config{Velocity: 10, Friction: 0.5},
	}, Config{})
	if err != nil {
		t.Fatalf("NewPhysics: %v", err)
	}
	if got := len(m.channelNames()); got != 1 {
		t.Errorf("slot count = %d, want 1; physics keeps zero-width props", got)
	}
}
