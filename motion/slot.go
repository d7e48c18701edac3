package motion

import "math"

// Slot tracks the interpolation state of one scalar channel. The slot
// list of a motion is order-significant: the last slot's progress is
// authoritative for the whole motion.
type Slot struct {
	Channel string

	Start   float64
	Current float64
	End     float64

	// Delta is the change Current took on the most recent tick
	Delta float64

	// UseExistingStart reads the live target value as the starting
	// point when the motion starts
	UseExistingStart bool

	// configuredStart preserves the constructed starting value so
	// Reset can restore it after existing-start or additive handoff
	// rewrites Start
	configuredStart float64

	// onRestart notifies a bound producer that the starting position
	// moved and any integration state anchored to it is stale
	onRestart func(*Slot)
}

// SetStart rebases the slot's starting position. Current follows, and
// the restart notification fires for producers holding derived state.
func (s *Slot) SetStart(v float64) {
	s.Start = v
	s.Current = v
	s.Delta = 0
	if s.onRestart != nil {
		s.onRestart(s)
	}
}

// Range returns the signed interpolation span
func (s *Slot) Range() float64 {
	return s.End - s.Start
}

// progress returns how far Current has traveled along the leg in the
// given direction, in [0, 1]. Zero-range slots report no progress.
func (s *Slot) progress(d Direction) (float64, bool) {
	span := math.Abs(s.Range())
	if span == 0 {
		return 0, false
	}
	var p float64
	if d == Forward {
		p = math.Abs(s.Current-s.Start) / span
	} else {
		p = math.Abs(s.End-s.Current) / span
	}
	if p < 0 {
		p = 0
	}
	if p > 1 {
		p = 1
	}
	return p, true
}

// restore returns the slot to its constructed state
func (s *Slot) restore() {
	s.Start = s.configuredStart
	s.Current = s.configuredStart
	s.Delta = 0
}
