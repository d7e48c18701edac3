// Package path provides traversal state over parameterized 2D paths.
// A Pather evaluates points along a normalized 0 to 1 span; State
// tracks a traversal position over one, applies an edge policy when
// traversal runs past an end and can precompute a lookup table for
// cheap repeated evaluation.
package path

import (
	"math"
	"sync"
	"sync/atomic"

	"github.com/lixenwraith/kinetic/geom"
)

const (
	// DefaultLookupResolution is the sample count used by
	// BeginPrecompute when none is given
	DefaultLookupResolution = 512

	maxLookupResolution = 8192
)

// EdgeBehavior selects what happens when traversal runs past an end of
// the path
type EdgeBehavior int

const (
	// StopAtEdges clamps traversal into the configured span
	StopAtEdges EdgeBehavior = iota
	// ContiguousEdges wraps traversal around, treating the path as a
	// closed loop
	ContiguousEdges
)

func (b EdgeBehavior) String() string {
	switch b {
	case StopAtEdges:
		return "stopAtEdges"
	case ContiguousEdges:
		return "contiguousEdges"
	default:
		return "unknown"
	}
}

// Pather evaluates a parameterized path
type Pather interface {
	// PointAt returns the point at normalized position u in [0, 1]
	PointAt(u float64) geom.Point
	// Length returns the total arc length
	Length() float64
}

// Line is a straight-segment Pather between two points
type Line struct {
	From, To geom.Point
}

func (l Line) PointAt(u float64) geom.Point { return l.From.Lerp(l.To, u) }
func (l Line) Length() float64              { return l.From.Distance(l.To) }

// State tracks a traversal position over a path. Position updates come
// from a single driving motion; the current position and point may be
// read from any goroutine.
type State struct {
	pather Pather
	edge   EdgeBehavior

	mu       sync.RWMutex
	position float64
	point    geom.Point

	lut atomic.Pointer[[]geom.Point]
}

// NewState wraps a pather with traversal state. The pather must be
// non-nil.
func NewState(p Pather, edge EdgeBehavior) *State {
	return &State{
		pather: p,
		edge:   edge,
		point:  p.PointAt(0),
	}
}

// EdgeBehavior returns the configured edge policy
func (s *State) EdgeBehavior() EdgeBehavior { return s.edge }

// Pather returns the wrapped path
func (s *State) Pather() Pather { return s.pather }

// Length returns the path's total arc length
func (s *State) Length() float64 { return s.pather.Length() }

// Position returns the last traversal position
func (s *State) Position() float64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.position
}

// CurrentPoint returns the point at the last traversal position
func (s *State) CurrentPoint() geom.Point {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.point
}

// PointAt resolves the point at u through the lookup table when one
// has been published, falling back to direct path evaluation
func (s *State) PointAt(u float64) geom.Point {
	if lut := s.lut.Load(); lut != nil {
		pts := *lut
		if n := len(pts); n > 1 {
			if u <= 0 {
				return pts[0]
			}
			if u >= 1 {
				return pts[n-1]
			}
			f := u * float64(n-1)
			i := int(f)
			if i >= n-1 {
				return pts[n-1]
			}
			return pts[i].Lerp(pts[i+1], f-float64(i))
		}
	}
	return s.pather.PointAt(u)
}

// MovePoint advances traversal to position u, applying the edge policy
// against the startEdge..endEdge span, and returns the resolved point
func (s *State) MovePoint(u, startEdge, endEdge float64) geom.Point {
	u = s.applyEdge(u, startEdge, endEdge)
	pt := s.PointAt(u)
	s.mu.Lock()
	s.position = u
	s.point = pt
	s.mu.Unlock()
	return pt
}

// applyEdge folds an out-of-range position back into the path: clamped
// into the span under StopAtEdges, wrapped around the loop under
// ContiguousEdges
func (s *State) applyEdge(u, startEdge, endEdge float64) float64 {
	if s.edge == ContiguousEdges {
		if u > 1 {
			return math.Min(u, 2) - 1
		}
		if u < 0 {
			return math.Abs(math.Max(u, -2) + 1)
		}
		return u
	}
	return math.Min(math.Max(u, startEdge), endEdge)
}

// BeginPrecompute samples the path into a lookup table on a background
// goroutine, publishing it atomically when complete. Resolution is
// clamped to [2, 8192], with zero and negative values selecting
// DefaultLookupResolution. Until the table is published, lookups
// evaluate the path directly.
func (s *State) BeginPrecompute(resolution int) {
	if resolution <= 0 {
		resolution = DefaultLookupResolution
	}
	if resolution < 2 {
		resolution = 2
	}
	if resolution > maxLookupResolution {
		resolution = maxLookupResolution
	}
	go func() {
		pts := make([]geom.Point, resolution)
		for i := range pts {
			pts[i] = s.pather.PointAt(float64(i) / float64(resolution-1))
		}
		s.lut.Store(&pts)
	}()
}
