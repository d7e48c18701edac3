package path

import (
	"errors"
	"math"
	"sort"

	"github.com/lixenwraith/kinetic/geom"
)

var (
	ErrEmptyPath = errors.New("path: no elements")
	ErrNoMoveTo  = errors.New("path: first element must be a move")
)

type elementKind int

const (
	moveToKind elementKind = iota
	lineToKind
	quadToKind
	cubicToKind
)

// Element is one drawing command of a Bézier path
type Element struct {
	kind  elementKind
	ctrl1 geom.Point
	ctrl2 geom.Point
	to    geom.Point
}

// MoveTo starts a new subpath at to
func MoveTo(to geom.Point) Element {
	return Element{kind: moveToKind, to: to}
}

// LineTo draws a straight segment to to
func LineTo(to geom.Point) Element {
	return Element{kind: lineToKind, to: to}
}

// QuadTo draws a quadratic Bézier segment through one control point
func QuadTo(ctrl, to geom.Point) Element {
	return Element{kind: quadToKind, ctrl1: ctrl, to: to}
}

// CubicTo draws a cubic Bézier segment through two control points
func CubicTo(ctrl1, ctrl2, to geom.Point) Element {
	return Element{kind: cubicToKind, ctrl1: ctrl1, ctrl2: ctrl2, to: to}
}

// BezierPath is a Pather over a sequence of line and Bézier segments,
// parameterized by arc length so traversal speed is uniform along the
// curve. Immutable once constructed.
type BezierPath struct {
	segments   []segment
	cumulative []float64
	total      float64
}

type segment struct {
	start  geom.Point
	elem   Element
	length float64
}

// NewBezierPath builds an arc-length parameterized path. The first
// element must be a MoveTo; later MoveTo elements start disjoint
// subpaths that contribute no length.
func NewBezierPath(elements ...Element) (*BezierPath, error) {
	if len(elements) == 0 {
		return nil, ErrEmptyPath
	}
	if elements[0].kind != moveToKind {
		return nil, ErrNoMoveTo
	}

	p := &BezierPath{
		segments:   make([]segment, 0, len(elements)),
		cumulative: make([]float64, 0, len(elements)),
	}
	pen := elements[0].to
	for _, e := range elements {
		sg := segment{start: pen, elem: e}
		sg.length = sg.arcLength()
		p.total += sg.length
		p.segments = append(p.segments, sg)
		p.cumulative = append(p.cumulative, p.total)
		pen = e.to
	}
	return p, nil
}

// Length returns the summed arc length of all segments
func (p *BezierPath) Length() float64 { return p.total }

// PointAt returns the point a fraction u of the total arc length along
// the path, clamping u into [0, 1]
func (p *BezierPath) PointAt(u float64) geom.Point {
	if u <= 0 || p.total == 0 {
		return p.segments[0].elem.to
	}
	if u >= 1 {
		return p.segments[len(p.segments)-1].elem.to
	}

	target := u * p.total
	i := sort.SearchFloat64s(p.cumulative, target)
	if i >= len(p.segments) {
		i = len(p.segments) - 1
	}
	sg := p.segments[i]
	within := target
	if i > 0 {
		within -= p.cumulative[i-1]
	}
	return sg.pointAt(sg.tForLength(within))
}

// pointAt evaluates the segment at curve parameter t by de Casteljau
// subdivision
func (sg segment) pointAt(t float64) geom.Point {
	switch sg.elem.kind {
	case lineToKind:
		return sg.start.Lerp(sg.elem.to, t)
	case quadToKind:
		a := sg.start.Lerp(sg.elem.ctrl1, t)
		b := sg.elem.ctrl1.Lerp(sg.elem.to, t)
		return a.Lerp(b, t)
	case cubicToKind:
		a := sg.start.Lerp(sg.elem.ctrl1, t)
		b := sg.elem.ctrl1.Lerp(sg.elem.ctrl2, t)
		c := sg.elem.ctrl2.Lerp(sg.elem.to, t)
		ab := a.Lerp(b, t)
		bc := b.Lerp(c, t)
		return ab.Lerp(bc, t)
	default:
		return sg.elem.to
	}
}

// derivative evaluates the segment's velocity vector at t
func (sg segment) derivative(t float64) geom.Point {
	switch sg.elem.kind {
	case lineToKind:
		return sg.elem.to.Sub(sg.start)
	case quadToKind:
		d0 := sg.elem.ctrl1.Sub(sg.start).Scale(2 * (1 - t))
		d1 := sg.elem.to.Sub(sg.elem.ctrl1).Scale(2 * t)
		return d0.Add(d1)
	case cubicToKind:
		u := 1 - t
		d0 := sg.elem.ctrl1.Sub(sg.start).Scale(3 * u * u)
		d1 := sg.elem.ctrl2.Sub(sg.elem.ctrl1).Scale(6 * u * t)
		d2 := sg.elem.to.Sub(sg.elem.ctrl2).Scale(3 * t * t)
		return d0.Add(d1).Add(d2)
	default:
		return geom.Point{}
	}
}

// Abscissae and weights of 8-point Gauss-Legendre quadrature on [-1, 1]
var (
	gaussNodes = [8]float64{
		-0.9602898564975363, -0.7966664774136267, -0.5255324099163290, -0.1834346424956498,
		0.1834346424956498, 0.5255324099163290, 0.7966664774136267, 0.9602898564975363,
	}
	gaussWeights = [8]float64{
		0.1012285362903763, 0.2223810344533745, 0.3137066458778873, 0.3626837833783620,
		0.3626837833783620, 0.3137066458778873, 0.2223810344533745, 0.1012285362903763,
	}
)

// arcLength integrates the derivative magnitude over the full segment
func (sg segment) arcLength() float64 {
	switch sg.elem.kind {
	case moveToKind:
		return 0
	case lineToKind:
		return sg.start.Distance(sg.elem.to)
	default:
		return sg.lengthTo(1)
	}
}

// lengthTo integrates the derivative magnitude over [0, t]
func (sg segment) lengthTo(t float64) float64 {
	half := t / 2
	sum := 0.0
	for i, node := range gaussNodes {
		d := sg.derivative(half + half*node)
		sum += gaussWeights[i] * math.Hypot(d.X, d.Y)
	}
	return half * sum
}

// tForLength inverts lengthTo by bisection, returning the curve
// parameter at which the segment has covered the target length
func (sg segment) tForLength(target float64) float64 {
	if sg.length == 0 {
		return 0
	}
	if sg.elem.kind == lineToKind {
		return target / sg.length
	}
	lo, hi := 0.0, 1.0
	for i := 0; i < 32; i++ {
		mid := (lo + hi) / 2
		if sg.lengthTo(mid) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
