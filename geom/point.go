package geom

import (
	"fmt"
	"math"
)

// Point is a 2D position in continuous space
type Point struct {
	X float64
	Y float64
}

// Pt returns the point (x, y)
func Pt(x, y float64) Point {
	return Point{X: x, Y: y}
}

func (p Point) String() string {
	return fmt.Sprintf("(%g, %g)", p.X, p.Y)
}

// Add returns p translated by o
func (p Point) Add(o Point) Point {
	return Point{X: p.X + o.X, Y: p.Y + o.Y}
}

// Sub returns p - o
func (p Point) Sub(o Point) Point {
	return Point{X: p.X - o.X, Y: p.Y - o.Y}
}

// Scale returns p with both coordinates multiplied by s
func (p Point) Scale(s float64) Point {
	return Point{X: p.X * s, Y: p.Y * s}
}

// Lerp linearly interpolates from p to o by t
func (p Point) Lerp(o Point, t float64) Point {
	return Point{
		X: p.X + (o.X-p.X)*t,
		Y: p.Y + (o.Y-p.Y)*t,
	}
}

// Midpoint returns the midpoint of p and o
func (p Point) Midpoint(o Point) Point {
	return Point{
		X: 0.5 * (p.X + o.X),
		Y: 0.5 * (p.Y + o.Y),
	}
}

// Distance returns the euclidean distance between p and o
func (p Point) Distance(o Point) float64 {
	return math.Hypot(p.X-o.X, p.Y-o.Y)
}
