package value

import (
	"fmt"
	"strings"

	"github.com/lixenwraith/kinetic/geom"
)

// base resolves a possibly prefixed channel path to its final component
func base(channel string) string {
	if i := strings.LastIndexByte(channel, '.'); i >= 0 {
		return channel[i+1:]
	}
	return channel
}

// Float64Adapter services bare *float64 targets. The channel name is
// ignored for access; a scalar has a single anonymous channel.
type Float64Adapter struct{}

func (Float64Adapter) Supports(target any) bool {
	_, ok := target.(*float64)
	return ok
}

func (Float64Adapter) Get(target any, channel string) (float64, error) {
	p, ok := target.(*float64)
	if !ok {
		return 0, fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	return *p, nil
}

func (Float64Adapter) Set(target any, channel string, v float64) error {
	p, ok := target.(*float64)
	if !ok {
		return fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	*p = v
	return nil
}

func (Float64Adapter) Add(target any, channel string, delta float64) error {
	p, ok := target.(*float64)
	if !ok {
		return fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	*p += delta
	return nil
}

func (Float64Adapter) Decompose(target any, channel string, from, to any) ([]Spec, error) {
	f, okF := from.(float64)
	t, okT := to.(float64)
	if !okF || !okT {
		return nil, fmt.Errorf("value: %w: %T -> %T", ErrBadStates, from, to)
	}
	if f == t {
		return nil, nil
	}
	return []Spec{{Channel: channel, Start: f, End: t}}, nil
}

// PointAdapter services *geom.Point targets with "x" and "y" channels
type PointAdapter struct{}

func (PointAdapter) Supports(target any) bool {
	_, ok := target.(*geom.Point)
	return ok
}

func (PointAdapter) Get(target any, channel string) (float64, error) {
	p, ok := target.(*geom.Point)
	if !ok {
		return 0, fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	switch base(channel) {
	case "x":
		return p.X, nil
	case "y":
		return p.Y, nil
	}
	return 0, fmt.Errorf("value: %w: %q", ErrUnknownChannel, channel)
}

func (PointAdapter) Set(target any, channel string, v float64) error {
	p, ok := target.(*geom.Point)
	if !ok {
		return fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	switch base(channel) {
	case "x":
		p.X = v
	case "y":
		p.Y = v
	default:
		return fmt.Errorf("value: %w: %q", ErrUnknownChannel, channel)
	}
	return nil
}

func (a PointAdapter) Add(target any, channel string, delta float64) error {
	cur, err := a.Get(target, channel)
	if err != nil {
		return err
	}
	return a.Set(target, channel, cur+delta)
}

func (PointAdapter) Decompose(target any, channel string, from, to any) ([]Spec, error) {
	f, okF := from.(geom.Point)
	t, okT := to.(geom.Point)
	if !okF || !okT {
		return nil, fmt.Errorf("value: %w: %T -> %T", ErrBadStates, from, to)
	}
	var specs []Spec
	if f.X != t.X {
		specs = append(specs, Spec{Channel: prefixed(channel, "x"), Start: f.X, End: t.X})
	}
	if f.Y != t.Y {
		specs = append(specs, Spec{Channel: prefixed(channel, "y"), Start: f.Y, End: t.Y})
	}
	return specs, nil
}

// RectAdapter services *geom.Rect targets with "x", "y", "width" and
// "height" channels
type RectAdapter struct{}

func (RectAdapter) Supports(target any) bool {
	_, ok := target.(*geom.Rect)
	return ok
}

func (RectAdapter) Get(target any, channel string) (float64, error) {
	r, ok := target.(*geom.Rect)
	if !ok {
		return 0, fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	switch base(channel) {
	case "x":
		return r.X, nil
	case "y":
		return r.Y, nil
	case "width":
		return r.Width, nil
	case "height":
		return r.Height, nil
	}
	return 0, fmt.Errorf("value: %w: %q", ErrUnknownChannel, channel)
}

func (RectAdapter) Set(target any, channel string, v float64) error {
	r, ok := target.(*geom.Rect)
	if !ok {
		return fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	switch base(channel) {
	case "x":
		r.X = v
	case "y":
		r.Y = v
	case "width":
		r.Width = v
	case "height":
		r.Height = v
	default:
		return fmt.Errorf("value: %w: %q", ErrUnknownChannel, channel)
	}
	return nil
}

func (a RectAdapter) Add(target any, channel string, delta float64) error {
	cur, err := a.Get(target, channel)
	if err != nil {
		return err
	}
	return a.Set(target, channel, cur+delta)
}

func (RectAdapter) Decompose(target any, channel string, from, to any) ([]Spec, error) {
	f, okF := from.(geom.Rect)
	t, okT := to.(geom.Rect)
	if !okF || !okT {
		return nil, fmt.Errorf("value: %w: %T -> %T", ErrBadStates, from, to)
	}
	var specs []Spec
	if f.X != t.X {
		specs = append(specs, Spec{Channel: prefixed(channel, "x"), Start: f.X, End: t.X})
	}
	if f.Y != t.Y {
		specs = append(specs, Spec{Channel: prefixed(channel, "y"), Start: f.Y, End: t.Y})
	}
	if f.Width != t.Width {
		specs = append(specs, Spec{Channel: prefixed(channel, "width"), Start: f.Width, End: t.Width})
	}
	if f.Height != t.Height {
		specs = append(specs, Spec{Channel: prefixed(channel, "height"), Start: f.Height, End: t.Height})
	}
	return specs, nil
}
