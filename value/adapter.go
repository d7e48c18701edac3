// Package value maps motion output onto user-owned targets. Adapters
// translate between a target's representation and the scalar channels a
// motion interpolates; composite targets decompose into one channel per
// unequal component. Adapters use type assertions and caller-supplied
// accessors only, never reflection.
package value

import (
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrUnsupportedTarget is returned when no adapter recognizes a target type
	ErrUnsupportedTarget = errors.New("unsupported target type")

	// ErrUnknownChannel is returned when a channel name does not exist on a target
	ErrUnknownChannel = errors.New("unknown channel")

	// ErrBadStates is returned when decompose receives from/to values of the wrong type
	ErrBadStates = errors.New("mismatched state types")
)

// Spec describes one scalar channel produced by decomposing a value pair.
// Channels whose start and end are numerically equal are omitted.
type Spec struct {
	Channel string
	Start   float64
	End     float64
}

// Adapter reads and writes scalar channels on a target
type Adapter interface {
	// Supports reports whether this adapter can service the target
	Supports(target any) bool

	// Get returns the current value of a channel
	Get(target any, channel string) (float64, error)

	// Set overwrites a channel value
	Set(target any, channel string, v float64) error

	// Add applies a delta on top of the channel's current value
	Add(target any, channel string, delta float64) error

	// Decompose splits a from/to value pair into per-channel specs,
	// skipping channels with equal endpoints. A non-empty channel
	// argument prefixes the returned channel names.
	Decompose(target any, channel string, from, to any) ([]Spec, error)
}

var (
	adaptersMu sync.RWMutex
	adapters   = []Adapter{
		Float64Adapter{},
		PointAdapter{},
		RectAdapter{},
		TargetAdapter{},
	}
)

// RegisterAdapter prepends a custom adapter so it takes priority over built-ins
func RegisterAdapter(a Adapter) {
	adaptersMu.Lock()
	defer adaptersMu.Unlock()
	adapters = append([]Adapter{a}, adapters...)
}

// AdapterFor returns the first registered adapter supporting the target
func AdapterFor(target any) (Adapter, error) {
	adaptersMu.RLock()
	defer adaptersMu.RUnlock()
	for _, a := range adapters {
		if a.Supports(target) {
			return a, nil
		}
	}
	return nil, fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
}

// prefixed joins a parent channel path with a component name
func prefixed(parent, name string) string {
	if parent == "" {
		return name
	}
	return parent + "." + name
}
