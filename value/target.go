package value

import (
	"fmt"
	"sort"
	"sync"
)

// Binding couples a channel name to accessor closures over caller-owned
// state. Set may be nil for read-only channels.
type Binding struct {
	Channel string
	Get     func() float64
	Set     func(float64)
}

// Target exposes arbitrary application state as named channels through
// accessor closures, for types the built-in adapters do not cover.
type Target struct {
	mu       sync.RWMutex
	bindings map[string]Binding
}

// NewTarget builds a closure-backed target from channel bindings
func NewTarget(bindings ...Binding) *Target {
	t := &Target{bindings: make(map[string]Binding, len(bindings))}
	for _, b := range bindings {
		t.bindings[b.Channel] = b
	}
	return t
}

// Bind adds or replaces a channel binding
func (t *Target) Bind(b Binding) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.bindings[b.Channel] = b
}

func (t *Target) lookup(channel string) (Binding, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	b, ok := t.bindings[base(channel)]
	return b, ok
}

// TargetAdapter services *Target values
type TargetAdapter struct{}

func (TargetAdapter) Supports(target any) bool {
	_, ok := target.(*Target)
	return ok
}

func (TargetAdapter) Get(target any, channel string) (float64, error) {
	t, ok := target.(*Target)
	if !ok {
		return 0, fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	b, ok := t.lookup(channel)
	if !ok || b.Get == nil {
		return 0, fmt.Errorf("value: %w: %q", ErrUnknownChannel, channel)
	}
	return b.Get(), nil
}

func (TargetAdapter) Set(target any, channel string, v float64) error {
	t, ok := target.(*Target)
	if !ok {
		return fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	b, ok := t.lookup(channel)
	if !ok || b.Set == nil {
		return fmt.Errorf("value: %w: %q", ErrUnknownChannel, channel)
	}
	b.Set(v)
	return nil
}

func (a TargetAdapter) Add(target any, channel string, delta float64) error {
	cur, err := a.Get(target, channel)
	if err != nil {
		return err
	}
	return a.Set(target, channel, cur+delta)
}

// Decompose enumerates every bound channel whose current value differs
// from zero delta; from/to must be maps of channel name to value.
func (TargetAdapter) Decompose(target any, channel string, from, to any) ([]Spec, error) {
	_, ok := target.(*Target)
	if !ok {
		return nil, fmt.Errorf("value: %w: %T", ErrUnsupportedTarget, target)
	}
	f, okF := from.(map[string]float64)
	t, okT := to.(map[string]float64)
	if !okF || !okT {
		return nil, fmt.Errorf("value: %w: %T -> %T", ErrBadStates, from, to)
	}
	// Sorted for a stable slot order
	names := make([]string, 0, len(t))
	for name := range t {
		names = append(names, name)
	}
	sort.Strings(names)
	var specs []Spec
	for _, name := range names {
		start, present := f[name]
		end := t[name]
		if !present || start == end {
			continue
		}
		specs = append(specs, Spec{Channel: prefixed(channel, name), Start: start, End: end})
	}
	return specs, nil
}
