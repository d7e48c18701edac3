package motion

import "sync"

// AdditiveRegistry coordinates motions composing deltas onto shared
// target channels. Each (target, channel) pair keeps its motions in
// registration order; the most recently registered motion's current
// value seeds the starting point of the next one so handoffs are
// jump-free.
//
// The registry is passed explicitly to every additive motion. It is
// the only structure shared across motions and is lock-guarded; it
// never calls into a motion while holding its own lock.
type AdditiveRegistry struct {
	mu      sync.Mutex
	nextID  uint64
	entries map[targetKey][]registration
}

// targetKey identifies one channel on one target. Targets must be
// pointer-identified so the key is comparable.
type targetKey struct {
	target  any
	channel string
}

type registration struct {
	id uint64
	m  *Motion
}

// NewAdditiveRegistry creates an empty registry
func NewAdditiveRegistry() *AdditiveRegistry {
	return &AdditiveRegistry{
		entries: make(map[targetKey][]registration),
	}
}

// Register assigns the motion a monotonically increasing non-zero
// operation id and records it under every channel it animates
func (r *AdditiveRegistry) Register(m *Motion) uint64 {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.nextID++
	id := r.nextID
	for _, ch := range m.channelNames() {
		key := targetKey{target: m.target, channel: ch}
		r.entries[key] = append(r.entries[key], registration{id: id, m: m})
	}
	return id
}

// Unregister removes every entry held by the given operation id.
// Unknown ids are ignored.
func (r *AdditiveRegistry) Unregister(m *Motion, id uint64) {
	if id == 0 {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, ch := range m.channelNames() {
		key := targetKey{target: m.target, channel: ch}
		regs := r.entries[key]
		for i, reg := range regs {
			if reg.id == id {
				r.entries[key] = append(regs[:i], regs[i+1:]...)
				break
			}
		}
		if len(r.entries[key]) == 0 {
			delete(r.entries, key)
		}
	}
}

// TargetValue returns the current value of the most recently registered
// other motion on the channel. The second return is false when no other
// additive motion owns the channel.
func (r *AdditiveRegistry) TargetValue(target any, channel string, excludeID uint64) (float64, bool) {
	r.mu.Lock()
	regs := r.entries[targetKey{target: target, channel: channel}]
	var candidate *Motion
	for i := len(regs) - 1; i >= 0; i-- {
		if regs[i].id != excludeID {
			candidate = regs[i].m
			break
		}
	}
	r.mu.Unlock()

	if candidate == nil {
		return 0, false
	}
	// Outside the registry lock: reading the candidate takes its own lock
	return candidate.currentValue(channel)
}

// Count returns how many motions are registered on the channel
func (r *AdditiveRegistry) Count(target any, channel string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries[targetKey{target: target, channel: channel}])
}
