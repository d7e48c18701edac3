// Package tempo delivers the timing beats that drive motion updates.
// A Source pushes timestamps to attached listeners; motions never poll.
// Ticker provides a drift-corrected real-time beat, Manual a hand-cranked
// beat for deterministic tests.
package tempo

import "time"

// DefaultInterval is the standard beat interval (60 beats per second)
const DefaultInterval = time.Second / 60

// Listener receives beats from a Source
type Listener interface {
	Beat(now time.Time)
}

// ListenerFunc adapts a plain function to the Listener interface
type ListenerFunc func(now time.Time)

func (f ListenerFunc) Beat(now time.Time) {
	f(now)
}

// Source delivers timestamps to attached listeners in attach order.
// The returned detach func unsubscribes; calling it more than once is
// harmless.
type Source interface {
	Attach(l Listener) (detach func())
}
