package motion

import "errors"

// Configuration errors surfaced synchronously at construction. Lifecycle
// calls in inapplicable states are silently ignored, never errors.
var (
	// ErrNilTarget is returned when a motion is built without a target
	ErrNilTarget = errors.New("motion: nil target")

	// ErrNoChannels is returned when no animatable channels remain
	// after zero-width ranges are skipped
	ErrNoChannels = errors.New("motion: no animatable channels")

	// ErrNoDuration is returned when a timed motion has a non-positive
	// duration
	ErrNoDuration = errors.New("motion: duration must be positive")

	// ErrNoRegistry is returned when additive mode is requested without
	// a registry
	ErrNoRegistry = errors.New("motion: additive mode requires a registry")

	// ErrNilPath is returned when a path motion is built without path state
	ErrNilPath = errors.New("motion: nil path state")

	// ErrNoChildren is returned when a container is built empty
	ErrNoChildren = errors.New("motion: container requires at least one child")
)
