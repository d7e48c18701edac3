package motion

// State represents the lifecycle state of a motion
type State int

const (
	// Stopped means the motion is not running; also the terminal state
	// after completion
	Stopped State = iota

	// Delayed means the motion has started but is waiting out its delay
	Delayed

	// Moving means the motion is actively producing values
	Moving

	// Paused means the motion is suspended and holding its elapsed time
	Paused
)

func (s State) String() string {
	switch s {
	case Stopped:
		return "Stopped"
	case Delayed:
		return "Delayed"
	case Moving:
		return "Moving"
	case Paused:
		return "Paused"
	default:
		return "Unknown"
	}
}

// Direction represents which leg of a reversing cycle is running
type Direction int

const (
	// Forward runs start to end
	Forward Direction = iota

	// Reverse runs end back to start
	Reverse
)

func (d Direction) String() string {
	switch d {
	case Forward:
		return "Forward"
	case Reverse:
		return "Reverse"
	default:
		return "Unknown"
	}
}
