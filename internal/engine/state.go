package engine

// State is the playback state of an Engine.
type State int

const (
	// StateNone: no source, or the engine was disposed.
	StateNone State = iota
	// StateConnecting: a source is being opened.
	StateConnecting
	StateStopped
	StatePlaying
	StatePaused
	// StateBuffering: a seek is in flight or playback fell behind the clock.
	StateBuffering
	// StateCompleted: the source played to its end.
	StateCompleted
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateNone:
		return "None"
	case StateConnecting:
		return "Connecting"
	case StateStopped:
		return "Stopped"
	case StatePlaying:
		return "Playing"
	case StatePaused:
		return "Paused"
	case StateBuffering:
		return "Buffering"
	case StateCompleted:
		return "Completed"
	default:
		return "Unknown"
	}
}

// IsActive returns true while a pipeline worker may be running.
func (s State) IsActive() bool {
	return s == StatePlaying || s == StatePaused || s == StateBuffering
}

// HasSource returns true once a source has been opened successfully.
func (s State) HasSource() bool {
	return s != StateNone && s != StateConnecting
}

func stateIn(s State, allowed []State) bool {
	for _, a := range allowed {
		if s == a {
			return true
		}
	}
	return false
}
