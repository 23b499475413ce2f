// ABOUTME: Engine lifecycle states
// ABOUTME: Stopped, running and paused with string names for status reporting
package calmtv

// State is the engine lifecycle state
type State int32

const (
	StateStopped State = iota
	StateRunning
	StatePaused
)

func (s State) String() string {
	switch s {
	case StateStopped:
		return "stopped"
	case StateRunning:
		return "running"
	case StatePaused:
		return "paused"
	default:
		return "unknown"
	}
}

// ParseState converts a state name back to a State
func ParseState(name string) (State, bool) {
	switch name {
	case "stopped":
		return StateStopped, true
	case "running":
		return StateRunning, true
	case "paused":
		return StatePaused, true
	default:
		return StateStopped, false
	}
}
