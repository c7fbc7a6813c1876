package bt

import "fmt"

// NodeState is the result of evaluating a node on a tick.
type NodeState uint8

const (
	StateReady NodeState = iota
	StateSuccess
	StateFailure
	StateRunning
)

func (s NodeState) String() string {
	switch s {
	case StateReady:
		return "Ready"
	case StateSuccess:
		return "Success"
	case StateFailure:
		return "Failure"
	case StateRunning:
		return "Running"
	default:
		return fmt.Sprintf("NodeState(%d)", uint8(s))
	}
}

// Terminal reports whether s is SUCCESS or FAILURE.
func (s NodeState) Terminal() bool {
	return s == StateSuccess || s == StateFailure
}

// MarshalText renders the state by name so snapshots and logs stay readable.
func (s NodeState) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// UnmarshalText parses a state name produced by MarshalText.
func (s *NodeState) UnmarshalText(text []byte) error {
	switch string(text) {
	case "Ready":
		*s = StateReady
	case "Success":
		*s = StateSuccess
	case "Failure":
		*s = StateFailure
	case "Running":
		*s = StateRunning
	default:
		return fmt.Errorf("%w: %q", ErrUnknownState, text)
	}
	return nil
}

// normalize folds values outside the known set into SUCCESS.
func normalize(s NodeState) NodeState {
	switch s {
	case StateSuccess, StateFailure, StateRunning:
		return s
	default:
		return StateSuccess
	}
}
