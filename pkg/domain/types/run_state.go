package types

import "fmt"

// RunState is the terminal state of a single reconciliation run
type RunState string

const (
	RunStateUpdated  RunState = "updated"
	RunStateNoChange RunState = "no_change"
	RunStateFailed   RunState = "failed"
)

// IsValid checks if the run state is valid
func (s RunState) IsValid() bool {
	switch s {
	case RunStateUpdated,
		RunStateNoChange,
		RunStateFailed:
		return true
	default:
		return false
	}
}

// String returns the string representation of the run state
func (s RunState) String() string {
	return string(s)
}

// ParseRunState parses a string into a RunState
func ParseRunState(s string) (RunState, error) {
	state := RunState(s)
	if !state.IsValid() {
		return "", fmt.Errorf("invalid run state: %s", s)
	}
	return state, nil
}
