package pipeline

import "fmt"

// State is a step of a single pipeline run
type State int

const (
	StateIdle State = iota
	StateAuthenticating
	StateRetrieving
	StateNormalizing
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateAuthenticating:
		return "authenticating"
	case StateRetrieving:
		return "retrieving"
	case StateNormalizing:
		return "normalizing"
	case StateDone:
		return "done"
	case StateFailed:
		return "failed"
	default:
		return fmt.Sprintf("state(%d)", int(s))
	}
}

// Terminal reports whether no further transition is possible
func (s State) Terminal() bool {
	return s == StateDone || s == StateFailed
}

// Only authenticating and retrieving may fail; normalizing always completes.
var transitions = map[State][]State{
	StateIdle:           {StateAuthenticating},
	StateAuthenticating: {StateRetrieving, StateFailed},
	StateRetrieving:     {StateNormalizing, StateFailed},
	StateNormalizing:    {StateDone},
}

// CanTransition reports whether from -> to is a legal step
func CanTransition(from, to State) bool {
	for _, next := range transitions[from] {
		if next == to {
			return true
		}
	}
	return false
}
