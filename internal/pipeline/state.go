package pipeline

import "fmt"

// Step identifies one stage of the bootstrap sequence.
type Step string

const (
	StepProvision Step = "provision"
	StepActivate  Step = "activate"
	StepInstall   Step = "install"
)

// State is the pipeline's lifecycle position.
type State int

const (
	StateNotStarted State = iota
	StateProvisioning
	StateActivating
	StateInstalling
	StateDone
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateNotStarted:
		return "NOT_STARTED"
	case StateProvisioning:
		return "PROVISIONING"
	case StateActivating:
		return "ACTIVATING"
	case StateInstalling:
		return "INSTALLING"
	case StateDone:
		return "DONE"
	case StateFailed:
		return "FAILED"
	default:
		return fmt.Sprintf("State(%d)", int(s))
	}
}

// IsTerminal reports whether the state is terminal.
func IsTerminal(s State) bool {
	return s == StateDone || s == StateFailed
}

// transition validates and applies a state change. The pipeline is strictly
// sequential, so anything outside the forward chain or a fail edge from a
// non-terminal state is a programming error surfaced loudly.
func transition(cur, next State) (State, error) {
	if !isAllowedTransition(cur, next) {
		return cur, fmt.Errorf("disallowed transition: %s -> %s", cur, next)
	}
	return next, nil
}

func isAllowedTransition(from, to State) bool {
	if to == StateFailed {
		return !IsTerminal(from)
	}
	switch from {
	case StateNotStarted:
		return to == StateProvisioning
	case StateProvisioning:
		return to == StateActivating
	case StateActivating:
		return to == StateInstalling
	case StateInstalling:
		return to == StateDone
	default:
		return false
	}
}
