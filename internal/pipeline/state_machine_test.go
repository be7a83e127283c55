package pipeline

import "testing"

func TestForwardTransitions(t *testing.T) {
	chain := []State{StateNotStarted, StateProvisioning, StateActivating, StateInstalling, StateDone}

	cur := chain[0]
	for _, next := range chain[1:] {
		got, err := transition(cur, next)
		if err != nil {
			t.Fatalf("transition %s -> %s rejected: %v", cur, next, err)
		}
		cur = got
	}
	if !IsTerminal(cur) {
		t.Fatalf("expected terminal state, got %s", cur)
	}
}

func TestFailedReachableFromAnyNonTerminalState(t *testing.T) {
	for _, from := range []State{StateNotStarted, StateProvisioning, StateActivating, StateInstalling} {
		if _, err := transition(from, StateFailed); err != nil {
			t.Fatalf("fail edge from %s rejected: %v", from, err)
		}
	}
}

func TestTerminalStatesRejectTransitions(t *testing.T) {
	for _, from := range []State{StateDone, StateFailed} {
		for _, to := range []State{StateProvisioning, StateActivating, StateInstalling, StateDone, StateFailed} {
			if _, err := transition(from, to); err == nil {
				t.Fatalf("expected %s -> %s to be rejected", from, to)
			}
		}
	}
}

func TestSkippingStepsRejected(t *testing.T) {
	if _, err := transition(StateNotStarted, StateInstalling); err == nil {
		t.Fatalf("expected NOT_STARTED -> INSTALLING to be rejected")
	}
	if _, err := transition(StateProvisioning, StateDone); err == nil {
		t.Fatalf("expected PROVISIONING -> DONE to be rejected")
	}
}
