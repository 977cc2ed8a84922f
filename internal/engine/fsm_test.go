package engine

import (
	"errors"
	"testing"
)

func TestFSMHappyPath(t *testing.T) {
	m := NewFSM()
	for _, next := range []State{StatePlan, StateAct, StateSynthesize, StateEvaluate, StateDone} {
		if err := m.Transition(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
	if m.State() != StateDone {
		t.Fatalf("expected done, got %s", m.State())
	}
}

func TestFSMSkipSynthesize(t *testing.T) {
	m := NewFSM()
	for _, next := range []State{StatePlan, StateAct, StateEvaluate, StatePlan} {
		if err := m.Transition(next); err != nil {
			t.Fatalf("transition to %s: %v", next, err)
		}
	}
}

func TestFSMRejectsInvalidTransitions(t *testing.T) {
	tests := []struct {
		name string
		walk []State
		bad  State
	}{
		{"intake cannot act", nil, StateAct},
		{"plan cannot evaluate", []State{StatePlan}, StateEvaluate},
		{"act cannot plan", []State{StatePlan, StateAct}, StatePlan},
		{"synthesize cannot loop", []State{StatePlan, StateAct, StateSynthesize}, StateSynthesize},
		{"done is terminal", []State{StatePlan, StateAct, StateEvaluate, StateDone}, StatePlan},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := NewFSM()
			for _, next := range tc.walk {
				if err := m.Transition(next); err != nil {
					t.Fatalf("setup transition to %s: %v", next, err)
				}
			}
			err := m.Transition(tc.bad)
			var invalid *InvalidTransitionError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidTransitionError, got %v", err)
			}
			if invalid.To != tc.bad {
				t.Fatalf("error names wrong target: %+v", invalid)
			}
			if m.State() != StateFailed {
				t.Fatalf("rejected transition must land in failed, got %s", m.State())
			}
			if m.FailReason() == "" {
				t.Fatalf("failed state must record a reason")
			}
		})
	}
}

func TestFSMFailFromAnywhere(t *testing.T) {
	m := NewFSM()
	m.Transition(StatePlan)
	m.Fail("wall clock exceeded")

	if m.State() != StateFailed {
		t.Fatalf("expected failed, got %s", m.State())
	}
	if m.FailReason() != "wall clock exceeded" {
		t.Fatalf("unexpected reason %q", m.FailReason())
	}
}

func TestFSMReset(t *testing.T) {
	m := NewFSM()
	if err := m.Reset(); err == nil {
		t.Fatalf("reset from intake must be rejected")
	}

	m.Fail("boom")
	if err := m.Reset(); err != nil {
		t.Fatalf("reset from failed: %v", err)
	}
	if m.State() != StateIntake || m.FailReason() != "" {
		t.Fatalf("reset must clear state and reason, got %s %q", m.State(), m.FailReason())
	}
}
