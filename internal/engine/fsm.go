package engine

import "fmt"

// State is a review FSM state.
type State string

const (
	StateIntake     State = "intake"
	StatePlan       State = "plan"
	StateAct        State = "act"
	StateSynthesize State = "synthesize"
	StateEvaluate   State = "evaluate"
	StateDone       State = "done"
	StateFailed     State = "failed"
)

// transitions is the allowed-move table. Failed is reachable from any state via
// Fail; Done and Failed return to Intake only through Reset, never automatically.
var transitions = map[State][]State{
	StateIntake:     {StatePlan},
	StatePlan:       {StateAct},
	StateAct:        {StateSynthesize, StateEvaluate},
	StateSynthesize: {StateEvaluate},
	StateEvaluate:   {StatePlan, StateDone},
}

// InvalidTransitionError identifies a rejected (from, to) pair. The ledger and
// run context are untouched when it is returned.
type InvalidTransitionError struct {
	From State
	To   State
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid state transition %s -> %s", e.From, e.To)
}

// FSM sequences one review run. It is driven single-threaded at the control
// level; transitions never occur while scanner work is outstanding.
type FSM struct {
	state      State
	failReason string
}

// NewFSM starts in Intake.
func NewFSM() *FSM {
	return &FSM{state: StateIntake}
}

// State returns the current state.
func (m *FSM) State() State {
	return m.state
}

// FailReason returns the recorded reason when the FSM is in Failed.
func (m *FSM) FailReason() string {
	return m.failReason
}

// Transition attempts a move. A disallowed pair returns the typed failure and
// puts the FSM into Failed with that reason recorded, rather than raising an
// unhandled fault.
func (m *FSM) Transition(to State) error {
	if to == StateFailed {
		m.Fail(fmt.Sprintf("explicit failure from %s", m.state))
		return nil
	}
	for _, allowed := range transitions[m.state] {
		if allowed == to {
			m.state = to
			return nil
		}
	}
	err := &InvalidTransitionError{From: m.state, To: to}
	m.Fail(err.Error())
	return err
}

// Fail moves to Failed from any state, recording the reason.
func (m *FSM) Fail(reason string) {
	m.state = StateFailed
	m.failReason = reason
}

// Reset returns to Intake for an explicit new-run request. Only terminal
// states may be reset.
func (m *FSM) Reset() error {
	if m.state != StateDone && m.state != StateFailed {
		return &InvalidTransitionError{From: m.state, To: StateIntake}
	}
	m.state = StateIntake
	m.failReason = ""
	return nil
}
