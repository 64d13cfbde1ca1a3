package workflow

import "fmt"

// StateMachine tracks the current submission state and validates transitions
type StateMachine interface {
	// State returns the current state
	State() State

	// CanFire returns true if the trigger is permitted in the current state
	CanFire(trigger Trigger) bool

	// Fire attempts to execute the trigger, transitioning to the new state if allowed
	Fire(trigger Trigger) error

	// PermittedTriggers returns all triggers that can be fired in the current state
	PermittedTriggers() []Trigger
}

// stateMachine implements StateMachine over a fixed transition table.
type stateMachine struct {
	currentState State
	transitions  map[State]map[Trigger]State
}

// submissionTransitions is the full lifecycle of one submission attempt:
//
//	Idle -> Validating -> Persisting -> PostProcessing -> Done
//	                 \-> Failed <-/          (Reset -> Idle)
//
// Validation and persistence failures both land in Failed; post-processing
// failures are warnings and never leave the success path.
var submissionTransitions = map[State]map[Trigger]State{
	StateIdle: {
		TriggerSubmit: StateValidating,
	},
	StateValidating: {
		TriggerValidated: StatePersisting,
		TriggerFail:      StateFailed,
	},
	StatePersisting: {
		TriggerPersisted: StatePostProcessing,
		TriggerFail:      StateFailed,
	},
	StatePostProcessing: {
		TriggerPostProcessed: StateDone,
	},
	StateFailed: {
		TriggerReset:  StateIdle,
		TriggerSubmit: StateValidating,
	},
}

// NewSubmissionMachine creates a machine positioned at the given initial
// state. Panics on an invalid state, mirroring a programming error.
func NewSubmissionMachine(initialState State) StateMachine {
	if !initialState.IsValid() {
		panic(fmt.Sprintf("invalid initial state: %s", initialState))
	}
	return &stateMachine{
		currentState: initialState,
		transitions:  submissionTransitions,
	}
}

// State returns the current state
func (m *stateMachine) State() State {
	return m.currentState
}

// CanFire returns true if the trigger is permitted in the current state
func (m *stateMachine) CanFire(trigger Trigger) bool {
	targets, ok := m.transitions[m.currentState]
	if !ok {
		return false
	}
	_, ok = targets[trigger]
	return ok
}

// Fire attempts to execute the trigger, transitioning to the new state if allowed
func (m *stateMachine) Fire(trigger Trigger) error {
	targets, ok := m.transitions[m.currentState]
	if !ok {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s (terminal)", ErrInvalidTransition, trigger, m.currentState)
	}
	toState, ok := targets[trigger]
	if !ok {
		return fmt.Errorf("%w: cannot fire trigger %s from state %s", ErrInvalidTransition, trigger, m.currentState)
	}
	m.currentState = toState
	return nil
}

// PermittedTriggers returns all triggers that can be fired in the current state
func (m *stateMachine) PermittedTriggers() []Trigger {
	targets, ok := m.transitions[m.currentState]
	if !ok {
		return []Trigger{}
	}
	triggers := make([]Trigger, 0, len(targets))
	for trigger := range targets {
		triggers = append(triggers, trigger)
	}
	return triggers
}
