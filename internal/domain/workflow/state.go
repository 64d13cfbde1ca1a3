package workflow

// State represents a submission state in the invoice lifecycle
type State string

const (
	StateIdle           State = "IDLE"
	StateValidating     State = "VALIDATING"
	StatePersisting     State = "PERSISTING"
	StatePostProcessing State = "POST_PROCESSING"
	StateDone           State = "DONE"
	StateFailed         State = "FAILED"
)

var validStates = map[State]bool{
	StateIdle:           true,
	StateValidating:     true,
	StatePersisting:     true,
	StatePostProcessing: true,
	StateDone:           true,
	StateFailed:         true,
}

// Done is the only terminal state; Failed permits a Reset so the user can
// correct the draft and retry.
var terminalStates = map[State]bool{
	StateDone: true,
}

// IsTerminal returns true if the state is a terminal state (no further transitions allowed)
func (s State) IsTerminal() bool {
	return terminalStates[s]
}

// String returns the string representation of the state
func (s State) String() string {
	return string(s)
}

// IsValid returns true if the state is a valid submission state
func (s State) IsValid() bool {
	return validStates[s]
}

// AcceptsSubmit reports whether a new submit attempt may begin from this
// state. While a submission is persisting or post-processing, re-entrant
// submits are rejected.
func (s State) AcceptsSubmit() bool {
	return s == StateIdle || s == StateFailed
}
