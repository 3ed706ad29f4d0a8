package pipeline

// State is a step of the round-control state machine.
type State int

const (
	StateCollecting State = iota
	StateValidating
	StateDeferredRound
	StateResolving
	StateEmitting
	StateDone
)

func (s State) String() string {
	switch s {
	case StateCollecting:
		return "collecting"
	case StateValidating:
		return "validating"
	case StateDeferredRound:
		return "deferred"
	case StateResolving:
		return "resolving"
	case StateEmitting:
		return "emitting"
	case StateDone:
		return "done"
	default:
		return "unknown"
	}
}
