package monitor

// State is a phase of the run loop.
type State int

// Run loop states. Resolving happens once, Polling and Waiting alternate until Terminated.
const (
	StateIdle State = iota
	StateResolving
	StatePolling
	StateWaiting
	StateTerminated
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateResolving:
		return "resolving"
	case StatePolling:
		return "polling"
	case StateWaiting:
		return "waiting"
	case StateTerminated:
		return "terminated"
	default:
		return "unknown"
	}
}
