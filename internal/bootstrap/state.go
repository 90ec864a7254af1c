package bootstrap

// State is a step of the bootstrap lifecycle.
type State int

const (
	StateUninitialized State = iota
	StateProbeRunning
	StateProbeFailed
	StateProbeOK
	StateAggregating
	StateReady
	StateExecuting
	StateCompleted
)

var stateNames = [...]string{
	StateUninitialized: "uninitialized",
	StateProbeRunning:  "probe_running",
	StateProbeFailed:   "probe_failed",
	StateProbeOK:       "probe_ok",
	StateAggregating:   "aggregating",
	StateReady:         "ready",
	StateExecuting:     "executing",
	StateCompleted:     "completed",
}

// String returns the state name used in logs.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}
	return stateNames[s]
}

// Terminal reports whether no further transition can happen.
func (s State) Terminal() bool {
	return s == StateProbeFailed || s == StateCompleted
}
