package translation

// State is the health of one provider as seen by the chain.
type State int

const (
	StateUnknown State = iota
	StateHealthy
	StateDegraded
	StateUnhealthy
)

func (s State) String() string {
	switch s {
	case StateHealthy:
		return "healthy"
	case StateDegraded:
		return "degraded"
	case StateUnhealthy:
		return "unhealthy"
	default:
		return "unknown"
	}
}

// Usable reports whether the chain may send translation calls.
func (s State) Usable() bool {
	return s == StateHealthy || s == StateDegraded
}

// afterProbe: a successful probe heals any state.
func (s State) afterProbe(err error) State {
	if err != nil {
		return StateUnhealthy
	}

	return StateHealthy
}

// afterTranslateFailure: a failing call degrades a healthy provider but keeps it in use.
func (s State) afterTranslateFailure() State {
	if s == StateHealthy {
		return StateDegraded
	}

	return s
}
