package lifecycle

import "sync/atomic"

// Phase is the process serving phase reported by /health.
type Phase int32

const (
	// Starting is the phase before the listener is up.
	Starting Phase = iota
	// Serving accepts traffic.
	Serving
	// Draining is set on SIGTERM/SIGINT; health returns 503 so load balancers stop routing.
	Draining
)

func (p Phase) String() string {
	switch p {
	case Starting:
		return "starting"
	case Serving:
		return "serving"
	case Draining:
		return "shutting-down"
	default:
		return "unknown"
	}
}

var phase atomic.Int32

// Set moves the process to p.
func Set(p Phase) {
	phase.Store(int32(p))
}

// Current returns the process phase.
func Current() Phase {
	return Phase(phase.Load())
}

// IsShuttingDown reports whether the process is draining.
func IsShuttingDown() bool {
	return Current() == Draining
}
