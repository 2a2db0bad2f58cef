package traffic

import (
	"sync"
	"time"
)

// Outcome classifies a finished API request.
type Outcome int

const (
	// Served is a 2xx response.
	Served Outcome = iota
	// Rejected is a client error (400 missing query, 404 unknown city).
	Rejected
	// Failed is a 5xx processing error.
	Failed
	// Denied is a rate-limit rejection (429).
	Denied
)

func (o Outcome) String() string {
	switch o {
	case Served:
		return "served"
	case Rejected:
		return "rejected"
	case Failed:
		return "failed"
	case Denied:
		return "denied"
	default:
		return "unknown"
	}
}

// Retention bounds memory; callers must not ask for windows longer than this.
const Retention = 5 * time.Minute

var defaultTracker = NewTracker(nil)

// Record records an outcome on the process-wide tracker.
func Record(o Outcome) {
	defaultTracker.Record(o)
}

// RequestCount returns the number of outcomes of any kind within the window.
func RequestCount(window time.Duration) int {
	return defaultTracker.RequestCount(window)
}

// DenialCount returns the number of rate-limit denials within the window.
func DenialCount(window time.Duration) int {
	return defaultTracker.Count(window, Denied)
}

// FailureRate returns (failed, total) within the window. total excludes denials.
func FailureRate(window time.Duration) (failed, total int) {
	return defaultTracker.FailureRate(window)
}

// Reset clears all recorded outcomes. For tests only.
func Reset() {
	defaultTracker.Reset()
}

type event struct {
	at      time.Time
	outcome Outcome
}

// Tracker keeps a time-ordered log of outcomes for sliding-window health decisions.
type Tracker struct {
	mu     sync.Mutex
	now    func() time.Time
	events []event
}

// NewTracker returns a Tracker using now as its clock (time.Now when nil).
func NewTracker(now func() time.Time) *Tracker {
	if now == nil {
		now = time.Now
	}
	return &Tracker{now: now}
}

// Record appends an outcome stamped with the current time and prunes expired entries.
func (t *Tracker) Record(o Outcome) {
	t.mu.Lock()
	defer t.mu.Unlock()
	now := t.now()
	t.events = append(t.events, event{at: now, outcome: o})
	t.pruneLocked(now)
}

// Count returns the number of outcomes matching any of kinds within the window.
func (t *Tracker) Count(window time.Duration, kinds ...Outcome) int {
	t.mu.Lock()
	defer t.mu.Unlock()
	cutoff := t.now().Add(-window)
	n := 0
	for _, e := range t.events {
		if e.at.Before(cutoff) {
			continue
		}
		for _, k := range kinds {
			if e.outcome == k {
				n++
				break
			}
		}
	}
	return n
}

// RequestCount returns the number of outcomes of any kind within the window.
func (t *Tracker) RequestCount(window time.Duration) int {
	return t.Count(window, Served, Rejected, Failed, Denied)
}

// FailureRate returns (failed, total) within the window; total counts served, rejected
// and failed requests. Denials are excluded so overload does not read as degradation.
func (t *Tracker) FailureRate(window time.Duration) (failed, total int) {
	failed = t.Count(window, Failed)
	return failed, failed + t.Count(window, Served, Rejected)
}

// Reset clears all recorded outcomes.
func (t *Tracker) Reset() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.events = nil
}

// pruneLocked drops events older than Retention. Events are appended in time order.
// Must be called with mutex held.
func (t *Tracker) pruneLocked(now time.Time) {
	cutoff := now.Add(-Retention)
	i := 0
	for ; i < len(t.events) && t.events[i].at.Before(cutoff); i++ {
	}
	if i > 0 {
		t.events = append(t.events[:0], t.events[i:]...)
	}
}
