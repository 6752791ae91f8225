package monitor

import (
	"sync"
	"time"

	"github.com/hamed0406/reachmon/internal/domain"
)

// State is the observed state of a target after its latest probe.
type State struct {
	Status        domain.Status
	LatencyMS     *float64
	LastCheckedAt time.Time
	LastError     string
}

// Target pairs an immutable endpoint with its observed state. The state is
// only written by a Recorder; readers get consistent copies.
type Target struct {
	domain.Endpoint

	mu      sync.RWMutex
	state   State
	history History
}

func NewTarget(ep domain.Endpoint) *Target {
	return &Target{
		Endpoint: ep,
		state:    State{Status: domain.StatusUnknown},
	}
}

// apply folds one outcome into the target as a single unit and returns
// the resulting state.
func (t *Target) apply(o domain.Outcome) State {
	t.mu.Lock()
	defer t.mu.Unlock()

	status := o.Status
	if status != domain.StatusUp {
		status = domain.StatusDown
	}
	t.history.Push(status)

	next := State{Status: status, LastCheckedAt: o.ObservedAt}
	if status == domain.StatusUp && o.LatencyMS != nil {
		v := *o.LatencyMS
		next.LatencyMS = &v
	}
	if status == domain.StatusDown {
		next.LastError = o.Error
	}
	t.state = next
	return copyState(next)
}

func (t *Target) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return copyState(t.state)
}

// History returns the recent statuses, oldest first.
func (t *Target) History() []domain.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.history.Items()
}

// UptimePercent is recomputed from the bounded history on every call.
func (t *Target) UptimePercent() float64 {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.history.UptimePercent()
}

// Snapshot is the read model handed to the presentation layer.
type Snapshot struct {
	Name          string        `json:"name"`
	Host          string        `json:"host"`
	Type          domain.Kind   `json:"type"`
	Port          *int          `json:"port"`
	Status        domain.Status `json:"status"`
	LatencyMS     *float64      `json:"last_latency_ms"`
	LastCheckedAt *time.Time    `json:"last_checked_at"`
	LastError     string        `json:"last_error,omitempty"`
	UptimePercent float64       `json:"uptime_percent"`
}

// Snapshot reads state and uptime under one lock so they always agree.
func (t *Target) Snapshot() Snapshot {
	t.mu.RLock()
	defer t.mu.RUnlock()

	st := copyState(t.state)
	s := Snapshot{
		Name:          t.Name,
		Host:          t.Host,
		Type:          t.Kind,
		Status:        st.Status,
		LatencyMS:     st.LatencyMS,
		LastError:     st.LastError,
		UptimePercent: t.history.UptimePercent(),
	}
	if t.HasPort() {
		p := t.Port
		s.Port = &p
	}
	if !st.LastCheckedAt.IsZero() {
		at := st.LastCheckedAt
		s.LastCheckedAt = &at
	}
	return s
}

func copyState(s State) State {
	if s.LatencyMS != nil {
		v := *s.LatencyMS
		s.LatencyMS = &v
	}
	return s
}
