package probe

import (
	"context"
	"fmt"
	"time"

	"github.com/hamed0406/reachmon/internal/domain"
)

// Defaults for a single probe.
const (
	DefaultTimeout      = time.Second
	DefaultPingCount    = 1
	DefaultPingInterval = 200 * time.Millisecond
)

// Prober performs one reachability test. It never returns an error: every
// failure is reported as a DOWN outcome with a message.
type Prober interface {
	Probe(ctx context.Context, ep domain.Endpoint) domain.Outcome
}

// Set dispatches an endpoint to the prober registered for its kind.
type Set map[domain.Kind]Prober

func NewSet(ping, tcp Prober) Set {
	return Set{domain.KindPing: ping, domain.KindTCP: tcp}
}

func (s Set) Probe(ctx context.Context, ep domain.Endpoint) (out domain.Outcome) {
	p, ok := s[ep.Kind]
	if !ok || p == nil {
		return domain.Down(fmt.Sprintf("no probe for type %q", ep.Kind))
	}
	defer func() {
		if r := recover(); r != nil {
			out = domain.Down(fmt.Sprintf("probe panic: %v", r))
		}
	}()
	return p.Probe(ctx, ep)
}

func millis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}
