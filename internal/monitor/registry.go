package monitor

import (
	"fmt"

	"github.com/hamed0406/reachmon/internal/domain"
)

// Registry owns the fixed, ordered set of targets for the process lifetime.
type Registry struct {
	targets []*Target
}

// NewRegistry validates every endpoint up front; on any error no registry
// is built.
func NewRegistry(eps []domain.Endpoint) (*Registry, error) {
	r := &Registry{targets: make([]*Target, 0, len(eps))}
	for i, ep := range eps {
		if err := ep.Validate(); err != nil {
			return nil, fmt.Errorf("target[%d]: %w", i, err)
		}
		r.targets = append(r.targets, NewTarget(ep))
	}
	return r, nil
}

// Targets returns the targets in configuration order. The slice is a copy;
// the targets are shared.
func (r *Registry) Targets() []*Target {
	out := make([]*Target, len(r.targets))
	copy(out, r.targets)
	return out
}

func (r *Registry) Len() int { return len(r.targets) }

// Lookup finds the first target with the given name.
func (r *Registry) Lookup(name string) (*Target, bool) {
	for _, t := range r.targets {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// Snapshots returns a read model of every target in registry order.
func (r *Registry) Snapshots() []Snapshot {
	out := make([]Snapshot, 0, len(r.targets))
	for _, t := range r.targets {
		out = append(out, t.Snapshot())
	}
	return out
}
