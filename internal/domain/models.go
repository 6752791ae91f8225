package domain

import (
	"fmt"
	"strings"
	"time"
)

// Kind selects the reachability test used for an endpoint.
type Kind string

const (
	KindPing Kind = "ping"
	KindTCP  Kind = "tcp"
)

// ParseKind accepts the configuration spelling of a kind ("ping", "tcp").
func ParseKind(s string) (Kind, error) {
	switch k := Kind(strings.ToLower(strings.TrimSpace(s))); k {
	case KindPing, KindTCP:
		return k, nil
	default:
		return "", fmt.Errorf("unknown check type %q (use ping or tcp)", s)
	}
}

type Status string

const (
	StatusUnknown Status = "UNKNOWN"
	StatusUp      Status = "UP"
	StatusDown    Status = "DOWN"
)

const MaxPort = 65535

// Endpoint is the immutable identity of a monitored target.
// Port is 0 when absent; it is only meaningful for KindTCP.
type Endpoint struct {
	Name string `json:"name"`
	Host string `json:"host"`
	Kind Kind   `json:"type"`
	Port int    `json:"port,omitempty"`
}

func (e Endpoint) HasPort() bool { return e.Port > 0 }

// Validate rejects endpoints that cannot be built into a registry.
// A TCP endpoint without a port is valid: it is probed as permanently down.
func (e Endpoint) Validate() error {
	if strings.TrimSpace(e.Name) == "" {
		return fmt.Errorf("missing name")
	}
	if strings.TrimSpace(e.Host) == "" {
		return fmt.Errorf("target %q missing host", e.Name)
	}
	if e.Kind != KindPing && e.Kind != KindTCP {
		return fmt.Errorf("target %q has unknown type %q", e.Name, e.Kind)
	}
	if e.Port < 0 || e.Port > MaxPort {
		return fmt.Errorf("target %q port %d out of range 1..%d", e.Name, e.Port, MaxPort)
	}
	return nil
}

// Outcome is the transient result of one probe invocation.
type Outcome struct {
	Status     Status
	LatencyMS  *float64
	Error      string
	ObservedAt time.Time
}

// Up builds a successful outcome observed now.
func Up(latencyMS float64) Outcome {
	return Outcome{Status: StatusUp, LatencyMS: &latencyMS, ObservedAt: time.Now().UTC()}
}

// Down builds a failed outcome observed now.
func Down(msg string) Outcome {
	return Outcome{Status: StatusDown, Error: msg, ObservedAt: time.Now().UTC()}
}
