package probe

import (
	"context"
	"net"
	"strconv"
	"time"

	"github.com/hamed0406/reachmon/internal/domain"
)

// ErrMissingPort is the fixed error for TCP targets configured without a port.
const ErrMissingPort = "TCP check requires port"

// Dialer is satisfied by *net.Dialer.
type Dialer interface {
	DialContext(ctx context.Context, network, address string) (net.Conn, error)
}

// TCPProber measures one connection establishment.
type TCPProber struct {
	Dialer  Dialer
	Timeout time.Duration
}

func NewTCPProber() *TCPProber {
	return &TCPProber{Dialer: &net.Dialer{}, Timeout: DefaultTimeout}
}

func (p *TCPProber) Probe(ctx context.Context, ep domain.Endpoint) domain.Outcome {
	if !ep.HasPort() {
		return domain.Down(ErrMissingPort)
	}
	timeout := p.Timeout
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	ctx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	addr := net.JoinHostPort(ep.Host, strconv.Itoa(ep.Port))
	start := time.Now()
	conn, err := p.Dialer.DialContext(ctx, "tcp", addr)
	elapsed := time.Since(start)
	if err != nil {
		return domain.Down(describe(err, timeout))
	}
	_ = conn.Close()
	return domain.Up(millis(elapsed))
}
