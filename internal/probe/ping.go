package probe

import (
	"context"
	"fmt"
	"time"

	probing "github.com/prometheus-community/pro-bing"

	"github.com/hamed0406/reachmon/internal/domain"
)

// PingStats summarises one burst of echo requests.
type PingStats struct {
	Sent     int
	Received int
	AvgRTT   time.Duration // over received replies only
}

type PingOptions struct {
	Count    int
	Interval time.Duration
	Timeout  time.Duration // per attempt
}

// Budget is the longest a burst may take: the last request is sent after
// Count-1 intervals and then waits Timeout for its reply.
func (o PingOptions) Budget() time.Duration {
	n := o.Count
	if n < 1 {
		n = 1
	}
	return o.Timeout + time.Duration(n-1)*o.Interval
}

// Pinger sends ICMP echo requests to a host.
type Pinger interface {
	Ping(ctx context.Context, host string, opts PingOptions) (PingStats, error)
}

// ICMPPinger is the pro-bing backed Pinger. Unprivileged mode uses UDP
// "ping sockets" and needs net.ipv4.ping_group_range on Linux.
type ICMPPinger struct {
	Privileged bool
}

func (p ICMPPinger) Ping(ctx context.Context, host string, opts PingOptions) (PingStats, error) {
	pinger, err := probing.NewPinger(host)
	if err != nil {
		return PingStats{}, err
	}
	pinger.Count = opts.Count
	pinger.Interval = opts.Interval
	pinger.Timeout = opts.Budget()
	pinger.SetPrivileged(p.Privileged)

	if err := pinger.RunWithContext(ctx); err != nil {
		return PingStats{}, err
	}
	st := pinger.Statistics()
	return PingStats{Sent: st.PacketsSent, Received: st.PacketsRecv, AvgRTT: st.AvgRtt}, nil
}

// PingProber reports UP when at least one echo reply comes back, however
// high the loss, with the average round trip of the replies as latency.
type PingProber struct {
	Pinger   Pinger
	Count    int
	Interval time.Duration
	Timeout  time.Duration
}

func NewPingProber(privileged bool) *PingProber {
	return &PingProber{
		Pinger:   ICMPPinger{Privileged: privileged},
		Count:    DefaultPingCount,
		Interval: DefaultPingInterval,
		Timeout:  DefaultTimeout,
	}
}

func (p *PingProber) options() PingOptions {
	o := PingOptions{Count: p.Count, Interval: p.Interval, Timeout: p.Timeout}
	if o.Count < 1 {
		o.Count = DefaultPingCount
	}
	if o.Interval <= 0 {
		o.Interval = DefaultPingInterval
	}
	if o.Timeout <= 0 {
		o.Timeout = DefaultTimeout
	}
	return o
}

func (p *PingProber) Probe(ctx context.Context, ep domain.Endpoint) domain.Outcome {
	opts := p.options()

	// small grace over the burst budget so the pinger's own timeout fires first
	ctx, cancel := context.WithTimeout(ctx, opts.Budget()+250*time.Millisecond)
	defer cancel()

	st, err := p.Pinger.Ping(ctx, ep.Host, opts)
	if err != nil {
		return domain.Down(describe(err, opts.Budget()))
	}
	if st.Received == 0 {
		sent := st.Sent
		if sent == 0 {
			sent = opts.Count
		}
		return domain.Down(fmt.Sprintf("no reply from %s (%d/%d packets lost)", ep.Host, sent, sent))
	}
	return domain.Up(millis(st.AvgRTT))
}
