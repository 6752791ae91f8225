package scheduler

import (
	"context"
	"sync"
	"sync/atomic"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hamed0406/reachmon/internal/domain"
	"github.com/hamed0406/reachmon/internal/monitor"
	"github.com/hamed0406/reachmon/internal/probe"
)

// CycleStats summarises one pass over the registry.
type CycleStats struct {
	Checked      int           `json:"checked"`
	Up           int           `json:"up"`
	Down         int           `json:"down"`
	PersistFails int           `json:"persist_failures"`
	Duration     time.Duration `json:"duration_ns"`
}

// Runner probes every registered target and records the outcomes.
type Runner struct {
	Logger      *zap.Logger
	Registry    *monitor.Registry
	Prober      probe.Prober
	Recorder    *monitor.Recorder
	Interval    time.Duration
	Concurrency int

	mu sync.Mutex // one cycle at a time
}

func NewRunner(
	logger *zap.Logger,
	reg *monitor.Registry,
	prober probe.Prober,
	rec *monitor.Recorder,
	interval time.Duration,
	concurrency int,
) *Runner {
	if logger == nil {
		logger = zap.NewNop()
	}
	if concurrency < 1 {
		concurrency = 1
	}
	if interval < 0 {
		interval = 0
	}
	return &Runner{
		Logger:      logger,
		Registry:    reg,
		Prober:      prober,
		Recorder:    rec,
		Interval:    interval,
		Concurrency: concurrency,
	}
}

// Run does an immediate cycle, then one per tick until ctx is cancelled.
// A zero Interval disables the loop.
func (r *Runner) Run(ctx context.Context) {
	if r.Interval == 0 {
		r.Logger.Info("runner_disabled")
		return
	}
	t := time.NewTicker(r.Interval)
	defer t.Stop()

	r.RunCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			r.Logger.Info("runner_stopped")
			return
		case <-t.C:
			r.RunCycle(ctx)
		}
	}
}

// RunCycle probes each target exactly once and returns when every outcome
// has been recorded. Concurrent calls queue behind each other. Cancelling
// ctx does not cut a cycle short; each probe is bounded by its own timeout.
func (r *Runner) RunCycle(ctx context.Context) CycleStats {
	r.mu.Lock()
	defer r.mu.Unlock()

	ctx = context.WithoutCancel(ctx)
	start := time.Now()
	targets := r.Registry.Targets()

	var up, down, fails atomic.Int64
	check := func(t *monitor.Target) {
		out := r.Prober.Probe(ctx, t.Endpoint)
		if err := r.Recorder.Record(ctx, t, out); err != nil {
			fails.Add(1)
		}
		if out.Status == domain.StatusUp {
			up.Add(1)
		} else {
			down.Add(1)
		}
		r.Logger.Debug("target_checked",
			zap.String("name", t.Name),
			zap.String("host", t.Host),
			zap.String("type", string(t.Kind)),
			zap.String("status", string(out.Status)),
			zap.String("error", out.Error),
		)
	}

	if r.Concurrency <= 1 {
		for _, t := range targets {
			check(t)
		}
	} else {
		var g errgroup.Group
		g.SetLimit(r.Concurrency)
		for _, t := range targets {
			t := t
			g.Go(func() error {
				check(t)
				return nil
			})
		}
		_ = g.Wait()
	}

	st := CycleStats{
		Checked:      len(targets),
		Up:           int(up.Load()),
		Down:         int(down.Load()),
		PersistFails: int(fails.Load()),
		Duration:     time.Since(start),
	}
	r.Logger.Info("cycle_done",
		zap.Int("targets", st.Checked),
		zap.Int("up", st.Up),
		zap.Int("down", st.Down),
		zap.Int("persist_failures", st.PersistFails),
		zap.Duration("took", st.Duration),
	)
	return st
}
