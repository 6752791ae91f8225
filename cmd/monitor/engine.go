package main

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/hamed0406/reachmon/internal/config"
	"github.com/hamed0406/reachmon/internal/monitor"
	"github.com/hamed0406/reachmon/internal/probe"
	"github.com/hamed0406/reachmon/internal/repo"
	"github.com/hamed0406/reachmon/internal/repo/csvlog"
	"github.com/hamed0406/reachmon/internal/repo/memory"
	"github.com/hamed0406/reachmon/internal/repo/postgres"
	"github.com/hamed0406/reachmon/internal/scheduler"
)

// engine is the wired monitoring core shared by every command.
type engine struct {
	registry *monitor.Registry
	runner   *scheduler.Runner
	closers  []func()
}

func (e *engine) Close() {
	for i := len(e.closers) - 1; i >= 0; i-- {
		e.closers[i]()
	}
}

// buildEngine loads targets and wires probes, sinks and the runner.
// A config error is fatal; an unreachable database only disables the mirror.
func buildEngine(ctx context.Context, cfg config.Config, log *zap.Logger, dryRun bool) (*engine, error) {
	eps, err := config.LoadTargets(cfg.ConfigPath)
	if err != nil {
		return nil, err
	}
	for _, w := range config.Lint(eps) {
		log.Warn("config_warning", zap.String("detail", w))
	}
	reg, err := monitor.NewRegistry(eps)
	if err != nil {
		return nil, fmt.Errorf("build registry: %w", err)
	}

	e := &engine{registry: reg}

	var sink repo.RecordSink
	if dryRun {
		sink = memory.New()
	} else {
		sinks := repo.Fanout{csvlog.New(cfg.ResultLog)}
		if cfg.DatabaseURL != "" {
			if pg, err := openMirror(ctx, cfg.DatabaseURL, log); err != nil {
				log.Warn("postgres_mirror_disabled", zap.Error(err))
			} else {
				sinks = append(sinks, pg)
				e.closers = append(e.closers, pg.Close)
			}
		}
		sink = sinks
	}

	ping := &probe.PingProber{
		Pinger:   probe.ICMPPinger{Privileged: cfg.PingPrivileged},
		Count:    cfg.PingCount,
		Interval: cfg.PingInterval,
		Timeout:  cfg.ProbeTimeout,
	}
	tcp := probe.NewTCPProber()
	tcp.Timeout = cfg.ProbeTimeout

	e.runner = scheduler.NewRunner(
		log,
		reg,
		probe.NewSet(ping, tcp),
		monitor.NewRecorder(log, sink),
		cfg.CheckInterval,
		cfg.Concurrency,
	)
	log.Info("engine_ready",
		zap.Int("targets", reg.Len()),
		zap.String("config", cfg.ConfigPath),
		zap.String("result_log", cfg.ResultLog),
		zap.Bool("dry_run", dryRun),
		zap.Int("concurrency", e.runner.Concurrency),
	)
	return e, nil
}

func openMirror(ctx context.Context, dsn string, log *zap.Logger) (*postgres.Store, error) {
	pg, err := postgres.New(ctx, dsn, log)
	if err != nil {
		return nil, err
	}
	if err := pg.Migrate(ctx); err != nil {
		pg.Close()
		return nil, err
	}
	return pg, nil
}
