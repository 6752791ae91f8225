package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hamed0406/reachmon/internal/logging"
	"github.com/hamed0406/reachmon/internal/monitor"
)

func newOnceCmd(rf *rootFlags) *cobra.Command {
	var dryRun bool
	cmd := &cobra.Command{
		Use:   "once",
		Short: "Run one cycle and print a status table",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd, rf)
			log, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel, false)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			e, err := buildEngine(cmd.Context(), cfg, log, dryRun)
			if err != nil {
				return err
			}
			defer e.Close()

			e.runner.RunCycle(cmd.Context())
			printStatus(cmd.OutOrStdout(), e.registry.Snapshots())
			return nil
		},
	}
	cmd.Flags().BoolVar(&dryRun, "dry-run", false, "keep observations in memory instead of writing the log")
	return cmd
}

// printStatus writes the fixed-width console report.
func printStatus(w io.Writer, snaps []monitor.Snapshot) {
	fmt.Fprintf(w, "%-20s%-16s%-6s%-8s%-10s\n", "Name", "Host", "Type", "Status", "RTT (ms)")
	fmt.Fprintln(w, strings.Repeat("-", 70))
	for _, s := range snaps {
		rtt := "-"
		if s.LatencyMS != nil {
			rtt = fmt.Sprintf("%.2f", *s.LatencyMS)
		}
		fmt.Fprintf(w, "%-20s%-16s%-6s%-8s%-10s\n", s.Name, s.Host, s.Type, s.Status, rtt)
	}
}
