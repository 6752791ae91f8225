package main

import (
	"errors"
	"io/fs"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hamed0406/reachmon/internal/config"
)

type rootFlags struct {
	configPath  string
	concurrency int
}

func newRootCmd() *cobra.Command {
	var rf rootFlags
	root := &cobra.Command{
		Use:           "monitor",
		Short:         "Ping and TCP reachability monitor",
		Long:          `monitor probes a list of hosts by ICMP ping or TCP connect, tracks their status and uptime, and appends every observation to a CSV log.`,
		SilenceUsage:  true,
		SilenceErrors: false,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			// .env is optional; real environment variables win
			if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
				return err
			}
			return nil
		},
	}
	root.PersistentFlags().StringVar(&rf.configPath, "config", "", "target file (overrides CONFIG_PATH)")
	root.PersistentFlags().IntVar(&rf.concurrency, "concurrency", 0, "probes in flight per cycle (overrides CHECK_CONCURRENCY)")

	root.AddCommand(newOnceCmd(&rf))
	root.AddCommand(newServeCmd(&rf))
	root.AddCommand(newPreflightCmd(&rf))
	root.AddCommand(newHashPasswordCmd())
	return root
}

// loadConfig reads the environment, then applies any flags set on cmd.
func loadConfig(cmd *cobra.Command, rf *rootFlags) config.Config {
	cfg := config.FromEnv()
	if cmd.Flags().Changed("config") {
		cfg.ConfigPath = rf.configPath
	}
	if cmd.Flags().Changed("concurrency") && rf.concurrency > 0 {
		cfg.Concurrency = rf.concurrency
	}
	return cfg
}
