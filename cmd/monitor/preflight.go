package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
	"golang.org/x/crypto/bcrypt"

	"github.com/hamed0406/reachmon/internal/config"
)

func newPreflightCmd(rf *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "preflight",
		Short: "Check the target file and environment before starting",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd, rf)
			if n := preflight(cfg, cmd.OutOrStdout(), cmd.ErrOrStderr()); n > 0 {
				return fmt.Errorf("preflight failed with %d problem(s)", n)
			}
			return nil
		},
	}
}

// preflight prints one line per check and returns the number of fatal problems.
func preflight(cfg config.Config, out, errOut io.Writer) int {
	fails := 0
	fail := func(msg string) {
		fmt.Fprintln(errOut, "✖", msg)
		fails++
	}
	warn := func(msg string) { fmt.Fprintln(errOut, "⚠", msg) }
	ok := func(msg string) { fmt.Fprintln(out, "✔", msg) }

	eps, err := config.LoadTargets(cfg.ConfigPath)
	switch {
	case errors.Is(err, config.ErrConfigNotFound):
		fail("target file " + cfg.ConfigPath + " not found (set CONFIG_PATH or --config).")
	case err != nil:
		fail(err.Error())
	default:
		ok(fmt.Sprintf("%s: %d target(s)", cfg.ConfigPath, len(eps)))
		for _, w := range config.Lint(eps) {
			warn(w)
		}
	}

	if err := checkWritableDir(filepath.Dir(cfg.ResultLog)); err != nil {
		fail("RESULT_LOG directory not writable: " + err.Error())
	} else {
		ok("RESULT_LOG=" + cfg.ResultLog)
	}

	switch {
	case cfg.AuthUser == "" && cfg.AuthPasswordHash == "":
		warn("AUTH_USER/AUTH_PASSWORD_HASH empty; the status page is open to anyone who can reach ADDR.")
	case cfg.AuthUser == "" || cfg.AuthPasswordHash == "":
		fail("set both AUTH_USER and AUTH_PASSWORD_HASH, or neither.")
	default:
		if _, err := bcrypt.Cost([]byte(cfg.AuthPasswordHash)); err != nil {
			fail("AUTH_PASSWORD_HASH is not a bcrypt hash (use `monitor hash-password`).")
		} else {
			ok("basic auth enabled for " + cfg.AuthUser)
		}
	}

	ok("ADDR=" + cfg.Addr)
	if cfg.DatabaseURL == "" {
		warn("DATABASE_URL empty; observations go to the CSV log only.")
	} else {
		ok("DATABASE_URL present")
	}
	if !cfg.PingPrivileged {
		ok("ping uses unprivileged sockets (Linux needs net.ipv4.ping_group_range to include this user)")
	}

	if fails == 0 {
		ok("preflight passed")
	}
	return fails
}

func checkWritableDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	f, err := os.CreateTemp(dir, ".preflight-*")
	if err != nil {
		return err
	}
	name := f.Name()
	_ = f.Close()
	return os.Remove(name)
}
