package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hamed0406/reachmon/internal/httpapi"
	apimw "github.com/hamed0406/reachmon/internal/httpapi/middleware"
	"github.com/hamed0406/reachmon/internal/logging"
)

const shutdownGrace = 10 * time.Second

func newServeCmd(rf *rootFlags) *cobra.Command {
	var addr string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the status page and JSON API",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := loadConfig(cmd, rf)
			if cmd.Flags().Changed("addr") {
				cfg.Addr = addr
			}
			log, err := logging.NewLogger(cfg.LogDir, cfg.LogLevel, true)
			if err != nil {
				return err
			}
			defer func() { _ = log.Sync() }()

			ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			e, err := buildEngine(ctx, cfg, log, false)
			if err != nil {
				return err
			}
			defer e.Close()

			if !cfg.AuthEnabled() {
				log.Warn("auth_disabled", zap.String("hint", "set AUTH_USER and AUTH_PASSWORD_HASH"))
			}
			api := httpapi.NewServer(log, e.registry, e.runner, cfg.RefreshOnView)
			srv := &http.Server{
				Addr: cfg.Addr,
				Handler: api.Router(httpapi.Options{
					Credentials: apimw.Credentials{User: cfg.AuthUser, Hash: cfg.AuthPasswordHash},
					CycleRPM:    cfg.CycleRPM,
					CycleBurst:  cfg.CycleBurst,
				}),
				ReadHeaderTimeout: 5 * time.Second,
			}

			var wg sync.WaitGroup
			wg.Add(1)
			go func() {
				defer wg.Done()
				e.runner.Run(ctx)
			}()

			errCh := make(chan error, 1)
			go func() {
				log.Info("api_listen", zap.String("addr", cfg.Addr))
				if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
					errCh <- err
				}
				close(errCh)
			}()

			select {
			case <-ctx.Done():
				log.Info("shutdown_signal")
			case err := <-errCh:
				if err != nil {
					cancel()
					wg.Wait()
					return err
				}
			}

			shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), shutdownGrace)
			defer shutdownCancel()
			err = srv.Shutdown(shutdownCtx)
			cancel()
			// the loop returns after the cycle in progress, if any
			wg.Wait()
			log.Info("shutdown_complete")
			return err
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (overrides ADDR)")
	return cmd
}
