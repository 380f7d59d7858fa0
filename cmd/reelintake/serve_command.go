package main

import (
	"errors"
	"fmt"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/gofrs/flock"
	"github.com/spf13/cobra"

	"reelintake/internal/logging"
	"reelintake/internal/server"
	"reelintake/internal/store"
)

func newServeCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the intake API server",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return fmt.Errorf("load config: %w", err)
			}

			signalCtx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer cancel()

			lockPath := filepath.Join(cfg.Paths.LogDir, "reelintake.lock")
			lock := flock.New(lockPath)
			locked, err := lock.TryLock()
			if err != nil {
				return fmt.Errorf("acquire instance lock: %w", err)
			}
			if !locked {
				return errors.New("another reelintake instance is already running")
			}
			defer func() {
				if err := lock.Unlock(); err != nil {
					fmt.Fprintf(cmd.ErrOrStderr(), "warn: release instance lock: %v\n", err)
				}
			}()

			logger, err := logging.NewFromConfig(cfg)
			if err != nil {
				return fmt.Errorf("init logger: %w", err)
			}

			st, err := store.Open(cfg)
			if err != nil {
				logger.Error("open store", logging.Error(err))
				return err
			}
			defer st.Close()

			srv, err := server.New(cfg, st, logger)
			if err != nil {
				return fmt.Errorf("create server: %w", err)
			}
			defer srv.Stop()

			if err := srv.Start(signalCtx); err != nil {
				logger.Error("start server", logging.Error(err))
				return err
			}

			<-signalCtx.Done()
			logger.Info("shutting down")
			return nil
		},
	}
}
