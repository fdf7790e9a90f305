package cmd

import (
	"context"
	"errors"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hyperjump/docscope/internal/server"
)

func newServeCmd() *cobra.Command {
	var scanOnStart bool
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API server",
		Long: `Starts the DocScope server: rebuilds the index from storage, serves the
search API, and (when watching is enabled in the config) keeps the index in
sync with filesystem changes.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(scanOnStart)
		},
	}
	cmd.Flags().BoolVar(&scanOnStart, "scan", false, "run an incremental scan after startup")
	return cmd
}

func runServe(scanOnStart bool) error {
	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()
	logger := env.logger

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	if err := env.svc.Bootstrap(ctx); err != nil {
		return err
	}

	if scanOnStart {
		go func() {
			if _, err := env.svc.RunScan(ctx, false); err != nil {
				logger.Warn("startup scan failed", zap.Error(err))
			}
		}()
	}
	if env.cfg.Watch.Enabled {
		go func() {
			if err := env.svc.Watch(ctx); err != nil && !errors.Is(err, context.Canceled) {
				logger.Error("watch loop stopped", zap.Error(err))
			}
		}()
	}

	srv := server.NewServer(env.svc, &env.cfg.Server, logger)
	errCh := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	select {
	case err := <-errCh:
		return err
	case sig := <-sigCh:
		logger.Info("shutting down", zap.String("signal", sig.String()))
	}

	cancel()
	stopCtx, stopCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer stopCancel()
	return srv.Stop(stopCtx)
}
