package cmd

import (
	"context"
	"errors"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/hyperjump/docscope/internal/cli"
	"github.com/hyperjump/docscope/internal/service"
)

func newScanCmd() *cobra.Command {
	var full bool
	var serverURL string
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Scan the configured roots and update the index",
		Long: `Runs one scan pass over the configured roots. By default the scan is
incremental: unchanged files are skipped by stat fingerprint and content
hash. Use --full to re-read everything.

When a server URL is set (the default), the scan is requested over the HTTP
API so it runs inside the server process. Pass --server="" to scan directly
against storage when no server is running.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runScan(cmd, full, serverURL)
		},
	}
	cmd.Flags().BoolVar(&full, "full", false, "re-read every file instead of skipping unchanged ones")
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "server URL (empty = direct storage access)")
	return cmd
}

func runScan(cmd *cobra.Command, full bool, serverURL string) error {
	if serverURL != "" {
		stats, err := newAPIClient(serverURL).Scan(full)
		if err != nil {
			var apiErr *apiError
			if errors.As(err, &apiErr) && apiErr.Status == http.StatusConflict {
				return errors.New("a scan is already in progress")
			}
			return err
		}
		cli.WriteScanStats(cmd.OutOrStdout(), stats)
		return nil
	}

	env, err := openEnvironment()
	if err != nil {
		return err
	}
	defer env.Close()

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if err := env.svc.Bootstrap(ctx); err != nil {
		return err
	}
	stats, err := env.svc.RunScan(ctx, full)
	if err != nil {
		if errors.Is(err, service.ErrScanInProgress) {
			return errors.New("a scan is already in progress")
		}
		return err
	}
	cli.WriteScanStats(cmd.OutOrStdout(), stats)
	return nil
}
