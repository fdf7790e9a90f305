package cmd

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/hyperjump/docscope/internal/cli"
)

func newStatusCmd() *cobra.Command {
	var serverURL string
	cmd := &cobra.Command{
		Use:     "status",
		Aliases: []string{"stats"},
		Short:   "Show document count, index generation, and last scan",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatus(cmd, serverURL)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "server URL (empty = direct storage access)")
	return cmd
}

func runStatus(cmd *cobra.Command, serverURL string) error {
	if serverURL != "" {
		status, err := newAPIClient(serverURL).Status()
		if err != nil {
			return err
		}
		cli.WriteStatus(cmd.OutOrStdout(), status)
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
	status, err := env.svc.Status(ctx)
	if err != nil {
		return err
	}
	cli.WriteStatus(cmd.OutOrStdout(), status)
	return nil
}
