package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
)

func newSuggestCmd() *cobra.Command {
	var serverURL string
	var limit int
	cmd := &cobra.Command{
		Use:   "suggest <prefix>",
		Short: "Suggest index terms completing a prefix",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSuggest(cmd, args[0], limit, serverURL)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "server URL (empty = direct storage access)")
	cmd.Flags().IntVar(&limit, "limit", 0, "maximum suggestions (0 = server default)")
	return cmd
}

func runSuggest(cmd *cobra.Command, prefix string, limit int, serverURL string) error {
	var terms []string
	var err error
	if serverURL != "" {
		terms, err = newAPIClient(serverURL).Suggest(prefix, limit)
	} else {
		var env *environment
		env, err = openEnvironment()
		if err != nil {
			return err
		}
		defer env.Close()
		ctx := cmd.Context()
		if ctx == nil {
			ctx = context.Background()
		}
		if err = env.svc.Bootstrap(ctx); err != nil {
			return err
		}
		terms, err = env.svc.Suggest(ctx, prefix, limit)
	}
	if err != nil {
		return err
	}
	for _, term := range terms {
		fmt.Fprintln(cmd.OutOrStdout(), term)
	}
	return nil
}
