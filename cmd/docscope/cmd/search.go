package cmd

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/hyperjump/docscope/internal/cli"
	"github.com/hyperjump/docscope/internal/models"
)

func newSearchCmd() *cobra.Command {
	var (
		serverURL    string
		limit        int
		offset       int
		sortBy       string
		filters      []string
		outputFormat string
	)
	cmd := &cobra.Command{
		Use:   "search [query...]",
		Short: "Search indexed documents",
		Long: `Searches the index with the full query grammar: bare terms, "quoted
phrases", field:term, AND/OR/NOT, prefix* wildcards, and term~2 fuzzy
matching. All positional arguments are joined by spaces, so multi-word
queries work with or without shell quoting.

Examples:
  docscope search docker compose
  docscope search '"docker compose" -deprecated'
  docscope search 'title:setup OR tag:howto'
  docscope search --filter format=markdown --filter year=2025 deploy
  docscope search --sort modified --limit 20 release notes`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			req := &models.SearchRequest{
				Query:  strings.TrimSpace(strings.Join(args, " ")),
				Limit:  limit,
				Offset: offset,
				SortBy: sortBy,
			}
			parsed, err := parseFilters(filters)
			if err != nil {
				return err
			}
			req.Filters = parsed
			format, err := cli.ParseOutputFormat(outputFormat)
			if err != nil {
				return err
			}
			return runSearch(cmd, req, serverURL, format)
		},
	}
	cmd.Flags().StringVar(&serverURL, "server", "http://localhost:8080", "server URL (empty = direct storage access)")
	cmd.Flags().IntVar(&limit, "limit", 0, "number of results (0 = server default)")
	cmd.Flags().IntVar(&offset, "offset", 0, "number of results to skip")
	cmd.Flags().StringVar(&sortBy, "sort", "", "sort order: relevance, modified, or title")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "facet filter as axis=value (repeatable)")
	cmd.Flags().StringVar(&outputFormat, "output", "text", "output format: text, compact, or json")
	return cmd
}

// parseFilters turns repeated axis=value flags into the request filter map.
// Repeating an axis ORs its values together.
func parseFilters(pairs []string) (map[string][]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string][]string)
	for _, pair := range pairs {
		axis, value, ok := strings.Cut(pair, "=")
		if !ok || axis == "" || value == "" {
			return nil, fmt.Errorf("invalid filter %q; use axis=value", pair)
		}
		filters[axis] = append(filters[axis], value)
	}
	return filters, nil
}

func runSearch(cmd *cobra.Command, req *models.SearchRequest, serverURL string, format cli.SearchOutputFormat) error {
	if serverURL != "" {
		response, err := newAPIClient(serverURL).Search(req)
		if err != nil {
			return err
		}
		return cli.WriteSearchResults(cmd.OutOrStdout(), response, format)
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
	response, err := env.svc.Search(ctx, req)
	if err != nil {
		return err
	}
	return cli.WriteSearchResults(cmd.OutOrStdout(), response, format)
}
