// Package cli provides output formatting for the DocScope command line.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"
	"strings"
	"time"

	"github.com/hyperjump/docscope/internal/models"
	"github.com/hyperjump/docscope/internal/service"
	"github.com/hyperjump/docscope/pkg/utils"
)

// snippetDisplayLimit guards terminal output against oversized snippets from
// a server configured with a large snippet length.
const snippetDisplayLimit = 300

// SearchOutputFormat is the format for search result output.
type SearchOutputFormat string

const (
	// OutputText is human-readable text (default).
	OutputText SearchOutputFormat = "text"
	// OutputCompact is one result per line, for piping into other tools.
	OutputCompact SearchOutputFormat = "compact"
	// OutputJSON is structured JSON for machine consumption.
	OutputJSON SearchOutputFormat = "json"
)

// ParseOutputFormat converts a flag value into a SearchOutputFormat.
func ParseOutputFormat(s string) (SearchOutputFormat, error) {
	switch SearchOutputFormat(s) {
	case OutputText, OutputCompact, OutputJSON:
		return SearchOutputFormat(s), nil
	default:
		return "", fmt.Errorf("unknown output format %q; use text, compact, or json", s)
	}
}

// WriteSearchResults writes search results to w in the given format.
// Use OutputJSON for parseable output consumable by other apps.
func WriteSearchResults(w io.Writer, response *models.SearchResponse, format SearchOutputFormat) error {
	switch format {
	case OutputJSON:
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(response)
	case OutputCompact:
		writeSearchResultsCompact(w, response)
		return nil
	default:
		writeSearchResultsText(w, response)
		return nil
	}
}

func writeSearchResultsText(w io.Writer, response *models.SearchResponse) {
	fmt.Fprintf(w, "\nFound %d results in %dms (generation %d)\n\n",
		response.TotalCount, response.QueryTimeMS, response.Generation)
	for i, result := range response.Results {
		fmt.Fprintf(w, "─────────────────────────────────────────────────────────\n")
		fmt.Fprintf(w, "Rank: %d | Score: %.4f | %s\n", i+1, result.Score, result.Format)
		fmt.Fprintf(w, "ID: %s\n", result.DocumentID)
		if result.Title != "" {
			fmt.Fprintf(w, "Title: %s\n", result.Title)
		}
		fmt.Fprintf(w, "Path: %s\n", result.Path)
		if len(result.Tags) > 0 {
			fmt.Fprintf(w, "Tags: %s\n", strings.Join(result.Tags, ", "))
		}
		if result.Snippet != "" {
			fmt.Fprintf(w, "\n%s\n", utils.Truncate(result.Snippet, snippetDisplayLimit))
		}
		fmt.Fprintln(w)
	}
	if len(response.Facets) > 0 {
		writeFacets(w, response.Facets)
	}
	if len(response.Suggestions) > 0 {
		fmt.Fprintf(w, "No matches. Did you mean: %s?\n", strings.Join(response.Suggestions, ", "))
	}
}

func writeSearchResultsCompact(w io.Writer, response *models.SearchResponse) {
	for _, result := range response.Results {
		fmt.Fprintf(w, "%.4f\t%s\t%s\n", result.Score, result.DocumentID, result.Path)
	}
}

// writeFacets prints facet counts sorted by axis, then by descending count.
func writeFacets(w io.Writer, facets map[string]map[string]int) {
	axes := make([]string, 0, len(facets))
	for axis := range facets {
		axes = append(axes, axis)
	}
	sort.Strings(axes)
	fmt.Fprintln(w, "Facets:")
	for _, axis := range axes {
		type vc struct {
			value string
			count int
		}
		values := make([]vc, 0, len(facets[axis]))
		for v, c := range facets[axis] {
			values = append(values, vc{v, c})
		}
		sort.Slice(values, func(i, j int) bool {
			if values[i].count != values[j].count {
				return values[i].count > values[j].count
			}
			return values[i].value < values[j].value
		})
		parts := make([]string, len(values))
		for i, v := range values {
			parts[i] = fmt.Sprintf("%s (%d)", v.value, v.count)
		}
		fmt.Fprintf(w, "  %s: %s\n", axis, strings.Join(parts, ", "))
	}
}

// WriteScanStats prints the summary of one scan pass.
func WriteScanStats(w io.Writer, stats *service.ScanStats) {
	kind := "incremental"
	if stats.Full {
		kind = "full"
	}
	fmt.Fprintf(w, "Scan %s (%s) finished in %s\n", stats.PassID, kind, stats.Duration.Round(time.Millisecond))
	fmt.Fprintf(w, "  indexed:     %d\n", stats.Indexed)
	fmt.Fprintf(w, "  skipped:     %d\n", stats.Skipped)
	fmt.Fprintf(w, "  unreadable:  %d\n", stats.Unreadable)
	fmt.Fprintf(w, "  unsupported: %d\n", stats.Unsupported)
	fmt.Fprintf(w, "  added %d, updated %d, removed %d (generation %d)\n",
		stats.Added, stats.Updated, stats.Removed, stats.Generation)
}

// WriteStatus prints service status.
func WriteStatus(w io.Writer, status *service.Status) {
	fmt.Fprintf(w, "Documents:  %d\n", status.Documents)
	fmt.Fprintf(w, "Terms:      %d\n", status.Terms)
	fmt.Fprintf(w, "Generation: %d\n", status.Generation)
	fmt.Fprintf(w, "Storage:    %d bytes\n", status.StorageBytes)
	if status.LastScan != nil {
		fmt.Fprintf(w, "Last scan:  %s (%d indexed, %d removed)\n",
			status.LastScan.PassID, status.LastScan.Indexed, status.LastScan.Removed)
	}
}
