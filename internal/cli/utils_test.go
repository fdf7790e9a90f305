package cli

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/hyperjump/docscope/internal/models"
	"github.com/hyperjump/docscope/internal/service"
)

func sampleResponse() *models.SearchResponse {
	return &models.SearchResponse{
		Query:      "docker",
		TotalCount: 2,
		Generation: 3,
		Results: []*models.SearchResult{
			{DocumentID: "file-aaa", Title: "Docker Setup", Path: "/docs/docker.md", Format: "markdown", Score: 1.5, Snippet: "install docker compose"},
			{DocumentID: "file-bbb", Title: "Compose", Path: "/docs/compose.md", Format: "markdown", Score: 0.9},
		},
		Facets: map[string]map[string]int{
			"format": {"markdown": 2},
		},
	}
}

func TestWriteSearchResults_text(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputText); err != nil {
		t.Fatal(err)
	}
	out := buf.String()
	for _, want := range []string{"Found 2 results", "Docker Setup", "/docs/docker.md", "Facets:", "markdown (2)"} {
		if !strings.Contains(out, want) {
			t.Errorf("text output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_compact(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputCompact); err != nil {
		t.Fatal(err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if len(lines) != 2 {
		t.Fatalf("compact output has %d lines, want 2:\n%s", len(lines), buf.String())
	}
	if !strings.Contains(lines[0], "file-aaa") {
		t.Errorf("first line = %q", lines[0])
	}
}

func TestWriteSearchResults_json(t *testing.T) {
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, sampleResponse(), OutputJSON); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), `"total_count": 2`) {
		t.Errorf("json output missing total_count:\n%s", buf.String())
	}
}

func TestWriteSearchResults_suggestions(t *testing.T) {
	var buf bytes.Buffer
	resp := &models.SearchResponse{Query: "dokcer", Suggestions: []string{"docker"}}
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(buf.String(), "Did you mean: docker?") {
		t.Errorf("output = %q", buf.String())
	}
}

func TestParseOutputFormat(t *testing.T) {
	for _, ok := range []string{"text", "compact", "json"} {
		if _, err := ParseOutputFormat(ok); err != nil {
			t.Errorf("ParseOutputFormat(%q) = %v", ok, err)
		}
	}
	if _, err := ParseOutputFormat("xml"); err == nil {
		t.Error("expected error for unknown format")
	}
}

func TestWriteScanStats(t *testing.T) {
	var buf bytes.Buffer
	WriteScanStats(&buf, &service.ScanStats{
		PassID: "p1", Full: true, Indexed: 3, Skipped: 1,
		Added: 2, Updated: 1, Generation: 4, Duration: 250 * time.Millisecond,
	})
	out := buf.String()
	for _, want := range []string{"p1", "full", "indexed:     3", "generation 4"} {
		if !strings.Contains(out, want) {
			t.Errorf("stats output missing %q:\n%s", want, out)
		}
	}
}

func TestWriteSearchResults_longSnippetTruncated(t *testing.T) {
	long := strings.Repeat("verbose snippet text ", 40)
	resp := &models.SearchResponse{
		Query:      "verbose",
		TotalCount: 1,
		Results:    []*models.SearchResult{{DocumentID: "file-ccc", Path: "/x.md", Snippet: long}},
	}
	var buf bytes.Buffer
	if err := WriteSearchResults(&buf, resp, OutputText); err != nil {
		t.Fatal(err)
	}
	if strings.Contains(buf.String(), long) {
		t.Error("oversized snippet printed unbounded")
	}
	if !strings.Contains(buf.String(), "...") {
		t.Error("truncated snippet missing ellipsis")
	}
}
