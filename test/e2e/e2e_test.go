package e2e

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/hyperjump/docscope/internal/config"
	"github.com/hyperjump/docscope/internal/models"
	"github.com/hyperjump/docscope/internal/service"
	"github.com/hyperjump/docscope/internal/storage"
)

func startService(t *testing.T, root string) *service.Service {
	t.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	cfg.Scanner.Roots = []string{root}
	cfg.Scanner.Workers = 4
	cfg.Storage.DatabasePath = filepath.Join(t.TempDir(), "docs.db")
	cfg.Storage.LockPath = ""

	store, err := storage.NewSQLiteStorage(cfg.Storage.DatabasePath)
	if err != nil {
		t.Fatal(err)
	}
	svc, err := service.New(cfg, store)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { svc.Close() })
	return svc
}

func TestLifecycle_everyDocumentFindable(t *testing.T) {
	root := t.TempDir()
	docs, err := writeCorpus(root)
	if err != nil {
		t.Fatal(err)
	}

	svc := startService(t, root)
	ctx := context.Background()
	stats, err := svc.RunScan(ctx, true)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Indexed != len(docs) {
		t.Fatalf("indexed %d of %d corpus files (stats %+v)", stats.Indexed, len(docs), stats)
	}

	// Each marker term resolves to exactly its own document.
	for _, doc := range docs {
		marker := markerOf(doc)
		if marker == "" {
			continue
		}
		resp, err := svc.Search(ctx, &models.SearchRequest{Query: marker})
		if err != nil {
			t.Fatalf("search %q: %v", marker, err)
		}
		if resp.TotalCount != 1 {
			t.Errorf("%q matched %d documents", marker, resp.TotalCount)
			continue
		}
		want := filepath.Join(root, filepath.FromSlash(doc.RelPath))
		if resp.Results[0].Path != want {
			t.Errorf("%q resolved to %s, want %s", marker, resp.Results[0].Path, want)
		}
	}
}

func TestLifecycle_metadataFromFrontMatter(t *testing.T) {
	root := t.TempDir()
	if _, err := writeCorpus(root); err != nil {
		t.Fatal(err)
	}
	svc := startService(t, root)
	ctx := context.Background()
	if _, err := svc.RunScan(ctx, true); err != nil {
		t.Fatal(err)
	}

	resp, err := svc.Search(ctx, &models.SearchRequest{Query: "markerdeploy"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalCount != 1 {
		t.Fatalf("TotalCount = %d", resp.TotalCount)
	}
	hit := resp.Results[0]
	if hit.Title != "Deployment Guide" || hit.Category != "ops" {
		t.Errorf("hit = %+v", hit)
	}

	// The same document is reachable through attribute queries.
	resp, err = svc.Search(ctx, &models.SearchRequest{Query: "tag:howto"})
	if err != nil {
		t.Fatal(err)
	}
	if resp.TotalCount != 1 {
		t.Errorf("tag:howto matched %d documents", resp.TotalCount)
	}
}

func TestLifecycle_queryGrammarOverCorpus(t *testing.T) {
	root := t.TempDir()
	if _, err := writeCorpus(root); err != nil {
		t.Fatal(err)
	}
	svc := startService(t, root)
	ctx := context.Background()
	if _, err := svc.RunScan(ctx, true); err != nil {
		t.Fatal(err)
	}

	tests := []struct {
		query string
		want  int
	}{
		{`"zero downtime"`, 1},
		{"markerdeploy OR markerbackup", 2},
		{"guide -backup", 1},
		{"markerbill*", 1},
		{"markrdeploy~2", 1},
		{"title:about", 1},
		{"format:html", 1},
	}
	for _, tt := range tests {
		resp, err := svc.Search(ctx, &models.SearchRequest{Query: tt.query})
		if err != nil {
			t.Errorf("search %q: %v", tt.query, err)
			continue
		}
		if resp.TotalCount != tt.want {
			t.Errorf("%q matched %d, want %d", tt.query, resp.TotalCount, tt.want)
		}
	}
}

func TestLifecycle_suggestCompletesMarkers(t *testing.T) {
	root := t.TempDir()
	if _, err := writeCorpus(root); err != nil {
		t.Fatal(err)
	}
	svc := startService(t, root)
	ctx := context.Background()
	if _, err := svc.RunScan(ctx, true); err != nil {
		t.Fatal(err)
	}

	terms, err := svc.Suggest(ctx, "marker", 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(terms) != 7 {
		t.Errorf("suggest returned %v", terms)
	}
}

func TestLifecycle_editAndRemoveRoundTrip(t *testing.T) {
	root := t.TempDir()
	if _, err := writeCorpus(root); err != nil {
		t.Fatal(err)
	}
	svc := startService(t, root)
	ctx := context.Background()
	if _, err := svc.RunScan(ctx, true); err != nil {
		t.Fatal(err)
	}

	// Edit one document, remove another, rescan incrementally.
	backup := filepath.Join(root, "guides", "backup.md")
	if err := os.WriteFile(backup, []byte("# Backup Strategy\n\nWeekly tapes now. markerbackup\n"), 0644); err != nil {
		t.Fatal(err)
	}
	if err := os.Remove(filepath.Join(root, "notes", "meeting.txt")); err != nil {
		t.Fatal(err)
	}

	stats, err := svc.RunScan(ctx, false)
	if err != nil {
		t.Fatal(err)
	}
	if stats.Updated != 1 || stats.Removed != 1 {
		t.Fatalf("stats = %+v", stats)
	}

	resp, _ := svc.Search(ctx, &models.SearchRequest{Query: "snapshots"})
	if resp.TotalCount != 0 {
		t.Error("old backup wording still indexed")
	}
	resp, _ = svc.Search(ctx, &models.SearchRequest{Query: "tapes"})
	if resp.TotalCount != 1 {
		t.Error("new backup wording not indexed")
	}
	resp, _ = svc.Search(ctx, &models.SearchRequest{Query: "markermeeting"})
	if resp.TotalCount != 0 {
		t.Error("removed document still indexed")
	}
}
