// Package benchmark measures indexing and query throughput over a synthetic
// corpus large enough to exercise postings merges and scoring.
package benchmark

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/hyperjump/docscope/internal/config"
	"github.com/hyperjump/docscope/internal/index"
	"github.com/hyperjump/docscope/internal/models"
	"github.com/hyperjump/docscope/internal/search"
	"github.com/hyperjump/docscope/internal/storage"
)

var words = []string{
	"service", "deploy", "backup", "config", "server", "index", "query",
	"docker", "redis", "network", "storage", "update", "release", "token",
	"schedule", "pipeline", "metric", "alert", "cache", "worker",
}

func syntheticDocs(n int) []*models.Document {
	docs := make([]*models.Document, n)
	for i := 0; i < n; i++ {
		body := ""
		for j := 0; j < 80; j++ {
			body += words[(i*7+j)%len(words)] + " "
		}
		docs[i] = &models.Document{
			ID:       fmt.Sprintf("file-%04d", i),
			Path:     fmt.Sprintf("/corpus/doc_%04d.txt", i),
			Title:    "Doc " + words[i%len(words)],
			Format:   "text",
			Body:     body,
			Modified: time.Unix(int64(1700000000+i), 0),
		}
	}
	return docs
}

// nopStore satisfies storage.Storage for benchmarks that never hydrate.
type nopStore struct{}

func (nopStore) GetDocument(context.Context, string) (*models.Document, error) {
	return nil, storage.ErrNotFound
}
func (nopStore) PutDocument(context.Context, *models.Document) error  { return nil }
func (nopStore) DeleteDocument(context.Context, string) error         { return nil }
func (nopStore) ListDocuments(context.Context, int, int) ([]*models.Document, error) {
	return nil, nil
}
func (nopStore) ListAllHashes(context.Context) (map[string]storage.HashEntry, error) {
	return nil, nil
}
func (nopStore) CountDocuments(context.Context) (int64, error) { return 0, nil }
func (nopStore) Close() error                                  { return nil }

func builtIndex(b *testing.B, n int) *index.Index {
	b.Helper()
	idx := index.New(index.NewAnalyzer(false, nil, 0))
	if _, err := idx.Apply(context.Background(), &index.ChangeSet{Added: syntheticDocs(n)}); err != nil {
		b.Fatal(err)
	}
	return idx
}

func BenchmarkAnalyzer(b *testing.B) {
	analyzer := index.NewAnalyzer(false, nil, 0)
	body := syntheticDocs(1)[0].Body
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = analyzer.Analyze(body)
	}
}

func BenchmarkApply_1000Docs(b *testing.B) {
	docs := syntheticDocs(1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		idx := index.New(index.NewAnalyzer(false, nil, 0))
		if _, err := idx.Apply(ctx, &index.ChangeSet{Added: docs}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkApply_incrementalUpdate(b *testing.B) {
	idx := builtIndex(b, 1000)
	update := syntheticDocs(10)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := idx.Apply(ctx, &index.ChangeSet{Updated: update}); err != nil {
			b.Fatal(err)
		}
	}
}

func benchEngine(b *testing.B, n int) *search.Engine {
	b.Helper()
	cfg := &config.Config{}
	config.ApplyDefaults(cfg)
	// Build the index through the same analyzer the engine uses.
	idx := builtIndex(b, n)
	return search.NewEngine(idx, nopStore{}, cfg.Search)
}

func BenchmarkSearch_term(b *testing.B) {
	engine := benchEngine(b, 1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Search(ctx, &models.SearchRequest{Query: "docker"}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch_boolean(b *testing.B) {
	engine := benchEngine(b, 1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Search(ctx, &models.SearchRequest{Query: "docker AND redis -backup"}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch_phrase(b *testing.B) {
	engine := benchEngine(b, 1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Search(ctx, &models.SearchRequest{Query: `"docker redis"`}); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkSearch_wildcard(b *testing.B) {
	engine := benchEngine(b, 1000)
	ctx := context.Background()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := engine.Search(ctx, &models.SearchRequest{Query: "doc*"}); err != nil {
			b.Fatal(err)
		}
	}
}
