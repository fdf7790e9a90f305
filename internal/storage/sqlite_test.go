package storage

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hyperjump/docscope/internal/models"
)

func testStore(t *testing.T) *SQLiteStorage {
	t.Helper()
	store, err := NewSQLiteStorage(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { store.Close() })
	return store
}

func TestSQLiteStorage_CRUD(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	doc := &models.Document{
		ID:          "doc:1",
		Path:        "/docs/guide.md",
		Title:       "Guide",
		Format:      "markdown",
		ContentHash: "abc123",
		Size:        42,
		Modified:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
		Category:    "ops",
		Tags:        []string{"docker", "compose"},
		Metadata:    models.Metadata{"headers": {"Intro"}},
		Body:        "install docker compose",
	}
	if err := store.PutDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	if doc.IndexedAt.IsZero() {
		t.Error("IndexedAt should be set")
	}

	got, err := store.GetDocument(ctx, "doc:1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Title != "Guide" || got.Body != "install docker compose" {
		t.Errorf("got %+v", got)
	}
	if len(got.Tags) != 2 || got.Tags[0] != "docker" {
		t.Errorf("tags = %v", got.Tags)
	}
	if got.Metadata.Get("headers") != "Intro" {
		t.Errorf("metadata = %v", got.Metadata)
	}

	// Put again is an upsert.
	doc.Title = "Updated Guide"
	doc.ContentHash = "def456"
	if err := store.PutDocument(ctx, doc); err != nil {
		t.Fatal(err)
	}
	got, _ = store.GetDocument(ctx, "doc:1")
	if got.Title != "Updated Guide" || got.ContentHash != "def456" {
		t.Errorf("after upsert: %+v", got)
	}

	count, err := store.CountDocuments(ctx)
	if err != nil || count != 1 {
		t.Errorf("count = %d, err = %v", count, err)
	}

	if err := store.DeleteDocument(ctx, "doc:1"); err != nil {
		t.Fatal(err)
	}
	if _, err := store.GetDocument(ctx, "doc:1"); !errors.Is(err, ErrNotFound) {
		t.Errorf("err = %v, want ErrNotFound", err)
	}
}

func TestSQLiteStorage_ListAllHashes(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	for i, id := range []string{"doc:a", "doc:b"} {
		doc := &models.Document{
			ID:          id,
			Path:        "/docs/" + id,
			Format:      "text",
			ContentHash: "hash" + id,
			Size:        int64(i + 1),
			Modified:    time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC),
			Body:        "body",
		}
		if err := store.PutDocument(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	hashes, err := store.ListAllHashes(ctx)
	if err != nil {
		t.Fatal(err)
	}
	if len(hashes) != 2 {
		t.Fatalf("got %d entries, want 2", len(hashes))
	}
	entry, ok := hashes["doc:a"]
	if !ok || entry.ContentHash != "hashdoc:a" || entry.Size != 1 {
		t.Errorf("entry = %+v", entry)
	}
}

func TestSQLiteStorage_ListDocuments(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	base := time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)
	for i, id := range []string{"doc:old", "doc:new"} {
		doc := &models.Document{
			ID:          id,
			Path:        "/docs/" + id,
			Format:      "text",
			ContentHash: "h",
			Modified:    base.Add(time.Duration(i) * time.Hour),
			Body:        "body",
		}
		if err := store.PutDocument(ctx, doc); err != nil {
			t.Fatal(err)
		}
	}

	docs, err := store.ListDocuments(ctx, 0, 10)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) != 2 || docs[0].ID != "doc:new" {
		t.Errorf("docs = %v", docs)
	}

	docs, err = store.ListDocuments(ctx, 1, 10)
	if err != nil || len(docs) != 1 {
		t.Errorf("offset list = %v, err = %v", docs, err)
	}
}
