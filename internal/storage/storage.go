// Package storage defines the persistence interface for document records.
package storage

import (
	"context"
	"errors"
	"time"

	"github.com/hyperjump/docscope/internal/models"
)

// ErrNotFound is returned when a document id is not in the store.
var ErrNotFound = errors.New("storage: document not found")

// HashEntry is the per-document fingerprint used to diff a scan pass against
// the stored corpus without loading full records.
type HashEntry struct {
	Path        string
	ContentHash string
	Size        int64
	Modified    time.Time
}

// Storage defines document persistence operations.
type Storage interface {
	GetDocument(ctx context.Context, id string) (*models.Document, error)
	// PutDocument inserts or replaces the record under doc.ID.
	PutDocument(ctx context.Context, doc *models.Document) error
	DeleteDocument(ctx context.Context, id string) error
	ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error)
	// ListAllHashes returns id → fingerprint for every stored document.
	ListAllHashes(ctx context.Context) (map[string]HashEntry, error)
	CountDocuments(ctx context.Context) (int64, error)

	Close() error
}
