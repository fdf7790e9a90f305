// Package storage provides the SQLite implementation of the Storage interface.
package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/hyperjump/docscope/internal/models"
)

// SQLiteStorage implements Storage using SQLite.
type SQLiteStorage struct {
	db *sql.DB
}

// NewSQLiteStorage opens or creates a SQLite database at dbPath and initializes the schema.
// Parent directories are created if they do not exist.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	if dir := filepath.Dir(dbPath); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, fmt.Errorf("failed to create database directory: %w", err)
		}
	}
	db, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to enable WAL: %w", err)
	}

	if err := initSchema(db); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return &SQLiteStorage{db: db}, nil
}

func initSchema(db *sql.DB) error {
	schema := `
	CREATE TABLE IF NOT EXISTS documents (
		id TEXT PRIMARY KEY,
		path TEXT NOT NULL,
		title TEXT,
		format TEXT NOT NULL,
		content_hash TEXT NOT NULL,
		size INTEGER NOT NULL,
		modified TIMESTAMP NOT NULL,
		indexed_at TIMESTAMP NOT NULL,
		category TEXT,
		tags TEXT,
		metadata TEXT,
		body TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_documents_path ON documents(path);
	CREATE INDEX IF NOT EXISTS idx_documents_modified ON documents(modified);
	`
	_, err := db.Exec(schema)
	return err
}

// GetDocument returns a document by ID.
func (s *SQLiteStorage) GetDocument(ctx context.Context, id string) (*models.Document, error) {
	row := s.db.QueryRowContext(ctx,
		`SELECT id, path, title, format, content_hash, size, modified, indexed_at, category, tags, metadata, body
		 FROM documents WHERE id = ?`, id)
	doc, err := scanDocument(row.Scan)
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("%w: %s", ErrNotFound, id)
	}
	return doc, err
}

// PutDocument inserts or replaces the record under doc.ID.
func (s *SQLiteStorage) PutDocument(ctx context.Context, doc *models.Document) error {
	metadataJSON, err := json.Marshal(doc.Metadata)
	if err != nil {
		return fmt.Errorf("failed to marshal metadata: %w", err)
	}
	if doc.IndexedAt.IsZero() {
		doc.IndexedAt = time.Now()
	}
	_, err = s.db.ExecContext(ctx,
		`INSERT INTO documents (id, path, title, format, content_hash, size, modified, indexed_at, category, tags, metadata, body)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		 ON CONFLICT(id) DO UPDATE SET
			path = excluded.path,
			title = excluded.title,
			format = excluded.format,
			content_hash = excluded.content_hash,
			size = excluded.size,
			modified = excluded.modified,
			indexed_at = excluded.indexed_at,
			category = excluded.category,
			tags = excluded.tags,
			metadata = excluded.metadata,
			body = excluded.body`,
		doc.ID, doc.Path, doc.Title, doc.Format, doc.ContentHash, doc.Size,
		doc.Modified, doc.IndexedAt, doc.Category, strings.Join(doc.Tags, "\n"),
		string(metadataJSON), doc.Body,
	)
	return err
}

// DeleteDocument removes a document by ID.
func (s *SQLiteStorage) DeleteDocument(ctx context.Context, id string) error {
	_, err := s.db.ExecContext(ctx, `DELETE FROM documents WHERE id = ?`, id)
	return err
}

// ListDocuments returns documents ordered by modified time descending.
func (s *SQLiteStorage) ListDocuments(ctx context.Context, offset, limit int) ([]*models.Document, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, title, format, content_hash, size, modified, indexed_at, category, tags, metadata, body
		 FROM documents ORDER BY modified DESC LIMIT ? OFFSET ?`,
		limit, offset,
	)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var docs []*models.Document
	for rows.Next() {
		doc, err := scanDocument(rows.Scan)
		if err != nil {
			return nil, err
		}
		docs = append(docs, doc)
	}
	return docs, rows.Err()
}

// ListAllHashes returns id → fingerprint for every stored document.
func (s *SQLiteStorage) ListAllHashes(ctx context.Context) (map[string]HashEntry, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT id, path, content_hash, size, modified FROM documents`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	hashes := make(map[string]HashEntry)
	for rows.Next() {
		var id string
		var entry HashEntry
		if err := rows.Scan(&id, &entry.Path, &entry.ContentHash, &entry.Size, &entry.Modified); err != nil {
			return nil, err
		}
		hashes[id] = entry
	}
	return hashes, rows.Err()
}

// CountDocuments returns the total number of documents.
func (s *SQLiteStorage) CountDocuments(ctx context.Context) (int64, error) {
	var count int64
	err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM documents`).Scan(&count)
	return count, err
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}

func scanDocument(scan func(dest ...any) error) (*models.Document, error) {
	var doc models.Document
	var tags, metadataJSON string
	err := scan(&doc.ID, &doc.Path, &doc.Title, &doc.Format, &doc.ContentHash,
		&doc.Size, &doc.Modified, &doc.IndexedAt, &doc.Category, &tags,
		&metadataJSON, &doc.Body)
	if err != nil {
		return nil, err
	}
	if tags != "" {
		doc.Tags = strings.Split(tags, "\n")
	}
	if metadataJSON != "" {
		if err := json.Unmarshal([]byte(metadataJSON), &doc.Metadata); err != nil {
			return nil, fmt.Errorf("failed to unmarshal metadata: %w", err)
		}
	}
	return &doc, nil
}
