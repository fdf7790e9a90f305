// Package models defines core data structures for documents, scan outcomes, and search results.
package models

import "time"

// Metadata maps a metadata key to one or more string values. Single-valued
// keys (e.g. "line_count") hold a one-element slice.
type Metadata map[string][]string

// Get returns the first value for key, or "" when absent.
func (m Metadata) Get(key string) string {
	if vs, ok := m[key]; ok && len(vs) > 0 {
		return vs[0]
	}
	return ""
}

// Set replaces key with a single value.
func (m Metadata) Set(key, value string) {
	m[key] = []string{value}
}

// Add appends a value to key.
func (m Metadata) Add(key, value string) {
	m[key] = append(m[key], value)
}

// Document represents a scanned document with extracted metadata.
// ID is derived from the file path and stays stable across rescans;
// ContentHash is a SHA-256 digest of the normalized plain-text body and
// changes iff the body changes.
type Document struct {
	ID          string    `json:"id" db:"id"`
	Path        string    `json:"path" db:"path"`
	Title       string    `json:"title" db:"title"`
	Format      string    `json:"format" db:"format"`
	ContentHash string    `json:"content_hash" db:"content_hash"`
	Size        int64     `json:"size" db:"size"`
	Modified    time.Time `json:"modified_at" db:"modified_at"`
	IndexedAt   time.Time `json:"indexed_at" db:"indexed_at"`
	Category    string    `json:"category,omitempty" db:"category"`
	Tags        []string  `json:"tags,omitempty" db:"tags"`
	Metadata    Metadata  `json:"metadata,omitempty" db:"metadata"`
	Body        string    `json:"-" db:"body"`
}

// OutcomeKind classifies the result of scanning one file.
// Exactly one kind applies per file per scan pass.
type OutcomeKind string

const (
	// OutcomeIndexed means the file was read, extracted, and hashed; Document is set.
	OutcomeIndexed OutcomeKind = "indexed"
	// OutcomeSkipped means the file was visited but unchanged since the watermark.
	OutcomeSkipped OutcomeKind = "skipped"
	// OutcomeUnreadable means an I/O, decode, or extraction error; Detail is set.
	OutcomeUnreadable OutcomeKind = "unreadable"
	// OutcomeUnsupported means the format is not in the supported set, or the
	// file exceeded the size cap; Detail explains which.
	OutcomeUnsupported OutcomeKind = "unsupported"
)

// ScanOutcome is the per-file result of one scan pass.
type ScanOutcome struct {
	Path     string      `json:"path"`
	Kind     OutcomeKind `json:"kind"`
	Detail   string      `json:"detail,omitempty"`
	Document *Document   `json:"-"`
}
