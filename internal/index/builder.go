// Package index implements the inverted index: analysis, postings, immutable
// snapshot generations, and the single-writer builder that publishes them.
package index

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"sync/atomic"

	"github.com/gofrs/flock"
	"go.uber.org/zap"

	"github.com/hyperjump/docscope/internal/models"
)

var (
	// ErrIndexNotReady is returned when no generation has been published yet.
	ErrIndexNotReady = errors.New("index: no generation published")
	// ErrBuildInProgress is returned when another Apply holds the writer lock.
	ErrBuildInProgress = errors.New("index: build already in progress")
)

// ChangeSet is one atomic batch of index mutations. Updated documents are
// removed under their old terms and re-inserted; Removed lists ids whose
// files disappeared.
type ChangeSet struct {
	Added   []*models.Document
	Updated []*models.Document
	Removed []string
}

// Empty reports whether applying the change set would be a no-op.
func (cs *ChangeSet) Empty() bool {
	return len(cs.Added) == 0 && len(cs.Updated) == 0 && len(cs.Removed) == 0
}

// ApplyStats summarizes one published generation.
type ApplyStats struct {
	Generation uint64
	Added      int
	Updated    int
	Removed    int
}

// Index owns the current snapshot pointer and serializes writers. Readers go
// through Acquire and never block writers; writers build the next generation
// off to the side and publish it atomically.
type Index struct {
	mu       sync.Mutex
	current  atomic.Pointer[Snapshot]
	analyzer *Analyzer
	fileLock *flock.Flock
	logger   *zap.Logger
}

// Option configures an Index.
type Option func(*Index)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(idx *Index) {
		idx.logger = logger
	}
}

// WithLockFile guards builds with a cross-process advisory lock, so two
// processes sharing a database cannot interleave generations.
func WithLockFile(path string) Option {
	return func(idx *Index) {
		idx.fileLock = flock.New(path)
	}
}

// New creates an empty index. No generation exists until the first Apply.
func New(analyzer *Analyzer, opts ...Option) *Index {
	idx := &Index{
		analyzer: analyzer,
		logger:   zap.NewNop(),
	}
	for _, opt := range opts {
		opt(idx)
	}
	return idx
}

// Analyzer returns the analyzer shared between indexing and query parsing.
func (idx *Index) Analyzer() *Analyzer { return idx.analyzer }

// Acquire returns the current snapshot with a read reference taken. The
// caller must Release it when the query finishes.
func (idx *Index) Acquire() (*Snapshot, error) {
	snap := idx.current.Load()
	if snap == nil {
		return nil, ErrIndexNotReady
	}
	return snap.Acquire(), nil
}

// Generation returns the current generation number, or 0 before the first
// publish.
func (idx *Index) Generation() uint64 {
	if snap := idx.current.Load(); snap != nil {
		return snap.generation
	}
	return 0
}

// Apply builds and publishes the next generation from the change set. One
// writer at a time; a second concurrent Apply fails fast with
// ErrBuildInProgress rather than queueing stale batches.
func (idx *Index) Apply(ctx context.Context, cs *ChangeSet) (*ApplyStats, error) {
	if !idx.mu.TryLock() {
		return nil, ErrBuildInProgress
	}
	defer idx.mu.Unlock()

	if idx.fileLock != nil {
		locked, err := idx.fileLock.TryLock()
		if err != nil {
			return nil, fmt.Errorf("acquire index lock: %w", err)
		}
		if !locked {
			return nil, ErrBuildInProgress
		}
		defer idx.fileLock.Unlock()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	prev := idx.current.Load()
	next := idx.nextSnapshot(prev)

	stats := &ApplyStats{Generation: next.generation}
	for _, id := range cs.Removed {
		if next.removeDoc(id) {
			stats.Removed++
		}
	}
	for _, doc := range cs.Updated {
		next.removeDoc(doc.ID)
		next.insertDoc(doc, idx.analyzer)
		stats.Updated++
	}
	for _, doc := range cs.Added {
		next.removeDoc(doc.ID)
		next.insertDoc(doc, idx.analyzer)
		stats.Added++
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	idx.current.Store(next)
	if prev != nil {
		prev.retire()
	}
	idx.logger.Info("published index generation",
		zap.Uint64("generation", next.generation),
		zap.Int("added", stats.Added),
		zap.Int("updated", stats.Updated),
		zap.Int("removed", stats.Removed),
		zap.Int("documents", next.DocCount()),
		zap.Int("terms", next.TermCount()))
	return stats, nil
}

// nextSnapshot clones the top-level maps; term and doc values stay shared
// until a write touches them.
func (idx *Index) nextSnapshot(prev *Snapshot) *Snapshot {
	if prev == nil {
		return newSnapshot(1)
	}
	next := newSnapshot(prev.generation + 1)
	next.postings = make(map[string]*TermPostings, len(prev.postings))
	for term, tp := range prev.postings {
		next.postings[term] = tp
	}
	next.docs = make(map[string]*DocInfo, len(prev.docs))
	for id, info := range prev.docs {
		next.docs[id] = info
	}
	next.fieldTokens = prev.fieldTokens
	return next
}

// removeDoc strips a document from every posting list it appears in, using
// the term list recorded at insert time. Reports whether the doc existed.
func (s *Snapshot) removeDoc(id string) bool {
	info := s.docs[id]
	if info == nil {
		return false
	}
	for _, term := range info.Terms {
		tp := s.postings[term]
		if tp == nil {
			continue
		}
		next := &TermPostings{}
		for f := range tp.Fields {
			next.Fields[f] = removePosting(tp.Fields[f], id)
		}
		if next.empty() {
			delete(s.postings, term)
		} else {
			s.postings[term] = next
		}
	}
	for f := range info.Lengths {
		s.fieldTokens[f] -= uint64(info.Lengths[f])
	}
	delete(s.docs, id)
	return true
}

// insertDoc analyzes the document's title and body and merges the postings
// into this unpublished snapshot.
func (s *Snapshot) insertDoc(doc *models.Document, analyzer *Analyzer) {
	info := &DocInfo{
		Title:    doc.Title,
		Format:   doc.Format,
		Category: doc.Category,
		Tags:     doc.Tags,
		Path:     doc.Path,
		Modified: doc.Modified,
	}
	termSet := make(map[string]struct{})
	fieldText := [numFields]string{FieldTitle: doc.Title, FieldBody: doc.Body}
	for f, text := range fieldText {
		tokens := analyzer.Analyze(text)
		info.Lengths[f] = uint32(len(tokens))
		s.fieldTokens[f] += uint64(len(tokens))

		byTerm := make(map[string][]uint32)
		for _, tok := range tokens {
			byTerm[tok.Term] = append(byTerm[tok.Term], tok.Position)
		}
		for term, positions := range byTerm {
			termSet[term] = struct{}{}
			tp := s.postings[term]
			if tp == nil {
				tp = &TermPostings{}
			} else {
				tp = tp.clone(Field(f))
			}
			tp.Fields[f] = insertPosting(tp.Fields[f], Posting{
				DocID:     doc.ID,
				Freq:      uint32(len(positions)),
				Positions: positions,
			})
			s.postings[term] = tp
		}
	}
	info.Terms = make([]string, 0, len(termSet))
	for term := range termSet {
		info.Terms = append(info.Terms, term)
	}
	sort.Strings(info.Terms)
	s.docs[doc.ID] = info
}
