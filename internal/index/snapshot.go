package index

import (
	"sync/atomic"
	"time"
)

// DocInfo is the per-document record a snapshot needs for scoring and
// filtering. Terms lists every term the document contributed, so removal can
// walk straight to the affected postings.
type DocInfo struct {
	Lengths  [numFields]uint32
	Title    string
	Format   string
	Category string
	Tags     []string
	Path     string
	Modified time.Time
	Terms    []string
}

// Snapshot is one immutable generation of the index. Readers acquire a
// snapshot, run an entire query against it, and release it; writers never
// touch a published snapshot. The postings and docs maps are copied
// top-level on write while term and doc values are shared across
// generations.
type Snapshot struct {
	generation  uint64
	postings    map[string]*TermPostings
	docs        map[string]*DocInfo
	fieldTokens [numFields]uint64

	refs    atomic.Int64
	retired atomic.Bool
}

func newSnapshot(generation uint64) *Snapshot {
	s := &Snapshot{
		generation: generation,
		postings:   make(map[string]*TermPostings),
		docs:       make(map[string]*DocInfo),
	}
	s.refs.Store(1) // publisher's reference, dropped on retire
	return s
}

// Acquire takes a read reference. Every Acquire must be paired with exactly
// one Release.
func (s *Snapshot) Acquire() *Snapshot {
	s.refs.Add(1)
	return s
}

// Release drops a read reference. A retired snapshot whose last reference is
// released becomes unreachable and is collected.
func (s *Snapshot) Release() {
	s.refs.Add(-1)
}

// retire drops the publisher's reference once a newer generation replaces
// this one. In-flight readers keep it alive until their Release.
func (s *Snapshot) retire() {
	s.retired.Store(true)
	s.refs.Add(-1)
}

// Refs reports the live reference count. Exposed for status reporting.
func (s *Snapshot) Refs() int64 { return s.refs.Load() }

// Generation returns the monotonically increasing generation number.
func (s *Snapshot) Generation() uint64 { return s.generation }

// DocCount returns the number of indexed documents.
func (s *Snapshot) DocCount() int { return len(s.docs) }

// AvgFieldLength returns the mean token count of the field across all
// documents, the BM25 length-normalization baseline.
func (s *Snapshot) AvgFieldLength(f Field) float64 {
	if len(s.docs) == 0 {
		return 0
	}
	return float64(s.fieldTokens[f]) / float64(len(s.docs))
}

// Postings returns the term's posting lists, or nil when the term is absent.
// The returned value is shared and must not be mutated.
func (s *Snapshot) Postings(term string) *TermPostings {
	return s.postings[term]
}

// Doc returns the document record, or nil when the id is not indexed.
func (s *Snapshot) Doc(id string) *DocInfo {
	return s.docs[id]
}

// EachDoc calls fn for every indexed document until fn returns false.
func (s *Snapshot) EachDoc(fn func(id string, info *DocInfo) bool) {
	for id, info := range s.docs {
		if !fn(id, info) {
			return
		}
	}
}

// EachTerm calls fn for every term in the dictionary until fn returns false.
// Iteration order is unspecified.
func (s *Snapshot) EachTerm(fn func(term string, tp *TermPostings) bool) {
	for term, tp := range s.postings {
		if !fn(term, tp) {
			return
		}
	}
}

// TermCount returns the dictionary size.
func (s *Snapshot) TermCount() int { return len(s.postings) }
