package search

import (
	"math"

	"github.com/hyperjump/docscope/internal/index"
)

// scorer computes BM25 contributions against one snapshot. Title postings
// get a configurable multiplier over body postings.
type scorer struct {
	snap       *index.Snapshot
	k1         float64
	b          float64
	titleBoost float64
}

// idf uses the standard BM25 formulation; rare terms weigh more, and the +1
// keeps the weight positive even for terms in most documents.
func (s *scorer) idf(df int) float64 {
	n := float64(s.snap.DocCount())
	return math.Log(1 + (n-float64(df)+0.5)/(float64(df)+0.5))
}

// fieldWeight is the per-field score multiplier.
func (s *scorer) fieldWeight(f index.Field) float64 {
	if f == index.FieldTitle {
		return s.titleBoost
	}
	return 1
}

// scoreTerm adds each matching document's BM25 contribution for one term
// into acc, restricted to the given fields.
func (s *scorer) scoreTerm(tp *index.TermPostings, fields []index.Field, acc map[string]float64) {
	if tp == nil {
		return
	}
	idf := s.idf(tp.DocFreq())
	for _, f := range fields {
		avg := s.snap.AvgFieldLength(f)
		weight := s.fieldWeight(f)
		for _, p := range tp.Fields[f] {
			info := s.snap.Doc(p.DocID)
			if info == nil {
				continue
			}
			acc[p.DocID] += idf * s.saturate(float64(p.Freq), float64(info.Lengths[f]), avg) * weight
		}
	}
}

// scoreTermForDoc adds one document's contribution for a term in a single
// field, used by phrase scoring where only confirmed docs count.
func (s *scorer) scoreTermForDoc(tp *index.TermPostings, f index.Field, docID string, acc map[string]float64) {
	if tp == nil {
		return
	}
	info := s.snap.Doc(docID)
	if info == nil {
		return
	}
	for _, p := range tp.Fields[f] {
		if p.DocID == docID {
			acc[docID] += s.idf(tp.DocFreq()) * s.saturate(float64(p.Freq), float64(info.Lengths[f]), s.snap.AvgFieldLength(f)) * s.fieldWeight(f)
			return
		}
		if p.DocID > docID {
			return
		}
	}
}

// saturate is the BM25 term-frequency saturation with length normalization.
func (s *scorer) saturate(tf, docLen, avgLen float64) float64 {
	if avgLen == 0 {
		return 0
	}
	return tf * (s.k1 + 1) / (tf + s.k1*(1-s.b+s.b*docLen/avgLen))
}
