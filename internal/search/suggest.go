package search

import (
	"sort"
	"strings"

	"github.com/hyperjump/docscope/internal/index"
)

// Suggest returns dictionary terms sharing the prefix, ordered by document
// frequency descending, ties broken alphabetically. It reads only the term
// dictionary, never postings payloads.
func Suggest(snap *index.Snapshot, prefix string, limit int) []string {
	prefix = strings.ToLower(strings.TrimSpace(prefix))
	if prefix == "" || limit <= 0 {
		return nil
	}
	type candidate struct {
		term string
		df   int
	}
	var candidates []candidate
	snap.EachTerm(func(term string, tp *index.TermPostings) bool {
		if strings.HasPrefix(term, prefix) {
			candidates = append(candidates, candidate{term: term, df: tp.DocFreq()})
		}
		return true
	})
	sort.Slice(candidates, func(i, j int) bool {
		if candidates[i].df != candidates[j].df {
			return candidates[i].df > candidates[j].df
		}
		return candidates[i].term < candidates[j].term
	})
	if len(candidates) > limit {
		candidates = candidates[:limit]
	}
	terms := make([]string, len(candidates))
	for i, c := range candidates {
		terms[i] = c.term
	}
	return terms
}
