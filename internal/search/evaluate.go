package search

import (
	"context"
	"errors"
	"strings"

	"github.com/hbollon/go-edlib"

	"github.com/hyperjump/docscope/internal/index"
)

// ErrTooManyExpansions is returned when a wildcard or fuzzy atom matches
// more dictionary terms than the configured bound.
var ErrTooManyExpansions = errors.New("search: wildcard expansion over limit")

var textFields = map[string][]index.Field{
	"":      {index.FieldTitle, index.FieldBody},
	"title": {index.FieldTitle},
	"body":  {index.FieldBody},
}

// evaluator walks a query tree against one snapshot and produces document
// scores. It is read-only and safe to run concurrently with other queries.
type evaluator struct {
	snap          *index.Snapshot
	analyzer      *index.Analyzer
	scorer        *scorer
	maxExpansions int
}

// eval returns the matched documents and their accumulated BM25 scores.
// Attribute-field atoms (format, category, tags, path) match on document
// attributes and contribute a score of zero.
func (e *evaluator) eval(ctx context.Context, expr Expr) (map[string]float64, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	switch node := expr.(type) {
	case *OrExpr:
		return e.evalOr(ctx, node)
	case *AndExpr:
		return e.evalAnd(ctx, node)
	case *NotExpr:
		return e.evalNot(ctx, node)
	case *TermExpr:
		return e.evalTerm(node)
	case *PhraseExpr:
		return e.evalPhrase(node)
	case *PrefixExpr:
		return e.evalPrefix(node)
	case *FuzzyExpr:
		return e.evalFuzzy(node)
	default:
		return nil, errors.New("search: unknown expression node")
	}
}

func (e *evaluator) evalOr(ctx context.Context, node *OrExpr) (map[string]float64, error) {
	union := make(map[string]float64)
	for _, child := range node.Children {
		scores, err := e.eval(ctx, child)
		if err != nil {
			return nil, err
		}
		for id, s := range scores {
			union[id] += s
		}
	}
	return union, nil
}

func (e *evaluator) evalAnd(ctx context.Context, node *AndExpr) (map[string]float64, error) {
	var acc map[string]float64
	for _, child := range node.Children {
		scores, err := e.eval(ctx, child)
		if err != nil {
			return nil, err
		}
		if acc == nil {
			acc = scores
			continue
		}
		for id := range acc {
			s, ok := scores[id]
			if !ok {
				delete(acc, id)
				continue
			}
			acc[id] += s
		}
		if len(acc) == 0 {
			return acc, nil
		}
	}
	return acc, nil
}

// evalNot complements against the whole document set, so a top-level NOT is
// "every document except these" rather than an error.
func (e *evaluator) evalNot(ctx context.Context, node *NotExpr) (map[string]float64, error) {
	matched, err := e.eval(ctx, node.Child)
	if err != nil {
		return nil, err
	}
	out := make(map[string]float64)
	e.snap.EachDoc(func(id string, _ *index.DocInfo) bool {
		if _, ok := matched[id]; !ok {
			out[id] = 0
		}
		return true
	})
	return out, nil
}

func (e *evaluator) evalTerm(node *TermExpr) (map[string]float64, error) {
	if fields, ok := textFields[node.Field]; ok {
		out := make(map[string]float64)
		terms := e.analyzer.AnalyzeTerms(node.Term)
		switch len(terms) {
		case 0:
			return out, nil
		case 1:
			e.scorer.scoreTerm(e.snap.Postings(terms[0]), fields, out)
			return out, nil
		default:
			// An atom like "foo-bar" indexes as adjacent tokens, so it must
			// query as a phrase, not as its first token alone.
			return e.evalTextPhrase(terms, fields), nil
		}
	}
	value := strings.ToLower(node.Term)
	if node.Field == "path" {
		// Paths are matched by substring; exact path queries are unwieldy.
		return e.matchAttr(node.Field, func(v string) bool { return strings.Contains(v, value) }), nil
	}
	return e.matchAttr(node.Field, func(v string) bool { return v == value }), nil
}

func (e *evaluator) evalPhrase(node *PhraseExpr) (map[string]float64, error) {
	if fields, ok := textFields[node.Field]; ok {
		// Each word may itself analyze to several tokens; the flattened
		// sequence mirrors how the indexed text was tokenized.
		terms := make([]string, 0, len(node.Terms))
		for _, raw := range node.Terms {
			terms = append(terms, e.analyzer.AnalyzeTerms(raw)...)
		}
		return e.evalTextPhrase(terms, fields), nil
	}
	value := strings.ToLower(strings.Join(node.Terms, " "))
	return e.matchAttr(node.Field, func(v string) bool { return v == value }), nil
}

// evalTextPhrase requires the already-analyzed terms at consecutive
// positions within a single field. Matching documents score as the sum of
// the constituent terms.
func (e *evaluator) evalTextPhrase(terms []string, fields []index.Field) map[string]float64 {
	out := make(map[string]float64)
	if len(terms) == 0 {
		return out
	}
	postings := make([]*index.TermPostings, len(terms))
	for i, term := range terms {
		postings[i] = e.snap.Postings(term)
		if postings[i] == nil {
			return out
		}
	}
	for _, f := range fields {
		for _, first := range postings[0].Fields[f] {
			if _, ok := out[first.DocID]; ok {
				continue
			}
			if e.phraseInDoc(postings, f, first) {
				for _, tp := range postings {
					e.scorer.scoreTermForDoc(tp, f, first.DocID, out)
				}
			}
		}
	}
	return out
}

// phraseInDoc reports whether some occurrence of the first term is followed
// by the remaining terms at consecutive positions in the same field.
func (e *evaluator) phraseInDoc(postings []*index.TermPostings, f index.Field, first index.Posting) bool {
	rest := make([]index.Posting, len(postings)-1)
	for i, tp := range postings[1:] {
		p, ok := findFieldPosting(tp.Fields[f], first.DocID)
		if !ok {
			return false
		}
		rest[i] = p
	}
	for _, start := range first.Positions {
		match := true
		for i, p := range rest {
			if !hasPosition(p.Positions, start+uint32(i)+1) {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}

func (e *evaluator) evalPrefix(node *PrefixExpr) (map[string]float64, error) {
	prefix := strings.ToLower(node.Prefix)
	if fields, ok := textFields[node.Field]; ok {
		terms, err := e.expand(func(term string) bool {
			return strings.HasPrefix(term, prefix)
		})
		if err != nil {
			return nil, err
		}
		out := make(map[string]float64)
		for _, term := range terms {
			e.scorer.scoreTerm(e.snap.Postings(term), fields, out)
		}
		return out, nil
	}
	return e.matchAttr(node.Field, func(v string) bool { return strings.HasPrefix(v, prefix) }), nil
}

func (e *evaluator) evalFuzzy(node *FuzzyExpr) (map[string]float64, error) {
	target := strings.ToLower(node.Term)
	within := func(v string) bool {
		return edlib.LevenshteinDistance(target, v) <= node.Distance
	}
	if fields, ok := textFields[node.Field]; ok {
		terms, err := e.expand(within)
		if err != nil {
			return nil, err
		}
		out := make(map[string]float64)
		for _, term := range terms {
			e.scorer.scoreTerm(e.snap.Postings(term), fields, out)
		}
		return out, nil
	}
	return e.matchAttr(node.Field, within), nil
}

// expand collects dictionary terms matching pred, bounded by maxExpansions.
func (e *evaluator) expand(pred func(string) bool) ([]string, error) {
	var terms []string
	var overflow bool
	e.snap.EachTerm(func(term string, _ *index.TermPostings) bool {
		if !pred(term) {
			return true
		}
		if len(terms) >= e.maxExpansions {
			overflow = true
			return false
		}
		terms = append(terms, term)
		return true
	})
	if overflow {
		return nil, ErrTooManyExpansions
	}
	return terms, nil
}

// matchAttr matches documents by attribute value; matches carry zero score
// and rely on other query atoms or the sort order for ranking.
func (e *evaluator) matchAttr(field string, pred func(string) bool) map[string]float64 {
	out := make(map[string]float64)
	e.snap.EachDoc(func(id string, info *index.DocInfo) bool {
		switch field {
		case "format":
			if pred(strings.ToLower(info.Format)) {
				out[id] = 0
			}
		case "category":
			if pred(strings.ToLower(info.Category)) {
				out[id] = 0
			}
		case "tags":
			for _, tag := range info.Tags {
				if pred(strings.ToLower(tag)) {
					out[id] = 0
					break
				}
			}
		case "path":
			if pred(strings.ToLower(info.Path)) {
				out[id] = 0
			}
		}
		return true
	})
	return out
}

func findFieldPosting(list []index.Posting, docID string) (index.Posting, bool) {
	for _, p := range list {
		if p.DocID == docID {
			return p, true
		}
		if p.DocID > docID {
			break
		}
	}
	return index.Posting{}, false
}

func hasPosition(positions []uint32, pos uint32) bool {
	for _, p := range positions {
		if p == pos {
			return true
		}
		if p > pos {
			break
		}
	}
	return false
}
