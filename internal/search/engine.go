package search

import (
	"context"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/hyperjump/docscope/internal/config"
	"github.com/hyperjump/docscope/internal/index"
	"github.com/hyperjump/docscope/internal/models"
	"github.com/hyperjump/docscope/internal/storage"
)

// Engine executes search requests against the current index snapshot and
// hydrates result rows from document storage.
type Engine struct {
	idx    *index.Index
	store  storage.Storage
	cfg    config.SearchConfig
	logger *zap.Logger
}

// Option configures an Engine.
type Option func(*Engine)

// WithLogger sets the logger.
func WithLogger(logger *zap.Logger) Option {
	return func(e *Engine) {
		e.logger = logger
	}
}

// NewEngine creates a search engine over the given index and store.
func NewEngine(idx *index.Index, store storage.Storage, cfg config.SearchConfig, opts ...Option) *Engine {
	e := &Engine{
		idx:    idx,
		store:  store,
		cfg:    cfg,
		logger: zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Search parses and evaluates the query, applies facet filters, ranks, and
// returns one page of hydrated results. The whole query runs against a
// single acquired snapshot; index updates published mid-query are invisible.
func (e *Engine) Search(ctx context.Context, req *models.SearchRequest) (*models.SearchResponse, error) {
	if err := req.Normalize(e.cfg.DefaultLimit, e.cfg.MaxLimit); err != nil {
		return nil, err
	}
	snap, err := e.idx.Acquire()
	if err != nil {
		return nil, err
	}
	defer snap.Release()

	start := time.Now()
	expr, err := Parse(req.Query)
	if err != nil {
		return nil, err
	}

	ev := &evaluator{
		snap:     snap,
		analyzer: e.idx.Analyzer(),
		scorer: &scorer{
			snap:       snap,
			k1:         e.cfg.BM25K1,
			b:          e.cfg.BM25B,
			titleBoost: e.cfg.TitleBoost,
		},
		maxExpansions: e.cfg.MaxExpansions,
	}
	scores, err := ev.eval(ctx, expr)
	if err != nil {
		return nil, err
	}

	ids := make([]string, 0, len(scores))
	for id := range scores {
		info := snap.Doc(id)
		if info == nil {
			continue
		}
		if len(req.Filters) > 0 && !matchesFilters(info, req.Filters) {
			continue
		}
		ids = append(ids, id)
	}
	e.sortResults(snap, ids, scores, req.SortBy)

	resp := &models.SearchResponse{
		Query:      req.Query,
		TotalCount: len(ids),
		Facets:     computeFacets(snap, ids),
		Generation: snap.Generation(),
	}
	if resp.TotalCount == 0 {
		resp.Suggestions = e.suggestFromQuery(snap, req.Query)
	}

	page := paginate(ids, req.Offset, req.Limit)
	terms := collectTerms(expr, e.idx.Analyzer())
	resp.Results = make([]*models.SearchResult, 0, len(page))
	for _, id := range page {
		resp.Results = append(resp.Results, e.buildResult(ctx, snap, id, scores[id], terms))
	}
	resp.QueryTimeMS = time.Since(start).Milliseconds()

	e.logger.Debug("search executed",
		zap.String("query", req.Query),
		zap.Int("total", resp.TotalCount),
		zap.Uint64("generation", resp.Generation),
		zap.Int64("elapsed_ms", resp.QueryTimeMS))
	return resp, nil
}

// Suggest returns completion candidates for a prefix from the current
// snapshot's term dictionary.
func (e *Engine) Suggest(ctx context.Context, prefix string, limit int) ([]string, error) {
	if limit <= 0 || limit > e.cfg.SuggestionLimit {
		limit = e.cfg.SuggestionLimit
	}
	snap, err := e.idx.Acquire()
	if err != nil {
		return nil, err
	}
	defer snap.Release()
	return Suggest(snap, prefix, limit), nil
}

// sortResults orders ids in place. Every order falls back to document id so
// equal keys rank deterministically.
func (e *Engine) sortResults(snap *index.Snapshot, ids []string, scores map[string]float64, sortBy string) {
	switch sortBy {
	case models.SortByModified:
		sort.Slice(ids, func(i, j int) bool {
			a, b := snap.Doc(ids[i]), snap.Doc(ids[j])
			if !a.Modified.Equal(b.Modified) {
				return a.Modified.After(b.Modified)
			}
			return ids[i] < ids[j]
		})
	case models.SortByTitle:
		sort.Slice(ids, func(i, j int) bool {
			a := strings.ToLower(snap.Doc(ids[i]).Title)
			b := strings.ToLower(snap.Doc(ids[j]).Title)
			if a != b {
				return a < b
			}
			return ids[i] < ids[j]
		})
	default:
		sort.Slice(ids, func(i, j int) bool {
			if scores[ids[i]] != scores[ids[j]] {
				return scores[ids[i]] > scores[ids[j]]
			}
			return ids[i] < ids[j]
		})
	}
}

// buildResult hydrates one result row. When the store cannot produce the
// record the row is built from snapshot data without a snippet.
func (e *Engine) buildResult(ctx context.Context, snap *index.Snapshot, id string, score float64, terms []string) *models.SearchResult {
	info := snap.Doc(id)
	result := &models.SearchResult{
		DocumentID: id,
		Title:      info.Title,
		Path:       info.Path,
		Format:     info.Format,
		Category:   info.Category,
		Tags:       info.Tags,
		Score:      score,
	}
	doc, err := e.store.GetDocument(ctx, id)
	if err != nil {
		e.logger.Warn("result hydration failed", zap.String("id", id), zap.Error(err))
		return result
	}
	result.Snippet, result.Highlights = Snippet(doc.Body, terms, e.cfg.SnippetLength)
	return result
}

// suggestFromQuery offers completions for the last queryable word when a
// search came back empty.
func (e *Engine) suggestFromQuery(snap *index.Snapshot, query string) []string {
	terms := e.idx.Analyzer().AnalyzeTerms(query)
	if len(terms) == 0 {
		return nil
	}
	return Suggest(snap, terms[len(terms)-1], e.cfg.SuggestionLimit)
}

func paginate(ids []string, offset, limit int) []string {
	if offset >= len(ids) {
		return nil
	}
	end := offset + limit
	if end > len(ids) {
		end = len(ids)
	}
	return ids[offset:end]
}

// collectTerms gathers the normalized text terms a query touches, for
// snippet highlighting.
func collectTerms(expr Expr, analyzer *index.Analyzer) []string {
	seen := make(map[string]struct{})
	var walk func(Expr)
	walk = func(node Expr) {
		switch n := node.(type) {
		case *OrExpr:
			for _, c := range n.Children {
				walk(c)
			}
		case *AndExpr:
			for _, c := range n.Children {
				walk(c)
			}
		case *NotExpr:
			// Negated terms should not be highlighted.
		case *TermExpr:
			if _, ok := textFields[n.Field]; ok {
				for _, t := range analyzer.AnalyzeTerms(n.Term) {
					seen[t] = struct{}{}
				}
			}
		case *PhraseExpr:
			if _, ok := textFields[n.Field]; ok {
				for _, raw := range n.Terms {
					for _, t := range analyzer.AnalyzeTerms(raw) {
						seen[t] = struct{}{}
					}
				}
			}
		case *PrefixExpr:
			if _, ok := textFields[n.Field]; ok {
				seen[strings.ToLower(n.Prefix)] = struct{}{}
			}
		case *FuzzyExpr:
			if _, ok := textFields[n.Field]; ok {
				seen[strings.ToLower(n.Term)] = struct{}{}
			}
		}
	}
	walk(expr)
	terms := make([]string, 0, len(seen))
	for t := range seen {
		terms = append(terms, t)
	}
	sort.Strings(terms)
	return terms
}
