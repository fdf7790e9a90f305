package models

import "fmt"

// Sort orders for search results.
const (
	SortByRelevance = "relevance"
	SortByModified  = "modified"
	SortByTitle     = "title"
)

// SearchRequest represents a search with optional facet filters and pagination.
type SearchRequest struct {
	Query string `json:"query"`
	// Filters maps a facet axis (format, category, tag, year) to allowed values.
	Filters map[string][]string `json:"filters,omitempty"`
	SortBy  string              `json:"sort_by,omitempty"`
	Limit   int                 `json:"limit,omitempty"`
	Offset  int                 `json:"offset,omitempty"`
}

// Normalize validates the request and clamps pagination to the given bounds.
// An empty query is rejected by the query parser, not here, so that the
// caller gets a ParseError with a position.
func (r *SearchRequest) Normalize(defaultLimit, maxLimit int) error {
	if r.Limit <= 0 {
		r.Limit = defaultLimit
	}
	if r.Limit > maxLimit {
		r.Limit = maxLimit
	}
	if r.Offset < 0 {
		return fmt.Errorf("offset cannot be negative: %d", r.Offset)
	}
	if r.SortBy == "" {
		r.SortBy = SortByRelevance
	}
	switch r.SortBy {
	case SortByRelevance, SortByModified, SortByTitle:
	default:
		return fmt.Errorf("unknown sort order: %q", r.SortBy)
	}
	return nil
}
