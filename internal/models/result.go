package models

// SearchResult is a single ranked hit.
type SearchResult struct {
	DocumentID string   `json:"document_id"`
	Title      string   `json:"title"`
	Path       string   `json:"path"`
	Format     string   `json:"format"`
	Category   string   `json:"category,omitempty"`
	Tags       []string `json:"tags,omitempty"`
	Score      float64  `json:"score"`
	Snippet    string   `json:"snippet,omitempty"`
	// Highlights lists the query terms that matched this document.
	Highlights []string `json:"highlights,omitempty"`
}

// SearchResponse is the full answer to one search request.
// Facets maps axis name to value counts computed over the whole matched set
// (not just the returned page), from the same index generation as Results.
type SearchResponse struct {
	Query       string                    `json:"query"`
	Results     []*SearchResult           `json:"results"`
	TotalCount  int                       `json:"total_count"`
	Facets      map[string]map[string]int `json:"facets,omitempty"`
	Suggestions []string                  `json:"suggestions,omitempty"`
	Generation  uint64                    `json:"generation"`
	QueryTimeMS int64                     `json:"query_time_ms"`
}
