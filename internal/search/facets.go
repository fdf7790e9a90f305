package search

import (
	"strconv"

	"github.com/hyperjump/docscope/internal/index"
)

// facetAxes are the aggregation axes computed for every search. Date facets
// bucket by year of the modified timestamp.
var facetAxes = []string{"format", "category", "tag", "year"}

// computeFacets counts attribute values across the matched documents only,
// never the whole index.
func computeFacets(snap *index.Snapshot, ids []string) map[string]map[string]int {
	facets := make(map[string]map[string]int, len(facetAxes))
	for _, axis := range facetAxes {
		facets[axis] = make(map[string]int)
	}
	for _, id := range ids {
		info := snap.Doc(id)
		if info == nil {
			continue
		}
		facets["format"][info.Format]++
		if info.Category != "" {
			facets["category"][info.Category]++
		}
		for _, tag := range info.Tags {
			facets["tag"][tag]++
		}
		if !info.Modified.IsZero() {
			facets["year"][strconv.Itoa(info.Modified.Year())]++
		}
	}
	return facets
}

// matchesFilters reports whether a document passes the facet filters: within
// one axis any allowed value matches, across axes all must match.
func matchesFilters(info *index.DocInfo, filters map[string][]string) bool {
	for axis, allowed := range filters {
		if len(allowed) == 0 {
			continue
		}
		if !matchesAxis(info, axis, allowed) {
			return false
		}
	}
	return true
}

func matchesAxis(info *index.DocInfo, axis string, allowed []string) bool {
	switch axis {
	case "format":
		return containsString(allowed, info.Format)
	case "category":
		return containsString(allowed, info.Category)
	case "tag", "tags":
		for _, tag := range info.Tags {
			if containsString(allowed, tag) {
				return true
			}
		}
		return false
	case "year":
		return containsString(allowed, strconv.Itoa(info.Modified.Year()))
	default:
		// Unknown filter axes never match, surfacing typos as empty results.
		return false
	}
}

func containsString(list []string, v string) bool {
	for _, s := range list {
		if s == v {
			return true
		}
	}
	return false
}
