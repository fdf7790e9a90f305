package search

import (
	"sort"
	"strings"
	"unicode"
)

// Snippet extracts a window of the body around the first occurrence of any
// matched term, trimmed to word boundaries, and returns the terms actually
// present for highlighting.
func Snippet(body string, terms []string, maxLen int) (string, []string) {
	if maxLen <= 0 {
		maxLen = 200
	}
	lower := strings.ToLower(body)

	first := -1
	var present []string
	for _, term := range terms {
		idx := indexWord(lower, term)
		if idx < 0 {
			continue
		}
		present = append(present, term)
		if first < 0 || idx < first {
			first = idx
		}
	}
	sort.Strings(present)

	if first < 0 {
		// No term in the body (title-only match); lead with the opening.
		return truncate(body, maxLen), present
	}

	// Center the window on the first hit.
	start := first - maxLen/4
	if start < 0 {
		start = 0
	}
	end := start + maxLen
	if end > len(body) {
		end = len(body)
		if start = end - maxLen; start < 0 {
			start = 0
		}
	}
	snippet := body[start:end]
	if start > 0 {
		snippet = "..." + trimPartialWord(snippet, true)
	}
	if end < len(body) {
		snippet = trimPartialWord(snippet, false) + "..."
	}
	return strings.TrimSpace(snippet), present
}

// indexWord finds term in text at a word boundary.
func indexWord(text, term string) int {
	offset := 0
	for {
		idx := strings.Index(text[offset:], term)
		if idx < 0 {
			return -1
		}
		abs := offset + idx
		beforeOK := abs == 0 || !isWordRune(rune(text[abs-1]))
		afterOK := abs+len(term) >= len(text) || !isWordRune(rune(text[abs+len(term)]))
		if beforeOK && afterOK {
			return abs
		}
		offset = abs + len(term)
	}
}

func isWordRune(r rune) bool {
	return unicode.IsLetter(r) || unicode.IsDigit(r)
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return strings.TrimSpace(s)
	}
	return strings.TrimSpace(trimPartialWord(s[:maxLen], false)) + "..."
}

// trimPartialWord drops the cut-off word at the leading or trailing edge.
func trimPartialWord(s string, leading bool) string {
	if leading {
		if i := strings.IndexFunc(s, unicode.IsSpace); i >= 0 {
			return strings.TrimLeft(s[i:], " \t\n")
		}
		return s
	}
	if i := strings.LastIndexFunc(s, unicode.IsSpace); i >= 0 {
		return strings.TrimRight(s[:i], " \t\n")
	}
	return s
}
