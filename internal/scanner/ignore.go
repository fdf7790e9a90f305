package scanner

import (
	"path/filepath"

	"github.com/bmatcuk/doublestar/v4"
)

// ignoreMatcher prunes paths matching any of the configured glob patterns.
// Patterns are matched against the path relative to the scan root and
// against the base name, so both "**/node_modules/**" and ".DS_Store" work.
type ignoreMatcher struct {
	patterns []string
}

func newIgnoreMatcher(patterns []string) *ignoreMatcher {
	return &ignoreMatcher{patterns: patterns}
}

func (m *ignoreMatcher) Match(relPath string) bool {
	relPath = filepath.ToSlash(relPath)
	base := filepath.Base(relPath)
	for _, pattern := range m.patterns {
		if ok, _ := doublestar.Match(pattern, relPath); ok {
			return true
		}
		if ok, _ := doublestar.Match(pattern, base); ok {
			return true
		}
	}
	return false
}
