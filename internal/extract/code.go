package extract

import (
	"path/filepath"
	"regexp"
	"strconv"
	"strings"

	"github.com/hyperjump/docscope/internal/format"
	"github.com/hyperjump/docscope/internal/models"
)

const maxRecordedSymbols = 20

var (
	reImportLine = regexp.MustCompile(`^\s*(import\s+.+|from\s+\S+\s+import\s+.+|#include\s+.+|use\s+\S+;|require\s*\(.+\))`)
	// Covers func/def/function/class/struct/type declarations across the
	// supported languages; group 2 is the symbol name.
	reSymbolDef = regexp.MustCompile(`^\s*(?:export\s+)?(func|def|function|class|struct|type|interface)\s+(?:\([^)]*\)\s*)?([A-Za-z_][A-Za-z0-9_]*)`)
	reComment   = regexp.MustCompile(`^\s*(?://|#)\s*(.+)$`)
)

// extractCode indexes source files: imports and declared symbol names become
// metadata, the first comment line becomes the title candidate.
func extractCode(path string, raw []byte) (*Result, error) {
	content := string(raw)
	meta := models.Metadata{}
	res := &Result{Meta: meta}

	if lang := format.Language(filepath.Ext(path)); lang != "" {
		meta.Set("language", lang)
	}

	lines := strings.Split(content, "\n")
	meta.Set("line_count", strconv.Itoa(len(lines)))

	imports, symbols := 0, 0
	for _, line := range lines {
		if imports < maxRecordedSymbols && reImportLine.MatchString(line) {
			meta.Add("imports", strings.TrimSpace(line))
			imports++
		}
		if m := reSymbolDef.FindStringSubmatch(line); m != nil && symbols < maxRecordedSymbols {
			meta.Add("symbols", m[2])
			symbols++
		}
	}

	if m := reComment.FindStringSubmatch(lines[0]); m != nil && len(m[1]) < 100 {
		res.Title = strings.TrimSpace(m[1])
	}

	res.Body = content
	return res, nil
}
