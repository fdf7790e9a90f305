// Package extract pulls plain-text bodies and structural metadata out of raw
// document bytes, one extractor per format variant.
package extract

import (
	"fmt"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/hyperjump/docscope/internal/format"
	"github.com/hyperjump/docscope/internal/models"
)

// Result is the output of extracting one document. Body is normalized UTF-8
// plain text; Title is the best title candidate (callers fall back to the
// file name); Category and Tags come from front matter when present.
type Result struct {
	Body     string
	Title    string
	Category string
	Tags     []string
	Meta     models.Metadata
}

// extractFunc is a pure function of its input bytes, safe to call
// concurrently from many scan workers.
type extractFunc func(path string, raw []byte) (*Result, error)

// Dispatch table; adding a format variant means adding one entry here.
var extractors = map[format.Variant]extractFunc{
	format.Markdown: extractMarkdown,
	format.Text:     extractText,
	format.JSON:     extractJSON,
	format.YAML:     extractYAML,
	format.HTML:     extractHTML,
	format.Code:     extractCode,
	format.PDF:      extractPDF,
}

// Extract runs the extractor for the detected variant. A parse failure is
// returned as an error; the caller records it per-file and keeps scanning.
func Extract(v format.Variant, path string, raw []byte) (*Result, error) {
	fn, ok := extractors[v]
	if !ok {
		return nil, fmt.Errorf("no extractor for format %q", v)
	}
	res, err := fn(path, raw)
	if err != nil {
		return nil, err
	}
	res.Body = sanitizeUTF8(res.Body)
	if res.Title == "" {
		res.Title = filepath.Base(path)
	}
	if res.Meta == nil {
		res.Meta = models.Metadata{}
	}
	return res, nil
}

// sanitizeUTF8 replaces invalid byte sequences so the body is always valid
// UTF-8 after normalization.
func sanitizeUTF8(s string) string {
	if utf8.ValidString(s) {
		return s
	}
	return strings.ToValidUTF8(s, "�")
}
