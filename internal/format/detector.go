// Package format classifies files into a closed set of document format variants.
package format

import (
	"bytes"
	"path/filepath"
	"strings"
)

// Variant identifies a supported document format. The set is closed: adding a
// format means adding a variant here, a table entry below, and an extractor.
type Variant uint8

const (
	Unsupported Variant = iota
	Markdown
	Text
	JSON
	YAML
	HTML
	Code
	PDF
)

// String returns the variant name as stored in document records and facets.
func (v Variant) String() string {
	switch v {
	case Markdown:
		return "markdown"
	case Text:
		return "text"
	case JSON:
		return "json"
	case YAML:
		return "yaml"
	case HTML:
		return "html"
	case Code:
		return "code"
	case PDF:
		return "pdf"
	default:
		return "unsupported"
	}
}

// SniffLimit is the maximum number of leading bytes Detect inspects when the
// extension alone is not conclusive. Detection never reads the whole file.
const SniffLimit = 512

var extensionTable = map[string]Variant{
	".md":       Markdown,
	".markdown": Markdown,
	".mkd":      Markdown,
	".mdx":      Markdown,
	".txt":      Text,
	".text":     Text,
	".log":      Text,
	".csv":      Text,
	".tsv":      Text,
	".rst":      Text,
	".json":     JSON,
	".jsonl":    JSON,
	".geojson":  JSON,
	".yaml":     YAML,
	".yml":      YAML,
	".html":     HTML,
	".htm":      HTML,
	".xhtml":    HTML,
	".pdf":      PDF,
	".go":       Code,
	".py":       Code,
	".pyw":      Code,
	".pyi":      Code,
	".js":       Code,
	".ts":       Code,
	".rs":       Code,
	".java":     Code,
	".c":        Code,
	".h":        Code,
	".cpp":      Code,
	".rb":       Code,
	".sh":       Code,
}

// Language returns the programming language for a Code file extension, or ""
// when unknown. Used as metadata by the code extractor.
func Language(ext string) string {
	switch strings.ToLower(ext) {
	case ".go":
		return "go"
	case ".py", ".pyw", ".pyi":
		return "python"
	case ".js":
		return "javascript"
	case ".ts":
		return "typescript"
	case ".rs":
		return "rust"
	case ".java":
		return "java"
	case ".c", ".h":
		return "c"
	case ".cpp":
		return "cpp"
	case ".rb":
		return "ruby"
	case ".sh":
		return "shell"
	default:
		return ""
	}
}

// Detect classifies the file at path. The extension table decides when it
// can; otherwise the first SniffLimit bytes of sample are checked for format
// signatures. Unknown types yield Unsupported, which is a normal outcome,
// not an error.
func Detect(path string, sample []byte) Variant {
	ext := strings.ToLower(filepath.Ext(path))
	if v, ok := extensionTable[ext]; ok {
		return v
	}
	return sniff(sample)
}

func sniff(sample []byte) Variant {
	if len(sample) > SniffLimit {
		sample = sample[:SniffLimit]
	}
	trimmed := bytes.TrimLeft(sample, " \t\r\n")
	if len(trimmed) == 0 {
		return Unsupported
	}
	switch {
	case bytes.HasPrefix(sample, []byte("%PDF-")):
		return PDF
	case bytes.HasPrefix(sample, []byte("---\n")) || bytes.HasPrefix(sample, []byte("---\r\n")):
		// Front-matter fence.
		return Markdown
	case trimmed[0] == '{' || trimmed[0] == '[':
		return JSON
	case hasHTMLSignature(trimmed):
		return HTML
	default:
		return Unsupported
	}
}

func hasHTMLSignature(b []byte) bool {
	lower := bytes.ToLower(b)
	return bytes.HasPrefix(lower, []byte("<!doctype html")) || bytes.HasPrefix(lower, []byte("<html"))
}
