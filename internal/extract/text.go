package extract

import (
	"strconv"
	"strings"

	"github.com/hyperjump/docscope/internal/models"
)

// extractText handles plain text: the body is the content as-is, with basic
// counts as metadata.
func extractText(path string, raw []byte) (*Result, error) {
	content := string(raw)
	meta := models.Metadata{}
	meta.Set("line_count", strconv.Itoa(len(strings.Split(content, "\n"))))
	meta.Set("word_count", strconv.Itoa(len(strings.Fields(content))))
	meta.Set("char_count", strconv.Itoa(len(content)))
	return &Result{Body: content, Meta: meta}, nil
}
