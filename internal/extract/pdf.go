package extract

import (
	"bytes"
	"fmt"
	"strconv"

	"github.com/ledongthuc/pdf"

	"github.com/hyperjump/docscope/internal/models"
)

func extractPDF(path string, raw []byte) (*Result, error) {
	r, err := pdf.NewReader(bytes.NewReader(raw), int64(len(raw)))
	if err != nil {
		return nil, fmt.Errorf("open PDF: %w", err)
	}
	var buf bytes.Buffer
	numPages := r.NumPage()
	for i := 0; i < numPages; i++ {
		page := r.Page(i + 1)
		if page.V.IsNull() {
			continue
		}
		text, err := page.GetPlainText(nil)
		if err != nil {
			return nil, fmt.Errorf("extract page %d: %w", i+1, err)
		}
		if _, err := buf.WriteString(text); err != nil {
			return nil, fmt.Errorf("write page %d: %w", i+1, err)
		}
		if i < numPages-1 {
			buf.WriteByte('\n')
		}
	}
	meta := models.Metadata{}
	meta.Set("page_count", strconv.Itoa(numPages))
	return &Result{Body: buf.String(), Meta: meta}, nil
}
