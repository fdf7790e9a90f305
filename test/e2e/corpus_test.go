package e2e

import (
	"os"
	"path/filepath"
	"testing"
)

func TestWriteCorpus(t *testing.T) {
	root := t.TempDir()
	docs, err := writeCorpus(root)
	if err != nil {
		t.Fatal(err)
	}
	if len(docs) < 7 {
		t.Fatalf("corpus has %d docs", len(docs))
	}
	for _, doc := range docs {
		if _, err := os.Stat(filepath.Join(root, filepath.FromSlash(doc.RelPath))); err != nil {
			t.Errorf("missing corpus file %s: %v", doc.RelPath, err)
		}
	}
}

func TestMarkerOf(t *testing.T) {
	if got := markerOf(corpusDoc{Terms: []string{"alpha", "markerx"}}); got != "markerx" {
		t.Errorf("markerOf = %q", got)
	}
	if got := markerOf(corpusDoc{Terms: []string{"alpha"}}); got != "" {
		t.Errorf("markerOf = %q, want empty", got)
	}
}
