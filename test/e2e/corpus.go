// Package e2e runs whole-lifecycle tests over a generated document corpus.
package e2e

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// corpusDoc describes one file the generator writes, plus the query terms it
// is expected to answer.
type corpusDoc struct {
	RelPath string
	Content string
	// Terms that must find this document.
	Terms []string
}

// buildCorpus returns a mixed-format corpus: markdown guides with front
// matter, plain text notes, JSON, YAML, HTML, and source code. Each document
// carries a unique marker term so hits can be attributed precisely.
func buildCorpus() []corpusDoc {
	docs := []corpusDoc{
		{
			RelPath: "guides/deploy.md",
			Content: "---\ntitle: Deployment Guide\ncategory: ops\ntags: [howto, deploy]\n---\n\n# Deployment Guide\n\nShip the service with zero downtime. markerdeploy\n",
			Terms:   []string{"markerdeploy", "downtime", "deployment"},
		},
		{
			RelPath: "guides/backup.md",
			Content: "# Backup Strategy\n\nNightly snapshots and offsite copies. markerbackup\n",
			Terms:   []string{"markerbackup", "snapshots"},
		},
		{
			RelPath: "notes/meeting.txt",
			Content: "Discussed quarterly roadmap and hiring. markermeeting\n",
			Terms:   []string{"markermeeting", "roadmap"},
		},
		{
			RelPath: "config/app.yaml",
			Content: "name: billing\nreplicas: 3\ndescription: invoice processing pipeline markerbilling\n",
			Terms:   []string{"markerbilling", "invoice"},
		},
		{
			RelPath: "data/inventory.json",
			Content: `{"warehouse": "east", "items": ["widget", "sprocket"], "note": "markerinventory"}`,
			Terms:   []string{"markerinventory", "sprocket"},
		},
		{
			RelPath: "site/about.html",
			Content: "<html><head><title>About Us</title></head><body><h1>About Us</h1><p>Company history and mission. markerabout</p></body></html>",
			Terms:   []string{"markerabout", "mission"},
		},
		{
			RelPath: "src/parser.go",
			Content: "package parser\n\n// Tokenize splits input into tokens. markerparser\nfunc Tokenize(s string) []string { return nil }\n",
			Terms:   []string{"markerparser", "tokenize"},
		},
	}
	// Filler documents dilute term frequencies so ranking is non-trivial.
	for i := 0; i < 20; i++ {
		docs = append(docs, corpusDoc{
			RelPath: fmt.Sprintf("filler/note_%02d.txt", i),
			Content: fmt.Sprintf("Routine log entry number %d with common words service update status.\n", i),
			Terms:   []string{fmt.Sprintf("%d", i)},
		})
	}
	return docs
}

// writeCorpus materializes the corpus under root and returns the documents.
func writeCorpus(root string) ([]corpusDoc, error) {
	docs := buildCorpus()
	for _, doc := range docs {
		path := filepath.Join(root, filepath.FromSlash(doc.RelPath))
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			return nil, err
		}
		if err := os.WriteFile(path, []byte(doc.Content), 0644); err != nil {
			return nil, err
		}
	}
	return docs, nil
}

// markerOf returns the unique marker term of a corpus document, or "".
func markerOf(doc corpusDoc) string {
	for _, term := range doc.Terms {
		if strings.HasPrefix(term, "marker") {
			return term
		}
	}
	return ""
}
