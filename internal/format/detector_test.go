package format

import "testing"

func TestDetect_byExtension(t *testing.T) {
	tests := []struct {
		path string
		want Variant
	}{
		{"notes.md", Markdown},
		{"README.markdown", Markdown},
		{"a/b/c.txt", Text},
		{"server.log", Text},
		{"data.json", JSON},
		{"deploy.yaml", YAML},
		{"deploy.yml", YAML},
		{"index.html", HTML},
		{"main.go", Code},
		{"script.py", Code},
		{"report.pdf", PDF},
		{"IMAGE.PNG", Unsupported},
		{"archive.tar.gz", Unsupported},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			if got := Detect(tt.path, nil); got != tt.want {
				t.Errorf("Detect(%q) = %v, want %v", tt.path, got, tt.want)
			}
		})
	}
}

func TestDetect_caseInsensitiveExtension(t *testing.T) {
	if got := Detect("NOTES.MD", nil); got != Markdown {
		t.Errorf("Detect(NOTES.MD) = %v, want Markdown", got)
	}
}

func TestDetect_bySniffing(t *testing.T) {
	tests := []struct {
		name   string
		sample string
		want   Variant
	}{
		{"json object", `{"key": "value"}`, JSON},
		{"json array", `[1, 2, 3]`, JSON},
		{"json with leading whitespace", "\n\t {\"a\":1}", JSON},
		{"html doctype", "<!DOCTYPE html><html></html>", HTML},
		{"html tag", "<html lang=\"en\">", HTML},
		{"front matter fence", "---\ntitle: Hi\n---\nBody", Markdown},
		{"pdf header", "%PDF-1.7 rest", PDF},
		{"plain prose", "just some words", Unsupported},
		{"empty", "", Unsupported},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Detect("file.unknownext", []byte(tt.sample)); got != tt.want {
				t.Errorf("sniff(%q) = %v, want %v", tt.sample, got, tt.want)
			}
		})
	}
}

func TestVariant_String(t *testing.T) {
	if Markdown.String() != "markdown" || Unsupported.String() != "unsupported" {
		t.Error("unexpected variant names")
	}
	if Variant(200).String() != "unsupported" {
		t.Error("out-of-range variants should read as unsupported")
	}
}
