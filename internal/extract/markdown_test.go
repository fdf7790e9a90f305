package extract

import (
	"strings"
	"testing"
)

func TestExtractMarkdown_frontMatter(t *testing.T) {
	content := `---
title: Deployment Guide
category: ops
tags:
  - docker
  - kubernetes
---
# Ignored Heading

Run the deploy script.
`
	res, err := extractMarkdown("/docs/deploy.md", []byte(content))
	if err != nil {
		t.Fatalf("extractMarkdown: %v", err)
	}
	if res.Title != "Deployment Guide" {
		t.Errorf("title = %q, want front-matter title", res.Title)
	}
	if res.Category != "ops" {
		t.Errorf("category = %q, want ops", res.Category)
	}
	if len(res.Tags) != 2 || res.Tags[0] != "docker" {
		t.Errorf("tags = %v", res.Tags)
	}
	if strings.Contains(res.Body, "title: Deployment Guide") {
		t.Error("front-matter block not stripped from body")
	}
	if !strings.Contains(res.Body, "Run the deploy script.") {
		t.Errorf("body lost content: %q", res.Body)
	}
}

func TestExtractMarkdown_h1Title(t *testing.T) {
	res, err := extractMarkdown("/docs/a.md", []byte("# First Heading\n\ntext"))
	if err != nil {
		t.Fatalf("extractMarkdown: %v", err)
	}
	if res.Title != "First Heading" {
		t.Errorf("title = %q, want First Heading", res.Title)
	}
}

func TestExtractMarkdown_headersAndLinks(t *testing.T) {
	content := "# One\n## Two\n[ref](https://example.com)\n![pic](img.png)\n"
	res, err := extractMarkdown("/docs/a.md", []byte(content))
	if err != nil {
		t.Fatalf("extractMarkdown: %v", err)
	}
	if got := res.Meta["headers"]; len(got) != 2 {
		t.Errorf("headers = %v, want 2 entries", got)
	}
	if got := res.Meta.Get("links"); got != "https://example.com" {
		t.Errorf("links = %q", got)
	}
	if got := res.Meta.Get("images"); got != "img.png" {
		t.Errorf("images = %q", got)
	}
}

func TestExtractMarkdown_badFrontMatter(t *testing.T) {
	content := "---\n: not: valid: yaml: [\n---\nbody\n"
	if _, err := extractMarkdown("/docs/a.md", []byte(content)); err == nil {
		t.Fatal("expected error for invalid front matter")
	}
}

func TestSplitFrontMatter_noFence(t *testing.T) {
	body, fm, err := splitFrontMatter("plain text")
	if err != nil {
		t.Fatalf("splitFrontMatter: %v", err)
	}
	if fm != nil {
		t.Errorf("fm = %v, want nil", fm)
	}
	if body != "plain text" {
		t.Errorf("body = %q", body)
	}
}
