package search

import (
	"strings"
	"testing"
)

func TestSnippet(t *testing.T) {
	body := "The deployment guide covers docker networking in detail, including overlay networks and service discovery."
	snippet, highlights := Snippet(body, []string{"docker", "missing"}, 60)
	if !strings.Contains(snippet, "docker") {
		t.Errorf("snippet %q does not contain the hit", snippet)
	}
	if len(snippet) > 60+10 {
		t.Errorf("snippet too long: %d bytes", len(snippet))
	}
	if len(highlights) != 1 || highlights[0] != "docker" {
		t.Errorf("highlights = %v, want [docker]", highlights)
	}
}

func TestSnippet_noHitLeadsWithOpening(t *testing.T) {
	body := "Short body about something else entirely."
	snippet, highlights := Snippet(body, []string{"docker"}, 200)
	if snippet != body {
		t.Errorf("snippet = %q, want full body", snippet)
	}
	if len(highlights) != 0 {
		t.Errorf("highlights = %v, want none", highlights)
	}
}

func TestSnippet_wordBoundary(t *testing.T) {
	// "dock" must not match inside "docker".
	body := "docker is not a dock"
	snippet, highlights := Snippet(body, []string{"dock"}, 200)
	if len(highlights) != 1 {
		t.Fatalf("highlights = %v", highlights)
	}
	if !strings.Contains(snippet, "dock") {
		t.Errorf("snippet = %q", snippet)
	}
}

func TestSnippet_ellipses(t *testing.T) {
	body := strings.Repeat("filler ", 50) + "needle" + strings.Repeat(" trailer", 50)
	snippet, _ := Snippet(body, []string{"needle"}, 80)
	if !strings.HasPrefix(snippet, "...") || !strings.HasSuffix(snippet, "...") {
		t.Errorf("snippet = %q, want ellipses on both ends", snippet)
	}
	if !strings.Contains(snippet, "needle") {
		t.Errorf("snippet lost the hit: %q", snippet)
	}
}
