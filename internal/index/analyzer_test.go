package index

import (
	"reflect"
	"testing"
)

func TestAnalyze(t *testing.T) {
	a := NewAnalyzer(false, nil, 64)
	tests := []struct {
		name string
		text string
		want []string
	}{
		{"lowercase and split", "Hello, World!", []string{"hello", "world"}},
		{"digits kept", "port 8080 open", []string{"port", "8080", "open"}},
		{"punctuation only", "--- !!! ...", nil},
		{"empty", "", nil},
		{"unicode letters", "café naïve", []string{"café", "naïve"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var got []string
			for _, tok := range a.Analyze(tt.text) {
				got = append(got, tok.Term)
			}
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("Analyze(%q) = %v, want %v", tt.text, got, tt.want)
			}
		})
	}
}

func TestAnalyze_positionsConsecutive(t *testing.T) {
	a := NewAnalyzer(false, DefaultStopwords, 64)
	tokens := a.Analyze("the quick brown fox")
	// "the" is dropped; remaining positions must still be 0,1,2 so phrase
	// adjacency holds.
	if len(tokens) != 3 {
		t.Fatalf("got %d tokens, want 3", len(tokens))
	}
	for i, tok := range tokens {
		if tok.Position != uint32(i) {
			t.Errorf("token %d position = %d, want %d", i, tok.Position, i)
		}
	}
}

func TestAnalyze_maxTermLength(t *testing.T) {
	a := NewAnalyzer(false, nil, 5)
	tokens := a.Analyze("short toolongterm ok")
	if len(tokens) != 2 {
		t.Fatalf("got %v, want the overlong term dropped", tokens)
	}
}

func TestAnalyze_maxTermLengthCountsRunes(t *testing.T) {
	a := NewAnalyzer(false, nil, 5)
	// Five runes but fifteen bytes; the bound is on runes, so it stays.
	tokens := a.Analyze("日本語検索")
	if len(tokens) != 1 || tokens[0].Term != "日本語検索" {
		t.Fatalf("got %v, want the five-rune term kept", tokens)
	}
	if got := a.Analyze("日本語検索エンジン"); len(got) != 0 {
		t.Fatalf("got %v, want the nine-rune term dropped", got)
	}
}

func TestAnalyze_stemming(t *testing.T) {
	a := NewAnalyzer(true, nil, 64)
	tokens := a.Analyze("running")
	if len(tokens) != 1 || tokens[0].Term != "run" {
		t.Errorf("got %v, want [run]", tokens)
	}
}
