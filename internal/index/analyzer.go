package index

import (
	"strings"
	"unicode"
	"unicode/utf8"

	"github.com/surgebase/porter2"
)

// Token is one analyzed term with its position in the token stream.
// Positions are assigned after filtering, so they are consecutive within a
// field and phrase matching works on adjacent positions.
type Token struct {
	Term     string
	Position uint32
}

// Analyzer turns raw text into the token stream stored in postings. The same
// analyzer must be used at index and query time or phrase and term lookups
// silently diverge.
type Analyzer struct {
	stemming      bool
	stopwords     map[string]bool
	maxTermLength int
}

// NewAnalyzer builds an analyzer. Stemming and stopword removal default to
// off; exact tokens make prefix and fuzzy matching behave predictably.
// Callers wanting stopword removal can pass DefaultStopwords or their own
// list.
func NewAnalyzer(stemming bool, stopwords []string, maxTermLength int) *Analyzer {
	if maxTermLength <= 0 {
		maxTermLength = 64
	}
	a := &Analyzer{stemming: stemming, maxTermLength: maxTermLength}
	if len(stopwords) > 0 {
		a.stopwords = make(map[string]bool, len(stopwords))
		for _, w := range stopwords {
			a.stopwords[strings.ToLower(w)] = true
		}
	}
	return a
}

// Analyze tokenizes text: lowercase, split on any rune that is not a letter
// or digit, drop overlong terms, then optionally stem and drop stopwords.
func (a *Analyzer) Analyze(text string) []Token {
	if text == "" {
		return nil
	}
	fields := strings.FieldsFunc(strings.ToLower(text), func(r rune) bool {
		return !unicode.IsLetter(r) && !unicode.IsDigit(r)
	})
	tokens := make([]Token, 0, len(fields))
	var pos uint32
	for _, term := range fields {
		// The length bound counts runes; multibyte terms are not penalized
		// for their encoding.
		if utf8.RuneCountInString(term) > a.maxTermLength {
			continue
		}
		if a.stemming {
			term = porter2.Stem(term)
		}
		if a.stopwords[term] {
			continue
		}
		tokens = append(tokens, Token{Term: term, Position: pos})
		pos++
	}
	return tokens
}

// AnalyzeTerms is Analyze without positions, for query atoms where only the
// normalized terms matter.
func (a *Analyzer) AnalyzeTerms(text string) []string {
	tokens := a.Analyze(text)
	terms := make([]string, len(tokens))
	for i, tok := range tokens {
		terms[i] = tok.Term
	}
	return terms
}

// DefaultStopwords is the common English stopword list.
var DefaultStopwords = []string{
	"a", "an", "and", "are", "as", "at", "be", "but", "by", "for", "if",
	"in", "into", "is", "it", "no", "not", "of", "on", "or", "such",
	"that", "the", "their", "then", "there", "these", "they", "this",
	"to", "was", "will", "with",
}
