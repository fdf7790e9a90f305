// Package search implements the query engine: parsing, evaluation against an
// index snapshot, BM25 ranking, facets, suggestions, and highlighting.
package search

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Expr is a node in the parsed query tree.
type Expr interface {
	isExpr()
}

// OrExpr matches documents matching any child.
type OrExpr struct {
	Children []Expr
}

// AndExpr matches documents matching every child.
type AndExpr struct {
	Children []Expr
}

// NotExpr matches documents not matching the child.
type NotExpr struct {
	Child Expr
}

// TermExpr matches a single term, optionally restricted to a field.
type TermExpr struct {
	Field string
	Term  string
}

// PhraseExpr matches terms at consecutive positions within one field.
type PhraseExpr struct {
	Field string
	Terms []string
}

// PrefixExpr matches every dictionary term with the given prefix.
type PrefixExpr struct {
	Field  string
	Prefix string
}

// FuzzyExpr matches dictionary terms within the edit distance.
type FuzzyExpr struct {
	Field    string
	Term     string
	Distance int
}

func (*OrExpr) isExpr()     {}
func (*AndExpr) isExpr()    {}
func (*NotExpr) isExpr()    {}
func (*TermExpr) isExpr()   {}
func (*PhraseExpr) isExpr() {}
func (*PrefixExpr) isExpr() {}
func (*FuzzyExpr) isExpr()  {}

// ParseError describes a malformed query, pointing at the offending token.
type ParseError struct {
	Pos    int
	Token  string
	Reason string
}

func (e *ParseError) Error() string {
	if e.Token == "" {
		return fmt.Sprintf("parse error at position %d: %s", e.Pos, e.Reason)
	}
	return fmt.Sprintf("parse error at position %d near %q: %s", e.Pos, e.Token, e.Reason)
}

// queryFields is the closed set of field names accepted in field:atom syntax.
// "content" is an alias for body; "tag" for tags.
var queryFields = map[string]string{
	"title":    "title",
	"body":     "body",
	"content":  "body",
	"format":   "format",
	"category": "category",
	"tag":      "tags",
	"tags":     "tags",
	"path":     "path",
}

type tokenKind int

const (
	tokTerm tokenKind = iota
	tokPhrase
	tokLParen
	tokRParen
	tokOr
	tokAnd
	tokNot
	tokEOF
)

type token struct {
	kind tokenKind
	text string
	pos  int
}

type lexer struct {
	input string
	pos   int
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.input) && unicode.IsSpace(rune(l.input[l.pos])) {
		l.pos++
	}
	if l.pos >= len(l.input) {
		return token{kind: tokEOF, pos: l.pos}, nil
	}
	start := l.pos
	switch c := l.input[l.pos]; c {
	case '(':
		l.pos++
		return token{kind: tokLParen, text: "(", pos: start}, nil
	case ')':
		l.pos++
		return token{kind: tokRParen, text: ")", pos: start}, nil
	case '"':
		l.pos++
		end := strings.IndexByte(l.input[l.pos:], '"')
		if end < 0 {
			return token{}, &ParseError{Pos: start, Token: l.input[start:], Reason: "unbalanced quote"}
		}
		text := l.input[l.pos : l.pos+end]
		l.pos += end + 1
		return token{kind: tokPhrase, text: text, pos: start}, nil
	case '-':
		l.pos++
		return token{kind: tokNot, text: "-", pos: start}, nil
	}
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if unicode.IsSpace(rune(c)) || c == '(' || c == ')' || c == '"' {
			break
		}
		l.pos++
	}
	text := l.input[start:l.pos]
	switch text {
	case "OR":
		return token{kind: tokOr, text: text, pos: start}, nil
	case "AND":
		return token{kind: tokAnd, text: text, pos: start}, nil
	case "NOT":
		return token{kind: tokNot, text: text, pos: start}, nil
	}
	return token{kind: tokTerm, text: text, pos: start}, nil
}

type parser struct {
	lex  *lexer
	cur  token
	next token
}

// Parse turns a query string into an expression tree. An empty or blank
// query is a ParseError, never a match-all.
func Parse(query string) (Expr, error) {
	if strings.TrimSpace(query) == "" {
		return nil, &ParseError{Pos: 0, Reason: "empty query"}
	}
	p := &parser{lex: &lexer{input: query}}
	if err := p.advance(); err != nil {
		return nil, err
	}
	if err := p.advance(); err != nil {
		return nil, err
	}
	expr, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur.kind != tokEOF {
		return nil, &ParseError{Pos: p.cur.pos, Token: p.cur.text, Reason: "unexpected token"}
	}
	return expr, nil
}

func (p *parser) advance() error {
	p.cur = p.next
	tok, err := p.lex.next()
	if err != nil {
		return err
	}
	p.next = tok
	return nil
}

func (p *parser) parseOr() (Expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	children := []Expr{left}
	for p.cur.kind == tokOr {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}
	if len(children) == 1 {
		return left, nil
	}
	return &OrExpr{Children: children}, nil
}

func (p *parser) parseAnd() (Expr, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	children := []Expr{left}
	for {
		switch p.cur.kind {
		case tokAnd:
			if err := p.advance(); err != nil {
				return nil, err
			}
		case tokTerm, tokPhrase, tokLParen, tokNot:
			// Adjacency is implicit AND.
		default:
			if len(children) == 1 {
				return left, nil
			}
			return &AndExpr{Children: children}, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		children = append(children, right)
	}
}

func (p *parser) parseNot() (Expr, error) {
	if p.cur.kind == tokNot {
		pos := p.cur.pos
		if err := p.advance(); err != nil {
			return nil, err
		}
		if p.cur.kind == tokEOF {
			return nil, &ParseError{Pos: pos, Token: "NOT", Reason: "missing operand"}
		}
		child, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &NotExpr{Child: child}, nil
	}
	return p.parseAtom()
}

func (p *parser) parseAtom() (Expr, error) {
	switch p.cur.kind {
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		expr, err := p.parseOr()
		if err != nil {
			return nil, err
		}
		if p.cur.kind != tokRParen {
			return nil, &ParseError{Pos: p.cur.pos, Token: p.cur.text, Reason: "missing closing parenthesis"}
		}
		if err := p.advance(); err != nil {
			return nil, err
		}
		return expr, nil
	case tokPhrase:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return phraseExpr("", tok)
	case tokTerm:
		tok := p.cur
		if err := p.advance(); err != nil {
			return nil, err
		}
		return p.termAtom(tok)
	default:
		return nil, &ParseError{Pos: p.cur.pos, Token: p.cur.text, Reason: "expected term, phrase, or group"}
	}
}

// termAtom resolves field:atom syntax and the wildcard/fuzzy suffixes.
func (p *parser) termAtom(tok token) (Expr, error) {
	field := ""
	text := tok.text
	if i := strings.IndexByte(text, ':'); i >= 0 {
		name := strings.ToLower(text[:i])
		canonical, ok := queryFields[name]
		if !ok {
			return nil, &ParseError{Pos: tok.pos, Token: text[:i], Reason: "unknown field"}
		}
		field = canonical
		text = text[i+1:]
		// field:"phrase" arrives as two tokens.
		if text == "" && p.cur.kind == tokPhrase {
			ptok := p.cur
			if err := p.advance(); err != nil {
				return nil, err
			}
			return phraseExpr(field, ptok)
		}
		if text == "" {
			return nil, &ParseError{Pos: tok.pos, Token: tok.text, Reason: "missing field value"}
		}
	}

	if i := strings.IndexByte(text, '~'); i >= 0 {
		term := text[:i]
		if term == "" {
			return nil, &ParseError{Pos: tok.pos, Token: text, Reason: "fuzzy match needs a term"}
		}
		distance := 2
		if suffix := text[i+1:]; suffix != "" {
			n, err := strconv.Atoi(suffix)
			if err != nil {
				return nil, &ParseError{Pos: tok.pos, Token: text, Reason: "invalid fuzzy distance"}
			}
			distance = n
		}
		if distance < 1 {
			distance = 1
		}
		if distance > 2 {
			distance = 2
		}
		return &FuzzyExpr{Field: field, Term: term, Distance: distance}, nil
	}
	if strings.HasSuffix(text, "*") {
		prefix := strings.TrimSuffix(text, "*")
		if prefix == "" {
			return nil, &ParseError{Pos: tok.pos, Token: text, Reason: "wildcard needs a prefix"}
		}
		return &PrefixExpr{Field: field, Prefix: prefix}, nil
	}
	return &TermExpr{Field: field, Term: text}, nil
}

func phraseExpr(field string, tok token) (Expr, error) {
	terms := strings.Fields(tok.text)
	if len(terms) == 0 {
		return nil, &ParseError{Pos: tok.pos, Token: tok.text, Reason: "empty phrase"}
	}
	return &PhraseExpr{Field: field, Terms: terms}, nil
}
