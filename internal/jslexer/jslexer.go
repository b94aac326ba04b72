// Package jslexer implements the CHTL-JS lexer of spec §4.3: it tokenizes
// only the constructs CHTL-JS adds on top of JavaScript — "{{ ... }}"
// enhanced selectors (captured verbatim, never tokenized inside) and "->"
// arrows — plus enough generic structure (identifiers, matching
// brackets, strings, numbers) for the parser to recognize the
// `listen`/`delegate`/`animate`/`vir` call shapes. Everything else is
// left as raw text the parser copies verbatim into OpaqueJs nodes, since
// "the parser does not attempt to understand" arbitrary surrounding
// JavaScript. Framework shared with internal/lexer: a span-preserving
// cursor plus handler-backed recoverable errors, so a malformed
// construct reports a diagnostic and resynchronizes rather than
// aborting the scan.
package jslexer

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/token"
)

type Lexer struct {
	src  []byte
	pos  int
	base int
	h    *handler.Handler
}

func New(text string, base int, h *handler.Handler) *Lexer {
	return &Lexer{src: []byte(text), base: base, h: h}
}

// Slice returns the fragment-local substring covered by [start, end)
// fragment-relative offsets (i.e. Span.Loc.Start - base). Used by the
// parser to capture raw, un-tokenized JavaScript for OpaqueJs nodes and
// handler bodies.
func (lx *Lexer) Slice(start, end int) string {
	if start < 0 {
		start = 0
	}
	if end > len(lx.src) {
		end = len(lx.src)
	}
	if start >= end {
		return ""
	}
	return string(lx.src[start:end])
}

// Len reports the length of the underlying fragment text.
func (lx *Lexer) Len() int { return len(lx.src) }

// Pos reports the lexer's current fragment-relative cursor.
func (lx *Lexer) Pos() int { return lx.pos }

// Seek repositions the cursor (used after the parser consumes a raw
// handler-body span itself via matching-bracket scanning).
func (lx *Lexer) Seek(pos int) { lx.pos = pos }

func (lx *Lexer) span(start, end int) loc.Range {
	return loc.Range{Loc: loc.Loc{Start: lx.base + start}, Len: end - start}
}

func (lx *Lexer) peekAt(off int) byte {
	if lx.pos+off >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos+off]
}

func (lx *Lexer) skipSpaceAndComments() {
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r':
			lx.pos++
		case c == '/' && lx.peekAt(1) == '/':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case c == '/' && lx.peekAt(1) == '*':
			lx.pos += 2
			for lx.pos+1 < len(lx.src) && !(lx.src[lx.pos] == '*' && lx.src[lx.pos+1] == '/') {
				lx.pos++
			}
			lx.pos += 2
		default:
			return
		}
	}
}

// Next returns the next structural token. Raw JavaScript between
// structural tokens is not returned here — callers that need it slice it
// themselves via Slice, anchored on token spans.
func (lx *Lexer) Next() token.Token {
	lx.skipSpaceAndComments()
	if lx.pos >= len(lx.src) {
		return token.Token{Kind: token.Eof, Span: lx.span(lx.pos, lx.pos)}
	}

	start := lx.pos
	c := lx.src[lx.pos]

	switch {
	case c == '{' && lx.peekAt(1) == '{':
		return lx.lexEnhancedSelector()
	case c == '-' && lx.peekAt(1) == '>':
		lx.pos += 2
		return token.Token{Kind: token.Arrow, Data: "->", Span: lx.span(start, lx.pos)}
	case c == '"' || c == '\'' || c == '`':
		return lx.lexString(c)
	case isDigit(c):
		for lx.pos < len(lx.src) && (isDigit(lx.src[lx.pos]) || lx.src[lx.pos] == '.') {
			lx.pos++
		}
		return token.Token{Kind: token.NumberLiteral, Data: string(lx.src[start:lx.pos]), Span: lx.span(start, lx.pos)}
	case isIdentStart(c):
		for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
			lx.pos++
		}
		word := string(lx.src[start:lx.pos])
		if word == "vir" {
			return token.Token{Kind: token.ContextualKeyword, Data: "vir", Span: lx.span(start, lx.pos)}
		}
		return token.Token{Kind: token.Identifier, Data: word, Span: lx.span(start, lx.pos)}
	case c == '(' || c == ')' || c == '{' || c == '}' || c == ':' || c == ',' || c == ';' || c == '=' || c == '.':
		lx.pos++
		return token.Token{Kind: token.Punctuation, Data: string(c), Span: lx.span(start, lx.pos)}
	default:
		lx.pos++
		return token.Token{Kind: token.Punctuation, Data: string(c), Span: lx.span(start, lx.pos)}
	}
}

// lexEnhancedSelector captures "{{ ... }}" verbatim, spec §3/§4.3: "no
// tokenization inside".
func (lx *Lexer) lexEnhancedSelector() token.Token {
	start := lx.pos
	lx.pos += 2
	innerStart := lx.pos
	for lx.pos+1 < len(lx.src) && !(lx.src[lx.pos] == '}' && lx.src[lx.pos+1] == '}') {
		lx.pos++
	}
	inner := strings.TrimSpace(string(lx.src[innerStart:lx.pos]))
	if lx.pos+1 < len(lx.src) {
		lx.pos += 2
	} else {
		if lx.h != nil {
			lx.h.AppendError(&loc.ErrorWithRange{
				Code:  loc.ERROR_UNEXPECTED_TOKEN,
				Text:  "unterminated enhanced selector {{ ... }}",
				Range: lx.span(start, lx.pos),
			})
		}
		lx.pos = len(lx.src)
	}
	return token.Token{Kind: token.EnhancedSelector, Data: inner, Span: lx.span(start, lx.pos)}
}

func (lx *Lexer) lexString(quote byte) token.Token {
	start := lx.pos
	lx.pos++
	for lx.pos < len(lx.src) {
		if lx.src[lx.pos] == '\\' {
			lx.pos += 2
			continue
		}
		if lx.src[lx.pos] == quote {
			lx.pos++
			break
		}
		lx.pos++
	}
	return token.Token{Kind: token.StringLiteral, Data: string(lx.src[start:lx.pos]), Span: lx.span(start, lx.pos)}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentChar(c byte) bool { return isIdentStart(c) || isDigit(c) }

// MatchBalanced scans forward from pos (which must point just past an
// opening '(' or '{') and returns the fragment-relative index of its
// matching close, honoring nested brackets and string literals, without
// producing tokens — this is how the parser captures an opaque handler
// body (e.g. the "() => { x++; }" in a listen() call) as raw text.
func MatchBalanced(src []byte, pos int, open, close byte) int {
	depth := 1
	for pos < len(src) {
		c := src[pos]
		switch {
		case c == '"' || c == '\'' || c == '`':
			pos++
			for pos < len(src) && src[pos] != c {
				if src[pos] == '\\' {
					pos++
				}
				pos++
			}
		case c == open:
			depth++
		case c == close:
			depth--
			if depth == 0 {
				return pos
			}
		}
		pos++
	}
	return -1
}
