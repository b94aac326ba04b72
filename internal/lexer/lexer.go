// Package lexer implements the CHTL lexer of spec §4.2: a handwritten,
// span-preserving scanner over one Fragment's text (a CHTL fragment or a
// local style-block's CSS fragment — both share this lexer, since style
// rules are CHTL syntax with CSS vocabulary, not foreign CSS). Keyword
// tables are supplied by the caller so [Configuration][Name] aliases are
// honored, per spec §4.8.
//
// The structure — a cursor over a byte slice, readByte/peek helpers, a
// running Span, recoverable errors appended to a handler instead of
// aborting — is shared with internal/jslexer and generalized to CHTL's
// keyword/attribute grammar rather than an HTML-tag grammar.
package lexer

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/token"
)

// Lexer tokenizes one fragment's text. base is the fragment's starting
// byte offset in the whole source file, so spans line up with the
// original file for diagnostics.
type Lexer struct {
	src  []byte
	pos  int
	base int
	kt   *token.KeywordTable
	h    *handler.Handler

	// styleContext is toggled by the parser around local style blocks so
	// '.', '#', '&' and '::' are read as CssSelectorFragment tokens
	// instead of plain punctuation — spec §4.7's "state guard" idiom:
	// whether `.` means a CSS class selector or isn't meaningful at all
	// depends on where the parser currently is, not the character alone.
	styleContext bool

	// afterColonOrEquals tracks whether the previous significant token was
	// ':' or '=' in an attribute/declaration position, so the next bare
	// run of characters lexes as an UnquotedLiteral (spec §4.2).
	afterColonOrEquals bool
}

func New(text string, base int, kt *token.KeywordTable, h *handler.Handler) *Lexer {
	if kt == nil {
		kt = token.NewKeywordTable()
	}
	return &Lexer{src: []byte(text), base: base, kt: kt, h: h}
}

// EnterStyleBlock/ExitStyleBlock toggle CSS-selector-fragment recognition.
func (lx *Lexer) EnterStyleBlock() { lx.styleContext = true }
func (lx *Lexer) ExitStyleBlock()  { lx.styleContext = false }

func (lx *Lexer) span(start, end int) loc.Range {
	return loc.Range{Loc: loc.Loc{Start: lx.base + start}, Len: end - start}
}

func (lx *Lexer) errorf(code loc.DiagnosticCode, start, end int, msg string) {
	if lx.h == nil {
		return
	}
	lx.h.AppendError(&loc.ErrorWithRange{Code: code, Text: msg, Range: lx.span(start, end)})
}

func (lx *Lexer) peekByte() byte {
	if lx.pos >= len(lx.src) {
		return 0
	}
	return lx.src[lx.pos]
}

func (lx *Lexer) peekByteAt(off int) byte {
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
		case c == '/' && lx.peekByteAt(1) == '/':
			for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
				lx.pos++
			}
		case c == '/' && lx.peekByteAt(1) == '*':
			lx.pos += 2
			for lx.pos+1 < len(lx.src) && !(lx.src[lx.pos] == '*' && lx.src[lx.pos+1] == '/') {
				lx.pos++
			}
			lx.pos += 2
			if lx.pos > len(lx.src) {
				lx.pos = len(lx.src)
			}
		default:
			return
		}
	}
}

// Next returns the next token, or an Eof token once exhausted. Generator
// comments ("--...") are returned as tokens (never silently dropped here)
// so a caller that wants to preserve them for doc generation can; ordinary
// comments are skipped as trivia.
func (lx *Lexer) Next() token.Token {
	// generator comments must be checked before generic comment skipping
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '-' && lx.peekByteAt(1) == '-' && lx.peekByteAt(2) != '>' {
		start := lx.pos
		lx.pos += 2
		for lx.pos < len(lx.src) && lx.src[lx.pos] != '\n' {
			lx.pos++
		}
		text := strings.TrimSpace(string(lx.src[start+2 : lx.pos]))
		return token.Token{Kind: token.GeneratorComment, Data: text, Span: lx.span(start, lx.pos)}
	}

	lx.skipSpaceAndComments()
	if lx.pos >= len(lx.src) {
		return token.Token{Kind: token.Eof, Span: lx.span(lx.pos, lx.pos)}
	}

	start := lx.pos
	c := lx.src[lx.pos]

	switch {
	case c == '"' || c == '\'':
		return lx.lexString(c)
	case c == '-' && lx.peekByteAt(1) == '>':
		lx.pos += 2
		lx.afterColonOrEquals = false
		return token.Token{Kind: token.Arrow, Data: "->", Span: lx.span(start, lx.pos)}
	case lx.styleContext && (c == '.' || c == '#' || c == '&'):
		return lx.lexSelectorFragment()
	case lx.styleContext && c == ':':
		return lx.lexSelectorFragment()
	case c == '[':
		if tok, ok := lx.lexBracketKeyword(); ok {
			lx.afterColonOrEquals = false
			return tok
		}
		lx.pos++
		lx.afterColonOrEquals = false
		return token.Token{Kind: token.Punctuation, Data: "[", Span: lx.span(start, lx.pos)}
	case c == '@':
		return lx.lexTypeKeyword()
	case isDigit(c):
		return lx.lexNumber()
	case isIdentStart(c):
		return lx.lexIdentOrKeyword()
	default:
		lx.pos++
		data := string(c)
		if c == ':' || c == '=' {
			lx.afterColonOrEquals = true
		} else if c != ' ' {
			lx.afterColonOrEquals = false
		}
		return token.Token{Kind: token.Punctuation, Data: data, Span: lx.span(start, lx.pos)}
	}
}

func (lx *Lexer) lexSelectorFragment() token.Token {
	start := lx.pos
	lx.pos++ // consume leading marker
	if lx.src[start] == ':' && lx.peekByte() == ':' {
		lx.pos++
	}
	for lx.pos < len(lx.src) && (isIdentChar(lx.src[lx.pos]) || lx.src[lx.pos] == '-') {
		lx.pos++
	}
	lx.afterColonOrEquals = false
	return token.Token{Kind: token.CssSelectorFragment, Data: string(lx.src[start:lx.pos]), Span: lx.span(start, lx.pos)}
}

func (lx *Lexer) lexString(quote byte) token.Token {
	start := lx.pos
	lx.pos++
	var b strings.Builder
	terminated := false
	for lx.pos < len(lx.src) {
		c := lx.src[lx.pos]
		if c == '\\' {
			lx.pos++
			if lx.pos >= len(lx.src) {
				break
			}
			esc, ok := unescape(lx.src[lx.pos])
			if !ok {
				lx.errorf(loc.ERROR_INVALID_ESCAPE, lx.pos-1, lx.pos+1, "invalid escape sequence")
				b.WriteByte(lx.src[lx.pos])
			} else {
				b.WriteByte(esc)
			}
			lx.pos++
			continue
		}
		if c == quote {
			lx.pos++
			terminated = true
			break
		}
		b.WriteByte(c)
		lx.pos++
	}
	if !terminated {
		lx.errorf(loc.ERROR_UNTERMINATED_STRING, start, lx.pos, "unterminated string literal")
	}
	lx.afterColonOrEquals = false
	return token.Token{Kind: token.StringLiteral, Data: b.String(), Span: lx.span(start, lx.pos)}
}

func unescape(c byte) (byte, bool) {
	switch c {
	case 'n':
		return '\n', true
	case 't':
		return '\t', true
	case 'r':
		return '\r', true
	case '\\', '"', '\'':
		return c, true
	}
	return c, false
}

func (lx *Lexer) lexNumber() token.Token {
	start := lx.pos
	for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
		lx.pos++
	}
	if lx.pos < len(lx.src) && lx.src[lx.pos] == '.' && lx.pos+1 < len(lx.src) && isDigit(lx.src[lx.pos+1]) {
		lx.pos++
		for lx.pos < len(lx.src) && isDigit(lx.src[lx.pos]) {
			lx.pos++
		}
	}
	// unit suffix, e.g. px, em, %, s
	unitStart := lx.pos
	for lx.pos < len(lx.src) && (isIdentStart(lx.src[lx.pos]) || lx.src[lx.pos] == '%') {
		lx.pos++
	}
	_ = unitStart
	lx.afterColonOrEquals = false
	return token.Token{Kind: token.NumberLiteral, Data: string(lx.src[start:lx.pos]), Span: lx.span(start, lx.pos)}
}

func (lx *Lexer) lexIdentOrKeyword() token.Token {
	start := lx.pos
	// a '-' directly followed by an identifier start stays inside the
	// word, so CSS-style names like "font-size" lex as one identifier.
	for lx.pos < len(lx.src) && (isIdentChar(lx.src[lx.pos]) ||
		(lx.src[lx.pos] == '-' && lx.pos+1 < len(lx.src) && isIdentStart(lx.src[lx.pos+1]))) {
		lx.pos++
	}
	word := string(lx.src[start:lx.pos])

	// multi-word contextuals: "at top", "at bottom"
	if word == "at" {
		save := lx.pos
		lx.skipSpaceAndComments()
		wstart := lx.pos
		for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
			lx.pos++
		}
		second := string(lx.src[wstart:lx.pos])
		if second == "top" || second == "bottom" {
			lx.afterColonOrEquals = false
			return token.Token{Kind: token.ContextualKeyword, Data: "at " + second, Span: lx.span(start, lx.pos)}
		}
		lx.pos = save
	}

	if canonical, ok := lx.kt.ResolveContextual(word); ok {
		lx.afterColonOrEquals = false
		return token.Token{Kind: token.ContextualKeyword, Data: canonical, Span: lx.span(start, lx.pos)}
	}

	if lx.afterColonOrEquals {
		// greedily consume the rest of an unquoted literal run: further
		// identifier/number/space-separated words up to ';' or '}' or ','
		for lx.pos < len(lx.src) {
			c := lx.src[lx.pos]
			if c == ';' || c == '}' || c == ')' || c == ',' || c == '\n' {
				break
			}
			lx.pos++
		}
		val := strings.TrimSpace(string(lx.src[start:lx.pos]))
		lx.afterColonOrEquals = false
		return token.Token{Kind: token.UnquotedLiteral, Data: val, Span: lx.span(start, lx.pos)}
	}

	return token.Token{Kind: token.Identifier, Data: word, Span: lx.span(start, lx.pos)}
}

// lexBracketKeyword attempts to match one of the structural keyword
// brackets, e.g. "[Template]", honoring any active alias.
func (lx *Lexer) lexBracketKeyword() (token.Token, bool) {
	start := lx.pos
	i := lx.pos + 1
	for i < len(lx.src) && lx.src[i] != ']' && i-start < 64 {
		i++
	}
	if i >= len(lx.src) || lx.src[i] != ']' {
		return token.Token{}, false
	}
	surface := string(lx.src[start : i+1])
	canonical, ok := lx.kt.ResolveStructural(surface)
	if !ok {
		// "[0]"-style index brackets fall back to plain punctuation.
		if !isDigit(lx.src[start+1]) {
			lx.errorf(loc.ERROR_UNKNOWN_MARKER, start, i+1, "unknown structural marker "+surface)
		}
		return token.Token{}, false
	}
	lx.pos = i + 1
	return token.Token{Kind: token.StructuralKeyword, Data: canonical, Span: lx.span(start, lx.pos)}, true
}

func (lx *Lexer) lexTypeKeyword() token.Token {
	start := lx.pos
	lx.pos++ // '@'
	for lx.pos < len(lx.src) && isIdentChar(lx.src[lx.pos]) {
		lx.pos++
	}
	word := string(lx.src[start:lx.pos])
	lx.afterColonOrEquals = false
	return token.Token{Kind: token.TypeKeyword, Data: word, Span: lx.span(start, lx.pos)}
}

func isDigit(c byte) bool      { return c >= '0' && c <= '9' }
func isIdentStart(c byte) bool { return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentChar(c byte) bool  { return isIdentStart(c) || isDigit(c) }
