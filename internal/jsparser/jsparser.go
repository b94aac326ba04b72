// Package jsparser implements the CHTL-JS parser of spec §4.5. It walks
// a script fragment's raw text directly, character-stepping, looking
// only for the handful of markers CHTL-JS adds — "{{ ... }}", "->",
// "vir" — and copying everything else into OpaqueJs runs verbatim. It
// recognizes exactly the call shapes spec §4.5 names: listen({...}),
// delegate({...}), animate({...}), vir Name = listen({...});, and
// chained method calls on enhanced selectors. It does not parse
// arbitrary JavaScript — call arguments and handler bodies are captured
// as matched-bracket raw text via internal/jslexer.MatchBalanced, never
// tokenized.
package jsparser

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/jsast"
	"github.com/chtl-lang/chtl/internal/jslexer"
	"github.com/chtl-lang/chtl/internal/loc"
)

type Parser struct {
	src  []byte
	pos  int
	base int
	h    *handler.Handler
}

func New(text string, base int, h *handler.Handler) *Parser {
	return &Parser{src: []byte(text), base: base, h: h}
}

func Parse(text string, base int, h *handler.Handler) *jsast.Script {
	return New(text, base, h).Parse()
}

func (p *Parser) span(start, end int) loc.Range {
	return loc.Range{Loc: loc.Loc{Start: p.base + start}, Len: end - start}
}

func (p *Parser) errorf(code loc.DiagnosticCode, start, end int, msg string) {
	if p.h == nil {
		return
	}
	p.h.AppendError(&loc.ErrorWithRange{Code: code, Text: msg, Range: p.span(start, end)})
}

func (p *Parser) Parse() *jsast.Script {
	script := &jsast.Script{Base: jsast.Base{Span: p.span(0, len(p.src))}}
	opaqueStart := 0

	flushOpaque := func(end int) {
		if end > opaqueStart {
			text := string(p.src[opaqueStart:end])
			if strings.TrimSpace(text) != "" {
				script.Children = append(script.Children, &jsast.OpaqueJs{
					Text: text,
					Base: jsast.Base{Span: p.span(opaqueStart, end)},
				})
			}
		}
	}

	for p.pos < len(p.src) {
		switch {
		case p.matchAt(p.pos, "{{"):
			flushOpaque(p.pos)
			sel, next := p.parseEnhancedSelector(p.pos)
			p.pos = next
			p.skipSpace()
			if p.matchAt(p.pos, "->") {
				chainStart := sel.Span.Loc.Start - p.base
				node, next := p.parseArrowChain(sel, chainStart)
				script.Children = append(script.Children, node)
				p.pos = next
			} else {
				script.Children = append(script.Children, sel)
			}
			opaqueStart = p.pos

		case p.matchWord(p.pos, "vir"):
			flushOpaque(p.pos)
			node, next := p.parseVirDecl(p.pos)
			script.Children = append(script.Children, node)
			p.pos = next
			opaqueStart = p.pos

		case p.matchWord(p.pos, "animate") && p.matchAt(p.pos, "animate(") && (p.pos == 0 || p.src[p.pos-1] != '.'):
			closeParen := jslexer.MatchBalanced(p.src, p.pos+len("animate("), '(', ')')
			if closeParen < 0 {
				p.pos++
				break
			}
			flushOpaque(p.pos)
			script.Children = append(script.Children, p.buildAnimateBlock(string(p.src[p.pos+len("animate("):closeParen]), p.pos, closeParen+1))
			if p.pos = closeParen + 1; p.pos < len(p.src) && p.src[p.pos] == ';' {
				p.pos++
			}
			opaqueStart = p.pos

		default:
			p.pos++
		}
	}
	flushOpaque(len(p.src))
	return script
}

func (p *Parser) matchAt(pos int, s string) bool {
	if pos+len(s) > len(p.src) {
		return false
	}
	return string(p.src[pos:pos+len(s)]) == s
}

// matchWord matches s as a whole identifier at pos (not a substring of a
// longer identifier), so "virtual" never triggers on "vir".
func (p *Parser) matchWord(pos int, s string) bool {
	if !p.matchAt(pos, s) {
		return false
	}
	if pos > 0 && isIdentChar(p.src[pos-1]) {
		return false
	}
	end := pos + len(s)
	if end < len(p.src) && isIdentChar(p.src[end]) {
		return false
	}
	return true
}

func (p *Parser) skipSpace() {
	for p.pos < len(p.src) && isSpace(p.src[p.pos]) {
		p.pos++
	}
}

func isSpace(c byte) bool      { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isIdentStart(c byte) bool { return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') }
func isIdentChar(c byte) bool  { return isIdentStart(c) || (c >= '0' && c <= '9') }

// parseEnhancedSelector parses "{{ ... }}" starting at pos, returning the
// node and the position just past the closing "}}".
func (p *Parser) parseEnhancedSelector(pos int) (*jsast.EnhancedSelector, int) {
	start := pos
	pos += 2
	innerStart := pos
	for pos+1 < len(p.src) && !p.matchAt(pos, "}}") {
		pos++
	}
	raw := strings.TrimSpace(string(p.src[innerStart:pos]))
	end := pos
	if pos+1 < len(p.src) {
		end = pos + 2
	} else {
		p.errorf(loc.ERROR_UNEXPECTED_TOKEN, start, pos, "unterminated enhanced selector")
		end = len(p.src)
	}
	return p.buildSelector(raw, start, end), end
}

func (p *Parser) buildSelector(raw string, start, end int) *jsast.EnhancedSelector {
	sel := &jsast.EnhancedSelector{Raw: raw, Base: jsast.Base{Span: p.span(start, end)}}
	body := raw
	index := -1
	if i := strings.LastIndexByte(body, '['); i >= 0 && strings.HasSuffix(body, "]") {
		if n, ok := parseIndexLiteral(body[i+1 : len(body)-1]); ok {
			index = n
			body = body[:i]
		}
	}
	switch {
	case strings.HasPrefix(body, "."):
		sel.Kind = jsast.SelClass
	case strings.HasPrefix(body, "#"):
		sel.Kind = jsast.SelID
	case strings.ContainsAny(body, " \t>~+"):
		sel.Kind = jsast.SelComplex
	default:
		sel.Kind = jsast.SelTag
	}
	if index >= 0 {
		sel.Kind = jsast.SelIndexed
		sel.Index = index
	}
	sel.Parsed = body
	return sel
}

func parseIndexLiteral(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	n := 0
	for _, c := range []byte(s) {
		if c < '0' || c > '9' {
			return 0, false
		}
		n = n*10 + int(c-'0')
	}
	return n, true
}

// parseArrowChain parses one or more "->name(args)" segments following
// an enhanced selector (or identifier) head, recognizing listen and
// delegate by name and falling back to a plain MethodCall otherwise.
func (p *Parser) parseArrowChain(head jsast.Node, headStart int) (jsast.Node, int) {
	pos := p.pos
	var methods []*jsast.MethodCall
	var special jsast.Node
	for p.matchAt(skipSpaceAt(p.src, pos), "->") {
		pos = skipSpaceAt(p.src, pos)
		pos += 2
		pos = skipSpaceAt(p.src, pos)
		nameStart := pos
		for pos < len(p.src) && isIdentChar(p.src[pos]) {
			pos++
		}
		name := string(p.src[nameStart:pos])
		pos = skipSpaceAt(p.src, pos)
		if pos >= len(p.src) || p.src[pos] != '(' {
			break
		}
		argsStart := pos + 1
		closeParen := jslexer.MatchBalanced(p.src, argsStart, '(', ')')
		if closeParen < 0 {
			p.errorf(loc.ERROR_UNEXPECTED_TOKEN, nameStart, pos, "unterminated argument list for "+name)
			pos = len(p.src)
			break
		}
		argsText := string(p.src[argsStart:closeParen])
		end := closeParen + 1

		switch name {
		case "listen":
			special = p.buildListenBlock(head, argsText, headStart, end)
		case "delegate":
			special = p.buildDelegateBlock(head, argsText, headStart, end)
		default:
			methods = append(methods, &jsast.MethodCall{
				Name: name, Args: strings.TrimSpace(argsText),
				Base: jsast.Base{Span: p.span(nameStart, end)},
			})
		}
		pos = end
		if special != nil {
			break
		}
	}
	if special != nil {
		if q := skipSpaceAt(p.src, pos); q < len(p.src) && p.src[q] == ';' {
			pos = q + 1
		}
		return special, pos
	}
	return &jsast.ArrowChain{Head: head, Methods: methods, Base: jsast.Base{Span: p.span(headStart, pos)}}, pos
}

func skipSpaceAt(src []byte, pos int) int {
	for pos < len(src) && isSpace(src[pos]) {
		pos++
	}
	return pos
}

// buildListenBlock parses the `{ event: handler, ... }` object literal
// inside a listen(...) call into event->raw-handler-source pairs.
func (p *Parser) buildListenBlock(target jsast.Node, argsText string, start, end int) *jsast.ListenBlock {
	lb := &jsast.ListenBlock{Target: target, Handlers: map[string]string{}, Base: jsast.Base{Span: p.span(start, end)}}
	pairs := splitObjectLiteral(argsText)
	for _, kv := range pairs {
		lb.Handlers[kv.key] = kv.value
		lb.Order = append(lb.Order, kv.key)
	}
	return lb
}

func (p *Parser) buildDelegateBlock(container jsast.Node, argsText string, start, end int) *jsast.DelegateBlock {
	db := &jsast.DelegateBlock{Container: container, Handlers: map[string]string{}, Base: jsast.Base{Span: p.span(start, end)}}
	pairs := splitObjectLiteral(argsText)
	for _, kv := range pairs {
		if kv.key == "target" {
			db.Targets = append(db.Targets, strings.Trim(strings.TrimSpace(kv.value), `"'`))
			continue
		}
		db.Handlers[kv.key] = kv.value
		db.Order = append(db.Order, kv.key)
	}
	return db
}

type kvPair struct{ key, value string }

// splitObjectLiteral splits "{ a: expr, b: expr }" (braces optional) into
// top-level key/value pairs without interpreting the value expressions,
// honoring nested braces/parens/strings so e.g. "() => { x++; }" values
// survive intact.
func splitObjectLiteral(text string) []kvPair {
	src := []byte(strings.TrimSpace(text))
	if len(src) > 0 && src[0] == '{' {
		if close := jslexer.MatchBalanced(src, 1, '{', '}'); close > 0 {
			src = src[1:close]
		}
	}
	var pairs []kvPair
	pos := 0
	for pos < len(src) {
		for pos < len(src) && (isSpace(src[pos]) || src[pos] == ',') {
			pos++
		}
		if pos >= len(src) {
			break
		}
		keyStart := pos
		for pos < len(src) && src[pos] != ':' {
			pos++
		}
		key := strings.TrimSpace(string(src[keyStart:pos]))
		key = strings.Trim(key, `"'`)
		if pos >= len(src) {
			break
		}
		pos++ // ':'
		pos = skipSpaceAt(src, pos)
		valStart := pos
		depth := 0
		for pos < len(src) {
			c := src[pos]
			if c == '{' || c == '(' || c == '[' {
				depth++
			} else if c == '}' || c == ')' || c == ']' {
				if depth == 0 {
					break
				}
				depth--
			} else if c == ',' && depth == 0 {
				break
			}
			pos++
		}
		val := strings.TrimSpace(string(src[valStart:pos]))
		if key != "" {
			pairs = append(pairs, kvPair{key: key, value: val})
		}
	}
	return pairs
}

// parseVirDecl parses "vir Name = listen({...});" (or delegate/animate).
func (p *Parser) parseVirDecl(pos int) (*jsast.VirDecl, int) {
	start := pos
	pos += 3 // "vir"
	pos = skipSpaceAt(p.src, pos)
	nameStart := pos
	for pos < len(p.src) && isIdentChar(p.src[pos]) {
		pos++
	}
	name := string(p.src[nameStart:pos])
	pos = skipSpaceAt(p.src, pos)
	if pos < len(p.src) && p.src[pos] == '=' {
		pos++
	}
	pos = skipSpaceAt(p.src, pos)
	calleeStart := pos
	for pos < len(p.src) && isIdentChar(p.src[pos]) {
		pos++
	}
	callee := string(p.src[calleeStart:pos])
	pos = skipSpaceAt(p.src, pos)
	var body jsast.Node
	if pos < len(p.src) && p.src[pos] == '(' {
		argsStart := pos + 1
		close := jslexer.MatchBalanced(p.src, argsStart, '(', ')')
		if close >= 0 {
			argsText := string(p.src[argsStart:close])
			pos = close + 1
			switch callee {
			case "listen":
				body = p.buildListenBlock(nil, argsText, calleeStart, pos)
			case "delegate":
				body = p.buildDelegateBlock(nil, argsText, calleeStart, pos)
			case "animate":
				body = p.buildAnimateBlock(argsText, calleeStart, pos)
			default:
				body = &jsast.OpaqueJs{Text: callee + "(" + argsText + ")", Base: jsast.Base{Span: p.span(calleeStart, pos)}}
			}
		}
	}
	if pos < len(p.src) && p.src[pos] == ';' {
		pos++
	}
	return &jsast.VirDecl{Name: name, Body: body, Base: jsast.Base{Span: p.span(start, pos)}}, pos
}

func (p *Parser) buildAnimateBlock(argsText string, start, end int) *jsast.AnimateBlock {
	ab := &jsast.AnimateBlock{Extra: map[string]string{}, Base: jsast.Base{Span: p.span(start, end)}}
	for _, kv := range splitObjectLiteral(argsText) {
		switch kv.key {
		case "duration":
			ab.Duration = kv.value
		case "easing":
			ab.Easing = kv.value
		case "begin":
			ab.Begin = kv.value
		case "end":
			ab.End = kv.value
		case "loop":
			ab.Loop = kv.value
		case "direction":
			ab.Direction = kv.value
		case "delay":
			ab.Delay = kv.value
		case "callback":
			ab.Callback = kv.value
		case "when":
			ab.When = append(ab.When, kv.value)
		default:
			ab.Extra[kv.key] = kv.value
		}
	}
	return ab
}
