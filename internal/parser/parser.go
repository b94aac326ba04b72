// Package parser implements the CHTL recursive-descent parser of spec
// §4.4, keyed by the pushdown state machine of internal/state. It
// consumes the ordered Fragment list the scanner produces (internal/
// scanner) rather than a single token stream: a CHTL fragment's lexer
// runs dry exactly at a style/script/origin block boundary (the scanner
// cuts fragments there), so advancing to the next fragment's lexer is
// how the parser crosses from CHTL into embedded CSS/JS/origin text and
// back. Error recovery resynchronizes at '}', ';', or a structural
// keyword: every diagnostic is appended to the handler and parsing
// continues rather than aborting on the first error.
package parser

import (
	"strconv"
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/config"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/lexer"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/scanner"
	"github.com/chtl-lang/chtl/internal/state"
	"github.com/chtl-lang/chtl/internal/token"
)

type Parser struct {
	frags []scanner.Fragment
	fi    int // index of the fragment currently backing lx
	lx    *lexer.Lexer
	cur   token.Token
	peek  *token.Token

	kt  *token.KeywordTable
	h   *handler.Handler
	cfg *config.Config
	st  *state.Stack
}

func New(frags []scanner.Fragment, kt *token.KeywordTable, h *handler.Handler, cfg *config.Config) *Parser {
	if kt == nil {
		kt = token.NewKeywordTable()
	}
	if cfg == nil {
		cfg = config.New()
	}
	p := &Parser{frags: frags, kt: kt, h: h, cfg: cfg, st: state.New()}
	p.enterFragment(0)
	p.advance()
	return p
}

func (p *Parser) enterFragment(i int) {
	p.fi = i
	if i >= len(p.frags) {
		p.lx = lexer.New("", 0, p.kt, p.h)
		return
	}
	p.lx = lexer.New(p.frags[i].Text, p.frags[i].Span.Loc.Start, p.kt, p.h)
}

// advanceToFragment repositions the lexer onto fragment i (a CSS, JS, or
// ORIGIN fragment, or the CHTL fragment following one) and primes cur —
// this is how the parser crosses a style/script/origin block boundary
// the scanner already cut.
func (p *Parser) advanceToFragment(i int) {
	p.enterFragment(i)
	p.cur = p.lx.Next()
	p.peek = nil
}

func (p *Parser) advance() {
	if p.peek != nil {
		p.cur = *p.peek
		p.peek = nil
		return
	}
	p.cur = p.lx.Next()
}

func (p *Parser) peekTok() token.Token {
	if p.peek == nil {
		t := p.lx.Next()
		p.peek = &t
	}
	return *p.peek
}

func (p *Parser) errorf(code loc.DiagnosticCode, msg string) {
	if p.h == nil {
		return
	}
	p.h.AppendError(&loc.ErrorWithRange{Code: code, Text: msg, Range: p.cur.Span})
}

// expectPunct consumes a punctuation token with the given text,
// recording a syntax error and returning false if absent (caller
// resynchronizes).
func (p *Parser) expectPunct(text string) bool {
	if p.cur.Kind == token.Punctuation && p.cur.Data == text {
		p.advance()
		return true
	}
	p.errorf(loc.ERROR_UNEXPECTED_TOKEN, "expected '"+text+"', got "+p.cur.String())
	return false
}

// syncTo skips tokens until ';', '}', or a structural keyword, per spec
// §4.4's error-recovery rule; consumes the sync token itself when it is
// ';' or '}'. The offending current token is always consumed first, so
// a structural keyword stops the skip only when it follows that token.
func (p *Parser) syncTo() {
	for skipped := false; p.cur.Kind != token.Eof; skipped = true {
		if p.cur.Kind == token.StructuralKeyword && skipped {
			return
		}
		if p.cur.Kind == token.Punctuation && (p.cur.Data == ";" || p.cur.Data == "}") {
			p.advance()
			return
		}
		p.advance()
	}
}

// Parse parses one whole source file's fragment list into a Document.
func (p *Parser) Parse() *ast.Document {
	doc := &ast.Document{}
	start := p.cur.Span
	for p.cur.Kind != token.Eof {
		n := p.parseTopLevelItem()
		if n != nil {
			doc.Children = append(doc.Children, n)
		}
	}
	doc.Span = loc.Range{Loc: start.Loc, Len: p.cur.Span.Loc.Start - start.Loc.Start}
	return doc
}

func (p *Parser) parseTopLevelItem() ast.Node {
	switch {
	case p.cur.Kind == token.StructuralKeyword:
		switch p.cur.Data {
		case "[Template]":
			return p.parseTemplateDecl()
		case "[Custom]":
			return p.parseCustomDecl()
		case "[Origin]":
			return p.parseOriginDecl()
		case "[Import]":
			return p.parseImportDecl()
		case "[Namespace]":
			return p.parseNamespaceDecl()
		case "[Configuration]":
			return p.parseConfigurationDecl()
		default:
			p.errorf(loc.ERROR_UNEXPECTED_TOKEN, "unexpected structural keyword "+p.cur.Data)
			p.syncTo()
			return nil
		}
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "text":
		return p.parseTextNode()
	case p.cur.Kind == token.Identifier:
		return p.parseElement()
	default:
		p.errorf(loc.ERROR_UNEXPECTED_TOKEN, "expected an element, declaration, or text node, got "+p.cur.String())
		p.syncTo()
		return nil
	}
}

// parseElement parses `tag { ... }` or a bodiless `tag;`.
func (p *Parser) parseElement() *ast.Element {
	start := p.cur.Span
	tag := p.cur.Data
	p.advance()
	el := &ast.Element{Tag: tag}
	depth := p.st.Push(state.Frame{Kind: state.InElement, ElementTag: tag})
	defer p.st.Pop(depth)

	if p.cur.Kind == token.Punctuation && p.cur.Data == ";" {
		p.advance()
		el.Span = p.spanFrom(start)
		return el
	}
	if !p.expectPunct("{") {
		el.Span = p.spanFrom(start)
		return el
	}
	for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
		n := p.parseElementMember(tag)
		if n != nil {
			switch v := n.(type) {
			case *ast.Attribute:
				el.Attrs = append(el.Attrs, v)
			default:
				el.Children = append(el.Children, n)
			}
		}
	}
	p.expectPunct("}")
	el.Span = p.spanFrom(start)
	return el
}

func (p *Parser) spanFrom(start loc.Range) loc.Range {
	return loc.Range{Loc: start.Loc, Len: p.cur.Span.Loc.Start - start.Loc.Start}
}

func (p *Parser) parseElementMember(enclosingTag string) ast.Node {
	switch {
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "text":
		return p.parseTextNode()
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "style":
		return p.parseStyleBlock(true)
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "script":
		return p.parseScriptBlock(true)
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "except":
		return p.parseExceptClause()
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "inherit":
		return p.parseInheritOp()
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "delete":
		return p.parseDeleteOp()
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "insert":
		return p.parseInsertOp()
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "replace":
		return p.parseReplaceOp()
	case p.cur.Kind == token.StructuralKeyword && p.cur.Data == "[Origin]":
		return p.parseOriginDecl()
	case p.cur.Kind == token.TypeKeyword:
		return p.parseUse()
	case p.cur.Kind == token.Identifier && p.peekTok().Kind == token.Punctuation && (p.peekTok().Data == ":" || p.peekTok().Data == "="):
		return p.parseAttribute()
	case p.cur.Kind == token.Identifier:
		return p.parseElement()
	default:
		p.errorf(loc.ERROR_UNEXPECTED_TOKEN, "unexpected token in element body: "+p.cur.String())
		p.syncTo()
		return nil
	}
}

func (p *Parser) parseAttribute() *ast.Attribute {
	start := p.cur.Span
	name := p.cur.Data
	p.advance() // name
	p.advance() // ':' or '='
	val := p.cur.Data
	p.advance()
	p.consumeSemicolon()
	return &ast.Attribute{Name: name, Value: val, Base: ast.Base{Span: p.spanFrom(start)}}
}

func (p *Parser) consumeSemicolon() {
	if p.cur.Kind == token.Punctuation && p.cur.Data == ";" {
		p.advance()
	}
}

func (p *Parser) parseTextNode() *ast.Text {
	start := p.cur.Span
	p.advance() // 'text'
	p.expectPunct("{")
	var b strings.Builder
	for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
		if p.cur.Kind == token.StringLiteral || p.cur.Kind == token.UnquotedLiteral || p.cur.Kind == token.Identifier {
			b.WriteString(p.cur.Data)
		}
		p.advance()
	}
	p.expectPunct("}")
	return &ast.Text{Value: b.String(), Base: ast.Base{Span: p.spanFrom(start)}}
}

// parseTarget parses `tag` or `tag[n]` for delete/insert/replace/except.
func (p *Parser) parseTarget() ast.Target {
	tag := p.cur.Data
	p.advance()
	idx := -1
	if p.cur.Kind == token.Punctuation && p.cur.Data == "[" {
		p.advance()
		if p.cur.Kind == token.NumberLiteral {
			if n, err := strconv.Atoi(p.cur.Data); err == nil {
				idx = n
			}
			p.advance()
		}
		p.expectPunct("]")
	}
	return ast.Target{Tag: tag, Index: idx}
}

func (p *Parser) parseExceptClause() *ast.ExceptClause {
	start := p.cur.Span
	p.advance() // 'except'
	ex := &ast.ExceptClause{}
	for p.cur.Kind != token.Punctuation || p.cur.Data != ";" {
		if p.cur.Kind == token.Eof {
			break
		}
		ex.Targets = append(ex.Targets, p.parseTarget())
		if p.cur.Kind == token.Punctuation && p.cur.Data == "," {
			p.advance()
			continue
		}
		break
	}
	p.consumeSemicolon()
	ex.Span = p.spanFrom(start)
	return ex
}

func (p *Parser) parseDeleteOp() *ast.DeleteOp {
	start := p.cur.Span
	p.advance() // 'delete'
	op := &ast.DeleteOp{}
	for p.cur.Kind != token.Punctuation || p.cur.Data != ";" {
		if p.cur.Kind == token.Eof {
			break
		}
		op.Targets = append(op.Targets, p.parseTarget())
		if p.cur.Kind == token.Punctuation && p.cur.Data == "," {
			p.advance()
			continue
		}
		break
	}
	p.consumeSemicolon()
	op.Span = p.spanFrom(start)
	return op
}

func (p *Parser) parseInsertPosition() (ast.InsertPosition, ast.Target) {
	switch {
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "before":
		p.advance()
		return ast.PosBefore, p.parseTarget()
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "after":
		p.advance()
		return ast.PosAfter, p.parseTarget()
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "at top":
		p.advance()
		return ast.PosAtTop, ast.Target{Index: -1}
	case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "at bottom":
		p.advance()
		return ast.PosAtBottom, ast.Target{Index: -1}
	default:
		p.errorf(loc.ERROR_UNEXPECTED_TOKEN, "expected before/after/at top/at bottom, got "+p.cur.String())
		return ast.PosAfter, ast.Target{Index: -1}
	}
}

func (p *Parser) parseInsertOp() *ast.InsertOp {
	start := p.cur.Span
	p.advance() // 'insert'
	pos, target := p.parseInsertPosition()
	op := &ast.InsertOp{Position: pos, Target: target}
	p.expectPunct("{")
	for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
		n := p.parseTopLevelItem()
		if n != nil {
			op.Payload = append(op.Payload, n)
		}
	}
	p.expectPunct("}")
	op.Span = p.spanFrom(start)
	return op
}

func (p *Parser) parseReplaceOp() *ast.ReplaceOp {
	start := p.cur.Span
	p.advance() // 'replace'
	target := p.parseTarget()
	op := &ast.ReplaceOp{Target: target}
	p.expectPunct("{")
	for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
		n := p.parseTopLevelItem()
		if n != nil {
			op.Payload = append(op.Payload, n)
		}
	}
	p.expectPunct("}")
	op.Span = p.spanFrom(start)
	return op
}

func (p *Parser) parseInheritOp() *ast.InheritOp {
	start := p.cur.Span
	p.advance() // 'inherit'
	kind := ast.ElementKind
	if p.cur.Kind == token.TypeKeyword {
		kind = typeKeywordToKind(p.cur.Data)
		p.advance()
	}
	name := p.cur.Data
	p.advance()
	p.consumeSemicolon()
	return &ast.InheritOp{Kind: kind, QualifiedName: name, SpecOpBase: ast.SpecOpBase{Base: ast.Base{Span: p.spanFrom(start)}}}
}

func typeKeywordToKind(kw string) ast.DefKind {
	switch kw {
	case "@Style":
		return ast.StyleKind
	case "@Var":
		return ast.VarKind
	default:
		return ast.ElementKind
	}
}

// parseUse parses `@Style Foo;`, `@Element Foo;`, `Foo from NS;` uses,
// plus an optional specialization block.
func (p *Parser) parseUse() *ast.Use {
	start := p.cur.Span
	kind := typeKeywordToKind(p.cur.Data)
	p.advance()
	name := p.cur.Data
	p.advance()
	use := &ast.Use{Kind: kind, QualifiedName: name}
	if p.cur.Kind == token.ContextualKeyword && p.cur.Data == "from" {
		p.advance()
		use.FromNamespace = p.cur.Data
		p.advance()
	}
	if p.cur.Kind == token.Punctuation && p.cur.Data == "{" {
		use.Specialization = p.parseSpecialization()
	} else {
		p.consumeSemicolon()
	}
	use.Span = p.spanFrom(start)
	return use
}

func (p *Parser) parseSpecialization() *ast.Specialization {
	start := p.cur.Span
	p.advance() // '{'
	spec := &ast.Specialization{}
	for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
		var op ast.SpecOp
		switch {
		case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "delete":
			op = p.parseDeleteOp()
		case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "insert":
			op = p.parseInsertOp()
		case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "replace":
			op = p.parseReplaceOp()
		case p.cur.Kind == token.ContextualKeyword && p.cur.Data == "inherit":
			op = p.parseInheritOp()
		case p.cur.Kind == token.Identifier && (p.peekTok().Kind == token.Punctuation && (p.peekTok().Data == ":" || p.peekTok().Data == "=")):
			op = p.parseOverrideOp()
		default:
			p.errorf(loc.ERROR_UNEXPECTED_TOKEN, "unexpected token in specialization: "+p.cur.String())
			p.syncTo()
			continue
		}
		spec.Ops = append(spec.Ops, op)
	}
	p.expectPunct("}")
	spec.Span = p.spanFrom(start)
	return spec
}

func (p *Parser) parseOverrideOp() *ast.OverrideOp {
	start := p.cur.Span
	op := &ast.OverrideOp{}
	for p.cur.Kind == token.Identifier {
		pstart := p.cur.Span
		name := p.cur.Data
		p.advance()
		p.advance() // ':' or '='
		val := p.cur.Data
		p.advance()
		p.consumeSemicolon()
		op.Props = append(op.Props, &ast.Property{Name: name, Value: &ast.Text{Value: val}, Base: ast.Base{Span: p.spanFrom(pstart)}})
		if p.cur.Kind == token.Punctuation && p.cur.Data == "}" {
			break
		}
	}
	op.Span = p.spanFrom(start)
	return op
}

// parseTemplateDecl parses `[Template] @Kind Name { body }`.
func (p *Parser) parseTemplateDecl() *ast.TemplateDecl {
	start := p.cur.Span
	p.advance() // '[Template]'
	kind := typeKeywordToKind(p.cur.Data)
	p.advance()
	name := p.cur.Data
	p.advance()
	decl := &ast.TemplateDecl{Kind: kind, Name: name}
	depth := p.st.Push(state.Frame{Kind: state.InTemplateDecl, DeclKind: kind, DeclName: name})
	defer p.st.Pop(depth)
	decl.Body = p.parseDefBody(kind)
	decl.Span = p.spanFrom(start)
	return decl
}

func (p *Parser) parseCustomDecl() *ast.CustomDecl {
	start := p.cur.Span
	p.advance() // '[Custom]'
	kind := typeKeywordToKind(p.cur.Data)
	p.advance()
	name := p.cur.Data
	p.advance()
	decl := &ast.CustomDecl{Kind: kind, Name: name}
	depth := p.st.Push(state.Frame{Kind: state.InCustomDecl, DeclKind: kind, DeclName: name})
	defer p.st.Pop(depth)
	if p.cur.Kind == token.ContextualKeyword && p.cur.Data == "inherit" {
		p.advance()
		if p.cur.Kind == token.TypeKeyword {
			p.advance()
		}
		decl.Inherit = p.cur.Data
		p.advance()
		p.consumeSemicolon()
	}
	decl.Body = p.parseDefBody(kind)
	decl.Span = p.spanFrom(start)
	return decl
}

// parseDefBody parses the `{ ... }` body of a Template/Custom decl. For
// Style/Var kinds the body is a flat property list (and, for Custom
// @Style, bare key-only entries per spec §4.10); for Element kind it is
// a sequence of elements/text/uses, same grammar as an element body.
func (p *Parser) parseDefBody(kind ast.DefKind) []ast.Node {
	var body []ast.Node
	if !p.expectPunct("{") {
		return body
	}
	if kind == ast.ElementKind {
		for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
			n := p.parseTopLevelItem()
			if n != nil {
				body = append(body, n)
			}
		}
		p.expectPunct("}")
		return body
	}
	// Style/Var bodies: "name: value;" or bare "name, name;" (key-only,
	// spec §4.10's "Custom @Style with listed names").
	for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
		if p.cur.Kind != token.Identifier {
			p.errorf(loc.ERROR_UNEXPECTED_TOKEN, "expected a property name, got "+p.cur.String())
			p.syncTo()
			continue
		}
		pstart := p.cur.Span
		name := p.cur.Data
		p.advance()
		prop := &ast.Property{Name: name, Base: ast.Base{Span: p.spanFrom(pstart)}}
		if p.cur.Kind == token.Punctuation && (p.cur.Data == ":" || p.cur.Data == "=") {
			p.advance()
			prop.Value = &ast.Text{Value: p.cur.Data}
			p.advance()
		}
		body = append(body, prop)
		if p.cur.Kind == token.Punctuation && p.cur.Data == "," {
			p.advance()
			continue
		}
		p.consumeSemicolon()
	}
	p.expectPunct("}")
	return body
}

func (p *Parser) parseOriginDecl() *ast.OriginDecl {
	start := p.cur.Span
	p.advance() // '[Origin]'
	tag := strings.TrimPrefix(p.cur.Data, "@")
	p.advance()
	name := ""
	if p.cur.Kind == token.Identifier {
		name = p.cur.Data
		p.advance()
	}
	decl := &ast.OriginDecl{OriginTag: tag, Name: name}
	depth := p.st.Push(state.Frame{Kind: state.InOriginBlock, OriginTag: tag})
	defer p.st.Pop(depth)

	// The scanner already cut the origin body into its own ORIGIN
	// fragment; this CHTL fragment's lexer runs dry right after the
	// opening '{'. Cross into that fragment to collect the verbatim text.
	if p.cur.Kind == token.Punctuation && p.cur.Data == "{" {
		p.advance()
	}
	if p.fi+1 < len(p.frags) && p.frags[p.fi+1].Kind == scanner.ORIGIN {
		decl.RawText = strings.TrimSpace(p.frags[p.fi+1].Text)
		p.advanceToFragment(p.fi + 2)
	}
	if p.cur.Kind == token.Punctuation && p.cur.Data == "}" {
		p.advance()
	}
	decl.Span = p.spanFrom(start)
	return decl
}

func (p *Parser) parseImportDecl() *ast.ImportDecl {
	start := p.cur.Span
	p.advance() // '[Import]'
	what := p.cur.Data
	p.advance()
	decl := &ast.ImportDecl{What: what}
	if p.cur.Kind == token.Punctuation && p.cur.Data == "*" {
		decl.Wildcard = true
		p.advance()
	} else {
		decl.Name = p.cur.Data
		p.advance()
	}
	if p.cur.Kind == token.ContextualKeyword && p.cur.Data == "from" {
		p.advance()
		decl.FromPath = strings.Trim(p.cur.Data, `"'`)
		p.advance()
	}
	if p.cur.Kind == token.ContextualKeyword && p.cur.Data == "as" {
		p.advance()
		decl.Alias = p.cur.Data
		p.advance()
	}
	p.consumeSemicolon()
	decl.Span = p.spanFrom(start)
	return decl
}

// parseNamespaceDecl parses `[Namespace] path { members }` or the
// brace-omitted single-member form `[Namespace] path member`.
func (p *Parser) parseNamespaceDecl() *ast.NamespaceDecl {
	start := p.cur.Span
	p.advance() // '[Namespace]'
	path := p.parseDottedPath()
	decl := &ast.NamespaceDecl{Path: path}
	depth := p.st.Push(state.Frame{Kind: state.InNamespace, NamespaceID: path})
	defer p.st.Pop(depth)

	if p.cur.Kind == token.Punctuation && p.cur.Data == "{" {
		p.advance()
		for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
			n := p.parseTopLevelItem()
			if n != nil {
				decl.Members = append(decl.Members, n)
			}
		}
		p.expectPunct("}")
	} else {
		// brace omission: exactly one member follows directly.
		n := p.parseTopLevelItem()
		if n != nil {
			decl.Members = append(decl.Members, n)
		}
	}
	decl.Span = p.spanFrom(start)
	return decl
}

func (p *Parser) parseDottedPath() string {
	var parts []string
	parts = append(parts, p.cur.Data)
	p.advance()
	for p.cur.Kind == token.Punctuation && p.cur.Data == "." {
		p.advance()
		parts = append(parts, p.cur.Data)
		p.advance()
	}
	return strings.Join(parts, ".")
}

func (p *Parser) parseConfigurationDecl() *ast.ConfigurationDecl {
	start := p.cur.Span
	p.advance() // '[Configuration]'
	decl := &ast.ConfigurationDecl{}
	if p.cur.Kind == token.TypeKeyword && p.cur.Data == "@Config" {
		p.advance()
		decl.Named = p.cur.Data
		p.advance()
	}
	depth := p.st.Push(state.Frame{Kind: state.InConfiguration})
	defer p.st.Pop(depth)
	p.expectPunct("{")
	for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
		switch {
		case p.cur.Kind == token.StructuralKeyword && p.cur.Data == "[Name]":
			p.advance()
			p.expectPunct("{")
			for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
				estart := p.cur.Span
				kw := p.cur.Data
				p.advance()
				p.advance() // '='
				alias := strings.Trim(p.cur.Data, `"'`)
				p.advance()
				p.consumeSemicolon()
				decl.Names = append(decl.Names, &ast.NameAlias{Keyword: kw, Alias: alias, Base: ast.Base{Span: p.spanFrom(estart)}})
			}
			p.expectPunct("}")
		case p.cur.Kind == token.StructuralKeyword && p.cur.Data == "[OriginType]":
			p.advance()
			p.expectPunct("{")
			for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
				ostart := p.cur.Span
				tag := strings.TrimPrefix(p.cur.Data, "@")
				p.advance()
				p.consumeSemicolon()
				decl.Origins = append(decl.Origins, &ast.OriginTypeDecl{Tag: tag, Base: ast.Base{Span: p.spanFrom(ostart)}})
			}
			p.expectPunct("}")
		case p.cur.Kind == token.Identifier:
			estart := p.cur.Span
			key := p.cur.Data
			p.advance()
			p.advance() // '='
			val := strings.Trim(p.cur.Data, `"'`)
			p.advance()
			p.consumeSemicolon()
			decl.Entries = append(decl.Entries, &ast.ConfigEntry{Key: key, Value: val, Base: ast.Base{Span: p.spanFrom(estart)}})
		default:
			p.errorf(loc.ERROR_UNEXPECTED_TOKEN, "unexpected token in configuration: "+p.cur.String())
			p.syncTo()
		}
	}
	p.expectPunct("}")
	decl.Span = p.spanFrom(start)
	return decl
}
