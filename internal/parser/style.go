package parser

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/scanner"
	"github.com/chtl-lang/chtl/internal/state"
	"github.com/chtl-lang/chtl/internal/token"
)

// parseStyleBlock parses `style { ... }`. The scanner has already cut
// the CSS content into its own fragment immediately following this
// CHTL fragment's "style {" tail, so after consuming the keyword and
// opening brace this CHTL fragment runs dry and the parser crosses into
// the CSS fragment to read rules/inline-properties with styleContext
// enabled on that fragment's own lexer (spec §4.2/§4.7).
func (p *Parser) parseStyleBlock(local bool) *ast.StyleBlock {
	start := p.cur.Span
	p.advance() // 'style'
	block := &ast.StyleBlock{Local: local}
	depth := p.st.Push(state.Frame{Kind: state.InLocalStyle, Local: local})
	defer p.st.Pop(depth)

	if p.cur.Kind == token.Punctuation && p.cur.Data == "{" {
		p.advance()
	}
	if p.fi+1 < len(p.frags) && p.frags[p.fi+1].Kind == scanner.CSS {
		p.advanceToFragment(p.fi + 1)
		p.lx.EnterStyleBlock()
		p.parseStyleBody(block)
		p.lx.ExitStyleBlock()
		// Cross back into the following CHTL fragment, which begins with
		// the closing '}' the scanner attached there.
		p.advanceToFragment(p.fi + 1)
	}
	if p.cur.Kind == token.Punctuation && p.cur.Data == "}" {
		p.advance()
	}
	block.Span = p.spanFrom(start)
	return block
}

// parseStyleBody parses rules/properties until the CSS fragment's lexer
// runs dry (it contains no closing brace of its own — the scanner cut
// exactly the inner content).
func (p *Parser) parseStyleBody(block *ast.StyleBlock) {
	depth := p.st.Push(state.Frame{Kind: state.InStyleRule})
	defer p.st.Pop(depth)
	for p.cur.Kind != token.Eof {
		switch {
		case p.cur.Kind == token.TypeKeyword && p.cur.Data == "@Style":
			p.advance()
			name := p.cur.Data
			p.advance()
			p.consumeSemicolon()
			block.InlineProps = append(block.InlineProps, &ast.Property{
				Name:  "@Style",
				Value: &ast.Text{Value: name},
			})
		case p.cur.Kind == token.CssSelectorFragment:
			block.Rules = append(block.Rules, p.parseStyleRule())
		case p.cur.Kind == token.Identifier:
			block.InlineProps = append(block.InlineProps, p.parseStyleProperty())
		default:
			p.errorf(loc.ERROR_UNEXPECTED_TOKEN, "unexpected token in style block: "+p.cur.String())
			p.advance()
		}
	}
}

func (p *Parser) parseStyleRule() *ast.StyleRule {
	start := p.cur.Span
	var sel strings.Builder
	for p.cur.Kind == token.CssSelectorFragment {
		sel.WriteString(p.cur.Data)
		p.advance()
	}
	rule := &ast.StyleRule{Selector: sel.String()}
	if p.cur.Kind == token.Punctuation && p.cur.Data == "{" {
		p.advance()
		for !(p.cur.Kind == token.Punctuation && p.cur.Data == "}") && p.cur.Kind != token.Eof {
			rule.Props = append(rule.Props, p.parseStyleProperty())
		}
		p.expectPunct("}")
	}
	rule.Span = p.spanFrom(start)
	return rule
}

func (p *Parser) parseStyleProperty() *ast.Property {
	start := p.cur.Span
	name := p.cur.Data
	p.advance()
	prop := &ast.Property{Name: name}
	if (p.cur.Kind == token.Punctuation && (p.cur.Data == ":" || p.cur.Data == "=")) ||
		(p.cur.Kind == token.CssSelectorFragment && p.cur.Data == ":") {
		p.advance()
		prop.Value = p.parseStyleValue()
	}
	p.consumeSemicolon()
	prop.Base = ast.Base{Span: p.spanFrom(start)}
	return prop
}

// parseStyleValue recognizes `Group(key)` / `Group(key = override)`
// variable-group references (spec §4.10); anything else is a plain
// literal/unquoted value.
func (p *Parser) parseStyleValue() ast.Node {
	start := p.cur.Span
	if p.cur.Kind == token.Identifier && p.peekTok().Kind == token.Punctuation && p.peekTok().Data == "(" {
		group := p.cur.Data
		p.advance()
		p.advance() // '('
		key := p.cur.Data
		p.advance()
		override := ""
		if p.cur.Kind == token.Punctuation && (p.cur.Data == "=" || p.cur.Data == ":") {
			p.advance()
			override = p.cur.Data
			p.advance()
		}
		p.expectPunct(")")
		return &ast.VarRef{Group: group, Key: key, Override: override, Base: ast.Base{Span: p.spanFrom(start)}}
	}
	val := p.cur.Data
	p.advance()
	return &ast.Text{Value: val, Base: ast.Base{Span: p.spanFrom(start)}}
}

// parseScriptBlock parses `script { ... }`; the body is handed to the
// CHTL-JS compiler untouched, so the parser simply captures the
// adjoining JS fragment's raw text rather than tokenizing it itself.
func (p *Parser) parseScriptBlock(local bool) *ast.ScriptBlock {
	start := p.cur.Span
	p.advance() // 'script'
	block := &ast.ScriptBlock{Local: local}
	depth := p.st.Push(state.Frame{Kind: state.InLocalScript, Local: local})
	defer p.st.Pop(depth)

	if p.cur.Kind == token.Punctuation && p.cur.Data == "{" {
		p.advance()
	}
	if p.fi+1 < len(p.frags) && p.frags[p.fi+1].Kind == scanner.JS {
		block.BodyFragment = p.frags[p.fi+1].Text
		p.advanceToFragment(p.fi + 2)
	}
	if p.cur.Kind == token.Punctuation && p.cur.Data == "}" {
		p.advance()
	}
	block.Span = p.spanFrom(start)
	return block
}
