package parser

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/scanner"
	"github.com/chtl-lang/chtl/internal/token"
)

func parse(t *testing.T, src string) (*ast.Document, *handler.Handler) {
	t.Helper()
	h := handler.NewHandler(src, "<test>")
	kt := token.NewKeywordTable()
	frags := scanner.New(kt, h).Scan(src)
	p := New(frags, kt, h, nil)
	doc := p.Parse()
	return doc, h
}

func TestParseSimpleElementWithAttrAndText(t *testing.T) {
	doc, h := parse(t, `div { id: box; text { "hi" } }`)
	if h.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", h.Errors())
	}
	if len(doc.Children) != 1 {
		t.Fatalf("expected 1 top-level child, got %d", len(doc.Children))
	}
	el, ok := doc.Children[0].(*ast.Element)
	if !ok {
		t.Fatalf("expected *ast.Element, got %T", doc.Children[0])
	}
	if el.Tag != "div" {
		t.Fatalf("expected tag div, got %q", el.Tag)
	}
	if len(el.Attrs) != 1 || el.Attrs[0].Name != "id" || el.Attrs[0].Value != "box" {
		t.Fatalf("expected attr id=box, got %+v", el.Attrs)
	}
	found := false
	for _, c := range el.Children {
		if tx, ok := c.(*ast.Text); ok && tx.Value == "hi" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected text node 'hi', got children %+v", el.Children)
	}
}

func TestParseLocalStyleBlockWithRuleAndInlineProp(t *testing.T) {
	doc, h := parse(t, `div { style { color: red; &:hover { color: blue; } } }`)
	if h.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", h.Errors())
	}
	el := doc.Children[0].(*ast.Element)
	var style *ast.StyleBlock
	for _, c := range el.Children {
		if sb, ok := c.(*ast.StyleBlock); ok {
			style = sb
		}
	}
	if style == nil {
		t.Fatal("expected a style block child")
	}
	if len(style.InlineProps) != 1 || style.InlineProps[0].Name != "color" {
		t.Fatalf("expected inline color prop, got %+v", style.InlineProps)
	}
	if len(style.Rules) != 1 || style.Rules[0].Selector != "&:hover" {
		t.Fatalf("expected &:hover rule, got %+v", style.Rules)
	}
}

func TestParseLocalScriptBlockCapturesRawBody(t *testing.T) {
	doc, h := parse(t, `div { script { {{.box}}->listen({click: () => { x++; }}); } }`)
	if h.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", h.Errors())
	}
	el := doc.Children[0].(*ast.Element)
	var script *ast.ScriptBlock
	for _, c := range el.Children {
		if sb, ok := c.(*ast.ScriptBlock); ok {
			script = sb
		}
	}
	if script == nil {
		t.Fatal("expected a script block child")
	}
	if script.BodyFragment == "" {
		t.Fatal("expected a non-empty raw script body")
	}
}

func TestParseTemplateDecl(t *testing.T) {
	doc, h := parse(t, `[Template] @Style Theme { color: red; font-size: 16px; }`)
	if h.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", h.Errors())
	}
	decl, ok := doc.Children[0].(*ast.TemplateDecl)
	if !ok {
		t.Fatalf("expected *ast.TemplateDecl, got %T", doc.Children[0])
	}
	if decl.Kind != ast.StyleKind || decl.Name != "Theme" {
		t.Fatalf("expected Style Theme, got %+v", decl)
	}
	if len(decl.Body) != 2 {
		t.Fatalf("expected 2 properties, got %d", len(decl.Body))
	}
}

func TestParseCustomElementWithDeleteAndInsert(t *testing.T) {
	src := `[Custom] @Element Box { div { span; span; } }
body { @Element Box { delete span[0]; insert after span[0] { p { text { "x" } } } } }`
	doc, h := parse(t, src)
	if h.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", h.Errors())
	}
	if len(doc.Children) != 2 {
		t.Fatalf("expected 2 top-level nodes, got %d", len(doc.Children))
	}
	body := doc.Children[1].(*ast.Element)
	var use *ast.Use
	for _, c := range body.Children {
		if u, ok := c.(*ast.Use); ok {
			use = u
		}
	}
	if use == nil || use.Specialization == nil {
		t.Fatal("expected a use with a specialization block")
	}
	if len(use.Specialization.Ops) != 2 {
		t.Fatalf("expected delete+insert ops, got %d", len(use.Specialization.Ops))
	}
	if _, ok := use.Specialization.Ops[0].(*ast.DeleteOp); !ok {
		t.Fatalf("expected first op to be DeleteOp, got %T", use.Specialization.Ops[0])
	}
	if _, ok := use.Specialization.Ops[1].(*ast.InsertOp); !ok {
		t.Fatalf("expected second op to be InsertOp, got %T", use.Specialization.Ops[1])
	}
}

func TestParseNamespaceWithFromUse(t *testing.T) {
	src := `[Namespace] ui { [Custom] @Element Button { button; } }
body { @Element Button from ui; }`
	doc, h := parse(t, src)
	if h.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", h.Errors())
	}
	ns, ok := doc.Children[0].(*ast.NamespaceDecl)
	if !ok || ns.Path != "ui" {
		t.Fatalf("expected namespace ui, got %+v", doc.Children[0])
	}
	body := doc.Children[1].(*ast.Element)
	var use *ast.Use
	for _, c := range body.Children {
		if u, ok := c.(*ast.Use); ok {
			use = u
		}
	}
	if use == nil || use.FromNamespace != "ui" {
		t.Fatalf("expected a use with from=ui, got %+v", use)
	}
}

func TestParseOriginBlockVerbatim(t *testing.T) {
	doc, h := parse(t, `div { [Origin] @Html { <b>raw</b> } }`)
	if h.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", h.Errors())
	}
	el := doc.Children[0].(*ast.Element)
	var origin *ast.OriginDecl
	for _, c := range el.Children {
		if o, ok := c.(*ast.OriginDecl); ok {
			origin = o
		}
	}
	if origin == nil {
		t.Fatal("expected an origin decl child")
	}
	if origin.RawText != "<b>raw</b>" {
		t.Fatalf("expected verbatim raw text, got %q", origin.RawText)
	}
}

func TestParseVariableGroupOverride(t *testing.T) {
	src := `[Template] @Var Palette { primary: red; }
div { style { color: Palette(primary); background: Palette(primary = blue); } }`
	doc, h := parse(t, src)
	if h.HasErrors() {
		t.Fatalf("unexpected parse errors: %v", h.Errors())
	}
	div := doc.Children[1].(*ast.Element)
	var style *ast.StyleBlock
	for _, c := range div.Children {
		if sb, ok := c.(*ast.StyleBlock); ok {
			style = sb
		}
	}
	if style == nil || len(style.InlineProps) != 2 {
		t.Fatalf("expected 2 inline props, got %+v", style)
	}
	ref, ok := style.InlineProps[1].Value.(*ast.VarRef)
	if !ok {
		t.Fatalf("expected a VarRef value, got %T", style.InlineProps[1].Value)
	}
	if ref.Group != "Palette" || ref.Key != "primary" || ref.Override != "blue" {
		t.Fatalf("unexpected VarRef %+v", ref)
	}
}
