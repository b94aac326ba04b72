package emitter

import (
	"strings"
	"testing"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/symbols"
)

func TestEmitSimpleElementWithAttrAndText(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.Element{Tag: "div", Attrs: []*ast.Attribute{{Name: "id", Value: "a"}}, Children: []ast.Node{
			&ast.Text{Value: "hi & bye"},
		}},
	}}
	h := handler.NewHandler("", "<test>")
	e := New(symbols.New(), h)
	html, _, _ := e.Emit(doc)
	if html != `<div id="a">hi &amp; bye</div>` {
		t.Fatalf("unexpected html: %q", html)
	}
}

func TestEmitVoidElementSelfCloses(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{&ast.Element{Tag: "img", Attrs: []*ast.Attribute{{Name: "src", Value: "x.png"}}}}}
	e := New(symbols.New(), handler.NewHandler("", "<test>"))
	html, _, _ := e.Emit(doc)
	if html != `<img src="x.png"/>` {
		t.Fatalf("unexpected html: %q", html)
	}
}

func TestEmitLocalStyleGeneratesScopedClassAndCSS(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{
		&ast.Element{Tag: "div", Children: []ast.Node{
			&ast.StyleBlock{Local: true,
				InlineProps: []*ast.Property{{Name: "color", Value: &ast.Text{Value: "red"}}},
				Rules:       []*ast.StyleRule{{Selector: "&:hover", Props: []*ast.Property{{Name: "color", Value: &ast.Text{Value: "blue"}}}}},
			},
		}},
	}}
	e := New(symbols.New(), handler.NewHandler("", "<test>"))
	html, css, _ := e.Emit(doc)
	if !strings.Contains(html, `class="chtl-div-0"`) {
		t.Fatalf("expected scoped class in html, got %q", html)
	}
	if !strings.Contains(css, ".chtl-div-0{color:red;}") {
		t.Fatalf("expected inline-prop rule in css, got %q", css)
	}
	if !strings.Contains(css, ".chtl-div-0:hover{color:blue;}") {
		t.Fatalf("expected scoped nested rule in css, got %q", css)
	}
}

func TestEmitVariableGroupReferenceResolvesAndOverrides(t *testing.T) {
	g := symbols.New()
	_ = g.Register(symbols.Symbol{Kind: symbols.TemplateVar, SimpleName: "Theme", Properties: map[string]string{"bg": "white"}})
	doc := &ast.Document{Children: []ast.Node{
		&ast.Element{Tag: "div", Children: []ast.Node{
			&ast.StyleBlock{Local: true, InlineProps: []*ast.Property{
				{Name: "background", Value: &ast.VarRef{Group: "Theme", Key: "bg"}},
				{Name: "color", Value: &ast.VarRef{Group: "Theme", Key: "bg", Override: "black"}},
			}},
		}},
	}}
	e := New(g, handler.NewHandler("", "<test>"))
	_, css, _ := e.Emit(doc)
	if !strings.Contains(css, "background:white;") {
		t.Fatalf("expected resolved var, got %q", css)
	}
	if !strings.Contains(css, "color:black;") {
		t.Fatalf("expected call-site override, got %q", css)
	}
}

func TestEmitUseExpandsTemplateElement(t *testing.T) {
	g := symbols.New()
	tmpl := &ast.TemplateDecl{Kind: ast.ElementKind, Name: "Box", Body: []ast.Node{
		&ast.Element{Tag: "span", Children: []ast.Node{&ast.Text{Value: "boxed"}}},
	}}
	_ = g.Register(symbols.Symbol{Kind: symbols.TemplateElement, SimpleName: "Box", BodyRef: tmpl})
	doc := &ast.Document{Children: []ast.Node{
		&ast.Use{Kind: ast.ElementKind, QualifiedName: "Box"},
	}}
	e := New(g, handler.NewHandler("", "<test>"))
	html, _, _ := e.Emit(doc)
	if html != "<span>boxed</span>" {
		t.Fatalf("unexpected html: %q", html)
	}
}

func TestEmitUseWithDeleteAndInsertSpecialization(t *testing.T) {
	g := symbols.New()
	custom := &ast.CustomDecl{Kind: ast.ElementKind, Name: "Card", Body: []ast.Node{
		&ast.Element{Tag: "h1", Children: []ast.Node{&ast.Text{Value: "title"}}},
		&ast.Element{Tag: "p", Children: []ast.Node{&ast.Text{Value: "body"}}},
	}}
	_ = g.Register(symbols.Symbol{Kind: symbols.CustomElement, SimpleName: "Card", BodyRef: custom})
	doc := &ast.Document{Children: []ast.Node{
		&ast.Use{Kind: ast.ElementKind, QualifiedName: "Card", Specialization: &ast.Specialization{Ops: []ast.SpecOp{
			&ast.DeleteOp{Targets: []ast.Target{{Tag: "p", Index: -1}}},
			&ast.InsertOp{Position: ast.PosAtBottom, Payload: []ast.Node{&ast.Element{Tag: "footer"}}},
		}}},
	}}
	e := New(g, handler.NewHandler("", "<test>"))
	html, _, _ := e.Emit(doc)
	if html != "<h1>title</h1><footer></footer>" {
		t.Fatalf("unexpected html: %q", html)
	}
}

func TestEmitOriginHtmlPassesThroughVerbatim(t *testing.T) {
	doc := &ast.Document{Children: []ast.Node{&ast.OriginDecl{OriginTag: "Html", RawText: "<svg></svg>"}}}
	e := New(symbols.New(), handler.NewHandler("", "<test>"))
	html, _, _ := e.Emit(doc)
	if html != "<svg></svg>" {
		t.Fatalf("unexpected html: %q", html)
	}
}
