package jsparser

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/jsast"
)

func TestParseListenOnEnhancedSelector(t *testing.T) {
	src := `{{.box}}->listen({click: () => { x++; }});`
	h := handler.NewHandler(src, "<test>")
	script := Parse(src, 0, h)
	if h.HasErrors() {
		t.Fatalf("unexpected errors: %v", h.Errors())
	}
	if len(script.Children) != 1 {
		t.Fatalf("expected 1 child, got %d: %+v", len(script.Children), script.Children)
	}
	lb, ok := script.Children[0].(*jsast.ListenBlock)
	if !ok {
		t.Fatalf("expected *jsast.ListenBlock, got %T", script.Children[0])
	}
	sel, ok := lb.Target.(*jsast.EnhancedSelector)
	if !ok || sel.Kind != jsast.SelClass || sel.Parsed != ".box" {
		t.Fatalf("expected class selector .box, got %+v", lb.Target)
	}
	handlerSrc, ok := lb.Handlers["click"]
	if !ok || handlerSrc != "() => { x++; }" {
		t.Fatalf("expected click handler verbatim, got %q (ok=%v)", handlerSrc, ok)
	}
}

func TestParseIndexedSelector(t *testing.T) {
	src := `{{div[1]}}->m();`
	h := handler.NewHandler(src, "<test>")
	script := Parse(src, 0, h)
	chain, ok := script.Children[0].(*jsast.ArrowChain)
	if !ok {
		t.Fatalf("expected *jsast.ArrowChain, got %T", script.Children[0])
	}
	sel := chain.Head.(*jsast.EnhancedSelector)
	if sel.Kind != jsast.SelIndexed || sel.Index != 1 || sel.Parsed != "div" {
		t.Fatalf("expected indexed selector div[1], got %+v", sel)
	}
}

func TestParseVirListenDecl(t *testing.T) {
	src := `vir Box = listen({click: () => { go(); }});`
	h := handler.NewHandler(src, "<test>")
	script := Parse(src, 0, h)
	vir, ok := script.Children[0].(*jsast.VirDecl)
	if !ok {
		t.Fatalf("expected *jsast.VirDecl, got %T", script.Children[0])
	}
	if vir.Name != "Box" {
		t.Fatalf("expected name Box, got %q", vir.Name)
	}
	lb, ok := vir.Body.(*jsast.ListenBlock)
	if !ok {
		t.Fatalf("expected ListenBlock body, got %T", vir.Body)
	}
	if lb.Handlers["click"] != "() => { go(); }" {
		t.Fatalf("unexpected handler body: %q", lb.Handlers["click"])
	}
}

func TestParsePreservesSurroundingOpaqueJs(t *testing.T) {
	src := `let x = 0; {{.box}}->listen({click: () => { x++; }}); console.log(x);`
	h := handler.NewHandler(src, "<test>")
	script := Parse(src, 0, h)
	if len(script.Children) != 3 {
		t.Fatalf("expected opaque/listen/opaque, got %d children: %+v", len(script.Children), script.Children)
	}
	first, ok := script.Children[0].(*jsast.OpaqueJs)
	if !ok || first.Text != "let x = 0; " {
		t.Fatalf("expected leading opaque js, got %+v", script.Children[0])
	}
	last, ok := script.Children[2].(*jsast.OpaqueJs)
	if !ok || last.Text != " console.log(x);" {
		t.Fatalf("expected trailing opaque js, got %+v", script.Children[2])
	}
}

func TestParseAnimateBlock(t *testing.T) {
	src := `animate({target: {{.box}}, duration: 300, begin: {opacity: 0}, end: {opacity: 1}});`
	h := handler.NewHandler(src, "<test>")
	// A top-level bare "animate({...});" statement (no arrow, no vir) is
	// recognized on its own and becomes a single AnimateBlock.
	script := Parse(src, 0, h)
	if len(script.Children) != 1 {
		t.Fatalf("expected 1 child, got %d: %v", len(script.Children), script.Children)
	}
	ab, ok := script.Children[0].(*jsast.AnimateBlock)
	if !ok || ab.Duration != "300" {
		t.Fatalf("expected an AnimateBlock with duration 300, got %+v", script.Children[0])
	}
}
