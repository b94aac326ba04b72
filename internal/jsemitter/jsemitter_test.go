package jsemitter

import (
	"strings"
	"testing"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/jsparser"
)

func TestEmitTagSelectorQueriesAll(t *testing.T) {
	h := handler.NewHandler("", "<test>")
	script := jsparser.Parse(`{{div}}`, 0, h)
	e := New(h)
	got := e.EmitScript(script)
	if got != `document.querySelectorAll('div')` {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestEmitIDSelectorQueriesSingle(t *testing.T) {
	h := handler.NewHandler("", "<test>")
	script := jsparser.Parse(`{{#app}}`, 0, h)
	e := New(h)
	got := e.EmitScript(script)
	if got != `document.querySelector('#app')` {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestEmitIndexedSelector(t *testing.T) {
	h := handler.NewHandler("", "<test>")
	script := jsparser.Parse(`{{div[1]}}`, 0, h)
	e := New(h)
	got := e.EmitScript(script)
	if got != `document.querySelectorAll('div')[1]` {
		t.Fatalf("unexpected: %q", got)
	}
}

func TestEmitListenWiresForEach(t *testing.T) {
	h := handler.NewHandler("", "<test>")
	script := jsparser.Parse(`{{.box}}->listen({click: () => { x++; }});`, 0, h)
	e := New(h)
	got := e.EmitScript(script)
	if !strings.Contains(got, "document.querySelectorAll('.box')") {
		t.Fatalf("expected selector lowered, got %q", got)
	}
	if !strings.Contains(got, "addEventListener(k,h[k])") {
		t.Fatalf("expected forEach wiring, got %q", got)
	}
	if !strings.Contains(got, "() => { x++; }") {
		t.Fatalf("expected verbatim handler body, got %q", got)
	}
}

func TestEmitVirListenRegistersAndWires(t *testing.T) {
	h := handler.NewHandler("", "<test>")
	script := jsparser.Parse(`vir Box = listen({click: () => { go(); }});`, 0, h)
	e := New(h)
	got := e.EmitScript(script)
	if !strings.Contains(got, "__chtlVir.Box=") {
		t.Fatalf("expected registry assignment, got %q", got)
	}
	if !strings.Contains(got, "__chtlVir.Box") && !strings.Contains(got, "t.addEventListener") {
		t.Fatalf("expected wiring referencing registry entry, got %q", got)
	}
	prelude := e.Prelude()
	if !strings.Contains(prelude, "__chtlVir={}") {
		t.Fatalf("expected vir registry prelude, got %q", prelude)
	}
}

func TestPreludeOmitsUnusedHelpers(t *testing.T) {
	h := handler.NewHandler("", "<test>")
	script := jsparser.Parse(`{{div}}`, 0, h)
	e := New(h)
	_ = e.EmitScript(script)
	prelude := e.Prelude()
	if prelude != "" {
		t.Fatalf("expected empty prelude when no listen/delegate/animate used, got %q", prelude)
	}
}

func TestEmitDelegateCallsHelperAndRequestsPrelude(t *testing.T) {
	h := handler.NewHandler("", "<test>")
	script := jsparser.Parse(`{{.list}}->delegate({target: ".item", click: () => { pick(); }});`, 0, h)
	e := New(h)
	got := e.EmitScript(script)
	if !strings.Contains(got, "__chtlDelegate(") {
		t.Fatalf("expected delegate helper call, got %q", got)
	}
	prelude := e.Prelude()
	if !strings.Contains(prelude, "function __chtlDelegate") {
		t.Fatalf("expected delegate helper definition in prelude, got %q", prelude)
	}
}
