package jslexer

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/token"
)

func TestLexEnhancedSelectorVerbatim(t *testing.T) {
	src := `{{.box}}->listen({click: () => { x++; }});`
	h := handler.NewHandler(src, "<test>")
	lx := New(src, 0, h)

	tok := lx.Next()
	if tok.Kind != token.EnhancedSelector || tok.Data != ".box" {
		t.Fatalf("expected EnhancedSelector '.box', got %+v", tok)
	}
	tok = lx.Next()
	if tok.Kind != token.Arrow {
		t.Fatalf("expected Arrow, got %+v", tok)
	}
	tok = lx.Next()
	if tok.Kind != token.Identifier || tok.Data != "listen" {
		t.Fatalf("expected 'listen' identifier, got %+v", tok)
	}
	if h.HasErrors() {
		t.Fatalf("unexpected errors: %v", h.Errors())
	}
}

func TestLexVirKeyword(t *testing.T) {
	h := handler.NewHandler("vir Box = listen({});", "<test>")
	lx := New("vir Box = listen({});", 0, h)
	tok := lx.Next()
	if tok.Kind != token.ContextualKeyword || tok.Data != "vir" {
		t.Fatalf("expected 'vir' contextual keyword, got %+v", tok)
	}
}

func TestLexUnterminatedEnhancedSelectorIsRecoverable(t *testing.T) {
	src := `{{.box`
	h := handler.NewHandler(src, "<test>")
	lx := New(src, 0, h)
	tok := lx.Next()
	if tok.Kind != token.EnhancedSelector {
		t.Fatalf("expected EnhancedSelector token even when unterminated, got %+v", tok)
	}
	if !h.HasErrors() {
		t.Fatal("expected an unterminated-selector diagnostic")
	}
}

func TestMatchBalancedSkipsNestedBracesAndStrings(t *testing.T) {
	src := []byte(`() => { let s = "}"; return {a:1}; }) rest`)
	// pos 0 is '(' of the arrow param list; pretend caller already consumed
	// the outer '(' that opens the whole listen(...) argument list, so
	// search for the matching ')' starting just after it.
	open := []byte(`(() => { let s = "}"; return {a:1}; })`)
	end := MatchBalanced(open, 1, '(', ')')
	if end != len(open)-1 {
		t.Fatalf("expected match at %d, got %d", len(open)-1, end)
	}
	_ = src
}

func TestOpaqueJsSliceRoundTrips(t *testing.T) {
	src := `{{.box}}->listen({click: () => { doThing(); }});`
	h := handler.NewHandler(src, "<test>")
	lx := New(src, 0, h)
	lx.Next() // EnhancedSelector
	lx.Next() // Arrow
	lx.Next() // listen
	if got := lx.Slice(0, lx.Len()); got != src {
		t.Fatalf("Slice(0, Len()) did not round-trip: got %q want %q", got, src)
	}
}
