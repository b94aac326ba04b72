package symbols

import "testing"

func TestRegisterAndLookupRoot(t *testing.T) {
	g := New()
	if err := g.Register(Symbol{Kind: TemplateStyle, SimpleName: "Theme"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sym, ok := g.Lookup("Theme", TemplateStyle, "")
	if !ok {
		t.Fatal("expected to find Theme")
	}
	if sym.FullyQualified != "Theme" {
		t.Fatalf("expected fqn Theme, got %q", sym.FullyQualified)
	}
}

func TestTemplateCustomOverlayAllowed(t *testing.T) {
	g := New()
	if err := g.Register(Symbol{Kind: TemplateStyle, SimpleName: "Theme"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := g.Register(Symbol{Kind: CustomStyle, SimpleName: "Theme"}); err != nil {
		t.Fatalf("expected overlay to be allowed, got %v", err)
	}
}

func TestDuplicateSameKindConflicts(t *testing.T) {
	g := New()
	if err := g.Register(Symbol{Kind: TemplateStyle, SimpleName: "Theme"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	err := g.Register(Symbol{Kind: TemplateStyle, SimpleName: "Theme"})
	if err == nil {
		t.Fatal("expected a conflict error")
	}
	if _, ok := err.(*Conflict); !ok {
		t.Fatalf("expected *Conflict, got %T", err)
	}
}

func TestLookupFromIgnoresCurrentNamespace(t *testing.T) {
	g := New()
	if err := g.Register(Symbol{Kind: CustomElement, SimpleName: "Button", NamespacePath: "ui"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := g.Lookup("Button", CustomElement, "other"); ok {
		t.Fatal("did not expect plain lookup from an unrelated namespace to find it")
	}
	sym, ok := g.LookupFrom("Button", "ui", CustomElement)
	if !ok {
		t.Fatal("expected LookupFrom(ui) to find Button")
	}
	if sym.FullyQualified != "ui.Button" {
		t.Fatalf("expected ui.Button, got %q", sym.FullyQualified)
	}
}

func TestLookupWalksEnclosingNamespaces(t *testing.T) {
	g := New()
	if err := g.Register(Symbol{Kind: TemplateVar, SimpleName: "Palette", NamespacePath: "a"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	sym, ok := g.Lookup("Palette", TemplateVar, "a.b.c")
	if !ok {
		t.Fatal("expected lookup to walk up from a.b.c to a")
	}
	if sym.NamespacePath != "a" {
		t.Fatalf("expected namespace a, got %q", sym.NamespacePath)
	}
}

func TestMergeCombinesDisjointMembers(t *testing.T) {
	g := New()
	g.Register(Symbol{Kind: CustomElement, SimpleName: "Button", NamespacePath: "a"})
	g.Register(Symbol{Kind: CustomElement, SimpleName: "Card", NamespacePath: "b"})
	if diags := g.Merge("a", "b"); len(diags) != 0 {
		t.Fatalf("expected no diagnostics merging disjoint sets, got %v", diags)
	}
	if _, ok := g.Lookup("Card", CustomElement, "a"); !ok {
		t.Fatal("expected Card to be reachable from merged namespace a")
	}
}

func TestMergeCollisionProducesDiagnostic(t *testing.T) {
	g := New()
	g.Register(Symbol{Kind: CustomElement, SimpleName: "Button", NamespacePath: "a"})
	g.Register(Symbol{Kind: CustomElement, SimpleName: "Button", NamespacePath: "b"})
	diags := g.Merge("a", "b")
	if len(diags) == 0 {
		t.Fatal("expected a collision diagnostic")
	}
}
