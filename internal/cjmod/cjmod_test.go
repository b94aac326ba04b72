package cjmod

import "testing"

func TestSyntaxAnalysSplitsPlaceholdersPositionally(t *testing.T) {
	p := SyntaxAnalys(`printMylove({ url: $, mode: $ });`, ",:{};()")
	if len(p.Slots()) != 2 {
		t.Fatalf("expected 2 slots, got %d", len(p.Slots()))
	}
	if p.Slot(0).Name != "$0" || p.Slot(1).Name != "$1" {
		t.Fatalf("unexpected slot names: %q %q", p.Slot(0).Name, p.Slot(1).Name)
	}
}

func TestMatchAppliesBindThenTransform(t *testing.T) {
	p := SyntaxAnalys(`f($)`, "")
	var seenByBind string
	p.Bind("$0", func(v string) string {
		seenByBind = v
		return "bound(" + v + ")"
	})
	p.Transform("$0", func(v string) string {
		return "transformed(" + v + ")"
	})
	p.Match("$0", "raw")
	if seenByBind != "raw" {
		t.Fatalf("expected bind to see raw value, got %q", seenByBind)
	}
	if p.Slot(0).Value() != "transformed(bound(raw))" {
		t.Fatalf("expected bind-then-transform composition, got %q", p.Slot(0).Value())
	}
}

func TestResultConcatenatesLiteralsAndTransformedSlots(t *testing.T) {
	p := SyntaxAnalys(`a($)b($)c`, "")
	p.Transform("$0", func(v string) string { return "X" })
	p.Transform("$1", func(v string) string { return "Y" })
	p.Match("$0", "1")
	p.Match("$1", "2")
	if got := p.Result(); got != "a(X)b(Y)c" {
		t.Fatalf("unexpected result: %q", got)
	}
}

func TestUnmatchedSlotFallsBackToRawPlaceholderText(t *testing.T) {
	p := SyntaxAnalys(`a($)b`, "")
	if got := p.Result(); got != "a($0)b" {
		t.Fatalf("unexpected result for unmatched slot: %q", got)
	}
}

func TestScanKeywordFiresOnRegisteredToken(t *testing.T) {
	s := NewScanner(`myKeyword(1, 2)`)
	fired := false
	var before, after string
	s.ScanKeyword("myKeyword", func(s *Scanner, at int) {
		fired = true
		before = s.PeekKeyword(-1)
		after = s.PeekKeyword(1)
	})
	s.Run()
	if !fired {
		t.Fatal("expected handler to fire")
	}
	if before != "" {
		t.Fatalf("expected no token before the first token, got %q", before)
	}
	if after != "(" {
		t.Fatalf("expected next token '(', got %q", after)
	}
}

func TestPolicyCollectAccumulatesBetweenTriggers(t *testing.T) {
	s := NewScanner(`begin inside content here end`)
	var collected string
	s.ScanKeyword("begin", func(s *Scanner, at int) {
		s.PolicyChangeBegin("end", Collect)
	})
	s.ScanKeyword("end", func(s *Scanner, at int) {
		collected = s.PolicyChangeEnd("end", Collect)
	})
	s.Run()
	if collected != "inside content here " {
		t.Fatalf("unexpected collected text: %q", collected)
	}
}

func TestPolicySkipPreventsNestedKeywordDispatch(t *testing.T) {
	s := NewScanner(`skipStart myKeyword skipEnd`)
	fired := false
	s.ScanKeyword("skipStart", func(s *Scanner, at int) {
		s.PolicyChangeBegin("skipEnd", Skip)
	})
	s.ScanKeyword("myKeyword", func(s *Scanner, at int) {
		fired = true
	})
	s.ScanKeyword("skipEnd", func(s *Scanner, at int) {
		s.PolicyChangeEnd("skipEnd", Skip)
	})
	s.Run()
	if fired {
		t.Fatal("expected myKeyword handler to be skipped under SKIP policy")
	}
}
