package lexer

import (
	"testing"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/token"
)

func tokensOf(t *testing.T, src string, style bool) []token.Token {
	t.Helper()
	h := handler.NewHandler(src, "<test>")
	lx := New(src, 0, token.NewKeywordTable(), h)
	if style {
		lx.EnterStyleBlock()
	}
	var toks []token.Token
	for {
		tok := lx.Next()
		if tok.Kind == token.Eof {
			break
		}
		toks = append(toks, tok)
	}
	if h.HasErrors() {
		t.Fatalf("unexpected lexer errors: %v", h.Errors())
	}
	return toks
}

func TestLexStructuralAndTypeKeywords(t *testing.T) {
	toks := tokensOf(t, `[Template] @Style Theme { color: red; }`, false)
	if toks[0].Kind != token.StructuralKeyword || toks[0].Data != "[Template]" {
		t.Fatalf("expected [Template] structural keyword, got %+v", toks[0])
	}
	if toks[1].Kind != token.TypeKeyword || toks[1].Data != "@Style" {
		t.Fatalf("expected @Style type keyword, got %+v", toks[1])
	}
	if toks[2].Kind != token.Identifier || toks[2].Data != "Theme" {
		t.Fatalf("expected Theme identifier, got %+v", toks[2])
	}
}

func TestLexUnquotedLiteralAfterColon(t *testing.T) {
	toks := tokensOf(t, `color: red;`, false)
	var found bool
	for _, tok := range toks {
		if tok.Kind == token.UnquotedLiteral && tok.Data == "red" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected UnquotedLiteral 'red', got %+v", toks)
	}
}

func TestLexMultiWordContextual(t *testing.T) {
	toks := tokensOf(t, `insert at top { }`, false)
	found := false
	for _, tok := range toks {
		if tok.Kind == token.ContextualKeyword && tok.Data == "at top" {
			found = true
		}
	}
	if !found {
		t.Fatalf("expected 'at top' contextual keyword, got %+v", toks)
	}
}

func TestLexStyleSelectorFragments(t *testing.T) {
	toks := tokensOf(t, `&:hover { color: blue; }`, true)
	if toks[0].Kind != token.CssSelectorFragment || toks[0].Data != "&" {
		t.Fatalf("expected '&' selector fragment, got %+v", toks[0])
	}
	if toks[1].Kind != token.CssSelectorFragment || toks[1].Data != ":hover" {
		t.Fatalf("expected ':hover' selector fragment, got %+v", toks[1])
	}
}

func TestLexUnterminatedStringIsRecoverable(t *testing.T) {
	h := handler.NewHandler(`"unterminated`, "<test>")
	lx := New(`"unterminated`, 0, token.NewKeywordTable(), h)
	tok := lx.Next()
	if tok.Kind != token.StringLiteral {
		t.Fatalf("expected StringLiteral token even when unterminated, got %+v", tok)
	}
	if !h.HasErrors() {
		t.Fatal("expected an unterminated string diagnostic")
	}
}

func TestLexArrowAndEnhancedSelectorLeftToJSLexer(t *testing.T) {
	// The CHTL lexer emits '->' as Arrow; "{{ }}" content is handled by
	// the separate CHTL-JS lexer, not this one, per spec §4.2/§4.3 split.
	toks := tokensOf(t, `x->y`, false)
	if toks[1].Kind != token.Arrow {
		t.Fatalf("expected Arrow token, got %+v", toks[1])
	}
}
