// Package token defines the shared token model for both the CHTL and
// CHTL-JS dialects: a tagged variant with a span, plus the keyword
// tables the lexers consult. The layout (a single Kind enum, a Data
// string, a Loc, a String method for debugging/diagnostics) is shared
// across both dialects rather than duplicated, generalized from one
// token vocabulary (CHTL structural syntax) to two (CHTL and CHTL-JS
// script sugar).
package token

import (
	"strconv"

	"github.com/chtl-lang/chtl/internal/loc"
)

// Kind is the tag of a Token's variant.
type Kind uint32

const (
	Invalid Kind = iota

	Identifier
	StringLiteral    // quoted, '"' or '\''
	UnquotedLiteral  // unquoted run after ':' or '=' in style/attribute context
	NumberLiteral    // optional unit suffix kept in Data verbatim

	StructuralKeyword // [Template] [Custom] [Origin] [Import] [Namespace] [Configuration] [Info] [Export] [Name] [OriginType]
	TypeKeyword       // @Style @Element @Var @Html @JavaScript @Chtl @CJmod @Config, user-defined @X
	ContextualKeyword // text style script inherit delete insert after before replace "at top" "at bottom" from as except vir

	Punctuation // { } ( ) ; : = , [ ] . & *

	CssSelectorFragment // .x #x :pseudo &
	EnhancedSelector     // {{ ... }}, CHTL-JS only, captured verbatim
	Arrow                // ->

	LineComment  // //...
	BlockComment // /* ... */
	GeneratorComment // --...  (preserved verbatim unless dropped by configuration)

	Eof
)

func (k Kind) String() string {
	switch k {
	case Invalid:
		return "Invalid"
	case Identifier:
		return "Identifier"
	case StringLiteral:
		return "StringLiteral"
	case UnquotedLiteral:
		return "UnquotedLiteral"
	case NumberLiteral:
		return "NumberLiteral"
	case StructuralKeyword:
		return "StructuralKeyword"
	case TypeKeyword:
		return "TypeKeyword"
	case ContextualKeyword:
		return "ContextualKeyword"
	case Punctuation:
		return "Punctuation"
	case CssSelectorFragment:
		return "CssSelectorFragment"
	case EnhancedSelector:
		return "EnhancedSelector"
	case Arrow:
		return "Arrow"
	case LineComment:
		return "LineComment"
	case BlockComment:
		return "BlockComment"
	case GeneratorComment:
		return "GeneratorComment"
	case Eof:
		return "Eof"
	}
	return "Invalid(" + strconv.Itoa(int(k)) + ")"
}

// Token is a single lexical unit. Data holds the token's text — for
// StructuralKeyword/TypeKeyword/ContextualKeyword tokens this is the
// canonical (post-alias-resolution) spelling; for StringLiteral it is the
// unescaped value; for EnhancedSelector it is the verbatim text between
// "{{" and "}}", uninterpreted.
type Token struct {
	Kind Kind
	Data string
	Span loc.Range
}

func (t Token) String() string {
	return t.Kind.String() + "(" + t.Data + ")"
}

// Is reports whether the token is a ContextualKeyword or StructuralKeyword
// matching the given canonical text.
func (t Token) Is(kind Kind, text string) bool {
	return t.Kind == kind && t.Data == text
}
