// Package ast defines the CHTL abstract syntax tree (spec §3). Nodes are
// a sum type expressed as a common Node interface over concrete structs
// rather than an inheritance chain — dynamic dispatch happens through
// small pattern-matched switches in the emitter, not through virtual
// methods.
package ast

import "github.com/chtl-lang/chtl/internal/loc"

// Node is implemented by every AST node. Position reports the node's
// source span for diagnostics; it is never used to identify a node.
type Node interface {
	Position() loc.Range
	node()
}

type Base struct {
	Span loc.Range
}

func (b Base) Position() loc.Range { return b.Span }
func (Base) node()                 {}

// DefKind distinguishes the three reusable-definition kinds a
// [Template] or [Custom] block can declare.
type DefKind int

const (
	StyleKind DefKind = iota
	ElementKind
	VarKind
)

func (k DefKind) String() string {
	switch k {
	case StyleKind:
		return "Style"
	case ElementKind:
		return "Element"
	case VarKind:
		return "Var"
	default:
		return "Unknown"
	}
}

// Document is the root of a parsed CHTL file.
type Document struct {
	Base
	Children []Node
}

// Element is an HTML-shaped CHTL node: a tag with attributes and
// children, which may themselves be elements, text, style/script blocks,
// uses, or specializations.
type Element struct {
	Base
	Tag      string
	Attrs    []*Attribute
	Children []Node
}

type Attribute struct {
	Base
	Name  string
	Value string
}

type Text struct {
	Base
	Value string
}

// StyleBlock is a local (`style { ... }`) style attached to an element.
// Local blocks may hold inline properties (applied directly to the
// element as an auto-generated class) and/or nested rules.
type StyleBlock struct {
	Base
	Local       bool
	Rules       []*StyleRule
	InlineProps []*Property
}

type StyleRule struct {
	Base
	Selector string
	Props    []*Property
}

type Property struct {
	Base
	Name  string
	Value Node // Text, VarRef, or a raw literal Text
}

// ScriptBlock is a local (`script { ... }`) block; its body is the raw
// fragment text handed to the CHTL-JS compiler, which owns lexing,
// parsing, and lowering independently.
type ScriptBlock struct {
	Base
	Local        bool
	BodyFragment string
}

// TemplateDecl is a [Template] definition: expands without specialization.
type TemplateDecl struct {
	Base
	Kind DefKind
	Name string
	Body []Node
}

// CustomDecl is a [Custom] definition: supports specialization at use
// sites (delete/insert/replace/inherit/override).
type CustomDecl struct {
	Base
	Kind    DefKind
	Name    string
	Body    []Node
	Inherit string // qualified name of a parent Custom/Template, "" if none
}

// OriginDecl embeds foreign content verbatim.
type OriginDecl struct {
	Base
	OriginTag string
	Name      string // optional; "" if anonymous
	RawText   string
}

type ImportDecl struct {
	Base
	What       string // type keyword: @Style, @Element, @Var, @Html, @JavaScript, @Chtl, @CJmod, @Config, or user origin tag
	Name       string // "" when Wildcard
	Wildcard   bool
	FromPath   string
	Alias      string
}

type NamespaceDecl struct {
	Base
	Path    string // dotted path, e.g. "A.B.C"
	Members []Node
}

type ConfigEntry struct {
	Base
	Key   string
	Value string
}

type NameAlias struct {
	Base
	Keyword string // canonical keyword name, e.g. KEYWORD_TEMPLATE
	Alias   string
}

type OriginTypeDecl struct {
	Base
	Tag string
}

type ConfigurationDecl struct {
	Base
	Named   string // "" for the anonymous, active configuration
	Entries []*ConfigEntry
	Names   []*NameAlias
	Origins []*OriginTypeDecl
}

// Use expands a Template or Custom definition at the point it appears.
type Use struct {
	Base
	Kind           DefKind
	QualifiedName  string
	FromNamespace  string // "" if no explicit `from`
	Specialization *Specialization
}

type Specialization struct {
	Base
	Ops []SpecOp
}

// SpecOp is the sum type of specialization operations; DeleteOp,
// InsertOp, ReplaceOp, InheritOp and OverrideOp implement it, mirroring §3's
// `SpecOp ∈ {Delete, Insert, Replace, Inherit, Override}` sum type.
type SpecOp interface {
	Node
	specOp()
}

type SpecOpBase struct{ Base }

func (SpecOpBase) specOp() {}

type Target struct {
	Tag   string
	Index int // -1 when no index given
}

type DeleteOp struct {
	SpecOpBase
	Targets []Target
}

// InsertPosition enumerates `before T`, `after T`, `replace T`,
// `at top`, `at bottom`.
type InsertPosition int

const (
	PosBefore InsertPosition = iota
	PosAfter
	PosReplace
	PosAtTop
	PosAtBottom
)

type InsertOp struct {
	SpecOpBase
	Position InsertPosition
	Target   Target // unused for PosAtTop/PosAtBottom
	Payload  []Node
}

type ReplaceOp struct {
	SpecOpBase
	Target  Target
	Payload []Node
}

type InheritOp struct {
	SpecOpBase
	Kind          DefKind
	QualifiedName string
}

type OverrideOp struct {
	SpecOpBase
	Props []*Property
}

type VarRef struct {
	Base
	Group    string
	Key      string
	Override string // "" unless `Group(key = override)` form is used
}

type IndexAccess struct {
	Base
	Tag   string
	Index int
}

type ExceptClause struct {
	Base
	Targets []Target
}
