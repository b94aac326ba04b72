// Package jsast defines the CHTL-JS abstract syntax tree (spec §3): the
// small set of enhanced constructs (selectors, arrow chains, listen,
// delegate, animate, virtual objects) plus OpaqueJs runs for everything
// the CHTL-JS parser deliberately does not interpret.
package jsast

import "github.com/chtl-lang/chtl/internal/loc"

type Node interface {
	Position() loc.Range
	node()
}

type Base struct{ Span loc.Range }

func (b Base) Position() loc.Range { return b.Span }
func (Base) node()                 {}

type Script struct {
	Base
	Children []Node
}

type SelectorKind int

const (
	SelTag SelectorKind = iota
	SelClass
	SelID
	SelComplex
	SelIndexed
)

func (k SelectorKind) String() string {
	switch k {
	case SelTag:
		return "tag"
	case SelClass:
		return "class"
	case SelID:
		return "id"
	case SelComplex:
		return "complex"
	case SelIndexed:
		return "indexed"
	default:
		return "unknown"
	}
}

// EnhancedSelector is the `{{ ... }}` construct. Raw is the verbatim
// inner text; Parsed is the selector string to hand to querySelector(All)
// once any CHTL-side CSS scoping has been applied; Index is set (>=0)
// only when Kind == SelIndexed.
type EnhancedSelector struct {
	Base
	Kind   SelectorKind
	Raw    string
	Parsed string
	Index  int
}

// ArrowChain is `head->m1(...)->m2(...)...`; Head is usually an
// EnhancedSelector or an identifier referencing a VirDecl.
type ArrowChain struct {
	Base
	Head    Node
	Methods []*MethodCall
}

type MethodCall struct {
	Base
	Name string
	Args string // raw, opaque argument-list text (spec: parser doesn't interpret arbitrary JS)
}

// ListenBlock is `X->listen({ click: fn, ... })`.
type ListenBlock struct {
	Base
	Target   Node
	Handlers map[string]string // event -> raw JS handler source
	Order    []string          // handler insertion order, for deterministic emission
}

type DelegateBlock struct {
	Base
	Container Node
	Targets   []string // selector strings for `target`
	Handlers  map[string]string
	Order     []string
}

// AnimateBlock mirrors the `animate({...})` option object; unrecognized
// fields are preserved verbatim in Extra for forward compatibility.
type AnimateBlock struct {
	Base
	Target    Node
	Duration  string
	Easing    string
	Begin     string
	When      []string
	End       string
	Loop      string
	Direction string
	Delay     string
	Callback  string
	Extra     map[string]string
}

// VirDecl is `vir Name = listen({...});` (or delegate/animate); Name
// becomes a registry key so `Name->m` calls resolve to the same
// identity across call sites.
type VirDecl struct {
	Base
	Name string
	Body Node // *ListenBlock, *DelegateBlock, or *AnimateBlock
}

// VirCall is `Name->method(args)` where Name refers to a VirDecl.
type VirCall struct {
	Base
	Object string
	Method string
	Args   string
}

// OpaqueJs is arbitrary JavaScript the parser copies verbatim.
type OpaqueJs struct {
	Base
	Text string
}
