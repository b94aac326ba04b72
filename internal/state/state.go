// Package state implements the pushdown parsing state machine of spec
// §4.7. Ambiguous tokens (is `style` a keyword or an HTML tag?) are
// resolved by consulting the top of the stack rather than lookahead
// alone; specialization ops are legal only in the states that permit
// them, which Guard checks. Push returns the depth it pushed to and Pop
// checks it, so a caller's `defer s.Pop(depth)` pops on every exit
// path, including error recovery.
package state

import "github.com/chtl-lang/chtl/internal/ast"

type Kind int

const (
	TopLevel Kind = iota
	InElement
	InAttr
	InLocalStyle
	InStyleRule
	InLocalScript
	InTemplateDecl
	InCustomDecl
	InSpecialization
	InOriginBlock
	InNamespace
	InConfiguration
)

func (k Kind) String() string {
	switch k {
	case TopLevel:
		return "TopLevel"
	case InElement:
		return "InElement"
	case InAttr:
		return "InAttr"
	case InLocalStyle:
		return "InLocalStyle"
	case InStyleRule:
		return "InStyleRule"
	case InLocalScript:
		return "InLocalScript"
	case InTemplateDecl:
		return "InTemplateDecl"
	case InCustomDecl:
		return "InCustomDecl"
	case InSpecialization:
		return "InSpecialization"
	case InOriginBlock:
		return "InOriginBlock"
	case InNamespace:
		return "InNamespace"
	case InConfiguration:
		return "InConfiguration"
	default:
		return "Unknown"
	}
}

// Frame records the context that was active when a state was pushed:
// current element tag, current template/custom name and kind, the
// origin tag for InOriginBlock, whether we're inside a specialization,
// and whether the current style/script is local (nested in an element)
// vs. top-level.
type Frame struct {
	Kind        Kind
	ElementTag  string
	DeclKind    ast.DefKind
	DeclName    string
	OriginTag   string
	NamespaceID string
	Local       bool
}

// Stack is the strictly push/pop state stack, owned exclusively by the
// parser (spec §5: "no inter-thread mutable state").
type Stack struct {
	frames []Frame
}

func New() *Stack {
	return &Stack{frames: []Frame{{Kind: TopLevel}}}
}

// Push returns the new depth; Pop must be called with that depth to
// guard against mismatched push/pop on divergent code paths.
func (s *Stack) Push(f Frame) int {
	s.frames = append(s.frames, f)
	return len(s.frames)
}

// Pop pops back to depth-1, asserting depth matches the current
// top-of-stack — callers use `defer s.Pop(s.Push(f))` so every exit path
// (including early returns on parse errors) restores the stack.
func (s *Stack) Pop(depth int) {
	if depth != len(s.frames) {
		panic("state: mismatched push/pop depth")
	}
	s.frames = s.frames[:depth-1]
}

func (s *Stack) Top() Frame { return s.frames[len(s.frames)-1] }

func (s *Stack) Depth() int { return len(s.frames) }

// In reports whether any frame on the stack (searching from the top) has
// the given kind — used for gates like "delete only legal inside a
// custom context" which must see through intervening InElement frames.
func (s *Stack) In(k Kind) bool {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == k {
			return true
		}
	}
	return false
}

// Enclosing returns the nearest frame of kind k, walking from the top,
// and whether one was found.
func (s *Stack) Enclosing(k Kind) (Frame, bool) {
	for i := len(s.frames) - 1; i >= 0; i-- {
		if s.frames[i].Kind == k {
			return s.frames[i], true
		}
	}
	return Frame{}, false
}

// Guard is a legality gate for specialization ops, per §4.7: "delete
// only in a custom context; insert only inside a custom element; except
// only inside an element body".
type Guard struct{ s *Stack }

func NewGuard(s *Stack) Guard { return Guard{s: s} }

func (g Guard) DeleteAllowed() bool  { return g.s.In(InCustomDecl) || g.s.In(InSpecialization) }
func (g Guard) InsertAllowed() bool  { return g.s.In(InCustomDecl) || g.s.In(InSpecialization) }
func (g Guard) ExceptAllowed() bool  { return g.s.In(InElement) }
func (g Guard) ReplaceAllowed() bool { return g.s.In(InCustomDecl) || g.s.In(InSpecialization) }
