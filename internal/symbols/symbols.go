// Package symbols implements the compile-wide GlobalMap of spec §4.6: a
// typed, namespaced symbol registry keyed by (kind, fully_qualified_name).
// Lookup is kept separate from LookupByType/LookupFrom rather than
// flattened into one method, since `from`-clause and wildcard-import
// resolution both need the typed variant.
package symbols

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chtl-lang/chtl/internal/loc"
)

type Kind int

const (
	TemplateStyle Kind = iota
	TemplateElement
	TemplateVar
	CustomStyle
	CustomElement
	CustomVar
	OriginHTML
	OriginStyle
	OriginJavaScript
	OriginCustom // user-defined origin tag; Symbol.Properties["tag"] holds it
	Namespace
	Configuration
)

func (k Kind) String() string {
	switch k {
	case TemplateStyle:
		return "TemplateStyle"
	case TemplateElement:
		return "TemplateElement"
	case TemplateVar:
		return "TemplateVar"
	case CustomStyle:
		return "CustomStyle"
	case CustomElement:
		return "CustomElement"
	case CustomVar:
		return "CustomVar"
	case OriginHTML:
		return "OriginHtml"
	case OriginStyle:
		return "OriginStyle"
	case OriginJavaScript:
		return "OriginJavaScript"
	case OriginCustom:
		return "OriginCustom"
	case Namespace:
		return "Namespace"
	case Configuration:
		return "Configuration"
	default:
		return "Unknown"
	}
}

// sameSubKind reports whether two kinds are the Template/Custom pair of
// the same underlying sub-kind (Style/Element/Var), the one collision
// spec §4.6 allows as a "compatible overlay".
func sameSubKind(a, b Kind) bool {
	pairs := [][2]Kind{
		{TemplateStyle, CustomStyle},
		{TemplateElement, CustomElement},
		{TemplateVar, CustomVar},
	}
	for _, p := range pairs {
		if (a == p[0] && b == p[1]) || (a == p[1] && b == p[0]) {
			return true
		}
	}
	return false
}

// Symbol is one GlobalMap entry.
type Symbol struct {
	Kind            Kind
	SimpleName      string
	NamespacePath   string // "" at root
	FullyQualified  string
	Span            loc.Range
	BodyRef         interface{} // *ast.TemplateDecl / *ast.CustomDecl / *ast.OriginDecl, kept opaque here to avoid an import cycle
	Exported        bool
	InheritsFrom    string // qualified name, "" if none
	Properties      map[string]string
}

type key struct {
	kind Kind
	fqn  string
}

// Conflict is returned by Register when a collision isn't a permitted
// Template/Custom overlay.
type Conflict struct {
	Existing Symbol
}

func (c *Conflict) Error() string {
	return fmt.Sprintf("symbol %s %q already registered", c.Existing.Kind, c.Existing.FullyQualified)
}

// GlobalMap is exclusively owned by one compile (spec §5); only the
// symbol-registration pass mutates it.
type GlobalMap struct {
	entries       map[key]Symbol
	namespaces    map[string]*NamespaceInfo
	currentNS     string
}

type NamespaceInfo struct {
	Path    string
	Members []string // fully-qualified names of directly-owned symbols
}

func New() *GlobalMap {
	return &GlobalMap{
		entries:    map[key]Symbol{},
		namespaces: map[string]*NamespaceInfo{"": {Path: ""}},
	}
}

func fqn(ns, simple string) string {
	if ns == "" {
		return simple
	}
	return ns + "." + simple
}

// Register inserts a symbol, computing FullyQualified from
// NamespacePath+SimpleName if not already set. Returns a *Conflict when
// (kind, fqn) is already registered and the two aren't a Template/Custom
// overlay pair.
func (g *GlobalMap) Register(sym Symbol) error {
	if sym.FullyQualified == "" {
		sym.FullyQualified = fqn(sym.NamespacePath, sym.SimpleName)
	}
	k := key{kind: sym.Kind, fqn: sym.FullyQualified}
	if existing, ok := g.entries[k]; ok {
		if !sameSubKind(existing.Kind, sym.Kind) {
			return &Conflict{Existing: existing}
		}
	}
	g.entries[k] = sym
	ns := g.namespaces[sym.NamespacePath]
	if ns == nil {
		ns = &NamespaceInfo{Path: sym.NamespacePath}
		g.namespaces[sym.NamespacePath] = ns
	}
	ns.Members = append(ns.Members, sym.FullyQualified)
	return nil
}

// Lookup implements spec §4.6's resolution order: (a) fully qualified if
// dotted, (b) current_namespace.name, (c) each enclosing namespace up to
// root, (d) root.
func (g *GlobalMap) Lookup(name string, kind Kind, currentNamespace string) (Symbol, bool) {
	if strings.Contains(name, ".") {
		if s, ok := g.entries[key{kind: kind, fqn: name}]; ok {
			return s, true
		}
	}
	ns := currentNamespace
	for {
		if s, ok := g.entries[key{kind: kind, fqn: fqn(ns, name)}]; ok {
			return s, true
		}
		if ns == "" {
			break
		}
		if i := strings.LastIndex(ns, "."); i >= 0 {
			ns = ns[:i]
		} else {
			ns = ""
		}
	}
	if s, ok := g.entries[key{kind: kind, fqn: name}]; ok {
		return s, true
	}
	return Symbol{}, false
}

// LookupFrom supports the `from` clause: ignore the current namespace
// and search only the stated one (plus fall through to root, matching
// the plain Lookup's final step).
func (g *GlobalMap) LookupFrom(name string, namespacePath string, kind Kind) (Symbol, bool) {
	if s, ok := g.entries[key{kind: kind, fqn: fqn(namespacePath, name)}]; ok {
		return s, true
	}
	if s, ok := g.entries[key{kind: kind, fqn: name}]; ok {
		return s, true
	}
	return Symbol{}, false
}

// LookupByType returns every registered symbol of a given kind,
// lexicographically ordered by fully-qualified name — used by wildcard
// imports ("every symbol tagged [Export]... or every top-level symbol").
func (g *GlobalMap) LookupByType(kind Kind) []Symbol {
	var out []Symbol
	for k, s := range g.entries {
		if k.kind == kind {
			out = append(out, s)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].FullyQualified < out[j].FullyQualified })
	return out
}

// All returns every registered symbol, sorted deterministically
// (lexicographic by path, then source order within a path, per spec §5's
// ordering guarantee for namespace-merge reconciliation).
func (g *GlobalMap) All() []Symbol {
	var out []Symbol
	for _, s := range g.entries {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].NamespacePath != out[j].NamespacePath {
			return out[i].NamespacePath < out[j].NamespacePath
		}
		return out[i].Span.Loc.Start < out[j].Span.Loc.Start
	})
	return out
}

func (g *GlobalMap) AddNamespace(path string) *NamespaceInfo {
	if ns, ok := g.namespaces[path]; ok {
		return ns
	}
	ns := &NamespaceInfo{Path: path}
	g.namespaces[path] = ns
	return ns
}

func (g *GlobalMap) FindNamespace(path string) (*NamespaceInfo, bool) {
	ns, ok := g.namespaces[path]
	return ns, ok
}

func (g *GlobalMap) CurrentNamespace() string     { return g.currentNS }
func (g *GlobalMap) SetCurrentNamespace(p string) { g.currentNS = p }

// Merge combines members of ns_b into ns_a (spec §4.6): two [Namespace]
// blocks at the same path contribute to one symbol set. Collisions
// (other than permitted Template/Custom overlay pairs) produce
// diagnostics rather than aborting, and are returned in source order so
// repeated merges are deterministic.
func (g *GlobalMap) Merge(pathA, pathB string) []error {
	var diags []error
	nsB, ok := g.namespaces[pathB]
	if !ok {
		return nil
	}
	nsA := g.AddNamespace(pathA)
	seen := map[string]bool{}
	for _, m := range nsA.Members {
		seen[m] = true
	}
	names := append([]string(nil), nsB.Members...)
	sort.Strings(names)
	for _, fq := range names {
		simple := fq
		if i := strings.LastIndex(fq, "."); i >= 0 {
			simple = fq[i+1:]
		}
		merged := fqn(pathA, simple)
		for kindCandidate := TemplateStyle; kindCandidate <= Configuration; kindCandidate++ {
			src, ok := g.entries[key{kind: kindCandidate, fqn: fq}]
			if !ok {
				continue
			}
			src.NamespacePath = pathA
			src.FullyQualified = merged
			if err := g.Register(src); err != nil {
				diags = append(diags, err)
			}
		}
	}
	return diags
}
