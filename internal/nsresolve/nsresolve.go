// Package nsresolve implements the import/namespace resolver of spec
// §4.9: given [Import] declarations and a set of candidate source files
// already located on disk, it builds the importer->importee graph,
// flags cycles and duplicates as diagnostics (never fatal), and expands
// wildcard imports against the GlobalMap's [Export] list. Locating files
// on a filesystem from a bare module name is explicitly out of scope
// (spec §1's "filesystem discovery of modules" collaborator) — callers
// hand in a Loader that already knows how to turn a path/name into
// source text; this package owns only the resolution semantics.
package nsresolve

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/symbols"
)

// Loader turns an [Import] declaration's path into loadable source. Bare
// names are searched across caller-supplied module search paths in
// order; relative paths resolve against the importing file's directory
// — both policies live entirely in the caller's Loader implementation.
type Loader interface {
	// Load resolves fromPath (relative or bare) relative to importingFile
	// and returns the resolved file's canonical identity plus its source
	// text, or an error if nothing matched any search path.
	Load(importingFile, fromPath string) (resolvedFile string, source string, err error)
}

// ErrNotFound is an ImportError per spec §7.
type ErrNotFound struct{ Path string }

func (e *ErrNotFound) Error() string { return fmt.Sprintf("import not found: %q", e.Path) }

// ErrCycle is an ImportError; not fatal — the edge closing the cycle is
// reported and the second visit is silently skipped.
type ErrCycle struct{ Importer, Importee string }

func (e *ErrCycle) Error() string {
	return fmt.Sprintf("import cycle detected: %s -> %s", e.Importer, e.Importee)
}

// ErrDuplicateImport is an ImportError for importing the same symbol
// into the same file twice.
type ErrDuplicateImport struct {
	File, Symbol string
}

func (e *ErrDuplicateImport) Error() string {
	return fmt.Sprintf("%s: duplicate import of %q", e.File, e.Symbol)
}

// Graph tracks importer->importee edges across one compile, used purely
// for cycle detection (spec §4.9: "a directed graph of
// importer -> importee; a new edge that closes a cycle is a
// diagnostic... and the second visit is silently skipped").
type Graph struct {
	edges map[string][]string
}

func NewGraph() *Graph {
	return &Graph{edges: map[string][]string{}}
}

// AddEdge records importer->importee and reports whether it closes a
// cycle (in which case the edge is still recorded so later Lookups are
// stable, but the caller should not recurse into importee again).
func (g *Graph) AddEdge(importer, importee string) (closesCycle bool) {
	if g.reaches(importee, importer) {
		closesCycle = true
	}
	g.edges[importer] = append(g.edges[importer], importee)
	return closesCycle
}

func (g *Graph) reaches(from, to string) bool {
	if from == to {
		return true
	}
	visited := map[string]bool{}
	var dfs func(n string) bool
	dfs = func(n string) bool {
		if visited[n] {
			return false
		}
		visited[n] = true
		for _, next := range g.edges[n] {
			if next == to || dfs(next) {
				return true
			}
		}
		return false
	}
	return dfs(from)
}

// Resolver orchestrates resolution for one compile.
type Resolver struct {
	loader   Loader
	graph    *Graph
	imported map[string]map[string]bool // file -> set of "kind:name" already imported
}

func New(loader Loader) *Resolver {
	return &Resolver{loader: loader, graph: NewGraph(), imported: map[string]map[string]bool{}}
}

// Resolve processes one [Import] decl found while parsing `file`,
// returning the resolved file's source text (for the caller to parse
// and register into the GlobalMap) plus any diagnostics. A cycle or
// duplicate is reported but resolution still returns "" source so the
// caller skips re-parsing, per spec §4.9's "silently skipped" rule.
func (r *Resolver) Resolve(file string, decl *ast.ImportDecl) (resolvedFile, source string, diags []error) {
	key := decl.What + ":" + decl.Name
	if decl.Wildcard {
		key = decl.What + ":*"
	}
	seen := r.imported[file]
	if seen == nil {
		seen = map[string]bool{}
		r.imported[file] = seen
	}
	if seen[key+"@"+decl.FromPath] {
		diags = append(diags, &ErrDuplicateImport{File: file, Symbol: decl.Name})
		return "", "", diags
	}
	seen[key+"@"+decl.FromPath] = true

	resolvedFile, source, err := r.loader.Load(file, decl.FromPath)
	if err != nil {
		diags = append(diags, &ErrNotFound{Path: decl.FromPath})
		return "", "", diags
	}
	if r.graph.AddEdge(file, resolvedFile) {
		diags = append(diags, &ErrCycle{Importer: file, Importee: resolvedFile})
		return resolvedFile, "", diags
	}
	return resolvedFile, source, diags
}

// kindForImportWhat maps an [Import] `what` type keyword to the
// GlobalMap kind it should wildcard-expand over.
func kindForImportWhat(what string) (symbols.Kind, bool) {
	switch what {
	case "@Style":
		return symbols.TemplateStyle, true
	case "@Element":
		return symbols.TemplateElement, true
	case "@Var":
		return symbols.TemplateVar, true
	case "@Html":
		return symbols.OriginHTML, true
	case "@JavaScript":
		return symbols.OriginJavaScript, true
	default:
		return 0, false
	}
}

// ExpandWildcard resolves a `[Import] @Kind * from "path"` against an
// already-populated GlobalMap for the imported namespace: every symbol
// tagged Exported wins; if none are exported, every top-level symbol in
// that namespace is taken instead (spec §4.9).
func ExpandWildcard(g *symbols.GlobalMap, what, namespacePath string) []symbols.Symbol {
	kind, ok := kindForImportWhat(what)
	if !ok {
		return nil
	}
	var exported, all []symbols.Symbol
	for _, s := range g.LookupByType(kind) {
		if s.NamespacePath != namespacePath {
			continue
		}
		all = append(all, s)
		if s.Exported {
			exported = append(exported, s)
		}
	}
	if len(exported) > 0 {
		sort.Slice(exported, func(i, j int) bool { return exported[i].FullyQualified < exported[j].FullyQualified })
		return exported
	}
	sort.Slice(all, func(i, j int) bool { return all[i].FullyQualified < all[j].FullyQualified })
	return all
}

// AliasMap is the importing file's local, file-scoped `as alias` table
// (spec §4.9: "the alias is local — never enters the global namespace").
type AliasMap struct {
	aliases map[string]string // alias -> fully qualified name
}

func NewAliasMap() *AliasMap { return &AliasMap{aliases: map[string]string{}} }

func (a *AliasMap) Register(alias, fullyQualified string) { a.aliases[alias] = fullyQualified }

func (a *AliasMap) Resolve(name string) (string, bool) {
	fq, ok := a.aliases[name]
	return fq, ok
}

// ValidateKind rejects @Kind origin tags the Import grammar doesn't
// recognize unless they were registered as a user-defined origin type
// (spec §4.8's [OriginType]); origins is the live set of registered tags.
func ValidateKind(what string, origins map[string]bool) bool {
	switch what {
	case "@Style", "@Element", "@Var", "@Html", "@JavaScript", "@Chtl", "@CJmod", "@Config":
		return true
	default:
		return origins[strings.TrimPrefix(what, "@")]
	}
}
