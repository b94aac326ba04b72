// Package dispatcher implements spec §4.12: it reads the fragment
// stream produced by internal/scanner, drives internal/parser across
// the whole fragment list to build one ast.Document, registers every
// [Template]/[Custom]/named-[Origin] declaration (including inside
// [Namespace] blocks) into the shared internal/symbols.GlobalMap, then
// runs internal/emitter once and merges the resulting HTML/CSS/JS
// streams the way the generated page's document structure calls for.
// This is the top-level Compile() entry point the CLI (cmd/chtl) calls.
package dispatcher

import (
	"fmt"
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/config"
	"github.com/chtl-lang/chtl/internal/emitter"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/parser"
	"github.com/chtl-lang/chtl/internal/scanner"
	"github.com/chtl-lang/chtl/internal/symbols"
	"github.com/chtl-lang/chtl/internal/token"
)

// Result is one compile unit's output per spec §6: a merged HTML
// document (CSS and JS inlined), plus CSS/JS split out separately for a
// caller that wants the OUTPUT_SEPARATE_FILES option honored.
type Result struct {
	HTML string
	CSS  string
	JS   string
}

// Compile runs the full pipeline over one source file's text.
// filename is used only for diagnostic messages. A compile that
// produced any Error-or-above diagnostic returns a nil *Result (spec
// §7: "a compile with any Error or above never produces artifacts").
func Compile(source, filename string) (*Result, *handler.Handler) {
	return CompileWithModules(source, filename, nil)
}

// PreloadedModule is one CMOD/CJMOD archive's extracted source files
// (internal/module.Loaded.Sources), already resolved to a namespace by
// the caller (the CLI's -m flag names the archive; the archive's own
// info.chtl name becomes the namespace new declarations land under).
// Filesystem discovery of which archive a bare import path refers to is
// the caller's job (internal/nsresolve.Loader exists for exactly that);
// this is the mechanical half, registering declarations once a caller
// has already found and unpacked the archive.
type PreloadedModule struct {
	Namespace string
	Sources   map[string]string
}

// CompileWithModules is Compile plus a set of already-unpacked module
// archives whose declarations are registered into the same GlobalMap,
// under their own namespace, before the main source is parsed. This is
// what `-m` wires to (spec §6's CLI surface).
func CompileWithModules(source, filename string, modules []PreloadedModule) (*Result, *handler.Handler) {
	h := handler.NewHandler(source, filename)
	kt := token.NewKeywordTable()
	cfg := config.New()

	g := symbols.New()
	for _, mod := range modules {
		for name, src := range mod.Sources {
			mh := handler.NewHandler(src, name)
			mp := parser.New(scanner.New(kt, mh).Scan(src), kt, mh, cfg)
			registerSymbols(mp.Parse(), g, mh, mod.Namespace)
			if mh.HasErrors() {
				for _, d := range mh.Errors() {
					h.AppendError(fmt.Errorf("%s: %s", mod.Namespace, d.Text))
				}
			}
		}
	}

	sc := scanner.New(kt, h)
	frags := sc.Scan(source)

	p := parser.New(frags, kt, h, cfg)
	doc := p.Parse()

	registerSymbols(doc, g, h, "")

	e := emitter.New(g, h)
	html, css, js := e.Emit(doc)

	if h.HasErrors() {
		return nil, h
	}
	return &Result{HTML: merge(html, css, js), CSS: css, JS: js}, h
}

// merge wraps the CSS stream in <style> and the JS stream in <script>
// and attaches them at the document tail inside a synthesized <html>
// wrapper, per spec §4.12's fallback rule for sources with no explicit
// head/body (detecting and attaching to a discovered head/body is a
// further refinement left for a source that actually declares one,
// which this pipeline's CHTL grammar does not model as a separate
// construct from ordinary elements — html/head/body are just elements).
func merge(html, css, js string) string {
	var out strings.Builder
	out.WriteString(html)
	if css != "" {
		fmt.Fprintf(&out, "<style>%s</style>", css)
	}
	if js != "" {
		fmt.Fprintf(&out, "<script>%s</script>", js)
	}
	return out.String()
}

// registerSymbols walks the top-level declaration grammar (the same
// node kinds internal/parser.parseTopLevelItem produces), recursing into
// [Namespace] blocks with an accumulated dotted path, and registers every
// Template/Custom/named-Origin declaration into g.
func registerSymbols(doc *ast.Document, g *symbols.GlobalMap, h *handler.Handler, ns string) {
	registerList(doc.Children, g, h, ns)
}

func registerList(nodes []ast.Node, g *symbols.GlobalMap, h *handler.Handler, ns string) {
	for _, n := range nodes {
		switch v := n.(type) {
		case *ast.TemplateDecl:
			registerDecl(g, h, ns, templateKindFor(v.Kind), v.Name, v, "", v.Body)
		case *ast.CustomDecl:
			registerDecl(g, h, ns, customKindFor(v.Kind), v.Name, v, v.Inherit, v.Body)
		case *ast.OriginDecl:
			if v.Name != "" {
				kind := originKindFor(v.OriginTag)
				sym := symbols.Symbol{
					Kind:          kind,
					SimpleName:    v.Name,
					NamespacePath: ns,
					Span:          v.Position(),
					BodyRef:       v,
				}
				if kind == symbols.OriginCustom {
					sym.Properties = map[string]string{"tag": v.OriginTag}
				}
				if err := g.Register(sym); err != nil {
					h.AppendError(err)
				}
			}
		case *ast.NamespaceDecl:
			child := v.Path
			if ns != "" {
				child = ns + "." + v.Path
			}
			registerList(v.Members, g, h, child)
		}
	}
}

func registerDecl(g *symbols.GlobalMap, h *handler.Handler, ns string, kind symbols.Kind, name string, bodyRef ast.Node, inherits string, body []ast.Node) {
	sym := symbols.Symbol{
		Kind:          kind,
		SimpleName:    name,
		NamespacePath: ns,
		Span:          bodyRef.Position(),
		BodyRef:       bodyRef,
		InheritsFrom:  inherits,
		Properties:    propertiesOf(body),
	}
	if err := g.Register(sym); err != nil {
		h.AppendError(err)
	}
}

func propertiesOf(body []ast.Node) map[string]string {
	if len(body) == 0 {
		return nil
	}
	props := map[string]string{}
	found := false
	for _, n := range body {
		p, ok := n.(*ast.Property)
		if !ok {
			continue
		}
		found = true
		if t, ok := p.Value.(*ast.Text); ok {
			props[p.Name] = t.Value
		} else {
			props[p.Name] = ""
		}
	}
	if !found {
		return nil
	}
	return props
}

func templateKindFor(k ast.DefKind) symbols.Kind {
	switch k {
	case ast.StyleKind:
		return symbols.TemplateStyle
	case ast.ElementKind:
		return symbols.TemplateElement
	default:
		return symbols.TemplateVar
	}
}

func customKindFor(k ast.DefKind) symbols.Kind {
	switch k {
	case ast.StyleKind:
		return symbols.CustomStyle
	case ast.ElementKind:
		return symbols.CustomElement
	default:
		return symbols.CustomVar
	}
}

func originKindFor(tag string) symbols.Kind {
	switch tag {
	case "Html":
		return symbols.OriginHTML
	case "Style":
		return symbols.OriginStyle
	case "JavaScript":
		return symbols.OriginJavaScript
	default:
		return symbols.OriginCustom
	}
}
