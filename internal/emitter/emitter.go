// Package emitter walks the CHTL AST once (spec §4.10) and writes three
// parallel output streams: HTML, CSS, and JS. Each script block's raw
// CHTL-JS body is handed to internal/jsparser then internal/jsemitter at
// the point it's encountered, so the JS stream holds lowered JavaScript,
// not verbatim CHTL-JS source; the emitter asks its jsemitter instance
// for the shared runtime prelude exactly once, after the walk finishes.
// Emission is a single recursive descent over the already-structured
// AST rather than a second tokenization pass, since every node's shape
// is fully known by the time it reaches here.
package emitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chtl-lang/chtl/internal/ast"
	"github.com/chtl-lang/chtl/internal/cssgrammar"
	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/jsemitter"
	"github.com/chtl-lang/chtl/internal/jsparser"
	"github.com/chtl-lang/chtl/internal/loc"
	"github.com/chtl-lang/chtl/internal/symbols"
)

// voidElements is the standard HTML void element set
// (https://www.w3.org/TR/2011/WD-html-markup-20110113/syntax.html#syntax-elements).
var voidElements = map[string]bool{
	"area": true, "base": true, "br": true, "col": true, "command": true,
	"embed": true, "hr": true, "img": true, "input": true, "keygen": true,
	"link": true, "meta": true, "param": true, "source": true, "track": true,
	"wbr": true,
}

// Emitter owns the three output streams for one compile unit. It is
// never shared across goroutines (spec §5).
type Emitter struct {
	g    *symbols.GlobalMap
	h    *handler.Handler
	ns   string // current namespace path, for Use resolution
	html strings.Builder
	css  strings.Builder
	js   strings.Builder
	jse  *jsemitter.Emitter

	classCounters map[string]int // per-element-tag auto class/id counters
}

func New(g *symbols.GlobalMap, h *handler.Handler) *Emitter {
	return &Emitter{g: g, h: h, classCounters: map[string]int{}, jse: jsemitter.New(h)}
}

func (e *Emitter) errorf(span loc.Range, code loc.DiagnosticCode, msg string) {
	e.h.AppendError(&loc.ErrorWithRange{Code: code, Text: msg, Range: span})
}

// Emit walks doc and returns the accumulated HTML/CSS/JS streams, with
// the JS stream's shared runtime prelude (delegate helper, animation
// helper, vir registry) prepended exactly once.
func (e *Emitter) Emit(doc *ast.Document) (html, css, js string) {
	for _, n := range doc.Children {
		e.emitNode(n, "")
	}
	return e.html.String(), e.css.String(), e.jse.Prelude() + e.js.String()
}

// lowerScript parses and lowers one script block's raw CHTL-JS body.
func (e *Emitter) lowerScript(raw string) string {
	script := jsparser.Parse(raw, 0, e.h)
	return e.jse.EmitScript(script)
}

func (e *Emitter) emitNode(n ast.Node, parentTag string) {
	switch v := n.(type) {
	case *ast.Element:
		e.emitElement(v)
	case *ast.Text:
		e.html.WriteString(escapeHTML(v.Value))
	case *ast.OriginDecl:
		e.emitOrigin(v)
	case *ast.NamespaceDecl:
		prev := e.ns
		e.ns = joinNS(prev, v.Path)
		for _, m := range v.Members {
			e.emitNode(m, parentTag)
		}
		e.ns = prev
	case *ast.TemplateDecl, *ast.CustomDecl, *ast.ImportDecl, *ast.ConfigurationDecl:
		// declarations produce no direct output; they are consumed via Use.
	case *ast.Use:
		e.emitUse(v, parentTag)
	case *ast.ScriptBlock:
		e.js.WriteString(e.lowerScript(v.BodyFragment))
	case *ast.StyleBlock:
		if !v.Local {
			e.emitGlobalStyle(v)
		}
	default:
	}
}

func joinNS(parent, child string) string {
	if parent == "" {
		return child
	}
	return parent + "." + child
}

func escapeHTML(s string) string {
	r := strings.NewReplacer("&", "&amp;", "<", "&lt;", ">", "&gt;")
	return r.Replace(s)
}

func escapeAttr(s string) string {
	r := strings.NewReplacer("&", "&amp;", "\"", "&quot;")
	return r.Replace(s)
}

func (e *Emitter) emitElement(el *ast.Element) {
	attrs := append([]*ast.Attribute(nil), el.Attrs...)
	var localStyle *ast.StyleBlock
	var inlineClass, inlineID string

	// First pass: find the local style block (if any) so its
	// auto-generated class/id can be folded into the opening tag's
	// attribute list before we write it out.
	for _, c := range el.Children {
		if sb, ok := c.(*ast.StyleBlock); ok && sb.Local {
			localStyle = sb
			break
		}
	}
	if localStyle != nil && (len(localStyle.InlineProps) > 0 || len(localStyle.Rules) > 0) {
		inlineClass = e.autoClassName(el.Tag)
		attrs = addOrMergeClass(attrs, inlineClass)
		e.emitLocalStyle(localStyle, el.Tag, inlineClass, inlineID)
	}

	e.html.WriteByte('<')
	e.html.WriteString(el.Tag)
	for _, a := range attrs {
		e.html.WriteByte(' ')
		e.html.WriteString(a.Name)
		e.html.WriteString(`="`)
		e.html.WriteString(escapeAttr(a.Value))
		e.html.WriteByte('"')
	}
	if voidElements[el.Tag] {
		e.html.WriteString("/>")
		return
	}
	e.html.WriteByte('>')
	for _, c := range el.Children {
		switch v := c.(type) {
		case *ast.StyleBlock:
			if !v.Local {
				e.emitGlobalStyle(v)
			}
			// local style already consumed above
		case *ast.ScriptBlock:
			e.js.WriteString(e.lowerScript(v.BodyFragment))
		default:
			e.emitNode(c, el.Tag)
		}
	}
	e.html.WriteString("</")
	e.html.WriteString(el.Tag)
	e.html.WriteByte('>')
}

func addOrMergeClass(attrs []*ast.Attribute, class string) []*ast.Attribute {
	for _, a := range attrs {
		if a.Name == "class" {
			a.Value = strings.TrimSpace(a.Value + " " + class)
			return attrs
		}
	}
	return append(attrs, &ast.Attribute{Name: "class", Value: class})
}

func (e *Emitter) autoClassName(tag string) string {
	n := e.classCounters[tag]
	e.classCounters[tag] = n + 1
	return fmt.Sprintf("chtl-%s-%d", tag, n)
}

// emitLocalStyle writes the CSS for a local style block: inline
// properties become a rule keyed on the auto-generated scope class;
// nested rules are scoped the same way a bare "&" reference would be.
func (e *Emitter) emitLocalStyle(sb *ast.StyleBlock, tag, scopeClass, scopeID string) {
	if len(sb.InlineProps) > 0 {
		e.css.WriteString("." + scopeClass + "{")
		e.writeProps(sb.InlineProps)
		e.css.WriteString("}")
	}
	for _, rule := range sb.Rules {
		selector := cssgrammar.ScopeSelector(rule.Selector, scopeClass)
		e.css.WriteString(selector)
		e.css.WriteString("{")
		e.writeProps(rule.Props)
		e.css.WriteString("}")
	}
}

func (e *Emitter) emitGlobalStyle(sb *ast.StyleBlock) {
	for _, rule := range sb.Rules {
		e.css.WriteString(rule.Selector)
		e.css.WriteString("{")
		e.writeProps(rule.Props)
		e.css.WriteString("}")
	}
}

func (e *Emitter) writeProps(props []*ast.Property) {
	// later overrides of the same name win; compute the final set first
	// so declaration order in the output still reflects first-occurrence
	// position (spec §4.10: "later overrides winning").
	order := []string{}
	values := map[string]ast.Node{}
	for _, p := range props {
		if _, ok := values[p.Name]; !ok {
			order = append(order, p.Name)
		}
		values[p.Name] = p.Value
	}
	for _, name := range order {
		e.css.WriteString(name)
		e.css.WriteByte(':')
		e.css.WriteString(e.resolveValue(values[name]))
		e.css.WriteByte(';')
	}
}

func (e *Emitter) resolveValue(n ast.Node) string {
	switch v := n.(type) {
	case *ast.Text:
		return v.Value
	case *ast.VarRef:
		if v.Override != "" {
			return v.Override
		}
		sym, ok := e.g.Lookup(v.Group, symbols.TemplateVar, e.ns)
		if !ok {
			sym, ok = e.g.Lookup(v.Group, symbols.CustomVar, e.ns)
		}
		if !ok || sym.Properties == nil {
			e.errorf(n.Position(), loc.ERROR_UNRESOLVED_SYMBOL, fmt.Sprintf("unresolved variable group %q", v.Group))
			return ""
		}
		val, ok := sym.Properties[v.Key]
		if !ok {
			e.errorf(n.Position(), loc.ERROR_UNRESOLVED_SYMBOL, fmt.Sprintf("variable group %q has no key %q", v.Group, v.Key))
			return ""
		}
		return val
	default:
		return ""
	}
}

func (e *Emitter) emitOrigin(o *ast.OriginDecl) {
	switch o.OriginTag {
	case "Html":
		e.html.WriteString(o.RawText)
	case "Style":
		e.css.WriteString(o.RawText)
	case "JavaScript":
		e.js.WriteString(o.RawText)
	default:
		// user-defined origin type: caller-owned transform not part of
		// core emission; emitted as a raw JS/HTML comment marker is
		// wrong, so we simply pass the text through to JS, matching
		// custom origin types being script-adjacent plugin payloads.
		e.js.WriteString(o.RawText)
	}
}

// emitUse expands a Template or Custom use-site per spec §4.10's
// five-step algorithm: resolve, expand inherited parent first, apply own
// body, apply specialization (delete, then insert/replace in source
// order, then overrides), emit.
func (e *Emitter) emitUse(u *ast.Use, parentTag string) {
	kind, customKind := templateKindFor(u.Kind), customKindFor(u.Kind)
	var sym symbols.Symbol
	var ok bool
	if u.FromNamespace != "" {
		sym, ok = e.g.LookupFrom(u.QualifiedName, u.FromNamespace, kind)
		if !ok {
			sym, ok = e.g.LookupFrom(u.QualifiedName, u.FromNamespace, customKind)
		}
	} else {
		sym, ok = e.g.Lookup(u.QualifiedName, kind, e.ns)
		if !ok {
			sym, ok = e.g.Lookup(u.QualifiedName, customKind, e.ns)
		}
	}
	if !ok {
		e.errorf(u.Position(), loc.ERROR_UNRESOLVED_SYMBOL, fmt.Sprintf("unresolved %s %q", u.Kind, u.QualifiedName))
		return
	}

	body := e.expandBody(sym)
	if u.Specialization != nil {
		body = applySpecialization(body, u.Specialization)
	}
	switch u.Kind {
	case ast.ElementKind:
		for _, n := range body {
			e.emitNode(n, parentTag)
		}
	case ast.StyleKind:
		props := bodyAsProps(body)
		e.writeProps(props)
	case ast.VarKind:
		// Var groups aren't directly emittable; they're only consulted
		// through resolveValue. Nothing to write here.
	}
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

// expandBody resolves a symbol's own body, recursively expanding an
// inherited parent first (pre-order), per spec §4.10 step 2-3.
func (e *Emitter) expandBody(sym symbols.Symbol) []ast.Node {
	var parent []ast.Node
	if sym.InheritsFrom != "" {
		pk := bodyRefKind(sym)
		if psym, ok := e.g.LookupFrom(sym.InheritsFrom, "", pk); ok {
			parent = e.expandBody(psym)
		} else if psym, ok := e.g.Lookup(sym.InheritsFrom, pk, sym.NamespacePath); ok {
			parent = e.expandBody(psym)
		}
	}
	own := bodyOf(sym)
	return append(append([]ast.Node(nil), parent...), own...)
}

func bodyRefKind(sym symbols.Symbol) symbols.Kind { return sym.Kind }

func bodyOf(sym symbols.Symbol) []ast.Node {
	switch b := sym.BodyRef.(type) {
	case *ast.TemplateDecl:
		return b.Body
	case *ast.CustomDecl:
		return b.Body
	default:
		return nil
	}
}

func bodyAsProps(body []ast.Node) []*ast.Property {
	var out []*ast.Property
	for _, n := range body {
		if p, ok := n.(*ast.Property); ok {
			out = append(out, p)
		}
	}
	return out
}

// applySpecialization implements spec §4.10 step 4: delete targets
// first, then insert/replace in source order, then property overrides.
func applySpecialization(body []ast.Node, spec *ast.Specialization) []ast.Node {
	out := append([]ast.Node(nil), body...)
	for _, op := range spec.Ops {
		if d, ok := op.(*ast.DeleteOp); ok {
			out = deleteTargets(out, d.Targets)
		}
	}
	for _, op := range spec.Ops {
		switch v := op.(type) {
		case *ast.InsertOp:
			out = insertAt(out, v)
		case *ast.ReplaceOp:
			out = replaceAt(out, v.Target, v.Payload)
		}
	}
	for _, op := range spec.Ops {
		if ov, ok := op.(*ast.OverrideOp); ok {
			out = overrideProps(out, ov.Props)
		}
	}
	return out
}

func matchesTarget(n ast.Node, t ast.Target, idx int) bool {
	el, ok := n.(*ast.Element)
	if !ok || el.Tag != t.Tag {
		return false
	}
	if t.Index < 0 {
		return true
	}
	return idx == t.Index
}

// deleteTargets removes every node matching targets from body, then
// recurses into each surviving element's own Children so a target
// nested arbitrarily deep (e.g. a target inside a div's children, not
// a top-level sibling) is still found.
func deleteTargets(body []ast.Node, targets []ast.Target) []ast.Node {
	tagIdx := map[string]int{}
	var out []ast.Node
	for _, n := range body {
		el, ok := n.(*ast.Element)
		if !ok {
			out = append(out, n)
			continue
		}
		idx := tagIdx[el.Tag]
		tagIdx[el.Tag] = idx + 1
		deleted := false
		for _, t := range targets {
			if matchesTarget(n, t, idx) {
				deleted = true
				break
			}
		}
		if deleted {
			continue
		}
		el.Children = deleteTargets(el.Children, targets)
		out = append(out, el)
	}
	return out
}

func insertAt(body []ast.Node, op *ast.InsertOp) []ast.Node {
	switch op.Position {
	case ast.PosAtTop:
		return append(append([]ast.Node(nil), op.Payload...), body...)
	case ast.PosAtBottom:
		return append(append([]ast.Node(nil), body...), op.Payload...)
	}
	out, _ := insertAtTarget(body, op)
	return out
}

// insertAtTarget searches body for op.Target, and failing that descends
// into each child element's Children, stopping at the first match found
// (a target is expected to identify one unique insertion point).
func insertAtTarget(body []ast.Node, op *ast.InsertOp) ([]ast.Node, bool) {
	tagIdx := map[string]int{}
	for i, n := range body {
		el, ok := n.(*ast.Element)
		if !ok {
			continue
		}
		idx := tagIdx[el.Tag]
		tagIdx[el.Tag] = idx + 1
		if !matchesTarget(n, op.Target, idx) {
			continue
		}
		var out []ast.Node
		out = append(out, body[:i]...)
		switch op.Position {
		case ast.PosBefore:
			out = append(out, op.Payload...)
			out = append(out, body[i:]...)
		case ast.PosAfter:
			out = append(out, body[i])
			out = append(out, op.Payload...)
			out = append(out, body[i+1:]...)
		case ast.PosReplace:
			out = append(out, op.Payload...)
			out = append(out, body[i+1:]...)
		}
		return out, true
	}
	out := append([]ast.Node(nil), body...)
	for i, n := range out {
		el, ok := n.(*ast.Element)
		if !ok {
			continue
		}
		children, found := insertAtTarget(el.Children, op)
		if !found {
			continue
		}
		el.Children = children
		out[i] = el
		return out, true
	}
	return body, false
}

func replaceAt(body []ast.Node, target ast.Target, payload []ast.Node) []ast.Node {
	out, _ := replaceAtTarget(body, target, payload)
	return out
}

// replaceAtTarget replaces every match of target within body. If body
// has no match at all, it descends into each child element's Children
// and replaces there instead, so a target nested inside an element is
// still found.
func replaceAtTarget(body []ast.Node, target ast.Target, payload []ast.Node) ([]ast.Node, bool) {
	tagIdx := map[string]int{}
	matched := false
	var out []ast.Node
	for _, n := range body {
		el, ok := n.(*ast.Element)
		if !ok {
			out = append(out, n)
			continue
		}
		idx := tagIdx[el.Tag]
		tagIdx[el.Tag] = idx + 1
		if matchesTarget(n, target, idx) {
			out = append(out, payload...)
			matched = true
			continue
		}
		out = append(out, n)
	}
	if matched {
		return out, true
	}
	out = append([]ast.Node(nil), body...)
	for i, n := range out {
		el, ok := n.(*ast.Element)
		if !ok {
			continue
		}
		children, found := replaceAtTarget(el.Children, target, payload)
		if !found {
			continue
		}
		el.Children = children
		out[i] = el
		return out, true
	}
	return body, false
}

func overrideProps(body []ast.Node, overrides []*ast.Property) []ast.Node {
	byName := map[string]*ast.Property{}
	for _, p := range overrides {
		byName[p.Name] = p
	}
	var out []ast.Node
	applied := map[string]bool{}
	for _, n := range body {
		if p, ok := n.(*ast.Property); ok {
			if ov, has := byName[p.Name]; has {
				out = append(out, ov)
				applied[p.Name] = true
				continue
			}
		}
		out = append(out, n)
	}
	names := make([]string, 0, len(byName))
	for name := range byName {
		if !applied[name] {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	for _, name := range names {
		out = append(out, byName[name])
	}
	return out
}
