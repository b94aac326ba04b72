// Package jsemitter lowers a CHTL-JS AST (internal/jsast) to plain
// JavaScript text per spec §4.11's canonical lowering table. It never
// re-validates CHTL-JS semantics — internal/jsparser already reported
// any diagnostics while building the tree — so this pass is a pure,
// total function from jsast.Node to a string.
package jsemitter

import (
	"fmt"
	"sort"
	"strings"

	"github.com/chtl-lang/chtl/internal/handler"
	"github.com/chtl-lang/chtl/internal/jsast"
	"github.com/chtl-lang/chtl/internal/jsparser"
)

// Emitter accumulates the lowered JS for one compile unit's script
// fragments, and tracks which runtime preludes (delegate helper,
// animation helper, vir registry) have already been written so each is
// emitted exactly once per compilation unit, per spec §4.11.
type Emitter struct {
	h *handler.Handler

	needDelegate bool
	needAnimate  bool
	needVirReg   bool
}

func New(h *handler.Handler) *Emitter {
	return &Emitter{h: h}
}

// EmitScript lowers one parsed script fragment to JS text, not
// including the shared prelude (call Prelude once after all fragments
// in the compilation unit have been emitted, so its need-flags are
// final).
func (e *Emitter) EmitScript(s *jsast.Script) string {
	var out strings.Builder
	for _, n := range s.Children {
		out.WriteString(e.emitNode(n))
	}
	return out.String()
}

// Prelude returns the runtime helpers needed by whatever has been
// emitted so far: the delegation dispatcher, the animation runtime
// entry point, and the global vir registry object. Call once, after all
// script fragments in the compilation unit have gone through
// EmitScript.
func (e *Emitter) Prelude() string {
	var out strings.Builder
	if e.needVirReg || e.needDelegate {
		out.WriteString("var __chtlVir={};")
	}
	if e.needDelegate {
		out.WriteString(delegateHelperSource)
	}
	if e.needAnimate {
		out.WriteString(animateHelperSource)
	}
	return out.String()
}

const delegateHelperSource = `function __chtlDelegate(container,targets,handlers){` +
	`Object.keys(handlers).forEach(function(evt){` +
	`container.addEventListener(evt,function(e){` +
	`var t=e.target;while(t&&t!==container){` +
	`for(var i=0;i<targets.length;i++){if(t.matches(targets[i])){handlers[evt].call(t,e);return;}}` +
	`t=t.parentNode;}});});}`

const animateHelperSource = `function __chtlAnimate(opts){` +
	`var targets=opts.target;if(!targets||typeof targets.length==='undefined'){targets=[targets];}` +
	`Array.prototype.forEach.call(targets,function(el){` +
	`if(el&&el.animate){el.animate([opts.begin||{},opts.end||{}],{` +
	`duration:opts.duration||0,easing:opts.easing||'linear',` +
	`direction:opts.direction||'normal',delay:opts.delay||0});}});` +
	`if(opts.callback){setTimeout(opts.callback,opts.duration||0);}return opts;}`

func (e *Emitter) emitNode(n jsast.Node) string {
	switch v := n.(type) {
	case *jsast.OpaqueJs:
		return v.Text
	case *jsast.EnhancedSelector:
		return e.selectorExpr(v)
	case *jsast.ArrowChain:
		return e.emitArrowChain(v)
	case *jsast.ListenBlock:
		return e.emitListenStatement(e.targetExpr(v.Target), v)
	case *jsast.DelegateBlock:
		return e.emitDelegateStatement(e.targetExpr(v.Container), v)
	case *jsast.AnimateBlock:
		return e.emitAnimateCall(v)
	case *jsast.VirDecl:
		return e.emitVirDecl(v)
	case *jsast.VirCall:
		return fmt.Sprintf("__chtlVir.%s.%s(%s)", v.Object, v.Method, v.Args)
	default:
		return ""
	}
}

// selectorExpr implements spec §4.11's selector row: tag/class selectors
// query-select-all; id selects a single element; indexed selectors index
// into the NodeList; complex (descendant/combinator) selectors always
// query-select-all.
func (e *Emitter) selectorExpr(sel *jsast.EnhancedSelector) string {
	switch sel.Kind {
	case jsast.SelID:
		return fmt.Sprintf("document.querySelector(%s)", jsStringLit(sel.Parsed))
	case jsast.SelIndexed:
		return fmt.Sprintf("document.querySelectorAll(%s)[%d]", jsStringLit(sel.Parsed), sel.Index)
	default:
		return fmt.Sprintf("document.querySelectorAll(%s)", jsStringLit(sel.Parsed))
	}
}

func jsStringLit(s string) string {
	return "'" + strings.NewReplacer(`\`, `\\`, `'`, `\'`).Replace(s) + "'"
}

// targetExpr lowers a listen/delegate/animate target, which may be an
// enhanced selector, a plain identifier carried as opaque text, or
// (for a vir-declared virtual object) nil, meaning "assign to the name
// being declared" — callers substitute their own placeholder in that
// case.
func (e *Emitter) targetExpr(n jsast.Node) string {
	if n == nil {
		return ""
	}
	return e.emitNode(n)
}

func (e *Emitter) emitArrowChain(a *jsast.ArrowChain) string {
	expr := e.targetExpr(a.Head)
	for _, m := range a.Methods {
		expr = fmt.Sprintf("%s.%s(%s)", expr, m.Name, lowerInline(m.Args, e))
	}
	return expr
}

// emitListenStatement lowers `X->listen({e: h, ...})` to an inlined
// forEach wiring, per spec §4.11's listen row, scoping the target
// expression in an IIFE so it is evaluated exactly once even when it is
// itself a querySelectorAll(...) call.
func (e *Emitter) emitListenStatement(targetExpr string, lb *jsast.ListenBlock) string {
	keys := lb.Order
	var obj strings.Builder
	obj.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			obj.WriteByte(',')
		}
		obj.WriteString(k)
		obj.WriteByte(':')
		obj.WriteString(lowerInline(lb.Handlers[k], e))
	}
	obj.WriteByte('}')
	keyList := make([]string, len(keys))
	for i, k := range keys {
		keyList[i] = jsStringLit(k)
	}
	return fmt.Sprintf("(function(t){var h=%s;[%s].forEach(function(k){t.addEventListener(k,h[k]);});})(%s);",
		obj.String(), strings.Join(keyList, ","), targetExpr)
}

func (e *Emitter) emitDelegateStatement(containerExpr string, db *jsast.DelegateBlock) string {
	e.needDelegate = true
	keys := db.Order
	sort.Strings(db.Targets)
	var obj strings.Builder
	obj.WriteByte('{')
	for i, k := range keys {
		if i > 0 {
			obj.WriteByte(',')
		}
		obj.WriteString(k)
		obj.WriteString(":function(e){return (")
		obj.WriteString(lowerInline(db.Handlers[k], e))
		obj.WriteString(").call(this,e);}")
	}
	obj.WriteByte('}')
	targets := make([]string, len(db.Targets))
	for i, t := range db.Targets {
		targets[i] = jsStringLit(t)
	}
	return fmt.Sprintf("__chtlDelegate(%s,[%s],%s);", containerExpr, strings.Join(targets, ","), obj.String())
}

func (e *Emitter) emitAnimateCall(ab *jsast.AnimateBlock) string {
	e.needAnimate = true
	fields := []string{}
	if ab.Target != nil {
		fields = append(fields, "target:"+e.targetExpr(ab.Target))
	}
	add := func(name, raw string) {
		if raw != "" {
			fields = append(fields, name+":"+lowerInline(raw, e))
		}
	}
	add("duration", ab.Duration)
	add("easing", ab.Easing)
	add("begin", ab.Begin)
	add("end", ab.End)
	add("loop", ab.Loop)
	add("direction", ab.Direction)
	add("delay", ab.Delay)
	add("callback", ab.Callback)
	if len(ab.When) > 0 {
		steps := make([]string, len(ab.When))
		for i, w := range ab.When {
			steps[i] = lowerInline(w, e)
		}
		fields = append(fields, "when:["+strings.Join(steps, ",")+"]")
	}
	extraKeys := make([]string, 0, len(ab.Extra))
	for k := range ab.Extra {
		extraKeys = append(extraKeys, k)
	}
	sort.Strings(extraKeys)
	for _, k := range extraKeys {
		add(k, ab.Extra[k])
	}
	return fmt.Sprintf("__chtlAnimate({%s});", strings.Join(fields, ","))
}

// emitVirDecl lowers `vir Name = listen(...)|delegate(...)|animate(...);`
// into a registry assignment, so later `Name->m(...)` call sites (parsed
// as VirCall, since the parser already knows the declared name) resolve
// through __chtlVir, preserving object identity across call sites per
// spec §4.11's vir row.
func (e *Emitter) emitVirDecl(v *jsast.VirDecl) string {
	e.needVirReg = true
	switch body := v.Body.(type) {
	case *jsast.ListenBlock:
		target := e.targetExpr(body.Target)
		if target == "" {
			target = "{}"
		}
		assign := fmt.Sprintf("__chtlVir.%s=%s;", v.Name, target)
		wiring := e.emitListenStatement(fmt.Sprintf("__chtlVir.%s", v.Name), body)
		return assign + wiring
	case *jsast.DelegateBlock:
		e.needDelegate = true
		container := e.targetExpr(body.Container)
		if container == "" {
			container = "{}"
		}
		assign := fmt.Sprintf("__chtlVir.%s=%s;", v.Name, container)
		wiring := e.emitDelegateStatement(fmt.Sprintf("__chtlVir.%s", v.Name), body)
		return assign + wiring
	case *jsast.AnimateBlock:
		call := e.emitAnimateCall(body)
		// emitAnimateCall ends with ";", so prefixing the assignment to the
		// call yields one complete statement.
		return fmt.Sprintf("__chtlVir.%s=%s", v.Name, call)
	default:
		return fmt.Sprintf("__chtlVir.%s=undefined;", v.Name)
	}
}

// lowerInline re-parses a raw JS fragment (a handler body, an animate
// option value) that may itself contain enhanced selectors or arrow
// chains — spec §4.11: animate "passes the object verbatim after
// evaluating nested enhanced selectors" — and lowers those while leaving
// everything else untouched.
func lowerInline(raw string, parent *Emitter) string {
	if !strings.Contains(raw, "{{") {
		return raw
	}
	script := jsparser.Parse(raw, 0, parent.h)
	var out strings.Builder
	for _, n := range script.Children {
		out.WriteString(parent.emitNode(n))
	}
	return out.String()
}
