// +build js,wasm

// Command chtl-wasm exposes Compile to a hosting JS page for in-browser
// compilation via js.Global().Set, marshaling results through
// vert.ValueOf.
package main

import (
	"syscall/js"

	"github.com/chtl-lang/chtl/internal/dispatcher"
	"github.com/norunners/vert"
)

func main() {
	js.Global().Set("__chtl_compile", js.FuncOf(Compile))
	<-make(chan bool)
}

func jsString(j js.Value) string {
	if j.IsUndefined() || j.IsNull() {
		return ""
	}
	return j.String()
}

// CompileResult mirrors dispatcher.Result with js struct tags so vert
// can marshal it straight into a JS object.
type CompileResult struct {
	HTML        string   `js:"html"`
	CSS         string   `js:"css"`
	JS          string   `js:"js"`
	Diagnostics []string `js:"diagnostics"`
	OK          bool     `js:"ok"`
}

func Compile(this js.Value, args []js.Value) interface{} {
	source := jsString(args[0])
	filename := "<stdin>"
	if len(args) > 1 {
		if f := jsString(args[1]); f != "" {
			filename = f
		}
	}

	res, h := dispatcher.Compile(source, filename)
	diags := make([]string, 0, len(h.Diagnostics()))
	for _, d := range h.Diagnostics() {
		diags = append(diags, d.String())
	}

	if res == nil {
		return vert.ValueOf(CompileResult{Diagnostics: diags, OK: false})
	}
	return vert.ValueOf(CompileResult{HTML: res.HTML, CSS: res.CSS, JS: res.JS, Diagnostics: diags, OK: true})
}
