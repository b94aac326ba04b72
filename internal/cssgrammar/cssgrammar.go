// Package cssgrammar resolves CHTL local-style selectors against an
// auto-generated scope class at emit time (spec §4.10's "auto class/id
// generation"). It walks selector text with tdewolff/parse/v2/css's
// grammar tokenizer rather than string-splicing, so parenthesized
// pseudo-functions (":not(...)", ":where(...)") and attribute brackets
// never get a stray substitution inside them. Scoped to a single
// selector prelude rather than a whole stylesheet, since CHTL's parser
// has already separated selector from declarations.
package cssgrammar

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/tdewolff/parse/v2/css"
)

// ScopeSelector rewrites a CHTL local-style-rule selector so that each
// "&" contextual reference becomes the element's auto-generated scope
// class (so "&:hover" -> ".chtl-div-0:hover"). A selector with no "&" is
// returned unchanged; no scope prefix is added to it (spec §4.10: only
// the anonymous/contextual selector gets scoped).
func ScopeSelector(selector, scopeClass string) string {
	if selector == "" {
		return selector
	}
	p := css.NewParser(bytes.NewBufferString(selector+"{}"), false)
	var out strings.Builder
	for {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			if len(data) > 0 {
				out.Write(data)
			}
			break
		}
		if gt != css.BeginRulesetGrammar && gt != css.QualifiedRuleGrammar {
			continue
		}
		for _, v := range p.Values() {
			s := string(v.Data)
			if s == "{" {
				break
			}
			if s == "&" {
				out.WriteString("." + scopeClass)
				continue
			}
			out.WriteString(s)
		}
		break
	}
	result := out.String()
	if result == "" {
		return selector
	}
	return result
}

// ValidateDeclaration runs a single "name: value;" CHTL style property
// through the CSS grammar tokenizer purely to catch malformed values
// early (spec §1's "third-party CSS/JS grammar back-ends used for
// validating verbatim blocks; the core treats them as opaque
// validators"); it never rewrites the value.
func ValidateDeclaration(name, value string) error {
	src := fmt.Sprintf("x{%s:%s}", name, value)
	p := css.NewParser(bytes.NewBufferString(src), false)
	for {
		gt, _, data := p.Next()
		if gt == css.ErrorGrammar {
			if len(data) > 0 {
				return fmt.Errorf("invalid CSS declaration %q: %s", name+": "+value, string(data))
			}
			return nil
		}
	}
}
