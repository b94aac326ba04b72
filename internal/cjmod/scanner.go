package cjmod

import "strings"

// Token is one whitespace/punctuation-delimited unit the plugin scanner
// hands to peekKeyword — deliberately coarser than internal/jslexer's
// token kinds, since a plugin only ever needs "the text around my
// keyword", never a typed token stream.
type Token struct {
	Text  string
	Start int
	End   int
}

// policyFrame is one entry of the policy stack (spec §4.14: "policies
// form a stack so nested COLLECTs work").
type policyFrame struct {
	policy  Policy
	trigger string
	start   int // token index where COLLECT/SKIP began
}

// Scanner is the outer CHTL-JS fragment scanner a CJMOD plugin rides on
// top of: it tokenizes once, then lets registered keyword handlers
// inspect and consume tokens via PeekKeyword and the policy stack.
type Scanner struct {
	src    string
	tokens []Token

	handlers map[string]func(s *Scanner, at int)
	stack    []policyFrame
	cur      int // index of the token currently being dispatched
}

func NewScanner(src string) *Scanner {
	s := &Scanner{src: src, handlers: map[string]func(s *Scanner, at int){}}
	s.tokenize()
	return s
}

func (s *Scanner) tokenize() {
	i := 0
	n := len(s.src)
	for i < n {
		c := s.src[i]
		switch {
		case isSpaceByte(c):
			i++
		case isIdentStartByte(c):
			start := i
			for i < n && isIdentByte(s.src[i]) {
				i++
			}
			s.tokens = append(s.tokens, Token{Text: s.src[start:i], Start: start, End: i})
		case c == '"' || c == '\'' || c == '`':
			start := i
			quote := c
			i++
			for i < n && s.src[i] != quote {
				if s.src[i] == '\\' {
					i++
				}
				i++
			}
			if i < n {
				i++
			}
			s.tokens = append(s.tokens, Token{Text: s.src[start:i], Start: start, End: i})
		default:
			start := i
			i++
			s.tokens = append(s.tokens, Token{Text: s.src[start:i], Start: start, End: i})
		}
	}
}

func isSpaceByte(c byte) bool { return c == ' ' || c == '\t' || c == '\n' || c == '\r' }
func isIdentStartByte(c byte) bool {
	return c == '_' || c == '$' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}
func isIdentByte(c byte) bool { return isIdentStartByte(c) || (c >= '0' && c <= '9') }

// ScanKeyword registers a handler fired every time the scanner's main
// run encounters the exact token `keyword` while the active policy is
// NORMAL, and also under COLLECT/SKIP when `keyword` is the active
// frame's end trigger (spec §4.13 point 4 / §4.14).
func (s *Scanner) ScanKeyword(keyword string, handler func(s *Scanner, at int)) {
	s.handlers[keyword] = handler
}

// PeekKeyword returns the token at `offset` tokens away from the one
// currently being dispatched (negative looks backward), or "" past
// either end — spec §4.13 point 4's "peekKeyword(offset)".
func (s *Scanner) PeekKeyword(offset int) string {
	idx := s.cur + offset
	if idx < 0 || idx >= len(s.tokens) {
		return ""
	}
	return s.tokens[idx].Text
}

// PolicyChangeBegin pushes a new policy frame. `trigger` names the
// keyword that will end it (the one whose handler calls
// PolicyChangeEnd); while the frame is active, Run dispatches only that
// trigger's handler — every other registered keyword is collected (for
// COLLECT) or dropped (for SKIP) rather than fired, matching spec
// §4.14's "accumulate... until... end trigger" / "drop tokens until an
// end trigger".
func (s *Scanner) PolicyChangeBegin(trigger string, policy Policy) {
	s.stack = append(s.stack, policyFrame{policy: policy, trigger: trigger, start: s.cur + 1})
}

// PolicyChangeEnd pops the policy stack back to NORMAL (or the next
// frame down, for nested COLLECTs) and, for a COLLECT frame, returns the
// raw source text that was accumulated between begin and end.
func (s *Scanner) PolicyChangeEnd(trigger string, policy Policy) string {
	if len(s.stack) == 0 {
		return ""
	}
	top := s.stack[len(s.stack)-1]
	s.stack = s.stack[:len(s.stack)-1]
	if top.policy != policy || top.trigger != trigger {
		return ""
	}
	if top.policy != Collect {
		return ""
	}
	if top.start > s.cur || s.cur >= len(s.tokens) {
		return ""
	}
	startByte := s.tokens[top.start].Start
	endByte := s.tokens[s.cur].Start
	return s.src[startByte:endByte]
}

// activePolicy reports the innermost active frame, or (NORMAL, "") if
// the stack is empty.
func (s *Scanner) activePolicy() (Policy, string) {
	if len(s.stack) == 0 {
		return Normal, ""
	}
	top := s.stack[len(s.stack)-1]
	return top.policy, top.trigger
}

// Run dispatches every token whose text has a registered handler, in
// source order. While a COLLECT/SKIP frame is active, only the frame's
// own end-trigger keyword is dispatched — every other registered
// keyword is suppressed until that trigger fires and pops the frame.
func (s *Scanner) Run() {
	for i, tok := range s.tokens {
		s.cur = i
		if policy, trigger := s.activePolicy(); policy != Normal && tok.Text != trigger {
			continue
		}
		if h, ok := s.handlers[tok.Text]; ok {
			h(s, i)
		}
	}
}

// Remainder returns the raw source text from `at`'s token through the
// end of the fragment, for handlers that need to re-scan ahead
// themselves (e.g. to call SyntaxAnalys's own matching logic on the
// trailing call expression).
func (s *Scanner) Remainder(at int) string {
	if at < 0 || at >= len(s.tokens) {
		return ""
	}
	return s.src[s.tokens[at].Start:]
}

// TrimmedRemainder is Remainder with surrounding whitespace removed,
// convenient for handlers that expect to see `(` immediately.
func (s *Scanner) TrimmedRemainder(at int) string {
	return strings.TrimSpace(s.Remainder(at))
}
