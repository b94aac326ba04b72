// Package cjmod implements the CJMOD plugin protocol and scanner
// policies of spec §4.13/§4.14: syntaxAnalys/bind/transform/match/result
// for declaring and evaluating a new CHTL-JS syntax pattern, and a
// policy-stack scanner (NORMAL/COLLECT/SKIP) that a plugin's scanKeyword
// handler drives via peekKeyword and policyChangeBegin/End. Slots use
// plain func(string) string callbacks rather than a generic type-erased
// argument, since every slot value is ultimately just text substituted
// into the emitted JS fragment.
package cjmod

import (
	"strings"
)

// Policy is the scanner's current tokenizing mode (spec §4.14).
type Policy int

const (
	Normal Policy = iota
	Collect
	Skip
)

func (p Policy) String() string {
	switch p {
	case Normal:
		return "NORMAL"
	case Collect:
		return "COLLECT"
	case Skip:
		return "SKIP"
	default:
		return "UNKNOWN"
	}
}

// Slot is one `$` placeholder (or named capture) in a syntax pattern.
// Bind registers a preprocessor that runs at match time, before
// Transform; Transform registers a function applied after the slot has
// a concrete value and must itself produce the JS fragment for that
// slot — the delayed-evaluation discipline spec §4.13 calls essential.
type Slot struct {
	Name          string
	IsPlaceholder bool

	bindFn      func(string) string
	transformFn func(string) string
	raw         string
	transformed string
	matched     bool
}

func (s *Slot) Bind(f func(string) string) { s.bindFn = f }

func (s *Slot) Transform(f func(string) string) { s.transformFn = f }

// Match applies bind then transform, in that order, per spec §4.13
// point 5.
func (s *Slot) Match(value string) {
	s.raw = value
	v := value
	if s.bindFn != nil {
		v = s.bindFn(v)
	}
	if s.transformFn != nil {
		v = s.transformFn(v)
	}
	s.transformed = v
	s.matched = true
}

// Value returns the slot's final JS fragment: the transformed value if
// Match has run, otherwise the slot's placeholder name ($0, $1, ...).
func (s *Slot) Value() string {
	if s.matched {
		return s.transformed
	}
	return s.Name
}

// segment is either literal pattern text or a reference to one Slot,
// forming an ordered template that Result() walks to rebuild the
// fragment.
type segment struct {
	literal string
	slot    *Slot
}

// Pattern is the structured template syntaxAnalys returns: literal text
// interleaved with named slots, in source order.
type Pattern struct {
	raw      string
	segments []segment
	slots    []*Slot
	byName   map[string]*Slot
}

// SyntaxAnalys parses a pattern like `"printMylove({ url: $, mode: $ });"`
// into a Pattern with one Slot per `$` placeholder, numbered by
// positional order ($0, $1, ...) (spec §4.13 point 1). Every other
// character, parentheses and braces included, is kept as literal text.
// ignoreChars is accepted but has no effect on the result: `$` is always
// a slot and no character is dropped from the literal segments.
func SyntaxAnalys(pattern string, ignoreChars string) *Pattern {
	p := &Pattern{raw: pattern, byName: map[string]*Slot{}}
	var lit strings.Builder
	flush := func() {
		if lit.Len() > 0 {
			p.segments = append(p.segments, segment{literal: lit.String()})
			lit.Reset()
		}
	}
	n := 0
	for i := 0; i < len(pattern); i++ {
		c := pattern[i]
		if c == '$' {
			flush()
			name := "$" + itoa(n)
			n++
			s := &Slot{Name: name, IsPlaceholder: true}
			p.segments = append(p.segments, segment{slot: s})
			p.slots = append(p.slots, s)
			p.byName[name] = s
			continue
		}
		lit.WriteByte(c)
	}
	flush()
	_ = ignoreChars
	return p
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	digits := []byte{}
	for n > 0 {
		digits = append([]byte{byte('0' + n%10)}, digits...)
		n /= 10
	}
	return string(digits)
}

// Slots returns every placeholder slot, in positional order.
func (p *Pattern) Slots() []*Slot { return p.slots }

// Slot returns the nth positional placeholder ($0, $1, ...).
func (p *Pattern) Slot(i int) *Slot {
	if i < 0 || i >= len(p.slots) {
		return nil
	}
	return p.slots[i]
}

// Bind registers a preprocessor on the named slot ("$0", "$1", ...).
func (p *Pattern) Bind(name string, f func(string) string) {
	if s, ok := p.byName[name]; ok {
		s.Bind(f)
	}
}

// Transform registers a transform on the named slot.
func (p *Pattern) Transform(name string, f func(string) string) {
	if s, ok := p.byName[name]; ok {
		s.Transform(f)
	}
}

// Match applies bind+transform for the named slot with a concrete value
// captured at scan time.
func (p *Pattern) Match(name string, value string) {
	if s, ok := p.byName[name]; ok {
		s.Match(value)
	}
}

// Result concatenates literal text with each slot's resolved value, in
// source order, per spec §4.13 point 5.
func (p *Pattern) Result() string {
	var out strings.Builder
	for _, seg := range p.segments {
		if seg.slot != nil {
			out.WriteString(seg.slot.Value())
		} else {
			out.WriteString(seg.literal)
		}
	}
	return out.String()
}
