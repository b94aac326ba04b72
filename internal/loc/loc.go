// Package loc carries source positions through every stage of the CHTL
// pipeline: tokens, AST nodes, symbols and diagnostics all trace back to a
// Loc or a Range so that a compile error can always point at real source.
package loc

// Loc is the 0-based byte offset of a position from the start of the file.
type Loc struct {
	Start int
}

// Range is a Loc plus a length in bytes, covering a span of source text.
type Range struct {
	Loc Loc
	Len int
}

// End returns the exclusive end offset of the range.
func (r Range) End() int {
	return r.Loc.Start + r.Len
}

// Span is a half-open [Start, End) range into a buffer. Unlike Range it is
// not anchored to any particular file; it is the unit the scanner and both
// lexers use while slicing a buffer.
type Span struct {
	Start, End int
}

// Len reports the number of bytes the span covers.
func (s Span) Len() int {
	return s.End - s.Start
}

// Pos is a human-facing 1-based line and column, the form diagnostics print.
type Pos struct {
	Line, Col int
}
