package scanner

import "github.com/chtl-lang/chtl/internal/loc"

// FragmentKind tags the sub-language a Fragment's text belongs to, per
// spec §3's Fragment sum type.
type FragmentKind int

const (
	CHTL FragmentKind = iota
	CHTLJS
	CSS
	JS
	HTML
	TEXT
	ORIGIN
)

func (k FragmentKind) String() string {
	switch k {
	case CHTL:
		return "CHTL"
	case CHTLJS:
		return "CHTL_JS"
	case CSS:
		return "CSS"
	case JS:
		return "JS"
	case HTML:
		return "HTML"
	case TEXT:
		return "TEXT"
	case ORIGIN:
		return "ORIGIN"
	}
	return "Unknown"
}

// Fragment is one contiguous, sub-language-typed slice of the source, as
// produced by Scan. OriginTag is only meaningful when Kind == ORIGIN.
type Fragment struct {
	Kind      FragmentKind
	OriginTag string
	Text      string
	Span      loc.Range
}
