package token

// KeywordTable holds the (possibly aliased, via [Configuration][Name])
// spellings of every structural and contextual keyword, plus the set of
// registered type markers and user-defined origin tags. A fresh table is
// built per compile from the defaults below; Alias and RegisterOriginType
// mutate it. The compile pipeline (internal/dispatcher) does not apply a
// [Configuration] block to it, so the default spellings stay in effect.
type KeywordTable struct {
	Structural map[string]string // canonical name -> alias in effect
	Contextual map[string]string
	TypeMarkers map[string]bool // @Style, @Element, ... plus user @X once registered
	OriginTypes map[string]bool // user-defined [OriginType] tags
}

// DefaultStructuralKeywords are the canonical spellings recognized before
// any [Name] aliasing is applied.
var DefaultStructuralKeywords = []string{
	"[Template]", "[Custom]", "[Origin]", "[Import]", "[Namespace]",
	"[Configuration]", "[Info]", "[Export]", "[Name]", "[OriginType]",
}

// DefaultContextualKeywords are the bare-word/punctuation keywords whose
// identity depends on parser state rather than spelling alone.
var DefaultContextualKeywords = []string{
	"text", "style", "script", "inherit", "delete", "insert", "after",
	"before", "replace", "at top", "at bottom", "from", "as", "except", "vir",
}

// DefaultTypeMarkers are the built-in @-prefixed type keywords; user code
// may register additional ones via [Configuration][OriginType].
var DefaultTypeMarkers = []string{
	"@Style", "@Element", "@Var", "@Html", "@JavaScript", "@Chtl", "@CJmod", "@Config",
}

// NewKeywordTable builds the default table: every canonical keyword maps
// to itself until [Name] renames it.
func NewKeywordTable() *KeywordTable {
	t := &KeywordTable{
		Structural:  make(map[string]string, len(DefaultStructuralKeywords)),
		Contextual:  make(map[string]string, len(DefaultContextualKeywords)),
		TypeMarkers: make(map[string]bool, len(DefaultTypeMarkers)),
		OriginTypes: make(map[string]bool),
	}
	for _, k := range DefaultStructuralKeywords {
		t.Structural[k] = k
	}
	for _, k := range DefaultContextualKeywords {
		t.Contextual[k] = k
	}
	for _, k := range DefaultTypeMarkers {
		t.TypeMarkers[k] = true
	}
	return t
}

// Alias rebinds a structural or contextual keyword's surface spelling, as
// driven by [Configuration][Name] KEYWORD_X = "alias". canonical must
// already exist in the table; the alias is what the lexer will now accept
// in source text, while Data on the produced token is always normalized
// back to canonical so every downstream stage only ever sees canonical
// spellings.
func (t *KeywordTable) Alias(canonical, alias string) bool {
	if _, ok := t.Structural[canonical]; ok {
		t.Structural[canonical] = alias
		return true
	}
	if _, ok := t.Contextual[canonical]; ok {
		t.Contextual[canonical] = alias
		return true
	}
	return false
}

// RegisterOriginType records a user-defined [Origin] tag, e.g. @Vue, so the
// lexer/parser accept `[Origin] @Vue { ... }`.
func (t *KeywordTable) RegisterOriginType(tag string) {
	t.OriginTypes[tag] = true
	t.TypeMarkers[tag] = true
}

// ResolveStructural returns the canonical name for a surface spelling, or
// ("", false) if it isn't a recognized (possibly aliased) structural
// keyword.
func (t *KeywordTable) ResolveStructural(surface string) (string, bool) {
	for canonical, alias := range t.Structural {
		if alias == surface {
			return canonical, true
		}
	}
	return "", false
}

// ResolveContextual returns the canonical name for a surface spelling.
func (t *KeywordTable) ResolveContextual(surface string) (string, bool) {
	for canonical, alias := range t.Contextual {
		if alias == surface {
			return canonical, true
		}
	}
	return "", false
}

// IsTypeMarker reports whether word (including its leading '@') is a
// known type keyword.
func (t *KeywordTable) IsTypeMarker(word string) bool {
	return t.TypeMarkers[word]
}
