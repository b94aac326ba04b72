package scanner

import (
	"io"
	"strings"
	"testing"

	"github.com/chtl-lang/chtl/internal/token"
)

func reassemble(frags []Fragment) string {
	var b strings.Builder
	for _, f := range frags {
		b.WriteString(f.Text)
	}
	return b.String()
}

func TestScanConcatenationReproducesSource(t *testing.T) {
	src := `div {
    style {
        color: red;
        &:hover { color: blue; }
    }
    script {
        {{.box}}->listen({ click: () => { x++; } });
    }
    text { "hi" }
}`
	s := New(token.NewKeywordTable(), nil)
	frags := s.Scan(src)
	if got := reassemble(frags); got != src {
		t.Fatalf("fragments did not reassemble source:\nwant: %q\ngot:  %q", src, got)
	}
}

func TestScanSplitsStyleAndScript(t *testing.T) {
	src := `div { style { color: red; } script { let x = 1; } }`
	s := New(token.NewKeywordTable(), nil)
	frags := s.Scan(src)

	var kinds []FragmentKind
	for _, f := range frags {
		kinds = append(kinds, f.Kind)
	}
	wantHasCSS, wantHasJS := false, false
	for _, f := range frags {
		if f.Kind == CSS {
			wantHasCSS = true
		}
		if f.Kind == JS {
			wantHasJS = true
		}
	}
	if !wantHasCSS || !wantHasJS {
		t.Fatalf("expected CSS and JS fragments, got kinds %v", kinds)
	}
}

func TestScanOriginVerbatim(t *testing.T) {
	src := `[Origin] @Html { <b>raw</b> }`
	s := New(token.NewKeywordTable(), nil)
	frags := s.Scan(src)
	found := false
	for _, f := range frags {
		if f.Kind == ORIGIN {
			found = true
			if f.OriginTag != "Html" {
				t.Fatalf("expected origin tag Html, got %q", f.OriginTag)
			}
			if strings.TrimSpace(f.Text) != "<b>raw</b>" {
				t.Fatalf("unexpected origin text %q", f.Text)
			}
		}
	}
	if !found {
		t.Fatal("expected an ORIGIN fragment")
	}
}

func TestScanDoesNotSplitInsideStringOrIdentifier(t *testing.T) {
	src := `div { text { "style { not a real block }" } stylesheet { ignored } }`
	s := New(token.NewKeywordTable(), nil)
	frags := s.Scan(src)
	for _, f := range frags {
		if f.Kind == CSS {
			t.Fatalf("did not expect a CSS fragment from %q, got one: %+v", src, frags)
		}
	}
}

// TestWindowElasticityNeverStopsMidConstruct is the property test spec §9
// calls for: with artificially small windows over the same source,
// WindowEnd never returns a cut point inside a construct, because it
// always grows past an incomplete tail before handing back control.
func TestWindowElasticityNeverStopsMidConstruct(t *testing.T) {
	src := []byte(`div { script { {{.box}}->listen({click:()=>{}}); } }`)
	for pos := 0; pos < len(src); pos++ {
		end := WindowEnd(src, pos)
		if end < len(src) && incompleteTail(src[pos:end]) {
			t.Fatalf("WindowEnd(%d) = %d still ends mid-construct", pos, end)
		}
	}
}

type chunkedReader struct {
	data []byte
	pos  int
	n    int
}

func (c *chunkedReader) Read(p []byte) (int, error) {
	if c.pos >= len(c.data) {
		return 0, io.EOF
	}
	max := c.n
	if max > len(p) {
		max = len(p)
	}
	remaining := len(c.data) - c.pos
	if max > remaining {
		max = remaining
	}
	copy(p, c.data[c.pos:c.pos+max])
	c.pos += max
	return max, nil
}

func TestScanReaderMatchesScanRegardlessOfChunkSize(t *testing.T) {
	src := `div {
    style { color: red; }
    script { {{.box}}->listen({click: () => { x++; }}); }
    [Origin] @Html { <p>hi</p> }
}`
	want := New(token.NewKeywordTable(), nil).Scan(src)
	for _, chunk := range []int{1, 3, 7, 64, 4096} {
		s := New(token.NewKeywordTable(), nil)
		got, err := s.ScanReader(&chunkedReader{data: []byte(src), n: chunk})
		if err != nil {
			t.Fatalf("chunk %d: %v", chunk, err)
		}
		if len(got) != len(want) {
			t.Fatalf("chunk %d: fragment count mismatch: got %d want %d", chunk, len(got), len(want))
		}
		for i := range got {
			if got[i].Kind != want[i].Kind || got[i].Text != want[i].Text {
				t.Fatalf("chunk %d: fragment %d mismatch: got %+v want %+v", chunk, i, got[i], want[i])
			}
		}
	}
}
