package module

import (
	"strings"

	"github.com/chtl-lang/chtl/internal/helpers"
)

// Info is the `[Info]` block of a module's info.chtl (spec §4.13).
type Info struct {
	Name            string
	Version         string
	Author          string
	Description     string
	Dependencies    []string
	License         string
	MinCHTLVersion  string
	MaxCHTLVersion  string
}

// Export lists symbol names grouped by the type keyword a module's
// info.chtl declares them under (`@Element`, `@Style`, `@Var`, ...).
type Export struct {
	ByKind map[string][]string
}

// ParseInfo reads an info.chtl file's text and returns its [Info] and
// [Export] blocks. It accepts the same `key = "value";` shape
// internal/config reads for [Configuration] blocks, plus comma-separated
// export lists.
func ParseInfo(text string) (Info, Export) {
	info := Info{}
	export := Export{ByKind: map[string][]string{}}
	section := ""
	cleaned, err := helpers.RemoveComments(text)
	if err != nil {
		// Unterminated block comment: fall back to the raw text rather
		// than silently dropping everything after it.
		cleaned = text
	}
	for _, rawLine := range strings.Split(cleaned, "\n") {
		line := strings.TrimSpace(rawLine)
		if line == "" {
			continue
		}
		if strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]") {
			section = strings.TrimSuffix(strings.TrimPrefix(line, "["), "]")
			continue
		}
		line = strings.TrimSuffix(line, ";")
		key, value, ok := splitKV(line)
		if !ok {
			continue
		}
		switch section {
		case "Info":
			applyInfoField(&info, key, value)
		case "Export":
			export.ByKind[key] = splitList(value)
		}
	}
	return info, export
}

func splitKV(line string) (key, value string, ok bool) {
	i := strings.Index(line, "=")
	if i < 0 {
		return "", "", false
	}
	key = strings.TrimSpace(line[:i])
	value = strings.TrimSpace(line[i+1:])
	value = strings.Trim(value, `"`)
	return key, value, true
}

func splitList(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(strings.Trim(p, `"`))
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func applyInfoField(info *Info, key, value string) {
	switch key {
	case "name":
		info.Name = value
	case "version":
		info.Version = value
	case "author":
		info.Author = value
	case "description":
		info.Description = value
	case "dependencies":
		info.Dependencies = splitList(value)
	case "license":
		info.License = value
	case "min_chtl_version":
		info.MinCHTLVersion = value
	case "max_chtl_version":
		info.MaxCHTLVersion = value
	}
}

// Loaded is the result of loading a CMOD/CJMOD archive: its declared
// metadata plus every source file keyed by its in-archive path, ready
// to be parsed and registered under the declared namespace by the
// caller (spec §4.13: "parse all source files in unspecified order,
// then link under the declared namespace").
type Loaded struct {
	Info    Info
	Export  Export
	Sources map[string]string // path (relative to src/) -> file content
}

// Load verifies and unpacks an archive already read by Read, extracting
// info.chtl and every file under src/ (sub-modules under modules/ are
// returned as-is too, under their own path, for the caller to recurse
// into).
func Load(a *Archive) (*Loaded, error) {
	l := &Loaded{Sources: map[string]string{}}
	var infoText string
	haveInfo := false
	for _, f := range a.Files {
		switch {
		case f.Name == "info.chtl":
			infoText = string(f.Data)
			haveInfo = true
		case strings.HasPrefix(f.Name, "src/"):
			l.Sources[strings.TrimPrefix(f.Name, "src/")] = string(f.Data)
		case strings.HasPrefix(f.Name, "modules/"):
			l.Sources[f.Name] = string(f.Data)
		}
	}
	if !haveInfo {
		return nil, &ErrBadArchive{Reason: "missing info.chtl"}
	}
	l.Info, l.Export = ParseInfo(infoText)
	return l, nil
}
