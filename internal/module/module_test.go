package module

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestWriteReadRoundTripUncompressed(t *testing.T) {
	a := &Archive{Magic: MagicCMOD, Version: CurrentVersion, Files: []File{
		{Name: "info.chtl", Data: []byte(`[Info]
name = "demo";
`)},
		{Name: "src/button.chtl", Data: []byte(`[Template] @Element Button {}`)},
	}}
	var buf bytes.Buffer
	if err := Write(&buf, a, false); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if got.Magic != MagicCMOD || len(got.Files) != 2 {
		t.Fatalf("unexpected archive: %+v", got)
	}
}

func TestWriteReadRoundTripCompressed(t *testing.T) {
	payload := bytes.Repeat([]byte("hello chtl "), 50)
	a := &Archive{Magic: MagicCJMD, Version: CurrentVersion, Files: []File{
		{Name: "info.chtl", Data: payload},
	}}
	var buf bytes.Buffer
	if err := Write(&buf, a, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	if !bytes.Equal(got.Files[0].Data, payload) {
		t.Fatalf("payload did not round-trip through compression")
	}
}

func TestReadRejectsBadMagic(t *testing.T) {
	_, err := Read(bytes.NewReader([]byte("NOTACHTL" + "\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00\x00")))
	if _, ok := err.(*ErrBadArchive); !ok {
		t.Fatalf("expected ErrBadArchive, got %v", err)
	}
}

func TestReadDetectsChecksumTampering(t *testing.T) {
	a := &Archive{Magic: MagicCMOD, Version: CurrentVersion, Files: []File{{Name: "x", Data: []byte("abc")}}}
	var buf bytes.Buffer
	_ = Write(&buf, a, false)
	corrupted := buf.Bytes()
	// Flip a byte inside the payload (last byte of the archive).
	corrupted[len(corrupted)-1] ^= 0xFF
	_, err := Read(bytes.NewReader(corrupted))
	if _, ok := err.(*ErrChecksum); !ok {
		t.Fatalf("expected ErrChecksum, got %v", err)
	}
}

func TestReadRejectsNewerVersion(t *testing.T) {
	a := &Archive{Magic: MagicCMOD, Version: CurrentVersion + 1}
	var buf bytes.Buffer
	_ = Write(&buf, a, false)
	_, err := Read(&buf)
	if _, ok := err.(*ErrUnsupportedVersion); !ok {
		t.Fatalf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestParseInfoExtractsInfoAndExportBlocks(t *testing.T) {
	text := `[Info]
name = "ui";
version = "1.0.0";
author = "someone";

[Export]
@Element = Box, Card;
@Style = Theme;
`
	info, export := ParseInfo(text)
	if info.Name != "ui" || info.Version != "1.0.0" || info.Author != "someone" {
		t.Fatalf("unexpected info: %+v", info)
	}
	if len(export.ByKind["@Element"]) != 2 || export.ByKind["@Element"][0] != "Box" {
		t.Fatalf("unexpected export: %+v", export.ByKind)
	}
}

func TestLoadSplitsSourcesUnderSrcPrefix(t *testing.T) {
	a := &Archive{Magic: MagicCMOD, Version: CurrentVersion, Files: []File{
		{Name: "info.chtl", Data: []byte(`[Info]
name = "ui";
`)},
		{Name: "src/button.chtl", Data: []byte("content")},
	}}
	loaded, err := Load(a)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Sources["button.chtl"] != "content" {
		t.Fatalf("expected source keyed without src/ prefix, got %+v", loaded.Sources)
	}
	if loaded.Info.Name != "ui" {
		t.Fatalf("unexpected info: %+v", loaded.Info)
	}
}

// TestPackLoadPrintMyloveFixtureRoundTrips packs the printmylove CJMOD
// example (examples/cjmod/printmylove) into an in-memory archive and
// loads it back, exercising the full CMOD/CJMOD directory layout spec
// §4.13 describes against a realistic non-trivial plugin rather than a
// one-line stub.
func TestPackLoadPrintMyloveFixtureRoundTrips(t *testing.T) {
	root := filepath.Join("..", "..", "examples", "cjmod", "printmylove")
	var files []File
	err := filepath.Walk(root, func(path string, fi os.FileInfo, err error) error {
		if err != nil || fi.IsDir() {
			return err
		}
		rel, err := filepath.Rel(root, path)
		if err != nil {
			return err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return err
		}
		files = append(files, File{Name: filepath.ToSlash(rel), Data: data})
		return nil
	})
	if err != nil {
		t.Fatalf("walking fixture: %v", err)
	}

	a := &Archive{Magic: MagicCJMD, Version: CurrentVersion, Files: files}
	var buf bytes.Buffer
	if err := Write(&buf, a, true); err != nil {
		t.Fatalf("write: %v", err)
	}
	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	loaded, err := Load(got)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if loaded.Info.Name != "printmylove" {
		t.Fatalf("unexpected info: %+v", loaded.Info)
	}
	if len(loaded.Info.Dependencies) != 0 {
		t.Fatalf("expected no dependencies, got %+v", loaded.Info.Dependencies)
	}
	if loaded.Export.ByKind["@CJMOD"] == nil || loaded.Export.ByKind["@CJMOD"][0] != "printMylove" {
		t.Fatalf("unexpected export: %+v", loaded.Export.ByKind)
	}
	src, ok := loaded.Sources["printmylove.go"]
	if !ok || !strings.Contains(src, "ScanKeyword(\"printMylove\"") {
		t.Fatalf("expected printmylove.go source to be preserved, got %+v", loaded.Sources)
	}
}
