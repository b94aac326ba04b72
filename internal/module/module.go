// Package module implements the CMOD/CJMOD binary archive format of
// spec §4.13/§6: a minimal, bit-level-fixed container for distributing
// CHTL source modules (CMOD) or compiled CHTL-JS plugins (CJMOD), plus
// the manager that loads one (verify magic/checksum, parse info, link
// under a namespace). A versioned container with a per-file table,
// magic/version header, and optional per-file compression, wire-exact
// per spec §6.
package module

import (
	"bytes"
	"encoding/binary"
	"fmt"
	"hash/crc32"
	"io"
	"sort"

	"github.com/andybalholm/brotli"
)

const (
	MagicCMOD = "CHTLCMOD"
	MagicCJMD = "CHTLCJMD"

	CurrentVersion uint32 = 1

	flagCompressed uint32 = 1 << 0
)

// File is one payload entry in an archive.
type File struct {
	Name string
	Data []byte
}

// Archive is an in-memory CMOD or CJMOD container.
type Archive struct {
	Magic   string
	Version uint32
	Files   []File
}

// ErrBadArchive covers magic/truncation failures (spec §7 ModuleError).
type ErrBadArchive struct{ Reason string }

func (e *ErrBadArchive) Error() string { return "bad module archive: " + e.Reason }

// ErrChecksum reports a per-file checksum mismatch.
type ErrChecksum struct{ Name string }

func (e *ErrChecksum) Error() string { return fmt.Sprintf("checksum mismatch for %q", e.Name) }

// ErrUnsupportedVersion reports an archive version newer than this
// reader understands.
type ErrUnsupportedVersion struct{ Version uint32 }

func (e *ErrUnsupportedVersion) Error() string {
	return fmt.Sprintf("unsupported module archive version %d", e.Version)
}

// Write serializes an Archive per spec §6's exact layout: 8-byte magic,
// 4-byte LE version, 4-byte LE file count, 4-byte LE flags (bit 0:
// compressed), then per file: name length + name + payload length +
// uncompressed length + checksum + payload. compress selects whether
// every payload is brotli-compressed (flag bit 0).
func Write(w io.Writer, a *Archive, compress bool) error {
	if a.Magic != MagicCMOD && a.Magic != MagicCJMD {
		return &ErrBadArchive{Reason: "unknown magic " + a.Magic}
	}
	if _, err := io.WriteString(w, a.Magic); err != nil {
		return err
	}
	if err := writeU32(w, a.Version); err != nil {
		return err
	}
	if err := writeU32(w, uint32(len(a.Files))); err != nil {
		return err
	}
	var flags uint32
	if compress {
		flags |= flagCompressed
	}
	if err := writeU32(w, flags); err != nil {
		return err
	}
	// Deterministic file order makes repeated packs byte-identical.
	files := append([]File(nil), a.Files...)
	sort.Slice(files, func(i, j int) bool { return files[i].Name < files[j].Name })
	for _, f := range files {
		payload := f.Data
		uncompressedLen := uint32(len(f.Data))
		if compress {
			var buf bytes.Buffer
			bw := brotli.NewWriter(&buf)
			if _, err := bw.Write(f.Data); err != nil {
				return err
			}
			if err := bw.Close(); err != nil {
				return err
			}
			payload = buf.Bytes()
		}
		checksum := crc32.ChecksumIEEE(f.Data)
		if err := writeU32(w, uint32(len(f.Name))); err != nil {
			return err
		}
		if _, err := io.WriteString(w, f.Name); err != nil {
			return err
		}
		if err := writeU32(w, uint32(len(payload))); err != nil {
			return err
		}
		if err := writeU32(w, uncompressedLen); err != nil {
			return err
		}
		if err := writeU32(w, checksum); err != nil {
			return err
		}
		if _, err := w.Write(payload); err != nil {
			return err
		}
	}
	return nil
}

// Read parses an Archive, verifying magic, version, and every per-file
// checksum (against the decompressed payload) before returning.
func Read(r io.Reader) (*Archive, error) {
	magic := make([]byte, 8)
	if _, err := io.ReadFull(r, magic); err != nil {
		return nil, &ErrBadArchive{Reason: "truncated magic"}
	}
	m := string(magic)
	if m != MagicCMOD && m != MagicCJMD {
		return nil, &ErrBadArchive{Reason: "unrecognized magic " + m}
	}
	version, err := readU32(r)
	if err != nil {
		return nil, &ErrBadArchive{Reason: "truncated version"}
	}
	if version > CurrentVersion {
		return nil, &ErrUnsupportedVersion{Version: version}
	}
	count, err := readU32(r)
	if err != nil {
		return nil, &ErrBadArchive{Reason: "truncated file count"}
	}
	flags, err := readU32(r)
	if err != nil {
		return nil, &ErrBadArchive{Reason: "truncated flags"}
	}
	compressed := flags&flagCompressed != 0

	a := &Archive{Magic: m, Version: version}
	for i := uint32(0); i < count; i++ {
		nameLen, err := readU32(r)
		if err != nil {
			return nil, &ErrBadArchive{Reason: "truncated name length"}
		}
		name := make([]byte, nameLen)
		if _, err := io.ReadFull(r, name); err != nil {
			return nil, &ErrBadArchive{Reason: "truncated name"}
		}
		payloadLen, err := readU32(r)
		if err != nil {
			return nil, &ErrBadArchive{Reason: "truncated payload length"}
		}
		uncompressedLen, err := readU32(r)
		if err != nil {
			return nil, &ErrBadArchive{Reason: "truncated uncompressed length"}
		}
		wantChecksum, err := readU32(r)
		if err != nil {
			return nil, &ErrBadArchive{Reason: "truncated checksum"}
		}
		payload := make([]byte, payloadLen)
		if _, err := io.ReadFull(r, payload); err != nil {
			return nil, &ErrBadArchive{Reason: "truncated payload"}
		}
		data := payload
		if compressed {
			br := brotli.NewReader(bytes.NewReader(payload))
			data, err = io.ReadAll(br)
			if err != nil {
				return nil, &ErrBadArchive{Reason: "corrupt compressed payload for " + string(name)}
			}
			if uint32(len(data)) != uncompressedLen {
				return nil, &ErrBadArchive{Reason: "uncompressed length mismatch for " + string(name)}
			}
		}
		if crc32.ChecksumIEEE(data) != wantChecksum {
			return nil, &ErrChecksum{Name: string(name)}
		}
		a.Files = append(a.Files, File{Name: string(name), Data: data})
	}
	return a, nil
}

func writeU32(w io.Writer, v uint32) error {
	var buf [4]byte
	binary.LittleEndian.PutUint32(buf[:], v)
	_, err := w.Write(buf[:])
	return err
}

func readU32(r io.Reader) (uint32, error) {
	var buf [4]byte
	if _, err := io.ReadFull(r, buf[:]); err != nil {
		return 0, err
	}
	return binary.LittleEndian.Uint32(buf[:]), nil
}
