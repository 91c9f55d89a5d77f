package fat

import (
	"encoding/binary"
	"fmt"
	"strings"

	"golang.org/x/text/encoding/unicode"
)

// Directory-entry attribute bits (spec §4.3), grounded on
// ostafen-digler/internal/disk/fat.go's ATTR_* constants.
const (
	AttrReadOnly uint8 = 1 << iota
	AttrHidden
	AttrSystem
	AttrVolumeLabel
	AttrDirectory
	AttrArchive
)

// AttrLongName marks an entry as an LFN fragment rather than a short
// 8.3 entry: all four of RO/Hidden/System/VolumeLabel set together.
const AttrLongName = AttrReadOnly | AttrHidden | AttrSystem | AttrVolumeLabel

const direntSize = 32
const deletedMarker = 0xE5
const freeMarker = 0x00

// DirEntry is one decoded directory entry: either a short 8.3 entry (with
// any preceding LFN fragments already folded into Name) or skipped if it
// was a raw LFN fragment or a deleted/free slot.
type DirEntry struct {
	Name         string
	Attr         uint8
	FirstCluster uint32
	Size         uint32
}

func (d DirEntry) IsDirectory() bool { return d.Attr&AttrDirectory != 0 }

// shortNameEntry is the raw 32-byte short directory entry layout.
type shortNameEntry struct {
	NameRaw      [11]byte
	Attr         uint8
	FirstClusterHi uint16
	FirstClusterLo uint16
	Size         uint32
}

func decodeShortEntry(b []byte) shortNameEntry {
	var e shortNameEntry
	copy(e.NameRaw[:], b[0:11])
	e.Attr = b[11]
	e.FirstClusterHi = binary.LittleEndian.Uint16(b[20:22])
	e.FirstClusterLo = binary.LittleEndian.Uint16(b[26:28])
	e.Size = binary.LittleEndian.Uint32(b[28:32])
	return e
}

func shortNameToString(raw [11]byte) string {
	name := strings.TrimRight(string(raw[0:8]), " ")
	ext := strings.TrimRight(string(raw[8:11]), " ")
	if ext == "" {
		return name
	}
	return name + "." + ext
}

// lfnFragment holds the UTF-16LE characters and sequence/checksum fields
// of one LFN directory-entry fragment (spec §4.3's LFN reconstruction).
type lfnFragment struct {
	sequence uint8
	chars    [13]uint16
	checksum uint8
}

// lfnCharOffsets lists the byte offsets of the three UTF-16LE code-unit
// spans within a 32-byte LFN fragment: 5 chars at 1..10, 6 at 14..25,
// 2 at 28..31.
var lfnCharOffsets = [13]int{1, 3, 5, 7, 9, 14, 16, 18, 20, 22, 24, 28, 30}

func decodeLFNFragment(b []byte) lfnFragment {
	var f lfnFragment
	f.sequence = b[0]
	f.checksum = b[13]
	for i, off := range lfnCharOffsets {
		f.chars[i] = binary.LittleEndian.Uint16(b[off : off+2])
	}
	return f
}

// lastLFNSequence marks the first (highest-ordered) fragment of a name.
const lastLFNSequence = 0x40

// decodeLFNChars converts a fragment's raw UTF-16LE code units into a Go
// string, stopping at the first 0x0000 or 0xFFFF terminator/padding
// value, using x/text's UTF-16LE decoder per spec's LFN requirement.
func decodeLFNChars(chars [13]uint16) (string, bool) {
	raw := make([]byte, 0, 26)
	terminated := false
	for _, c := range chars {
		if c == 0x0000 || c == 0xFFFF {
			terminated = true
			break
		}
		raw = append(raw, byte(c), byte(c>>8))
	}
	decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.IgnoreBOM).NewDecoder().Bytes(raw)
	if err != nil {
		return "", terminated
	}
	return string(decoded), terminated
}

// ReadDirEntries decodes a directory region's raw bytes into DirEntry
// values, reconstructing LFN fragments across non-contiguous spans in
// the same manner the FAT spec requires: fragments are emitted in
// descending sequence order immediately before the short entry they
// belong to, so this accumulates them and flushes on the next short
// entry (spec §4.3).
func ReadDirEntries(data []byte) ([]DirEntry, error) {
	var entries []DirEntry
	var pending []lfnFragment

	for off := 0; off+direntSize <= len(data); off += direntSize {
		raw := data[off : off+direntSize]
		if raw[0] == freeMarker {
			break // free entry terminates the directory region
		}
		if raw[0] == deletedMarker {
			pending = nil
			continue
		}
		attr := raw[11]
		if attr&AttrLongName == AttrLongName {
			pending = append(pending, decodeLFNFragment(raw))
			continue
		}

		short := decodeShortEntry(raw)
		name := shortNameToString(short.NameRaw)
		if len(pending) > 0 {
			name = assembleLFN(pending)
			pending = nil
		}
		if short.Attr&AttrVolumeLabel != 0 && short.Attr&AttrDirectory == 0 {
			continue // pure volume-label entry, not a file or directory
		}
		entries = append(entries, DirEntry{
			Name:         name,
			Attr:         short.Attr,
			FirstCluster: uint32(short.FirstClusterHi)<<16 | uint32(short.FirstClusterLo),
			Size:         short.Size,
		})
	}
	return entries, nil
}

// assembleLFN places fragments by sequence number, sequence 1 first (the
// reverse of their on-disk order, which is highest-first), and
// concatenates their decoded characters.
func assembleLFN(fragments []lfnFragment) string {
	ordered := make([]lfnFragment, len(fragments))
	for _, f := range fragments {
		seq := int(f.sequence &^ lastLFNSequence)
		if seq < 1 || seq > len(ordered) {
			continue
		}
		ordered[seq-1] = f
	}
	var sb strings.Builder
	for _, f := range ordered {
		s, _ := decodeLFNChars(f.chars)
		sb.WriteString(s)
	}
	return sb.String()
}

// FindEntry looks up a name (case-insensitive on the short-name form)
// directly under the directory bytes given.
func FindEntry(data []byte, name string) (DirEntry, error) {
	entries, err := ReadDirEntries(data)
	if err != nil {
		return DirEntry{}, err
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name, name) {
			return e, nil
		}
	}
	return DirEntry{}, fmt.Errorf("fat: entry %q not found", name)
}
