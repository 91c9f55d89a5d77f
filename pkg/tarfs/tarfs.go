// Package tarfs reads a USTAR-style archive embedded in the FAT partition
// as the kernel's initfs (C10 part, spec §4.10).
//
// Grounded on original_source's crates/tar/src/{lib,header}.rs: the same
// 512-byte header, ASCII-octal size field, 512-aligned next-header offset,
// and empty-header-terminates-archive rule, ported from its zero-copy
// &[u8]-cast header view into a go-restruct-decoded struct plus a plain
// Go iterator (this module has a heap, unlike the no_std original, so a
// decoded-copy iterator is the idiomatic Go shape rather than chasing the
// original's unsafe pointer cast).
package tarfs

import (
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
)

const headerSize = 512

// header is the raw 512-byte USTAR header layout (spec §4.10), matched
// field-for-field against original_source's TarHeader.
type header struct {
	Filename [100]byte
	Mode     [8]byte
	UID      [8]byte
	GID      [8]byte
	Size     [12]byte
	MTime    [12]byte
	Checksum [8]byte
	TypeFlag [1]byte
	Reserved [355]byte
}

func (h header) isEmpty() bool {
	for _, b := range h.Filename {
		if b != 0 {
			return false
		}
	}
	return true
}

func (h header) name() string {
	for i, b := range h.Filename {
		if b == 0 {
			return string(h.Filename[:i])
		}
	}
	return string(h.Filename[:])
}

// size parses the ASCII-octal filesize field, per original_source's
// TarHeader::filesize (reject any non-octal digit rather than silently
// truncating).
func (h header) size() (int, error) {
	n := 0
	for _, b := range h.Size {
		if b == 0 || b == ' ' {
			continue
		}
		if b < '0' || b > '7' {
			return 0, fmt.Errorf("tarfs: size field contains non-octal digit %q", b)
		}
		n = n*8 + int(b-'0')
	}
	return n, nil
}

// Entry is one decoded archive member: its name, size, and the raw file
// bytes sliced directly out of the backing archive (no copy).
type Entry struct {
	Name string
	Size int
	Data []byte
}

// Archive is a USTAR archive backed by a full in-memory byte slice (the
// initfs TAR is loaded whole into RAM by stage-2 before the kernel ever
// runs, per spec §4.10 — there is no streaming variant here).
type Archive struct {
	data []byte
}

// New wraps raw USTAR bytes for iteration/lookup.
func New(data []byte) *Archive { return &Archive{data: data} }

// Iter calls fn for every entry in archive order, stopping early if fn
// returns false. An empty (all-zero) header terminates the archive
// (spec §4.10).
func (a *Archive) Iter(fn func(Entry) bool) error {
	offset := 0
	for offset+headerSize <= len(a.data) {
		var h header
		if err := restruct.Unpack(a.data[offset:offset+headerSize], binary.LittleEndian, &h); err != nil {
			return fmt.Errorf("tarfs: decoding header at offset %d: %w", offset, err)
		}
		if h.isEmpty() {
			return nil
		}
		size, err := h.size()
		if err != nil {
			return fmt.Errorf("tarfs: entry %q: %w", h.name(), err)
		}

		fileStart := offset + headerSize
		fileEnd := fileStart + size
		if fileEnd > len(a.data) {
			return fmt.Errorf("tarfs: entry %q extends past archive end", h.name())
		}
		entry := Entry{Name: h.name(), Size: size, Data: a.data[fileStart:fileEnd]}
		if !fn(entry) {
			return nil
		}

		// Next header begins at the next 512-byte boundary after the
		// content (spec §4.10), matching original_source's
		// `(filesize + header_size) / 512 + 1) * 512` rounding.
		offset += ((size + headerSize) / headerSize) * headerSize
		if (size+headerSize)%headerSize != 0 {
			offset += headerSize
		}
	}
	return nil
}

// Lookup returns the named entry, or an error if the archive contains no
// file with that name.
func (a *Archive) Lookup(name string) (Entry, error) {
	var found Entry
	ok := false
	err := a.Iter(func(e Entry) bool {
		if e.Name == name {
			found = e
			ok = true
			return false
		}
		return true
	})
	if err != nil {
		return Entry{}, err
	}
	if !ok {
		return Entry{}, fmt.Errorf("tarfs: entry %q not found", name)
	}
	return found, nil
}
