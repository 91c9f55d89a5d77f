// Package elftour reads just enough of a 64-bit ELF to load its LOAD
// segments into the virtual layout the kernel expects (C10 part, spec
// §4.10): identification header, class-specific header, program headers,
// and a file-to-memory copy-plus-zero-fill planner.
//
// Grounded on original_source's crates/elf/src/{lib,tables}.rs (identical
// ident-header field order/validation, Elf64Header field order, the
// ProgramHeader64 layout and SegmentKind enum) and kernel/src/process/vm_elf.rs
// (the fill-the-page-with-zero-then-copy-the-overlapping-segment-bytes
// semantics reproduced here as a single whole-segment LoadPlan instead of
// vm_elf.rs's per-page population, since this module loads a flat buffer
// rather than faulting pages in lazily).
package elftour

import (
	"encoding/binary"
	"fmt"

	"github.com/go-restruct/restruct"
)

var littleEndian = binary.LittleEndian

// Class identifies the ELF word size.
type Class uint8

const (
	Class32 Class = 1
	Class64 Class = 2
)

// Endian identifies the ELF data encoding.
type Endian uint8

const (
	EndianLittle Endian = 1
	EndianBig    Endian = 2
)

var elfMagic = [4]byte{0x7F, 'E', 'L', 'F'}

// identHeader is the first 16 bytes of every ELF file: magic, class,
// endianness, header version, OS ABI, padding (original_source's
// ElfInitHeader, truncated to e_ident's 16 bytes — this package does not
// need the trailing kind/arch/version fields ElfInitHeader also carries,
// since the class-specific header repeats them).
type identHeader struct {
	Magic        [4]byte
	Class        uint8
	Endian       uint8
	HeaderVerson uint8
	OSABI        uint8
	Padding      [8]byte
}

const identSize = 16

// elf64Header is the ELF64 file header starting immediately after
// e_ident, per original_source's Elf64Header (minus the repeated
// ElfInitHeader fields, which this package reads separately from
// identHeader plus the type/machine/version word here).
type elf64Header struct {
	TypeKind              uint16
	Machine               uint16
	Version               uint32
	EntryOffset           uint64
	ProgramHeaderOffset   uint64
	SectionHeaderOffset   uint64
	Flags                 uint32
	ELFHeaderSize         uint16
	ProgramHeaderEntSize  uint16
	ProgramHeaderEntCount uint16
	SectionHeaderEntSize  uint16
	SectionHeaderEntCount uint16
	StringTableIndex      uint16
}

const elf64HeaderSize = 2 + 2 + 4 + 8 + 8 + 8 + 4 + 2 + 2 + 2 + 2 + 2 + 2

// SegmentKind classifies a program header entry, matching
// original_source's SegmentKind enum values bit-for-bit.
type SegmentKind uint32

const (
	SegmentIgnore  SegmentKind = 0
	SegmentLoad    SegmentKind = 1
	SegmentDynamic SegmentKind = 2
	SegmentInterp  SegmentKind = 3
	SegmentNote    SegmentKind = 4
)

// ProgramHeader64 is one 56-byte ELF64 program header entry, per
// original_source's ProgramHeader64 (segment_kind, flags, then the five
// 64-bit offset/address/size fields, then alignment).
type ProgramHeader64 struct {
	Kind      SegmentKind
	Flags     uint32
	FileOff   uint64
	VirtAddr  uint64
	PhysAddr  uint64
	FileSize  uint64
	MemSize   uint64
	Alignment uint64
}

const programHeader64Size = 4 + 4 + 8*6

// File is a parsed ELF64 image: the data it was parsed from plus the
// decoded header, kept around so ProgramHeaders/LoadPlan can re-slice it.
type File struct {
	data   []byte
	ident  identHeader
	header elf64Header
}

// Parse validates the identification header and the ELF64 file header.
// Only 64-bit little-endian images are supported; anything else is a
// class mismatch the caller must halt on (spec §7's "ELF invalid / class
// mismatch -> halt" policy).
func Parse(data []byte) (*File, error) {
	if len(data) < identSize {
		return nil, fmt.Errorf("elftour: file shorter than the identification header")
	}
	var ident identHeader
	if err := restruct.Unpack(data[:identSize], littleEndian, &ident); err != nil {
		return nil, fmt.Errorf("elftour: decoding identification header: %w", err)
	}
	if ident.Magic != elfMagic {
		return nil, fmt.Errorf("elftour: bad magic %x, not an ELF file", ident.Magic)
	}
	if Class(ident.Class) != Class64 {
		return nil, fmt.Errorf("elftour: class %d is not ELF64, this loader only supports 64-bit kernels", ident.Class)
	}
	if Endian(ident.Endian) != EndianLittle {
		return nil, fmt.Errorf("elftour: endianness %d is not little-endian", ident.Endian)
	}

	rest := data[identSize:]
	if len(rest) < elf64HeaderSize {
		return nil, fmt.Errorf("elftour: file too short for an ELF64 header")
	}
	var h elf64Header
	if err := restruct.Unpack(rest[:elf64HeaderSize], littleEndian, &h); err != nil {
		return nil, fmt.Errorf("elftour: decoding ELF64 header: %w", err)
	}

	return &File{data: data, ident: ident, header: h}, nil
}

// Entry returns the kernel's entry-point virtual address.
func (f *File) Entry() uint64 { return f.header.EntryOffset }

// ProgramHeaders decodes and returns every program header entry, in
// on-disk order.
func (f *File) ProgramHeaders() ([]ProgramHeader64, error) {
	off := f.header.ProgramHeaderOffset
	count := int(f.header.ProgramHeaderEntCount)
	entSize := int(f.header.ProgramHeaderEntSize)
	if entSize < programHeader64Size {
		return nil, fmt.Errorf("elftour: program header entry size %d smaller than expected %d", entSize, programHeader64Size)
	}

	headers := make([]ProgramHeader64, 0, count)
	for i := 0; i < count; i++ {
		start := int(off) + i*entSize
		end := start + programHeader64Size
		if end > len(f.data) {
			return nil, fmt.Errorf("elftour: program header %d extends past file end", i)
		}
		var ph ProgramHeader64
		if err := restruct.Unpack(f.data[start:end], littleEndian, &ph); err != nil {
			return nil, fmt.Errorf("elftour: decoding program header %d: %w", i, err)
		}
		headers = append(headers, ph)
	}
	return headers, nil
}

// LoadableSegments returns only the PT_LOAD program headers, the ones the
// boot path cares about (spec §4.10).
func (f *File) LoadableSegments() ([]ProgramHeader64, error) {
	all, err := f.ProgramHeaders()
	if err != nil {
		return nil, err
	}
	var loads []ProgramHeader64
	for _, ph := range all {
		if ph.Kind == SegmentLoad {
			loads = append(loads, ph)
		}
	}
	return loads, nil
}

// LoadPlan is one file-to-memory copy instruction for a loadable segment:
// copy FileBytes into the virtual range starting at VirtAddr, then
// zero-fill the remainder up to MemSize (spec §4.10's loader contract;
// original_source's vm_elf.rs reproduces the same file_size vs mem_size
// split when BSS is larger than the on-disk segment).
type LoadPlan struct {
	VirtAddr  uint64
	FileBytes []byte
	MemSize   uint64
}

// BuildLoadPlan turns a PT_LOAD program header into a LoadPlan by slicing
// the backing file data; it validates that the segment's file range
// actually exists in the image and that FileSize never exceeds MemSize
// (an ELF segment may never claim to contain more data than it reserves
// memory for).
func (f *File) BuildLoadPlan(ph ProgramHeader64) (LoadPlan, error) {
	if ph.Kind != SegmentLoad {
		return LoadPlan{}, fmt.Errorf("elftour: BuildLoadPlan called on a non-LOAD segment (kind %d)", ph.Kind)
	}
	if ph.FileSize > ph.MemSize {
		return LoadPlan{}, fmt.Errorf("elftour: segment file_size %d exceeds mem_size %d", ph.FileSize, ph.MemSize)
	}
	start := ph.FileOff
	end := start + ph.FileSize
	if end > uint64(len(f.data)) {
		return LoadPlan{}, fmt.Errorf("elftour: segment file range [%d,%d) extends past file end", start, end)
	}
	return LoadPlan{
		VirtAddr:  ph.VirtAddr,
		FileBytes: f.data[start:end],
		MemSize:   ph.MemSize,
	}, nil
}

// Apply copies the plan's file bytes into dst and zero-fills the
// remainder up to MemSize. dst must be at least MemSize bytes long;
// Apply returns an error for a shorter dst and never grows it. Apply
// performs no virtual-memory mapping itself (that is the loading stage's
// job).
func (p LoadPlan) Apply(dst []byte) error {
	if uint64(len(dst)) < p.MemSize {
		return fmt.Errorf("elftour: destination buffer (%d bytes) smaller than mem_size (%d)", len(dst), p.MemSize)
	}
	n := copy(dst, p.FileBytes)
	for i := n; uint64(i) < p.MemSize; i++ {
		dst[i] = 0
	}
	return nil
}
