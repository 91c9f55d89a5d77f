// Package gdt builds flat Global Descriptor Tables: a 3-entry flat
// 32-bit form for protected-mode entry and a 3-entry flat 64-bit form
// for long-mode entry (spec §3 GDT, §4.4/§4.5).
//
// Grounded on original_source's crates/arch/src/gdt.rs (same descriptor
// bit layout: limit-lo/base-lo/base-mid/access byte/flags/base-hi), but
// expressed as plain Go bit-shift encoding rather than the original's
// const-generic bitfield macro — Go has neither const generics nor a
// packed-bitfield derive, so each descriptor is built with explicit
// shifts the way the teacher's own packed structs (e.g. fiano's FMAP
// header) are hand-encoded.
package gdt

// Selector is a segment selector value: a GDT/LDT index plus RPL, as
// loaded into a segment register (spec §3, supplemented from
// original_source's selector handling).
type Selector uint16

// NewSelector builds a selector for GDT entry index at the given
// requested privilege level (0-3).
func NewSelector(index uint16, rpl uint8) Selector {
	return Selector(index<<3 | uint16(rpl&0x3))
}

// Descriptor access-byte and flag bits, named per the Intel SDM and
// matched 1:1 against original_source's gdt.rs field list.
const (
	accessAccessed  = 1 << 0
	accessWritable  = 1 << 1
	accessDirection = 1 << 2
	accessExecutable = 1 << 3
	accessUserSeg   = 1 << 4
	accessPresent   = 1 << 7

	flagLongMode  = 1 << 1
	flagBig       = 1 << 2
	flagGranularity = 1 << 3
)

func encodeDescriptor(base uint32, limit uint32, access uint8, flags uint8) uint64 {
	var d uint64
	d |= uint64(limit & 0xFFFF)
	d |= uint64(base&0xFFFFFF) << 16
	d |= uint64(access) << 40
	d |= uint64((limit>>16)&0xF) << 48
	d |= uint64(flags&0xF) << 52
	d |= uint64((base>>24)&0xFF) << 56
	return d
}

// Table is a fixed 3-entry flat GDT: null, code, data, in that order
// (indices 0, 1, 2), matching the layout both the 32-bit and 64-bit flat
// GDTs in spec §3 use.
type Table [3]uint64

// NewFlat32 builds the flat 32-bit protected-mode GDT: a null descriptor
// followed by a full 4 GiB code and data segment, base 0, granularity
// set so the limit field counts 4 KiB pages (spec §4.4's protected-mode
// entry step).
func NewFlat32() Table {
	const limit = 0xFFFFF // 4 GiB in 4 KiB pages
	codeAccess := uint8(accessPresent | accessUserSeg | accessExecutable | accessWritable)
	dataAccess := uint8(accessPresent | accessUserSeg | accessWritable)
	flags := uint8(flagBig | flagGranularity)
	return Table{
		0,
		encodeDescriptor(0, limit, codeAccess, flags),
		encodeDescriptor(0, limit, dataAccess, flags),
	}
}

// NewFlat64 builds the flat 64-bit long-mode GDT: a null descriptor, a
// 64-bit code segment (long-mode flag set, base/limit ignored by the
// CPU in 64-bit mode), and a flat data segment (spec §4.5's long-mode
// entry step).
func NewFlat64() Table {
	codeAccess := uint8(accessPresent | accessUserSeg | accessExecutable | accessWritable)
	dataAccess := uint8(accessPresent | accessUserSeg | accessWritable)
	codeFlags := uint8(flagLongMode)
	return Table{
		0,
		encodeDescriptor(0, 0, codeAccess, codeFlags),
		encodeDescriptor(0, 0xFFFFF, dataAccess, flagGranularity|flagBig),
	}
}

// CodeSelector and DataSelector are the fixed selectors for index 1/2 at
// ring 0, the only privilege level this bootloader ever runs at.
var (
	CodeSelector = NewSelector(1, 0)
	DataSelector = NewSelector(2, 0)
)

// Bytes encodes the table to its little-endian on-wire form, ready to be
// embedded in a stage binary and pointed to by an LGDT pseudo-descriptor.
func (t Table) Bytes() []byte {
	b := make([]byte, len(t)*8)
	for i, entry := range t {
		for j := 0; j < 8; j++ {
			b[i*8+j] = byte(entry >> (8 * j))
		}
	}
	return b
}

// Pointer is the 6-byte LGDT operand: a 16-bit limit and a base address.
// The base is supplied by the caller once the table's final load address
// in the assembled stage binary is known.
type Pointer struct {
	Limit uint16
	Base  uint32
}

// NewPointer builds the LGDT pointer for a table located at base.
func NewPointer(t Table, base uint32) Pointer {
	return Pointer{Limit: uint16(len(t)*8 - 1), Base: base}
}

// Bytes encodes the pointer to its packed on-wire form (2-byte limit,
// 4-byte base), as the CPU's LGDT instruction expects it in memory.
func (p Pointer) Bytes() []byte {
	b := make([]byte, 6)
	b[0] = byte(p.Limit)
	b[1] = byte(p.Limit >> 8)
	b[2] = byte(p.Base)
	b[3] = byte(p.Base >> 8)
	b[4] = byte(p.Base >> 16)
	b[5] = byte(p.Base >> 24)
	return b
}
