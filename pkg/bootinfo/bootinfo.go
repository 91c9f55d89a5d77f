// Package bootinfo implements the BootInfo hand-off block (C6, spec §3/§4.6):
// a packed, magic-tagged record conveying the boot-disk id, payload
// locations, video mode, and memory map pointer from the real/protected-mode
// stages through to the kernel's first instruction.
//
// Grounded on original_source's bootloader/bootloader/src/boot_info.rs
// (field set: booted_disk_id, ram_fs{kernel,stage2,stage3}, vid, memory_map_ptr/
// memory_map_size, magic) and its from_ptr address/magic validation pair,
// ported from Rust's #[repr(packed, C)] + unsafe pointer cast into a
// restruct-tagged Go struct with an explicit byte-slice decode instead.
package bootinfo

import (
	"encoding/binary"

	"github.com/go-restruct/restruct"
)

// littleEndian is the byte order every on-wire record in this module
// decodes with, matching dsoprea-go-exfat's defaultEncoding convention
// for go-restruct calls.
var littleEndian = binary.LittleEndian

// Magic is the sentinel word a reader must see before trusting a BootInfo
// block (spec §3).
const Magic uint64 = 0xdeadbeef

// minValidAddr is the lowest physical address a valid BootInfo pointer may
// have: below this sits the real-mode IVT and BIOS data area, which is
// never where the producing stage places it (spec §4.6).
const minValidAddr uint64 = 1 << 20

// PayloadDescriptor is one {load_address, size_bytes} entry describing
// where a stage or the kernel was placed in physical memory (spec §3).
type PayloadDescriptor struct {
	LoadAddress uint64
	SizeBytes   uint64
}

// Payloads bundles the three payload descriptors the loader chain hands
// off: kernel image, stage-2 blob, stage-3 blob (spec §3).
type Payloads struct {
	Kernel PayloadDescriptor
	Stage2 PayloadDescriptor
	Stage3 PayloadDescriptor
}

// Video carries the VBE mode the stage-2 loader selected and the
// framebuffer physical address stage-3 (or stage-2) resolved (spec §3).
type Video struct {
	ModeID          uint16
	Width           uint32
	Height          uint32
	BPP             uint32
	FramebufferPhys uint64
}

// BootInfo is the packed hand-off record (spec §3). Constructed in C4,
// completed in C5, consumed by the kernel.
type BootInfo struct {
	BootDiskID uint16
	Payloads   Payloads
	Video      Video

	MemoryMapPtr uint64
	MemoryMapLen uint64

	// RSDPPtr is the physical address of the ACPI RSDP, supplemented
	// from original_source's broader boot-info surface (SPEC_FULL §4);
	// 0 means "not provided" since no ACPI table walk is part of this
	// core (spec §1 Non-goals: post-boot device drivers are external).
	RSDPPtr uint64

	Magic uint64
}

// New builds a zero-valued BootInfo with the magic already set, mirroring
// the original's BootInfo::new()/Default impl.
func New() BootInfo {
	return BootInfo{Magic: Magic}
}

// Bytes encodes b to its packed on-wire form via go-restruct, as
// pkg/elftour and pkg/tarfs also do (pkg/fat decodes by hand with
// encoding/binary); BootInfo's layout is flat but large enough that hand-rolled
// binary.LittleEndian field-by-field encoding would be pure repetition).
func (b BootInfo) Bytes() ([]byte, error) {
	return restruct.Pack(littleEndian, &b)
}

// FromBytes decodes and validates a BootInfo from raw bytes living at
// physical address addr. It refuses to trust the record unless addr is
// above the 1 MiB boundary and the magic matches (spec §4.6's from_ptr
// contract, ported from original_source's BootInfo::from_ptr assertions
// into returned errors instead of panics).
func FromBytes(addr uint64, data []byte) (BootInfo, error) {
	if addr < minValidAddr {
		return BootInfo{}, errBelowOneMiB
	}
	var b BootInfo
	if err := restruct.Unpack(data, littleEndian, &b); err != nil {
		return BootInfo{}, err
	}
	if b.Magic != Magic {
		return BootInfo{}, errBadMagic
	}
	return b, nil
}

type bootinfoErr string

func (e bootinfoErr) Error() string { return string(e) }

const (
	errBelowOneMiB = bootinfoErr("bootinfo: pointer below 1 MiB boundary, refusing to trust")
	errBadMagic    = bootinfoErr("bootinfo: magic mismatch")
)
