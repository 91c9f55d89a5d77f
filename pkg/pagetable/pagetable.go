// Package pagetable synthesizes the PML4/PDPT/PD identity-mapped page
// tables stage-2 builds before entering long mode: 2 MiB huge pages,
// flat identity mapping across a configurable number of GiB-sized PD
// tables (spec §3/§4.5).
//
// Grounded on original_source's bootloader/src/bios_boot/stage-2/src/paging.rs:
// same structure (one PML4 entry -> one PDPT -> N PD tables, each PD
// holding 512 2 MiB huge-page entries), same identity-mapping math
// (i*2MiB + gib_offset), ported from its PageConfigBuilder style into
// plain Go struct population since Go has no builder-pattern precedent
// in the teacher worth copying for this.
package pagetable

const (
	pageSize2MiB = 2 * 1024 * 1024
	gib          = 1024 * 1024 * 1024
	entriesPerTable = 512
)

// Entry flag bits, common to PML4/PDPT/PD entries (Intel SDM vol 3, and
// matched against the original's present/read_write/executable/huge
// flags).
const (
	FlagPresent  uint64 = 1 << 0
	FlagWritable uint64 = 1 << 1
	FlagHuge     uint64 = 1 << 7 // PS bit: this PD entry maps a 2 MiB page directly
)

// Table is one page-table level: 512 64-bit entries.
type Table [entriesPerTable]uint64

// Tables holds the full synthesized hierarchy: one PML4, one PDPT, and
// one PD per GiB of identity-mapped space.
type Tables struct {
	PML4 Table
	PDPT Table
	PDs  []Table
}

// tableEntry clears the low 12 bits of physAddr, where an entry's flag
// bits live, and ORs in flags. Bits above 51 are passed through unmasked.
func tableEntry(physAddr uint64, flags uint64) uint64 {
	return (physAddr &^ 0xFFF) | flags
}

// BuildIdentityMap constructs an identity-mapped hierarchy covering
// gibCount GiB of address space using 2 MiB huge pages throughout,
// mirroring the original's fixed 5-GiB LEVEL2 array but parameterized
// since SPEC_FULL's domain stack has no reason to hardcode 5.
func BuildIdentityMap(gibCount int) *Tables {
	t := &Tables{PDs: make([]Table, gibCount)}

	for gibIdx := 0; gibIdx < gibCount; gibIdx++ {
		gibOffset := uint64(gibIdx) * gib
		var pd Table
		for i := 0; i < entriesPerTable; i++ {
			addr := uint64(i)*pageSize2MiB + gibOffset
			pd[i] = tableEntry(addr, FlagPresent|FlagWritable|FlagHuge)
		}
		t.PDs[gibIdx] = pd
	}
	return t
}

// Link fixes the PML4/PDPT entries once the tables' final load addresses
// in the assembled image are known: pdptAddr and pdAddrs are the
// physical addresses the PDPT and each PD will occupy (spec's build-time/runtime
// address split, since only the host build orchestrator knows where
// these tables land in the final image).
func (t *Tables) Link(pdptAddr uint64, pdAddrs []uint64) error {
	if len(pdAddrs) != len(t.PDs) {
		return errMismatchedPDCount
	}
	t.PML4[0] = tableEntry(pdptAddr, FlagPresent|FlagWritable)
	for i, addr := range pdAddrs {
		t.PDPT[i] = tableEntry(addr, FlagPresent|FlagWritable)
	}
	return nil
}

var errMismatchedPDCount = tableErr("pagetable: Link given wrong number of PD addresses")

type tableErr string

func (e tableErr) Error() string { return string(e) }

// Idempotent reports whether building the same identity map twice
// produces byte-identical tables (property the tests exercise directly;
// BuildIdentityMap has no hidden state so it always holds, but the
// predicate documents the invariant rather than leaving it implicit).
func Idempotent(gibCount int) bool {
	a := BuildIdentityMap(gibCount)
	b := BuildIdentityMap(gibCount)
	if len(a.PDs) != len(b.PDs) {
		return false
	}
	for i := range a.PDs {
		if a.PDs[i] != b.PDs[i] {
			return false
		}
	}
	return a.PML4 == b.PML4 && a.PDPT == b.PDPT
}

// Bytes encodes a table to its 4096-byte little-endian on-wire form.
func (t Table) Bytes() []byte {
	b := make([]byte, entriesPerTable*8)
	for i, entry := range t {
		for j := 0; j < 8; j++ {
			b[i*8+j] = byte(entry >> (8 * j))
		}
	}
	return b
}
