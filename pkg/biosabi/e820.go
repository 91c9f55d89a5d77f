package biosabi

import (
	"encoding/binary"
	"fmt"
)

// E820EntrySize is the on-wire size of one E820 entry (spec §3). Some
// firmwares append a 4-byte ACPI attributes word; entries without it are
// treated as AcpiAttrs == 0.
const E820EntrySize = 24

// E820 entry kinds, per the firmware-defined tag (spec §3).
const (
	E820KindUsable         uint32 = 1
	E820KindReserved       uint32 = 2
	E820KindACPIReclaimable uint32 = 3
	E820KindACPINVS        uint32 = 4
	E820KindBad            uint32 = 5
)

// E820Entry describes one range of the firmware memory map.
type E820Entry struct {
	Base      uint64
	Length    uint64
	Kind      uint32
	ACPIAttrs uint32
}

const e820Signature = 0x534D4150 // "SMAP", echoed back by the firmware

// E820EntryFromBytes decodes a 20 or 24-byte E820 entry.
func E820EntryFromBytes(b []byte) (E820Entry, error) {
	if len(b) != 20 && len(b) != 24 {
		return E820Entry{}, fmt.Errorf("biosabi: E820 entry must be 20 or 24 bytes, got %d", len(b))
	}
	e := E820Entry{
		Base:   binary.LittleEndian.Uint64(b[0:8]),
		Length: binary.LittleEndian.Uint64(b[8:16]),
		Kind:   binary.LittleEndian.Uint32(b[16:20]),
	}
	if len(b) == 24 {
		e.ACPIAttrs = binary.LittleEndian.Uint32(b[20:24])
	}
	return e, nil
}

// Bytes encodes e to its 24-byte on-wire form.
func (e E820Entry) Bytes() []byte {
	b := make([]byte, E820EntrySize)
	binary.LittleEndian.PutUint64(b[0:8], e.Base)
	binary.LittleEndian.PutUint64(b[8:16], e.Length)
	binary.LittleEndian.PutUint32(b[16:20], e.Kind)
	binary.LittleEndian.PutUint32(b[20:24], e.ACPIAttrs)
	return b
}

// E820Done is an error value naming the end of E820 iteration.
// QueryMemoryMap does not return it: it reports the end by returning the
// last entry with a zero continuation token and a nil error.
var E820Done = fmt.Errorf("biosabi: E820 iteration complete")

// e820AckHigh/e820AckLow are the two 16-bit halves of the "SMAP"
// signature the firmware must echo in AX:DX; a response that doesn't
// match is treated as spurious (spec §4.1).
const (
	e820AckHigh = uint16(e820Signature >> 16)
	e820AckLow  = uint16(e820Signature & 0xFFFF)
)

// QueryMemoryMap issues one step of the E820 continuation protocol: a
// zero continuation begins iteration; subsequent calls pass back the
// token returned here. It validates the echoed "SMAP" signature and
// rejects spurious returns (spec §4.1).
func QueryMemoryMap(fw Firmware, continuation uint32) (E820Entry, uint32, error) {
	buf := make([]byte, E820EntrySize)
	req := RegSnapshot{
		AX: 0xE820,
		CX: uint16(E820EntrySize),
		DX: e820AckLow,
		BX: uint16(continuation),
	}
	resp := fw.Int15hE820(req, buf)
	if resp.CarrySet() {
		return E820Entry{}, 0, fmt.Errorf("biosabi: E820 query failed (carry set)")
	}
	if resp.AX != e820AckHigh {
		return E820Entry{}, 0, fmt.Errorf("biosabi: E820 query returned unexpected signature, spurious return")
	}
	nextToken := uint32(resp.BX)
	if nextToken == 0 {
		entry, err := E820EntryFromBytes(buf)
		if err != nil {
			return E820Entry{}, 0, err
		}
		return entry, 0, nil
	}
	entry, err := E820EntryFromBytes(buf)
	if err != nil {
		return E820Entry{}, 0, err
	}
	return entry, nextToken, nil
}
