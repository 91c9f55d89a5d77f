package biosabi

import (
	"encoding/binary"
	"fmt"
)

// DiskResult classifies the outcome of an extended-read BIOS call, per
// spec §4.1: success requires carry clear *and* absence of the documented
// error codes.
type DiskResult int

const (
	// DiskOK indicates the read completed successfully.
	DiskOK DiskResult = iota
	// DiskInvalidInput corresponds to AH=0x80.
	DiskInvalidInput
	// DiskNotSupported corresponds to AH=0x86.
	DiskNotSupported
	// DiskFailed is any other non-zero AH with carry set.
	DiskFailed
)

func (d DiskResult) Error() string {
	switch d {
	case DiskOK:
		return "ok"
	case DiskInvalidInput:
		return "invalid input"
	case DiskNotSupported:
		return "not supported"
	case DiskFailed:
		return "failed"
	default:
		return "unknown disk result"
	}
}

// DAPSize is the fixed 16-byte Disk Access Packet layout (spec §3).
const DAPSize = 16

// DAP is the Disk Access Packet passed to int 0x13/AH=0x42. Segment:Offset
// is the real-mode far pointer to the destination buffer.
type DAP struct {
	PacketSize uint8
	Zero       uint8
	Sectors    uint16
	Offset     uint16
	Segment    uint16
	LBA        uint64
}

// NewDAP builds a DAP for reading sectors sectors starting at lba into
// the real-mode far pointer segment:offset.
func NewDAP(sectors uint16, segment, offset uint16, lba uint64) DAP {
	return DAP{PacketSize: DAPSize, Sectors: sectors, Offset: offset, Segment: segment, LBA: lba}
}

// Bytes encodes the DAP to its 16-byte on-wire form.
func (d DAP) Bytes() []byte {
	b := make([]byte, DAPSize)
	b[0] = d.PacketSize
	b[1] = d.Zero
	binary.LittleEndian.PutUint16(b[2:4], d.Sectors)
	binary.LittleEndian.PutUint16(b[4:6], d.Offset)
	binary.LittleEndian.PutUint16(b[6:8], d.Segment)
	binary.LittleEndian.PutUint64(b[8:16], d.LBA)
	return b
}

// DAPFromBytes decodes a 16-byte DAP.
func DAPFromBytes(b []byte) (DAP, error) {
	if len(b) != DAPSize {
		return DAP{}, fmt.Errorf("biosabi: DAP must be %d bytes, got %d", DAPSize, len(b))
	}
	return DAP{
		PacketSize: b[0],
		Zero:       b[1],
		Sectors:    binary.LittleEndian.Uint16(b[2:4]),
		Offset:     binary.LittleEndian.Uint16(b[4:6]),
		Segment:    binary.LittleEndian.Uint16(b[6:8]),
		LBA:        binary.LittleEndian.Uint64(b[8:16]),
	}, nil
}

// intExtendedRead is the AH function code for extended read (int 13h).
const intExtendedRead = 0x42

// ReadDisk issues the extended-read service via fw for diskID, returning
// DiskOK on success or the classified failure otherwise (spec §4.1).
func ReadDisk(fw Firmware, diskID byte, dap DAP) DiskResult {
	req := RegSnapshot{AX: uint16(intExtendedRead) << 8, DX: uint16(diskID)}
	resp := fw.Int13h(req, dap.Bytes())
	switch resp.AH() {
	case 0x80:
		return DiskInvalidInput
	case 0x86:
		return DiskNotSupported
	}
	if !resp.CarrySet() {
		return DiskOK
	}
	return DiskFailed
}
