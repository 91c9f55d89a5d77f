// Package mbr implements MBR parsing/writing (C2 part 1, spec §4.2):
// partition-table validation, bootable-partition lookup, and a raw
// partition-entry iterator so callers can choose their own policy.
//
// Grounded on ostafen-digler's internal/disk/mbr.go (same fixed-offset
// byte layout, same ParseMBR validation style) and original_source's
// bootloader/src/bios_boot/stage-1/src/mbr.rs.
package mbr

import (
	"encoding/binary"
	"fmt"
)

// Sector size this package assumes throughout; the BPB may declare a
// different bytes-per-sector for the FAT volume itself (pkg/fat handles
// that), but the MBR sector is always 512 bytes on BIOS-booted media.
const SectorSize = 512

const (
	offsetBootCode      = 0x000
	offsetDiskSignature = 0x1B8
	offsetReserved      = 0x1BC
	offsetPartitions    = 0x1BE
	offsetSignature     = 0x1FE
	partitionEntrySize  = 16
	numPartitions       = 4

	// BootSignature is the required trailing marker (spec §3).
	BootSignature = 0xAA55

	// BootableFlag is the partition attribute byte value marking a
	// partition bootable (high bit set, per spec §4.2).
	BootableFlag = 0x80
)

// PartitionEntry is one 16-byte MBR partition table row (spec §3).
type PartitionEntry struct {
	Attrs        uint8
	CHSStart     [3]byte
	Type         uint8
	CHSEnd       [3]byte
	LBAStart     uint32
	TotalSectors uint32
}

// Bootable reports whether this entry is marked bootable: attribute high
// bit set and a non-zero type (spec §4.2).
func (p PartitionEntry) Bootable() bool {
	return p.Attrs&BootableFlag != 0 && p.Type != 0
}

// Empty reports whether this entry is unused (type 0).
func (p PartitionEntry) Empty() bool { return p.Type == 0 }

func (p PartitionEntry) encode() []byte {
	b := make([]byte, partitionEntrySize)
	b[0] = p.Attrs
	copy(b[1:4], p.CHSStart[:])
	b[4] = p.Type
	copy(b[5:8], p.CHSEnd[:])
	binary.LittleEndian.PutUint32(b[8:12], p.LBAStart)
	binary.LittleEndian.PutUint32(b[12:16], p.TotalSectors)
	return b
}

func decodePartitionEntry(b []byte) PartitionEntry {
	var p PartitionEntry
	p.Attrs = b[0]
	copy(p.CHSStart[:], b[1:4])
	p.Type = b[4]
	copy(p.CHSEnd[:], b[5:8])
	p.LBAStart = binary.LittleEndian.Uint32(b[8:12])
	p.TotalSectors = binary.LittleEndian.Uint32(b[12:16])
	return p
}

// MBR is a parsed 512-byte Master Boot Record (spec §3).
type MBR struct {
	BootCode      [440]byte
	DiskSignature uint32
	Partitions    [numPartitions]PartitionEntry
}

// Parse validates and decodes a 512-byte MBR sector.
//
// At least one partition entry must have a non-zero type (spec §4.2);
// an all-empty partition table is rejected as not a valid MBR for this
// boot path, since there would be nothing to chain-load.
func Parse(sector []byte) (*MBR, error) {
	if len(sector) != SectorSize {
		return nil, fmt.Errorf("mbr: sector must be %d bytes, got %d", SectorSize, len(sector))
	}
	if sig := binary.LittleEndian.Uint16(sector[offsetSignature : offsetSignature+2]); sig != BootSignature {
		return nil, fmt.Errorf("mbr: bad boot signature 0x%04x, want 0x%04x", sig, BootSignature)
	}

	var m MBR
	copy(m.BootCode[:], sector[offsetBootCode:offsetBootCode+440])
	m.DiskSignature = binary.LittleEndian.Uint32(sector[offsetDiskSignature : offsetDiskSignature+4])

	anyValid := false
	for i := 0; i < numPartitions; i++ {
		off := offsetPartitions + i*partitionEntrySize
		entry := decodePartitionEntry(sector[off : off+partitionEntrySize])
		m.Partitions[i] = entry
		if !entry.Empty() {
			anyValid = true
		}
	}
	if !anyValid {
		return nil, fmt.Errorf("mbr: no partition entry has a non-zero type")
	}
	return &m, nil
}

// Bytes encodes m back to its 512-byte on-disk form.
func (m *MBR) Bytes() []byte {
	sector := make([]byte, SectorSize)
	copy(sector[offsetBootCode:], m.BootCode[:])
	binary.LittleEndian.PutUint32(sector[offsetDiskSignature:offsetDiskSignature+4], m.DiskSignature)
	for i, entry := range m.Partitions {
		off := offsetPartitions + i*partitionEntrySize
		copy(sector[off:off+partitionEntrySize], entry.encode())
	}
	binary.LittleEndian.PutUint16(sector[offsetSignature:offsetSignature+2], BootSignature)
	return sector
}

// Iter calls fn for every partition entry, in table order, stopping early
// if fn returns false. Lets callers apply their own bootable-selection
// policy instead of this package hardcoding one (spec §4.2).
func (m *MBR) Iter(fn func(index int, entry PartitionEntry) bool) {
	for i, entry := range m.Partitions {
		if !fn(i, entry) {
			return
		}
	}
}

// BootablePartition returns the first entry marked bootable, per spec
// §4.2's definition (attribute high bit set, non-zero type).
func (m *MBR) BootablePartition() (PartitionEntry, int, error) {
	for i, entry := range m.Partitions {
		if entry.Bootable() {
			return entry, i, nil
		}
	}
	return PartitionEntry{}, -1, fmt.Errorf("mbr: no bootable partition found")
}
