// Package fat implements FAT12/16/32 boot-sector parsing, cluster-chain
// arithmetic, directory-entry decoding, and long-file-name reconstruction
// (C2 part 2, spec §4.3).
//
// Grounded on ostafen-digler's internal/disk/fat.go (FatBootSector field
// layout and EOC/bad-cluster constants) and rjosephwright-go-diskfs's
// filesystem/fat32/dos71bpb.go (the DOS 3.31 / DOS 7.1 EBPB split and its
// manual binary.LittleEndian field-range decoding style).
package fat

import (
	"encoding/binary"
	"fmt"
)

// Kind identifies which FAT variant a volume uses.
type Kind int

const (
	KindFAT12 Kind = iota
	KindFAT16
	KindFAT32
)

func (k Kind) String() string {
	switch k {
	case KindFAT12:
		return "FAT12"
	case KindFAT16:
		return "FAT16"
	case KindFAT32:
		return "FAT32"
	default:
		return "unknown"
	}
}

// End-of-chain and bad-cluster marker thresholds per variant (spec §4.3).
// A cluster number at or above the EOC threshold (and not a bad-cluster
// value) ends the chain.
const (
	fat12EOC = 0x0FF8
	fat12Bad = 0x0FF7
	fat16EOC = 0xFFF8
	fat16Bad = 0xFFF7
	fat32EOC = 0x0FFFFFF8
	fat32Bad = 0x0FFFFFF7
)

// BPB is the decoded DOS 3.31 BIOS Parameter Block common to all three
// FAT variants (boot sector bytes 0x0B..0x24), per spec §3.
type BPB struct {
	BytesPerSector    uint16
	SectorsPerCluster uint8
	ReservedSectors   uint16
	NumFATs           uint8
	RootEntries       uint16 // 0 on FAT32
	TotalSectors16    uint16
	SectorsPerFAT16   uint16 // 0 on FAT32
	TotalSectors32    uint32

	// FAT32-only extended fields (zero-valued for FAT12/16).
	SectorsPerFAT32  uint32
	RootCluster      uint32
	FSInfoSector     uint16
	BackupBootSector uint16
}

const bpbOffset = 0x0B
const bpbLength = 25 // bytes 0x0B..0x24, the shared DOS 3.31 fields

// ParseBPB decodes the common BPB fields from a 512-byte boot sector.
func ParseBPB(sector []byte) (BPB, error) {
	if len(sector) < 512 {
		return BPB{}, fmt.Errorf("fat: boot sector must be at least 512 bytes, got %d", len(sector))
	}
	b := sector[bpbOffset : bpbOffset+bpbLength]

	bpb := BPB{
		BytesPerSector:    binary.LittleEndian.Uint16(b[0:2]),
		SectorsPerCluster: b[2],
		ReservedSectors:   binary.LittleEndian.Uint16(b[3:5]),
		NumFATs:           b[5],
		RootEntries:       binary.LittleEndian.Uint16(b[6:8]),
		TotalSectors16:    binary.LittleEndian.Uint16(b[8:10]),
		SectorsPerFAT16:   binary.LittleEndian.Uint16(b[11:13]),
		TotalSectors32:    binary.LittleEndian.Uint32(b[21:25]),
	}
	if bpb.BytesPerSector == 0 {
		return BPB{}, fmt.Errorf("fat: bytes-per-sector must be non-zero")
	}
	if bpb.SectorsPerCluster == 0 {
		return BPB{}, fmt.Errorf("fat: sectors-per-cluster must be non-zero")
	}
	if bpb.NumFATs == 0 {
		return BPB{}, fmt.Errorf("fat: number of FATs must be non-zero")
	}

	if bpb.SectorsPerFAT16 == 0 {
		// FAT32 EBPB immediately follows the shared BPB at offset 0x24.
		ext := sector[0x24:0x34]
		bpb.SectorsPerFAT32 = binary.LittleEndian.Uint32(ext[0:4])
		bpb.RootCluster = binary.LittleEndian.Uint32(ext[8:12])
		bpb.FSInfoSector = binary.LittleEndian.Uint16(ext[12:14])
		bpb.BackupBootSector = binary.LittleEndian.Uint16(ext[14:16])
		if bpb.SectorsPerFAT32 == 0 {
			return BPB{}, fmt.Errorf("fat: FAT32 volume must declare sectors-per-FAT32")
		}
	}
	return bpb, nil
}

// TotalSectors resolves whichever of the 16/32-bit total-sector fields is
// populated, per the standard FAT convention (spec §4.3).
func (b BPB) TotalSectors() uint32 {
	if b.TotalSectors16 != 0 {
		return uint32(b.TotalSectors16)
	}
	return b.TotalSectors32
}

// SectorsPerFAT resolves the 16 or 32-bit sectors-per-FAT field.
func (b BPB) SectorsPerFAT() uint32 {
	if b.SectorsPerFAT16 != 0 {
		return uint32(b.SectorsPerFAT16)
	}
	return b.SectorsPerFAT32
}

// RootDirSectors is the number of sectors the fixed-size root directory
// occupies; zero on FAT32, where the root directory is an ordinary
// cluster chain instead.
func (b BPB) RootDirSectors() uint32 {
	bytes := uint32(b.RootEntries) * 32
	return (bytes + uint32(b.BytesPerSector) - 1) / uint32(b.BytesPerSector)
}

// FirstDataSector returns the sector number where cluster 2 begins.
func (b BPB) FirstDataSector() uint32 {
	return b.ReservedSectors_() + b.NumFATs_()*b.SectorsPerFAT() + b.RootDirSectors()
}

func (b BPB) ReservedSectors_() uint32 { return uint32(b.ReservedSectors) }
func (b BPB) NumFATs_() uint32         { return uint32(b.NumFATs) }

// DataClusterCount returns the number of clusters in the data region,
// used to classify the FAT kind per Microsoft's own threshold rule
// (spec §4.3): count < 4085 -> FAT12, < 65525 -> FAT16, else FAT32.
func (b BPB) DataClusterCount() uint32 {
	total := b.TotalSectors()
	dataSectors := total - b.FirstDataSector()
	return dataSectors / uint32(b.SectorsPerCluster)
}

// ClassifyKind determines the FAT variant using the cluster-count
// threshold rule rather than trusting any on-disk type label, since the
// BPB's own FAT32-EBPB-present check already narrows it to FAT12/16 vs
// FAT32; this refines the FAT12 vs FAT16 boundary (spec §4.3).
func (b BPB) ClassifyKind() Kind {
	if b.SectorsPerFAT16 == 0 {
		return KindFAT32
	}
	count := b.DataClusterCount()
	if count < 4085 {
		return KindFAT12
	}
	if count < 65525 {
		return KindFAT16
	}
	return KindFAT32
}

// IsEndOfChain reports whether cluster value v terminates a chain for the
// given FAT kind.
func IsEndOfChain(k Kind, v uint32) bool {
	switch k {
	case KindFAT12:
		return v >= fat12EOC
	case KindFAT16:
		return v >= fat16EOC
	default:
		return v >= fat32EOC
	}
}

// IsBadCluster reports whether cluster value v is the variant's
// bad-cluster sentinel.
func IsBadCluster(k Kind, v uint32) bool {
	switch k {
	case KindFAT12:
		return v == fat12Bad
	case KindFAT16:
		return v == fat16Bad
	default:
		return v == fat32Bad
	}
}
