package fat

import (
	"encoding/binary"
	"fmt"
)

// SectorReader reads raw sectors off the underlying volume. The
// ignisctl inspect command implements this over an in-memory disk image.
type SectorReader interface {
	ReadSectors(lba uint32, count int) ([]byte, error)
}

// Volume ties a BPB to the sector reader backing it, and is the handle
// every chain/dirent operation in this package takes.
type Volume struct {
	BPB    BPB
	Kind   Kind
	Reader SectorReader

	fatTable []byte // cached contents of the first FAT
}

// OpenVolume parses the boot sector and loads the first FAT table into
// memory; FAT tables are small enough (at most a few hundred KiB even for
// large FAT32 volumes) that this module never needs partial/streamed FAT
// reads (spec §4.3 Non-goals).
func OpenVolume(r SectorReader) (*Volume, error) {
	bootSector, err := r.ReadSectors(0, 1)
	if err != nil {
		return nil, fmt.Errorf("fat: reading boot sector: %w", err)
	}
	bpb, err := ParseBPB(bootSector)
	if err != nil {
		return nil, err
	}
	v := &Volume{BPB: bpb, Kind: bpb.ClassifyKind(), Reader: r}

	fatSectors := bpb.SectorsPerFAT()
	fatBytes, err := r.ReadSectors(uint32(bpb.ReservedSectors), int(fatSectors))
	if err != nil {
		return nil, fmt.Errorf("fat: reading FAT table: %w", err)
	}
	v.fatTable = fatBytes
	return v, nil
}

// clusterEntry reads the raw next-cluster value for cluster n from the
// cached FAT table.
func (v *Volume) clusterEntry(n uint32) (uint32, error) {
	switch v.Kind {
	case KindFAT12:
		off := n + n/2 // n * 1.5, truncated
		if int(off)+1 >= len(v.fatTable) {
			return 0, fmt.Errorf("fat: cluster %d out of FAT12 table range", n)
		}
		val := binary.LittleEndian.Uint16(v.fatTable[off : off+2])
		if n%2 == 0 {
			return uint32(val & 0x0FFF), nil
		}
		return uint32(val >> 4), nil
	case KindFAT16:
		off := n * 2
		if int(off)+2 > len(v.fatTable) {
			return 0, fmt.Errorf("fat: cluster %d out of FAT16 table range", n)
		}
		return uint32(binary.LittleEndian.Uint16(v.fatTable[off : off+2])), nil
	default:
		off := n * 4
		if int(off)+4 > len(v.fatTable) {
			return 0, fmt.Errorf("fat: cluster %d out of FAT32 table range", n)
		}
		return binary.LittleEndian.Uint32(v.fatTable[off:off+4]) & 0x0FFFFFFF, nil
	}
}

// ClusterToSector converts a cluster number to its first absolute LBA.
func (v *Volume) ClusterToSector(cluster uint32) uint32 {
	return v.BPB.FirstDataSector() + (cluster-2)*uint32(v.BPB.SectorsPerCluster)
}

// ReadChain follows the cluster chain starting at startCluster and
// returns the concatenated raw bytes of every cluster in it, in order
// (spec §4.3). Bad or out-of-range cluster values abort the read instead
// of silently truncating, since a torn chain means the file's own
// metadata disagrees with the volume's FAT.
func (v *Volume) ReadChain(startCluster uint32) ([]byte, error) {
	var out []byte
	cluster := startCluster
	clusterBytes := int(v.BPB.SectorsPerCluster) * int(v.BPB.BytesPerSector)
	seen := make(map[uint32]bool)

	for {
		if IsEndOfChain(v.Kind, cluster) {
			break
		}
		if IsBadCluster(v.Kind, cluster) {
			return nil, fmt.Errorf("fat: chain references bad cluster %d", cluster)
		}
		if seen[cluster] {
			return nil, fmt.Errorf("fat: cluster chain loops at cluster %d", cluster)
		}
		seen[cluster] = true

		lba := v.ClusterToSector(cluster)
		data, err := v.Reader.ReadSectors(lba, int(v.BPB.SectorsPerCluster))
		if err != nil {
			return nil, fmt.Errorf("fat: reading cluster %d: %w", cluster, err)
		}
		out = append(out, data[:clusterBytes]...)

		next, err := v.clusterEntry(cluster)
		if err != nil {
			return nil, err
		}
		cluster = next
	}
	return out, nil
}

// RootDirectoryBytes returns the raw bytes of the root directory region:
// a fixed sector range on FAT12/16, or a normal cluster chain on FAT32
// (spec §4.3).
func (v *Volume) RootDirectoryBytes() ([]byte, error) {
	if v.Kind == KindFAT32 {
		return v.ReadChain(v.BPB.RootCluster)
	}
	rootStart := v.BPB.FirstDataSector() - v.BPB.RootDirSectors()
	return v.Reader.ReadSectors(rootStart, int(v.BPB.RootDirSectors()))
}
