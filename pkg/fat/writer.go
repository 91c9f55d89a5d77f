package fat

import (
	"encoding/binary"
	"fmt"
	"strings"
)

// File is one named entry for BuildVolume's root directory. Name must
// already be a valid 8.3 short name (at most 8 base characters, at
// most 3 extension characters) — this package has no long-file-name
// encoder, matching the build orchestrator's own fixed, small file set
// (spec §4.7: kernel.elf, stage3.bin, config.cfg, optional payload).
type File struct {
	Name string
	Data []byte
}

// WriteOptions controls the geometry BuildVolume otherwise defaults.
type WriteOptions struct {
	SectorsPerCluster uint8  // default 1
	RootEntries       uint16 // default 16, rounded up to a whole sector
}

const writerSectorSize = 512

// BuildVolume assembles a minimal FAT12 volume (boot sector, two FAT
// copies, a fixed-size root directory, and a data region) holding
// files in its root directory. The counterpart to this package's read
// side: the same BPB field offsets (bpb.go) and the same FAT12
// entry-packing chain.go decodes, written instead of parsed. This
// repo's pack has no FAT *writer* reference to ground against, so the
// encode side mirrors this package's own decode logic byte-for-byte
// rather than a second example (spec §4.7's "assemble a
// FAT-formatted disk image").
func BuildVolume(files []File, opts WriteOptions) ([]byte, error) {
	if opts.SectorsPerCluster == 0 {
		opts.SectorsPerCluster = 1
	}
	if opts.RootEntries == 0 {
		opts.RootEntries = 16
	}
	clusterBytes := int(opts.SectorsPerCluster) * writerSectorSize

	type placement struct {
		file      File
		shortName string
		shortExt  string
		startClu  uint32
		numClu    uint32
	}
	if len(files) > int(opts.RootEntries) {
		return nil, fmt.Errorf("fat: %d files exceed the %d-entry root directory", len(files), opts.RootEntries)
	}

	placements := make([]placement, 0, len(files))
	nextCluster := uint32(2)
	for _, f := range files {
		name, ext, err := splitShortName(f.Name)
		if err != nil {
			return nil, err
		}
		numClu := uint32((len(f.Data) + clusterBytes - 1) / clusterBytes)
		if numClu == 0 {
			numClu = 1 // a zero-length file still owns a cluster
		}
		placements = append(placements, placement{file: f, shortName: name, shortExt: ext, startClu: nextCluster, numClu: numClu})
		nextCluster += numClu
	}
	dataClusters := nextCluster - 2

	const reservedSectors = 1
	const numFATs = 2
	rootDirSectors := (uint32(opts.RootEntries)*direntSize + writerSectorSize - 1) / writerSectorSize

	// FAT12 entries pack 1.5 bytes each; size the table for every
	// allocatable cluster plus the two reserved entries (0 and 1).
	fatEntries := dataClusters + 2
	fatBytes := (fatEntries*3 + 1) / 2
	sectorsPerFAT := (fatBytes + writerSectorSize - 1) / writerSectorSize
	if sectorsPerFAT == 0 {
		sectorsPerFAT = 1
	}

	totalSectors := reservedSectors + numFATs*sectorsPerFAT + rootDirSectors +
		dataClusters*uint32(opts.SectorsPerCluster)

	out := make([]byte, uint64(totalSectors)*writerSectorSize)

	boot := out[0:writerSectorSize]
	binary.LittleEndian.PutUint16(boot[0x0B:0x0D], writerSectorSize)
	boot[0x0D] = opts.SectorsPerCluster
	binary.LittleEndian.PutUint16(boot[0x0E:0x10], reservedSectors)
	boot[0x10] = numFATs
	binary.LittleEndian.PutUint16(boot[0x11:0x13], opts.RootEntries)
	if totalSectors <= 0xFFFF {
		binary.LittleEndian.PutUint16(boot[0x13:0x15], uint16(totalSectors))
	} else {
		binary.LittleEndian.PutUint32(boot[0x20:0x24], totalSectors)
	}
	binary.LittleEndian.PutUint16(boot[0x16:0x18], uint16(sectorsPerFAT))
	boot[0x1FE] = 0x55
	boot[0x1FF] = 0xAA

	fatTable := make([]byte, sectorsPerFAT*writerSectorSize)
	setFAT12Entry(fatTable, 0, 0x0FF8) // media descriptor byte 0xF8, fixed disk
	setFAT12Entry(fatTable, 1, 0x0FFF) // reserved, conventionally all-ones

	rootStart := reservedSectors + numFATs*sectorsPerFAT
	dataStart := rootStart + rootDirSectors
	rootDir := make([]byte, rootDirSectors*writerSectorSize)

	clusterSector := func(c uint32) uint32 {
		return dataStart + (c-2)*uint32(opts.SectorsPerCluster)
	}

	for i, p := range placements {
		for c := uint32(0); c < p.numClu; c++ {
			cur := p.startClu + c
			if c == p.numClu-1 {
				setFAT12Entry(fatTable, cur, fat12EOC)
			} else {
				setFAT12Entry(fatTable, cur, cur+1)
			}
		}

		entry := rootDir[i*direntSize : (i+1)*direntSize]
		copy(entry[0:8], padName(p.shortName, 8))
		copy(entry[8:11], padName(p.shortExt, 3))
		entry[11] = AttrArchive
		binary.LittleEndian.PutUint16(entry[20:22], uint16(p.startClu>>16))
		binary.LittleEndian.PutUint16(entry[26:28], uint16(p.startClu))
		binary.LittleEndian.PutUint32(entry[28:32], uint32(len(p.file.Data)))

		sector := clusterSector(p.startClu)
		copy(out[uint64(sector)*writerSectorSize:], p.file.Data)
	}

	for i := 0; i < numFATs; i++ {
		off := uint64(reservedSectors+uint32(i)*sectorsPerFAT) * writerSectorSize
		copy(out[off:], fatTable)
	}
	copy(out[uint64(rootStart)*writerSectorSize:], rootDir)

	return out, nil
}

// setFAT12Entry writes value into cluster entry n, preserving the
// neighboring nibble the two adjacent entries share — the exact mirror
// of clusterEntry's FAT12 decode in chain.go.
func setFAT12Entry(table []byte, n uint32, value uint32) {
	off := n + n/2
	if int(off)+2 > len(table) {
		return
	}
	cur := binary.LittleEndian.Uint16(table[off : off+2])
	if n%2 == 0 {
		cur = (cur &^ 0x0FFF) | uint16(value&0x0FFF)
	} else {
		cur = (cur &^ 0xFFF0) | (uint16(value&0x0FFF) << 4)
	}
	binary.LittleEndian.PutUint16(table[off:off+2], cur)
}

// splitShortName splits "NAME.EXT" into its 8.3 components, rejecting
// anything that can't fit a short directory entry.
func splitShortName(full string) (name, ext string, err error) {
	dot := strings.LastIndexByte(full, '.')
	if dot < 0 {
		name, ext = full, ""
	} else {
		name, ext = full[:dot], full[dot+1:]
	}
	if len(name) == 0 || len(name) > 8 || len(ext) > 3 {
		return "", "", fmt.Errorf("fat: %q is not a valid 8.3 short name", full)
	}
	return name, ext, nil
}

// padName upper-cases s and right-pads it with spaces to width, the
// fixed-width encoding a short directory entry's name/extension use.
func padName(s string, width int) []byte {
	out := make([]byte, width)
	for i := range out {
		out[i] = ' '
	}
	copy(out, strings.ToUpper(s))
	return out
}
