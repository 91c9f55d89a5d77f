package mbr

import "testing"

func buildSector(entries [numPartitions]PartitionEntry, sig uint16) []byte {
	m := &MBR{DiskSignature: 0xDEADBEEF, Partitions: entries}
	b := m.Bytes()
	if sig != BootSignature {
		b[offsetSignature] = byte(sig)
		b[offsetSignature+1] = byte(sig >> 8)
	}
	return b
}

func TestParseRoundTrip(t *testing.T) {
	var entries [numPartitions]PartitionEntry
	entries[0] = PartitionEntry{Attrs: BootableFlag, Type: 0x0C, LBAStart: 2048, TotalSectors: 204800}
	sector := buildSector(entries, BootSignature)

	m, err := Parse(sector)
	if err != nil {
		t.Fatal(err)
	}
	if m.DiskSignature != 0xDEADBEEF {
		t.Fatalf("unexpected disk signature: %#x", m.DiskSignature)
	}
	if m.Partitions[0].LBAStart != 2048 || m.Partitions[0].TotalSectors != 204800 {
		t.Fatalf("unexpected partition 0: %+v", m.Partitions[0])
	}
}

func TestParseRejectsWrongLength(t *testing.T) {
	if _, err := Parse(make([]byte, 511)); err == nil {
		t.Fatal("expected error for short sector")
	}
}

func TestParseRejectsBadSignature(t *testing.T) {
	var entries [numPartitions]PartitionEntry
	entries[0] = PartitionEntry{Type: 0x0C, LBAStart: 1, TotalSectors: 1}
	sector := buildSector(entries, 0x1234)
	if _, err := Parse(sector); err == nil {
		t.Fatal("expected error for bad boot signature")
	}
}

func TestParseRejectsAllEmptyPartitions(t *testing.T) {
	var entries [numPartitions]PartitionEntry
	sector := buildSector(entries, BootSignature)
	if _, err := Parse(sector); err == nil {
		t.Fatal("expected error for all-empty partition table")
	}
}

func TestBootablePartitionRequiresFlagAndType(t *testing.T) {
	var entries [numPartitions]PartitionEntry
	entries[0] = PartitionEntry{Type: 0x0C, LBAStart: 1, TotalSectors: 1} // not bootable: no flag
	entries[1] = PartitionEntry{Attrs: BootableFlag, Type: 0x07, LBAStart: 2048, TotalSectors: 99999}
	m := &MBR{Partitions: entries}

	p, idx, err := m.BootablePartition()
	if err != nil {
		t.Fatal(err)
	}
	if idx != 1 {
		t.Fatalf("expected index 1, got %d", idx)
	}
	if p.LBAStart != 2048 {
		t.Fatalf("unexpected bootable partition: %+v", p)
	}
}

func TestBootablePartitionNoneFound(t *testing.T) {
	var entries [numPartitions]PartitionEntry
	entries[0] = PartitionEntry{Type: 0x0C, LBAStart: 1, TotalSectors: 1}
	m := &MBR{Partitions: entries}
	if _, _, err := m.BootablePartition(); err == nil {
		t.Fatal("expected error when no partition is bootable")
	}
}

func TestIterStopsEarly(t *testing.T) {
	var entries [numPartitions]PartitionEntry
	entries[0] = PartitionEntry{Type: 0x0C}
	entries[1] = PartitionEntry{Type: 0x07}
	m := &MBR{Partitions: entries}

	var visited []int
	m.Iter(func(index int, entry PartitionEntry) bool {
		visited = append(visited, index)
		return index < 0 // stop immediately after the first
	})
	if len(visited) != 1 {
		t.Fatalf("expected Iter to stop after 1 call, visited %v", visited)
	}
}
