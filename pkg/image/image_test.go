package image

import (
	"bytes"
	"strings"
	"testing"

	"github.com/ignisboot/ignis/pkg/mbr"
)

func TestBuildLayoutAndPartitionEntry(t *testing.T) {
	stage2 := bytes.Repeat([]byte{0xAA}, SectorSize*2)
	fatImage := bytes.Repeat([]byte{0xBB}, SectorSize*4)

	b := Builder{DiskSig: 0xCAFEBABE, Stage2: stage2, FATImage: fatImage}
	b.Stage1Code[0] = 0xFA

	out, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}

	wantLen := uint64(SectorSize + len(stage2) + len(fatImage))
	if uint64(len(out)) != wantLen {
		t.Fatalf("expected image length %d, got %d", wantLen, len(out))
	}

	m, err := mbr.Parse(out[:SectorSize])
	if err != nil {
		t.Fatal(err)
	}
	if m.DiskSignature != 0xCAFEBABE {
		t.Fatalf("unexpected disk signature: %#x", m.DiskSignature)
	}
	if m.Partitions[0].LBAStart != 3 {
		t.Fatalf("expected FAT partition to start at LBA 3, got %d", m.Partitions[0].LBAStart)
	}
	if !m.Partitions[0].Bootable() {
		t.Fatal("expected partition 0 to be bootable")
	}

	gotStage2 := out[SectorSize : SectorSize+len(stage2)]
	if !bytes.Equal(gotStage2, stage2) {
		t.Fatal("stage-2 region mismatch")
	}
	gotFAT := out[SectorSize+len(stage2):]
	if !bytes.Equal(gotFAT, fatImage) {
		t.Fatal("FAT region mismatch")
	}
}

func TestBuildRejectsNonSectorAlignedStage2(t *testing.T) {
	b := Builder{Stage2: make([]byte, 100), FATImage: make([]byte, SectorSize)}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for non-sector-aligned stage-2 blob")
	}
}

func TestBuildRejectsNonSectorAlignedFAT(t *testing.T) {
	b := Builder{Stage2: make([]byte, SectorSize), FATImage: make([]byte, 100)}
	if _, err := b.Build(); err == nil {
		t.Fatal("expected error for non-sector-aligned FAT image")
	}
}

func TestSummaryLineReportsAllThreeRegions(t *testing.T) {
	line := SummaryLine(1024, 2048)
	if line == "" {
		t.Fatal("expected a non-empty summary line")
	}
	for _, want := range []string{"mbr=", "stage2=", "fat="} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in summary line %q", want, line)
		}
	}
}
