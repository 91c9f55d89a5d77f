package elftour

import (
	"testing"

	"github.com/go-restruct/restruct"
)

func buildELF(t *testing.T, phdrs []ProgramHeader64, entry uint64) []byte {
	t.Helper()

	ident := identHeader{Magic: elfMagic, Class: uint8(Class64), Endian: uint8(EndianLittle)}
	identBytes, err := restruct.Pack(littleEndian, &ident)
	if err != nil {
		t.Fatal(err)
	}

	const phdrOff = identSize + elf64HeaderSize
	header := elf64Header{
		EntryOffset:           entry,
		ProgramHeaderOffset:   uint64(phdrOff),
		ProgramHeaderEntSize:  programHeader64Size,
		ProgramHeaderEntCount: uint16(len(phdrs)),
	}
	headerBytes, err := restruct.Pack(littleEndian, &header)
	if err != nil {
		t.Fatal(err)
	}

	data := append([]byte{}, identBytes...)
	data = append(data, headerBytes...)
	for _, ph := range phdrs {
		phBytes, err := restruct.Pack(littleEndian, &ph)
		if err != nil {
			t.Fatal(err)
		}
		data = append(data, phBytes...)
	}
	return data
}

func TestParseRejectsBadMagic(t *testing.T) {
	if _, err := Parse(make([]byte, 64)); err == nil {
		t.Fatal("expected error for all-zero (bad magic) data")
	}
}

func TestParseRejectsShortData(t *testing.T) {
	if _, err := Parse(make([]byte, 4)); err == nil {
		t.Fatal("expected error for data shorter than the identification header")
	}
}

func TestParseAndEntry(t *testing.T) {
	data := buildELF(t, nil, 0xFFFFFFFF80001000)
	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	if f.Entry() != 0xFFFFFFFF80001000 {
		t.Fatalf("unexpected entry point: %#x", f.Entry())
	}
}

func TestLoadableSegmentsFiltersKind(t *testing.T) {
	loadSeg := ProgramHeader64{Kind: SegmentLoad, VirtAddr: 0x100000, FileOff: 0, FileSize: 16, MemSize: 16}
	noteSeg := ProgramHeader64{Kind: SegmentNote}
	data := buildELF(t, []ProgramHeader64{loadSeg, noteSeg}, 0x100000)

	f, err := Parse(data)
	if err != nil {
		t.Fatal(err)
	}
	loads, err := f.LoadableSegments()
	if err != nil {
		t.Fatal(err)
	}
	if len(loads) != 1 || loads[0].Kind != SegmentLoad {
		t.Fatalf("expected exactly one LOAD segment, got %+v", loads)
	}
}

func TestBuildLoadPlanRejectsFileSizeExceedingMemSize(t *testing.T) {
	f := &File{data: make([]byte, 4096)}
	ph := ProgramHeader64{Kind: SegmentLoad, FileOff: 0, FileSize: 100, MemSize: 10}
	if _, err := f.BuildLoadPlan(ph); err == nil {
		t.Fatal("expected error when file_size exceeds mem_size")
	}
}

func TestLoadPlanApplyZeroFillsBSS(t *testing.T) {
	plan := LoadPlan{VirtAddr: 0x1000, FileBytes: []byte{1, 2, 3}, MemSize: 6}
	dst := make([]byte, 6)
	for i := range dst {
		dst[i] = 0xFF
	}
	if err := plan.Apply(dst); err != nil {
		t.Fatal(err)
	}
	want := []byte{1, 2, 3, 0, 0, 0}
	for i, b := range want {
		if dst[i] != b {
			t.Fatalf("byte %d: got %#x want %#x", i, dst[i], b)
		}
	}
}

func TestLoadPlanApplyRejectsUndersizedDest(t *testing.T) {
	plan := LoadPlan{FileBytes: []byte{1}, MemSize: 10}
	if err := plan.Apply(make([]byte, 5)); err == nil {
		t.Fatal("expected error for undersized destination")
	}
}
