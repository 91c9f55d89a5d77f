package pagetable

import "testing"

func TestBuildIdentityMapCoversRequestedGiB(t *testing.T) {
	tbl := BuildIdentityMap(3)
	if len(tbl.PDs) != 3 {
		t.Fatalf("expected 3 PD tables, got %d", len(tbl.PDs))
	}
}

func TestBuildIdentityMapEntriesAreHugeAndPresent(t *testing.T) {
	tbl := BuildIdentityMap(1)
	for i, entry := range tbl.PDs[0] {
		if entry&FlagPresent == 0 {
			t.Fatalf("entry %d missing present flag", i)
		}
		if entry&FlagHuge == 0 {
			t.Fatalf("entry %d missing huge-page flag", i)
		}
	}
}

func TestBuildIdentityMapAddressesAreSequential2MiBSteps(t *testing.T) {
	tbl := BuildIdentityMap(1)
	for i := 0; i < entriesPerTable; i++ {
		wantAddr := uint64(i) * pageSize2MiB
		gotAddr := tbl.PDs[0][i] &^ 0xFFF
		if gotAddr != wantAddr {
			t.Fatalf("entry %d: want addr 0x%x got 0x%x", i, wantAddr, gotAddr)
		}
	}
}

func TestBuildIdentityMapSecondGiBOffsets(t *testing.T) {
	tbl := BuildIdentityMap(2)
	firstAddrOfSecondGiB := tbl.PDs[1][0] &^ 0xFFF
	if firstAddrOfSecondGiB != gib {
		t.Fatalf("expected second PD to start at 1 GiB, got 0x%x", firstAddrOfSecondGiB)
	}
}

func TestIdempotent(t *testing.T) {
	if !Idempotent(2) {
		t.Fatal("expected identity map construction to be idempotent")
	}
}

func TestLinkPopulatesPML4AndPDPT(t *testing.T) {
	tbl := BuildIdentityMap(2)
	err := tbl.Link(0x2000, []uint64{0x3000, 0x4000})
	if err != nil {
		t.Fatal(err)
	}
	if tbl.PML4[0]&^0xFFF != 0x2000 {
		t.Fatalf("unexpected PML4 entry: %#x", tbl.PML4[0])
	}
	if tbl.PDPT[0]&^0xFFF != 0x3000 || tbl.PDPT[1]&^0xFFF != 0x4000 {
		t.Fatalf("unexpected PDPT entries: %#x %#x", tbl.PDPT[0], tbl.PDPT[1])
	}
}

func TestLinkRejectsMismatchedCount(t *testing.T) {
	tbl := BuildIdentityMap(2)
	if err := tbl.Link(0x2000, []uint64{0x3000}); err == nil {
		t.Fatal("expected error for mismatched PD address count")
	}
}

func TestBytesIs4096BytesPerTable(t *testing.T) {
	tbl := BuildIdentityMap(1)
	if len(tbl.PDs[0].Bytes()) != 4096 {
		t.Fatalf("expected 4096-byte table encoding, got %d", len(tbl.PDs[0].Bytes()))
	}
}
