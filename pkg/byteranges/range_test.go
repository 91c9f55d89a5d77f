package byteranges

import "testing"

func TestIntersect(t *testing.T) {
	a := Range{Offset: 0, Length: 512}
	b := Range{Offset: 512, Length: 1024}
	if a.Intersect(b) {
		t.Fatal("adjacent ranges must not intersect")
	}
	c := Range{Offset: 511, Length: 2}
	if !a.Intersect(c) {
		t.Fatal("overlapping ranges must intersect")
	}
}

func TestAnyOverlapDetectsDiskLayoutCollision(t *testing.T) {
	mbrRegion := Range{Offset: 0, Length: 512}
	stage2Region := Range{Offset: 512, Length: 8192}
	fatRegion := Range{Offset: 8000, Length: 1 << 20} // deliberately overlaps stage2

	rs := Ranges{mbrRegion, stage2Region, fatRegion}
	_, _, overlap := rs.AnyOverlap()
	if !overlap {
		t.Fatal("expected overlap to be detected")
	}
}

func TestAnyOverlapCleanLayout(t *testing.T) {
	rs := Ranges{
		{Offset: 0, Length: 512},
		{Offset: 512, Length: 8192},
		{Offset: 8704, Length: 1 << 20},
	}
	_, _, overlap := rs.AnyOverlap()
	if overlap {
		t.Fatal("did not expect overlap in a disjoint layout")
	}
}

func TestMergeRanges(t *testing.T) {
	in := Ranges{{Offset: 0, Length: 10}, {Offset: 10, Length: 10}, {Offset: 100, Length: 5}}
	out := MergeRanges(in, 0)
	if len(out) != 2 {
		t.Fatalf("expected 2 merged ranges, got %d: %v", len(out), out)
	}
	if out[0] != (Range{Offset: 0, Length: 20}) {
		t.Fatalf("unexpected merge result: %v", out[0])
	}
}

func TestIsIn(t *testing.T) {
	rs := Ranges{{Offset: 100, Length: 10}}
	if !rs.IsIn(105) {
		t.Fatal("expected 105 to be in range")
	}
	if rs.IsIn(110) {
		t.Fatal("110 is exclusive end, must not be in range")
	}
}
