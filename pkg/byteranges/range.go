// Package byteranges provides the Range/Ranges helpers used to validate
// that regions of a disk image (the MBR, the stage-2 blob, the FAT
// partition) do not overlap.
//
// Adapted from the teacher's pkg/bytes/range.go (fiano uses this to
// reason about which byte ranges of a firmware image are covered by which
// firmware volume); the overlap/merge/sort logic carries over unchanged,
// renamed for this domain.
package byteranges

import (
	"fmt"
	"sort"
	"strings"
)

// Range is a half-open byte span [Offset, Offset+Length).
type Range struct {
	Offset uint64
	Length uint64
}

// End returns the exclusive end offset of the range.
func (r Range) End() uint64 {
	return r.Offset + r.Length
}

func (r Range) String() string {
	return fmt.Sprintf("[0x%x, 0x%x)", r.Offset, r.End())
}

// Intersect reports whether r and cmp share at least one byte.
func (r Range) Intersect(cmp Range) bool {
	if r.Length == 0 || cmp.Length == 0 {
		return false
	}
	if r.End() <= cmp.Offset {
		return false
	}
	if r.Offset >= cmp.End() {
		return false
	}
	return true
}

// Ranges is a collection of Range, typically the regions of a disk image.
type Ranges []Range

func (s Ranges) String() string {
	parts := make([]string, 0, len(s))
	for _, r := range s {
		parts = append(parts, r.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// Sort orders the ranges by Offset.
func (s Ranges) Sort() {
	sort.Slice(s, func(i, j int) bool { return s[i].Offset < s[j].Offset })
}

// AnyOverlap reports whether any two ranges in s intersect. Used by the
// image builder (pkg/image) to assert the MBR, stage-2, and FAT regions
// of the assembled disk are disjoint before writing.
func (s Ranges) AnyOverlap() (Range, Range, bool) {
	sorted := make(Ranges, len(s))
	copy(sorted, s)
	sorted.Sort()
	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].Intersect(sorted[i]) {
			return sorted[i-1], sorted[i], true
		}
	}
	return Range{}, Range{}, false
}

// MergeRanges merges ranges in sorted input whose gap is <= mergeDistance.
func MergeRanges(in Ranges, mergeDistance uint64) Ranges {
	if len(in) < 2 {
		return in
	}
	var result Ranges
	entry := in[0]
	for _, next := range in[1:] {
		if entry.End()+mergeDistance >= next.Offset {
			if next.End() > entry.End() {
				entry.Length = next.End() - entry.Offset
			}
			continue
		}
		result = append(result, entry)
		entry = next
	}
	result = append(result, entry)
	return result
}

// IsIn reports whether index falls within any range in s.
func (s Ranges) IsIn(index uint64) bool {
	for _, r := range s {
		if r.Offset <= index && index < r.End() {
			return true
		}
	}
	return false
}
