package patch

import "sort"

// SortHunks orders hunks ascending by start line and verifies they are
// pairwise non-overlapping in original-file coordinates. The returned slice
// is the input, sorted in place.
func SortHunks(hunks []Hunk) ([]Hunk, error) {
	sort.SliceStable(hunks, func(i, j int) bool {
		if hunks[i].StartLine != hunks[j].StartLine {
			return hunks[i].StartLine < hunks[j].StartLine
		}
		// Insertions at the same line apply before replacements.
		return hunks[i].EndLine < hunks[j].EndLine
	})
	for i := 1; i < len(hunks); i++ {
		if hunks[i].StartLine <= hunks[i-1].EndLine {
			return nil, OverlappingHunks(hunks[i].StartLine)
		}
	}
	return hunks, nil
}

// CoordinateOffsets computes each hunk's position in the post-apply file by
// accumulating the net line-count delta of all earlier hunks. Hunks must
// already be sorted by start line.
//
// It always recomputes from start lines and current old/new lengths rather
// than patching previous values, so rerunning it on an unchanged hunk set is
// a no-op and the positions can never drift.
func CoordinateOffsets(hunks []Hunk) {
	CoordinateResolved(hunks, nil)
}

// CoordinateResolved is CoordinateOffsets for a partially resolved session:
// a rejected hunk keeps its original lines, so it contributes zero delta and
// spans its old length in post-apply coordinates. rejected may be nil.
func CoordinateResolved(hunks []Hunk, rejected func(i int) bool) {
	offset := 0
	for i := range hunks {
		h := &hunks[i]
		effectiveNew := len(h.NewLines)
		if rejected != nil && rejected(i) {
			effectiveNew = len(h.OldLines)
		}
		h.NewStartLine = h.StartLine + offset
		h.NewEndLine = h.NewStartLine + effectiveNew - 1
		offset += effectiveNew - len(h.OldLines)
	}
}
