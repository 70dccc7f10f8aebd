package patch

import "strings"

// hintSimilarityFloor is the minimum ratio for a "most similar line" hint to
// be worth reporting on a locate failure.
const hintSimilarityFloor = 0.4

// LocateBlock finds the first position of blk.OldLines in the snapshot,
// scanning windows whose start line is strictly greater than afterLine (the
// previous block's match start, or 0 for the first block). The exact pass
// runs first; the fuzzy pass runs only when the exact pass finds nothing.
//
// First match wins in both passes. This is deliberate policy, not an
// accident: callers needing multiple replacements issue multiple blocks, and
// equally-good fuzzy candidates resolve to the lowest start line.
func LocateBlock(snap *FileSnapshot, blk EditBlock, afterLine int) (MatchedBlock, error) {
	if len(blk.OldLines) == 0 {
		return MatchedBlock{}, &Error{
			Kind:    ErrKindLocate,
			Message: "cannot locate a block with an empty search span; use an insertion anchor",
		}
	}

	if start, ok := findExact(snap, blk.OldLines, afterLine); ok {
		return MatchedBlock{
			EditBlock: blk,
			StartLine: start,
			EndLine:   start + len(blk.OldLines) - 1,
		}, nil
	}

	if mb, ok := findFuzzy(snap, blk, afterLine); ok {
		return mb, nil
	}

	hintLine, hint, ratio := findMostSimilarLine(snap, blk.OldLines)
	if ratio < hintSimilarityFloor {
		hint = ""
	}
	return MatchedBlock{}, BlockNotFound(0, strings.TrimSpace(hint), hintLine)
}

// AnchorInsertion pins a block with an empty search span to a caller-chosen
// anchor: the new lines are inserted before anchorLine. Used by insert and
// create operations, which have no old span to locate.
func AnchorInsertion(blk EditBlock, anchorLine int) MatchedBlock {
	return MatchedBlock{
		EditBlock: blk,
		StartLine: anchorLine,
		EndLine:   anchorLine - 1,
	}
}

// findExact slides a window of len(oldLines) over the snapshot and returns
// the first window equal elementwise.
func findExact(snap *FileSnapshot, oldLines []string, afterLine int) (int, bool) {
	n := len(oldLines)
	for start := afterLine + 1; start+n-1 <= snap.Len(); start++ {
		if windowEqual(snap, start, oldLines) {
			return start, true
		}
	}
	return 0, false
}

func windowEqual(snap *FileSnapshot, start int, oldLines []string) bool {
	for i, want := range oldLines {
		if snap.Line(start+i) != want {
			return false
		}
	}
	return true
}

// findFuzzy repeats the slide comparing lines after stripping each side's
// common leading-whitespace prefix. Tolerant of uniform indentation drift
// between the block text and the file, intolerant of content drift: after
// normalization the comparison is still strict elementwise equality.
//
// On a match the block is re-derived against the file's actual indentation:
// OldLines become the matched file lines verbatim, and NewLines swap the
// block's indent prefix for the file's, so the written result respects the
// target file's style.
func findFuzzy(snap *FileSnapshot, blk EditBlock, afterLine int) (MatchedBlock, bool) {
	blockIndent := commonIndent(blk.OldLines)
	stripped := stripIndent(blk.OldLines, blockIndent)
	n := len(blk.OldLines)

	for start := afterLine + 1; start+n-1 <= snap.Len(); start++ {
		window := snap.Slice(start, start+n-1)
		windowIndent := commonIndent(window)
		if !linesEqual(stripIndent(window, windowIndent), stripped) {
			continue
		}
		return MatchedBlock{
			EditBlock: EditBlock{
				OldLines: window,
				NewLines: reindent(blk.NewLines, blockIndent, windowIndent),
				Partial:  blk.Partial,
			},
			StartLine: start,
			EndLine:   start + n - 1,
			Fuzzy:     true,
		}, true
	}
	return MatchedBlock{}, false
}

func linesEqual(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// commonIndent returns the longest leading run of spaces and tabs shared by
// every non-blank line. Blank lines carry no indentation signal.
func commonIndent(lines []string) string {
	prefix := ""
	first := true
	for _, line := range lines {
		if strings.TrimSpace(line) == "" {
			continue
		}
		indent := leadingWhitespace(line)
		if first {
			prefix = indent
			first = false
			continue
		}
		prefix = commonPrefix(prefix, indent)
		if prefix == "" {
			return ""
		}
	}
	return prefix
}

func leadingWhitespace(line string) string {
	for i := 0; i < len(line); i++ {
		if line[i] != ' ' && line[i] != '\t' {
			return line[:i]
		}
	}
	return line
}

func commonPrefix(a, b string) string {
	n := min(len(a), len(b))
	for i := 0; i < n; i++ {
		if a[i] != b[i] {
			return a[:i]
		}
	}
	return a[:n]
}

// stripIndent removes the indent prefix from every line. Blank lines
// normalize to empty so trailing whitespace on otherwise-empty lines never
// blocks a match.
func stripIndent(lines []string, indent string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = ""
			continue
		}
		out[i] = strings.TrimPrefix(line, indent)
	}
	return out
}

// reindent swaps oldIndent for newIndent on every non-blank line.
func reindent(lines []string, oldIndent, newIndent string) []string {
	out := make([]string, len(lines))
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			out[i] = ""
			continue
		}
		out[i] = newIndent + strings.TrimPrefix(line, oldIndent)
	}
	return out
}
