// Package patch implements the SEARCH/REPLACE patch engine: parsing edit
// blocks out of markup text, locating them in a file, reducing each match to
// minimal changed line ranges, coordinating line offsets across blocks, and
// applying or rejecting the resulting hunks.
//
// All line numbers are 1-indexed and inclusive unless stated otherwise. The
// engine is synchronous and keeps no state beyond an ApplySession; callers
// own all file I/O.
package patch

// EditBlock is one parsed SEARCH/REPLACE section: the lines to find and the
// lines to substitute. Lines carry no trailing newline.
type EditBlock struct {
	OldLines []string
	NewLines []string

	// Partial marks the trailing block of a stream that is still being
	// generated; its NewLines may grow on the next update.
	Partial bool
}

// FileSnapshot is an immutable copy of a file's lines, captured once per
// locate-and-apply pass. All location math for the pass is relative to it.
type FileSnapshot struct {
	lines []string
}

// NewFileSnapshot copies lines into an immutable snapshot.
func NewFileSnapshot(lines []string) *FileSnapshot {
	s := &FileSnapshot{lines: make([]string, len(lines))}
	copy(s.lines, lines)
	return s
}

// Len returns the number of lines in the snapshot.
func (s *FileSnapshot) Len() int { return len(s.lines) }

// Line returns line n (1-indexed).
func (s *FileSnapshot) Line(n int) string { return s.lines[n-1] }

// Slice returns a copy of lines [start, end] (1-indexed, inclusive).
// end < start returns an empty slice.
func (s *FileSnapshot) Slice(start, end int) []string {
	if end < start {
		return nil
	}
	out := make([]string, end-start+1)
	copy(out, s.lines[start-1:end])
	return out
}

// Lines returns a copy of all snapshot lines.
func (s *FileSnapshot) Lines() []string {
	return s.Slice(1, len(s.lines))
}

// MatchedBlock is an EditBlock pinned to its position in a FileSnapshot.
// EndLine = StartLine + len(OldLines) - 1, or StartLine - 1 for a pure
// insertion (empty OldLines).
type MatchedBlock struct {
	EditBlock
	StartLine int
	EndLine   int

	// Fuzzy records that the match required indentation normalization
	// rather than exact line equality.
	Fuzzy bool
}

// Hunk is one contiguous changed line range. StartLine/EndLine are in
// original-file coordinates; NewStartLine/NewEndLine are in post-apply
// coordinates once CoordinateOffsets has run. A pure insertion has
// EndLine = StartLine - 1 (insert before StartLine).
type Hunk struct {
	OldLines []string
	NewLines []string

	StartLine int
	EndLine   int

	NewStartLine int
	NewEndLine   int
}

// IsInsertion reports whether the hunk inserts lines without replacing any.
func (h *Hunk) IsInsertion() bool { return len(h.OldLines) == 0 }

// StabilityKey identifies a hunk across successive streaming updates. Two
// hunks are "the same" iff their keys are equal.
type StabilityKey struct {
	StartLine int
	EndLine   int
	OldLen    int
	NewLen    int
}

// Key returns the hunk's stability key.
func (h *Hunk) Key() StabilityKey {
	return StabilityKey{
		StartLine: h.StartLine,
		EndLine:   h.EndLine,
		OldLen:    len(h.OldLines),
		NewLen:    len(h.NewLines),
	}
}

// Replacement is a line-range replace operation for the caller to execute
// against its own storage. EndLine < StartLine means pure insertion before
// StartLine.
type Replacement struct {
	StartLine int
	EndLine   int
	Lines     []string
}
