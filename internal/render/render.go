// Package render formats hunks and apply results for terminal output.
package render

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/fatih/color"

	"github.com/kvit-s/patchkit/internal/patch"
)

// Color definitions for consistent UI
var (
	// Gray for headers and positional info
	grayColor = color.New(color.FgWhite, color.Faint)

	// Red for removed lines and errors
	removedColor = color.New(color.FgRed)

	// Green for added lines
	addedColor = color.New(color.FgGreen)

	// Yellow for unstable (still streaming) hunks
	unstableColor = color.New(color.FgYellow)

	// Faint strikethrough for rejected hunks
	rejectedColor = color.New(color.FgWhite, color.Faint, color.CrossedOut)
)

// Writer renders hunks with consistent formatting and optional colors.
type Writer struct {
	out   io.Writer
	quiet bool
}

// NewWriter creates a Writer targeting stdout.
func NewWriter() *Writer {
	return &Writer{out: os.Stdout}
}

// NewWriterTo creates a Writer targeting w.
func NewWriterTo(w io.Writer) *Writer {
	return &Writer{out: w}
}

// SetQuiet suppresses all non-error output.
func (w *Writer) SetQuiet(quiet bool) {
	w.quiet = quiet
}

// Hunk renders one hunk: a positional header followed by removed and added
// lines in diff style.
func (w *Writer) Hunk(index int, h patch.Hunk) {
	if w.quiet {
		return
	}
	grayColor.Fprintf(w.out, "hunk %d @ %s\n", index+1, hunkSpan(h))
	for _, line := range h.OldLines {
		removedColor.Fprintf(w.out, "- %s\n", line)
	}
	for _, line := range h.NewLines {
		addedColor.Fprintf(w.out, "+ %s\n", line)
	}
}

// StreamingHunk renders a hunk during streaming. Stable hunks render
// normally; unstable hunks render highlighted so the user can see which
// parts of the edit are still settling.
func (w *Writer) StreamingHunk(index int, h patch.Hunk, class patch.Classification) {
	if w.quiet {
		return
	}
	if class == patch.Stable {
		w.Hunk(index, h)
		return
	}
	unstableColor.Fprintf(w.out, "hunk %d @ %s (streaming)\n", index+1, hunkSpan(h))
	for _, line := range h.OldLines {
		removedColor.Fprintf(w.out, "- %s\n", line)
	}
	for _, line := range h.NewLines {
		unstableColor.Fprintf(w.out, "+ %s\n", line)
	}
}

// Resolution renders a hunk's final state after interactive review.
func (w *Writer) Resolution(index int, h patch.Hunk, state patch.HunkState) {
	if w.quiet {
		return
	}
	switch state {
	case patch.HunkCommitted:
		addedColor.Fprintf(w.out, "hunk %d committed @ %s\n", index+1, hunkSpan(h))
	case patch.HunkRejected:
		rejectedColor.Fprintf(w.out, "hunk %d rejected @ %s\n", index+1, hunkSpan(h))
	default:
		grayColor.Fprintf(w.out, "hunk %d pending @ %s\n", index+1, hunkSpan(h))
	}
}

// Summary renders the final line-count summary for an applied file.
func (w *Writer) Summary(path string, committed, rejected int) {
	if w.quiet {
		return
	}
	fmt.Fprintf(w.out, "%s: %d hunks applied, %d rejected\n", path, committed, rejected)
}

// Error renders an engine error, with structured details when present.
func (w *Writer) Error(err error) {
	removedColor.Fprintln(w.out, patch.FormatError(err))
}

// hunkSpan formats a hunk's original-file position. Insertions render as an
// anchor rather than a range.
func hunkSpan(h patch.Hunk) string {
	if h.IsInsertion() {
		return fmt.Sprintf("insert before line %d", h.StartLine)
	}
	if h.StartLine == h.EndLine {
		return fmt.Sprintf("line %d", h.StartLine)
	}
	return fmt.Sprintf("lines %d-%d", h.StartLine, h.EndLine)
}

// HunkPrompt builds the one-line interactive prompt for a hunk.
func HunkPrompt(index, total int) string {
	var b strings.Builder
	fmt.Fprintf(&b, "[%d/%d] apply this hunk? ", index+1, total)
	b.WriteString("(y)es (n)o (a)ll (r)eject all (q)uit: ")
	return b.String()
}
