package patch

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// UnifiedDiff generates a unified diff between old and new content for
// display.
func UnifiedDiff(oldContent, newContent, filename string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(oldContent),
		B:        difflib.SplitLines(newContent),
		FromFile: filename,
		ToFile:   filename,
		Context:  3,
	}

	return difflib.GetUnifiedDiffString(diff)
}

// HunkDiff renders a single hunk as a unified diff, with the header line
// positioned at the hunk's original-file coordinates.
func HunkDiff(h Hunk, filename string) (string, error) {
	return UnifiedDiff(JoinLines(h.OldLines), JoinLines(h.NewLines), filename)
}

// JoinLines joins lines into newline-terminated text: each line gets a
// trailing newline, so line counting stays exact even for trailing empty
// lines.
func JoinLines(lines []string) string {
	if len(lines) == 0 {
		return ""
	}
	var b strings.Builder
	for _, line := range lines {
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

// SplitLines splits newline-terminated text back into lines, dropping the
// final empty element produced by a trailing newline. Inverse of JoinLines.
func SplitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
