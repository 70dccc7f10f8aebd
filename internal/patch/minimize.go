package patch

import "github.com/pmezard/go-difflib/difflib"

// MinimizeBlock reduces a located block to the hunks that actually change
// lines. With minimize disabled the whole block becomes a single hunk.
//
// Minimization runs a deterministic line diff (difflib's SequenceMatcher
// opcodes) between the block's old and new lines and emits one hunk per
// non-equal run, positioned by adding the run's offset within the block to
// the block's start line. A pure-insertion run gets the zero-width anchor
// form: EndLine = StartLine - 1, insert before StartLine.
func MinimizeBlock(mb MatchedBlock, minimize bool) []Hunk {
	if !minimize || len(mb.OldLines) == 0 {
		return []Hunk{wholeBlockHunk(mb)}
	}

	matcher := difflib.NewMatcher(mb.OldLines, mb.NewLines)
	var hunks []Hunk
	for _, op := range matcher.GetOpCodes() {
		if op.Tag == 'e' {
			continue
		}
		start := mb.StartLine + op.I1
		end := mb.StartLine + op.I2 - 1
		if op.I1 == op.I2 {
			// Insertion run: anchor before the line at op.I1.
			end = start - 1
		}
		hunks = append(hunks, Hunk{
			OldLines:  copyLines(mb.OldLines[op.I1:op.I2]),
			NewLines:  copyLines(mb.NewLines[op.J1:op.J2]),
			StartLine: start,
			EndLine:   end,
		})
	}
	if len(hunks) == 0 {
		// Old and new are identical; a no-op replace still yields one
		// hunk so round-trip behavior stays observable to the caller.
		return []Hunk{wholeBlockHunk(mb)}
	}
	return hunks
}

func wholeBlockHunk(mb MatchedBlock) Hunk {
	return Hunk{
		OldLines:  copyLines(mb.OldLines),
		NewLines:  copyLines(mb.NewLines),
		StartLine: mb.StartLine,
		EndLine:   mb.EndLine,
	}
}

func copyLines(lines []string) []string {
	if len(lines) == 0 {
		return nil
	}
	out := make([]string, len(lines))
	copy(out, lines)
	return out
}
