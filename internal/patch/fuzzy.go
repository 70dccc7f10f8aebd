package patch

import "strings"

// Line-similarity helpers used for locate-failure diagnostics. The locator
// itself never matches on similarity scores: its fuzzy pass is strict
// elementwise equality after indentation normalization (see locator.go).
// These ratios only feed the "did you mean" hint in BlockNotFound.

// levenshteinDistance calculates the edit distance between two strings.
func levenshteinDistance(s1, s2 string) int {
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	d := make([][]int, len(s1)+1)
	for i := range d {
		d[i] = make([]int, len(s2)+1)
		d[i][0] = i
	}
	for j := range d[0] {
		d[0][j] = j
	}

	for i := 1; i <= len(s1); i++ {
		for j := 1; j <= len(s2); j++ {
			cost := 0
			if s1[i-1] != s2[j-1] {
				cost = 1
			}
			d[i][j] = min(
				d[i-1][j]+1,
				d[i][j-1]+1,
				d[i-1][j-1]+cost,
			)
		}
	}

	return d[len(s1)][len(s2)]
}

// similarityRatio maps edit distance to [0.0, 1.0]:
// 1 - distance/max(len(s1), len(s2)).
func similarityRatio(s1, s2 string) float64 {
	if len(s1) == 0 && len(s2) == 0 {
		return 1.0
	}
	distance := levenshteinDistance(s1, s2)
	maxLen := max(len(s1), len(s2))
	return 1.0 - float64(distance)/float64(maxLen)
}

// findMostSimilarLine finds the snapshot line most similar to the search
// span, comparing against both the full span and its first line. Used for
// error messages suggesting what the caller might have meant.
func findMostSimilarLine(snap *FileSnapshot, oldLines []string) (lineNum int, line string, ratio float64) {
	if len(oldLines) == 0 {
		return 0, "", 0
	}

	full := strings.TrimSpace(strings.Join(oldLines, "\n"))
	first := strings.TrimSpace(oldLines[0])

	for n := 1; n <= snap.Len(); n++ {
		candidate := strings.TrimSpace(snap.Line(n))
		r := max(similarityRatio(candidate, full), similarityRatio(candidate, first))
		if r > ratio {
			ratio = r
			lineNum = n
			line = snap.Line(n)
		}
	}

	return lineNum, line, ratio
}
