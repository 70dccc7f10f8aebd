package patch

import "testing"

func TestLevenshteinDistance(t *testing.T) {
	tests := []struct {
		s1, s2 string
		want   int
	}{
		{"", "", 0},
		{"abc", "", 3},
		{"", "abc", 3},
		{"abc", "abc", 0},
		{"kitten", "sitting", 3},
		{"flaw", "lawn", 2},
	}
	for _, tt := range tests {
		if got := levenshteinDistance(tt.s1, tt.s2); got != tt.want {
			t.Errorf("levenshteinDistance(%q, %q) = %d, want %d", tt.s1, tt.s2, got, tt.want)
		}
	}
}

func TestSimilarityRatio(t *testing.T) {
	if got := similarityRatio("", ""); got != 1.0 {
		t.Errorf("similarityRatio of empty strings = %v, want 1.0", got)
	}
	if got := similarityRatio("same", "same"); got != 1.0 {
		t.Errorf("identical strings = %v, want 1.0", got)
	}
	if got := similarityRatio("abcd", "wxyz"); got != 0.0 {
		t.Errorf("disjoint strings = %v, want 0.0", got)
	}
	higher := similarityRatio("handleRequest", "handleRequests")
	lower := similarityRatio("handleRequest", "parseConfig")
	if higher <= lower {
		t.Errorf("ratio ordering: near-match %v should beat unrelated %v", higher, lower)
	}
}

func TestFindMostSimilarLine(t *testing.T) {
	snap := NewFileSnapshot([]string{
		"package main",
		"func handleRequest(w io.Writer) error {",
		"return nil",
	})

	lineNum, line, ratio := findMostSimilarLine(snap, []string{"func handleRequests(w io.Writer) error {"})
	if lineNum != 2 {
		t.Errorf("lineNum = %d, want 2", lineNum)
	}
	if line != "func handleRequest(w io.Writer) error {" {
		t.Errorf("line = %q", line)
	}
	if ratio < 0.9 {
		t.Errorf("ratio = %v, want near 1.0 for a one-character difference", ratio)
	}

	t.Run("empty search span", func(t *testing.T) {
		lineNum, _, ratio := findMostSimilarLine(snap, nil)
		if lineNum != 0 || ratio != 0 {
			t.Errorf("got (%d, %v), want zero values", lineNum, ratio)
		}
	})
}
