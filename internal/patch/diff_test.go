package patch

import (
	"reflect"
	"strings"
	"testing"
)

func TestJoinSplitLines(t *testing.T) {
	tests := []struct {
		lines []string
		text  string
	}{
		{nil, ""},
		{[]string{"a"}, "a\n"},
		{[]string{"a", "b", "c"}, "a\nb\nc\n"},
		{[]string{"a", "", "c"}, "a\n\nc\n"},
	}
	for _, tt := range tests {
		if got := JoinLines(tt.lines); got != tt.text {
			t.Errorf("JoinLines(%q) = %q, want %q", tt.lines, got, tt.text)
		}
		if got := SplitLines(tt.text); !reflect.DeepEqual(got, tt.lines) {
			t.Errorf("SplitLines(%q) = %q, want %q", tt.text, got, tt.lines)
		}
	}
}

func TestUnifiedDiff(t *testing.T) {
	oldContent := "a\nb\nc\n"
	newContent := "a\nx\nc\n"

	diff, err := UnifiedDiff(oldContent, newContent, "f.txt")
	if err != nil {
		t.Fatalf("UnifiedDiff() error: %v", err)
	}
	if !strings.Contains(diff, "-b") || !strings.Contains(diff, "+x") {
		t.Errorf("diff missing change lines:\n%s", diff)
	}
	if !strings.Contains(diff, "f.txt") {
		t.Errorf("diff missing filename:\n%s", diff)
	}

	t.Run("identical content yields empty diff", func(t *testing.T) {
		diff, err := UnifiedDiff(oldContent, oldContent, "f.txt")
		if err != nil {
			t.Fatal(err)
		}
		if diff != "" {
			t.Errorf("diff = %q, want empty", diff)
		}
	})
}

func TestHunkDiff(t *testing.T) {
	h := Hunk{
		OldLines:  []string{"old line"},
		NewLines:  []string{"new line"},
		StartLine: 4,
		EndLine:   4,
	}
	diff, err := HunkDiff(h, "f.txt")
	if err != nil {
		t.Fatalf("HunkDiff() error: %v", err)
	}
	if !strings.Contains(diff, "-old line") || !strings.Contains(diff, "+new line") {
		t.Errorf("diff missing hunk lines:\n%s", diff)
	}
}
