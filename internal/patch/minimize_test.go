package patch

import (
	"reflect"
	"testing"
)

func TestMinimizeBlock_Disabled(t *testing.T) {
	mb := MatchedBlock{
		EditBlock: EditBlock{
			OldLines: []string{"a", "b", "c"},
			NewLines: []string{"a", "x", "c"},
		},
		StartLine: 10,
		EndLine:   12,
	}
	hunks := MinimizeBlock(mb, false)
	if len(hunks) != 1 {
		t.Fatalf("got %d hunks, want 1", len(hunks))
	}
	if hunks[0].StartLine != 10 || hunks[0].EndLine != 12 {
		t.Errorf("hunk span = (%d,%d), want the whole block", hunks[0].StartLine, hunks[0].EndLine)
	}
}

func TestMinimizeBlock_SharedContextDropped(t *testing.T) {
	mb := MatchedBlock{
		EditBlock: EditBlock{
			OldLines: []string{"ctx1", "old", "ctx2"},
			NewLines: []string{"ctx1", "new", "ctx2"},
		},
		StartLine: 5,
		EndLine:   7,
	}
	hunks := MinimizeBlock(mb, true)
	if len(hunks) != 1 {
		t.Fatalf("got %d hunks, want 1", len(hunks))
	}
	h := hunks[0]
	if h.StartLine != 6 || h.EndLine != 6 {
		t.Errorf("hunk span = (%d,%d), want (6,6)", h.StartLine, h.EndLine)
	}
	if !reflect.DeepEqual(h.OldLines, []string{"old"}) || !reflect.DeepEqual(h.NewLines, []string{"new"}) {
		t.Errorf("hunk lines = %q -> %q", h.OldLines, h.NewLines)
	}
}

func TestMinimizeBlock_MultipleRuns(t *testing.T) {
	mb := MatchedBlock{
		EditBlock: EditBlock{
			OldLines: []string{"a", "b", "c", "d", "e"},
			NewLines: []string{"a", "B", "c", "d", "E"},
		},
		StartLine: 1,
		EndLine:   5,
	}
	hunks := MinimizeBlock(mb, true)
	if len(hunks) != 2 {
		t.Fatalf("got %d hunks, want 2", len(hunks))
	}
	if hunks[0].StartLine != 2 || hunks[1].StartLine != 5 {
		t.Errorf("hunk starts = %d, %d, want 2, 5", hunks[0].StartLine, hunks[1].StartLine)
	}
}

func TestMinimizeBlock_PureInsertion(t *testing.T) {
	mb := MatchedBlock{
		EditBlock: EditBlock{
			OldLines: []string{"before", "after"},
			NewLines: []string{"before", "between", "after"},
		},
		StartLine: 3,
		EndLine:   4,
	}
	hunks := MinimizeBlock(mb, true)
	if len(hunks) != 1 {
		t.Fatalf("got %d hunks, want 1", len(hunks))
	}
	h := hunks[0]
	if !h.IsInsertion() {
		t.Error("insertion run not zero-width")
	}
	if h.StartLine != 4 || h.EndLine != 3 {
		t.Errorf("anchor = (%d,%d), want insert-before-4 form (4,3)", h.StartLine, h.EndLine)
	}
	if len(h.OldLines) != 0 || !reflect.DeepEqual(h.NewLines, []string{"between"}) {
		t.Errorf("hunk lines = %q -> %q", h.OldLines, h.NewLines)
	}
}

func TestMinimizeBlock_PureDeletion(t *testing.T) {
	mb := MatchedBlock{
		EditBlock: EditBlock{
			OldLines: []string{"keep", "drop", "keep2"},
			NewLines: []string{"keep", "keep2"},
		},
		StartLine: 1,
		EndLine:   3,
	}
	hunks := MinimizeBlock(mb, true)
	if len(hunks) != 1 {
		t.Fatalf("got %d hunks, want 1", len(hunks))
	}
	h := hunks[0]
	if h.StartLine != 2 || h.EndLine != 2 {
		t.Errorf("hunk span = (%d,%d), want (2,2)", h.StartLine, h.EndLine)
	}
	if len(h.NewLines) != 0 {
		t.Errorf("NewLines = %q, want empty", h.NewLines)
	}
}

func TestMinimizeBlock_IdenticalOldNew(t *testing.T) {
	mb := MatchedBlock{
		EditBlock: EditBlock{
			OldLines: []string{"same", "lines"},
			NewLines: []string{"same", "lines"},
		},
		StartLine: 1,
		EndLine:   2,
	}
	hunks := MinimizeBlock(mb, true)
	if len(hunks) != 1 {
		t.Fatalf("no-op block should still yield one hunk, got %d", len(hunks))
	}
	if !reflect.DeepEqual(hunks[0].OldLines, hunks[0].NewLines) {
		t.Error("no-op hunk lines differ")
	}
}
