package patch

import (
	"reflect"
	"testing"
)

func TestLocateBlock_Exact(t *testing.T) {
	snap := NewFileSnapshot([]string{"a", "b", "c", "b", "d"})

	t.Run("first match wins", func(t *testing.T) {
		mb, err := LocateBlock(snap, EditBlock{OldLines: []string{"b"}, NewLines: []string{"x"}}, 0)
		if err != nil {
			t.Fatalf("LocateBlock() error: %v", err)
		}
		if mb.StartLine != 2 || mb.EndLine != 2 {
			t.Errorf("match = (%d,%d), want (2,2)", mb.StartLine, mb.EndLine)
		}
		if mb.Fuzzy {
			t.Error("exact match flagged fuzzy")
		}
	})

	t.Run("afterLine skips earlier occurrences", func(t *testing.T) {
		mb, err := LocateBlock(snap, EditBlock{OldLines: []string{"b"}}, 2)
		if err != nil {
			t.Fatalf("LocateBlock() error: %v", err)
		}
		if mb.StartLine != 4 {
			t.Errorf("StartLine = %d, want 4", mb.StartLine)
		}
	})

	t.Run("multi-line window", func(t *testing.T) {
		mb, err := LocateBlock(snap, EditBlock{OldLines: []string{"c", "b", "d"}}, 0)
		if err != nil {
			t.Fatalf("LocateBlock() error: %v", err)
		}
		if mb.StartLine != 3 || mb.EndLine != 5 {
			t.Errorf("match = (%d,%d), want (3,5)", mb.StartLine, mb.EndLine)
		}
	})

	t.Run("window spanning whole file", func(t *testing.T) {
		mb, err := LocateBlock(snap, EditBlock{OldLines: []string{"a", "b", "c", "b", "d"}}, 0)
		if err != nil {
			t.Fatalf("LocateBlock() error: %v", err)
		}
		if mb.StartLine != 1 || mb.EndLine != 5 {
			t.Errorf("match = (%d,%d), want (1,5)", mb.StartLine, mb.EndLine)
		}
	})
}

func TestLocateBlock_Fuzzy(t *testing.T) {
	t.Run("runs only when exact misses", func(t *testing.T) {
		snap := NewFileSnapshot([]string{"    if ok {", "        return", "    }"})
		blk := EditBlock{
			OldLines: []string{"if ok {", "    return", "}"},
			NewLines: []string{"if ok {", "    return nil", "}"},
		}
		mb, err := LocateBlock(snap, blk, 0)
		if err != nil {
			t.Fatalf("LocateBlock() error: %v", err)
		}
		if !mb.Fuzzy {
			t.Error("indentation-shifted match not flagged fuzzy")
		}
		if mb.StartLine != 1 || mb.EndLine != 3 {
			t.Errorf("match = (%d,%d), want (1,3)", mb.StartLine, mb.EndLine)
		}
	})

	t.Run("not flagged on exact hit", func(t *testing.T) {
		snap := NewFileSnapshot([]string{"    x := 1"})
		mb, err := LocateBlock(snap, EditBlock{OldLines: []string{"    x := 1"}}, 0)
		if err != nil {
			t.Fatalf("LocateBlock() error: %v", err)
		}
		if mb.Fuzzy {
			t.Error("exact hit took the fuzzy path")
		}
	})

	t.Run("old lines rewritten to file content", func(t *testing.T) {
		snap := NewFileSnapshot([]string{"\tfoo()", "\tbar()"})
		blk := EditBlock{
			OldLines: []string{"foo()", "bar()"},
			NewLines: []string{"foo()", "baz()", "bar()"},
		}
		mb, err := LocateBlock(snap, blk, 0)
		if err != nil {
			t.Fatalf("LocateBlock() error: %v", err)
		}
		if !reflect.DeepEqual(mb.OldLines, []string{"\tfoo()", "\tbar()"}) {
			t.Errorf("OldLines = %q, want the file's own lines", mb.OldLines)
		}
		want := []string{"\tfoo()", "\tbaz()", "\tbar()"}
		if !reflect.DeepEqual(mb.NewLines, want) {
			t.Errorf("NewLines = %q, want %q", mb.NewLines, want)
		}
	})

	t.Run("content drift still fails", func(t *testing.T) {
		snap := NewFileSnapshot([]string{"    value := 1"})
		_, err := LocateBlock(snap, EditBlock{OldLines: []string{"value := 2"}}, 0)
		if err == nil {
			t.Fatal("expected locate failure for changed content")
		}
		if !IsLocateError(err) {
			t.Errorf("error kind = %v, want locate error", err)
		}
	})
}

func TestLocateBlock_NotFoundHint(t *testing.T) {
	snap := NewFileSnapshot([]string{"func handleRequest(w http.ResponseWriter) {", "other"})
	_, err := LocateBlock(snap, EditBlock{OldLines: []string{"func handleRequests(w http.ResponseWriter) {"}}, 0)
	if err == nil {
		t.Fatal("expected error")
	}
	perr, ok := err.(*Error)
	if !ok {
		t.Fatalf("error type = %T, want *Error", err)
	}
	hint, _ := perr.Details["similar_text"].(string)
	if hint == "" {
		t.Error("locate failure carried no similar-line hint")
	}
	if line, _ := perr.Details["similar_at_line"].(int); line != 1 {
		t.Errorf("similar line number = %d, want 1", line)
	}
}

func TestLocateBlock_EmptySearchSpan(t *testing.T) {
	snap := NewFileSnapshot([]string{"a"})
	_, err := LocateBlock(snap, EditBlock{NewLines: []string{"x"}}, 0)
	if !IsLocateError(err) {
		t.Fatalf("error = %v, want locate error", err)
	}
}

func TestAnchorInsertion(t *testing.T) {
	mb := AnchorInsertion(EditBlock{NewLines: []string{"imported"}}, 3)
	if mb.StartLine != 3 || mb.EndLine != 2 {
		t.Errorf("anchor = (%d,%d), want zero-width (3,2)", mb.StartLine, mb.EndLine)
	}
}
