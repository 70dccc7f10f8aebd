package review

import (
	"bytes"
	"errors"
	"io"
	"reflect"
	"testing"

	"github.com/kvit-s/patchkit/internal/patch"
	"github.com/kvit-s/patchkit/internal/render"
)

type scriptedKeys struct {
	runes []rune
	pos   int
}

func (s *scriptedKeys) Open() error { return nil }
func (s *scriptedKeys) Close()      {}
func (s *scriptedKeys) ReadKey() (rune, error) {
	if s.pos >= len(s.runes) {
		return 0, io.EOF
	}
	ch := s.runes[s.pos]
	s.pos++
	return ch, nil
}

func testSession(t *testing.T) *patch.ApplySession {
	t.Helper()
	session, err := patch.NewApplySession("review", []string{"a", "b", "c"}, []patch.Hunk{
		{OldLines: []string{"a"}, NewLines: []string{"x"}, StartLine: 1, EndLine: 1},
		{OldLines: []string{"c"}, NewLines: []string{"y"}, StartLine: 3, EndLine: 3},
	})
	if err != nil {
		t.Fatal(err)
	}
	return session
}

func runReview(t *testing.T, session *patch.ApplySession, keys ...rune) error {
	t.Helper()
	var buf bytes.Buffer
	w := render.NewWriterTo(&buf)
	w.SetQuiet(true)
	return New(w, &scriptedKeys{runes: keys}).Run(session)
}

func TestReviewer_CommitAndReject(t *testing.T) {
	session := testSession(t)
	if err := runReview(t, session, 'y', 'n'); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if session.HunkState(0) != patch.HunkCommitted {
		t.Errorf("hunk 0 = %v, want committed", session.HunkState(0))
	}
	if session.HunkState(1) != patch.HunkRejected {
		t.Errorf("hunk 1 = %v, want rejected", session.HunkState(1))
	}

	final, err := session.Finalize()
	if err != nil {
		t.Fatal(err)
	}
	want := []string{"x", "b", "c"}
	if !reflect.DeepEqual(final, want) {
		t.Errorf("final = %q, want %q", final, want)
	}
}

func TestReviewer_AcceptAll(t *testing.T) {
	session := testSession(t)
	if err := runReview(t, session, 'a'); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if session.Pending() != 0 {
		t.Errorf("pending = %d after accept-all", session.Pending())
	}
	if session.HunkState(0) != patch.HunkCommitted || session.HunkState(1) != patch.HunkCommitted {
		t.Error("not every hunk committed")
	}
}

func TestReviewer_RejectRest(t *testing.T) {
	session := testSession(t)
	if err := runReview(t, session, 'y', 'r'); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if session.HunkState(0) != patch.HunkCommitted {
		t.Error("hunk 0 lost its commit")
	}
	if session.HunkState(1) != patch.HunkRejected {
		t.Error("remaining hunk not rejected")
	}
}

func TestReviewer_Quit(t *testing.T) {
	session := testSession(t)
	if err := runReview(t, session, 'y', 'q'); !errors.Is(err, ErrAborted) {
		t.Fatalf("Run() = %v, want ErrAborted", err)
	}
}

func TestReviewer_IgnoresUnknownKeys(t *testing.T) {
	session := testSession(t)
	if err := runReview(t, session, 'z', '?', 'y', 'Y'); err != nil {
		t.Fatalf("Run() error: %v", err)
	}
	if session.HunkState(0) != patch.HunkCommitted || session.HunkState(1) != patch.HunkCommitted {
		t.Error("uppercase or repeated keys mishandled")
	}
}
