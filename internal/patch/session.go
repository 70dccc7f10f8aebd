package patch

import "fmt"

// HunkState tracks per-hunk resolution. Pending is the only non-terminal
// state; a committed hunk may still be rejected before the session is
// finalized (the interactive ours/theirs flow), but a rejected hunk stays
// rejected.
type HunkState int

const (
	HunkPending HunkState = iota
	HunkCommitted
	HunkRejected
)

func (s HunkState) String() string {
	switch s {
	case HunkCommitted:
		return "committed"
	case HunkRejected:
		return "rejected"
	default:
		return "pending"
	}
}

// SessionState tracks the session lifecycle: Open on creation, Resolving
// once any hunk has been resolved, Closed after Finalize.
type SessionState int

const (
	SessionOpen SessionState = iota
	SessionResolving
	SessionClosed
)

// ApplySession owns the apply state for one edit operation: the original
// file lines (never mutated), the ordered hunk set, and per-hunk resolution.
// It owns no editor resources - commits and rejections are expressed as
// Replacement values for the caller to execute against its own storage, and
// Finalize returns a fresh line buffer.
//
// A session is exclusively owned by the edit operation that created it and
// must not be shared across logical flows. A cancelled operation simply
// discards the session without calling Finalize.
type ApplySession struct {
	id       string
	original []string
	hunks    []Hunk
	states   []HunkState
	state    SessionState
}

// NewApplySession builds a session over the original file lines and the
// hunk set produced for them. Hunks are sorted, checked for overlap, and
// given their initial post-apply positions.
func NewApplySession(id string, original []string, hunks []Hunk) (*ApplySession, error) {
	sorted, err := SortHunks(hunks)
	if err != nil {
		return nil, err
	}
	for i := range sorted {
		h := &sorted[i]
		if h.StartLine < 1 || h.StartLine > len(original)+1 || h.EndLine > len(original) {
			return nil, &Error{
				Kind:    ErrKindLocate,
				Message: fmt.Sprintf("hunk %d spans lines %d-%d outside file of %d lines", i+1, h.StartLine, h.EndLine, len(original)),
			}
		}
	}
	CoordinateOffsets(sorted)

	orig := make([]string, len(original))
	copy(orig, original)
	return &ApplySession{
		id:       id,
		original: orig,
		hunks:    sorted,
		states:   make([]HunkState, len(sorted)),
		state:    SessionOpen,
	}, nil
}

// ID returns the session identifier.
func (s *ApplySession) ID() string { return s.id }

// State returns the session lifecycle state.
func (s *ApplySession) State() SessionState { return s.state }

// Hunks returns a copy of the session's hunks with current post-apply
// positions.
func (s *ApplySession) Hunks() []Hunk {
	out := make([]Hunk, len(s.hunks))
	copy(out, s.hunks)
	return out
}

// HunkState returns the resolution state of hunk i.
func (s *ApplySession) HunkState(i int) HunkState { return s.states[i] }

// Pending returns the number of unresolved hunks.
func (s *ApplySession) Pending() int {
	n := 0
	for _, st := range s.states {
		if st == HunkPending {
			n++
		}
	}
	return n
}

// OriginalLines returns a copy of the file lines the session was built on.
func (s *ApplySession) OriginalLines() []string {
	out := make([]string, len(s.original))
	copy(out, s.original)
	return out
}

// Commit accepts hunk i and returns the line-range replacement the caller
// should execute, positioned for a buffer that reflects every earlier
// committed hunk. Re-committing is a no-op (nil Replacement) so callers can
// retry idempotently; committing a rejected hunk is an error.
func (s *ApplySession) Commit(i int) (*Replacement, error) {
	if err := s.checkIndex(i); err != nil {
		return nil, err
	}
	switch s.states[i] {
	case HunkCommitted:
		return nil, nil
	case HunkRejected:
		return nil, &Error{
			Kind:    ErrKindSession,
			Message: fmt.Sprintf("hunk %d already rejected", i+1),
		}
	}

	delta := s.committedDeltaBefore(i)
	h := &s.hunks[i]
	rep := &Replacement{
		StartLine: h.StartLine + delta,
		EndLine:   h.EndLine + delta,
		Lines:     copyLines(h.NewLines),
	}

	s.states[i] = HunkCommitted
	s.state = SessionResolving
	s.reoffset()
	return rep, nil
}

// Reject declines hunk i. If the hunk had already been committed, the
// returned Replacement restores the original lines verbatim in the caller's
// buffer; otherwise the buffer is untouched and the Replacement is nil.
// Every later hunk's post-apply position shifts accordingly. Re-rejecting
// is a no-op.
func (s *ApplySession) Reject(i int) (*Replacement, error) {
	if err := s.checkIndex(i); err != nil {
		return nil, err
	}
	if s.states[i] == HunkRejected {
		return nil, nil
	}

	var rep *Replacement
	if s.states[i] == HunkCommitted {
		delta := s.committedDeltaBefore(i)
		h := &s.hunks[i]
		start := h.StartLine + delta
		rep = &Replacement{
			StartLine: start,
			EndLine:   start + len(h.NewLines) - 1,
			Lines:     copyLines(h.OldLines),
		}
	}

	s.states[i] = HunkRejected
	s.state = SessionResolving
	s.reoffset()
	return rep, nil
}

// CommitAll accepts every pending hunk in order and returns the
// replacements to execute, in application order.
func (s *ApplySession) CommitAll() ([]Replacement, error) {
	var reps []Replacement
	for i := range s.hunks {
		if s.states[i] != HunkPending {
			continue
		}
		rep, err := s.Commit(i)
		if err != nil {
			return reps, err
		}
		if rep != nil {
			reps = append(reps, *rep)
		}
	}
	return reps, nil
}

// RejectAll declines every pending hunk. Already-committed hunks keep their
// resolution.
func (s *ApplySession) RejectAll() error {
	for i := range s.hunks {
		if s.states[i] != HunkPending {
			continue
		}
		if _, err := s.Reject(i); err != nil {
			return err
		}
	}
	return nil
}

// Finalize returns the full post-apply line buffer once every hunk has been
// resolved, and closes the session. Fails with an IncompleteSession error
// while hunks remain pending.
func (s *ApplySession) Finalize() ([]string, error) {
	if n := s.Pending(); n > 0 {
		return nil, IncompleteSession(n)
	}

	var out []string
	cursor := 1 // next original line to copy
	for i := range s.hunks {
		h := &s.hunks[i]
		for ; cursor < h.StartLine; cursor++ {
			out = append(out, s.original[cursor-1])
		}
		if s.states[i] == HunkCommitted {
			out = append(out, h.NewLines...)
		} else {
			out = append(out, h.OldLines...)
		}
		cursor = h.EndLine + 1
	}
	for ; cursor <= len(s.original); cursor++ {
		out = append(out, s.original[cursor-1])
	}

	s.state = SessionClosed
	return out, nil
}

// committedDeltaBefore sums the net line-count delta of committed hunks
// before index i, giving hunk i's displacement in a caller buffer that has
// those commits applied.
func (s *ApplySession) committedDeltaBefore(i int) int {
	delta := 0
	for j := 0; j < i; j++ {
		if s.states[j] == HunkCommitted {
			delta += len(s.hunks[j].NewLines) - len(s.hunks[j].OldLines)
		}
	}
	return delta
}

func (s *ApplySession) reoffset() {
	CoordinateResolved(s.hunks, func(i int) bool {
		return s.states[i] == HunkRejected
	})
}

func (s *ApplySession) checkIndex(i int) error {
	if s.state == SessionClosed {
		return &Error{Kind: ErrKindSession, Message: "session already closed"}
	}
	if i < 0 || i >= len(s.hunks) {
		return &Error{
			Kind:    ErrKindSession,
			Message: fmt.Sprintf("hunk index %d out of range (%d hunks)", i, len(s.hunks)),
		}
	}
	return nil
}
