package runner

import (
	"strings"
	"time"

	"github.com/kvit-s/patchkit/internal/patch"
)

// StreamEvent is the outcome of one streaming markup update. A deferred
// event carries no plan; the caller keeps its previous preview.
type StreamEvent struct {
	Seq      int
	Deferred bool
	Plan     *Plan
	Classes  []patch.Classification
}

// Streamer re-plans a growing markup stream against one target file and
// classifies each update's hunks as stable or unstable, so a live preview
// only redraws what actually changed.
//
// Updates must arrive from a single goroutine. A stale or shrinking stream
// is the caller's bug; the debounce valve only smooths legitimate growth.
type Streamer struct {
	runner     *Runner
	stabilizer *patch.Stabilizer
	path       string
	seq        int
}

// NewStreamer creates a streamer for the file at path.
func NewStreamer(r *Runner, path string) *Streamer {
	return &Streamer{
		runner:     r,
		stabilizer: patch.NewStabilizer(r.cfg.DebounceInterval()),
		path:       path,
	}
}

// Update processes one markup snapshot. Markup that is still mid-block, or
// whose partial trailing block cannot be located yet, defers rather than
// fails: the next update usually completes it.
func (s *Streamer) Update(markup string, now time.Time) (*StreamEvent, error) {
	s.seq++
	event := &StreamEvent{Seq: s.seq}

	plan, err := s.runner.Plan(s.path, markup, false)
	if err != nil {
		if patch.IsLocateError(err) {
			event.Deferred = true
			s.runner.logger.StreamUpdate(s.seq, true, 0, 0)
			return event, nil
		}
		return nil, err
	}

	upd := s.stabilizer.Classify(plan.Hunks, lineCount(markup), now)
	if upd.Deferred {
		event.Deferred = true
		s.runner.logger.StreamUpdate(s.seq, true, 0, 0)
		return event, nil
	}

	event.Plan = plan
	event.Classes = upd.Classes

	stable := 0
	for _, c := range upd.Classes {
		if c == patch.Stable {
			stable++
		}
	}
	s.runner.logger.StreamUpdate(s.seq, false, stable, len(upd.Classes)-stable)
	return event, nil
}

// Finish builds the final plan once the stream is complete, resetting the
// stabilizer for reuse.
func (s *Streamer) Finish(markup string) (*Plan, error) {
	s.stabilizer.Reset()
	return s.runner.Plan(s.path, markup, true)
}

func lineCount(text string) int {
	return strings.Count(text, "\n") + 1
}
