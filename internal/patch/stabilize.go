package patch

import "time"

// Classification says whether a hunk survived from the previous streaming
// update unchanged.
type Classification int

const (
	// Stable - the hunk's stability key existed in the previous update;
	// skip re-render.
	Stable Classification = iota
	// Unstable - new or changed since the previous update; needs
	// re-render or re-application.
	Unstable
)

func (c Classification) String() string {
	if c == Stable {
		return "stable"
	}
	return "unstable"
}

// DefaultDebounceInterval is the minimum gap between accepted streaming
// updates (two 100ms ticks).
const DefaultDebounceInterval = 200 * time.Millisecond

// StreamUpdate is the stabilizer's verdict for one streaming update. When
// Deferred is true the caller should skip the update entirely; otherwise
// Classes is parallel to the hunks passed in.
type StreamUpdate struct {
	Deferred bool
	Classes  []Classification
}

// Stabilizer classifies each hunk of a streaming update as stable or
// unstable against the previously accepted update, bounding redraw cost to
// the hunks that actually changed. It also acts as a backpressure valve:
// updates that cannot have changed anything (same stream line count) or
// that arrive faster than the debounce interval are deferred. Deferral is
// advisory, never correctness-bearing - the caller re-parses the full
// stream on the next accepted update anyway.
//
// Not safe for concurrent use; the caller serializes updates per in-flight
// edit operation.
type Stabilizer struct {
	interval      time.Duration
	prev          map[StabilityKey]int
	lastAccepted  time.Time
	lastLineCount int
	accepted      bool
}

// NewStabilizer creates a stabilizer with the given debounce interval.
// interval <= 0 disables time-based deferral.
func NewStabilizer(interval time.Duration) *Stabilizer {
	return &Stabilizer{interval: interval}
}

// Classify processes one streaming update. streamLineCount is the line
// count of the markup stream the hunks were computed from; now is the
// update's arrival time (passed in so callers control the clock).
func (s *Stabilizer) Classify(current []Hunk, streamLineCount int, now time.Time) StreamUpdate {
	if s.accepted {
		if streamLineCount == s.lastLineCount {
			return StreamUpdate{Deferred: true}
		}
		if s.interval > 0 && now.Sub(s.lastAccepted) < s.interval {
			return StreamUpdate{Deferred: true}
		}
	}

	classes := make([]Classification, len(current))
	for i := range current {
		key := current[i].Key()
		if s.prev[key] > 0 {
			s.prev[key]--
			classes[i] = Stable
		} else {
			classes[i] = Unstable
		}
	}

	next := make(map[StabilityKey]int, len(current))
	for i := range current {
		next[current[i].Key()]++
	}
	s.prev = next
	s.lastAccepted = now
	s.lastLineCount = streamLineCount
	s.accepted = true

	return StreamUpdate{Classes: classes}
}

// Reset clears all accepted-update state, e.g. when a new edit operation
// begins on the same stabilizer.
func (s *Stabilizer) Reset() {
	s.prev = nil
	s.lastAccepted = time.Time{}
	s.lastLineCount = 0
	s.accepted = false
}
