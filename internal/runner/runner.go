// Package runner orchestrates the patch pipeline end to end: read the
// target file, parse the markup, locate and minimize blocks, coordinate
// offsets, and drive sessions through commit, reject, and finalize.
package runner

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/kvit-s/patchkit/internal/config"
	"github.com/kvit-s/patchkit/internal/fileio"
	"github.com/kvit-s/patchkit/internal/patch"
)

// Plan is the located, minimized, offset-coordinated edit set for one
// target file, ready to be turned into an ApplySession.
type Plan struct {
	Path     string
	Original []string
	Exists   bool
	Blocks   []patch.EditBlock
	Hunks    []patch.Hunk

	// Fuzzy reports whether any block needed the indentation-tolerant
	// fallback to match.
	Fuzzy bool
}

// Runner ties the engine stages together under one configuration.
type Runner struct {
	cfg      *config.Config
	logger   *Logger
	parser   *patch.BlockParser
	sessions *SessionStore
}

// New creates a Runner from a loaded configuration.
func New(cfg *config.Config, logger *Logger) *Runner {
	markers := patch.Markers{
		Search:  cfg.Markers.Search,
		Divider: cfg.Markers.Divider,
		Replace: cfg.Markers.Replace,
	}
	return &Runner{
		cfg:      cfg,
		logger:   logger,
		parser:   patch.NewBlockParser(markers),
		sessions: NewSessionStore(),
	}
}

// Sessions returns the runner's session store.
func (r *Runner) Sessions() *SessionStore {
	return r.sessions
}

// Plan parses markup against the file at path and produces the full edit
// plan. final marks the markup as complete; a streaming caller passes
// false and re-plans as the markup grows.
func (r *Runner) Plan(path, markup string, final bool) (*Plan, error) {
	start := time.Now()

	large, size, err := fileio.IsLargeFile(path)
	if err != nil {
		return nil, err
	}
	if large && size > int64(r.cfg.Engine.MaxFileSizeKB)*1024 {
		return nil, fmt.Errorf("file %s is %d bytes, above the %dKB limit", path, size, r.cfg.Engine.MaxFileSizeKB)
	}

	original, exists, err := fileio.ReadLines(path)
	if err != nil {
		return nil, err
	}

	blocks, err := r.parser.Parse(markup, final)
	if err != nil {
		return nil, err
	}

	plan, err := r.buildPlan(path, original, exists, blocks)
	if err != nil {
		return nil, err
	}

	r.logger.PlanBuilt(path, len(blocks), len(plan.Hunks), plan.Fuzzy, time.Since(start))
	return plan, nil
}

// buildPlan locates each block in document order, minimizes, sorts and
// coordinates the result.
func (r *Runner) buildPlan(path string, original []string, exists bool, blocks []patch.EditBlock) (*Plan, error) {
	snap := patch.NewFileSnapshot(original)
	plan := &Plan{
		Path:     path,
		Original: snap.Lines(),
		Exists:   exists,
		Blocks:   blocks,
	}

	afterLine := 0
	for i, blk := range blocks {
		var mb patch.MatchedBlock
		if len(blk.OldLines) == 0 {
			// No search span: append to the end of the file.
			mb = patch.AnchorInsertion(blk, snap.Len()+1)
		} else {
			var err error
			mb, err = patch.LocateBlock(snap, blk, afterLine)
			if err != nil {
				r.logger.Error(fmt.Sprintf("locate block %d", i+1), err)
				return nil, err
			}
			if !r.cfg.GetFuzzy() && mb.Fuzzy {
				return nil, patch.BlockNotFound(i, "", 0)
			}
		}
		if mb.Fuzzy {
			plan.Fuzzy = true
		}
		afterLine = mb.StartLine
		plan.Hunks = append(plan.Hunks, patch.MinimizeBlock(mb, r.cfg.GetMinimizeHunks())...)
	}

	sorted, err := patch.SortHunks(plan.Hunks)
	if err != nil {
		return nil, err
	}
	patch.CoordinateOffsets(sorted)
	plan.Hunks = sorted
	return plan, nil
}

// NewSession opens an ApplySession for the plan and registers it in the
// session store.
func (r *Runner) NewSession(plan *Plan) (*patch.ApplySession, error) {
	id := uuid.NewString()
	session, err := patch.NewApplySession(id, plan.Original, plan.Hunks)
	if err != nil {
		return nil, err
	}
	r.sessions.Put(plan.Path, session)
	return session, nil
}

// ApplyAll commits every hunk of the plan and writes the result to disk.
// Returns the final file lines.
func (r *Runner) ApplyAll(plan *Plan) ([]string, error) {
	session, err := r.NewSession(plan)
	if err != nil {
		return nil, err
	}
	defer r.sessions.Remove(session.ID())

	if _, err := session.CommitAll(); err != nil {
		return nil, err
	}
	final, err := session.Finalize()
	if err != nil {
		return nil, err
	}
	if err := fileio.WriteLines(plan.Path, final); err != nil {
		return nil, err
	}

	r.logger.SessionResolved(session.ID(), plan.Path, len(plan.Hunks), 0)
	return final, nil
}

// RejectAll declines every hunk of the plan, leaving the file untouched.
func (r *Runner) RejectAll(plan *Plan) error {
	session, err := r.NewSession(plan)
	if err != nil {
		return err
	}
	defer r.sessions.Remove(session.ID())

	if err := session.RejectAll(); err != nil {
		return err
	}
	if _, err := session.Finalize(); err != nil {
		return err
	}

	r.logger.SessionResolved(session.ID(), plan.Path, 0, len(plan.Hunks))
	return nil
}

// ResolveSession writes a resolved session's final buffer to disk and
// drops it from the store. The session must have no pending hunks.
func (r *Runner) ResolveSession(session *patch.ApplySession, path string) error {
	defer r.sessions.Remove(session.ID())

	final, err := session.Finalize()
	if err != nil {
		return err
	}
	if err := fileio.WriteLines(path, final); err != nil {
		return err
	}

	committed, rejected := 0, 0
	for i := range session.Hunks() {
		switch session.HunkState(i) {
		case patch.HunkCommitted:
			committed++
		case patch.HunkRejected:
			rejected++
		}
	}
	r.logger.SessionResolved(session.ID(), path, committed, rejected)
	return nil
}

// Logger exposes the runner's logger for callers that log around it.
func (r *Runner) Logger() *Logger {
	return r.logger
}
