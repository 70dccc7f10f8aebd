// Package review implements the per-hunk interactive apply flow: each hunk
// is shown as a diff and resolved with a single keypress.
package review

import (
	"errors"
	"fmt"
	"os"

	"github.com/eiannone/keyboard"

	"github.com/kvit-s/patchkit/internal/patch"
	"github.com/kvit-s/patchkit/internal/render"
)

// ErrAborted is returned when the user quits mid-review. The caller
// discards the session and leaves the file untouched.
var ErrAborted = errors.New("review aborted")

// KeySource yields one decision keypress at a time. The terminal
// implementation reads raw keys; tests feed scripted runes.
type KeySource interface {
	Open() error
	Close()
	ReadKey() (rune, error)
}

// TerminalKeys reads single keypresses from the controlling terminal.
type TerminalKeys struct{}

func (TerminalKeys) Open() error { return keyboard.Open() }

func (TerminalKeys) Close() { _ = keyboard.Close() }

func (TerminalKeys) ReadKey() (rune, error) {
	ch, key, err := keyboard.GetKey()
	if err != nil {
		return 0, err
	}
	if key == keyboard.KeyCtrlC || key == keyboard.KeyEsc {
		return 'q', nil
	}
	return ch, nil
}

// Reviewer walks a session hunk by hunk.
type Reviewer struct {
	writer *render.Writer
	keys   KeySource
}

// New creates a Reviewer. A nil keys falls back to the terminal.
func New(writer *render.Writer, keys KeySource) *Reviewer {
	if keys == nil {
		keys = TerminalKeys{}
	}
	return &Reviewer{writer: writer, keys: keys}
}

// Run resolves every pending hunk of the session interactively:
//
//	y - commit this hunk
//	n - reject this hunk
//	a - commit this and all remaining hunks
//	r - reject all remaining hunks
//	q - abort the review
//
// On success every hunk is resolved and the caller can Finalize.
func (r *Reviewer) Run(session *patch.ApplySession) error {
	if err := r.keys.Open(); err != nil {
		return fmt.Errorf("open keyboard: %w", err)
	}
	defer r.keys.Close()

	hunks := session.Hunks()
	for i := range hunks {
		if session.HunkState(i) != patch.HunkPending {
			continue
		}
		r.writer.Hunk(i, hunks[i])

		decision, err := r.readDecision(i, len(hunks))
		if err != nil {
			return err
		}
		switch decision {
		case 'y':
			if _, err := session.Commit(i); err != nil {
				return err
			}
		case 'n':
			if _, err := session.Reject(i); err != nil {
				return err
			}
		case 'a':
			if _, err := session.CommitAll(); err != nil {
				return err
			}
			return nil
		case 'r':
			return session.RejectAll()
		case 'q':
			return ErrAborted
		}
		r.writer.Resolution(i, hunks[i], session.HunkState(i))
	}
	return nil
}

// readDecision prompts until a recognized key arrives.
func (r *Reviewer) readDecision(index, total int) (rune, error) {
	for {
		fmt.Fprint(os.Stderr, render.HunkPrompt(index, total))
		ch, err := r.keys.ReadKey()
		fmt.Fprintln(os.Stderr)
		if err != nil {
			return 0, err
		}
		switch ch {
		case 'y', 'n', 'a', 'r', 'q':
			return ch, nil
		case 'Y':
			return 'y', nil
		case 'N':
			return 'n', nil
		}
	}
}
