// Package tui provides the full-screen hunk review interface.
package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kvit-s/patchkit/internal/patch"
)

var (
	headerStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("252"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	addedStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	removedStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("160"))
	pendingStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	rejectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Strikethrough(true)
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("240")).MarginTop(1)
)

// ReviewModel is the bubbletea model for walking a session's hunks.
type ReviewModel struct {
	session *patch.ApplySession
	path    string

	viewport viewport.Model
	index    int
	ready    bool
	aborted  bool
	done     bool
	width    int
	err      error
}

// NewReviewModel creates a review model over an open session.
func NewReviewModel(session *patch.ApplySession, path string) ReviewModel {
	return ReviewModel{session: session, path: path, width: 80}
}

// Aborted reports whether the user quit before resolving every hunk.
func (m ReviewModel) Aborted() bool { return m.aborted }

// Err returns the first session error hit during review, if any.
func (m ReviewModel) Err() error { return m.err }

// Init implements tea.Model.
func (m ReviewModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m ReviewModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		height := msg.Height - 6 // header, status, help
		if height < 3 {
			height = 3
		}
		if !m.ready {
			m.viewport = viewport.New(msg.Width, height)
			m.ready = true
		} else {
			m.viewport.Width = msg.Width
			m.viewport.Height = height
		}
		m.viewport.SetContent(m.hunkContent())
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "y":
			return m.resolve(func() error {
				_, err := m.session.Commit(m.index)
				return err
			})
		case "n":
			return m.resolve(func() error {
				_, err := m.session.Reject(m.index)
				return err
			})
		case "a":
			return m.resolve(func() error {
				_, err := m.session.CommitAll()
				return err
			})
		case "r":
			return m.resolve(func() error {
				return m.session.RejectAll()
			})
		case "q", "ctrl+c", "esc":
			m.aborted = true
			return m, tea.Quit
		case "left", "h":
			if m.index > 0 {
				m.index--
				m.viewport.SetContent(m.hunkContent())
				m.viewport.GotoTop()
			}
			return m, nil
		case "right", "l", "tab":
			if m.index < len(m.session.Hunks())-1 {
				m.index++
				m.viewport.SetContent(m.hunkContent())
				m.viewport.GotoTop()
			}
			return m, nil
		}
	}

	if m.ready {
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd
	}
	return m, nil
}

// resolve applies a session mutation, then advances to the next pending
// hunk or quits when everything is resolved.
func (m ReviewModel) resolve(fn func() error) (tea.Model, tea.Cmd) {
	if err := fn(); err != nil {
		m.err = err
		m.aborted = true
		return m, tea.Quit
	}
	if m.session.Pending() == 0 {
		m.done = true
		return m, tea.Quit
	}
	m.index = m.nextPending()
	if m.ready {
		m.viewport.SetContent(m.hunkContent())
		m.viewport.GotoTop()
	}
	return m, nil
}

func (m ReviewModel) nextPending() int {
	n := len(m.session.Hunks())
	for off := 1; off <= n; off++ {
		i := (m.index + off) % n
		if m.session.HunkState(i) == patch.HunkPending {
			return i
		}
	}
	return m.index
}

// View implements tea.Model.
func (m ReviewModel) View() string {
	if m.done || m.aborted {
		return ""
	}

	hunks := m.session.Hunks()
	var b strings.Builder

	b.WriteString(headerStyle.Render(m.path))
	b.WriteString(dimStyle.Render(fmt.Sprintf("  hunk %d/%d", m.index+1, len(hunks))))
	b.WriteString("\n")
	b.WriteString(m.statusLine())
	b.WriteString("\n\n")

	if m.ready {
		b.WriteString(m.viewport.View())
	} else {
		b.WriteString(m.hunkContent())
	}

	b.WriteString(helpStyle.Render("y commit | n reject | a commit all | r reject all | ←/→ navigate | q quit"))
	return b.String()
}

// statusLine renders one marker per hunk: + committed, - rejected,
// ? pending, with the current hunk bracketed.
func (m ReviewModel) statusLine() string {
	var parts []string
	for i := range m.session.Hunks() {
		var mark string
		switch m.session.HunkState(i) {
		case patch.HunkCommitted:
			mark = addedStyle.Render("+")
		case patch.HunkRejected:
			mark = rejectedStyle.Render("-")
		default:
			mark = pendingStyle.Render("?")
		}
		if i == m.index {
			mark = "[" + mark + "]"
		}
		parts = append(parts, mark)
	}
	return strings.Join(parts, " ")
}

// hunkContent renders the current hunk as a colored diff.
func (m ReviewModel) hunkContent() string {
	hunks := m.session.Hunks()
	if len(hunks) == 0 {
		return dimStyle.Render("no hunks")
	}
	h := hunks[m.index]

	var b strings.Builder
	if h.IsInsertion() {
		b.WriteString(dimStyle.Render(fmt.Sprintf("@@ insert before line %d @@", h.StartLine)))
	} else {
		b.WriteString(dimStyle.Render(fmt.Sprintf("@@ lines %d-%d @@", h.StartLine, h.EndLine)))
	}
	b.WriteString("\n")
	for _, line := range h.OldLines {
		b.WriteString(removedStyle.Render("- " + line))
		b.WriteString("\n")
	}
	for _, line := range h.NewLines {
		b.WriteString(addedStyle.Render("+ " + line))
		b.WriteString("\n")
	}
	return b.String()
}

// Run drives the review to completion in a full-screen program. Returns
// whether the user aborted.
func Run(session *patch.ApplySession, path string) (bool, error) {
	model := NewReviewModel(session, path)
	p := tea.NewProgram(model, tea.WithAltScreen())
	final, err := p.Run()
	if err != nil {
		return true, err
	}
	m := final.(ReviewModel)
	if m.Err() != nil {
		return true, m.Err()
	}
	return m.Aborted(), nil
}
