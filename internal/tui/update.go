package tui

import (
	"fmt"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/dllpatch/internal/logger"
	"github.com/joshuapare/dllpatch/patch"
)

const statusTimeout = 3 * time.Second

// Update handles all messages and updates the model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ensureVisible()
		return m, nil

	case clearStatusMsg:
		m.statusMessage = ""
		m.statusIsError = false
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Any key dismisses the problems panel.
	if m.showErrors {
		m.showErrors = false
		return m, nil
	}

	if m.showHelp {
		if key.Matches(msg, m.keys.Esc) || key.Matches(msg, m.keys.Help) || key.Matches(msg, m.keys.Quit) {
			m.showHelp = false
		}
		return m, nil
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.showHelp = true
	case key.Matches(msg, m.keys.Errors):
		if len(m.problems) == 0 {
			return m.setStatus("No problems found at startup", false)
		}
		m.showErrors = true
	case key.Matches(msg, m.keys.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keys.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keys.PageUp):
		m.moveCursor(-m.listHeight())
	case key.Matches(msg, m.keys.PageDown):
		m.moveCursor(m.listHeight())
	case key.Matches(msg, m.keys.Home):
		m.cursor = m.firstSelectable()
		m.ensureVisible()
	case key.Matches(msg, m.keys.End):
		m.cursor = m.lastSelectable()
		m.ensureVisible()
	case key.Matches(msg, m.keys.Refresh):
		m.refresh()
		return m.setStatus("Re-read all files", false)
	case key.Matches(msg, m.keys.Copy):
		return m.handleCopy()
	case key.Matches(msg, m.keys.Apply):
		return m.handleApply()
	}
	return m, nil
}

// handleApply flips the checkbox or selects the radio button under the
// cursor. A checkbox that is not on is switched on, so an unrecognized
// toggle is enabled first.
func (m Model) handleApply() (tea.Model, tea.Cmd) {
	r, ok := m.current()
	if !ok || !r.selectable() {
		return m, nil
	}
	t, err := m.target(r)
	if err != nil {
		return m.setStatus(err.Error(), true)
	}
	rep := m.report(r)

	var done string
	switch r.kind {
	case rowToggle:
		tg, err := t.Toggle(rep.Name)
		if err != nil {
			return m.setStatus(err.Error(), true)
		}
		on := rep.State.Status != patch.StatusOn
		err = tg.Apply(on)
		m.refresh()
		if err != nil {
			logger.Warn("toggle failed", "file", t.Name(), "rule", rep.Name, "error", err)
			return m.setStatus(err.Error(), true)
		}
		done = fmt.Sprintf("%s %s", rep.Name, patch.StateOff)
		if on {
			done = fmt.Sprintf("%s %s", rep.Name, patch.StateOn)
		}
	case rowChoice:
		u, err := t.Union(rep.Name)
		if err != nil {
			return m.setStatus(err.Error(), true)
		}
		err = u.Apply(r.choice)
		m.refresh()
		if err != nil {
			logger.Warn("select failed", "file", t.Name(), "rule", rep.Name, "choice", r.choice, "error", err)
			return m.setStatus(err.Error(), true)
		}
		done = fmt.Sprintf("%s %s", rep.Name, patch.Matched(r.choice))
	}
	return m.setStatus("✓ "+done, false)
}

// handleCopy puts "<path>: <rule> <state>" for the row under the cursor on
// the clipboard.
func (m Model) handleCopy() (tea.Model, tea.Cmd) {
	r, ok := m.current()
	if !ok || !r.selectable() {
		return m, nil
	}
	rep := m.report(r)
	text := fmt.Sprintf("%s: %s %s", m.reports[r.file].Path, rep.Name, rep.State)
	if err := m.copy(text); err != nil {
		return m.setStatus("Copy failed: "+err.Error(), true)
	}
	return m.setStatus("Copied: "+text, false)
}

func (m Model) setStatus(text string, isError bool) (tea.Model, tea.Cmd) {
	m.statusMessage = text
	m.statusIsError = isError
	return m, tea.Tick(statusTimeout, func(time.Time) tea.Msg {
		return clearStatusMsg{}
	})
}
