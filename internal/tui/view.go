package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/joshuapare/dllpatch/patch"
)

// View renders the entire UI
func (m Model) View() string {
	if m.showHelp {
		return m.renderHelpOverlay()
	}
	if m.showErrors {
		return m.renderProblemsOverlay()
	}
	return m.renderMain()
}

func (m Model) renderMain() string {
	return lipgloss.JoinVertical(
		lipgloss.Left,
		m.renderHeader(),
		m.renderList(),
		m.renderStatus(),
	)
}

// renderHeader renders the title and the target directory
func (m Model) renderHeader() string {
	return lipgloss.JoinHorizontal(
		lipgloss.Top,
		headerStyle.Render("DLL Patcher"),
		"  ",
		pathStyle.Render("Dir: "+m.set.Dir()),
	)
}

func (m Model) renderList() string {
	if len(m.rows) == 0 {
		return paneStyle.Render(mutedStyle.Render("No files configured"))
	}

	end := m.offset + m.listHeight()
	if end > len(m.rows) {
		end = len(m.rows)
	}

	lines := make([]string, 0, end-m.offset)
	for i := m.offset; i < end; i++ {
		line := m.renderRow(m.rows[i])
		if i == m.cursor {
			line = selectedStyle.Render(line)
		}
		lines = append(lines, line)
	}

	style := paneStyle
	if m.width > 4 {
		style = style.Width(m.width - 2)
	}
	return style.Render(strings.Join(lines, "\n"))
}

// renderRow renders one row without selection highlighting.
func (m Model) renderRow(r row) string {
	if r.kind == rowFile {
		fr := m.reports[r.file]
		if len(fr.Rules) == 0 {
			return fileStyle.Render(fr.Path) + mutedStyle.Render("  (no patches)")
		}
		return fileStyle.Render(fr.Path)
	}

	rep := m.report(r)
	switch r.kind {
	case rowToggle:
		return "  " + checkbox(rep.State) + " " + ruleStyle.Render(rep.Name) + stateSuffix(rep)
	case rowUnion:
		return "  " + ruleStyle.Render(rep.Name) + stateSuffix(rep)
	default:
		return "      " + radio(rep.State, r.choice) + " " + r.choice
	}
}

func checkbox(s patch.State) string {
	switch s.Status {
	case patch.StatusOn:
		return onStyle.Render("[x]")
	case patch.StatusOff:
		return "[ ]"
	default:
		return unknownStyle.Render("[?]")
	}
}

func radio(s patch.State, choice string) string {
	switch {
	case s.Status == patch.StatusMatched && s.Choice == choice:
		return onStyle.Render("(•)")
	case !s.Known():
		return unknownStyle.Render("(?)")
	default:
		return "( )"
	}
}

func stateSuffix(rep patch.RuleReport) string {
	if rep.State.Known() {
		return ""
	}
	return "  " + unknownStyle.Render(rep.State.String())
}

// renderStatus renders the status bar: the last action's outcome, or key help.
func (m Model) renderStatus() string {
	style := statusStyle
	if m.width > 0 {
		style = style.Width(m.width)
	}

	if m.statusMessage != "" {
		if m.statusIsError {
			return style.Render(errorStyle.Render("Error: " + m.statusMessage))
		}
		return style.Render(messageStyle.Render(m.statusMessage))
	}

	var help strings.Builder
	help.WriteString(helpStyle.Render("space: Toggle/select"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("r: Re-read"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("?: Help"))
	help.WriteString(" │ ")
	help.WriteString(helpStyle.Render("q: Quit"))
	if n := len(m.problems); n > 0 {
		help.WriteString(" │ ")
		help.WriteString(errorStyle.Render(fmt.Sprintf("e: %d problem(s)", n)))
	}
	return style.Render(help.String())
}

func (m Model) renderHelpOverlay() string {
	var b strings.Builder
	b.WriteString(helpTitleStyle.Render("Keyboard Shortcuts"))
	b.WriteString("\n\n")

	for _, group := range m.keys.FullHelp() {
		for _, k := range group {
			h := k.Help()
			b.WriteString(helpKeyStyle.Render(h.Key))
			b.WriteString("  ")
			b.WriteString(helpDescStyle.Render(h.Desc))
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	b.WriteString(mutedStyle.Render("Press ? or Esc to close"))

	return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, b.String())
}
