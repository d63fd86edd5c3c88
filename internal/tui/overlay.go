package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	overlay "github.com/rmhubbert/bubbletea-overlay"
)

// mainView wraps the patch list for use as overlay background
type mainView struct {
	model *Model
}

func (v *mainView) Init() tea.Cmd                       { return nil }
func (v *mainView) Update(tea.Msg) (tea.Model, tea.Cmd) { return v, nil }
func (v *mainView) View() string                        { return v.model.renderMain() }

// problemsPanel lists the rules that were not recognized at startup.
type problemsPanel struct {
	problems []string
	width    int
}

func (p *problemsPanel) Init() tea.Cmd                       { return nil }
func (p *problemsPanel) Update(tea.Msg) (tea.Model, tea.Cmd) { return p, nil }

func (p *problemsPanel) View() string {
	var b strings.Builder
	b.WriteString(modalTitleStyle.Render("Unrecognized patches"))
	b.WriteString("\n")
	for _, msg := range p.problems {
		b.WriteString(errorStyle.Render("• "))
		b.WriteString(truncate(msg, p.width))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(mutedStyle.Render("These patches can still be applied. Press any key to continue."))
	return modalStyle.Render(b.String())
}

func (m Model) renderProblemsOverlay() string {
	// Rebuilt each render: Update returns new models, so stored pointers
	// would be stale.
	width := m.width - 12
	panel := &problemsPanel{problems: m.problems, width: width}
	o := overlay.New(panel, &mainView{model: &m}, overlay.Center, overlay.Center, 0, 0)
	return o.View()
}
