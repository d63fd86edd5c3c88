package tui

import (
	"fmt"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/joshuapare/dllpatch/internal/logger"
	"github.com/joshuapare/dllpatch/patch"
)

type rowKind int

const (
	rowFile   rowKind = iota // file heading
	rowToggle                // checkbox
	rowUnion                 // radio group heading
	rowChoice                // one radio button
)

// row is one line of the patch list. file and rule index into Model.reports,
// which is rebuilt after every write.
type row struct {
	kind   rowKind
	file   int
	rule   int
	choice string
}

func (r row) selectable() bool {
	return r.kind == rowToggle || r.kind == rowChoice
}

// Header and status bar lines, plus the pane border.
const chromeHeight = 6

// Model is the main application model
type Model struct {
	set     *patch.Set
	reports []patch.FileReport
	rows    []row
	keys    KeyMap

	cursor int // index into rows, always a selectable row when one exists
	offset int // first visible row

	width  int
	height int

	// Startup problems, shown in a blocking panel until dismissed.
	problems   []string
	showErrors bool

	showHelp bool

	// Status message for feedback on the last action
	statusMessage string
	statusIsError bool

	// copy writes to the system clipboard; swapped out in tests.
	copy func(string) error
}

// clearStatusMsg clears the status bar after a timeout.
type clearStatusMsg struct{}

// New builds the model for an opened set and runs the startup validation.
// When any rule is unrecognized the problems panel is shown first.
func New(set *patch.Set) Model {
	m := Model{
		set:  set,
		keys: DefaultKeyMap(),
		copy: clipboard.WriteAll,
	}
	m.reports = set.Report()
	m.rows = buildRows(m.reports)
	m.cursor = m.firstSelectable()

	problems := set.ValidateAll()
	for _, t := range set.Targets() {
		for _, msg := range problems[t.Name()] {
			m.problems = append(m.problems, fmt.Sprintf("%s: %s", t.Path(), msg))
		}
	}
	m.showErrors = len(m.problems) > 0
	logger.Info("patch list loaded", "files", len(m.reports), "rows", len(m.rows), "problems", len(m.problems))
	return m
}

func buildRows(reports []patch.FileReport) []row {
	var rows []row
	for fi, fr := range reports {
		rows = append(rows, row{kind: rowFile, file: fi})
		for ri, r := range fr.Rules {
			if r.Kind == patch.KindToggle {
				rows = append(rows, row{kind: rowToggle, file: fi, rule: ri})
				continue
			}
			rows = append(rows, row{kind: rowUnion, file: fi, rule: ri})
			for _, c := range r.Choices {
				rows = append(rows, row{kind: rowChoice, file: fi, rule: ri, choice: c})
			}
		}
	}
	return rows
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Close releases every target file.
func (m Model) Close() error {
	return m.set.Close()
}

// Problems returns the startup validation messages.
func (m Model) Problems() []string {
	return m.problems
}

func (m Model) report(r row) patch.RuleReport {
	return m.reports[r.file].Rules[r.rule]
}

func (m Model) target(r row) (*patch.Target, error) {
	return m.set.Target(m.reports[r.file].Name)
}

// current returns the row under the cursor.
func (m Model) current() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

// refresh re-reads the state of every rule from the mapped files.
func (m *Model) refresh() {
	m.reports = m.set.Report()
}

func (m Model) firstSelectable() int {
	for i, r := range m.rows {
		if r.selectable() {
			return i
		}
	}
	return 0
}

func (m Model) lastSelectable() int {
	for i := len(m.rows) - 1; i >= 0; i-- {
		if m.rows[i].selectable() {
			return i
		}
	}
	return 0
}

// moveCursor moves by delta selectable rows, stopping at either end.
func (m *Model) moveCursor(delta int) {
	step := 1
	if delta < 0 {
		step, delta = -1, -delta
	}
	for ; delta > 0; delta-- {
		next := m.cursor + step
		for next >= 0 && next < len(m.rows) && !m.rows[next].selectable() {
			next += step
		}
		if next < 0 || next >= len(m.rows) {
			break
		}
		m.cursor = next
	}
	m.ensureVisible()
}

func (m Model) listHeight() int {
	h := m.height - chromeHeight
	if h < 1 {
		h = len(m.rows)
	}
	return h
}

func (m *Model) ensureVisible() {
	h := m.listHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	// Keep the file heading of the first rule visible when at the top.
	if m.cursor == m.firstSelectable() {
		m.offset = 0
	}
}
