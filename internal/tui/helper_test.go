package tui

import (
	"os"
	"path/filepath"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dllpatch/internal/testutil"
	"github.com/joshuapare/dllpatch/patch"
)

// testHelper drives a Model with synthetic messages. Commands returned by
// Update are dropped, so status timers never fire.
type testHelper struct {
	t     *testing.T
	dir   string
	model Model
}

var testFiles = []patch.File{
	{
		Name: "game",
		Rules: []patch.Spec{
			{
				Name: "Skip intro",
				Kind: patch.KindToggle,
				Entries: []patch.Entry{
					{Offset: 0x10, On: []byte{0x90, 0x90}, Off: []byte{0xe9, 0x10}},
				},
			},
			{
				Name:   "Mode",
				Kind:   patch.KindUnion,
				Offset: 0x20,
				Choices: []patch.Choice{
					{Name: "A", Bytes: []byte{0x01}},
					{Name: "B", Bytes: []byte{0x02}},
				},
			},
		},
	},
	{
		Name: "audio",
		Rules: []patch.Spec{
			{
				Name: "Mixed",
				Kind: patch.KindToggle,
				Entries: []patch.Entry{
					{Offset: 0, On: []byte{0x90}, Off: []byte{0x74}},
					{Offset: 8, On: []byte{0xeb}, Off: []byte{0x75}},
				},
			},
		},
	},
}

// newTestHelper writes game.dll (toggle off, union on B) and audio.dll
// (Mixed unrecognized) and opens them. Pass clean to make Mixed recognized.
func newTestHelper(t *testing.T, clean bool) *testHelper {
	t.Helper()
	dir := t.TempDir()

	testutil.WriteTarget(t, dir, "game.dll", 64, testutil.Bytes{
		0x10: {0xe9, 0x10},
		0x20: {0x02},
	})
	mixed := byte(0x75)
	if clean {
		mixed = 0xeb
	}
	testutil.WriteTarget(t, dir, "audio.dll", 16, testutil.Bytes{0: {0x90}, 8: {mixed}})

	set, err := patch.Open(dir, testFiles)
	require.NoError(t, err)

	m := New(set)
	m.copy = func(string) error { return nil }
	h := &testHelper{t: t, dir: dir, model: m}
	t.Cleanup(func() { _ = h.model.Close() })
	return h.sendWindowSize(100, 30)
}

func (h *testHelper) update(msg tea.Msg) *testHelper {
	updated, _ := h.model.Update(msg)
	h.model = updated.(Model)
	return h
}

func (h *testHelper) sendKey(keyType tea.KeyType) *testHelper {
	return h.update(tea.KeyMsg{Type: keyType})
}

func (h *testHelper) sendKeyRune(r rune) *testHelper {
	return h.update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
}

func (h *testHelper) sendSpace() *testHelper {
	return h.update(tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}})
}

func (h *testHelper) sendWindowSize(width, height int) *testHelper {
	return h.update(tea.WindowSizeMsg{Width: width, Height: height})
}

// moveTo places the cursor on the row whose rule (and choice) match.
func (h *testHelper) moveTo(rule, choice string) *testHelper {
	h.t.Helper()
	for i, r := range h.model.rows {
		if !r.selectable() {
			continue
		}
		if h.model.report(r).Name == rule && r.choice == choice {
			h.model.cursor = i
			return h
		}
	}
	h.t.Fatalf("no row for %q/%q", rule, choice)
	return h
}

func (h *testHelper) currentRow() row {
	r, _ := h.model.current()
	return r
}

func (h *testHelper) readFile(name string) []byte {
	h.t.Helper()
	data, err := os.ReadFile(filepath.Join(h.dir, name))
	require.NoError(h.t, err)
	return data
}
