package patch

import (
	"bytes"
	"io/fs"
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/dllpatch/pkg/types"
)

func TestTargetOpenAndWrite(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "game.dll", 512, map[int][]byte{
		100: {0xe9, 0x10},
		200: {0x02},
	})

	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, &slog.HandlerOptions{Level: slog.LevelDebug}))

	tgt, err := OpenTarget(path, "game", []Spec{
		toggleSpec("Skip intro", Entry{Offset: 100, On: []byte{0x90, 0x90}, Off: []byte{0xe9, 0x10}}),
		unionSpec("Mode", 200, Choice{Name: "A", Bytes: []byte{0x01}}, Choice{Name: "B", Bytes: []byte{0x02}}),
	}, WithLogger(logger))
	require.NoError(t, err)
	defer tgt.Close()

	require.Equal(t, "game", tgt.Name())
	require.Equal(t, path, tgt.Path())
	require.Equal(t, int64(512), tgt.Size())
	require.Len(t, tgt.Rules(), 2)
	require.Empty(t, tgt.Validate())

	tg, err := tgt.Toggle("Skip intro")
	require.NoError(t, err)
	require.NoError(t, tg.Apply(true))
	require.Equal(t, []byte{0x90, 0x90}, readAt(t, path, 100, 2))

	u, err := tgt.Union("Mode")
	require.NoError(t, err)
	require.NoError(t, u.Apply("A"))
	require.Equal(t, []byte{0x01}, readAt(t, path, 200, 1))

	out := logs.String()
	require.Contains(t, out, "msg=patched")
	require.Contains(t, out, "offset=0x64")
	require.Contains(t, out, `bytes="90 90"`)
	require.Contains(t, out, "file=game")
}

func TestTargetValidateReportsEveryRule(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "game.dll", 64, map[int][]byte{
		0:  {0x90}, // entry 1: on
		8:  {0x75}, // entry 2: off -> ambiguous
		16: {0x74}, // healthy toggle: off
		32: {0xff}, // union: no match
	})

	tgt, err := OpenTarget(path, "game", []Spec{
		toggleSpec("Mixed",
			Entry{Offset: 0, On: []byte{0x90}, Off: []byte{0x74}},
			Entry{Offset: 8, On: []byte{0xeb}, Off: []byte{0x75}},
		),
		toggleSpec("Healthy", Entry{Offset: 16, On: []byte{0x90}, Off: []byte{0x74}}),
		unionSpec("Mode", 32, Choice{Name: "A", Bytes: []byte{1}}, Choice{Name: "B", Bytes: []byte{2}}),
	}, WithLogger(discardLogger()))
	require.NoError(t, err)
	defer tgt.Close()

	msgs := tgt.Validate()
	require.Len(t, msgs, 2)
	require.Contains(t, msgs[0], `"Mixed" not found`)
	require.Contains(t, msgs[0], "earlier patches are on")
	require.Contains(t, msgs[1], `"Mode" not found`)

	problems := tgt.Check()
	require.Len(t, problems, 2)
	require.ErrorIs(t, problems[0].Err, types.ErrAmbiguous)
	require.ErrorIs(t, problems[1].Err, types.ErrUnrecognized)
	require.Equal(t, "game", problems[0].File)
}

func TestTargetOutOfRangeIsFatal(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "small.dll", 16, nil)

	_, err := OpenTarget(path, "small", []Spec{
		toggleSpec("Past end", Entry{Offset: 15, On: []byte{1, 2}, Off: []byte{3, 4}}),
	}, WithLogger(discardLogger()))
	require.ErrorIs(t, err, types.ErrOutOfRange)
	require.ErrorContains(t, err, `rule "Past end"`)

	_, err = OpenTarget(path, "small", []Spec{
		unionSpec("Past end", 16, Choice{Name: "A", Bytes: []byte{1}}),
	}, WithLogger(discardLogger()))
	require.ErrorIs(t, err, types.ErrOutOfRange)
}

func TestTargetConfigErrors(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "game.dll", 16, nil)

	_, err := OpenTarget(path, "game", []Spec{
		toggleSpec("Dup", Entry{On: []byte{1}, Off: []byte{2}}),
		toggleSpec("Dup", Entry{Offset: 1, On: []byte{1}, Off: []byte{2}}),
	})
	require.ErrorIs(t, err, types.ErrConfig)
	require.ErrorContains(t, err, "declared twice")

	_, err = OpenTarget(path, "game", []Spec{
		toggleSpec("Bad", Entry{On: []byte{1, 2}, Off: []byte{2}}),
	})
	require.ErrorIs(t, err, types.ErrConfig)
}

func TestTargetMissingFile(t *testing.T) {
	_, err := OpenTarget(filepath.Join(t.TempDir(), "nope.dll"), "nope", nil)
	require.ErrorIs(t, err, types.ErrIO)
	require.ErrorIs(t, err, fs.ErrNotExist)
}

func TestTargetWithoutRules(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "empty.dll", 4, nil)

	tgt, err := OpenTarget(path, "empty", nil, WithLogger(discardLogger()))
	require.NoError(t, err)
	require.Empty(t, tgt.Rules())
	require.Empty(t, tgt.Validate())
	require.NoError(t, tgt.Close())
}

func TestTargetLookups(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "game.dll", 16, nil)

	tgt, err := OpenTarget(path, "game", []Spec{
		toggleSpec("T", Entry{On: []byte{1}, Off: []byte{0}}),
		unionSpec("U", 4, Choice{Name: "A", Bytes: []byte{0}}),
	}, WithLogger(discardLogger()))
	require.NoError(t, err)
	defer tgt.Close()

	_, err = tgt.Rule("missing")
	require.ErrorIs(t, err, types.ErrNotFound)

	_, err = tgt.Toggle("U")
	require.ErrorIs(t, err, types.ErrTypeMismatch)

	_, err = tgt.Union("T")
	require.ErrorIs(t, err, types.ErrTypeMismatch)

	r, err := tgt.Rule("U")
	require.NoError(t, err)
	require.Equal(t, KindUnion, r.Kind())
}

func TestTargetCloseIdempotent(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "game.dll", 8, nil)

	tgt, err := OpenTarget(path, "game", []Spec{
		toggleSpec("T", Entry{On: []byte{1}, Off: []byte{0}}),
	}, WithLogger(discardLogger()))
	require.NoError(t, err)

	require.NoError(t, tgt.Close())
	require.NoError(t, tgt.Close())

	tg, err := tgt.Toggle("T")
	require.NoError(t, err)
	require.ErrorIs(t, tg.Apply(true), types.ErrClosed)

	var nilTarget *Target
	require.NoError(t, nilTarget.Close())
}

func TestTargetReport(t *testing.T) {
	dir := t.TempDir()
	path := writeTarget(t, dir, "game.dll", 16, map[int][]byte{4: {2}})

	tgt, err := OpenTarget(path, "game", []Spec{
		toggleSpec("T", Entry{On: []byte{1}, Off: []byte{0}}),
		unionSpec("U", 4, Choice{Name: "A", Bytes: []byte{1}}, Choice{Name: "B", Bytes: []byte{2}}),
	}, WithLogger(discardLogger()))
	require.NoError(t, err)
	defer tgt.Close()

	rep := tgt.Report()
	require.Equal(t, "game", rep.Name)
	require.Len(t, rep.Rules, 2)
	require.Equal(t, StateOff, rep.Rules[0].State)
	require.NoError(t, rep.Rules[0].Err)
	require.Equal(t, Matched("B"), rep.Rules[1].State)
	require.Equal(t, []string{"A", "B"}, rep.Rules[1].Choices)
}
