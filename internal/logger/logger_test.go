package logger

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestInitDisabledDiscards(t *testing.T) {
	require.NoError(t, Init(Options{Enabled: false}))
	require.False(t, L.Enabled(t.Context(), slog.LevelError))
}

func TestInitConsole(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Init(Options{Enabled: true, Console: &buf, Level: slog.LevelInfo}))
	t.Cleanup(func() { _ = Close() })

	Debug("hidden")
	Info("patched", "offset", "0x64")

	out := buf.String()
	require.NotContains(t, out, "hidden")
	require.Contains(t, out, "msg=patched")
	require.Contains(t, out, "offset=0x64")
}

func TestInitFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, Init(Options{Enabled: true, LogDir: dir, Level: slog.LevelDebug}))

	Warn("rule not recognized", "rule", "Skip intro")
	require.NoError(t, Close())

	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.True(t, strings.HasPrefix(entries[0].Name(), logPrefix))

	data, err := os.ReadFile(filepath.Join(dir, entries[0].Name()))
	require.NoError(t, err)
	require.Contains(t, string(data), `"rule":"Skip intro"`)
}

func TestCleanOldLogs(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	old := logPrefix + "2024-01-01" + logSuffix
	recent := logPrefix + "2024-02-25" + logSuffix
	other := "unrelated.log"
	for _, name := range []string{old, recent, other} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0o644))
	}

	cleanOldLogs(dir, now)

	_, err := os.Stat(filepath.Join(dir, old))
	require.True(t, os.IsNotExist(err))
	_, err = os.Stat(filepath.Join(dir, recent))
	require.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, other))
	require.NoError(t, err)
}
