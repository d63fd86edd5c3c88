package patch

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"

	"github.com/joshuapare/dllpatch/internal/testutil"
	"github.com/joshuapare/dllpatch/pkg/types"
)

// memIO is an in-memory ByteIO. failWrite makes the n-th write (1-based)
// fail with an i/o error.
type memIO struct {
	data      []byte
	writes    int
	failWrite int
}

func newMemIO(size int) *memIO {
	return &memIO{data: make([]byte, size)}
}

func (m *memIO) set(off int, b ...byte) *memIO {
	copy(m.data[off:], b)
	return m
}

func (m *memIO) inRange(off int64, n int) error {
	if off < 0 || off+int64(n) > int64(len(m.data)) {
		return types.New(types.ErrKindOutOfRange, fmt.Sprintf("%d bytes at 0x%x", n, off), nil)
	}
	return nil
}

func (m *memIO) Equal(off int64, want []byte) (bool, error) {
	if err := m.inRange(off, len(want)); err != nil {
		return false, err
	}
	return bytes.Equal(m.data[off:off+int64(len(want))], want), nil
}

func (m *memIO) Write(off int64, b []byte) error {
	m.writes++
	if m.failWrite > 0 && m.writes == m.failWrite {
		return types.New(types.ErrKindIO, "injected failure", nil)
	}
	if err := m.inRange(off, len(b)); err != nil {
		return err
	}
	copy(m.data[off:], b)
	return nil
}

// writeTarget writes a zero-filled file of size bytes with the given
// overlays and returns its path.
func writeTarget(t *testing.T, dir, name string, size int, overlays map[int][]byte) string {
	t.Helper()
	at := make(testutil.Bytes, len(overlays))
	for off, b := range overlays {
		at[int64(off)] = b
	}
	return testutil.WriteTarget(t, dir, name, size, at)
}

func readAt(t *testing.T, path string, off, n int) []byte {
	t.Helper()
	return testutil.ReadAt(t, path, int64(off), n)
}

func discardLogger() *slog.Logger {
	return slog.New(slog.DiscardHandler)
}

func toggleSpec(name string, entries ...Entry) Spec {
	return Spec{Name: name, Kind: KindToggle, Entries: entries}
}

func unionSpec(name string, off int64, choices ...Choice) Spec {
	return Spec{Name: name, Kind: KindUnion, Offset: off, Choices: choices}
}
