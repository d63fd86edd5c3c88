// Package testutil builds target files for tests.
package testutil

import (
	"os"
	"path/filepath"
	"sort"
	"testing"
)

// Bytes maps file offsets to the bytes stored there.
type Bytes map[int64][]byte

// WriteTarget creates dir/name as a zero-filled file of size bytes, then
// writes every entry of at. Entries are applied in offset order, so later
// ones win on overlap. Returns the file path.
func WriteTarget(t *testing.T, dir, name string, size int, at Bytes) string {
	t.Helper()

	data := make([]byte, size)
	offs := make([]int64, 0, len(at))
	for off := range at {
		offs = append(offs, off)
	}
	sort.Slice(offs, func(i, j int) bool { return offs[i] < offs[j] })
	for _, off := range offs {
		b := at[off]
		if off < 0 || off+int64(len(b)) > int64(size) {
			t.Fatalf("testutil: %d bytes at 0x%x do not fit in %s (%d bytes)", len(b), off, name, size)
		}
		copy(data[off:], b)
	}

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("testutil: write %s: %v", path, err)
	}
	return path
}

// ReadAt returns n bytes of the file at off, read through a fresh handle.
func ReadAt(t *testing.T, path string, off int64, n int) []byte {
	t.Helper()

	f, err := os.Open(path)
	if err != nil {
		t.Fatalf("testutil: open %s: %v", path, err)
	}
	defer f.Close()

	buf := make([]byte, n)
	if _, err := f.ReadAt(buf, off); err != nil {
		t.Fatalf("testutil: read %d bytes at 0x%x of %s: %v", n, off, path, err)
	}
	return buf
}
