package mmfile

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/joshuapare/dllpatch/pkg/types"
)

// Window is a read-write view of one file. The file size is fixed for the
// lifetime of the window.
type Window struct {
	path   string
	f      *os.File
	data   []byte
	mapped bool
}

// Open opens path read-write and returns a window over its full contents.
// A zero-length file yields an empty window on which every access is out of
// range.
func Open(path string) (*Window, error) {
	f, err := os.OpenFile(path, os.O_RDWR, 0)
	if err != nil {
		return nil, ioError("open", path, err)
	}

	st, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, ioError("stat", path, err)
	}
	if st.IsDir() {
		_ = f.Close()
		return nil, ioError("open", path, errors.New("is a directory"))
	}
	sz := st.Size()
	if sz > int64(^uint(0)>>1) {
		_ = f.Close()
		return nil, ioError("open", path, fmt.Errorf("file too large to map (%d bytes)", sz))
	}

	w := &Window{path: path, f: f}
	if sz == 0 {
		return w, nil
	}
	if err := w.load(int(sz)); err != nil {
		_ = f.Close()
		return nil, ioError("map", path, err)
	}
	return w, nil
}

// Path returns the path the window was opened with.
func (w *Window) Path() string { return w.path }

// Size returns the file size in bytes.
func (w *Window) Size() int64 { return int64(len(w.data)) }

// Mapped reports whether the window is backed by a shared memory mapping.
func (w *Window) Mapped() bool { return w.mapped }

// Contains reports whether n bytes at off lie inside the file.
func (w *Window) Contains(off int64, n int) bool {
	size := int64(len(w.data))
	return off >= 0 && n >= 0 && off <= size && int64(n) <= size-off
}

// Read returns a copy of n bytes at off.
func (w *Window) Read(off int64, n int) ([]byte, error) {
	if err := w.check("read", off, n); err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, w.data[off:off+int64(n)])
	return out, nil
}

// Equal reports whether the bytes at off equal want, without copying.
func (w *Window) Equal(off int64, want []byte) (bool, error) {
	if err := w.check("read", off, len(want)); err != nil {
		return false, err
	}
	return bytes.Equal(w.data[off:off+int64(len(want))], want), nil
}

// Write overwrites len(b) bytes at off and flushes them to disk before
// returning. Nothing is written if the range does not fit inside the file.
func (w *Window) Write(off int64, b []byte) error {
	if err := w.check("write", off, len(b)); err != nil {
		return err
	}
	if len(b) == 0 {
		return nil
	}
	if err := w.commit(int(off), b); err != nil {
		return ioError(fmt.Sprintf("write %d bytes at 0x%x", len(b), off), w.path, err)
	}
	return nil
}

// Close flushes and releases the window. It is safe to call more than once.
func (w *Window) Close() error {
	if w == nil || w.f == nil {
		return nil
	}
	err := w.release()
	if cerr := w.f.Close(); cerr != nil && err == nil {
		err = cerr
	}
	w.f = nil
	w.data = nil
	w.mapped = false
	if err != nil {
		return ioError("close", w.path, err)
	}
	return nil
}

func (w *Window) check(op string, off int64, n int) error {
	if w.f == nil {
		return types.New(types.ErrKindState, fmt.Sprintf("mmfile: %s %s", op, w.path), types.ErrClosed)
	}
	if !w.Contains(off, n) {
		return types.New(types.ErrKindOutOfRange, fmt.Sprintf(
			"mmfile: %s %d bytes at 0x%x exceeds %s (%d bytes)",
			op, n, off, w.path, len(w.data),
		), nil)
	}
	return nil
}

func ioError(op, path string, err error) error {
	msg := fmt.Sprintf("mmfile: %s %s", op, path)
	var pe *fs.PathError
	if errors.As(err, &pe) {
		// PathError already names the file; keep the cause short.
		err = pe.Err
	}
	return types.New(types.ErrKindIO, msg, err)
}
