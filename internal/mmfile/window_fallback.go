//go:build !linux && !darwin && !freebsd

package mmfile

import "io"

// load reads the entire file when mmap is not available.
func (w *Window) load(size int) error {
	buf := make([]byte, size)
	if _, err := io.ReadFull(w.f, buf); err != nil {
		return err
	}
	w.data = buf
	return nil
}

// commit writes through to the file first so the in-memory copy never gets
// ahead of the disk.
func (w *Window) commit(off int, b []byte) error {
	if _, err := w.f.WriteAt(b, int64(off)); err != nil {
		return err
	}
	if err := w.f.Sync(); err != nil {
		return err
	}
	copy(w.data[off:], b)
	return nil
}

func (w *Window) release() error {
	return w.f.Sync()
}
