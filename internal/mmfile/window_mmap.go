//go:build linux || darwin || freebsd

package mmfile

import (
	"errors"

	"golang.org/x/sys/unix"
)

// load maps the file RW so writes land in the page cache directly.
func (w *Window) load(size int) error {
	data, err := unix.Mmap(
		int(w.f.Fd()),
		0,
		size,
		unix.PROT_READ|unix.PROT_WRITE,
		unix.MAP_SHARED,
	)
	if err != nil {
		return err
	}
	w.data = data
	w.mapped = true
	return nil
}

func (w *Window) commit(off int, b []byte) error {
	copy(w.data[off:], b)
	return w.flushRange(off, len(b))
}

func (w *Window) release() error {
	if !w.mapped || w.data == nil {
		return nil
	}
	err := unix.Msync(w.data, unix.MS_SYNC)
	if uerr := unix.Munmap(w.data); uerr != nil && !errors.Is(uerr, unix.EINVAL) && err == nil {
		// EINVAL means already unmapped; treat as no-op.
		err = uerr
	}
	return err
}
