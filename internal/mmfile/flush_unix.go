//go:build linux || freebsd

package mmfile

import "golang.org/x/sys/unix"

// flushRange syncs the pages covering [off, off+n).
//
// msync requires a page-aligned start address. The mapping itself starts on
// a page boundary, so rounding off down to the page size is enough.
func (w *Window) flushRange(off, n int) error {
	page := unix.Getpagesize()
	start := off &^ (page - 1)
	return unix.Msync(w.data[start:off+n], unix.MS_SYNC)
}
