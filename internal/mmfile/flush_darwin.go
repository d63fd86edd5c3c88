//go:build darwin

package mmfile

import "golang.org/x/sys/unix"

// flushRange syncs the whole mapping.
//
// On macOS, msync() requires the address to match the original mmap() address,
// so sub-slices cannot be passed. The kernel only writes dirty pages anyway.
func (w *Window) flushRange(_, _ int) error {
	return unix.Msync(w.data, unix.MS_SYNC)
}
