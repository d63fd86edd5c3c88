// Package mmfile provides a bounded, read-write byte window over a single
// file on disk.
//
// # Overview
//
// A Window exposes the whole file as a byte-addressable region. Every access
// is bounds-checked against the file size captured at Open; nothing is ever
// read or written outside it, and a rejected write mutates nothing.
//
// # Durability
//
// Write is durable when it returns. On Linux and FreeBSD the mapped pages
// covering the write are flushed with msync(MS_SYNC). On macOS msync needs
// the address returned by mmap, so the whole mapping is flushed; the kernel
// only writes pages that are dirty. Other platforms keep an in-memory copy
// and write through with WriteAt followed by fsync.
//
// # Usage
//
//	w, err := mmfile.Open("game.dll")
//	if err != nil {
//	    return err
//	}
//	defer w.Close()
//
//	cur, err := w.Read(0x1f40, 2)
//	...
//	err = w.Write(0x1f40, []byte{0x90, 0x90})
//
// # Thread Safety
//
// Window instances are not thread-safe. Callers must synchronize access
// externally.
package mmfile
