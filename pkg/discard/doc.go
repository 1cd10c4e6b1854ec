// Package discard frees the physical storage backing a byte range of an
// open file or block device without changing its logical size.
//
// Each request is dispatched to the most efficient primitive the host
// exposes: a device-level TRIM for block devices, the filesystem's hole
// punch for regular files, or a block-aligned punch with zero-filled edges
// on platforms whose primitive rejects misaligned arguments. Platforms with
// no facility at all report ErrNotSupported; the package never silently
// substitutes a whole-range zero fill.
//
// The underlying system calls block, so a Service runs every request on its
// own worker goroutine and delivers exactly one Outcome on a completion
// channel:
//
//	svc := discard.New(discard.Config{})
//	out := <-svc.Submit(discard.Request{File: f, Offset: off, Length: n})
//	if out.Err != nil { ... }
//
// The package does not coordinate concurrent requests, even on the same
// file. Callers needing mutual exclusion over a byte range must serialize
// before submitting.
package discard
