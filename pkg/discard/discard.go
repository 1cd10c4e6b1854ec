package discard

import (
	"errors"
	"fmt"
	"os"
)

// Op identifies the sub-operation of a discard request that produced an
// error. A failed request reports exactly one Op so callers can tell a
// metadata query failure (target untouched) from a failure partway through
// the zero-fill/punch sequence (range state unspecified).
type Op int

const (
	// OpNone means no sub-operation failed.
	OpNone Op = iota

	// OpClassify is the handle introspection that distinguishes block
	// devices from regular files.
	OpClassify

	// OpBlockSizeQuery is the filesystem block size lookup. A failure here
	// aborts the request before any mutating call, so on-disk state is
	// guaranteed unchanged.
	OpBlockSizeQuery

	// OpDeviceDiscard is the device-relative range discard issued to block
	// devices.
	OpDeviceDiscard

	// OpPunchHole is the filesystem hole punch.
	OpPunchHole

	// OpZeroFill is a positioned write of zeros over an unaligned head or
	// tail of the requested range.
	OpZeroFill

	// OpUnsupported marks platforms with no deallocation primitive.
	OpUnsupported
)

// String returns the stable label used in errors, logs, and metrics.
func (op Op) String() string {
	switch op {
	case OpNone:
		return "none"
	case OpClassify:
		return "classify"
	case OpBlockSizeQuery:
		return "blocksize-query"
	case OpDeviceDiscard:
		return "device-discard"
	case OpPunchHole:
		return "punch-hole"
	case OpZeroFill:
		return "zero-fill"
	case OpUnsupported:
		return "unsupported"
	default:
		return "unknown"
	}
}

// OpError reports which sub-operation of a discard request failed, carrying
// the native OS error unmodified so callers can distinguish "not supported"
// from "invalid argument" from an I/O failure.
type OpError struct {
	Op  Op
	Err error
}

func (e *OpError) Error() string {
	return fmt.Sprintf("discard: %s: %v", e.Op, e.Err)
}

func (e *OpError) Unwrap() error {
	return e.Err
}

// ErrNotSupported is reported when the platform or filesystem offers no
// range deallocation primitive. It is never retried and never replaced with
// a zero fill of the whole range; callers wanting that fallback must layer
// it themselves.
var ErrNotSupported = errors.New("storage range deallocation not supported")

// IsNotSupported reports whether err indicates a missing deallocation
// primitive, either the package sentinel or the platform's errno for it.
func IsNotSupported(err error) bool {
	return errors.Is(err, ErrNotSupported) || errnoSaysNotSupported(err)
}

// Request describes one range deallocation.
type Request struct {
	// File is the open target. The request does not take ownership: the
	// caller must keep it open and valid until the completion fires.
	File *os.File

	// Offset and Length delimit the byte range in the file or device.
	// Offset+Length must not overflow; the range is not checked against the
	// file size here, the OS primitive rejects out-of-range requests itself.
	Offset uint64
	Length uint64
}

// Outcome is the single completion of a discard request.
type Outcome struct {
	// Err is nil on success. On failure it is an *OpError tagging the
	// failing sub-operation. A failure partway through the sequence can
	// leave the range partially deallocated or zeroed; callers must treat
	// its state as unspecified between original and fully discarded.
	Err error
}

// FailingOp returns the sub-operation that failed, or OpNone on success.
func (o Outcome) FailingOp() Op {
	var opErr *OpError
	if errors.As(o.Err, &opErr) {
		return opErr.Op
	}
	return OpNone
}

// deallocator is the platform strategy behind a discard request. Exactly one
// implementation is compiled in per GOOS; tests substitute fakes.
type deallocator interface {
	deallocate(fd uintptr, offset, length uint64) *OpError
}
