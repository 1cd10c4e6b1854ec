package discard

import "errors"

// punchOps are the two primitives the aligned executor drives: a
// block-aligned hole punch and a positioned zero-fill write.
type punchOps interface {
	punchHole(offset, length uint64) error
	zeroFill(offset, length uint64) error
}

// errMisalignedPunch signals a broken split invariant: the computed punch
// offset was not a multiple of the reported block size. Seeing it means the
// filesystem's real alignment requirement differs from its reported block
// size; the request is failed rather than handed to a primitive that would
// reject or mishandle it.
var errMisalignedPunch = errors.New("computed punch offset is not block aligned")

// alignedPunch deallocates [offset, offset+length) through a primitive that
// only accepts block-aligned arguments. The unaligned head and tail are
// zeroed with positioned writes, so a reader observes the same zero bytes a
// true deallocation would produce; only the aligned middle actually releases
// physical storage.
//
// The pipeline is strictly linear (head, punch, tail) and stops at the first
// failing step. A mid-sequence failure leaves the range partially processed;
// no cleanup is attempted.
func alignedPunch(ops punchOps, blockSize, offset, length uint64) *OpError {
	sr := computeSplit(offset, length, blockSize)

	if sr.headLength > 0 {
		if err := ops.zeroFill(sr.headOffset, sr.headLength); err != nil {
			return &OpError{Op: OpZeroFill, Err: err}
		}
	}

	if sr.punchLength > 0 {
		if sr.punchOffset%blockSize != 0 {
			return &OpError{Op: OpPunchHole, Err: errMisalignedPunch}
		}
		if err := ops.punchHole(sr.punchOffset, sr.punchLength); err != nil {
			return &OpError{Op: OpPunchHole, Err: err}
		}
	}

	if sr.tailLength > 0 {
		if err := ops.zeroFill(sr.tailOffset, sr.tailLength); err != nil {
			return &OpError{Op: OpZeroFill, Err: err}
		}
	}

	return nil
}
