//go:build !linux && !darwin

package discard

import (
	"os"

	"github.com/voidfs/blockdiscard/pkg/bufpool"
)

// unsupportedDeallocator reports incapability on platforms without a native
// range deallocation primitive. It never substitutes a whole-range zero
// fill; callers that want one must layer it above this package.
type unsupportedDeallocator struct{}

func newDeallocator(*bufpool.Pool) deallocator {
	return unsupportedDeallocator{}
}

func (unsupportedDeallocator) deallocate(fd uintptr, offset, length uint64) *OpError {
	return &OpError{Op: OpUnsupported, Err: ErrNotSupported}
}

// BlockSize is unavailable on this platform.
func BlockSize(f *os.File) (uint64, error) {
	return 0, ErrNotSupported
}

// PunchHole is unavailable on this platform.
func PunchHole(f *os.File, offset, length uint64) error {
	return ErrNotSupported
}

func errnoSaysNotSupported(error) bool {
	return false
}
