//go:build linux

package discard

import (
	"errors"
	"os"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/voidfs/blockdiscard/pkg/bufpool"
)

// linuxDeallocator discards ranges with the BLKDISCARD ioctl on block
// devices and fallocate hole punching on regular files. Linux fallocate
// accepts arbitrary offsets and lengths, so no alignment splitting happens
// on this platform.
type linuxDeallocator struct{}

func newDeallocator(*bufpool.Pool) deallocator {
	return linuxDeallocator{}
}

func (linuxDeallocator) deallocate(fd uintptr, offset, length uint64) *OpError {
	var st unix.Stat_t
	if err := unix.Fstat(int(fd), &st); err != nil {
		return &OpError{Op: OpClassify, Err: err}
	}

	if st.Mode&unix.S_IFMT == unix.S_IFBLK {
		// Device-relative byte range; the device accepts any offset/length.
		rng := [2]uint64{offset, length}
		if _, _, errno := unix.Syscall(unix.SYS_IOCTL, fd, unix.BLKDISCARD, uintptr(unsafe.Pointer(&rng[0]))); errno != 0 {
			return &OpError{Op: OpDeviceDiscard, Err: errno}
		}
		return nil
	}

	mode := uint32(unix.FALLOC_FL_PUNCH_HOLE | unix.FALLOC_FL_KEEP_SIZE)
	if err := unix.Fallocate(int(fd), mode, int64(offset), int64(length)); err != nil {
		return &OpError{Op: OpPunchHole, Err: err}
	}
	return nil
}

// BlockSize reports the block size of the filesystem holding f.
func BlockSize(f *os.File) (uint64, error) {
	var fsbuf unix.Statfs_t
	if err := unix.Fstatfs(int(f.Fd()), &fsbuf); err != nil {
		return 0, err
	}
	return uint64(fsbuf.Bsize), nil
}

// PunchHole issues the native hole punch directly, with no alignment
// splitting and no device classification. It exists for diagnostic drivers
// that probe the raw primitive; real requests go through a Service.
func PunchHole(f *os.File, offset, length uint64) error {
	mode := uint32(unix.FALLOC_FL_PUNCH_HOLE | unix.FALLOC_FL_KEEP_SIZE)
	return unix.Fallocate(int(f.Fd()), mode, int64(offset), int64(length))
}

func errnoSaysNotSupported(err error) bool {
	return errors.Is(err, unix.EOPNOTSUPP) || errors.Is(err, unix.ENOSYS)
}
