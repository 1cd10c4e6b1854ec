//go:build darwin

package discard

import (
	"errors"
	"io"
	"os"
	"syscall"
	"unsafe"

	"golang.org/x/sys/unix"

	"github.com/voidfs/blockdiscard/pkg/bufpool"
)

// F_PUNCHHOLE from sys/fcntl.h.
const fPunchhole = 99

// fpunchhole mirrors struct fpunchhole from sys/fcntl.h.
type fpunchhole struct {
	flags    uint32
	reserved uint32
	offset   int64
	length   int64
}

// darwinDeallocator punches holes with fcntl(F_PUNCHHOLE). The primitive
// insists on arguments aligned to the f_bsize reported by fstatfs
// (file-backed devices often advertise 512 byte sectors while the
// filesystem uses 4096 byte blocks), so every request goes through the
// aligned executor, which zero-fills the unaligned edges itself.
type darwinDeallocator struct {
	pool *bufpool.Pool
}

func newDeallocator(pool *bufpool.Pool) deallocator {
	return &darwinDeallocator{pool: pool}
}

func (d *darwinDeallocator) deallocate(fd uintptr, offset, length uint64) *OpError {
	var fsbuf unix.Statfs_t
	if err := unix.Fstatfs(int(fd), &fsbuf); err != nil {
		return &OpError{Op: OpBlockSizeQuery, Err: err}
	}

	blockSize := uint64(fsbuf.Bsize)
	if blockSize == 0 {
		return &OpError{Op: OpBlockSizeQuery, Err: errors.New("filesystem reported zero block size")}
	}

	return alignedPunch(fileOps{fd: fd, pool: d.pool}, blockSize, offset, length)
}

// fileOps implements punchOps against a real descriptor.
type fileOps struct {
	fd   uintptr
	pool *bufpool.Pool
}

func (o fileOps) punchHole(offset, length uint64) error {
	return punchholeFcntl(o.fd, offset, length)
}

func (o fileOps) zeroFill(offset, length uint64) error {
	buf := o.pool.GetZeroed(int(length))
	defer o.pool.Put(buf)

	// A short write would leave part of the range holding its old content,
	// so keep writing until the whole buffer has landed.
	rest := buf
	for len(rest) > 0 {
		n, err := unix.Pwrite(int(o.fd), rest, int64(offset))
		if err != nil {
			return err
		}
		if n <= 0 {
			return io.ErrShortWrite
		}
		rest = rest[n:]
		offset += uint64(n)
	}
	return nil
}

func punchholeFcntl(fd uintptr, offset, length uint64) error {
	arg := fpunchhole{offset: int64(offset), length: int64(length)}
	if _, _, errno := syscall.Syscall(syscall.SYS_FCNTL, fd, fPunchhole, uintptr(unsafe.Pointer(&arg))); errno != 0 {
		return errno
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

// PunchHole issues fcntl(F_PUNCHHOLE) directly, with no alignment splitting.
// It exists for diagnostic drivers that probe the raw primitive; real
// requests go through a Service.
func PunchHole(f *os.File, offset, length uint64) error {
	return punchholeFcntl(f.Fd(), offset, length)
}

func errnoSaysNotSupported(err error) bool {
	return errors.Is(err, unix.ENOTSUP) || errors.Is(err, unix.ENOSYS)
}
