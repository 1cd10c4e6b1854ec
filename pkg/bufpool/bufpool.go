// Package bufpool provides a tiered buffer pool for zero-fill staging.
//
// Discarding a range whose edges are not block aligned requires writing
// zeros over the partial blocks. Those writes are always shorter than one
// filesystem block, but they happen on every misaligned request, so the
// staging buffers are pooled to avoid per-request allocations.
//
// Tiers follow the block sizes seen in practice: 4KB covers the common
// case, 64KB covers large-block filesystems, and anything bigger is
// allocated directly without pooling. Pooled buffers come back dirty;
// GetZeroed clears them before handing them out.
//
// All operations are safe for concurrent use via sync.Pool.
package bufpool

import "sync"

// Buffer size classes. Head and tail writes are bounded by the filesystem
// block size, so the tiers track common f_bsize values rather than transfer
// sizes.
const (
	// DefaultSmallSize covers the usual 4KB filesystem block.
	DefaultSmallSize = 4 << 10

	// DefaultLargeSize covers large-block filesystems (64KB allocation units).
	DefaultLargeSize = 64 << 10
)

// Pool manages byte slices organized by size class. Requests larger than
// the large tier are allocated directly and never pooled, so an unusual
// block size cannot pin oversized buffers in memory.
type Pool struct {
	small     sync.Pool
	large     sync.Pool
	smallSize int
	largeSize int
}

// Config holds configuration for creating a custom pool.
type Config struct {
	// SmallSize is the small tier in bytes (default 4KB).
	SmallSize int

	// LargeSize is the large tier in bytes (default 64KB).
	LargeSize int
}

// NewPool creates a buffer pool with the given configuration. A nil config
// uses the defaults; zero fields are filled in.
func NewPool(cfg *Config) *Pool {
	var c Config
	if cfg != nil {
		c = *cfg
	}
	if c.SmallSize <= 0 {
		c.SmallSize = DefaultSmallSize
	}
	if c.LargeSize <= 0 {
		c.LargeSize = DefaultLargeSize
	}

	p := &Pool{
		smallSize: c.SmallSize,
		largeSize: c.LargeSize,
	}
	p.small.New = func() any {
		buf := make([]byte, p.smallSize)
		return &buf
	}
	p.large.New = func() any {
		buf := make([]byte, p.largeSize)
		return &buf
	}
	return p
}

// Get returns a byte slice of exactly the requested length, backed by a
// pooled buffer when size fits a tier. The contents are unspecified; use
// GetZeroed when the buffer feeds a zero-fill write.
//
// The caller must return the buffer with Put when done.
func (p *Pool) Get(size int) []byte {
	var bufPtr *[]byte

	switch {
	case size <= p.smallSize:
		bufPtr = p.small.Get().(*[]byte)
	case size <= p.largeSize:
		bufPtr = p.large.Get().(*[]byte)
	default:
		return make([]byte, size)
	}

	return (*bufPtr)[:size]
}

// GetZeroed returns a buffer from Get with every byte cleared. Pooled
// buffers are recycled dirty, so zero-fill writes must go through this
// instead of Get.
func (p *Pool) GetZeroed(size int) []byte {
	buf := p.Get(size)
	clear(buf)
	return buf
}

// Put returns a buffer to its tier. Buffers whose capacity matches no tier
// (direct allocations from oversized Gets) are left for the GC.
func (p *Pool) Put(buf []byte) {
	if buf == nil {
		return
	}

	switch cap(buf) {
	case p.smallSize:
		full := buf[:cap(buf)]
		p.small.Put(&full)
	case p.largeSize:
		full := buf[:cap(buf)]
		p.large.Put(&full)
	}
}

// defaultPool is the shared package-level pool.
var defaultPool = NewPool(nil)

// Default returns the shared package-level pool.
func Default() *Pool {
	return defaultPool
}

// Get returns a buffer from the shared pool.
func Get(size int) []byte {
	return defaultPool.Get(size)
}

// GetZeroed returns a cleared buffer from the shared pool.
func GetZeroed(size int) []byte {
	return defaultPool.GetZeroed(size)
}

// Put returns a buffer to the shared pool.
func Put(buf []byte) {
	defaultPool.Put(buf)
}
