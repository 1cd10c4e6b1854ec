package bufpool

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPool_GetReturnsRequestedLength(t *testing.T) {
	p := NewPool(nil)

	for _, size := range []int{1, 100, 512, 4096, 65536} {
		buf := p.Get(size)
		assert.Len(t, buf, size)
		p.Put(buf)
	}
}

func TestPool_OversizedGetIsNotPooled(t *testing.T) {
	p := NewPool(nil)

	buf := p.Get(DefaultLargeSize + 1)
	assert.Len(t, buf, DefaultLargeSize+1)
	assert.Equal(t, DefaultLargeSize+1, cap(buf), "oversized buffers are exact direct allocations")

	// Returning it is a no-op, not an error.
	p.Put(buf)
}

func TestPool_GetZeroedAfterDirtyRecycle(t *testing.T) {
	p := NewPool(nil)

	buf := p.Get(4096)
	for i := range buf {
		buf[i] = 0xFF
	}
	p.Put(buf)

	// The recycled buffer must come back fully cleared.
	zeroed := p.GetZeroed(4096)
	defer p.Put(zeroed)

	for i, b := range zeroed {
		if b != 0 {
			t.Fatalf("byte %d is %#x, want 0", i, b)
		}
	}
}

func TestPool_CustomTiers(t *testing.T) {
	p := NewPool(&Config{SmallSize: 512, LargeSize: 8192})

	small := p.Get(100)
	assert.Equal(t, 512, cap(small))
	p.Put(small)

	large := p.Get(1000)
	assert.Equal(t, 8192, cap(large))
	p.Put(large)
}

func TestPool_PutNil(t *testing.T) {
	p := NewPool(nil)
	p.Put(nil) // must not panic
}

func TestDefaultPool(t *testing.T) {
	buf := GetZeroed(4096)
	assert.Len(t, buf, 4096)
	Put(buf)

	assert.Same(t, Default(), Default())
}
