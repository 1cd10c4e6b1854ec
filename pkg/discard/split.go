package discard

// splitRange partitions a byte range around filesystem block boundaries:
// an unaligned head, a block-aligned middle eligible for hole punching, and
// an unaligned tail. Head and tail are each strictly shorter than the block
// size; their content must be zeroed by writes because deallocating a
// partial block would either be rejected by the OS or touch bytes outside
// the requested range.
type splitRange struct {
	headOffset uint64
	headLength uint64

	punchOffset uint64
	punchLength uint64

	tailOffset uint64
	tailLength uint64
}

// computeSplit derives the splitRange covering [offset, offset+length) for
// the given block size. The three segment lengths always sum to length, and
// punchOffset is a multiple of blockSize whenever punchLength is non-zero.
// blockSize must be positive.
func computeSplit(offset, length, blockSize uint64) splitRange {
	var sr splitRange

	aligned := alignUp(offset, blockSize)
	if aligned != offset {
		head := aligned - offset
		if head > length {
			head = length
		}
		sr.headOffset = offset
		sr.headLength = head
		offset += head
		length -= head
	}

	if punch := alignDown(length, blockSize); punch >= blockSize {
		sr.punchOffset = offset
		sr.punchLength = punch
		offset += punch
		length -= punch
	}

	sr.tailOffset = offset
	sr.tailLength = length
	return sr
}

// alignUp rounds x up to the next multiple of align.
func alignUp(x, align uint64) uint64 {
	if rem := x % align; rem != 0 {
		return x + (align - rem)
	}
	return x
}

// alignDown rounds x down to a multiple of align.
func alignDown(x, align uint64) uint64 {
	return x - x%align
}
