package discard

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestComputeSplit(t *testing.T) {
	tests := []struct {
		name      string
		offset    uint64
		length    uint64
		blockSize uint64
		want      splitRange
	}{
		{
			name:   "fully aligned single block",
			offset: 0, length: 4096, blockSize: 4096,
			want: splitRange{punchOffset: 0, punchLength: 4096, tailOffset: 4096},
		},
		{
			name:   "fully aligned multiple blocks",
			offset: 8192, length: 16384, blockSize: 4096,
			want: splitRange{punchOffset: 8192, punchLength: 16384, tailOffset: 24576},
		},
		{
			name:   "inside one block unaligned offset",
			offset: 100, length: 50, blockSize: 4096,
			want: splitRange{headOffset: 100, headLength: 50, tailOffset: 150},
		},
		{
			name:   "inside first block aligned offset",
			offset: 0, length: 50, blockSize: 4096,
			want: splitRange{tailOffset: 0, tailLength: 50},
		},
		{
			name:   "head punch and tail",
			offset: 100, length: 10000, blockSize: 4096,
			want: splitRange{
				headOffset: 100, headLength: 3996,
				punchOffset: 4096, punchLength: 4096,
				tailOffset: 8192, tailLength: 1908,
			},
		},
		{
			name:   "spans one boundary without a full block",
			offset: 4000, length: 200, blockSize: 4096,
			want: splitRange{
				headOffset: 4000, headLength: 96,
				tailOffset: 4096, tailLength: 104,
			},
		},
		{
			name:   "aligned offset with unaligned tail",
			offset: 4096, length: 10240, blockSize: 4096,
			want: splitRange{
				punchOffset: 4096, punchLength: 8192,
				tailOffset: 12288, tailLength: 2048,
			},
		},
		{
			name:   "unaligned head with aligned end",
			offset: 100, length: 8092, blockSize: 4096,
			want: splitRange{
				headOffset: 100, headLength: 3996,
				punchOffset: 4096, punchLength: 4096,
				tailOffset: 8192, tailLength: 0,
			},
		},
		{
			name:   "block size 512",
			offset: 513, length: 1535, blockSize: 512,
			want: splitRange{
				headOffset: 513, headLength: 511,
				punchOffset: 1024, punchLength: 1024,
				tailOffset: 2048, tailLength: 0,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := computeSplit(tt.offset, tt.length, tt.blockSize)
			assert.Equal(t, tt.want, got)
		})
	}
}

// TestComputeSplitInvariants checks the structural guarantees for a sweep of
// offsets and lengths around block boundaries.
func TestComputeSplitInvariants(t *testing.T) {
	const blockSize = 4096

	offsets := []uint64{0, 1, 100, 511, 4095, 4096, 4097, 8191, 8192}
	lengths := []uint64{1, 50, 4095, 4096, 4097, 8192, 10000, 1 << 20}

	for _, offset := range offsets {
		for _, length := range lengths {
			sr := computeSplit(offset, length, blockSize)

			require.Less(t, sr.headLength, uint64(blockSize),
				"head must be shorter than a block (offset=%d length=%d)", offset, length)
			require.Less(t, sr.tailLength, uint64(blockSize),
				"tail must be shorter than a block (offset=%d length=%d)", offset, length)
			require.Equal(t, length, sr.headLength+sr.punchLength+sr.tailLength,
				"segments must cover the range exactly (offset=%d length=%d)", offset, length)

			if sr.punchLength > 0 {
				require.Zero(t, sr.punchOffset%blockSize,
					"punch offset must be block aligned (offset=%d length=%d)", offset, length)
				require.Zero(t, sr.punchLength%blockSize,
					"punch length must be a block multiple (offset=%d length=%d)", offset, length)
			}
			if sr.headLength > 0 {
				require.Equal(t, offset, sr.headOffset)
				headEnd := sr.headOffset + sr.headLength
				wantEnd := min(offset+length, alignUp(offset, blockSize))
				require.Equal(t, wantEnd, headEnd,
					"head must stop at the first aligned boundary or the range end")
			}
		}
	}
}

func TestAlignUp(t *testing.T) {
	assert.Equal(t, uint64(0), alignUp(0, 4096))
	assert.Equal(t, uint64(4096), alignUp(1, 4096))
	assert.Equal(t, uint64(4096), alignUp(4095, 4096))
	assert.Equal(t, uint64(4096), alignUp(4096, 4096))
	assert.Equal(t, uint64(8192), alignUp(4097, 4096))
}

func TestAlignDown(t *testing.T) {
	assert.Equal(t, uint64(0), alignDown(0, 4096))
	assert.Equal(t, uint64(0), alignDown(4095, 4096))
	assert.Equal(t, uint64(4096), alignDown(4096, 4096))
	assert.Equal(t, uint64(4096), alignDown(8191, 4096))
}
