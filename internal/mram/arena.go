// Package mram models the large, slow, DMA-only backing store ("MRAM" in
// the accelerator's own vocabulary) that each worker owns. On commodity
// hardware there is no separate address space to bridge, so an Arena is
// simply a byte slice; the package still enforces the DMA-only contract
// by exposing only block-granular Read/Write, never a raw index
// dereference, so that cache.BlockCache remains the sole path by which
// sort and join code touches it.
package mram

import (
	"fmt"

	"github.com/dreamware/pimsort/internal/tuple"
)

// Region is a fixed-size, block-aligned slice of backing-store bytes
// dedicated to one of a worker's three areas (R, S, or TMP). It never
// overlaps another worker's regions or another region of the same
// worker.
type Region struct {
	bytes     []byte
	blockSize int
}

// NewRegion allocates a zeroed Region of numBytes bytes. numBytes must be
// a multiple of blockSize; this is a configuration invariant checked at
// construction, not on the hot path, per the "invariant violations are
// programming errors caught at initialization" rule.
func NewRegion(numBytes, blockSize int) Region {
	if blockSize <= 0 || numBytes%blockSize != 0 {
		panic(fmt.Sprintf("mram: region size %d is not a multiple of block size %d", numBytes, blockSize))
	}
	return Region{bytes: make([]byte, numBytes), blockSize: blockSize}
}

// Len reports the region's size in bytes.
func (r Region) Len() int { return len(r.bytes) }

// BlockSize reports the DMA block size this region was allocated for.
func (r Region) BlockSize() int { return r.blockSize }

// DMARead copies the block of r.blockSize bytes starting at byte offset
// blockBase into dst. blockBase must be block-aligned; dst must be at
// least blockSize long. This is the only way to observe region contents
// other than through a cache.BlockCache.
func (r Region) DMARead(blockBase int, dst []byte) {
	r.checkAligned(blockBase)
	copy(dst, r.bytes[blockBase:blockBase+r.blockSize])
}

// DMAWrite copies src (at least blockSize bytes) into the block starting
// at byte offset blockBase.
func (r Region) DMAWrite(blockBase int, src []byte) {
	r.checkAligned(blockBase)
	copy(r.bytes[blockBase:blockBase+r.blockSize], src[:r.blockSize])
}

// DMACopy copies the entirety of src into dst, used for the bottom-up
// mergesort's odd-pass fixup (tmp -> a) and nowhere else on the hot
// path.
func DMACopy(dst, src Region) {
	if dst.Len() != src.Len() {
		panic(fmt.Sprintf("mram: DMACopy size mismatch: dst=%d src=%d", dst.Len(), src.Len()))
	}
	copy(dst.bytes, src.bytes)
}

// LoadTuples DMA-writes tuples into r block by block. len(tuples) must
// equal r.Len()/tuple.Size. This is a host-side loader, not something
// the accelerator core itself ever calls.
func (r Region) LoadTuples(tuples []tuple.Tuple) {
	tuplesPerBlock := r.blockSize / tuple.Size
	if len(tuples)*tuple.Size != r.Len() {
		panic(fmt.Sprintf("mram: LoadTuples length mismatch: got %d tuples, region holds %d", len(tuples), r.Len()/tuple.Size))
	}

	buf := make([]byte, r.blockSize)
	for base := 0; base < len(tuples); base += tuplesPerBlock {
		for i := 0; i < tuplesPerBlock; i++ {
			tuple.Encode(buf[i*tuple.Size:], tuples[base+i])
		}
		r.DMAWrite(base*tuple.Size, buf)
	}
}

// DumpTuples decodes the entire region back into a tuple slice. Used by
// the host to read results and by tests to assert sortedness; the
// accelerator core never calls this, since it only ever touches memory
// through a cache.BlockCache.
func (r Region) DumpTuples() []tuple.Tuple {
	n := r.Len() / tuple.Size
	out := make([]tuple.Tuple, n)
	for i := 0; i < n; i++ {
		out[i] = tuple.Decode(r.bytes[i*tuple.Size : i*tuple.Size+tuple.Size])
	}
	return out
}

func (r Region) checkAligned(blockBase int) {
	if blockBase < 0 || blockBase+r.blockSize > len(r.bytes) {
		panic(fmt.Sprintf("mram: block base %d out of range for region of %d bytes", blockBase, len(r.bytes)))
	}
	if blockBase%r.blockSize != 0 {
		panic(fmt.Sprintf("mram: block base %d is not aligned to block size %d", blockBase, r.blockSize))
	}
}

// Arena is a worker's entire backing store: three equal-size,
// block-aligned regions R_region, S_region and TMP_region, each backed by
// its own separately allocated byte slice.
type Arena struct {
	R, S, Tmp Region
}

// NewArena allocates an Arena with three regions of numTuples tuples
// each (numTuples*tuple.Size bytes), all sharing blockSize.
func NewArena(numTuples, tupleSize, blockSize int) *Arena {
	n := numTuples * tupleSize
	return &Arena{
		R:   NewRegion(n, blockSize),
		S:   NewRegion(n, blockSize),
		Tmp: NewRegion(n, blockSize),
	}
}
