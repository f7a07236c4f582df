// Package cache implements the single-block software cache that every
// worker drives independently to turn random, element-granular access
// over an mram.Region into block-granular DMA. It is the hand-managed
// cache described in the accelerator's design: exactly one resident
// block per manager, write-back or read-through, never a hashmap.
package cache

import (
	"github.com/dreamware/pimsort/internal/mram"
	"github.com/dreamware/pimsort/internal/tuple"
)

// Direction selects whether a BlockCache fetches on miss (ReadThrough)
// or buffers writes until eviction or an explicit Flush (WriteBack).
type Direction int

const (
	ReadThrough Direction = iota
	WriteBack
)

// invalidBase marks a BlockCache with no resident block, mirroring the
// original's INVALID_POS sentinel.
const invalidBase = -1

// BlockCache owns exactly one scratchpad block and serves element-
// granular GetTuple/SetTuple over a bound mram.Region. New allocates the
// scratchpad once per worker lifetime; Reset rebinds it to a new region
// and direction without reallocating, once per sort pass.
//
// A BlockCache is not safe for concurrent use: each worker tasklet that
// touches sort or join data owns its own three caches, so no locking is
// needed on the hot path.
type BlockCache struct {
	scratchpad     []byte
	region         mram.Region
	direction      Direction
	blockBase      int
	tuplesPerBlock int
	posMask        int
	dirty          bool
}

// New allocates a BlockCache's scratchpad buffer. blockSize must be a
// multiple of tuple.Size, and blockSize/tuple.Size must be a power of
// two; both are configuration invariants, checked once here rather than
// on every Get.
func New(blockSize int) *BlockCache {
	tuplesPerBlock := blockSize / tuple.Size
	if blockSize%tuple.Size != 0 || tuplesPerBlock&(tuplesPerBlock-1) != 0 {
		panic("cache: block size must be a power-of-two multiple of tuple size")
	}
	return &BlockCache{
		scratchpad:     make([]byte, blockSize),
		blockBase:      invalidBase,
		tuplesPerBlock: tuplesPerBlock,
		posMask:        tuplesPerBlock - 1,
	}
}

// Reset rebinds the cache to a new backing region and direction,
// discarding any resident block without flushing it. Callers that need
// the previous block's writes preserved must Flush before Reset.
func (c *BlockCache) Reset(region mram.Region, direction Direction) {
	c.region = region
	c.direction = direction
	c.blockBase = invalidBase
	c.dirty = false
}

// blockOf returns the aligned block base (in tuple units) containing
// tuple index i.
func (c *BlockCache) blockOf(i int) int {
	return i &^ c.posMask
}

// ensureResident loads or evicts so that the block containing i is
// resident in the scratchpad.
func (c *BlockCache) ensureResident(i int) {
	base := c.blockOf(i)
	if c.blockBase == base {
		return
	}

	if c.blockBase != invalidBase && c.direction == WriteBack && c.dirty {
		c.region.DMAWrite(c.blockBase*tuple.Size, c.scratchpad)
	}

	if c.direction == ReadThrough {
		c.region.DMARead(base*tuple.Size, c.scratchpad)
	}

	c.blockBase = base
	c.dirty = false
}

// slot returns the scratchpad byte range for tuple index i, after
// ensuring its block is resident.
func (c *BlockCache) slot(i int) []byte {
	c.ensureResident(i)
	off := (i & c.posMask) * tuple.Size
	return c.scratchpad[off : off+tuple.Size]
}

// GetTuple returns the tuple at index i, loading its block first if
// necessary.
func (c *BlockCache) GetTuple(i int) tuple.Tuple {
	return tuple.Decode(c.slot(i))
}

// SetTuple writes t at index i. Only meaningful on a WriteBack cache;
// the write is buffered in the scratchpad until eviction or Flush.
func (c *BlockCache) SetTuple(i int, t tuple.Tuple) {
	tuple.Encode(c.slot(i), t)
	c.dirty = true
}

// Flush drains a dirty write-back block to the backing region. It is a
// no-op for read-through caches, for caches with no resident block, and
// for caches with no pending writes, so calling it repeatedly is safe.
func (c *BlockCache) Flush() {
	if c.direction != WriteBack || c.blockBase == invalidBase || !c.dirty {
		return
	}
	c.region.DMAWrite(c.blockBase*tuple.Size, c.scratchpad)
	c.dirty = false
}
