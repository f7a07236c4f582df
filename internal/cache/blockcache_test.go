package cache_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dreamware/pimsort/internal/cache"
	"github.com/dreamware/pimsort/internal/mram"
	"github.com/dreamware/pimsort/internal/tuple"
)

const blockSize = 1024 // 128 tuples per block

func TestReadThroughMissAndEvictionReturnLoadedValue(t *testing.T) {
	region := mram.NewRegion(blockSize*2, blockSize)
	region.LoadTuples(seqTuples(256))

	c := cache.New(blockSize)
	c.Reset(region, cache.ReadThrough)

	assert.Equal(t, tuple.Tuple{Key: 5, Value: 5}, c.GetTuple(5))
	assert.Equal(t, tuple.Tuple{Key: 200, Value: 200}, c.GetTuple(200)) // forces eviction into block 1
	assert.Equal(t, tuple.Tuple{Key: 5, Value: 5}, c.GetTuple(5))      // forces eviction back to block 0
}

func TestWriteBackBuffersUntilFlush(t *testing.T) {
	region := mram.NewRegion(blockSize, blockSize)
	region.LoadTuples(seqTuples(128))

	c := cache.New(blockSize)
	c.Reset(region, cache.WriteBack)

	c.SetTuple(3, tuple.Tuple{Key: 999, Value: 999})

	// Not yet flushed: underlying region is untouched.
	assert.Equal(t, tuple.Tuple{Key: 3, Value: 3}, region.DumpTuples()[3])

	c.Flush()
	assert.Equal(t, tuple.Tuple{Key: 999, Value: 999}, region.DumpTuples()[3])
}

func TestWriteBackFlushesOnEviction(t *testing.T) {
	region := mram.NewRegion(blockSize*2, blockSize)
	region.LoadTuples(seqTuples(256))

	c := cache.New(blockSize)
	c.Reset(region, cache.WriteBack)

	// Contiguous write-back caches must be written in full before
	// eviction; write every tuple of block 0 before touching block 1.
	for i := 0; i < 128; i++ {
		c.SetTuple(i, tuple.Tuple{Key: uint32(1000 + i), Value: uint32(1000 + i)})
	}
	c.SetTuple(200, tuple.Tuple{Key: 222, Value: 222}) // evicts block 0, writing it back

	assert.Equal(t, tuple.Tuple{Key: 1010, Value: 1010}, region.DumpTuples()[10])
	assert.Equal(t, tuple.Tuple{Key: 1000, Value: 1000}, region.DumpTuples()[0])
	assert.Equal(t, tuple.Tuple{Key: 1127, Value: 1127}, region.DumpTuples()[127])
}

func TestFlushIsIdempotent(t *testing.T) {
	region := mram.NewRegion(blockSize, blockSize)
	region.LoadTuples(seqTuples(128))

	c := cache.New(blockSize)
	c.Reset(region, cache.WriteBack)
	c.SetTuple(0, tuple.Tuple{Key: 42, Value: 42})

	c.Flush()
	before := append([]tuple.Tuple(nil), region.DumpTuples()...)
	c.Flush()
	c.Flush()

	assert.Equal(t, before, region.DumpTuples())
}

func TestResetDoesNotFlushPendingWrites(t *testing.T) {
	regionA := mram.NewRegion(blockSize, blockSize)
	regionA.LoadTuples(seqTuples(128))
	regionB := mram.NewRegion(blockSize, blockSize)
	regionB.LoadTuples(seqTuples(128))

	c := cache.New(blockSize)
	c.Reset(regionA, cache.WriteBack)
	c.SetTuple(0, tuple.Tuple{Key: 999})

	c.Reset(regionB, cache.WriteBack) // discards the pending write to regionA

	assert.Equal(t, tuple.Tuple{Key: 0, Value: 0}, regionA.DumpTuples()[0])
}

func seqTuples(n int) []tuple.Tuple {
	out := make([]tuple.Tuple, n)
	for i := range out {
		out[i] = tuple.Tuple{Key: uint32(i), Value: uint32(i)}
	}
	return out
}
