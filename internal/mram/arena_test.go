package mram_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dreamware/pimsort/internal/mram"
	"github.com/dreamware/pimsort/internal/tuple"
)

func TestNewRegionRejectsMisalignedSize(t *testing.T) {
	assert.Panics(t, func() {
		mram.NewRegion(100, 1024)
	})
}

func TestRegionDMAReadWriteRoundTrip(t *testing.T) {
	region := mram.NewRegion(1024, 1024)

	block := make([]byte, 1024)
	for i := range block {
		block[i] = byte(i)
	}
	region.DMAWrite(0, block)

	out := make([]byte, 1024)
	region.DMARead(0, out)

	assert.Equal(t, block, out)
}

func TestRegionDMAReadRejectsMisalignedOffset(t *testing.T) {
	region := mram.NewRegion(2048, 1024)
	buf := make([]byte, 1024)

	assert.Panics(t, func() {
		region.DMARead(1, buf)
	})
}

func TestLoadAndDumpTuplesRoundTrip(t *testing.T) {
	region := mram.NewRegion(1024, 1024) // 128 tuples
	tuples := make([]tuple.Tuple, 128)
	for i := range tuples {
		tuples[i] = tuple.Tuple{Key: uint32(127 - i), Value: uint32(i)}
	}

	region.LoadTuples(tuples)
	out := region.DumpTuples()

	require.Len(t, out, 128)
	assert.Equal(t, tuples, out)
}

func TestDMACopy(t *testing.T) {
	src := mram.NewRegion(1024, 1024)
	dst := mram.NewRegion(1024, 1024)

	tuples := make([]tuple.Tuple, 128)
	for i := range tuples {
		tuples[i] = tuple.Tuple{Key: uint32(i), Value: uint32(i * 2)}
	}
	src.LoadTuples(tuples)

	mram.DMACopy(dst, src)

	assert.Equal(t, tuples, dst.DumpTuples())
}

func TestArenaRegionsAreDisjoint(t *testing.T) {
	arena := mram.NewArena(128, tuple.Size, 1024)

	arena.R.LoadTuples(make([]tuple.Tuple, 128))
	sTuples := make([]tuple.Tuple, 128)
	for i := range sTuples {
		sTuples[i] = tuple.Tuple{Key: uint32(i + 1)}
	}
	arena.S.LoadTuples(sTuples)

	assert.NotEqual(t, arena.R.DumpTuples(), arena.S.DumpTuples())
}
