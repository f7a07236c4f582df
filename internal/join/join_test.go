package join_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dreamware/pimsort/internal/cache"
	"github.com/dreamware/pimsort/internal/join"
	"github.com/dreamware/pimsort/internal/mram"
	"github.com/dreamware/pimsort/internal/tuple"
)

const blockSize = 256 // 32 tuples per block

func joinCaches(rTuples, sTuples []tuple.Tuple) (*cache.BlockCache, *cache.BlockCache) {
	rRegion := mram.NewRegion(blockSize, blockSize)
	sRegion := mram.NewRegion(blockSize, blockSize)

	padded := func(tuples []tuple.Tuple) []tuple.Tuple {
		out := make([]tuple.Tuple, 32)
		copy(out, tuples)
		return out
	}
	rRegion.LoadTuples(padded(rTuples))
	sRegion.LoadTuples(padded(sTuples))

	r := cache.New(blockSize)
	s := cache.New(blockSize)
	r.Reset(rRegion, cache.ReadThrough)
	s.Reset(sRegion, cache.ReadThrough)
	return r, s
}

func TestJoinNoOverlap(t *testing.T) {
	r, s := joinCaches(
		[]tuple.Tuple{{Key: 1}, {Key: 2}, {Key: 3}},
		[]tuple.Tuple{{Key: 4}, {Key: 5}, {Key: 6}},
	)

	assert.Equal(t, uint32(0), join.Join(r, s, 3, 3))
}

func TestJoinSelfJoinWithDuplicateKey(t *testing.T) {
	keys := []tuple.Tuple{{Key: 1}, {Key: 2}, {Key: 2}, {Key: 3}}
	r, s := joinCaches(keys, keys)

	// i=0,j=0: 1==1 match, j=1. i=0,j=1: 1<2, i=1. i=1,j=1: 2==2 match,
	// j=2. i=1,j=2: 2==2 match, j=3. i=1,j=3: 2<3, i=2. i=2,j=3: 2<3,
	// i=3. i=3,j=3: 3==3 match, j=4. Total = 4.
	assert.Equal(t, uint32(4), join.Join(r, s, 4, 4))
}

func TestJoinDuplicatesInSOnly(t *testing.T) {
	r, s := joinCaches(
		[]tuple.Tuple{{Key: 5}},
		[]tuple.Tuple{{Key: 5}, {Key: 5}, {Key: 5}},
	)

	assert.Equal(t, uint32(3), join.Join(r, s, 1, 3))
}

func TestJoinDuplicatesInROnlyDoesNotCrossMultiply(t *testing.T) {
	// Three r-rows with key 5 against a single matching s-row: because
	// only j advances on a match, only the first r-row consumes it before
	// j moves past key 5, leaving the remaining r-duplicates unmatched.
	r, s := joinCaches(
		[]tuple.Tuple{{Key: 5}, {Key: 5}, {Key: 5}},
		[]tuple.Tuple{{Key: 5}},
	)

	assert.Equal(t, uint32(1), join.Join(r, s, 3, 1))
}

func TestJoinInterleavedKeys(t *testing.T) {
	r, s := joinCaches(
		[]tuple.Tuple{{Key: 1}, {Key: 3}, {Key: 5}},
		[]tuple.Tuple{{Key: 2}, {Key: 3}, {Key: 4}, {Key: 5}},
	)

	assert.Equal(t, uint32(2), join.Join(r, s, 3, 4))
}

func TestJoinEmptyRelation(t *testing.T) {
	r, s := joinCaches(nil, []tuple.Tuple{{Key: 1}})
	assert.Equal(t, uint32(0), join.Join(r, s, 0, 1))
}
