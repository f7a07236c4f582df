package sortmerge

import (
	"github.com/dreamware/pimsort/internal/cache"
	"github.com/dreamware/pimsort/internal/mram"
)

// Caches bundles the three cache managers one worker drives through a
// sort: two read-through caches over the current source half-runs, and
// one write-back cache over the current destination. The same three
// instances are reused, via Reset, across every pass of a Sort call and
// across both the R and S sorts of a worker's run.
type Caches struct {
	A, B, Out *cache.BlockCache
}

// Sort drives c through a non-recursive, bottom-up mergesort of the
// first n tuples of region a, ping-ponging against tmp, which must be
// the same size as a. A Sort of n<=1 is a no-op. When the number of
// passes is odd, the final fixup DMA-copies tmp back into a so the
// logical result always lands in the name the caller passed as a.
func Sort(c Caches, a, tmp mram.Region, n int) {
	if n <= 1 {
		return
	}

	passes := 0
	for width := 1; width < n; width <<= 1 {
		src, dst := a, tmp
		if passes%2 == 1 {
			src, dst = tmp, a
		}

		c.A.Reset(src, cache.ReadThrough)
		c.B.Reset(src, cache.ReadThrough)
		c.Out.Reset(dst, cache.WriteBack)

		for i := 0; i < n; i += 2 * width {
			mid := min(i+width, n)
			right := min(mid+width, n)
			Merge(c.A, c.B, c.Out, i, mid, right)
		}

		c.Out.Flush()
		passes++
	}

	if passes%2 == 1 {
		mram.DMACopy(a, tmp)
	}
}
