// Package sortmerge implements the accelerator's core algorithm: a
// stable two-way merge and the non-recursive bottom-up mergesort built
// on top of it, both driven entirely through cache.BlockCache so that
// every element access amortizes to one DMA per block.
package sortmerge

import "github.com/dreamware/pimsort/internal/cache"

// Merge performs a stable two-way merge of [left,mid) and [mid,right)
// from a and b into [left,right) of out. a and b must be bound (via
// Reset) to the same read-through region; out must be bound to the
// opposite, write-back region. On equal keys the left run (a) wins,
// which is what makes the surrounding sort stable.
func Merge(a, b, out *cache.BlockCache, left, mid, right int) {
	i, j, k := left, mid, left

	for i < mid && j < right {
		ai := a.GetTuple(i)
		bj := b.GetTuple(j)
		if ai.Key <= bj.Key {
			out.SetTuple(k, ai)
			i++
		} else {
			out.SetTuple(k, bj)
			j++
		}
		k++
	}

	for i < mid {
		out.SetTuple(k, a.GetTuple(i))
		i++
		k++
	}

	for j < right {
		out.SetTuple(k, b.GetTuple(j))
		j++
		k++
	}
}
