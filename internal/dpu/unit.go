// Package dpu implements the per-worker entrypoint: the accelerator-unit
// analogue of a single UPMEM DPU. A Unit owns its backing arena and its
// three cache managers for its entire lifetime and runs the sort/join
// core over them.
package dpu

import (
	"time"

	"github.com/dreamware/pimsort/internal/cache"
	"github.com/dreamware/pimsort/internal/join"
	"github.com/dreamware/pimsort/internal/mram"
	"github.com/dreamware/pimsort/internal/sortmerge"
)

// Request is the small struct the host broadcasts to every unit before
// launch, matching the original algo_request_t.
type Request struct {
	RNum uint32
	SNum uint32
}

// Statistics is what a unit publishes back to the host after a run,
// matching the original algo_stats_t: one execution time per unit, and
// one match count per tasklet (only index 0 is populated — see DESIGN.md
// for why the other slots are reserved but unused).
type Statistics struct {
	UnitID    int
	ExecTime  time.Duration
	NbResults []uint32
}

// Total sums NbResults, the per-unit match count the host aggregates
// across all units.
func (s Statistics) Total() uint32 {
	var total uint32
	for _, n := range s.NbResults {
		total += n
	}
	return total
}

// Unit is one worker: an id, its exclusive arena, and its three
// exclusive cache managers (two read, one write-back), allocated once
// and reused across both sorts and the join.
type Unit struct {
	ID       int
	Tasklets int
	Arena    *mram.Arena
	caches   sortmerge.Caches
}

// NewUnit allocates a Unit's cache managers. blockSize must match the
// alignment the unit's eventual Arena was built with.
func NewUnit(id, tasklets, blockSize int) *Unit {
	if tasklets < 1 {
		tasklets = 1
	}
	return &Unit{
		ID:       id,
		Tasklets: tasklets,
		caches: sortmerge.Caches{
			A:   cache.New(blockSize),
			B:   cache.New(blockSize),
			Out: cache.New(blockSize),
		},
	}
}

// Bind attaches the backing arena this unit will sort and join over.
// Binding does not copy or validate arena contents; the host's loader is
// responsible for having already placed R_region/S_region there.
func (u *Unit) Bind(arena *mram.Arena) {
	u.Arena = arena
}

// Run executes the worker entrypoint: sort R, sort S, join R against S,
// and return the unit's statistics. now is injected so tests can control
// timing; production callers pass time.Now.
//
// The sort/join core is inherently a single sequential cursor walk (the
// two-pointer merge and merge-join cannot be split across tasklets
// without the cross-tasklet coordination the design explicitly rules
// out), so only tasklet 0 performs work; NbResults[1:] stay zero.
func (u *Unit) Run(req Request, now func() time.Time) Statistics {
	start := now()

	sortmerge.Sort(u.caches, u.Arena.R, u.Arena.Tmp, int(req.RNum))
	sortmerge.Sort(u.caches, u.Arena.S, u.Arena.Tmp, int(req.SNum))

	u.caches.A.Reset(u.Arena.R, cache.ReadThrough)
	u.caches.B.Reset(u.Arena.S, cache.ReadThrough)
	matches := join.Join(u.caches.A, u.caches.B, req.RNum, req.SNum)

	nbResults := make([]uint32, u.Tasklets)
	nbResults[0] = matches

	return Statistics{
		UnitID:    u.ID,
		ExecTime:  now().Sub(start),
		NbResults: nbResults,
	}
}
