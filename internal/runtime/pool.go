// Package runtime models the accelerator runtime's abstract interface —
// allocate, load, broadcast, launch_async, sync, gather — as a
// fixed-size goroutine pool. On real UPMEM hardware this is a library
// that DMAs binaries and requests onto separate chips; here it is
// golang.org/x/sync/errgroup fanning out over dpu.Unit values that
// already share the host process's memory: a thread pool over
// partitioned slices.
package runtime

import (
	"context"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/dreamware/pimsort/internal/dpu"
)

// Clock abstracts time.Now so tests can control the reported ExecTime
// without sleeping.
type Clock func() time.Time

// Launch broadcasts one request per unit, starts every unit
// simultaneously (after an internal startup barrier), waits for them all
// to finish, and gathers their statistics in unit order. It returns the
// first error encountered by any unit, aborting the run: no partial
// statistics are considered valid on error.
//
// Only unit 0 zeroes the shared statistics slice before the barrier
// release; because every unit thereafter writes only to its own
// disjoint slot, no further synchronization is needed once the barrier
// opens.
func Launch(ctx context.Context, units []*dpu.Unit, requests []dpu.Request, now Clock) ([]dpu.Statistics, error) {
	if len(units) != len(requests) {
		panic("runtime: units and requests must be the same length")
	}

	stats := make([]dpu.Statistics, len(units))

	var ready sync.WaitGroup
	ready.Add(len(units))
	barrier := make(chan struct{})

	var statsMu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	for i := range units {
		i := i
		g.Go(func() error {
			if units[i].ID == 0 {
				statsMu.Lock()
				for j := range stats {
					stats[j] = dpu.Statistics{}
				}
				statsMu.Unlock()
			}

			ready.Done()

			select {
			case <-barrier:
			case <-gctx.Done():
				return gctx.Err()
			}

			stats[i] = units[i].Run(requests[i], now)
			return nil
		})
	}

	go func() {
		ready.Wait()
		close(barrier)
	}()

	if err := g.Wait(); err != nil {
		return nil, err
	}
	return stats, nil
}
