package host

import (
	"errors"
	"fmt"
)

// Configuration errors, all caught at host startup before any worker is
// allocated.
var (
	// ErrWorkerCountIndivisible means the relation length is not exactly
	// Workers*TuplesPerWorker, so it does not split into one full
	// partition per worker.
	ErrWorkerCountIndivisible = errors.New("host: worker count does not divide relation length")

	// ErrPartitionBudgetMisaligned means the per-worker partition byte
	// budget is not a multiple of the DMA block size.
	ErrPartitionBudgetMisaligned = errors.New("host: partition byte budget is not a multiple of block size")

	// ErrBackingBudgetExceeded means a worker's three regions would not
	// fit the accelerator's backing-memory budget.
	ErrBackingBudgetExceeded = errors.New("host: per-worker backing memory exceeds accelerator budget")

	// ErrRelationLengthMismatch means R and S were not the same length,
	// which the uniform key-mod-W partitioning scheme requires for exact
	// per-bucket balance.
	ErrRelationLengthMismatch = errors.New("host: R and S must have equal length")
)

// PartitionSkewError is returned when a bucket produced by the hash
// partition pre-pass would exceed its capacity. This aborts the run;
// no partial partitioning is considered valid.
type PartitionSkewError struct {
	WorkerID int
	Relation string // "R" or "S"
	Capacity int
}

func (e *PartitionSkewError) Error() string {
	return fmt.Sprintf("host: partition skew: worker %d bucket for relation %s exceeded capacity %d", e.WorkerID, e.Relation, e.Capacity)
}
