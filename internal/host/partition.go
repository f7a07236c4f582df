package host

import "github.com/dreamware/pimsort/internal/tuple"

// partitionOne hash-partitions a single relation into workerCount
// buckets by key mod workerCount, each pre-allocated to capacity so the
// scatter never reallocates. It mirrors the original host's
// running-offset scatter (merge_sort_partition.c's partition_tuples),
// generalized from raw pointer offsets to Go slices.
//
// An overflowing bucket aborts the whole partition with a
// PartitionSkewError rather than silently growing past the per-worker
// budget — the design assumes the uniform-shuffle dataset generator
// guarantees exact balance when workerCount divides len(relation).
func partitionOne(relation []tuple.Tuple, workerCount, capacity int, label string) ([][]tuple.Tuple, error) {
	buckets := make([][]tuple.Tuple, workerCount)
	for i := range buckets {
		buckets[i] = make([]tuple.Tuple, 0, capacity)
	}

	for _, t := range relation {
		id := int(t.Key % uint32(workerCount))
		if len(buckets[id]) == capacity {
			return nil, &PartitionSkewError{WorkerID: id, Relation: label, Capacity: capacity}
		}
		buckets[id] = append(buckets[id], t)
	}

	return buckets, nil
}

// Partitioned holds one worker's share of both relations after the host
// hash-partition pre-pass.
type Partitioned struct {
	R []tuple.Tuple
	S []tuple.Tuple
}

// Partition is the host-side hash-partition pre-pass: given R and S of
// total length workerCount*tuplesPerWorker each, it computes par_id =
// key mod workerCount and scatters both relations into workerCount
// contiguous per-worker buckets.
func Partition(r, s []tuple.Tuple, workerCount, tuplesPerWorker int) ([]Partitioned, error) {
	rBuckets, err := partitionOne(r, workerCount, tuplesPerWorker, "R")
	if err != nil {
		return nil, err
	}
	sBuckets, err := partitionOne(s, workerCount, tuplesPerWorker, "S")
	if err != nil {
		return nil, err
	}

	out := make([]Partitioned, workerCount)
	for i := range out {
		out[i] = Partitioned{R: rBuckets[i], S: sBuckets[i]}
	}
	return out, nil
}
