// Package dataset generates the synthetic relations the host driver
// feeds into a run when no pre-built partition images are supplied: a
// uniform shuffle of a key-dense range, following the same
// init_tuples/shuffle_tuples approach as the reference C implementation.
// It also reads and writes those relations as flat, on-disk images in
// tuple.Size-encoded records, for the -p/--partitions-dir case where a
// run should reuse a previously generated dataset instead of reshuffling
// one from scratch.
package dataset

import (
	"fmt"
	"math/rand/v2"
	"os"

	"github.com/dreamware/pimsort/internal/tuple"
)

// Generate returns size tuples with keys exactly {0, ..., size-1} in a
// uniformly random order, each tuple's Value equal to its Key, and
// shuffled by seed for reproducibility. This key-dense distribution is
// what lets the hash partition pre-pass split evenly across workers.
func Generate(size int, seed uint64) []tuple.Tuple {
	out := make([]tuple.Tuple, size)
	for i := range out {
		out[i] = tuple.Tuple{Key: uint32(i), Value: uint32(i)}
	}

	r := rand.New(rand.NewPCG(seed, seed^0x9e3779b97f4a7c15))
	for i := range out {
		j := r.IntN(i + 1)
		out[i], out[j] = out[j], out[i]
	}

	return out
}

// LoadImage reads a relation previously written by SaveImage: a flat
// sequence of tuple.Size-byte little-endian records, with no header.
// It returns an error satisfying os.IsNotExist when path does not exist,
// so callers can fall back to Generate.
func LoadImage(path string) ([]tuple.Tuple, error) {
	data, err := os.ReadFile(path) //nolint:gosec // path comes from an operator-supplied flag
	if err != nil {
		return nil, err
	}
	if len(data)%tuple.Size != 0 {
		return nil, fmt.Errorf("dataset: image %s has length %d, not a multiple of tuple size %d", path, len(data), tuple.Size)
	}

	out := make([]tuple.Tuple, len(data)/tuple.Size)
	for i := range out {
		out[i] = tuple.Decode(data[i*tuple.Size : i*tuple.Size+tuple.Size])
	}
	return out, nil
}

// SaveImage writes tuples to path as a flat sequence of tuple.Size-byte
// little-endian records, so a later run with the same --partitions-dir
// can load them back via LoadImage instead of regenerating them.
func SaveImage(path string, tuples []tuple.Tuple) error {
	data := make([]byte, len(tuples)*tuple.Size)
	for i, t := range tuples {
		tuple.Encode(data[i*tuple.Size:i*tuple.Size+tuple.Size], t)
	}
	return os.WriteFile(path, data, 0o600)
}
