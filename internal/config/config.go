// Package config decodes an optional YAML run-configuration file that
// overrides the host driver's defaults; CLI flags still take precedence
// over both.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dreamware/pimsort/internal/host"
)

// File is the on-disk shape of a run configuration.
type File struct {
	Workers         int    `yaml:"workers"`
	TuplesPerWorker int    `yaml:"tuples_per_worker"`
	BlockSize       int    `yaml:"block_size"`
	Tasklets        int    `yaml:"tasklets"`
	BackingBudget   int    `yaml:"backing_budget"`
	Seed            uint64 `yaml:"seed"`
}

// Defaults returns a conservative baseline configuration: a single
// worker, a 1024-byte block, and a modest partition size suitable for a
// quick default run (a larger per-partition budget is reachable by
// raising tuples_per_worker in a config file).
func Defaults() File {
	return File{
		Workers:         1,
		TuplesPerWorker: 4096,
		BlockSize:       1024,
		Tasklets:        1,
		BackingBudget:   20 << 20,
		Seed:            1,
	}
}

// Load reads and decodes a YAML file at path, applied on top of
// Defaults() for any field the file omits.
func Load(path string) (File, error) {
	f := Defaults()

	data, err := os.ReadFile(path) //nolint:gosec // path comes from an operator-supplied flag
	if err != nil {
		return File{}, err
	}
	if err := yaml.Unmarshal(data, &f); err != nil {
		return File{}, err
	}
	return f, nil
}

// ToHostConfig converts a decoded File into a host.Config.
func (f File) ToHostConfig() host.Config {
	return host.Config{
		Workers:         f.Workers,
		TuplesPerWorker: f.TuplesPerWorker,
		BlockSize:       f.BlockSize,
		Tasklets:        f.Tasklets,
		BackingBudget:   f.BackingBudget,
	}
}
