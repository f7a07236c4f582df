// Command pimsort-host is the host driver for the PIM-accelerated
// parallel sort-merge equijoin. It loads (from --partitions-dir, if an
// image is already there) or generates two relations, hash-partitions
// them across W workers, runs each worker's local sort-and-join, and
// prints the aggregate match count and the slowest worker's wall time.
//
// Usage:
//
//	pimsort-host [-p <path>] [-m <workers>] [-l <loops>] [-n] [-h]
//
// Flags mirror the original accelerator host's CLI:
//
//	-p, --partitions-dir   directory to load r.img/s.img from, or write them to if absent (default ".")
//	-m, --workers          number of accelerator units to simulate (default 1)
//	-l, --loops            number of times to repeat the run (default 1)
//	-n, --no-preload       partition and load arenas once, then relaunch over the same loaded data
//	-h, --help             print usage and exit 0
package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
	"github.com/spf13/pflag"

	"github.com/dreamware/pimsort/internal/config"
	"github.com/dreamware/pimsort/internal/dataset"
	"github.com/dreamware/pimsort/internal/host"
	"github.com/dreamware/pimsort/internal/obslog"
	"github.com/dreamware/pimsort/internal/tuple"
)

func main() {
	os.Exit(run(os.Args[1:]))
}

func run(args []string) int {
	flags := pflag.NewFlagSet("pimsort-host", pflag.ContinueOnError)

	partitionsDir := flags.StringP("partitions-dir", "p", ".", "directory to load r.img/s.img from, or write them to if absent")
	workers := flags.IntP("workers", "m", 0, "number of accelerator units to simulate (0 = use config default)")
	loops := flags.IntP("loops", "l", 1, "number of times to repeat the run")
	noPreload := flags.BoolP("no-preload", "n", false, "partition and load once, then relaunch over the same loaded data (use with caution)")
	configPath := flags.String("config", "", "optional YAML run-configuration file")
	logLevel := flags.String("log-level", "info", "log level: debug, info, warn, error")

	if err := flags.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return 0
		}
		return 2
	}

	log := obslog.New(*logLevel, os.Stderr)

	cfgFile := config.Defaults()
	if *configPath != "" {
		loaded, err := config.Load(*configPath)
		if err != nil {
			log.Error().Err(err).Str("path", *configPath).Msg("host: failed to load config")
			return 1
		}
		cfgFile = loaded
	}
	if *workers > 0 {
		cfgFile.Workers = *workers
	}

	log.Info().Str("partitions_dir", *partitionsDir).Bool("no_preload", *noPreload).Msg("host: starting run")

	driver, err := host.NewDriver(cfgFile.ToHostConfig(), log)
	if err != nil {
		log.Error().Err(err).Msg("host: invalid configuration")
		return 1
	}

	total := cfgFile.Workers * cfgFile.TuplesPerWorker

	r, err := loadOrGenerateImage(filepath.Join(*partitionsDir, "r.img"), total, cfgFile.Seed, log)
	if err != nil {
		log.Error().Err(err).Msg("host: failed to prepare R relation")
		return 1
	}
	s, err := loadOrGenerateImage(filepath.Join(*partitionsDir, "s.img"), total, cfgFile.Seed+1, log)
	if err != nil {
		log.Error().Err(err).Msg("host: failed to prepare S relation")
		return 1
	}

	ctx := context.Background()

	handleErr := func(err error) int {
		var skew *host.PartitionSkewError
		if as, ok := err.(*host.PartitionSkewError); ok {
			skew = as
		}
		if skew != nil {
			log.Error().Err(err).Msg("host: partition skew, aborting")
			return 3
		}
		log.Error().Err(err).Msg("host: run failed")
		return 1
	}

	// With --no-preload, partition and load the arenas once and relaunch
	// the same loaded (and, after the first loop, already-sorted) data on
	// every iteration; otherwise re-partition and reload fresh from r/s
	// on every loop.
	var prepared *host.Prepared
	if *noPreload {
		prepared, err = driver.Prepare(r, s)
		if err != nil {
			return handleErr(err)
		}
	}

	for i := 0; i < *loops; i++ {
		var result host.Result
		if *noPreload {
			result, err = driver.Dispatch(ctx, prepared)
		} else {
			result, err = driver.Run(ctx, r, s)
		}
		if err != nil {
			return handleErr(err)
		}

		fmt.Printf("loop %d: matches=%d slowest_unit=%s\n", i, result.TotalMatches, result.MaxExecTime)
	}

	return 0
}

// loadOrGenerateImage loads a relation from path if one is already
// there, otherwise generates size tuples from seed and writes them to
// path so a later run with the same --partitions-dir reuses them.
func loadOrGenerateImage(path string, size int, seed uint64, log zerolog.Logger) ([]tuple.Tuple, error) {
	rel, err := dataset.LoadImage(path)
	if err == nil {
		log.Info().Str("path", path).Int("tuples", len(rel)).Msg("host: loaded partition image")
		return rel, nil
	}
	if !os.IsNotExist(err) {
		return nil, err
	}

	rel = dataset.Generate(size, seed)
	if err := dataset.SaveImage(path, rel); err != nil {
		log.Warn().Err(err).Str("path", path).Msg("host: failed to persist generated partition image")
	}
	return rel, nil
}
