package config

import "runtime"

// Worker resolution chain (highest priority first):
//   1. -workers flag
//   2. MPCALC_WORKERS
//   3. workers in the config file
//   4. hardware estimate (this file)

// ApplyAdaptiveDefaults fills settings left at zero with values derived from
// the host.
func ApplyAdaptiveDefaults(cfg AppConfig) AppConfig {
	if cfg.Workers == 0 {
		cfg.Workers = EstimateWorkers()
	}
	return cfg
}

// EstimateWorkers picks a worker count for batch and verify runs: one per
// core, at least two and at most 32.
func EstimateWorkers() int {
	numCPU := runtime.NumCPU()
	switch {
	case numCPU <= 1:
		return 2
	case numCPU <= 32:
		return numCPU
	default:
		return 32
	}
}
