package model

import "time"

// DefaultTolerance is the feasibility and integrality tolerance used when none is set.
const DefaultTolerance = 1e-7

// DefaultTimeLimit matches the solver time limit of the original desktop tool.
const DefaultTimeLimit = 10 * time.Second

// Options holds the solve budget and solver configuration.
type Options struct {
	TimeLimit       time.Duration `json:"time_limit"`        // 0 = unlimited
	NodeLimit       int           `json:"node_limit"`        // 0 = unlimited
	Tolerance       float64       `json:"tolerance"`         // Feasibility / integrality epsilon
	Workers         int           `json:"workers"`           // Parallel node workers, <= 1 = sequential
	Heuristic       bool          `json:"heuristic"`         // Seed the incumbent with the heuristic assignments
	MaxLPIterations int           `json:"max_lp_iterations"` // Simplex pivot cap per relaxation, 0 = derived from model size
}

func DefaultOptions() Options {
	return Options{
		TimeLimit: DefaultTimeLimit,
		Tolerance: DefaultTolerance,
		Workers:   1,
		Heuristic: true,
	}
}

// Normalized fills zero-valued fields with their defaults.
func (o Options) Normalized() Options {
	if o.Tolerance <= 0 {
		o.Tolerance = DefaultTolerance
	}
	if o.Workers < 1 {
		o.Workers = 1
	}
	if o.NodeLimit < 0 {
		o.NodeLimit = 0
	}
	if o.TimeLimit < 0 {
		o.TimeLimit = 0
	}
	return o
}
