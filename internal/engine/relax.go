package engine

import (
	"fmt"

	"github.com/piwi3910/LineCut/internal/model"
)

// LPStatus classifies a solved relaxation.
type LPStatus int

const (
	LPOptimal LPStatus = iota
	LPInfeasible
)

func (s LPStatus) String() string {
	if s == LPOptimal {
		return "optimal"
	}
	return "infeasible"
}

// Basis is a simplex basis snapshot that a child node can warm start from.
// Head lists the basic column of every row; AtUpper marks nonbasic columns
// resting at their upper bound; ArtSign holds the artificial column signs.
type Basis struct {
	Head    []int
	AtUpper []bool
	ArtSign []float64
}

// Relaxation is the result of one LP solve.
type Relaxation struct {
	Status     LPStatus
	X          []float64 // structural values, flat index i*n+j
	Waste      float64   // total stock minus used length, computed from X
	Iterations int
	Basis      *Basis // nil when the backend cannot warm start
	Warm       bool   // the warm basis was used without a Phase 1
}

// Relaxer solves the continuous relaxation of a model under per-variable
// bounds. Implementations must be safe for concurrent use.
type Relaxer interface {
	Relax(m *Model, lo, hi []float64, warm *Basis) (*Relaxation, error)
}

// NewRelaxer returns the bounded revised simplex configured from the options.
func NewRelaxer(opts model.Options) Relaxer {
	return &SimplexRelaxer{Tolerance: opts.Tolerance, MaxIterations: opts.MaxLPIterations}
}

func instability(variable int, format string, args ...interface{}) error {
	return &model.NumericalInstabilityError{Node: -1, Variable: variable, Detail: fmt.Sprintf(format, args...)}
}
