package engine

import (
	"context"
	"time"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/piwi3910/LineCut/internal/model"
)

// Solve finds a minimum-waste integer assignment of pieces to stock lengths
// meeting every minimum quantity.
//
// Invalid input returns a StatusInvalidInput result together with the
// *model.InvalidInputError. Infeasible demand and exhausted budgets are
// ordinary results with a nil error. A numerical failure returns the error.
func Solve(ctx context.Context, stock, pieces []float64, minQty []int, opts model.Options) (model.Result, error) {
	start := time.Now()
	opts = opts.Normalized()

	m, err := BuildModel(stock, pieces, minQty)
	if err != nil {
		log.Warningf("solve: %v", err)
		return model.Result{Status: model.StatusInvalidInput, Reason: err.Error()}, err
	}
	if bad, reason := m.TriviallyInfeasible(); bad {
		log.V(1).Infof("solve: infeasible before search: %s", reason)
		return model.Result{Status: model.StatusInfeasible, Proven: true, Reason: reason}, nil
	}

	eng := NewEngine(m, opts)
	if opts.Heuristic {
		for _, x := range [][]int{Patterns(m), Greedy(m)} {
			if x != nil {
				eng.Seed(x)
			}
		}
	}

	out, err := eng.Run(ctx)
	if err != nil {
		log.Errorf("solve: %v", err)
		return model.Result{}, err
	}

	res := model.Result{
		Status: out.Status,
		Proven: out.Proven,
		Reason: out.Reason,
		Stats:  out.Stats,
	}
	if out.Assignment != nil {
		sol, err := Interpret(m, out.Assignment, out.Waste, opts.Tolerance)
		if err != nil {
			log.Errorf("solve: %v", err)
			return model.Result{}, errors.Wrap(err, "interpreting solution")
		}
		res.Solution = sol
	}
	res.Stats.Elapsed = time.Since(start)
	log.V(1).Infof("solve: %s in %v", res.Status, res.Stats.Elapsed)
	return res, nil
}

// SolveJob solves a labelled job and carries the labels into the patterns.
func SolveJob(ctx context.Context, job model.Job) (model.Result, error) {
	res, err := Solve(ctx,
		model.StockLengths(job.Stocks),
		model.PieceLengths(job.Pieces),
		model.MinQuantities(job.Pieces),
		job.Options)
	if err != nil {
		return res, errors.Wrapf(err, "job %q", job.Name)
	}
	ApplyLabels(res.Solution, job.Stocks, job.Pieces)
	return res, nil
}
