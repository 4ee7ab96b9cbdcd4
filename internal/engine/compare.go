package engine

import (
	"context"
	"time"

	"github.com/piwi3910/LineCut/internal/model"
)

// ComparisonScenario defines a named set of options to compare.
// A GreedyOnly scenario skips the search and reports the greedy assignment.
type ComparisonScenario struct {
	Name       string
	Options    model.Options
	GreedyOnly bool
}

// ComparisonResult holds the solve result and computed statistics for a
// single scenario.
type ComparisonResult struct {
	Scenario     ComparisonScenario
	Result       model.Result
	Err          error
	StocksUsed   int
	TotalCuts    int
	WastePercent float64
	Elapsed      time.Duration
}

// CompareScenarios solves the job once per scenario, in scenario order.
// A failing scenario records its error and does not stop the others.
func CompareScenarios(ctx context.Context, scenarios []ComparisonScenario, job model.Job) []ComparisonResult {
	results := make([]ComparisonResult, 0, len(scenarios))

	for _, scenario := range scenarios {
		start := time.Now()
		j := job
		j.Options = scenario.Options

		var (
			res model.Result
			err error
		)
		if scenario.GreedyOnly {
			res, err = greedyResult(j)
		} else {
			res, err = SolveJob(ctx, j)
		}

		cr := ComparisonResult{
			Scenario: scenario,
			Result:   res,
			Err:      err,
			Elapsed:  time.Since(start),
		}
		if sol := res.Solution; sol != nil {
			for _, p := range sol.Patterns {
				if len(p.Cuts) > 0 {
					cr.StocksUsed++
				}
				cr.TotalCuts += len(p.Cuts)
			}
			cr.WastePercent = 100.0 - sol.Efficiency()
		}
		results = append(results, cr)
	}

	return results
}

// greedyResult reports the greedy assignment as an unproven result.
func greedyResult(job model.Job) (model.Result, error) {
	m, err := BuildModel(model.StockLengths(job.Stocks), model.PieceLengths(job.Pieces), model.MinQuantities(job.Pieces))
	if err != nil {
		return model.Result{Status: model.StatusInvalidInput, Reason: err.Error()}, err
	}
	x := Greedy(m)
	if x == nil {
		return model.Result{Status: model.StatusBudgetExceeded, Reason: "greedy pass could not meet the demand"}, nil
	}
	sol, err := Interpret(m, x, m.IntWaste(x), job.Options.Normalized().Tolerance)
	if err != nil {
		return model.Result{}, err
	}
	ApplyLabels(sol, job.Stocks, job.Pieces)
	return model.Result{Status: model.StatusBudgetExceeded, Solution: sol, Reason: "greedy assignment, optimality not proven"}, nil
}

// BuildDefaultScenarios generates a set of comparison scenarios based on
// the current options, varying key parameters to show what-if alternatives.
func BuildDefaultScenarios(base model.Options) []ComparisonScenario {
	base = base.Normalized()
	scenarios := []ComparisonScenario{
		{
			Name:    "Current Options",
			Options: base,
		},
	}

	// Scenario: toggle the heuristic incumbent seeds
	seed := base
	seed.Heuristic = !base.Heuristic
	if seed.Heuristic {
		scenarios = append(scenarios, ComparisonScenario{Name: "With Heuristic Seed", Options: seed})
	} else {
		scenarios = append(scenarios, ComparisonScenario{Name: "Without Heuristic Seed", Options: seed})
	}

	// Scenario: parallel search
	if base.Workers <= 1 {
		par := base
		par.Workers = 4
		scenarios = append(scenarios, ComparisonScenario{Name: "4 Workers", Options: par})
	}

	scenarios = append(scenarios, ComparisonScenario{Name: "Greedy Only", Options: base, GreedyOnly: true})
	return scenarios
}
