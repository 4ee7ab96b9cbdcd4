package engine

import (
	"context"
	"math"
	"sync"
	"time"

	log "github.com/golang/glog"
	"github.com/pkg/errors"

	"github.com/piwi3910/LineCut/internal/model"
)

// Outcome is the raw result of a branch-and-bound run, before interpretation.
type Outcome struct {
	Status     model.Status // StatusOptimal, StatusInfeasible or StatusBudgetExceeded
	Assignment []int        // flat i*n+j piece counts, nil when none was found
	Waste      float64
	Proven     bool
	Reason     string
	Stats      model.SearchStats
}

// Engine runs a best-first branch-and-bound over LP relaxations of one model.
// An Engine is single use.
type Engine struct {
	mdl     *Model
	opts    model.Options
	relaxer Relaxer
	objTol  float64

	mu        sync.Mutex
	front     frontier
	seq       int64
	best      []int
	bestWaste float64
	stats     model.SearchStats
	start     time.Time
	deadline  time.Time
}

// NewEngine prepares a search with the bounded revised simplex.
func NewEngine(m *Model, opts model.Options) *Engine {
	opts = opts.Normalized()
	return &Engine{
		mdl:     m,
		opts:    opts,
		relaxer: NewRelaxer(opts),
		objTol:  opts.Tolerance * math.Max(1, m.TotalStock()),
	}
}

// WithRelaxer replaces the relaxation solver. The replacement must honor the
// same bounds and report the same waste objective.
func (e *Engine) WithRelaxer(r Relaxer) *Engine {
	e.relaxer = r
	return e
}

// Seed offers a known feasible assignment as the starting incumbent.
// It reports whether the assignment was accepted.
func (e *Engine) Seed(x []int) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if _, why := e.mdl.Feasible(x, e.opts.Tolerance); why != "" {
		log.V(1).Infof("engine: seed rejected: %s", why)
		return false
	}
	return e.offer(append([]int(nil), x...), -1)
}

// Run searches until the frontier is exhausted or a budget runs out.
// Budgets are checked between node expansions only.
func (e *Engine) Run(ctx context.Context) (*Outcome, error) {
	e.start = time.Now()
	if e.opts.TimeLimit > 0 {
		e.deadline = e.start.Add(e.opts.TimeLimit)
	}
	log.V(1).Infof("engine: %d stocks x %d pieces, %d workers", e.mdl.m, e.mdl.n, e.opts.Workers)

	if reason := e.exhausted(ctx); reason != "" {
		return e.finish(reason), nil
	}

	root := &node{branchVar: -1, origin: -1}
	r, err := e.relax(root)
	if err != nil {
		return nil, err
	}
	e.mu.Lock()
	err = e.classify(root, r)
	e.mu.Unlock()
	if err != nil {
		return nil, err
	}

	if e.opts.Workers > 1 {
		return e.runParallel(ctx)
	}

	for e.front.Len() > 0 {
		if reason := e.exhausted(ctx); reason != "" {
			return e.finish(reason), nil
		}
		nd := e.front.pop()
		if e.dominated(nd.bound) {
			e.stats.Pruned++
			continue
		}
		down, up := e.branch(nd)
		for _, c := range [...]*node{down, up} {
			r, err := e.relax(c)
			if err != nil {
				return nil, err
			}
			if err := e.classify(c, r); err != nil {
				return nil, err
			}
		}
	}
	return e.finish(""), nil
}

// relax solves the node's relaxation. It touches no shared state.
func (e *Engine) relax(nd *node) (*Relaxation, error) {
	lo, hi := nd.bounds(e.mdl)
	r, err := e.relaxer.Relax(e.mdl, lo, hi, nd.basis)
	if err != nil {
		var ni *model.NumericalInstabilityError
		if errors.As(err, &ni) {
			tagged := *ni
			tagged.Node = nd.id
			if tagged.Variable < 0 {
				tagged.Variable = nd.origin
			}
			return nil, &tagged
		}
		return nil, errors.Wrapf(err, "relaxing node %d", nd.id)
	}
	return r, nil
}

// classify records a solved node: prune it, accept it as an incumbent, or
// push it onto the frontier for branching. Callers hold e.mu.
func (e *Engine) classify(nd *node, r *Relaxation) error {
	e.stats.Nodes++
	e.stats.LPIterations += r.Iterations

	if r.Status == LPInfeasible {
		e.stats.Pruned++
		log.V(2).Infof("engine: node %d (depth %d) infeasible", nd.id, nd.depth)
		return nil
	}

	b := r.Waste
	if e.mdl.integral {
		b = math.Ceil(b - e.objTol)
	}
	nd.bound = b
	if nd.id == 0 {
		e.stats.RootBound = b
	}
	if e.dominated(b) {
		e.stats.Pruned++
		log.V(2).Infof("engine: node %d (depth %d) pruned, bound %g >= incumbent %g", nd.id, nd.depth, b, e.bestWaste)
		return nil
	}

	k := e.mostFractional(r.X)
	if k < 0 {
		x := make([]int, len(r.X))
		for i, v := range r.X {
			x[i] = int(math.Round(v))
		}
		if v, why := e.mdl.Feasible(x, e.opts.Tolerance); why != "" {
			return &model.NumericalInstabilityError{Node: nd.id, Variable: v, Detail: "rounded integral relaxation is infeasible: " + why}
		}
		e.offer(x, nd.id)
		return nil
	}

	nd.branchVar, nd.value, nd.basis = k, r.X[k], r.Basis
	e.front.push(nd)
	log.V(2).Infof("engine: node %d (depth %d) bound %g, branching on x[%d] = %g", nd.id, nd.depth, b, k, r.X[k])
	return nil
}

// mostFractional picks the variable whose fractional part is closest to one
// half, lowest index on ties. It returns -1 for an integral vector.
func (e *Engine) mostFractional(x []float64) int {
	best, bestDist := -1, 0.0
	for k, v := range x {
		f := v - math.Floor(v)
		dist := math.Min(f, 1-f)
		if dist <= e.opts.Tolerance {
			continue
		}
		if dist > bestDist+1e-12 {
			best, bestDist = k, dist
		}
	}
	return best
}

// branch splits a node into its floor and ceiling children, in that order.
func (e *Engine) branch(nd *node) (*node, *node) {
	k := nd.branchVar
	lo, hi := nd.override(e.mdl, k)
	e.seq++
	down := nd.child(e.seq, k, lo, math.Floor(nd.value))
	e.seq++
	up := nd.child(e.seq, k, math.Ceil(nd.value), hi)
	e.stats.Expanded++
	return down, up
}

// dominated reports whether a subtree bounded below by b cannot strictly
// improve on the incumbent. Ties are pruned.
func (e *Engine) dominated(b float64) bool {
	return e.best != nil && b >= e.bestWaste-e.objTol
}

// offer installs x as the incumbent when it is strictly better.
func (e *Engine) offer(x []int, nodeID int64) bool {
	w := e.mdl.IntWaste(x)
	if e.best != nil && w >= e.bestWaste-e.objTol {
		return false
	}
	e.best, e.bestWaste = x, w
	e.stats.Incumbents++
	if nodeID < 0 {
		log.V(1).Infof("engine: seeded incumbent with waste %g", w)
	} else {
		log.V(1).Infof("engine: node %d improves incumbent to waste %g", nodeID, w)
	}
	return true
}

// exhausted returns a non-empty reason once a budget has run out.
func (e *Engine) exhausted(ctx context.Context) string {
	if err := ctx.Err(); err != nil {
		if errors.Is(err, context.DeadlineExceeded) {
			return "time limit reached"
		}
		return "cancelled"
	}
	if !e.deadline.IsZero() && time.Now().After(e.deadline) {
		return "time limit reached"
	}
	if e.opts.NodeLimit > 0 && e.stats.Nodes >= e.opts.NodeLimit {
		return "node limit reached"
	}
	return ""
}

// finish builds the outcome. A non-empty reason means a budget ran out.
func (e *Engine) finish(reason string) *Outcome {
	e.stats.Elapsed = time.Since(e.start)
	out := &Outcome{Stats: e.stats}
	if e.best != nil {
		out.Assignment = append([]int(nil), e.best...)
		out.Waste = e.bestWaste
	}
	switch {
	case reason != "":
		out.Status, out.Reason = model.StatusBudgetExceeded, reason
	case e.best != nil:
		out.Status, out.Proven = model.StatusOptimal, true
	default:
		out.Status, out.Proven = model.StatusInfeasible, true
		out.Reason = "no integer assignment satisfies the demand"
	}
	log.V(1).Infof("engine: %s after %d nodes (%d expanded, %d pruned, %d lp iterations) in %v",
		out.Status, e.stats.Nodes, e.stats.Expanded, e.stats.Pruned, e.stats.LPIterations, e.stats.Elapsed)
	return out
}
