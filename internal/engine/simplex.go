package engine

import (
	"math"

	log "github.com/golang/glog"
	"gonum.org/v1/gonum/mat"
)

// SimplexRelaxer is a bounded-variable revised simplex. Every column carries
// its own [lo, hi] box so branching bounds never add rows. Capacity rows are
// scaled by their stock length and bounded by the cuttable capacity; the
// basis is refactorized with an LU decomposition on every iteration.
type SimplexRelaxer struct {
	Tolerance     float64
	MaxIterations int // per phase, 0 = derived from the model size
}

const (
	pivotTol         = 1e-9
	ratioTieTol      = 1e-11
	maxBasisCond     = 1e13
	degenerateStreak = 50
)

// Relax solves the relaxation under lo <= x <= hi. A usable warm basis skips
// Phase 1; otherwise the solve starts from a slack/artificial basis.
func (r *SimplexRelaxer) Relax(m *Model, lo, hi []float64, warm *Basis) (*Relaxation, error) {
	tol := r.Tolerance
	if tol <= 0 {
		tol = 1e-7
	}
	s := newSimplex(m, lo, hi, tol, r.MaxIterations)

	if warm != nil {
		ok, err := s.warmStart(warm)
		if err != nil {
			return nil, err
		}
		if ok {
			if err := s.primal("phase 2"); err != nil {
				return nil, err
			}
			log.V(3).Infof("simplex: warm start optimal after %d iterations", s.iters)
			return s.result(true), nil
		}
		log.V(3).Infof("simplex: warm start rejected after %d iterations, solving cold", s.iters)
		s.reset(lo, hi)
	}

	feasible, err := s.phaseOne()
	if err != nil {
		return nil, err
	}
	if !feasible {
		log.V(3).Infof("simplex: infeasible after %d iterations", s.iters)
		return &Relaxation{Status: LPInfeasible, Iterations: s.iters}, nil
	}
	if err := s.primal("phase 2"); err != nil {
		return nil, err
	}
	log.V(3).Infof("simplex: optimal after %d iterations", s.iters)
	return s.result(false), nil
}

// simplex is the working state of one relaxation solve.
// Columns: structural [0,N), logical [N,N+R), artificial [N+R,N+2R).
// Rows: capacity [0,m), demand [m,m+n).
type simplex struct {
	mdl      *Model
	m, n     int
	R, N     int
	total    int
	tol      float64
	feasTol  float64
	maxIters int
	iters    int

	lo, hi  []float64
	x       []float64
	cost    []float64
	b       []float64
	artSign []float64
	head    []int  // basic column per row
	pos     []int  // row of a basic column, -1 when nonbasic
	atUpper []bool // nonbasic column rests at hi

	basis *mat.Dense
	lu    mat.LU
	xb    *mat.VecDense
	y     *mat.VecDense
	work  *mat.VecDense
	rhs   []float64
	dense []float64
}

func newSimplex(mdl *Model, lo, hi []float64, tol float64, maxIters int) *simplex {
	N := mdl.NumVars()
	R := mdl.m + mdl.n
	total := N + 2*R
	if maxIters <= 0 {
		maxIters = 20*(R+total) + 1000
	}
	s := &simplex{
		mdl:      mdl,
		m:        mdl.m,
		n:        mdl.n,
		R:        R,
		N:        N,
		total:    total,
		tol:      tol,
		feasTol:  100 * tol,
		maxIters: maxIters,
		lo:       make([]float64, total),
		hi:       make([]float64, total),
		x:        make([]float64, total),
		cost:     make([]float64, total),
		b:        make([]float64, R),
		artSign:  make([]float64, R),
		head:     make([]int, R),
		pos:      make([]int, total),
		atUpper:  make([]bool, total),
		basis:    mat.NewDense(R, R, nil),
		xb:       mat.NewVecDense(R, nil),
		y:        mat.NewVecDense(R, nil),
		work:     mat.NewVecDense(R, nil),
		rhs:      make([]float64, R),
		dense:    make([]float64, R),
	}
	for i := 0; i < s.m; i++ {
		s.b[i] = mdl.capacity[i] / mdl.stock[i]
	}
	for j := 0; j < s.n; j++ {
		s.b[s.m+j] = float64(mdl.demand[j])
	}
	s.reset(lo, hi)
	return s
}

// reset restores the Phase 1 bounds and clears the basis.
func (s *simplex) reset(lo, hi []float64) {
	copy(s.lo, lo)
	copy(s.hi, hi)
	for k := s.N; k < s.total; k++ {
		s.lo[k] = 0
		s.hi[k] = math.Inf(1)
	}
	for k := range s.x {
		s.x[k] = 0
		s.pos[k] = -1
		s.atUpper[k] = false
	}
	for r := range s.artSign {
		s.artSign[r] = 1
	}
}

// column feeds the nonzeros of column k to fn.
func (s *simplex) column(k int, fn func(row int, v float64)) {
	switch {
	case k < s.N:
		i, j := s.mdl.Coords(k)
		fn(i, s.mdl.pieces[j]/s.mdl.stock[i])
		fn(s.m+j, 1)
	case k < s.N+s.R:
		r := k - s.N
		if r < s.m {
			fn(r, 1)
		} else {
			fn(r, -1)
		}
	default:
		r := k - s.N - s.R
		fn(r, s.artSign[r])
	}
}

func (s *simplex) dot(k int, v []float64) float64 {
	var sum float64
	s.column(k, func(r int, a float64) { sum += a * v[r] })
	return sum
}

func (s *simplex) solve(dst *mat.VecDense, trans bool, rhs []float64) error {
	err := s.lu.SolveVecTo(dst, trans, mat.NewVecDense(len(rhs), rhs))
	if err != nil {
		if _, ok := err.(mat.Condition); ok {
			return nil
		}
		return instability(-1, "basis solve failed: %v", err)
	}
	return nil
}

// refresh refactorizes the basis and recomputes the basic values from the
// nonbasic ones.
func (s *simplex) refresh() error {
	s.basis.Zero()
	for p, k := range s.head {
		col := p
		s.column(k, func(r int, v float64) { s.basis.Set(r, col, v) })
	}
	s.lu.Factorize(s.basis)
	if c := s.lu.Cond(); math.IsNaN(c) || c > maxBasisCond {
		return instability(-1, "basis is singular or ill-conditioned (cond %.3g)", c)
	}

	copy(s.rhs, s.b)
	for k := 0; k < s.total; k++ {
		if s.pos[k] >= 0 || s.x[k] == 0 {
			continue
		}
		xk := s.x[k]
		s.column(k, func(r int, v float64) { s.rhs[r] -= v * xk })
	}
	if err := s.solve(s.xb, false, s.rhs); err != nil {
		return err
	}
	xb := s.xb.RawVector().Data
	for p, k := range s.head {
		s.x[k] = xb[p]
	}
	return nil
}

// duals solves B^T y = c_B.
func (s *simplex) duals() error {
	for p, k := range s.head {
		s.rhs[p] = s.cost[k]
	}
	return s.solve(s.y, true, s.rhs)
}

func (s *simplex) reducedCost(k int) float64 {
	return s.cost[k] - s.dot(k, s.y.RawVector().Data)
}

func (s *simplex) fixed(k int) bool {
	return s.hi[k]-s.lo[k] <= s.tol
}

// price picks the entering column: largest reduced-cost violation (Dantzig),
// or the lowest eligible index under Bland's rule.
func (s *simplex) price(bland bool) (int, float64) {
	q, dir, best := -1, 0.0, 0.0
	for k := 0; k < s.total; k++ {
		if s.pos[k] >= 0 || s.fixed(k) {
			continue
		}
		d := s.reducedCost(k)
		var score, dd float64
		switch {
		case !s.atUpper[k] && d < -s.tol:
			score, dd = -d, 1
		case s.atUpper[k] && d > s.tol:
			score, dd = d, -1
		default:
			continue
		}
		if bland {
			return k, dd
		}
		if score > best {
			q, dir, best = k, dd, score
		}
	}
	return q, dir
}

// ratio runs the bounded ratio test for entering column q moving in
// direction dir. leave is -1 for a bound flip of q itself.
func (s *simplex) ratio(q int, dir float64, bland bool) (leave int, theta float64, toUpper bool, alpha []float64, err error) {
	for r := range s.dense {
		s.dense[r] = 0
	}
	s.column(q, func(r int, v float64) { s.dense[r] = v })
	if err := s.solve(s.work, false, s.dense); err != nil {
		return 0, 0, false, nil, err
	}
	alpha = s.work.RawVector().Data

	theta = s.hi[q] - s.lo[q]
	leave = -1
	bestA := 0.0
	for p, k := range s.head {
		a := dir * alpha[p]
		var ratio float64
		var up bool
		switch {
		case a > pivotTol:
			ratio = math.Max(s.x[k]-s.lo[k], 0) / a
		case a < -pivotTol:
			if math.IsInf(s.hi[k], 1) {
				continue
			}
			ratio, up = math.Max(s.hi[k]-s.x[k], 0)/-a, true
		default:
			continue
		}

		take := false
		switch {
		case ratio < theta-ratioTieTol:
			take = true
		case ratio <= theta+ratioTieTol && leave >= 0:
			if bland {
				take = k < s.head[leave]
			} else {
				abs := math.Abs(a)
				take = abs > bestA+pivotTol || (abs >= bestA-pivotTol && k < s.head[leave])
			}
		}
		if take {
			leave, theta, toUpper, bestA = p, math.Min(ratio, theta), up, math.Abs(a)
		}
	}
	if math.IsInf(theta, 1) {
		return 0, 0, false, nil, instability(q, "relaxation is unbounded along column %d", q)
	}
	return leave, theta, toUpper, alpha, nil
}

func (s *simplex) pivot(q int, dir float64, leave int, theta float64, toUpper bool, alpha []float64) {
	for p, k := range s.head {
		s.x[k] -= dir * theta * alpha[p]
	}
	if leave < 0 {
		s.atUpper[q] = !s.atUpper[q]
		if s.atUpper[q] {
			s.x[q] = s.hi[q]
		} else {
			s.x[q] = s.lo[q]
		}
		return
	}
	s.x[q] += dir * theta

	k := s.head[leave]
	if toUpper {
		s.x[k], s.atUpper[k] = s.hi[k], true
	} else {
		s.x[k], s.atUpper[k] = s.lo[k], false
	}
	s.pos[k] = -1
	s.head[leave] = q
	s.pos[q] = leave
	s.atUpper[q] = false
}

// primal iterates until no reduced cost is improving. Dantzig pricing
// switches to Bland's rule after a run of degenerate pivots.
func (s *simplex) primal(phase string) error {
	bland, streak := false, 0
	for it := 0; ; it++ {
		if err := s.refresh(); err != nil {
			return err
		}
		if err := s.duals(); err != nil {
			return err
		}
		q, dir := s.price(bland)
		if q < 0 {
			return nil
		}
		if it >= s.maxIters {
			return instability(q, "%s did not converge within %d iterations", phase, s.maxIters)
		}
		s.iters++

		leave, theta, toUpper, alpha, err := s.ratio(q, dir, bland)
		if err != nil {
			return err
		}
		s.pivot(q, dir, leave, theta, toUpper, alpha)

		if theta <= s.tol {
			streak++
			if streak >= degenerateStreak && !bland {
				log.V(3).Infof("simplex: %s switching to Bland's rule after %d degenerate pivots", phase, streak)
				bland = true
			}
		} else {
			streak = 0
		}
	}
}

// phaseOne builds the slack/artificial starting basis and minimizes the sum
// of artificials. It leaves the artificials fixed at zero for Phase 2.
func (s *simplex) phaseOne() (bool, error) {
	for k := 0; k < s.N; k++ {
		s.x[k] = s.lo[k]
	}
	copy(s.rhs, s.b)
	for k := 0; k < s.N; k++ {
		if s.x[k] == 0 {
			continue
		}
		xk := s.x[k]
		s.column(k, func(r int, v float64) { s.rhs[r] -= v * xk })
	}

	needed := false
	for r := 0; r < s.R; r++ {
		logical, art := s.N+r, s.N+s.R+r
		g := 1.0
		if r >= s.m {
			g = -1
		}
		if v := s.rhs[r] * g; v >= -s.tol {
			s.head[r], s.pos[logical] = logical, r
			s.x[logical] = math.Max(v, 0)
			continue
		}
		needed = true
		if s.rhs[r] < 0 {
			s.artSign[r] = -1
		}
		s.head[r], s.pos[art] = art, r
		s.x[art] = math.Abs(s.rhs[r])
	}

	if needed {
		for k := range s.cost {
			s.cost[k] = 0
		}
		for r := 0; r < s.R; r++ {
			s.cost[s.N+s.R+r] = 1
		}
		if err := s.primal("phase 1"); err != nil {
			return false, err
		}
		infeas := 0.0
		for r := 0; r < s.R; r++ {
			infeas += s.x[s.N+s.R+r]
		}
		if infeas > s.feasTol {
			return false, nil
		}
	}

	s.fixArtificials()
	s.phaseTwoCost()
	return true, nil
}

func (s *simplex) fixArtificials() {
	for r := 0; r < s.R; r++ {
		k := s.N + s.R + r
		s.hi[k] = 0
		if s.pos[k] < 0 {
			s.x[k], s.atUpper[k] = 0, false
		}
	}
}

// phaseTwoCost sets the waste objective: minimizing -sum(len_j * x_ij) is
// minimizing total stock minus used length.
func (s *simplex) phaseTwoCost() {
	for k := range s.cost {
		s.cost[k] = 0
	}
	for k := 0; k < s.N; k++ {
		_, j := s.mdl.Coords(k)
		s.cost[k] = -s.mdl.pieces[j] / s.mdl.maxStock
	}
}

// warmStart installs a parent basis under the current bounds. A basis that is
// primal feasible goes straight to Phase 2; one that is only dual feasible is
// repaired with dual simplex pivots. It reports false when the caller must
// fall back to a cold start.
func (s *simplex) warmStart(w *Basis) (bool, error) {
	if len(w.Head) != s.R || len(w.AtUpper) != s.total || len(w.ArtSign) != s.R {
		return false, nil
	}
	copy(s.artSign, w.ArtSign)
	s.fixArtificials()
	for p, k := range w.Head {
		if k < 0 || k >= s.total || s.pos[k] >= 0 {
			return false, nil
		}
		s.head[p], s.pos[k] = k, p
	}
	for k := 0; k < s.total; k++ {
		if s.pos[k] >= 0 {
			continue
		}
		s.atUpper[k] = w.AtUpper[k] && !math.IsInf(s.hi[k], 1)
		if s.atUpper[k] {
			s.x[k] = s.hi[k]
		} else {
			s.x[k] = s.lo[k]
		}
	}
	s.phaseTwoCost()

	if err := s.refresh(); err != nil {
		log.V(3).Infof("simplex: warm basis unusable: %v", err)
		return false, nil
	}
	if s.primalFeasible() {
		return true, nil
	}
	if err := s.duals(); err != nil || !s.dualFeasible() {
		return false, nil
	}
	return s.dual(), nil
}

func (s *simplex) primalFeasible() bool {
	for _, k := range s.head {
		if s.x[k] < s.lo[k]-s.feasTol || s.x[k] > s.hi[k]+s.feasTol {
			return false
		}
	}
	return true
}

func (s *simplex) dualFeasible() bool {
	for k := 0; k < s.total; k++ {
		if s.pos[k] >= 0 || s.fixed(k) {
			continue
		}
		d := s.reducedCost(k)
		if (!s.atUpper[k] && d < -s.tol) || (s.atUpper[k] && d > s.tol) {
			return false
		}
	}
	return true
}

// dual runs bounded dual simplex pivots from a dual feasible basis until the
// basic values are within bounds. It reports false on a detected infeasibility
// or a stall; the cold start settles both.
func (s *simplex) dual() bool {
	rho := mat.NewVecDense(s.R, nil)
	for it := 0; ; it++ {
		if it > 0 {
			if err := s.refresh(); err != nil {
				return false
			}
		}
		leave, worst, below := -1, s.feasTol, false
		for p, k := range s.head {
			if v := s.lo[k] - s.x[k]; v > worst {
				leave, worst, below = p, v, true
			}
			if v := s.x[k] - s.hi[k]; v > worst {
				leave, worst, below = p, v, false
			}
		}
		if leave < 0 {
			return true
		}
		if it >= s.maxIters {
			return false
		}
		s.iters++

		if err := s.duals(); err != nil {
			return false
		}
		for r := range s.dense {
			s.dense[r] = 0
		}
		s.dense[leave] = 1
		if err := s.solve(rho, true, s.dense); err != nil {
			return false
		}
		row := rho.RawVector().Data

		q, best, bestA := -1, math.Inf(1), 0.0
		for k := 0; k < s.total; k++ {
			if s.pos[k] >= 0 || s.fixed(k) {
				continue
			}
			a := s.dot(k, row)
			var eligible bool
			if below {
				eligible = (!s.atUpper[k] && a < -pivotTol) || (s.atUpper[k] && a > pivotTol)
			} else {
				eligible = (!s.atUpper[k] && a > pivotTol) || (s.atUpper[k] && a < -pivotTol)
			}
			if !eligible {
				continue
			}
			ratio := math.Abs(s.reducedCost(k)) / math.Abs(a)
			if ratio < best-ratioTieTol || (ratio <= best+ratioTieTol && math.Abs(a) > bestA+pivotTol) {
				q, best, bestA = k, ratio, math.Abs(a)
			}
		}
		if q < 0 {
			return false
		}

		k := s.head[leave]
		if below {
			s.x[k], s.atUpper[k] = s.lo[k], false
		} else {
			s.x[k], s.atUpper[k] = s.hi[k], true
		}
		s.pos[k] = -1
		s.head[leave] = q
		s.pos[q] = leave
		s.atUpper[q] = false
	}
}

func (s *simplex) result(warm bool) *Relaxation {
	x := make([]float64, s.N)
	for k := range x {
		x[k] = math.Min(math.Max(s.x[k], s.lo[k]), s.hi[k])
	}
	return &Relaxation{
		Status:     LPOptimal,
		X:          x,
		Waste:      s.mdl.Waste(x),
		Iterations: s.iters,
		Basis: &Basis{
			Head:    append([]int(nil), s.head...),
			AtUpper: append([]bool(nil), s.atUpper...),
			ArtSign: append([]float64(nil), s.artSign...),
		},
		Warm: warm,
	}
}
