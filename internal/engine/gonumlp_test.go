package engine

import (
	"math"

	"github.com/pkg/errors"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/optimize/convex/lp"
)

// gonumRelaxer solves relaxations with gonum's lp.Simplex on an equality-form
// rewrite of the model and serves as a reference for the owned simplex. It
// never warm starts and has no iteration cap, so it only runs on small models.
//
// With y = x - lo the rows are
//
//	sum_j len_j y_ij + s_i = K_i - sum_j len_j lo_ij   (capacity)
//	sum_i y_ij - t_j       = d_j - sum_i lo_ij         (demand)
//	y_k + u_k              = hi_k - lo_k               (upper bound)
//
// over columns [y | s | t | u], all nonnegative.
type gonumRelaxer struct {
	Tolerance float64
}

func (g *gonumRelaxer) Relax(m *Model, lo, hi []float64, _ *Basis) (*Relaxation, error) {
	N := m.NumVars()
	rows := m.m + m.n + N
	cols := 2*N + m.m + m.n
	sCol, tCol, uCol := N, N+m.m, N+m.m+m.n

	A := mat.NewDense(rows, cols, nil)
	b := make([]float64, rows)
	c := make([]float64, cols)

	for i := 0; i < m.m; i++ {
		b[i] = m.capacity[i]
		A.Set(i, sCol+i, 1)
	}
	for j := 0; j < m.n; j++ {
		r := m.m + j
		b[r] = float64(m.demand[j])
		A.Set(r, tCol+j, -1)
	}
	for k := 0; k < N; k++ {
		if hi[k] < lo[k] {
			return &Relaxation{Status: LPInfeasible}, nil
		}
		i, j := m.Coords(k)
		l := m.pieces[j]
		c[k] = -l

		A.Set(i, k, l)
		b[i] -= l * lo[k]

		A.Set(m.m+j, k, 1)
		b[m.m+j] -= lo[k]

		r := m.m + m.n + k
		A.Set(r, k, 1)
		A.Set(r, uCol+k, 1)
		b[r] = hi[k] - lo[k]
	}
	for r := range b {
		if b[r] < 0 {
			b[r] = -b[r]
			for col := 0; col < cols; col++ {
				if v := A.At(r, col); v != 0 {
					A.Set(r, col, -v)
				}
			}
		}
	}

	_, sol, err := lp.Simplex(c, A, b, g.Tolerance, nil)
	switch {
	case err == nil:
	case errors.Is(err, lp.ErrInfeasible):
		return &Relaxation{Status: LPInfeasible}, nil
	case errors.Is(err, lp.ErrUnbounded):
		return nil, instability(-1, "gonum simplex reports an unbounded relaxation")
	default:
		return nil, instability(-1, "gonum simplex failed: %v", err)
	}

	x := make([]float64, N)
	for k := range x {
		x[k] = math.Min(math.Max(lo[k]+sol[k], lo[k]), hi[k])
	}
	return &Relaxation{
		Status: LPOptimal,
		X:      x,
		Waste:  m.Waste(x),
	}, nil
}
