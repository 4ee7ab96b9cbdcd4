package engine

import (
	"fmt"
	"math"

	"github.com/piwi3910/LineCut/internal/model"
)

// Model is the integer program for one cutting job: an m x n dense arena of
// piece-count variables, one capacity row per stock and one demand row per
// piece. It is immutable once built.
//
// A capacity row bounds the cut length by the longest combination of piece
// lengths that fits the stock, not by the stock length itself. Every integer
// assignment stays feasible.
type Model struct {
	stock  []float64
	pieces []float64
	demand []int
	m, n   int

	// upper[i*n+j] = floor(stock[i] / pieces[j])
	upper []float64

	capacity []float64   // longest cuttable length per stock, at most stock[i]
	reach    *reachTable // nil when the lengths are off a usable grid

	totalStock float64
	maxStock   float64
	integral   bool // every length is a whole number, so waste is too
}

// BuildModel validates the input lists and constructs the model.
// The caller's slices are copied, never retained.
func BuildModel(stock, pieces []float64, demand []int) (*Model, error) {
	if err := model.ValidateInput(stock, pieces, demand); err != nil {
		return nil, err
	}

	m := &Model{
		stock:  append([]float64(nil), stock...),
		pieces: append([]float64(nil), pieces...),
		demand: append([]int(nil), demand...),
		m:      len(stock),
		n:      len(pieces),
	}

	m.integral = true
	for _, l := range m.stock {
		m.totalStock += l
		if l > m.maxStock {
			m.maxStock = l
		}
		if !isWhole(l) {
			m.integral = false
		}
	}
	for _, l := range m.pieces {
		if !isWhole(l) {
			m.integral = false
		}
	}

	m.upper = make([]float64, m.m*m.n)
	for i, L := range m.stock {
		for j, l := range m.pieces {
			m.upper[i*m.n+j] = capacityCount(L, l)
		}
	}

	m.capacity = append([]float64(nil), m.stock...)
	if m.reach = buildReach(m); m.reach != nil {
		for i, L := range m.stock {
			m.capacity[i] = math.Min(L, float64(m.reach.longest(L))*m.reach.unit)
		}
	}
	return m, nil
}

// capacityCount returns floor(L/l), absorbing representation error so that
// 10/2.5 stays 4 and 0.3/0.1 stays 3. It is 0 when the piece is longer than the stock.
func capacityCount(L, l float64) float64 {
	q := L / l
	return math.Floor(q + 1e-9*math.Max(1, q))
}

func isWhole(v float64) bool {
	return math.Abs(v-math.Round(v)) <= 1e-9*math.Max(1, math.Abs(v))
}

func (m *Model) Stocks() int  { return m.m }
func (m *Model) Pieces() int  { return m.n }
func (m *Model) NumVars() int { return m.m * m.n }

// Index maps (stock, piece) to the flat variable index.
func (m *Model) Index(i, j int) int { return i*m.n + j }

// Coords maps a flat variable index back to (stock, piece).
func (m *Model) Coords(k int) (i, j int) { return k / m.n, k % m.n }

func (m *Model) StockLength(i int) float64 { return m.stock[i] }
func (m *Model) PieceLength(j int) float64 { return m.pieces[j] }
func (m *Model) Demand(j int) int          { return m.demand[j] }
func (m *Model) Upper(k int) float64       { return m.upper[k] }
func (m *Model) TotalStock() float64       { return m.totalStock }

// Capacity is the longest length any combination of pieces can use in stock i.
func (m *Model) Capacity(i int) float64 { return m.capacity[i] }

// IntegralObjective reports whether every feasible waste value is a whole number.
func (m *Model) IntegralObjective() bool { return m.integral }

// RootBounds returns fresh copies of the root variable bounds.
func (m *Model) RootBounds() (lo, hi []float64) {
	lo = make([]float64, len(m.upper))
	hi = append([]float64(nil), m.upper...)
	return lo, hi
}

// Waste evaluates the objective for a (possibly fractional) assignment.
func (m *Model) Waste(x []float64) float64 {
	used := 0.0
	for k, v := range x {
		used += v * m.pieces[k%m.n]
	}
	return m.totalStock - used
}

// IntWaste evaluates the objective for an integer assignment.
func (m *Model) IntWaste(x []int) float64 {
	used := 0.0
	for k, v := range x {
		used += float64(v) * m.pieces[k%m.n]
	}
	return m.totalStock - used
}

// Feasible checks an integer assignment against bounds, capacity and demand.
// It returns the first violated variable or row description, or "" when feasible.
func (m *Model) Feasible(x []int, tol float64) (int, string) {
	if len(x) != len(m.upper) {
		return -1, fmt.Sprintf("assignment has %d values, model has %d variables", len(x), len(m.upper))
	}
	for k, v := range x {
		if v < 0 || float64(v) > m.upper[k] {
			return k, fmt.Sprintf("count %d outside [0, %.0f]", v, m.upper[k])
		}
	}
	for i := 0; i < m.m; i++ {
		used := 0.0
		for j := 0; j < m.n; j++ {
			used += float64(x[m.Index(i, j)]) * m.pieces[j]
		}
		if used > m.stock[i]+tol*math.Max(1, m.stock[i]) {
			return m.Index(i, 0), fmt.Sprintf("stock %d over capacity: %.6g > %.6g", i, used, m.stock[i])
		}
	}
	for j := 0; j < m.n; j++ {
		cut := 0
		for i := 0; i < m.m; i++ {
			cut += x[m.Index(i, j)]
		}
		if cut < m.demand[j] {
			return m.Index(0, j), fmt.Sprintf("piece %d demand unmet: %d < %d", j, cut, m.demand[j])
		}
	}
	return -1, ""
}

// TriviallyInfeasible applies the cheap necessary conditions: every demanded
// piece fits some stock, and the demanded length does not exceed the total
// stock length. Passing it does not imply feasibility.
func (m *Model) TriviallyInfeasible() (bool, string) {
	for j, l := range m.pieces {
		if m.demand[j] > 0 && l > m.maxStock {
			return true, fmt.Sprintf("piece %d (length %g) is longer than the longest stock (%g)", j, l, m.maxStock)
		}
	}
	required := model.RequiredLength(m.pieces, m.demand)
	if required > m.totalStock*(1+1e-12) {
		return true, fmt.Sprintf("required length %g exceeds available stock %g", required, m.totalStock)
	}
	return false, ""
}
