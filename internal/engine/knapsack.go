package engine

import (
	"math"
	"sort"
)

const (
	// knapsackCells caps the length of the reachability table.
	knapsackCells = 1 << 22
	// knapsackWork caps cells times piece types.
	knapsackWork = 1 << 26
)

// reachTable records which total lengths a combination of pieces can add up
// to, on a grid where every piece length is a whole number of units.
type reachTable struct {
	unit  float64 // length of one grid unit
	sizes []int   // piece lengths in grid units
	// from[v] is the piece that completes some combination of total v units,
	// or -1 when v is unreachable. from[0] is the empty combination.
	from []int32
}

// buildReach returns nil when the piece lengths share no grid of at most
// three decimals, or when the table would be too large.
func buildReach(m *Model) *reachTable {
	for _, scale := range []float64{1, 10, 100, 1000} {
		sizes, g, ok := gridSizes(m.pieces, scale)
		if !ok {
			continue
		}
		unit := float64(g) / scale
		cells := math.Floor(m.maxStock/unit + 1e-9)
		if cells > knapsackCells || (cells+1)*float64(m.n) > knapsackWork {
			return nil
		}
		top := int(cells)
		prefer := make([]bool, m.n)
		for j, d := range m.demand {
			prefer[j] = d > 0
		}
		return fillReach(sizes, prefer, unit, top)
	}
	return nil
}

// gridSizes scales the lengths to whole numbers and divides out their
// greatest common divisor.
func gridSizes(lengths []float64, scale float64) ([]int, int, bool) {
	sizes := make([]int, len(lengths))
	g := 0
	for j, l := range lengths {
		v := l * scale
		if !isWhole(v) || math.Round(v) < 1 || v > math.MaxInt32 {
			return nil, 0, false
		}
		sizes[j] = int(math.Round(v))
		g = gcd(g, sizes[j])
	}
	for j := range sizes {
		sizes[j] /= g
	}
	return sizes, g, true
}

func gcd(a, b int) int {
	for b != 0 {
		a, b = b, a%b
	}
	return a
}

// fillReach runs the unbounded knapsack reachability pass. Each total is
// completed by the first piece in preference order that reaches it: preferred
// pieces first, longer pieces before shorter ones. The set of reachable
// totals does not depend on the order.
func fillReach(sizes []int, prefer []bool, unit float64, top int) *reachTable {
	order := make([]int, len(sizes))
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool {
		if pa, pb := prefer[order[a]], prefer[order[b]]; pa != pb {
			return pa
		}
		return sizes[order[a]] > sizes[order[b]]
	})

	from := make([]int32, top+1)
	from[0] = int32(len(sizes))
	for v := 1; v <= top; v++ {
		from[v] = -1
		for _, j := range order {
			if s := sizes[j]; s <= v && from[v-s] >= 0 {
				from[v] = int32(j)
				break
			}
		}
	}
	return &reachTable{unit: unit, sizes: sizes, from: from}
}

// reorder returns a table over the same totals with a new preference.
func (r *reachTable) reorder(prefer []bool) *reachTable {
	return fillReach(r.sizes, prefer, r.unit, len(r.from)-1)
}

// longest returns the largest reachable total that fits in L, in grid units.
func (r *reachTable) longest(L float64) int {
	v := int(math.Floor(L/r.unit + 1e-9))
	if v >= len(r.from) {
		v = len(r.from) - 1
	}
	for v > 0 && r.from[v] < 0 {
		v--
	}
	return v
}

// pattern walks back from total v and returns the piece counts of the
// combination that reaches it.
func (r *reachTable) pattern(v int) []int {
	counts := make([]int, len(r.sizes))
	for v > 0 {
		j := r.from[v]
		counts[j]++
		v -= r.sizes[j]
	}
	return counts
}
