package engine

import (
	"math"
	"sort"
)

// Greedy builds a first-fit-decreasing assignment: stocks longest first, each
// filled with the longest pieces that still have unmet demand, then every
// stock topped up with the longest pieces that still fit. It returns nil
// when the greedy pass cannot meet the demand; that proves nothing.
func Greedy(m *Model) []int {
	stocks := make([]int, m.m)
	for i := range stocks {
		stocks[i] = i
	}
	sort.SliceStable(stocks, func(a, b int) bool { return m.stock[stocks[a]] > m.stock[stocks[b]] })

	pieces := make([]int, m.n)
	for j := range pieces {
		pieces[j] = j
	}
	sort.SliceStable(pieces, func(a, b int) bool { return m.pieces[pieces[a]] > m.pieces[pieces[b]] })

	x := make([]int, m.NumVars())
	used := make([]float64, m.m)
	remaining := append([]int(nil), m.demand...)

	fill := func(i int, limit func(j int) int) {
		for {
			progress := false
			for _, j := range pieces {
				want := limit(j)
				if want <= 0 {
					continue
				}
				fit := int(capacityCount(m.stock[i]-used[i], m.pieces[j]))
				if fit <= 0 {
					continue
				}
				if fit > want {
					fit = want
				}
				x[m.Index(i, j)] += fit
				used[i] += float64(fit) * m.pieces[j]
				remaining[j] -= fit
				progress = true
				break
			}
			if !progress {
				return
			}
		}
	}

	for _, i := range stocks {
		fill(i, func(j int) int { return remaining[j] })
		if done(remaining) {
			break
		}
	}
	if !done(remaining) {
		return nil
	}

	for _, i := range stocks {
		fill(i, func(int) int { return math.MaxInt32 })
	}
	if _, why := m.Feasible(x, 1e-9); why != "" {
		return nil
	}
	return x
}

func done(remaining []int) bool {
	for _, q := range remaining {
		if q > 0 {
			return false
		}
	}
	return true
}

// Patterns cuts every stock to its full capacity, longest stock first. Each
// stock takes the combination found by the capacity pass, preferring pieces
// whose demand is still open. When the result meets the demand it matches the
// root relaxation bound, so the search ends at the root. It returns nil
// otherwise, and when the model has no capacity table.
func Patterns(m *Model) []int {
	if m.reach == nil {
		return nil
	}
	stocks := make([]int, m.m)
	for i := range stocks {
		stocks[i] = i
	}
	sort.SliceStable(stocks, func(a, b int) bool { return m.stock[stocks[a]] > m.stock[stocks[b]] })

	x := make([]int, m.NumVars())
	remaining := append([]int(nil), m.demand...)
	open := make([]bool, m.n)
	for j, q := range remaining {
		open[j] = q > 0
	}
	table := m.reach
	for _, i := range stocks {
		changed := false
		for j, c := range table.pattern(table.longest(m.stock[i])) {
			x[m.Index(i, j)] = c
			remaining[j] -= c
			if open[j] && remaining[j] <= 0 {
				open[j], changed = false, true
			}
		}
		if changed {
			table = table.reorder(open)
		}
	}
	if _, why := m.Feasible(x, 1e-9); why != "" {
		return nil
	}
	return x
}
