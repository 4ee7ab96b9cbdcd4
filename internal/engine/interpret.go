package engine

import (
	"fmt"
	"math"
	"sort"

	"github.com/piwi3910/LineCut/internal/model"
)

// Interpret turns a flat integer assignment into per-stock cutting patterns.
// Cuts within a stock are laid out longest first, ties by piece index. The
// waste is recomputed from the assignment and must agree with the reported
// objective within tol relative to the total stock length.
func Interpret(m *Model, x []int, reported, tol float64) (*model.Solution, error) {
	if tol <= 0 {
		tol = model.DefaultTolerance
	}
	if v, why := m.Feasible(x, tol); why != "" {
		return nil, &model.NumericalInstabilityError{Node: -1, Variable: v, Detail: "assignment check failed: " + why}
	}

	order := make([]int, m.n)
	for j := range order {
		order[j] = j
	}
	sort.SliceStable(order, func(a, b int) bool { return m.pieces[order[a]] > m.pieces[order[b]] })

	sol := &model.Solution{
		Assignment: make([][]int, m.m),
		TotalStock: m.totalStock,
		Patterns:   make([]model.CutPattern, m.m),
	}
	for i := 0; i < m.m; i++ {
		row := make([]int, m.n)
		copy(row, x[i*m.n:(i+1)*m.n])
		sol.Assignment[i] = row

		p := model.CutPattern{
			StockIndex: i,
			Stock:      model.StockUnit{Label: fmt.Sprintf("Stock %d", i+1), Length: m.stock[i]},
		}
		offset := 0.0
		for _, j := range order {
			for c := 0; c < row[j]; c++ {
				p.Cuts = append(p.Cuts, model.Cut{PieceIndex: j, Length: m.pieces[j], Offset: offset})
				offset += m.pieces[j]
			}
		}
		p.Used = offset
		p.Leftover = m.stock[i] - offset
		sol.Patterns[i] = p
		sol.TotalUsed += p.Used
	}
	sol.TotalWaste = m.IntWaste(x)

	if diff := math.Abs(sol.TotalWaste - reported); diff > tol*math.Max(1, m.totalStock) {
		return nil, &model.NumericalInstabilityError{
			Node:     -1,
			Variable: -1,
			Detail:   fmt.Sprintf("recomputed waste %g disagrees with reported objective %g", sol.TotalWaste, reported),
		}
	}
	return sol, nil
}

// ApplyLabels copies stock and piece labels onto an interpreted solution.
// Lists shorter than the model leave the generated labels in place.
func ApplyLabels(sol *model.Solution, stocks []model.StockUnit, pieces []model.PieceType) {
	if sol == nil {
		return
	}
	for i := range sol.Patterns {
		p := &sol.Patterns[i]
		if p.StockIndex < len(stocks) {
			p.Stock = stocks[p.StockIndex]
		}
		for c := range p.Cuts {
			if j := p.Cuts[c].PieceIndex; j < len(pieces) {
				p.Cuts[c].Label = pieces[j].Label
			}
		}
	}
}
