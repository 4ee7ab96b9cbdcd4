package model

import (
	"sort"

	"github.com/google/uuid"
)

// Offcut is a usable remnant left on a stock unit after cutting.
type Offcut struct {
	ID         string  `json:"id"`
	StockLabel string  `json:"stock_label"` // Which stock unit it came from
	StockIndex int     `json:"stock_index"` // Index of the source stock in the solution
	Offset     float64 `json:"offset"`      // Where the remnant starts on the stock (mm)
	Length     float64 `json:"length"`      // Usable length (mm)
}

// ToStockUnit converts an offcut into a stock unit for reuse in future jobs.
func (o Offcut) ToStockUnit() StockUnit {
	return NewStockUnit("Offcut "+o.StockLabel, o.Length)
}

// MinOffcutLength is the minimum length (in mm) for a leftover to be considered
// a usable offcut. Shorter leftovers are waste.
const MinOffcutLength = 300.0

// DetectOffcuts returns the leftovers of a solution that are at least minLength
// long, longest first. A minLength of zero or less uses MinOffcutLength.
func DetectOffcuts(sol Solution, minLength float64) []Offcut {
	if minLength <= 0 {
		minLength = MinOffcutLength
	}

	var offcuts []Offcut
	for _, p := range sol.Patterns {
		if p.Leftover < minLength {
			continue
		}
		offcuts = append(offcuts, Offcut{
			ID:         uuid.New().String()[:8],
			StockLabel: p.Stock.Label,
			StockIndex: p.StockIndex,
			Offset:     p.Used,
			Length:     p.Leftover,
		})
	}

	sort.SliceStable(offcuts, func(i, j int) bool {
		return offcuts[i].Length > offcuts[j].Length
	})
	return offcuts
}

// TotalOffcutLength returns the total length of all offcuts in mm.
func TotalOffcutLength(offcuts []Offcut) float64 {
	var total float64
	for _, o := range offcuts {
		total += o.Length
	}
	return total
}
