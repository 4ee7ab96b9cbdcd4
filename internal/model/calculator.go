package model

import "math"

// PurchaseEstimate holds the results of a bar purchasing calculation.
type PurchaseEstimate struct {
	TotalPieceLength float64 `json:"total_piece_length"` // Total length of all demanded pieces (mm)
	BarLength        float64 `json:"bar_length"`         // Length of one stock bar (mm)
	BarsNeededExact  float64 `json:"bars_needed_exact"`  // Exact fractional number of bars
	BarsNeededMin    int     `json:"bars_needed_min"`    // Minimum bars (ceiling of exact)
	BarsWithWaste    int     `json:"bars_with_waste"`    // Recommended bars including waste factor
	WastePercent     float64 `json:"waste_percent"`      // Waste factor applied (e.g., 10 for 10%)
	EstimatedCost    float64 `json:"estimated_cost"`     // Total cost if pricing available
	PricePerBar      float64 `json:"price_per_bar"`      // Price used for estimation
}

// CalculatePurchaseEstimate computes how many bars of one length to buy for a demand list.
// It is a length-only lower bound plus a waste percentage factor; run the solver for
// an exact answer.
func CalculatePurchaseEstimate(pieces []PieceType, barLength, wastePercent, pricePerBar float64) PurchaseEstimate {
	var total float64
	for _, p := range pieces {
		total += p.Length * float64(p.MinQuantity)
	}

	if barLength <= 0 {
		return PurchaseEstimate{
			TotalPieceLength: total,
			WastePercent:     wastePercent,
		}
	}

	exactBars := total / barLength
	minBars := int(math.Ceil(exactBars))

	// Every piece still needs a bar at least as long as itself
	for _, p := range pieces {
		if p.MinQuantity > 0 && p.Length > barLength {
			minBars = 0
			exactBars = math.Inf(1)
			break
		}
	}

	wasteFactor := 1.0 + (wastePercent / 100.0)
	barsWithWaste := minBars
	if !math.IsInf(exactBars, 1) {
		barsWithWaste = int(math.Ceil(exactBars * wasteFactor))
		if barsWithWaste < minBars {
			barsWithWaste = minBars
		}
	}

	return PurchaseEstimate{
		TotalPieceLength: total,
		BarLength:        barLength,
		BarsNeededExact:  exactBars,
		BarsNeededMin:    minBars,
		BarsWithWaste:    barsWithWaste,
		WastePercent:     wastePercent,
		EstimatedCost:    float64(barsWithWaste) * pricePerBar,
		PricePerBar:      pricePerBar,
	}
}

// Feasible reports whether the estimate found a bar long enough for every piece.
func (e PurchaseEstimate) Feasible() bool {
	return !math.IsInf(e.BarsNeededExact, 1)
}

// StockUnits returns the recommended bars as stock units ready to solve against.
func (e PurchaseEstimate) StockUnits(label string) []StockUnit {
	if !e.Feasible() {
		return nil
	}
	return ExpandStock(label, e.BarLength, e.BarsWithWaste)
}
