package model

import (
	"math"
	"testing"
)

func TestCalculatePurchaseEstimateBasic(t *testing.T) {
	pieces := []PieceType{
		{Label: "Rail", Length: 1500, MinQuantity: 4},
	}
	est := CalculatePurchaseEstimate(pieces, 6000, 10.0, 25.00)

	if math.Abs(est.TotalPieceLength-6000) > 1e-9 {
		t.Errorf("expected total length 6000, got %.1f", est.TotalPieceLength)
	}
	if est.BarsNeededMin != 1 {
		t.Errorf("expected 1 bar minimum, got %d", est.BarsNeededMin)
	}
	if est.BarsWithWaste != 2 {
		t.Errorf("expected 2 bars with 10%% waste, got %d", est.BarsWithWaste)
	}
	if est.EstimatedCost != 50.00 {
		t.Errorf("expected cost 50.00, got %.2f", est.EstimatedCost)
	}
}

func TestCalculatePurchaseEstimateZeroBarLength(t *testing.T) {
	pieces := []PieceType{{Label: "P1", Length: 100, MinQuantity: 1}}
	est := CalculatePurchaseEstimate(pieces, 0, 10, 0)
	if est.BarsNeededMin != 0 {
		t.Errorf("expected 0 bars for zero bar length, got %d", est.BarsNeededMin)
	}
	if est.TotalPieceLength != 100 {
		t.Errorf("expected total length 100, got %.1f", est.TotalPieceLength)
	}
}

func TestCalculatePurchaseEstimatePieceLongerThanBar(t *testing.T) {
	pieces := []PieceType{{Label: "Long", Length: 7000, MinQuantity: 1}}
	est := CalculatePurchaseEstimate(pieces, 6000, 0, 10)
	if est.Feasible() {
		t.Error("expected infeasible estimate when a piece exceeds the bar length")
	}
	if est.StockUnits("Bar") != nil {
		t.Error("expected no stock units for an infeasible estimate")
	}
}

func TestPurchaseEstimateStockUnits(t *testing.T) {
	pieces := []PieceType{{Label: "Post", Length: 2000, MinQuantity: 5}}
	est := CalculatePurchaseEstimate(pieces, 6000, 0, 0)
	units := est.StockUnits("Bar 6m")
	if len(units) != 2 {
		t.Fatalf("expected 2 bars, got %d", len(units))
	}
	for _, u := range units {
		if u.Length != 6000 || u.Label != "Bar 6m" {
			t.Errorf("unexpected unit %+v", u)
		}
	}
	if units[0].ID == units[1].ID {
		t.Error("expected distinct IDs per bar")
	}
}
