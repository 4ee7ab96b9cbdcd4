package model

import (
	"testing"
)

func TestNewStockPresetWithPrice(t *testing.T) {
	sp := NewStockPresetWithPrice("Steel 6m", 6000, "Steel", 45.99)
	if sp.PricePerBar != 45.99 {
		t.Errorf("expected price 45.99, got %.2f", sp.PricePerBar)
	}
	if sp.Name != "Steel 6m" {
		t.Errorf("expected name 'Steel 6m', got %s", sp.Name)
	}
	if sp.Material != "Steel" {
		t.Errorf("expected material 'Steel', got %s", sp.Material)
	}
}

func TestToStockUnits(t *testing.T) {
	sp := NewStockPreset("Timber 2400", 2400, "Timber")
	units := sp.ToStockUnits(3)
	if len(units) != 3 {
		t.Fatalf("expected 3 units, got %d", len(units))
	}
	seen := map[string]bool{}
	for _, u := range units {
		if u.Length != 2400 {
			t.Errorf("expected length 2400, got %.1f", u.Length)
		}
		if seen[u.ID] {
			t.Errorf("duplicate unit ID %s", u.ID)
		}
		seen[u.ID] = true
	}
}

func TestDefaultInventoryLookups(t *testing.T) {
	inv := DefaultInventory()
	if len(inv.Stocks) == 0 {
		t.Fatal("expected default stock presets")
	}

	first := inv.Stocks[0]
	if got := inv.FindStockByID(first.ID); got == nil || got.Name != first.Name {
		t.Errorf("FindStockByID did not return %q", first.Name)
	}
	if got := inv.FindStockByName("Timber 3600"); got == nil || got.Length != 3600 {
		t.Error("expected to find Timber 3600 by name")
	}
	if inv.FindStockByName("missing") != nil {
		t.Error("expected nil for unknown name")
	}
	if len(inv.StockNames()) != len(inv.Stocks) {
		t.Error("StockNames length mismatch")
	}
}

func TestAddOffcuts(t *testing.T) {
	inv := DefaultInventory()
	before := len(inv.Stocks)
	offcuts := []Offcut{
		{ID: "a1", StockLabel: "Tube 1", Length: 850},
		{ID: "b2", StockLabel: "Tube 2", Length: 420},
	}

	if added := inv.AddOffcuts(offcuts); added != 2 {
		t.Fatalf("expected 2 presets added, got %d", added)
	}
	p := inv.FindStockByID("a1")
	if p == nil {
		t.Fatal("offcut a1 not stored")
	}
	if p.Name != "Offcut Tube 1 a1" {
		t.Errorf("unexpected preset name %q", p.Name)
	}
	if p.Length != 850 || p.Material != OffcutMaterial {
		t.Errorf("unexpected preset %+v", *p)
	}

	if added := inv.AddOffcuts(offcuts); added != 0 {
		t.Errorf("expected re-adding to be a no-op, got %d", added)
	}
	if len(inv.Stocks) != before+2 {
		t.Errorf("expected %d presets, got %d", before+2, len(inv.Stocks))
	}
}
