package project

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LineCut/internal/model"
)

func TestInventoryPath(t *testing.T) {
	path := InventoryPath(DefaultConfigPath())
	if filepath.Base(path) != "inventory.json" {
		t.Errorf("expected filename inventory.json, got %s", filepath.Base(path))
	}
	if dir := filepath.Base(filepath.Dir(path)); dir != ".linecut" {
		t.Errorf("expected parent dir .linecut, got %s", dir)
	}

	custom := filepath.Join("profiles", "shop", "config.json")
	if got, want := InventoryPath(custom), filepath.Join("profiles", "shop", "inventory.json"); got != want {
		t.Errorf("expected %s, got %s", want, got)
	}
}

func TestLoadInventoryForConfigDir(t *testing.T) {
	dir := t.TempDir()
	configPath := filepath.Join(dir, "config.json")

	inv, path, err := LoadInventoryFor(configPath)
	if err != nil {
		t.Fatalf("LoadInventoryFor failed: %v", err)
	}
	if path != filepath.Join(dir, "inventory.json") {
		t.Errorf("expected inventory beside the config, got %s", path)
	}
	if len(inv.Stocks) != len(model.DefaultInventory().Stocks) {
		t.Errorf("expected default presets, got %d", len(inv.Stocks))
	}
	if _, err := os.Stat(path); err != nil {
		t.Errorf("default inventory was not written: %v", err)
	}
}

func TestSaveAndLoadInventory(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test_inventory.json")

	inv := model.Inventory{
		Stocks: []model.StockPreset{
			model.NewStockPresetWithPrice("Box section 6000", 6000, "Steel", 42.5),
		},
	}

	if err := SaveInventory(path, inv); err != nil {
		t.Fatalf("SaveInventory failed: %v", err)
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("inventory file was not created")
	}

	loaded, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(loaded.Stocks) != 1 {
		t.Fatalf("expected 1 stock, got %d", len(loaded.Stocks))
	}
	got := loaded.Stocks[0]
	if got.Name != "Box section 6000" {
		t.Errorf("expected name 'Box section 6000', got %q", got.Name)
	}
	if got.Length != 6000 {
		t.Errorf("expected length 6000, got %f", got.Length)
	}
	if got.PricePerBar != 42.5 {
		t.Errorf("expected price 42.5, got %f", got.PricePerBar)
	}
	if got.ID != inv.Stocks[0].ID {
		t.Errorf("expected ID %q to survive the round trip, got %q", inv.Stocks[0].ID, got.ID)
	}
}

func TestLoadInventoryCreatesDefault(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nonexistent", "inventory.json")

	inv, err := LoadInventory(path)
	if err != nil {
		t.Fatalf("LoadInventory failed: %v", err)
	}
	if len(inv.Stocks) == 0 {
		t.Error("expected default stocks, got none")
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		t.Fatal("expected default inventory file to be created")
	}
}

func TestLoadInventoryInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "inventory.json")
	if err := os.WriteFile(path, []byte("[broken"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadInventory(path); err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportInventory(t *testing.T) {
	tmpDir := t.TempDir()

	existing := model.Inventory{
		Stocks: []model.StockPreset{
			{ID: "stock-001", Name: "Existing tube", Length: 6000, Material: "Steel"},
		},
	}
	imported := model.Inventory{
		Stocks: []model.StockPreset{
			{ID: "stock-001", Name: "Duplicate tube", Length: 6000, Material: "Steel"}, // same ID, skipped
			{ID: "stock-002", Name: "New batten", Length: 2400, Material: "Timber"},
		},
	}

	importPath := filepath.Join(tmpDir, "import.json")
	data, _ := json.MarshalIndent(imported, "", "  ")
	if err := os.WriteFile(importPath, data, 0644); err != nil {
		t.Fatalf("failed to write import file: %v", err)
	}

	merged, err := ImportInventory(importPath, existing)
	if err != nil {
		t.Fatalf("ImportInventory failed: %v", err)
	}
	if len(merged.Stocks) != 2 {
		t.Fatalf("expected 2 stocks after merge, got %d", len(merged.Stocks))
	}
	if merged.Stocks[0].Name != "Existing tube" {
		t.Errorf("expected first stock to be 'Existing tube', got %q", merged.Stocks[0].Name)
	}
	if merged.Stocks[1].Name != "New batten" {
		t.Errorf("expected second stock to be 'New batten', got %q", merged.Stocks[1].Name)
	}
}

func TestImportInventoryMissingFile(t *testing.T) {
	existing := model.DefaultInventory()
	merged, err := ImportInventory(filepath.Join(t.TempDir(), "nope.json"), existing)
	if err == nil {
		t.Fatal("expected error for missing file")
	}
	if len(merged.Stocks) != len(existing.Stocks) {
		t.Errorf("existing inventory should be returned unchanged")
	}
}

func TestMergeInventoryKeepsOrder(t *testing.T) {
	existing := model.Inventory{Stocks: []model.StockPreset{{ID: "a", Name: "A"}}}
	imported := model.Inventory{Stocks: []model.StockPreset{{ID: "b", Name: "B"}, {ID: "a", Name: "A2"}, {ID: "b", Name: "B2"}}}

	merged := MergeInventory(existing, imported)
	if len(merged.Stocks) != 2 {
		t.Fatalf("expected 2 presets, got %d", len(merged.Stocks))
	}
	if merged.Stocks[0].Name != "A" || merged.Stocks[1].Name != "B" {
		t.Errorf("unexpected merge result: %+v", merged.Stocks)
	}
}
