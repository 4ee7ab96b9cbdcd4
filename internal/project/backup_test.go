package project

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/piwi3910/LineCut/internal/model"
)

func TestExportAndImportAllData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "backup.json")

	cfg := model.DefaultAppConfig()
	cfg.MinOffcutLength = 250
	cfg.Units = "in"
	inv := model.Inventory{
		Stocks: []model.StockPreset{model.NewStockPreset("Flat bar 3000", 3000, "Steel")},
	}

	if err := ExportAllData(path, cfg, inv); err != nil {
		t.Fatalf("ExportAllData failed: %v", err)
	}

	backup, err := ImportAllData(path)
	if err != nil {
		t.Fatalf("ImportAllData failed: %v", err)
	}
	if backup.Version != BackupVersion {
		t.Errorf("expected version %s, got %s", BackupVersion, backup.Version)
	}
	if backup.CreatedAt == "" {
		t.Error("expected non-empty CreatedAt")
	}
	if backup.Config.MinOffcutLength != 250 {
		t.Errorf("expected MinOffcutLength=250, got %f", backup.Config.MinOffcutLength)
	}
	if backup.Config.Units != "in" {
		t.Errorf("expected Units=in, got %s", backup.Config.Units)
	}
	if len(backup.Inventory.Stocks) != 1 || backup.Inventory.Stocks[0].Name != "Flat bar 3000" {
		t.Errorf("inventory did not survive the round trip: %+v", backup.Inventory.Stocks)
	}
}

func TestImportAllDataMissingFile(t *testing.T) {
	_, err := ImportAllData(filepath.Join(t.TempDir(), "nope.json"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}

func TestImportAllDataInvalidJSON(t *testing.T) {
	path := filepath.Join(t.TempDir(), "bad.json")
	if err := os.WriteFile(path, []byte("{not json}"), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for invalid JSON")
	}
}

func TestImportAllDataMissingVersion(t *testing.T) {
	path := filepath.Join(t.TempDir(), "noversion.json")
	if err := os.WriteFile(path, []byte(`{"config":{}}`), 0644); err != nil {
		t.Fatal(err)
	}

	_, err := ImportAllData(path)
	if err == nil {
		t.Fatal("expected error for backup without version")
	}
}
