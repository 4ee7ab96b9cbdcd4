package project

import (
	"encoding/json"
	"os"
	"path/filepath"

	"github.com/pkg/errors"

	"github.com/piwi3910/LineCut/internal/model"
)

// InventoryPath returns the inventory file kept next to the config file at
// configPath. For the default config that is ~/.linecut/inventory.json.
func InventoryPath(configPath string) string {
	return filepath.Join(filepath.Dir(configPath), "inventory.json")
}

// SaveInventory writes the inventory to the specified JSON file.
func SaveInventory(path string, inv model.Inventory) error {
	return writeJSON(path, inv)
}

// LoadInventory reads the inventory from the specified JSON file.
// If the file does not exist, it returns the default inventory and saves it.
func LoadInventory(path string) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			inv := model.DefaultInventory()
			return inv, SaveInventory(path, inv)
		}
		return model.Inventory{}, errors.Wrapf(err, "read inventory %s", path)
	}
	var inv model.Inventory
	if err := json.Unmarshal(data, &inv); err != nil {
		return model.Inventory{}, errors.Wrapf(err, "parse inventory %s", path)
	}
	return inv, nil
}

// LoadInventoryFor loads the inventory belonging to the config file at
// configPath. If the file does not exist, it creates one with default entries.
func LoadInventoryFor(configPath string) (model.Inventory, string, error) {
	path := InventoryPath(configPath)
	inv, err := LoadInventory(path)
	return inv, path, err
}

// ImportInventory merges the presets stored at path into existing.
// Presets whose ID is already present are skipped.
func ImportInventory(path string, existing model.Inventory) (model.Inventory, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return existing, errors.Wrapf(err, "read inventory %s", path)
	}
	var imported model.Inventory
	if err := json.Unmarshal(data, &imported); err != nil {
		return existing, errors.Wrapf(err, "parse inventory %s", path)
	}
	return MergeInventory(existing, imported), nil
}

// MergeInventory appends the presets of imported whose ID is not already in
// existing.
func MergeInventory(existing, imported model.Inventory) model.Inventory {
	seen := make(map[string]bool, len(existing.Stocks))
	for _, s := range existing.Stocks {
		seen[s.ID] = true
	}
	for _, s := range imported.Stocks {
		if !seen[s.ID] {
			existing.Stocks = append(existing.Stocks, s)
			seen[s.ID] = true
		}
	}
	return existing
}
