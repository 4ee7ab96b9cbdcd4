package model

import "github.com/google/uuid"

// StockPreset represents a reusable stock bar definition.
type StockPreset struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	Length      float64 `json:"length"`
	Material    string  `json:"material"`
	PricePerBar float64 `json:"price_per_bar"`
}

// NewStockPreset creates a new StockPreset with a generated ID.
func NewStockPreset(name string, length float64, material string) StockPreset {
	return StockPreset{
		ID:       uuid.New().String()[:8],
		Name:     name,
		Length:   length,
		Material: material,
	}
}

// NewStockPresetWithPrice creates a StockPreset carrying a unit price.
func NewStockPresetWithPrice(name string, length float64, material string, price float64) StockPreset {
	sp := NewStockPreset(name, length, material)
	sp.PricePerBar = price
	return sp
}

// ToStockUnits expands this preset into qty independent stock units.
func (sp StockPreset) ToStockUnits(qty int) []StockUnit {
	return ExpandStock(sp.Name, sp.Length, qty)
}

// Inventory holds the user's saved stock presets.
type Inventory struct {
	Stocks []StockPreset `json:"stocks"`
}

// DefaultInventory returns an inventory populated with common bar lengths.
func DefaultInventory() Inventory {
	return Inventory{
		Stocks: []StockPreset{
			NewStockPreset("Steel tube 6000", 6000, "Steel"),
			NewStockPreset("Aluminium extrusion 6500", 6500, "Aluminium"),
			NewStockPreset("Timber 2400", 2400, "Timber"),
			NewStockPreset("Timber 3600", 3600, "Timber"),
			NewStockPreset("Timber 4800", 4800, "Timber"),
			NewStockPreset("PVC pipe 3000", 3000, "PVC"),
		},
	}
}

// FindStockByID returns a pointer to the stock preset with the given ID, or nil.
func (inv *Inventory) FindStockByID(id string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].ID == id {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// FindStockByName returns a pointer to the first stock preset with the given name, or nil.
func (inv *Inventory) FindStockByName(name string) *StockPreset {
	for i := range inv.Stocks {
		if inv.Stocks[i].Name == name {
			return &inv.Stocks[i]
		}
	}
	return nil
}

// StockNames returns a list of stock preset names.
func (inv *Inventory) StockNames() []string {
	names := make([]string, len(inv.Stocks))
	for i, s := range inv.Stocks {
		names[i] = s.Name
	}
	return names
}

// OffcutMaterial marks presets that were saved from the leftovers of a job.
const OffcutMaterial = "Offcut"

// AddOffcuts keeps each offcut as a single-bar preset. Offcuts already in the
// inventory are skipped. It returns the number of presets added.
func (inv *Inventory) AddOffcuts(offcuts []Offcut) int {
	added := 0
	for _, o := range offcuts {
		if inv.FindStockByID(o.ID) != nil {
			continue
		}
		u := o.ToStockUnit()
		inv.Stocks = append(inv.Stocks, StockPreset{
			ID:       o.ID,
			Name:     u.Label + " " + o.ID,
			Length:   u.Length,
			Material: OffcutMaterial,
		})
		added++
	}
	return added
}
