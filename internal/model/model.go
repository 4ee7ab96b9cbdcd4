package model

import "github.com/google/uuid"

// StockUnit is one raw length of material available for cutting.
type StockUnit struct {
	ID     string  `json:"id"`
	Label  string  `json:"label"`
	Length float64 `json:"length"` // mm
}

func NewStockUnit(label string, length float64) StockUnit {
	return StockUnit{
		ID:     uuid.New().String()[:8],
		Label:  label,
		Length: length,
	}
}

// PieceType is a required output length with a minimum demand.
type PieceType struct {
	ID          string  `json:"id"`
	Label       string  `json:"label"`
	Length      float64 `json:"length"`       // mm
	MinQuantity int     `json:"min_quantity"` // pieces that must be cut at least
}

func NewPieceType(label string, length float64, minQty int) PieceType {
	return PieceType{
		ID:          uuid.New().String()[:8],
		Label:       label,
		Length:      length,
		MinQuantity: minQty,
	}
}

// StockLengths returns the lengths of the given stock units in order.
func StockLengths(stocks []StockUnit) []float64 {
	out := make([]float64, len(stocks))
	for i, s := range stocks {
		out[i] = s.Length
	}
	return out
}

// PieceLengths returns the lengths of the given piece types in order.
func PieceLengths(pieces []PieceType) []float64 {
	out := make([]float64, len(pieces))
	for j, p := range pieces {
		out[j] = p.Length
	}
	return out
}

// MinQuantities returns the minimum demand of each piece type in order.
func MinQuantities(pieces []PieceType) []int {
	out := make([]int, len(pieces))
	for j, p := range pieces {
		out[j] = p.MinQuantity
	}
	return out
}

// ExpandStock turns a label/length/count triple into count identical stock units.
// Every unit is an independent bar in the cutting model.
func ExpandStock(label string, length float64, count int) []StockUnit {
	out := make([]StockUnit, 0, count)
	for i := 0; i < count; i++ {
		out = append(out, NewStockUnit(label, length))
	}
	return out
}

// Job ties everything together for save/load.
type Job struct {
	Name    string      `json:"name"`
	Stocks  []StockUnit `json:"stocks"`
	Pieces  []PieceType `json:"pieces"`
	Options Options     `json:"options"`
	Result  *Result     `json:"result,omitempty"`
}

func NewJob() Job {
	return Job{
		Name:    "Untitled",
		Stocks:  []StockUnit{},
		Pieces:  []PieceType{},
		Options: DefaultOptions(),
	}
}
