package model

import "math"

// ValidateInput checks the raw stock, piece and demand lists.
// Feasibility of the demand is not checked here.
func ValidateInput(stock, pieces []float64, minQty []int) error {
	if len(stock) == 0 {
		return &InvalidInputError{Field: "stock", Index: -1, Reason: "at least one stock length is required"}
	}
	if len(pieces) == 0 {
		return &InvalidInputError{Field: "pieces", Index: -1, Reason: "at least one piece length is required"}
	}
	if len(minQty) != len(pieces) {
		return &InvalidInputError{Field: "min_quantities", Index: -1, Reason: "length must match the number of pieces"}
	}
	for i, l := range stock {
		if !validLength(l) {
			return &InvalidInputError{Field: "stock", Index: i, Reason: "length must be a positive finite number"}
		}
	}
	for j, l := range pieces {
		if !validLength(l) {
			return &InvalidInputError{Field: "pieces", Index: j, Reason: "length must be a positive finite number"}
		}
	}
	for j, q := range minQty {
		if q < 0 {
			return &InvalidInputError{Field: "min_quantities", Index: j, Reason: "quantity must not be negative"}
		}
	}
	return nil
}

func validLength(l float64) bool {
	return l > 0 && !math.IsInf(l, 0) && !math.IsNaN(l)
}

// TotalLength sums a list of lengths.
func TotalLength(lengths []float64) float64 {
	var total float64
	for _, l := range lengths {
		total += l
	}
	return total
}

// RequiredLength returns the total length the demand asks for.
func RequiredLength(pieces []float64, minQty []int) float64 {
	var total float64
	for j, l := range pieces {
		total += l * float64(minQty[j])
	}
	return total
}
