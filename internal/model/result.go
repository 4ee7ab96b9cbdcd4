package model

import "time"

// Status is the outcome class of a solve.
type Status int

const (
	StatusOptimal        Status = iota // Proven optimal assignment
	StatusInfeasible                   // No integer assignment meets demand
	StatusBudgetExceeded               // Time or node budget ran out first
	StatusInvalidInput                 // Input lists rejected before solving
)

func (s Status) String() string {
	switch s {
	case StatusOptimal:
		return "Optimal"
	case StatusInfeasible:
		return "Infeasible"
	case StatusBudgetExceeded:
		return "BudgetExceeded"
	case StatusInvalidInput:
		return "InvalidInput"
	default:
		return "Unknown"
	}
}

// Cut is one piece cut from a stock unit.
type Cut struct {
	PieceIndex int     `json:"piece_index"`
	Label      string  `json:"label,omitempty"`
	Length     float64 `json:"length"`
	Offset     float64 `json:"offset"` // Start position from the stock's origin (mm)
}

// End returns the position where the cut piece ends.
func (c Cut) End() float64 {
	return c.Offset + c.Length
}

// CutPattern is the ordered list of cuts assigned to one stock unit.
type CutPattern struct {
	StockIndex int       `json:"stock_index"`
	Stock      StockUnit `json:"stock"`
	Cuts       []Cut     `json:"cuts"`
	Used       float64   `json:"used"`
	Leftover   float64   `json:"leftover"`
}

// Efficiency returns the used percentage of the stock length.
func (p CutPattern) Efficiency() float64 {
	if p.Stock.Length == 0 {
		return 0
	}
	return (p.Used / p.Stock.Length) * 100.0
}

// Solution is an integer assignment with its interpreted cutting patterns.
type Solution struct {
	Assignment [][]int      `json:"assignment"` // [stock][piece] piece counts
	TotalWaste float64      `json:"total_waste"`
	TotalStock float64      `json:"total_stock"`
	TotalUsed  float64      `json:"total_used"`
	Patterns   []CutPattern `json:"patterns"`
}

// Efficiency returns overall material usage percentage.
func (s Solution) Efficiency() float64 {
	if s.TotalStock == 0 {
		return 0
	}
	return (s.TotalUsed / s.TotalStock) * 100.0
}

// PieceCounts returns how many pieces of each type the assignment cuts.
func (s Solution) PieceCounts() []int {
	if len(s.Assignment) == 0 {
		return nil
	}
	counts := make([]int, len(s.Assignment[0]))
	for _, row := range s.Assignment {
		for j, v := range row {
			counts[j] += v
		}
	}
	return counts
}

// SearchStats describes the work done by the branch-and-bound search.
type SearchStats struct {
	Nodes        int           `json:"nodes"`         // Relaxations solved
	Expanded     int           `json:"expanded"`      // Nodes split into two children
	Pruned       int           `json:"pruned"`        // Infeasible or bound-dominated nodes
	Incumbents   int           `json:"incumbents"`    // Incumbent improvements
	LPIterations int           `json:"lp_iterations"` // Simplex pivots over all relaxations
	RootBound    float64       `json:"root_bound"`    // Waste lower bound of the root relaxation
	Elapsed      time.Duration `json:"elapsed"`
}

// Result holds the full outcome of a solve.
type Result struct {
	Status   Status      `json:"status"`
	Solution *Solution   `json:"solution,omitempty"` // Optimal solution, or the best found when the budget ran out
	Proven   bool        `json:"proven"`             // True only for StatusOptimal
	Reason   string      `json:"reason,omitempty"`
	Stats    SearchStats `json:"stats"`
}

// HasSolution reports whether the result carries an assignment.
func (r Result) HasSolution() bool {
	return r.Solution != nil
}
