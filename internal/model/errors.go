package model

import "fmt"

// InvalidInputError reports malformed or inconsistent input lists.
// It is raised before any solving and is never retried.
type InvalidInputError struct {
	Field  string // "stock", "pieces" or "min_quantities"
	Index  int    // offending element, -1 for list-level problems
	Reason string
}

func (e *InvalidInputError) Error() string {
	if e.Index >= 0 {
		return fmt.Sprintf("invalid input: %s[%d]: %s", e.Field, e.Index, e.Reason)
	}
	return fmt.Sprintf("invalid input: %s: %s", e.Field, e.Reason)
}

// NumericalInstabilityError reports a failed relaxation or a failed consistency
// self-check. Node is the search node being solved (0 is the root, -1 when the
// failure happened outside the search); Variable is the flat variable index
// involved, -1 when none is.
type NumericalInstabilityError struct {
	Node     int64
	Variable int
	Detail   string
}

func (e *NumericalInstabilityError) Error() string {
	msg := fmt.Sprintf("numerical instability: %s", e.Detail)
	if e.Node >= 0 {
		msg += fmt.Sprintf(" (node %d", e.Node)
		if e.Variable >= 0 {
			msg += fmt.Sprintf(", variable %d", e.Variable)
		}
		msg += ")"
	} else if e.Variable >= 0 {
		msg += fmt.Sprintf(" (variable %d)", e.Variable)
	}
	return msg
}
