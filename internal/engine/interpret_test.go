package engine

import (
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/piwi3910/LineCut/internal/model"
)

func TestInterpret_OrdersCutsLongestFirst(t *testing.T) {
	m, err := BuildModel([]float64{13, 10}, []float64{2, 5}, []int{2, 2})
	require.NoError(t, err)
	x := []int{4, 1, 0, 2}

	sol, err := Interpret(m, x, 0, 1e-9)
	require.NoError(t, err)

	want := []model.Cut{
		{PieceIndex: 1, Length: 5, Offset: 0},
		{PieceIndex: 0, Length: 2, Offset: 5},
		{PieceIndex: 0, Length: 2, Offset: 7},
		{PieceIndex: 0, Length: 2, Offset: 9},
		{PieceIndex: 0, Length: 2, Offset: 11},
	}
	if diff := cmp.Diff(want, sol.Patterns[0].Cuts); diff != "" {
		t.Errorf("stock 0 cuts mismatch (-want +got):\n%s", diff)
	}
	assert.Equal(t, 13.0, sol.Patterns[0].Used)
	assert.Equal(t, 0.0, sol.Patterns[0].Leftover)
	assert.Equal(t, 10.0, sol.Patterns[1].Cuts[1].End())

	assert.Empty(t, cmp.Diff([][]int{{4, 1}, {0, 2}}, sol.Assignment))
	assert.Equal(t, 23.0, sol.TotalStock)
	assert.Equal(t, 23.0, sol.TotalUsed)
	assert.Equal(t, 0.0, sol.TotalWaste)
	assert.Equal(t, 100.0, sol.Efficiency())
	assert.Equal(t, "Stock 2", sol.Patterns[1].Stock.Label)
}

func TestInterpret_EqualLengthsKeepPieceOrder(t *testing.T) {
	m, err := BuildModel([]float64{12}, []float64{3, 3}, []int{1, 1})
	require.NoError(t, err)

	sol, err := Interpret(m, []int{1, 3}, 0, 1e-9)
	require.NoError(t, err)

	var order []int
	for _, c := range sol.Patterns[0].Cuts {
		order = append(order, c.PieceIndex)
	}
	assert.Equal(t, []int{0, 1, 1, 1}, order)
}

func TestInterpret_ObjectiveMismatch(t *testing.T) {
	m, err := BuildModel([]float64{13}, []float64{5}, []int{2})
	require.NoError(t, err)

	_, err = Interpret(m, []int{2}, 2.5, 1e-7)
	require.Error(t, err)
	var ni *model.NumericalInstabilityError
	require.ErrorAs(t, err, &ni)
	assert.Contains(t, ni.Detail, "disagrees")
}

func TestInterpret_RejectsBrokenAssignment(t *testing.T) {
	m, err := BuildModel([]float64{13}, []float64{5}, []int{2})
	require.NoError(t, err)

	_, err = Interpret(m, []int{1}, 8, 1e-7)
	var ni *model.NumericalInstabilityError
	require.ErrorAs(t, err, &ni)
	assert.Contains(t, ni.Detail, "demand unmet")
}

func TestApplyLabels(t *testing.T) {
	m, err := BuildModel([]float64{10}, []float64{4}, []int{1})
	require.NoError(t, err)
	sol, err := Interpret(m, []int{2}, 2, 1e-9)
	require.NoError(t, err)

	stocks := []model.StockUnit{model.NewStockUnit("Rail", 10)}
	pieces := []model.PieceType{model.NewPieceType("Post", 4, 1)}
	ApplyLabels(sol, stocks, pieces)

	assert.Equal(t, stocks[0], sol.Patterns[0].Stock)
	assert.Equal(t, "Post", sol.Patterns[0].Cuts[1].Label)

	ApplyLabels(nil, stocks, pieces)
}
