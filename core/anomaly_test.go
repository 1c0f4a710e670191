package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tephralab/plume/grid"
)

// TestBaselineAnomaly verifies that each member's own pre-eruption mean is
// subtracted from every time step, including the baseline window itself.
func TestBaselineAnomaly(t *testing.T) {
	values := [][]float64{
		{1, 3, 10, 20},
		{2, 4, 10, 20},
	}
	field := newTestEnsemble(t, []int{1, 2}, 4, func(mi, ti int) float64 {
		return values[mi][ti]
	})

	anom, err := BaselineAnomaly(field, 2, 2)
	require.NoError(t, err)

	// Member baselines are 2 and 3
	wantFirst := []float64{-1, 1, 8, 18}
	wantSecond := []float64{-1, 1, 7, 17}
	for ti := 0; ti < 4; ti++ {
		assert.InDelta(t, wantFirst[ti], anom.Value(0, ti, 0, 0), 1e-12)
		assert.InDelta(t, wantSecond[ti], anom.Value(1, ti, 3, 4), 1e-12)
	}

	// The input field stays untouched
	assert.InDelta(t, 1.0, field.Value(0, 0, 0, 0), 1e-12)
}

// TestBaselineAnomalyWindowErrors covers degenerate baseline windows.
func TestBaselineAnomalyWindowErrors(t *testing.T) {
	field := newTestEnsemble(t, []int{1}, 4, func(mi, ti int) float64 { return 1 })

	tests := []struct {
		name    string
		idx     int
		pre     int
		errText string
	}{
		{name: "zero width", idx: 2, pre: 0, errText: "at least one month"},
		{name: "starts before record", idx: 1, pre: 2, errText: "outside"},
		{name: "ends after record", idx: 5, pre: 2, errText: "outside"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := BaselineAnomaly(field, tt.idx, tt.pre)
			assert.Error(t, err)
			assert.Contains(t, err.Error(), tt.errText)
		})
	}
}

// TestMonthlyClimatology averages a two-year control run where the second
// year runs 2 warmer, so every monthly mean is the month number plus 1.
func TestMonthlyClimatology(t *testing.T) {
	control := newControlField(t, 24, func(ti int) float64 {
		return float64(ti%12+1) + 2*float64(ti/12)
	})

	clim, err := MonthlyClimatology(control)
	require.NoError(t, err)

	assert.InDelta(t, 2.0, clim.Value(time.January, 0, 0), 1e-12)
	assert.InDelta(t, 4.0, clim.Value(time.March, 3, 4), 1e-12)
	assert.InDelta(t, 13.0, clim.Value(time.December, 6, 5), 1e-12)
}

// TestMonthlyClimatologyErrors covers ensembles and incomplete years.
func TestMonthlyClimatologyErrors(t *testing.T) {
	// Control runs never carry members
	ensemble := newTestEnsemble(t, []int{1}, 12, func(mi, ti int) float64 { return 0 })
	_, err := MonthlyClimatology(ensemble)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "member dimension")

	// Eleven months starting in January leave December uncovered
	short := newControlField(t, 11, func(ti int) float64 { return 0 })
	_, err = MonthlyClimatology(short)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "December")
}

// TestSubtractClimatology removes the matching calendar-month mean from a
// field that holds 10 everywhere.
func TestSubtractClimatology(t *testing.T) {
	control := newControlField(t, 12, func(ti int) float64 { return float64(ti + 1) })
	clim, err := MonthlyClimatology(control)
	require.NoError(t, err)

	field := newTestEnsemble(t, []int{1}, 4, func(mi, ti int) float64 { return 10 })
	anom, err := SubtractClimatology(field, clim)
	require.NoError(t, err)

	// January through April climatologies are 1 through 4
	for ti := 0; ti < 4; ti++ {
		assert.InDelta(t, 10-float64(ti+1), anom.Value(0, ti, 2, 3), 1e-12)
	}
}

// TestSubtractClimatologyGridMismatch rejects control runs on a different grid.
func TestSubtractClimatologyGridMismatch(t *testing.T) {
	control := newControlField(t, 12, func(ti int) float64 { return 0 })
	clim, err := MonthlyClimatology(control)
	require.NoError(t, err)

	times := grid.MonthsFrom(1255, time.January, 3)

	// Different grid shape
	coarse, err := grid.NewField([]int{1}, times, []float64{-10, 10}, []float64{100, 200})
	require.NoError(t, err)
	_, err = SubtractClimatology(coarse, clim)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "does not match")

	// Same shape, shifted latitudes
	shifted := make([]float64, len(testLats))
	for i, lat := range testLats {
		shifted[i] = lat + 1
	}
	offGrid, err := grid.NewField([]int{1}, times, shifted, testLons)
	require.NoError(t, err)
	_, err = SubtractClimatology(offGrid, clim)
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "latitude")
}
