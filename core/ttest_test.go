package core

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/internal/iocache"
)

// TestWelchTTest checks the statistic against hand-computed cases.
func TestWelchTTest(t *testing.T) {
	tests := []struct {
		name      string
		a         []float64
		b         []float64
		expectedT float64
		expectedP float64
	}{
		{
			name:      "shifted samples",
			a:         []float64{1, 2, 3, 4, 5},
			b:         []float64{2, 3, 4, 5, 6},
			expectedT: -1.0,
			expectedP: 0.3466,
		},
		{
			name:      "well separated pairs",
			a:         []float64{0.9, 1.1},
			b:         []float64{1.9, 2.1},
			expectedT: -7.0710678,
			expectedP: 0.0194,
		},
		{
			name:      "identical samples",
			a:         []float64{1, 2, 3},
			b:         []float64{1, 2, 3},
			expectedT: 0.0,
			expectedP: 1.0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tStat, p := welchTTest(tt.a, tt.b)
			assert.InDelta(t, tt.expectedT, tStat, 1e-6)
			assert.InDelta(t, tt.expectedP, p, 0.001)
		})
	}
}

// newShiftedEnsemble builds a two-member ensemble with a zero pre-eruption
// baseline and a constant post-eruption level, spread 0.1 across members.
func newShiftedEnsemble(t *testing.T, level float64) *grid.Field {
	t.Helper()
	return newTestEnsemble(t, []int{1, 2}, 48, func(mi, ti int) float64 {
		if ti < 12 {
			return 0
		}
		return level + []float64{-0.1, 0.1}[mi]
	})
}

func TestRunTTestCore_Success(t *testing.T) {
	ctx := withHeadersSuppressed(context.Background())
	cfg := testConfig("A", "B", "C")
	cfg.Members = []int{1, 2}

	mockLoader := &contract.MockEnsembleLoader{}
	mockMgr := &iocache.MockCacheManager{}

	// Setup mock expectations
	mockMgr.On("GetEnsembleStore").Return(nil) // No caching for test
	mockLoader.On("LoadEnsemble", ctx, "A", []int{1, 2}, "TS").Return(newShiftedEnsemble(t, 1), nil)
	mockLoader.On("LoadEnsemble", ctx, "B", []int{1, 2}, "TS").Return(newShiftedEnsemble(t, 2), nil)
	mockLoader.On("LoadEnsemble", ctx, "C", []int{1, 2}, "TS").Return(newShiftedEnsemble(t, 2), nil)

	result, err := runTTestCore(ctx, cfg, mockLoader, mockMgr)
	require.NoError(t, err)

	// Pairs come out in input order
	require.Len(t, result.Pairs, 3)
	assert.Equal(t, "A vs B", result.Pairs[0].Label())
	assert.Equal(t, "A vs C", result.Pairs[1].Label())
	assert.Equal(t, "B vs C", result.Pairs[2].Label())

	first := result.Pairs[0]
	require.Len(t, first.Samples, 24)
	assert.Equal(t, 0, first.Samples[0].Step)
	assert.Equal(t, "1256-01", first.Samples[0].Month)

	// Anomaly levels 1 and 2 with spread 0.1 in samples of two
	sample := first.Samples[0]
	assert.InDelta(t, -7.0710678, sample.GlobalT, 1e-6)
	assert.InDelta(t, 0.0194, sample.GlobalP, 0.001)

	// Spatially uniform fields give the same statistic on the Nino 3.4 box
	assert.InDelta(t, sample.GlobalT, sample.Nino34T, 1e-9)
	assert.InDelta(t, sample.GlobalP, sample.Nino34P, 1e-9)

	// B and C are identically distributed
	last := result.Pairs[2].Samples[5]
	assert.InDelta(t, 0.0, last.GlobalT, 1e-12)
	assert.InDelta(t, 1.0, last.GlobalP, 1e-12)

	mockLoader.AssertExpectations(t)
	mockMgr.AssertExpectations(t)
}

func TestRunTTestCore_SeasonFilter(t *testing.T) {
	ctx := withHeadersSuppressed(context.Background())
	cfg := testConfig("A", "B")
	cfg.Members = []int{1, 2}
	cfg.Season = "djf"

	mockLoader := &contract.MockEnsembleLoader{}
	mockMgr := &iocache.MockCacheManager{}

	// Setup mock expectations
	mockMgr.On("GetEnsembleStore").Return(nil) // No caching for test
	mockLoader.On("LoadEnsemble", ctx, "A", []int{1, 2}, "TS").Return(newShiftedEnsemble(t, 1), nil)
	mockLoader.On("LoadEnsemble", ctx, "B", []int{1, 2}, "TS").Return(newShiftedEnsemble(t, 2), nil)

	result, err := runTTestCore(ctx, cfg, mockLoader, mockMgr)
	require.NoError(t, err)

	assert.Equal(t, "djf", result.Season)
	require.Len(t, result.Pairs, 1)

	// The post-eruption window 1256-01 through 1257-12 has six DJF months
	samples := result.Pairs[0].Samples
	require.Len(t, samples, 6)
	assert.Equal(t, "1256-01", samples[0].Month)
	assert.Equal(t, "1256-02", samples[1].Month)
	assert.Equal(t, "1256-12", samples[2].Month)
	assert.Equal(t, "1257-12", samples[5].Month)
}

func TestRunTTestCore_TooFewScenarios(t *testing.T) {
	ctx := withHeadersSuppressed(context.Background())
	cfg := testConfig("A")

	mockLoader := &contract.MockEnsembleLoader{}
	mockMgr := &iocache.MockCacheManager{}

	_, err := runTTestCore(ctx, cfg, mockLoader, mockMgr)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least two scenarios")
}

func TestRunTTestCore_LoadFailure(t *testing.T) {
	ctx := withHeadersSuppressed(context.Background())
	cfg := testConfig("A", "B")
	cfg.Members = []int{1, 2}

	mockLoader := &contract.MockEnsembleLoader{}
	mockMgr := &iocache.MockCacheManager{}

	// Setup mock expectations - first scenario fails to load
	mockMgr.On("GetEnsembleStore").Return(nil)
	mockLoader.On("LoadEnsemble", ctx, "A", []int{1, 2}, "TS").Return(nil, assert.AnError)

	_, err := runTTestCore(ctx, cfg, mockLoader, mockMgr)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scenario A")
	mockLoader.AssertNotCalled(t, "LoadEnsemble", mock.Anything, "B", mock.Anything, mock.Anything)
}
