package core

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/internal/iocache"
	"github.com/tephralab/plume/schema"
)

// Reduced test grid with exactly one cell in each ENSO box: the equator
// row paired with longitude 240 lands in Nino 3 and Nino 3.4, longitude
// 180 in Nino 4.
var (
	testLats = []float64{-90, -60, -30, 0, 30, 60, 90}
	testLons = []float64{0, 60, 120, 180, 240, 300}
)

// newTestEnsemble builds a spatially uniform ensemble on the test grid
// where every cell of member mi at time step ti holds value(mi, ti).
// Time starts at model month 1255-01.
func newTestEnsemble(t *testing.T, members []int, n int, value func(mi, ti int) float64) *grid.Field {
	t.Helper()
	times := grid.MonthsFrom(1255, time.January, n)
	field, err := grid.NewField(members, times, testLats, testLons)
	require.NoError(t, err)
	for mi := range members {
		for ti := 0; ti < n; ti++ {
			v := value(mi, ti)
			for y := range testLats {
				for x := range testLons {
					field.SetValue(v, mi, ti, y, x)
				}
			}
		}
	}
	return field
}

// newControlField builds a member-less field holding value(ti) at every cell.
func newControlField(t *testing.T, n int, value func(ti int) float64) *grid.Field {
	t.Helper()
	times := grid.MonthsFrom(1255, time.January, n)
	field, err := grid.NewField(nil, times, testLats, testLons)
	require.NoError(t, err)
	for ti := 0; ti < n; ti++ {
		v := value(ti)
		for y := range testLats {
			for x := range testLons {
				field.SetValue(v, 0, ti, y, x)
			}
		}
	}
	return field
}

// testConfig returns a config with the standard test windows: eruption at
// step 12, one year of baseline, two years of response.
func testConfig(onsets ...string) *contract.Config {
	return &contract.Config{
		BasePath:      "/data/runs",
		Variable:      "TS",
		Members:       []int{1, 2, 3},
		Onsets:        onsets,
		PreMonths:     12,
		PostMonths:    24,
		Threshold:     1.0,
		EruptionIndex: 12,
		Output:        schema.TextOut,
		Precision:     4,
	}
}

// TestExecuteComposite tests the main composite entry point.
func TestExecuteComposite(t *testing.T) {
	ctx := context.Background()

	// Create mock cache manager
	mockCacheMgr := &iocache.MockCacheManager{}
	mockCacheMgr.On("GetEnsembleStore").Return(nil) // No caching for test
	mockCacheMgr.On("GetRunStore").Return(nil)      // No run tracking for test

	// Create config - this will fail because no model output exists there
	cfg := testConfig("January_1x")
	cfg.BasePath = "/nonexistent/runs"

	// Execute - should fail due to non-existent base path
	err := ExecuteComposite(ctx, cfg, mockCacheMgr)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scenario January_1x")

	// Verify mocks were called
	mockCacheMgr.AssertExpectations(t)
}

// TestExecutePhases tests the main phase classification entry point.
func TestExecutePhases(t *testing.T) {
	ctx := context.Background()

	// Create mock cache manager
	mockCacheMgr := &iocache.MockCacheManager{}
	mockCacheMgr.On("GetEnsembleStore").Return(nil) // No caching for test

	// Create config - this will fail because no model output exists there
	cfg := testConfig("January_1x")
	cfg.BasePath = "/nonexistent/runs"

	// Execute - should fail due to non-existent base path
	err := ExecutePhases(ctx, cfg, mockCacheMgr)

	assert.Error(t, err)
	mockCacheMgr.AssertExpectations(t)
}

// TestExecuteTTest tests the main pairwise test entry point.
func TestExecuteTTest(t *testing.T) {
	ctx := context.Background()

	// Create mock cache manager
	mockCacheMgr := &iocache.MockCacheManager{}
	mockCacheMgr.On("GetEnsembleStore").Return(nil) // No caching for test

	// Create config - this will fail because no model output exists there
	cfg := testConfig("January_1x", "April_1x")
	cfg.BasePath = "/nonexistent/runs"

	// Execute - should fail due to non-existent base path
	err := ExecuteTTest(ctx, cfg, mockCacheMgr)

	assert.Error(t, err)
	mockCacheMgr.AssertExpectations(t)
}

// TestExecuteTTestTooFewScenarios verifies the scenario count check fires
// before any file access.
func TestExecuteTTestTooFewScenarios(t *testing.T) {
	ctx := context.Background()
	mockCacheMgr := &iocache.MockCacheManager{}

	cfg := testConfig("January_1x")
	cfg.BasePath = "/nonexistent/runs"

	err := ExecuteTTest(ctx, cfg, mockCacheMgr)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "at least two scenarios")
}

// TestExecutePack tests the ensemble packing entry point.
func TestExecutePack(t *testing.T) {
	ctx := context.Background()
	mockCacheMgr := &iocache.MockCacheManager{}

	// Create config - this will fail because no member files exist there
	cfg := testConfig("January_1x")
	cfg.BasePath = "/nonexistent/runs"

	err := ExecutePack(ctx, cfg, mockCacheMgr)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "scenario January_1x")
}

// TestExecutePackSuffixNeedsOneScenario verifies the suffix flag rejects
// multiple scenarios.
func TestExecutePackSuffixNeedsOneScenario(t *testing.T) {
	ctx := context.Background()
	mockCacheMgr := &iocache.MockCacheManager{}

	cfg := testConfig("January_1x", "April_1x")
	cfg.Suffix = "_all"

	err := ExecutePack(ctx, cfg, mockCacheMgr)

	assert.Error(t, err)
	assert.Contains(t, err.Error(), "exactly one onset scenario")
}

// TestExecuteRegions tests the static region listing entry point.
func TestExecuteRegions(t *testing.T) {
	ctx := context.Background()
	mockCacheMgr := &iocache.MockCacheManager{}

	cfg := testConfig()

	err := ExecuteRegions(ctx, cfg, mockCacheMgr)

	assert.NoError(t, err)
}
