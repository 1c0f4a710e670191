package outwriter

import (
	"bytes"
	"encoding/csv"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/schema"
)

// newCompositeField builds a member-less field whose cells all hold the
// per-step value, so the global mean series equals values exactly.
func newCompositeField(t *testing.T, values []float64) *grid.Field {
	t.Helper()
	times := grid.MonthsFrom(1256, time.January, len(values))
	field, err := grid.NewField(nil, times, []float64{-5, 0, 5}, []float64{190, 200})
	require.NoError(t, err)
	for ti, v := range values {
		for y := 0; y < field.NumLats(); y++ {
			for x := 0; x < field.NumLons(); x++ {
				field.SetValue(v, 0, ti, y, x)
			}
		}
	}
	return field
}

func newCompositeResult(t *testing.T) *schema.AnalysisResult {
	t.Helper()
	return &schema.AnalysisResult{
		Variable:  "TS",
		Scenarios: []string{"January_1x"},
		Sets: map[string]*schema.CompositeSet{
			"January_1x": {
				Scenario: "January_1x",
				Phases:   []schema.Phase{schema.ElNinoPhase},
				Counts:   map[schema.Phase]int{schema.ElNinoPhase: 2},
				Fields: map[schema.Phase]*grid.Field{
					schema.ElNinoPhase: newCompositeField(t, []float64{1.5, 2.5}),
				},
			},
		},
	}
}

func TestCompositeSeries(t *testing.T) {
	field := newCompositeField(t, []float64{1.5, 2.5})

	months, values, err := compositeSeries(field)
	require.NoError(t, err)
	require.Len(t, months, 2)
	require.Len(t, values, 2)

	assert.Equal(t, "1256-01", months[0].String())
	assert.Equal(t, "1256-02", months[1].String())
	assert.InDelta(t, 1.5, values[0], 1e-9)
	assert.InDelta(t, 2.5, values[1], 1e-9)
}

func TestSummarizeComposite(t *testing.T) {
	tests := []struct {
		name     string
		values   []float64
		wantMean float64
		wantPeak float64
	}{
		{
			name:     "negative peak keeps sign",
			values:   []float64{1, -4, 3},
			wantMean: 0,
			wantPeak: -4,
		},
		{
			name:     "single value",
			values:   []float64{2},
			wantMean: 2,
			wantPeak: 2,
		},
		{
			name:     "positive peak",
			values:   []float64{0.5, 1.5},
			wantMean: 1,
			wantPeak: 1.5,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mean, peak, err := summarizeComposite(tt.values)
			require.NoError(t, err)
			assert.InDelta(t, tt.wantMean, mean, 1e-9)
			assert.InDelta(t, tt.wantPeak, peak, 1e-9)
		})
	}
}

func TestWriteJSONResultsForComposites(t *testing.T) {
	result := newCompositeResult(t)

	var buf bytes.Buffer
	err := writeJSONResultsForComposites(&buf, result)
	require.NoError(t, err)

	var parsed map[string]any
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	assert.Equal(t, "TS", parsed["variable"])
	composites, ok := parsed["composites"].([]any)
	require.True(t, ok)
	require.Len(t, composites, 1)

	entry := composites[0].(map[string]any)
	assert.Equal(t, "January_1x", entry["scenario"])
	assert.Equal(t, "El Nino", entry["phase"])
	assert.Equal(t, float64(2), entry["members"])

	months := entry["months"].([]any)
	require.Len(t, months, 2)
	assert.Equal(t, "1256-01", months[0])

	series := entry["global_mean"].([]any)
	require.Len(t, series, 2)
	assert.InDelta(t, 1.5, series[0].(float64), 1e-9)
	assert.InDelta(t, 2.5, series[1].(float64), 1e-9)
}

func TestWriteCSVResultsForComposites(t *testing.T) {
	fmtFloat := floatFormatter(2)
	result := newCompositeResult(t)

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForComposites(w, result, fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 months

	// Check header
	assert.Contains(t, lines[0], "scenario")
	assert.Contains(t, lines[0], "month")
	assert.Contains(t, lines[0], "global_mean")

	// Check data rows
	assert.Contains(t, lines[1], "January_1x")
	assert.Contains(t, lines[1], "El Nino")
	assert.Contains(t, lines[1], "1256-01")
	assert.Contains(t, lines[1], "1.50")
	assert.Contains(t, lines[2], "1256-02")
	assert.Contains(t, lines[2], "2.50")
}

func TestWriteCSVResultsForCompositesEmpty(t *testing.T) {
	fmtFloat := floatFormatter(2)
	result := &schema.AnalysisResult{Variable: "TS"}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForComposites(w, result, fmtFloat)
	require.NoError(t, err)
	w.Flush()

	// Header row only
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)
	assert.Contains(t, lines[0], "scenario")
}

func TestWriteJSONResultsForPhases(t *testing.T) {
	result := &schema.PhaseResult{
		Threshold: 1.0,
		PreMonths: 12,
		Scenarios: []string{"January_1x"},
		Summaries: map[string]*schema.PhaseSummary{
			"January_1x": {
				Scenario: "January_1x",
				Members: []schema.MemberPhase{
					{Member: 1, Mean: 0.8, Std: 0.4, Phase: schema.ElNinoPhase},
				},
				Counts: map[schema.Phase]int{schema.ElNinoPhase: 1},
			},
		},
	}

	var buf bytes.Buffer
	err := writeJSONResultsForPhases(&buf, result)
	require.NoError(t, err)

	var parsed map[string]any
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	assert.Equal(t, 1.0, parsed["threshold"])
	assert.Equal(t, float64(12), parsed["pre_months"])
	assert.Contains(t, parsed, "summaries")
}

func TestWriteCSVResultsForPhases(t *testing.T) {
	fmtFloat := floatFormatter(2)
	result := &schema.PhaseResult{
		Threshold: 1.0,
		PreMonths: 12,
		Scenarios: []string{"January_1x"},
		Summaries: map[string]*schema.PhaseSummary{
			"January_1x": {
				Scenario: "January_1x",
				Members: []schema.MemberPhase{
					{Member: 1, Mean: 0.8, Std: 0.4, Phase: schema.ElNinoPhase},
					{Member: 2, Mean: -0.1, Std: 0.5, Phase: schema.NeutralPhase},
				},
				Counts: map[schema.Phase]int{schema.ElNinoPhase: 1, schema.NeutralPhase: 1},
			},
		},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForPhases(w, result, fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 3) // header + 2 members

	assert.Contains(t, lines[0], "member")
	assert.Contains(t, lines[0], "phase")
	assert.Contains(t, lines[1], "January_1x")
	assert.Contains(t, lines[1], "0.80")
	assert.Contains(t, lines[1], "El Nino")
	assert.Contains(t, lines[2], "Neutral")
}

func TestWriteJSONResultsForTTest(t *testing.T) {
	result := &schema.TTestResult{
		Scenarios: []string{"January_1x", "July_1x"},
		Pairs: []schema.PairStats{
			{
				First:  "January_1x",
				Second: "July_1x",
				Samples: []schema.PairSample{
					{Step: 0, Month: "1257-01", GlobalT: -2.5, GlobalP: 0.005, Nino34T: -1.2, Nino34P: 0.25},
				},
			},
		},
	}

	var buf bytes.Buffer
	err := writeJSONResultsForTTest(&buf, result)
	require.NoError(t, err)

	var parsed map[string]any
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	pairs, ok := parsed["pairs"].([]any)
	require.True(t, ok)
	require.Len(t, pairs, 1)

	pair := pairs[0].(map[string]any)
	assert.Equal(t, "January_1x", pair["first"])
	assert.Equal(t, "July_1x", pair["second"])

	samples := pair["samples"].([]any)
	require.Len(t, samples, 1)
	sample := samples[0].(map[string]any)
	assert.Equal(t, "1257-01", sample["month"])
	assert.InDelta(t, 0.005, sample["global_p"].(float64), 1e-9)
}

func TestWriteCSVResultsForTTest(t *testing.T) {
	fmtFloat := floatFormatter(4)
	result := &schema.TTestResult{
		Scenarios: []string{"January_1x", "July_1x"},
		Pairs: []schema.PairStats{
			{
				First:  "January_1x",
				Second: "July_1x",
				Samples: []schema.PairSample{
					{Step: 0, Month: "1257-01", GlobalT: -2.5, GlobalP: 0.005, Nino34T: -1.2, Nino34P: 0.25},
				},
			},
		},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForTTest(w, result, fmtFloat)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "global_t")
	assert.Contains(t, lines[0], "nino34_label")
	assert.Contains(t, lines[1], "1257-01")
	assert.Contains(t, lines[1], "-2.5000")
	assert.Contains(t, lines[1], "Strong") // p = 0.005
	assert.Contains(t, lines[1], "None")   // p = 0.25
}

func TestWriteJSONResultsForPack(t *testing.T) {
	results := []schema.PackResult{
		{
			Scenario:   "January_1x",
			Variable:   "TS",
			Members:    10,
			OutputPath: "/data/runs/TS_January_1x.nc",
			TimeSteps:  48,
			LatPoints:  96,
			LonPoints:  144,
		},
	}

	var buf bytes.Buffer
	err := writeJSON(&buf, results)
	require.NoError(t, err)

	var parsed []map[string]any
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)
	require.Len(t, parsed, 1)

	assert.Equal(t, "January_1x", parsed[0]["scenario"])
	assert.Equal(t, float64(10), parsed[0]["members"])
	assert.Equal(t, float64(48), parsed[0]["time_steps"])
}

func TestWriteCSVResultsForPack(t *testing.T) {
	results := []schema.PackResult{
		{
			Scenario:   "January_1x",
			Variable:   "TS",
			Members:    10,
			OutputPath: "/data/runs/TS_January_1x.nc",
			TimeSteps:  48,
			LatPoints:  96,
			LonPoints:  144,
		},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForPack(w, results)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "time_steps")
	assert.Contains(t, lines[0], "output_path")
	assert.Contains(t, lines[1], "January_1x")
	assert.Contains(t, lines[1], "48")
	assert.Contains(t, lines[1], "/data/runs/TS_January_1x.nc")
}

func TestWriteCSVResultsForRegions(t *testing.T) {
	result := &schema.RegionResult{
		Regions: []schema.RegionInfo{
			{
				Name:        "Nino 3.4",
				Bounds:      grid.Box{LatMin: -5, LatMax: 5, LonMin: 190, LonMax: 240},
				Description: "Central equatorial Pacific, primary ENSO index",
			},
		},
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	err := writeCSVResultsForRegions(w, result)
	require.NoError(t, err)
	w.Flush()

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 2)

	assert.Contains(t, lines[0], "lat_min")
	assert.Contains(t, lines[0], "description")
	assert.Contains(t, lines[1], "Nino 3.4")
	assert.Contains(t, lines[1], "190")
	assert.Contains(t, lines[1], "240")
}

func TestWriteJSONResultsForRegions(t *testing.T) {
	result := &schema.RegionResult{
		Regions: []schema.RegionInfo{
			{
				Name:        "Nino 3",
				Bounds:      grid.Box{LatMin: -5, LatMax: 5, LonMin: 210, LonMax: 270},
				Description: "Eastern equatorial Pacific",
			},
		},
	}

	var buf bytes.Buffer
	err := writeJSON(&buf, result)
	require.NoError(t, err)

	var parsed map[string]any
	err = json.Unmarshal(buf.Bytes(), &parsed)
	require.NoError(t, err)

	regions := parsed["regions"].([]any)
	require.Len(t, regions, 1)
	region := regions[0].(map[string]any)
	assert.Equal(t, "Nino 3", region["name"])

	bounds := region["bounds"].(map[string]any)
	assert.Equal(t, float64(210), bounds["lon_min"])
	assert.Equal(t, float64(270), bounds["lon_max"])
}
