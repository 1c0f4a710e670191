package outwriter

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"

	"github.com/montanaflynn/stats"

	"github.com/tephralab/plume/grid"
	"github.com/tephralab/plume/schema"
)

// compositeSeries collapses one composite field into its global mean series.
func compositeSeries(field *grid.Field) ([]grid.Month, []float64, error) {
	series, err := field.AreaMean()
	if err != nil {
		return nil, nil, err
	}
	return series.Times, series.MemberValues(0), nil
}

// summarizeComposite reduces a global mean series to its time mean and its
// largest-magnitude value. The peak keeps its sign.
func summarizeComposite(values []float64) (mean, peak float64, err error) {
	if mean, err = stats.Mean(values); err != nil {
		return 0, 0, err
	}
	for _, v := range values {
		if math.Abs(v) > math.Abs(peak) {
			peak = v
		}
	}
	return mean, peak, nil
}

// writeJSONResultsForComposites marshals the composite sets with their global
// mean series to JSON and writes it.
func writeJSONResultsForComposites(w io.Writer, result *schema.AnalysisResult) error {
	// 1. Prepare the data structure for JSON with the monthly series added
	type JSONComposite struct {
		Scenario   string    `json:"scenario"`
		Phase      string    `json:"phase"`
		Members    int       `json:"members"`
		Months     []string  `json:"months"`
		GlobalMean []float64 `json:"global_mean"`
	}

	type JSONAnalysisResult struct {
		Variable   string          `json:"variable"`
		Scenarios  []string        `json:"scenarios"`
		Composites []JSONComposite `json:"composites"`
	}

	output := JSONAnalysisResult{
		Variable:  result.Variable,
		Scenarios: result.Scenarios,
	}
	for _, scenario := range result.Scenarios {
		set := result.Sets[scenario]
		for _, phase := range set.Phases {
			months, values, err := compositeSeries(set.Fields[phase])
			if err != nil {
				return err
			}
			labels := make([]string, len(months))
			for i, m := range months {
				labels[i] = m.String()
			}
			output.Composites = append(output.Composites, JSONComposite{
				Scenario:   scenario,
				Phase:      string(phase),
				Members:    set.Counts[phase],
				Months:     labels,
				GlobalMean: values,
			})
		}
	}

	return writeJSON(w, output)
}

// writeCSVResultsForComposites writes the full composite series to a CSV
// writer, one row per scenario, phase and month.
func writeCSVResultsForComposites(w *csv.Writer, result *schema.AnalysisResult, fmtFloat func(float64) string) error {
	// CSV header
	header := []string{
		"scenario",
		"phase",
		"members",
		"step",
		"month",
		"global_mean",
	}
	if err := w.Write(header); err != nil {
		return err
	}
	for _, scenario := range result.Scenarios {
		set := result.Sets[scenario]
		for _, phase := range set.Phases {
			months, values, err := compositeSeries(set.Fields[phase])
			if err != nil {
				return err
			}
			for t, v := range values {
				rec := []string{
					scenario,                        // Scenario
					string(phase),                   // Phase
					strconv.Itoa(set.Counts[phase]), // Members
					strconv.Itoa(t),                 // Post-eruption step
					months[t].String(),              // Model calendar month
					fmtFloat(v),                     // Global mean anomaly
				}
				if err := w.Write(rec); err != nil {
					return err
				}
			}
		}
	}
	return nil
}
