package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// writeJSONResultsForTTest marshals the schema.TTestResult to JSON and writes it.
func writeJSONResultsForTTest(w io.Writer, result *schema.TTestResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForTTest writes the pairwise test series to a CSV writer,
// one row per scenario pair and month.
func writeCSVResultsForTTest(w *csv.Writer, result *schema.TTestResult, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"first",
		"second",
		"step",
		"month",
		"global_t",
		"global_p",
		"global_label",
		"nino34_t",
		"nino34_p",
		"nino34_label",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, pair := range result.Pairs {
		for _, sample := range pair.Samples {
			row := []string{
				pair.First,                             // First scenario
				pair.Second,                            // Second scenario
				strconv.Itoa(sample.Step),              // Post-eruption step
				sample.Month,                           // Model calendar month
				fmtFloat(sample.GlobalT),               // Global t statistic
				fmtFloat(sample.GlobalP),               // Global p-value
				contract.GetPlainLabel(sample.GlobalP), // Global significance
				fmtFloat(sample.Nino34T),               // Nino 3.4 t statistic
				fmtFloat(sample.Nino34P),               // Nino 3.4 p-value
				contract.GetPlainLabel(sample.Nino34P), // Nino 3.4 significance
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
