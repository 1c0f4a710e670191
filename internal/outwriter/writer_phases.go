package outwriter

import (
	"encoding/csv"
	"io"
	"strconv"

	"github.com/tephralab/plume/schema"
)

// writeJSONResultsForPhases marshals the schema.PhaseResult to JSON and writes it.
func writeJSONResultsForPhases(w io.Writer, result *schema.PhaseResult) error {
	return writeJSON(w, result)
}

// writeCSVResultsForPhases writes the per-member classifications to a CSV writer.
func writeCSVResultsForPhases(w *csv.Writer, result *schema.PhaseResult, fmtFloat func(float64) string) error {
	// 1. Write Header Row
	header := []string{
		"scenario",
		"member",
		"mean",
		"std",
		"phase",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, scenario := range result.Scenarios {
		summary := result.Summaries[scenario]
		for _, member := range summary.Members {
			row := []string{
				scenario,                    // Scenario
				strconv.Itoa(member.Member), // Member ID
				fmtFloat(member.Mean),       // Nino 3.4 mean
				fmtFloat(member.Std),        // Population std
				string(member.Phase),        // Phase
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	return nil
}
