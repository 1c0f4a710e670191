package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// PrintAnalysisResult outputs the composite analysis, dispatching based on the output format configured.
func PrintAnalysisResult(result *schema.AnalysisResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForComposites(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForComposites(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Anything else, parquet included, renders as the text table
		if err := printCompositeTable(result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForComposites handles opening the file and calling the JSON writer.
func printJSONResultsForComposites(result *schema.AnalysisResult, cfg *contract.Config) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writeJSONResultsForComposites(w, result)
	}, "Wrote JSON")
}

// printCSVResultsForComposites handles opening the file and calling the CSV writer.
func printCSVResultsForComposites(result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForComposites(csvWriter, result, fmtFloat)
	}, "Wrote CSV")
}

// printCompositeTable handles opening the file and calling the table writer.
func printCompositeTable(result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writeCompositeTable(w, result, cfg, fmtFloat, duration)
	}, "Wrote table")
}

// writeCompositeTable generates and writes the human-readable table, one row
// per scenario and phase with the time mean and peak of the global anomaly.
func writeCompositeTable(w io.Writer, result *schema.AnalysisResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Scenario", "Phase", "Members", "Mean", "Peak"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	totalMembers := 0
	for _, scenario := range result.Scenarios {
		set := result.Sets[scenario]
		for _, phase := range set.Phases {
			_, values, err := compositeSeries(set.Fields[phase])
			if err != nil {
				return err
			}
			mean, peak, err := summarizeComposite(values)
			if err != nil {
				return err
			}
			row := []string{
				contract.TruncatePath(scenario, getMaxTableLabelWidth(cfg)), // Scenario
				formatPhase(phase, cfg),         // Phase
				strconv.Itoa(set.Counts[phase]), // Members
				fmtFloat(mean),                  // Mean anomaly
				fmtFloat(peak),                  // Peak anomaly
			}
			data = append(data, row)
			totalMembers += set.Counts[phase]
		}
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Compute summary stats
	if _, err := fmt.Fprintf(w, "Showing %s composites for %d scenarios (%d classified members)\n", result.Variable, len(result.Scenarios), totalMembers); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Analysis completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
