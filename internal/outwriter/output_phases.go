package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// PrintPhaseResult outputs the per-member classifications, dispatching based on the output format configured.
func PrintPhaseResult(result *schema.PhaseResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForPhases(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForPhases(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Text table fallback
		if err := printPhaseTable(result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForPhases handles opening the file and calling the JSON writer.
func printJSONResultsForPhases(result *schema.PhaseResult, cfg *contract.Config) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writeJSONResultsForPhases(w, result)
	}, "Wrote JSON")
}

// printCSVResultsForPhases handles opening the file and calling the CSV writer.
func printCSVResultsForPhases(result *schema.PhaseResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForPhases(csvWriter, result, fmtFloat)
	}, "Wrote CSV")
}

// printPhaseTable handles opening the file and calling the table writer.
func printPhaseTable(result *schema.PhaseResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writePhaseTable(w, result, cfg, fmtFloat, duration)
	}, "Wrote table")
}

// writePhaseTable generates and writes the per-member classification table.
func writePhaseTable(w io.Writer, result *schema.PhaseResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Scenario", "Member", "Mean", "Std", "Phase"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	for _, scenario := range result.Scenarios {
		summary := result.Summaries[scenario]
		for _, member := range summary.Members {
			row := []string{
				contract.TruncatePath(scenario, getMaxTableLabelWidth(cfg)), // Scenario
				strconv.Itoa(member.Member),                                 // Member ID
				fmtFloat(member.Mean),                                       // Nino 3.4 mean
				fmtFloat(member.Std),                                        // Population std
				formatPhase(member.Phase, cfg),                              // Phase
			}
			data = append(data, row)
		}
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	// Per-scenario phase counts
	for _, scenario := range result.Scenarios {
		summary := result.Summaries[scenario]
		parts := make([]string, 0, len(schema.AllPhases))
		for _, phase := range schema.AllPhases {
			parts = append(parts, fmt.Sprintf("%s %d", phase, summary.Counts[phase]))
		}
		if _, err := fmt.Fprintf(w, "%s: %s\n", scenario, strings.Join(parts, " | ")); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Threshold: %s standard deviations over %d pre-eruption months\n", fmtFloat(result.Threshold), result.PreMonths); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Phase classification completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
