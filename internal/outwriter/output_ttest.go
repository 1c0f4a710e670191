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

// PrintTTestResult outputs the pairwise test series, dispatching based on the output format configured.
func PrintTTestResult(result *schema.TTestResult, cfg *contract.Config, duration time.Duration) error {
	fmtFloat := floatFormatter(cfg.Precision)

	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForTTest(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForTTest(result, cfg, fmtFloat); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		// Text table fallback
		if err := printTTestTable(result, cfg, fmtFloat, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForTTest handles opening the file and calling the JSON writer.
func printJSONResultsForTTest(result *schema.TTestResult, cfg *contract.Config) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writeJSONResultsForTTest(w, result)
	}, "Wrote JSON")
}

// printCSVResultsForTTest handles opening the file and calling the CSV writer.
func printCSVResultsForTTest(result *schema.TTestResult, cfg *contract.Config, fmtFloat func(float64) string) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForTTest(csvWriter, result, fmtFloat)
	}, "Wrote CSV")
}

// printTTestTable handles opening the file and calling the table writer.
func printTTestTable(result *schema.TTestResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writeTTestTable(w, result, cfg, fmtFloat, duration)
	}, "Wrote table")
}

// writeTTestTable generates and writes the per-month significance table.
func writeTTestTable(w io.Writer, result *schema.TTestResult, cfg *contract.Config, fmtFloat func(float64) string, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Pair", "Step", "Month", "Global T", "Global P", "Global Sig", "Nino34 T", "Nino34 P", "Nino34 Sig"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	for _, pair := range result.Pairs {
		label := contract.TruncatePath(pair.Label(), getMaxTableLabelWidth(cfg))
		for _, sample := range pair.Samples {
			row := []string{
				label,                            // Scenario pair
				strconv.Itoa(sample.Step),        // Post-eruption step
				sample.Month,                     // Model calendar month
				fmtFloat(sample.GlobalT),         // Global t statistic
				fmtFloat(sample.GlobalP),         // Global p-value
				formatLabel(sample.GlobalP, cfg), // Global significance
				fmtFloat(sample.Nino34T),         // Nino 3.4 t statistic
				fmtFloat(sample.Nino34P),         // Nino 3.4 p-value
				formatLabel(sample.Nino34P, cfg), // Nino 3.4 significance
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
	// Compute summary stats
	samples := 0
	if len(result.Pairs) > 0 {
		samples = len(result.Pairs[0].Samples)
	}
	if _, err := fmt.Fprintf(w, "Showing %d scenario pairs with %d samples each\n", len(result.Pairs), samples); err != nil {
		return err
	}
	if result.Season != "" {
		if _, err := fmt.Fprintf(w, "Season filter: %s\n", strings.ToUpper(result.Season)); err != nil {
			return err
		}
	}
	if _, err := fmt.Fprintf(w, "Pairwise testing completed in %v. Cache backend: %s\n", duration, cfg.CacheBackend); err != nil {
		return err
	}
	return nil
}
