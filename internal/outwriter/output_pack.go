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

// PrintPackResults outputs the packing results, dispatching based on the output format configured.
func PrintPackResults(results []schema.PackResult, cfg *contract.Config, duration time.Duration) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForPack(results, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForPack(results, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := printPackTable(results, cfg, duration); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForPack handles opening the file and calling the JSON writer.
func printJSONResultsForPack(results []schema.PackResult, cfg *contract.Config) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writeJSON(w, results)
	}, "Wrote JSON")
}

// printCSVResultsForPack handles opening the file and calling the CSV writer.
func printCSVResultsForPack(results []schema.PackResult, cfg *contract.Config) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForPack(csvWriter, results)
	}, "Wrote CSV")
}

// printPackTable handles opening the file and calling the table writer.
func printPackTable(results []schema.PackResult, cfg *contract.Config, duration time.Duration) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writePackTable(w, results, cfg, duration)
	}, "Wrote table")
}

// writePackTable generates and writes the human-readable packing table.
func writePackTable(w io.Writer, results []schema.PackResult, cfg *contract.Config, duration time.Duration) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Scenario", "Variable", "Members", "Times", "Lats", "Lons", "Output"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	for _, r := range results {
		row := []string{
			r.Scenario,                // Scenario
			r.Variable,                // Variable
			strconv.Itoa(r.Members),   // Ensemble members
			strconv.Itoa(r.TimeSteps), // Time steps
			strconv.Itoa(r.LatPoints), // Latitude points
			strconv.Itoa(r.LonPoints), // Longitude points
			contract.TruncatePath(r.OutputPath, getMaxTableLabelWidth(cfg)), // Output file
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	if err := table.Render(); err != nil {
		return err
	}
	if _, err := fmt.Fprintf(w, "Packed %d ensembles in %v\n", len(results), duration); err != nil {
		return err
	}
	return nil
}

// writeCSVResultsForPack writes the packing results to a CSV writer.
func writeCSVResultsForPack(w *csv.Writer, results []schema.PackResult) error {
	// 1. Write Header Row
	header := []string{
		"scenario",
		"variable",
		"members",
		"time_steps",
		"lat_points",
		"lon_points",
		"output_path",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, r := range results {
		row := []string{
			r.Scenario,                // Scenario
			r.Variable,                // Variable
			strconv.Itoa(r.Members),   // Ensemble members
			strconv.Itoa(r.TimeSteps), // Time steps
			strconv.Itoa(r.LatPoints), // Latitude points
			strconv.Itoa(r.LonPoints), // Longitude points
			r.OutputPath,              // Output file
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
