package outwriter

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/olekukonko/tablewriter"
	"github.com/olekukonko/tablewriter/tw"

	"github.com/tephralab/plume/internal/contract"
	"github.com/tephralab/plume/schema"
)

// PrintRegionResult displays the fixed index regions, dispatching based on the
// output format configured. This is a static display that does not require
// model output.
func PrintRegionResult(result *schema.RegionResult, cfg *contract.Config) error {
	switch cfg.Output {
	case schema.JSONOut:
		if err := printJSONResultsForRegions(result, cfg); err != nil {
			return fmt.Errorf("error writing JSON output: %w", err)
		}
	case schema.CSVOut:
		if err := printCSVResultsForRegions(result, cfg); err != nil {
			return fmt.Errorf("error writing CSV output: %w", err)
		}
	default:
		if err := printRegionTable(result, cfg); err != nil {
			return fmt.Errorf("error writing table output: %w", err)
		}
	}
	return nil
}

// printJSONResultsForRegions handles opening the file and calling the JSON writer.
func printJSONResultsForRegions(result *schema.RegionResult, cfg *contract.Config) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writeJSON(w, result)
	}, "Wrote JSON")
}

// printCSVResultsForRegions handles opening the file and calling the CSV writer.
func printCSVResultsForRegions(result *schema.RegionResult, cfg *contract.Config) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		csvWriter := csv.NewWriter(w)
		defer csvWriter.Flush()
		return writeCSVResultsForRegions(csvWriter, result)
	}, "Wrote CSV")
}

// printRegionTable handles opening the file and calling the table writer.
func printRegionTable(result *schema.RegionResult, cfg *contract.Config) error {
	return writeWithFile(cfg, func(w io.Writer) error {
		return writeRegionTable(w, result)
	}, "Wrote table")
}

// writeRegionTable generates and writes the index region table.
func writeRegionTable(w io.Writer, result *schema.RegionResult) error {
	table := tablewriter.NewWriter(w)

	// 1. Define Headers
	headers := []string{"Region", "Lat Min", "Lat Max", "Lon Min", "Lon Max", "Description"}
	table.Header(headers)

	// 2. Configure Alignment
	table.Configure(func(cfg *tablewriter.Config) {
		cfg.Row.Alignment.Global = tw.AlignRight
	})

	// 3. Prepare Data Rows
	var data [][]string
	for _, region := range result.Regions {
		row := []string{
			region.Name,                             // Region name
			fmt.Sprintf("%g", region.Bounds.LatMin), // Southern bound
			fmt.Sprintf("%g", region.Bounds.LatMax), // Northern bound
			fmt.Sprintf("%g", region.Bounds.LonMin), // Western bound
			fmt.Sprintf("%g", region.Bounds.LonMax), // Eastern bound
			region.Description,                      // Description
		}
		data = append(data, row)
	}

	// 4. Render the table
	if err := table.Bulk(data); err != nil {
		return err
	}
	return table.Render()
}

// writeCSVResultsForRegions writes the index regions to a CSV writer.
func writeCSVResultsForRegions(w *csv.Writer, result *schema.RegionResult) error {
	// 1. Write Header Row
	header := []string{
		"region",
		"lat_min",
		"lat_max",
		"lon_min",
		"lon_max",
		"description",
	}
	if err := w.Write(header); err != nil {
		return err
	}

	// 2. Write Data Rows
	for _, region := range result.Regions {
		row := []string{
			region.Name,                             // Region name
			fmt.Sprintf("%g", region.Bounds.LatMin), // Southern bound
			fmt.Sprintf("%g", region.Bounds.LatMax), // Northern bound
			fmt.Sprintf("%g", region.Bounds.LonMin), // Western bound
			fmt.Sprintf("%g", region.Bounds.LonMax), // Eastern bound
			region.Description,                      // Description
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	return nil
}
